package secagg

import (
	"fmt"

	"github.com/vaultgrove/secagg/kerrors"
)

// Config gathers SecAggEngine's construction parameters. There is no
// environment-variable or on-disk path into these values (spec 6); callers
// build one explicitly and pass it to NewSecAggEngine.
type Config struct {
	// InputSize is the total plaintext length in coefficients; must be a
	// positive multiple of N.
	InputSize int
	// LogT is the plaintext bit-width; t = 2^LogT + 1.
	LogT int
	// Seed is the optional 32-byte HKDF seed. If nil, a fresh seed is
	// generated and retrievable via Engine.GetSeed.
	Seed []byte
	// StdDev is the error standard deviation; zero selects DefaultStdDev.
	StdDev float64
}

// Validate checks Config against the InvalidArgument conditions listed in
// spec 7, independent of engine construction, so a future caller (CLI,
// RPC layer) can validate input before paying for Table/PRNG setup.
func (c Config) Validate() error {
	if c.InputSize <= 0 || c.InputSize%N != 0 {
		return fmt.Errorf("%w: input_size %d is not a positive multiple of N=%d", kerrors.ErrInvalidArgument, c.InputSize, N)
	}
	logQ := QModulus().BitLen()
	if c.LogT <= 0 {
		return fmt.Errorf("%w: log_t must be positive, got %d", kerrors.ErrInvalidArgument, c.LogT)
	}
	if c.LogT >= logQ-1 {
		return fmt.Errorf("%w: log_t %d must be < log_q-1 (%d)", kerrors.ErrInvalidArgument, c.LogT, logQ-1)
	}
	if c.StdDev < 0 {
		return fmt.Errorf("%w: stddev %v is negative", kerrors.ErrInvalidArgument, c.StdDev)
	}
	if c.Seed != nil && len(c.Seed) != 32 {
		return fmt.Errorf("%w: seed must be 32 bytes, got %d", kerrors.ErrPRNG, len(c.Seed))
	}
	return nil
}

func (c Config) stdDevOrDefault() float64 {
	if c.StdDev == 0 {
		return DefaultStdDev
	}
	return c.StdDev
}
