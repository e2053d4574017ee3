// Package prng provides two seedable, deterministic pseudo-random byte
// streams used by the sampling, RLWE and engine layers: an HKDF-SHA-256
// variant and a ChaCha20 variant, both behind the same small interface so an
// engine can be built against either without the call sites caring which.
package prng

import (
	"fmt"

	"github.com/vaultgrove/secagg/kerrors"
)

// Stream is the capability required of a pseudo-random byte source: draw a
// byte, draw a uint64, and report the seed length this implementation
// requires. Both HKDF and ChaCha20 streams satisfy it.
type Stream interface {
	Rand8() (byte, error)
	Rand64() (uint64, error)
	SeedLength() int
}

// bufferBytes is the number of output bytes produced per salt before the
// stream re-derives with an incremented salt counter (255*32, per both
// variants' re-salting rule).
const bufferBytes = 255 * 32

func rand64FromBytes(next func() (byte, error)) (uint64, error) {
	var v uint64
	for i := 0; i < 8; i++ {
		b, err := next()
		if err != nil {
			return 0, err
		}
		v = v<<8 | uint64(b)
	}
	return v, nil
}

func checkSeedLength(seed []byte, want int) error {
	if len(seed) != want {
		return fmt.Errorf("%w: want %d bytes, got %d", kerrors.ErrPRNG, want, len(seed))
	}
	return nil
}
