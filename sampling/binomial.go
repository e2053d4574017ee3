package sampling

import (
	"fmt"
	"math/bits"

	"github.com/vaultgrove/secagg/kerrors"
	"github.com/vaultgrove/secagg/prng"
	"github.com/vaultgrove/secagg/ring"
)

// MaxVariance bounds the variance accepted by CenteredBinomial: 4*2^20,
// comfortably above any variance this engine ever requests (the fixed
// stddev of 4.5 needs v=20) while still rejecting pathological inputs that
// would make the per-coefficient bit budget absurd.
const MaxVariance = 4 << 20

// CenteredBinomial draws a coefficient-representation polynomial of degree
// table.N whose coefficients follow the centered binomial distribution with
// the given integer variance v: each coefficient is
// popcount(first v bits) - popcount(next v bits), mean 0 and variance v,
// reduced mod q (negative values map to q - |x|).
//
// The 2v random bits per coefficient are drawn 64 at a time: a loop
// consumes one Rand64 per 64 bits, accumulating a running popcount
// difference, with any remaining 1-63 bits handled by a final masked draw.
// This exact bit budget (not a convenience shortcut) is required so results
// are reproducible bit-for-bit given a fixed seed.
func CenteredBinomial[T any](table *ring.Table[T], v int, stream prng.Stream) (*ring.Polynomial[T], error) {
	if v < 0 || v > MaxVariance {
		return nil, fmt.Errorf("%w: variance %d out of range [0, %d]", kerrors.ErrInvalidArgument, v, MaxVariance)
	}
	out := ring.NewPolynomial(table, ring.Coefficient)
	for i := range out.Coeffs {
		x, err := drawCenteredBinomial(v, stream)
		if err != nil {
			return nil, err
		}
		out.Coeffs[i] = signedToRing(table.Engine, x)
	}
	return out, nil
}

// drawCenteredBinomial draws 2*v random bits and returns
// popcount(first v) - popcount(next v).
func drawCenteredBinomial(v int, stream prng.Stream) (int, error) {
	total := 0
	remaining := v
	for remaining >= 64 {
		a, err := stream.Rand64()
		if err != nil {
			return 0, err
		}
		total += bits.OnesCount64(a)
		remaining -= 64
	}
	if remaining > 0 {
		a, err := drawMaskedBits(remaining, stream)
		if err != nil {
			return 0, err
		}
		total += bits.OnesCount64(a)
	}

	remaining = v
	for remaining >= 64 {
		b, err := stream.Rand64()
		if err != nil {
			return 0, err
		}
		total -= bits.OnesCount64(b)
		remaining -= 64
	}
	if remaining > 0 {
		b, err := drawMaskedBits(remaining, stream)
		if err != nil {
			return 0, err
		}
		total -= bits.OnesCount64(b)
	}
	return total, nil
}

// drawMaskedBits draws the smallest whole number of bytes covering n bits
// (1 <= n <= 63) and masks off the excess high bits.
func drawMaskedBits(n int, stream prng.Stream) (uint64, error) {
	nBytes := (n + 7) / 8
	var v uint64
	for i := 0; i < nBytes; i++ {
		b, err := stream.Rand8()
		if err != nil {
			return 0, err
		}
		v = v<<8 | uint64(b)
	}
	mask := uint64(1)<<uint(n) - 1
	return v & mask, nil
}

// signedToRing maps a small signed integer into the ring: non-negative
// values import directly, negative values import |x| and negate, which for
// any width T computes q - |x| via the engine's own modular negation.
func signedToRing[T any](engine ring.Engine[T], x int) T {
	if x >= 0 {
		return engine.ImportUint64(uint64(x))
	}
	return engine.Neg(engine.ImportUint64(uint64(-x)))
}
