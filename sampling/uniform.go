// Package sampling implements the probability distributions drawn over
// R_q during key and randomness generation: uniform, centered-binomial, and
// discrete-Gaussian. Every sampler consumes a prng.Stream by reference and
// advances it by exactly the bit budget the algorithm specifies, so results
// are bit-for-bit deterministic for a fixed seed.
package sampling

import (
	"fmt"
	"math/big"

	"github.com/vaultgrove/secagg/kerrors"
	"github.com/vaultgrove/secagg/prng"
	"github.com/vaultgrove/secagg/ring"
)

// Uniform draws a coefficient-representation polynomial of degree table.N
// with each coefficient uniform in [0, q). Each coefficient is produced by
// rejection sampling: draw ceil(log2(q)/64) 64-bit words from stream, form
// the big-endian integer they represent, and redraw on a value outside
// [0, q) so the result is exactly uniform rather than biased by a modular
// reduction.
func Uniform[T any](table *ring.Table[T], stream prng.Stream) (*ring.Polynomial[T], error) {
	bitLen := table.Modulus.BitLen()
	words := (bitLen + 63) / 64
	topBits := bitLen - (words-1)*64
	out := ring.NewPolynomial(table, ring.Coefficient)
	for i := range out.Coeffs {
		v, err := rejectionSampleBelow(stream, table.Modulus, words, topBits)
		if err != nil {
			return nil, err
		}
		out.Coeffs[i] = ring.ImportBig(table.Engine, v)
	}
	return out, nil
}

// rejectionSampleBelow draws `words` 64-bit words from stream, masks the
// most significant word down to topBits bits so the candidate never spans
// more than bitLen(bound) bits, interprets the result as a big-endian
// unsigned integer, and retries until it is strictly less than bound. The
// mask keeps acceptance probability >= 1/2 regardless of how far bound's
// bit length sits below a 64-bit word boundary: without it, a bound such as
// the 80-bit aggregation modulus would be compared against a full 128-bit
// candidate and accept with probability on the order of 2^-49.
func rejectionSampleBelow(stream prng.Stream, bound *big.Int, words, topBits int) (*big.Int, error) {
	var topMask uint64 = ^uint64(0)
	if topBits < 64 {
		topMask = (uint64(1) << uint(topBits)) - 1
	}
	for {
		buf := make([]uint64, words)
		for i := 0; i < words; i++ {
			v, err := stream.Rand64()
			if err != nil {
				return nil, fmt.Errorf("%w: %v", kerrors.ErrPRNG, err)
			}
			buf[i] = v
		}
		buf[0] &= topMask
		candidate := wordsToBig(buf)
		if candidate.Cmp(bound) < 0 {
			return candidate, nil
		}
	}
}

func wordsToBig(words []uint64) *big.Int {
	v := new(big.Int)
	for _, w := range words {
		v.Lsh(v, 64)
		v.Or(v, new(big.Int).SetUint64(w))
	}
	return v
}
