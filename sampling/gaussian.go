package sampling

import (
	"fmt"
	"math"

	"github.com/vaultgrove/secagg/kerrors"
	"github.com/vaultgrove/secagg/prng"
	"github.com/vaultgrove/secagg/ring"
)

// Gaussian draws a coefficient-representation polynomial of degree table.N
// approximating the discrete Gaussian distribution with standard deviation
// stddev. The fast path used throughout the aggregation flow is a centered
// binomial with v = round(stddev^2): CBD(v) has variance v by construction
// and is within the statistical distance the aggregation protocol tolerates
// of a true discrete Gaussian of the same variance, at a fraction of the
// sampling cost. Failure: stddev < 0 is rejected.
func Gaussian[T any](table *ring.Table[T], stddev float64, stream prng.Stream) (*ring.Polynomial[T], error) {
	if stddev < 0 {
		return nil, fmt.Errorf("%w: stddev %v is negative", kerrors.ErrInvalidArgument, stddev)
	}
	v := int(math.Round(stddev * stddev))
	return CenteredBinomial(table, v, stream)
}

// GaussianExact draws a coefficient-representation polynomial approximating
// the discrete Gaussian with standard deviation stddev by convolution: each
// coefficient is the sum of k independent CBD(1) (two-coin) draws, with
// k = max(1, round(stddev^2)), so Var(X1+...+Xk) = k. The sum is mapped into
// the ring unscaled. The result follows CBD(k), the same distribution
// Gaussian produces for any stddev >= 0.71; a stddev whose square is not an
// integer is rounded, not matched exactly. This path is never exercised by
// the aggregation engine itself (which always calls Gaussian).
func GaussianExact[T any](table *ring.Table[T], stddev float64, stream prng.Stream) (*ring.Polynomial[T], error) {
	if stddev < 0 {
		return nil, fmt.Errorf("%w: stddev %v is negative", kerrors.ErrInvalidArgument, stddev)
	}
	k := int(math.Round(stddev * stddev))
	if k < 1 {
		k = 1
	}
	out := ring.NewPolynomial(table, ring.Coefficient)
	for i := range out.Coeffs {
		sum := 0
		for j := 0; j < k; j++ {
			x, err := drawCenteredBinomial(1, stream)
			if err != nil {
				return nil, err
			}
			sum += x
		}
		out.Coeffs[i] = signedToRing(table.Engine, sum)
	}
	return out, nil
}
