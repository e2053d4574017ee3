package rlwe

import (
	"math/big"

	"github.com/ALTree/bigfloat"
)

// ErrorParams holds the noise bounds derived from (log t, variance, N).
// These are informational only — spec 9 is explicit that error_bound must
// never gate functional behavior, only be reported for diagnostics and
// sanity assertions.
type ErrorParams struct {
	LogT             int
	Variance         int
	N                int
	BPlaintext       float64
	BEncryption      float64
	BScale           float64
}

// NewErrorParams computes the three noise bounds from the standard RLWE
// analysis referenced by spec 4.8:
//
//	B_plaintext  = t * sqrt(3N)
//	B_encryption = t * sqrt(N) * (sqrt(3) + 6*sigma)
//	B_scale      = sqrt(N) * sigma
//
// t = 2^logT + 1 and sigma = sqrt(variance). Computed via
// github.com/ALTree/bigfloat for headroom beyond math.Sqrt's float64 domain
// when N or t approach the sizes this engine's 80-bit modulus supports.
func NewErrorParams(logT, variance, n int) *ErrorParams {
	t := new(big.Float).SetInt(new(big.Int).Add(new(big.Int).Lsh(big.NewInt(1), uint(logT)), big.NewInt(1)))
	nBig := new(big.Float).SetInt64(int64(n))
	sqrtN := bigfloat.Sqrt(nBig)
	sigma := bigfloat.Sqrt(new(big.Float).SetInt64(int64(variance)))
	three := new(big.Float).SetInt64(3)
	sqrt3 := bigfloat.Sqrt(three)
	six := new(big.Float).SetInt64(6)

	bPlaintext := new(big.Float).Mul(t, bigfloat.Sqrt(new(big.Float).Mul(three, nBig)))
	bEncryption := new(big.Float).Mul(t, new(big.Float).Mul(sqrtN, new(big.Float).Add(sqrt3, new(big.Float).Mul(six, sigma))))
	bScale := new(big.Float).Mul(sqrtN, sigma)

	bp, _ := bPlaintext.Float64()
	be, _ := bEncryption.Float64()
	bs, _ := bScale.Float64()

	return &ErrorParams{
		LogT:        logT,
		Variance:    variance,
		N:           n,
		BPlaintext:  bp,
		BEncryption: be,
		BScale:      bs,
	}
}
