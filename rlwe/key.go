// Package rlwe implements symmetric RLWE secret keys, ciphertexts, and the
// encrypt/decrypt/add operations the secure-aggregation flow exercises. It
// never multiplies ciphertexts, switches keys, or relinearizes — this is a
// small slice of the full RLWE toolkit, scoped to what additive secure
// aggregation needs.
package rlwe

import (
	"fmt"
	"math/big"

	"github.com/vaultgrove/secagg/kerrors"
	"github.com/vaultgrove/secagg/prng"
	"github.com/vaultgrove/secagg/ring"
	"github.com/vaultgrove/secagg/sampling"
)

// SecretKey is a small-norm ring element over the 80-bit aggregation
// modulus q, always stored in NTT form. Its coefficient-form preimage has
// coefficients drawn from the centered binomial distribution of the given
// variance.
type SecretKey struct {
	Value    *ring.Polynomial[ring.Uint128]
	Table    *ring.Table[ring.Uint128]
	LogT     int
	Variance int
}

// SampleKey draws a fresh secret key over table: a centered-binomial
// coefficient vector of the given variance, converted to NTT form.
func SampleKey(table *ring.Table[ring.Uint128], logT, variance int, stream prng.Stream) (*SecretKey, error) {
	coeffs, err := sampling.CenteredBinomial(table, variance, stream)
	if err != nil {
		return nil, err
	}
	return &SecretKey{
		Value:    coeffs.ToNTT(),
		Table:    table,
		LogT:     logT,
		Variance: variance,
	}, nil
}

// CreateKeyFromCoeffs wraps an externally supplied coefficient vector,
// already reduced mod q, into a SecretKey by taking its NTT. Each entry may
// be as large as q (up to 80 bits), so the vector is *big.Int rather than
// uint64.
func CreateKeyFromCoeffs(table *ring.Table[ring.Uint128], logT, variance int, coeffsModQ []*big.Int) (*SecretKey, error) {
	if len(coeffsModQ) != table.N {
		return nil, fmt.Errorf("%w: expected %d coefficients, got %d", kerrors.ErrInvalidArgument, table.N, len(coeffsModQ))
	}
	poly := ring.NewPolynomial(table, ring.Coefficient)
	for i, c := range coeffsModQ {
		poly.Coeffs[i] = ring.ImportBig(table.Engine, c)
	}
	return &SecretKey{Value: poly.ToNTT(), Table: table, LogT: logT, Variance: variance}, nil
}

// Add returns a new key whose NTT-form value is k1.Value + k2.Value. k1 and
// k2 must share table, LogT and Variance.
func (k1 *SecretKey) Add(k2 *SecretKey) (*SecretKey, error) {
	if k1.Table != k2.Table || k1.LogT != k2.LogT || k1.Variance != k2.Variance {
		return nil, fmt.Errorf("%w: keys built with different parameters", kerrors.ErrParamsMismatch)
	}
	sum, err := k1.Value.Add(k2.Value)
	if err != nil {
		return nil, err
	}
	return &SecretKey{Value: sum, Table: k1.Table, LogT: k1.LogT, Variance: k1.Variance}, nil
}

// centeredRepresentative maps x in [0, modulus) to its centered
// representative in (-modulus/2, modulus/2]: x if x <= modulus/2, x-modulus
// otherwise. This is the single canonical map spec 9 requires for every
// modulus-balanced conversion; both ConvertKey and CreateKeyFromCoeffsModP
// route through it rather than approximating.
func centeredRepresentative(x, modulus *big.Int) *big.Int {
	half := new(big.Int).Rsh(modulus, 1)
	if x.Cmp(half) <= 0 {
		return new(big.Int).Set(x)
	}
	return new(big.Int).Sub(x, modulus)
}

// ConvertKey performs the modulus-balanced conversion from q to p: the
// inverse-NTT coefficient vector mod q is lifted to the centered
// representative c' in (-q/2, q/2], then reduced mod p (spec 4.6, 9).
func (k *SecretKey) ConvertKey(pTable *ring.Table[uint64]) ([]uint64, error) {
	coeffPoly := k.Value.ToCoefficient()
	qEngine := k.Table.Engine
	qModulus := k.Table.Modulus
	pModulus := pTable.Modulus

	out := make([]uint64, len(coeffPoly.Coeffs))
	for i, c := range coeffPoly.Coeffs {
		x := qEngine.ExportBig(c)
		centered := centeredRepresentative(x, qModulus)
		reduced := new(big.Int).Mod(centered, pModulus)
		out[i] = reduced.Uint64()
	}
	return out, nil
}

// CreateKeyFromCoeffsModP is the inverse of ConvertKey: interpret
// coeffsModP as centered representatives mod p, lift them to coefficients
// mod q (c if c <= p/2 else q-(p-c)), and wrap the result into a SecretKey
// over qTable.
func CreateKeyFromCoeffsModP(qTable *ring.Table[ring.Uint128], pModulus *big.Int, logT, variance int, coeffsModP []uint64) (*SecretKey, error) {
	qModulus := qTable.Modulus
	coeffsModQ := make([]*big.Int, len(coeffsModP))
	for i, c := range coeffsModP {
		cBig := new(big.Int).SetUint64(c)
		centered := centeredRepresentative(cBig, pModulus)
		lifted := new(big.Int).Mod(centered, qModulus)
		coeffsModQ[i] = lifted
	}
	return CreateKeyFromCoeffs(qTable, logT, variance, coeffsModQ)
}
