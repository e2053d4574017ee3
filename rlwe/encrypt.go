package rlwe

import (
	"math/big"

	"github.com/vaultgrove/secagg/prng"
	"github.com/vaultgrove/secagg/ring"
	"github.com/vaultgrove/secagg/sampling"
)

// PlaintextModulus returns t = 2^logT + 1, the plaintext-modulus parameter
// applied to the error term during encryption (spec 4.8; resolved per the
// Open Question in spec 9 favoring t = 2^log_t + 1).
func PlaintextModulus(logT int) uint64 {
	return uint64(1)<<uint(logT) + 1
}

// Encrypt produces a fresh ciphertext under key s, encrypting NTT-form
// message m using precomputed NTT-form randomness a:
//
//  1. sample error e (coefficient form, centered binomial with key's
//     variance), convert to NTT;
//  2. c1 = a;
//  3. c0 = a*s + t*e + m;
//  4. negate c1, so (c0,c1) = (a*s + t*e + m, -a) and c0 + c1*s = t*e + m.
func Encrypt(s *SecretKey, m, a *ring.Polynomial[ring.Uint128], errParams *ErrorParams, stream prng.Stream) (*Ciphertext, error) {
	eCoeff, err := sampling.CenteredBinomial(s.Table, s.Variance, stream)
	if err != nil {
		return nil, err
	}
	e := eCoeff.ToNTT()
	t := PlaintextModulus(s.LogT)
	tE := e.ScalarMul(t)

	as, err := a.MulNTT(s.Value)
	if err != nil {
		return nil, err
	}
	c0, err := as.Add(tE)
	if err != nil {
		return nil, err
	}
	c0, err = c0.Add(m)
	if err != nil {
		return nil, err
	}
	c1 := a.Neg()

	return &Ciphertext{
		Value:       []*ring.Polynomial[ring.Uint128]{c0, c1},
		Table:       s.Table,
		PowerOfS:    1,
		ErrorBound:  errParams.BEncryption,
		ErrorParams: errParams,
	}, nil
}

// Decrypt recovers the plaintext coefficient vector (each in [0, t)) from
// ciphertext ct under key s:
//
//  1. accumulate d = c0 + c1*s (NTT-wise, since s is already in NTT form);
//  2. inverse-NTT d to coefficient form;
//  3. for each coefficient x in [0, q), take the centered representative
//     x' = x if x<=q/2 else x-q, then output ((x' mod t) + t) mod t.
func Decrypt(s *SecretKey, ct *Ciphertext) ([]uint64, error) {
	c0 := ct.Value[0]
	c1s, err := ct.Value[1].MulNTT(s.Value)
	if err != nil {
		return nil, err
	}
	d, err := c0.Add(c1s)
	if err != nil {
		return nil, err
	}
	d = d.ToCoefficient()

	t := new(big.Int).SetUint64(PlaintextModulus(s.LogT))
	qModulus := s.Table.Modulus
	engine := s.Table.Engine

	out := make([]uint64, len(d.Coeffs))
	for i, c := range d.Coeffs {
		x := engine.ExportBig(c)
		centered := centeredRepresentative(x, qModulus)
		reduced := new(big.Int).Mod(centered, t)
		out[i] = reduced.Uint64()
	}
	return out, nil
}
