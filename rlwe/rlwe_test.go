package rlwe

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vaultgrove/secagg/prng"
	"github.com/vaultgrove/secagg/ring"
)

var testSeed = []byte{
	0x49, 0x0a, 0x42, 0x3d, 0x97, 0x9d, 0xc1, 0x07, 0xa1, 0xd7, 0xe9, 0x7b, 0x3b, 0xce, 0xa1, 0xdb,
	0x42, 0xf3, 0xa6, 0xd5, 0x75, 0xd2, 0x0c, 0x92, 0xb7, 0x35, 0xce, 0x0c, 0xee, 0x09, 0x7c, 0x98,
}

// newTestQTable builds a small NTT-friendly Uint128 ring (N=16, q=257)
// purely to exercise the rlwe package's logic quickly; the real engine uses
// the fixed 80-bit prime defined in package secagg.
func newTestQTable(t *testing.T) *ring.Table[ring.Uint128] {
	t.Helper()
	q := ring.Uint128{Hi: 0, Lo: 257}
	engine := ring.NewEngine128(q)
	table, err := ring.NewTable(16, big.NewInt(257), engine)
	require.NoError(t, err)
	return table
}

func newTestPTable(t *testing.T) *ring.Table[uint64] {
	t.Helper()
	q := uint64(97) // small NTT-friendly stand-in for the NewHope modulus p
	engine := ring.NewEngine64(q)
	table, err := ring.NewTable(16, big.NewInt(97), engine)
	require.NoError(t, err)
	return table
}

func newStream(t *testing.T) prng.Stream {
	t.Helper()
	s, err := prng.NewHKDFStream(testSeed)
	require.NoError(t, err)
	return s
}

func TestEncryptDecrypt_Identity(t *testing.T) {
	table := newTestQTable(t)
	stream := newStream(t)

	logT := 3 // t = 9
	variance := 2
	errParams := NewErrorParams(logT, variance, table.N)

	key, err := SampleKey(table, logT, variance, stream)
	require.NoError(t, err)

	aCoeffs, err := ring.ImportCoefficients(table, make([]uint64, table.N))
	require.NoError(t, err)
	for i := range aCoeffs.Coeffs {
		aCoeffs.Coeffs[i] = table.Engine.ImportUint64(uint64(i) % 7)
	}
	a := aCoeffs.ToNTT()

	plaintext := make([]uint64, table.N)
	t_ := PlaintextModulus(logT)
	for i := range plaintext {
		plaintext[i] = uint64(i) % t_
	}
	mCoeff, err := ring.ImportCoefficients(table, plaintext)
	require.NoError(t, err)
	m := mCoeff.ToNTT()

	ct, err := Encrypt(key, m, a, errParams, stream)
	require.NoError(t, err)
	require.Equal(t, 1, ct.PowerOfS)

	got, err := Decrypt(key, ct)
	require.NoError(t, err)
	require.Equal(t, plaintext, got)
}

func TestCiphertext_Add_RejectsPowerOfSMismatch(t *testing.T) {
	table := newTestQTable(t)
	zero := ring.NewPolynomial(table, ring.NTT)
	c1 := &Ciphertext{Value: []*ring.Polynomial[ring.Uint128]{zero, zero}, Table: table, PowerOfS: 1}
	c2 := &Ciphertext{Value: []*ring.Polynomial[ring.Uint128]{zero, zero}, Table: table, PowerOfS: 2}
	_, err := c1.Add(c2)
	require.Error(t, err)
}

func TestKeyAdd_RequiresMatchingParams(t *testing.T) {
	table := newTestQTable(t)
	stream := newStream(t)
	k1, err := SampleKey(table, 3, 2, stream)
	require.NoError(t, err)
	k2, err := SampleKey(table, 4, 2, stream)
	require.NoError(t, err)
	_, err = k1.Add(k2)
	require.Error(t, err)
}

func TestConvertKey_RoundTripsThroughCreateKeyFromCoeffsModP(t *testing.T) {
	qTable := newTestQTable(t)
	pTable := newTestPTable(t)
	stream := newStream(t)

	key, err := SampleKey(qTable, 3, 2, stream)
	require.NoError(t, err)

	coeffsModP, err := key.ConvertKey(pTable)
	require.NoError(t, err)

	reconstructed, err := CreateKeyFromCoeffsModP(qTable, pTable.Modulus, key.LogT, key.Variance, coeffsModP)
	require.NoError(t, err)

	require.True(t, key.Value.Equal(reconstructed.Value))
}

func TestConvertKey_AggregationCommutesWithConvert(t *testing.T) {
	qTable := newTestQTable(t)
	pTable := newTestPTable(t)
	stream := newStream(t)

	k1, err := SampleKey(qTable, 3, 2, stream)
	require.NoError(t, err)
	k2, err := SampleKey(qTable, 3, 2, stream)
	require.NoError(t, err)

	sum, err := k1.Add(k2)
	require.NoError(t, err)

	lhs, err := sum.ConvertKey(pTable)
	require.NoError(t, err)

	c1, err := k1.ConvertKey(pTable)
	require.NoError(t, err)
	c2, err := k2.ConvertKey(pTable)
	require.NoError(t, err)

	rhs := make([]uint64, len(c1))
	pModulus := pTable.Modulus.Uint64()
	for i := range rhs {
		rhs[i] = (c1[i] + c2[i]) % pModulus
	}

	require.Equal(t, rhs, lhs)
}
