package ring

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vaultgrove/secagg/kerrors"
)

func TestPolynomial_AddSubNeg(t *testing.T) {
	table := newUint64Table(t, 16, 257)
	engine := table.Engine

	av := make([]uint64, table.N)
	bv := make([]uint64, table.N)
	for i := range av {
		av[i] = engine.ImportUint64(uint64(i))
		bv[i] = engine.ImportUint64(uint64(2 * i))
	}
	a := FromCoefficients(table, av)
	b := FromCoefficients(table, bv)

	sum, err := a.Add(b)
	require.NoError(t, err)
	for i := range sum.Coeffs {
		require.True(t, engine.Equal(sum.Coeffs[i], engine.ImportUint64(uint64(3*i)%257)))
	}

	diff, err := sum.Sub(b)
	require.NoError(t, err)
	require.True(t, diff.Equal(a))

	negA := a.Neg()
	zero, err := a.Add(negA)
	require.NoError(t, err)
	for _, c := range zero.Coeffs {
		require.True(t, engine.Equal(c, engine.ImportUint64(0)))
	}
}

func TestPolynomial_RepresentationMismatchRejected(t *testing.T) {
	table := newUint64Table(t, 16, 257)
	a := NewPolynomial(table, Coefficient)
	b := a.ToNTT()

	_, err := a.Add(b)
	require.ErrorIs(t, err, kerrors.ErrRepresentationMismatch)
}

func TestPolynomial_MulNTTRequiresNTTForm(t *testing.T) {
	table := newUint64Table(t, 16, 257)
	a := NewPolynomial(table, Coefficient)
	b := NewPolynomial(table, Coefficient)

	_, err := a.MulNTT(b)
	require.ErrorIs(t, err, kerrors.ErrRepresentationMismatch)
}

func TestPolynomial_ToNTTToCoefficientRoundTrips(t *testing.T) {
	table := newUint64Table(t, 2048, 12289)
	engine := table.Engine
	coeffs := make([]uint64, table.N)
	for i := range coeffs {
		coeffs[i] = engine.ImportUint64(uint64(i % 7))
	}
	p := FromCoefficients(table, coeffs)
	back := p.ToNTT().ToCoefficient()
	require.True(t, p.Equal(back))
}

func TestImportCoefficients_RejectsWrongLength(t *testing.T) {
	table := newUint64Table(t, 16, 257)
	_, err := ImportCoefficients(table, []uint64{1, 2, 3})
	require.ErrorIs(t, err, kerrors.ErrInvalidArgument)
}

func TestPolynomial_Substitute(t *testing.T) {
	table := newUint64Table(t, 16, 257)
	engine := table.Engine

	// p(X) = X. Substitute(3) should give X^3.
	coeffs := make([]uint64, table.N)
	coeffs[1] = engine.ImportUint64(1)
	p := FromCoefficients(table, coeffs)

	out, err := p.Substitute(3)
	require.NoError(t, err)
	for i, c := range out.Coeffs {
		want := uint64(0)
		if i == 3 {
			want = 1
		}
		require.True(t, engine.Equal(c, engine.ImportUint64(want)), "coefficient %d", i)
	}

	// Substitute(17) folds exponent 17 into [N, 2N), which is -X^1 since
	// X^N = -1: coefficient 1 should become q-1, not 1.
	out, err = p.Substitute(17)
	require.NoError(t, err)
	for i, c := range out.Coeffs {
		want := uint64(0)
		if i == 1 {
			want = 256
		}
		require.True(t, engine.Equal(c, engine.ImportUint64(want)), "coefficient %d", i)
	}
}

func TestPolynomial_SubstituteRejectsEvenK(t *testing.T) {
	table := newUint64Table(t, 16, 257)
	p := NewPolynomial(table, Coefficient)
	_, err := p.Substitute(2)
	require.ErrorIs(t, err, kerrors.ErrInvalidArgument)
}

func TestPolynomial_SubstituteRejectsNTTForm(t *testing.T) {
	table := newUint64Table(t, 16, 257)
	p := NewPolynomial(table, Coefficient).ToNTT()
	_, err := p.Substitute(3)
	require.ErrorIs(t, err, kerrors.ErrRepresentationMismatch)
}

func TestImportBig_HandlesValuesWiderThanUint64(t *testing.T) {
	q := Uint128{Hi: 1 << 8, Lo: 1} // 2^72+1: odd, so 2^128 is invertible mod q; not prime, but fine for this arithmetic-only check
	engine := NewEngine128(q)
	big130 := new(big.Int).Lsh(big.NewInt(1), 70)
	v := ImportBig(engine, big130)
	got := engine.ExportBig(v)
	require.Equal(t, 0, got.Cmp(new(big.Int).Mod(big130, q.toBig())))
}
