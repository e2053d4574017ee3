package ring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMontgomeryRoundTrip(t *testing.T) {
	q := uint64(12289)
	bred := BRedParams(q)
	mred := MRedParams(q)

	for _, a := range []uint64{0, 1, 2, 12288, 6144, 9999} {
		m := MForm(BRedAdd(a, q, bred), q, bred)
		back := InvMForm(m, q, mred)
		require.Equal(t, a, back)
	}
}

func TestMRedMatchesPlainMultiplication(t *testing.T) {
	q := uint64(12289)
	bred := BRedParams(q)
	mred := MRedParams(q)

	for _, a := range []uint64{3, 100, 8191} {
		for _, b := range []uint64{5, 200, 4096} {
			am := MForm(a, q, bred)
			bm := MForm(b, q, bred)
			gotM := MRed(am, bm, q, mred)
			got := InvMForm(gotM, q, mred)
			want := (a * b) % q
			require.Equal(t, want, got)
		}
	}
}

func TestBRedMatchesPlainMultiplication(t *testing.T) {
	q := uint64(12289)
	bred := BRedParams(q)
	for _, a := range []uint64{3, 100, 8191, 12288} {
		for _, b := range []uint64{5, 200, 4096, 12288} {
			require.Equal(t, (a*b)%q, BRed(a, b, q, bred))
		}
	}
}

func TestModExp(t *testing.T) {
	q := uint64(12289)
	require.Equal(t, uint64(1), ModExp(7, 0, q))
	require.Equal(t, uint64(7), ModExp(7, 1, q))

	want := uint64(1)
	for i := 0; i < 10; i++ {
		want = (want * 7) % q
	}
	require.Equal(t, want, ModExp(7, 10, q))
}

func TestCRed(t *testing.T) {
	q := uint64(100)
	require.Equal(t, uint64(0), CRed(100, q))
	require.Equal(t, uint64(50), CRed(50, q))
	require.Equal(t, uint64(99), CRed(199, q))
}
