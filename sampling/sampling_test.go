package sampling

import (
	"math/big"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/require"

	"github.com/vaultgrove/secagg/prng"
	"github.com/vaultgrove/secagg/ring"
)

var testSeed = []byte{
	0x49, 0x0a, 0x42, 0x3d, 0x97, 0x9d, 0xc1, 0x07, 0xa1, 0xd7, 0xe9, 0x7b, 0x3b, 0xce, 0xa1, 0xdb,
	0x42, 0xf3, 0xa6, 0xd5, 0x75, 0xd2, 0x0c, 0x92, 0xb7, 0x35, 0xce, 0x0c, 0xee, 0x09, 0x7c, 0x98,
}

func newTestTable(t *testing.T) *ring.Table[uint64] {
	t.Helper()
	q := uint64(12289)
	engine := ring.NewEngine64(q)
	table, err := ring.NewTable(2048, big.NewInt(int64(q)), engine)
	require.NoError(t, err)
	return table
}

func TestUniform_DeterministicAndInRange(t *testing.T) {
	table := newTestTable(t)
	s, err := prng.NewHKDFStream(testSeed)
	require.NoError(t, err)
	p, err := Uniform(table, s)
	require.NoError(t, err)
	require.Equal(t, ring.Coefficient, p.Repr)

	s2, err := prng.NewHKDFStream(testSeed)
	require.NoError(t, err)
	p2, err := Uniform(table, s2)
	require.NoError(t, err)
	require.True(t, p.Equal(p2))
}

// TestUniform_WideModulusTerminatesAndStaysInRange guards against biased
// rejection sampling on a modulus whose bit length is not a multiple of 64:
// without masking the top word down to bitLen(q) bits, a candidate this
// wide would be compared against q as a full 128-bit value and accept with
// probability on the order of 2^-(128-70), making this test hang rather
// than merely run slowly.
func TestUniform_WideModulusTerminatesAndStaysInRange(t *testing.T) {
	q := ring.Uint128{Hi: 0x3e, Lo: 0xb772311700b33d21} // 70-bit prime, == 1 mod 32
	engine := ring.NewEngine128(q)
	modulus, ok := new(big.Int).SetString("3eb772311700b33d21", 16)
	require.True(t, ok)
	table, err := ring.NewTable(16, modulus, engine)
	require.NoError(t, err)

	s, err := prng.NewHKDFStream(testSeed)
	require.NoError(t, err)

	p, err := Uniform(table, s)
	require.NoError(t, err)
	for _, c := range p.Coeffs {
		x := table.Engine.ExportBig(c)
		require.True(t, x.Cmp(modulus) < 0)
	}
}

func TestCenteredBinomial_MeanAndVarianceNearExpected(t *testing.T) {
	table := newTestTable(t)
	s, err := prng.NewHKDFStream(testSeed)
	require.NoError(t, err)

	v := 20
	p, err := CenteredBinomial(table, v, s)
	require.NoError(t, err)

	samples := make([]float64, len(p.Coeffs))
	for i, c := range p.Coeffs {
		x := table.Engine.ExportBig(c)
		centered := int64(x.Int64())
		qi := int64(table.Modulus.Int64())
		if centered > qi/2 {
			centered -= qi
		}
		samples[i] = float64(centered)
	}

	mean, err := stats.Mean(samples)
	require.NoError(t, err)
	variance, err := stats.Variance(samples)
	require.NoError(t, err)

	require.InDelta(t, 0, mean, 3)
	require.InDelta(t, float64(v), variance, float64(v))
}

func TestCenteredBinomial_RejectsNegativeAndTooLargeVariance(t *testing.T) {
	table := newTestTable(t)
	s, err := prng.NewHKDFStream(testSeed)
	require.NoError(t, err)

	_, err = CenteredBinomial(table, -1, s)
	require.Error(t, err)

	_, err = CenteredBinomial(table, MaxVariance+1, s)
	require.Error(t, err)
}

func TestGaussian_RejectsNegativeStddev(t *testing.T) {
	table := newTestTable(t)
	s, err := prng.NewHKDFStream(testSeed)
	require.NoError(t, err)

	_, err = Gaussian(table, -1, s)
	require.Error(t, err)
}

func TestGaussian_UsesRoundedVariance(t *testing.T) {
	table := newTestTable(t)
	s, err := prng.NewHKDFStream(testSeed)
	require.NoError(t, err)

	p, err := Gaussian(table, 4.5, s)
	require.NoError(t, err)
	require.Len(t, p.Coeffs, table.N)
}
