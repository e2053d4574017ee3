package ring

import (
	"fmt"
	"math/big"
	"math/bits"

	"github.com/vaultgrove/secagg/kerrors"
)

// Table holds the fixed NTT twiddle factors for a ring Z_q[X]/(X^N+1),
// generic over the integer width T used to represent elements mod q. Two
// instantiations are used throughout this module: Table[uint64] for the
// NewHope modulus p (the key-serialization channel) and Table[Uint128] for
// the 80-bit aggregation modulus q. Both are built by the same constructor,
// parameterized only by the Engine[T] passed in.
//
// RootsForward and RootsBackward hold bit-reversed powers of a primitive
// 2N-th root of unity (psi) and its inverse, already in Montgomery form, so
// that the NTT butterfly loop never leaves Montgomery domain.
type Table[T any] struct {
	N       int
	LogN    int
	Modulus *big.Int
	Engine  Engine[T]

	RootsForward  []T
	RootsBackward []T
	NInv          T
}

// NewTable builds the NTT tables for a ring of degree N over a prime
// modulus, using engine for all arithmetic. N must be a power of two and
// modulus must be prime and congruent to 1 mod 2N (the condition for a
// primitive 2N-th root of unity to exist mod q).
func NewTable[T any](n int, modulus *big.Int, engine Engine[T]) (*Table[T], error) {
	if n <= 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: N=%d is not a power of two", kerrors.ErrInvalidArgument, n)
	}
	if !IsPrime(modulus) {
		return nil, fmt.Errorf("%w: modulus %s is not prime", kerrors.ErrInvalidArgument, modulus)
	}

	nthRoot := big.NewInt(int64(2 * n))
	qMinus1 := new(big.Int).Sub(modulus, big.NewInt(1))
	rem := new(big.Int).Mod(qMinus1, nthRoot)
	if rem.Sign() != 0 {
		return nil, fmt.Errorf("%w: modulus %s has no primitive %d-th root of unity", kerrors.ErrInvalidArgument, modulus, 2*n)
	}

	factors := factorize(qMinus1)
	g := primitiveRoot(modulus, factors)

	// psi = g^((q-1)/2N) mod q is a primitive 2N-th root of unity.
	exp := new(big.Int).Div(qMinus1, nthRoot)
	psi := new(big.Int).Exp(g, exp, modulus)
	psiInv := new(big.Int).ModInverse(psi, modulus)

	logN := bits.Len(uint(n)) - 1

	forward := make([]T, n)
	backward := make([]T, n)

	powPsi := big.NewInt(1)
	powPsiInv := big.NewInt(1)
	for i := 0; i < n; i++ {
		j := bitReverse(uint64(i), logN)
		forward[j] = ImportBig(engine, powPsi)
		backward[j] = ImportBig(engine, powPsiInv)
		powPsi.Mul(powPsi, psi)
		powPsi.Mod(powPsi, modulus)
		powPsiInv.Mul(powPsiInv, psiInv)
		powPsiInv.Mod(powPsiInv, modulus)
	}

	nBig := big.NewInt(int64(n))
	nInvBig := new(big.Int).ModInverse(nBig, modulus)

	return &Table[T]{
		N:             n,
		LogN:          logN,
		Modulus:       new(big.Int).Set(modulus),
		Engine:        engine,
		RootsForward:  forward,
		RootsBackward: backward,
		NInv:          ImportBig(engine, nInvBig),
	}, nil
}

// ImportBig lifts a residue already reduced mod q (0 <= v < q) into
// Montgomery form, by routing through ImportUint64 when it fits a machine
// word and otherwise folding it down a bit at a time through the engine's
// own Montgomery-domain addition (used for the 128-bit path, where twiddle
// factors and coefficients can exceed 2^64).
func ImportBig[T any](engine Engine[T], v *big.Int) T {
	if v.IsUint64() {
		return engine.ImportUint64(v.Uint64())
	}
	if v.Sign() == 0 {
		return engine.ImportUint64(0)
	}
	// v does not fit a uint64: Montgomery domain preserves addition
	// (a*R + b*R = (a+b)*R, mod q), so import v by folding it down via
	// repeated halving: v = 2*(v/2) + (v&1).
	half := new(big.Int).Rsh(v, 1)
	bit := v.Bit(0)
	halfImported := ImportBig(engine, half)
	doubled := engine.Add(halfImported, halfImported)
	if bit == 1 {
		one := engine.ImportUint64(1)
		doubled = engine.Add(doubled, one)
	}
	return doubled
}

// bitReverse reverses the lowest logN bits of x.
func bitReverse(x uint64, logN int) int {
	var r uint64
	for i := 0; i < logN; i++ {
		r = (r << 1) | (x & 1)
		x >>= 1
	}
	return int(r)
}
