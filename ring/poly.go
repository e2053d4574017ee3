package ring

import (
	"fmt"

	"github.com/vaultgrove/secagg/kerrors"
)

// Representation tags which domain a Polynomial's coefficients live in.
// Carrying this as a field on the value (rather than as two distinct Go
// types related by inheritance) keeps Add/Sub/Neg generic over both domains
// while still letting Encrypt/Decrypt/NTT-multiply reject a polynomial
// presented in the wrong domain at the call site.
type Representation int

const (
	Coefficient Representation = iota
	NTT
)

func (r Representation) String() string {
	if r == NTT {
		return "ntt"
	}
	return "coefficient"
}

// Polynomial is an element of Z_q[X]/(X^N+1), represented either as N
// coefficients in standard order (Coefficient) or as N values of the
// polynomial evaluated at the roots of X^N+1 (NTT). table is shared,
// read-only state (twiddle factors, modulus, Engine) owned by whichever
// RingParams produced this polynomial.
type Polynomial[T any] struct {
	Coeffs []T
	Repr   Representation
	table  *Table[T]
}

// NewPolynomial allocates a zero polynomial of degree table.N in the given
// representation.
func NewPolynomial[T any](table *Table[T], repr Representation) *Polynomial[T] {
	return &Polynomial[T]{
		Coeffs: make([]T, table.N),
		Repr:   repr,
		table:  table,
	}
}

// FromCoefficients builds a Coefficient-representation polynomial from
// already-imported (Montgomery-domain) values. The caller owns coeffs; it is
// not copied.
func FromCoefficients[T any](table *Table[T], coeffs []T) *Polynomial[T] {
	return &Polynomial[T]{Coeffs: coeffs, Repr: Coefficient, table: table}
}

// Table returns the NTT table this polynomial was built against.
func (p *Polynomial[T]) Table() *Table[T] { return p.table }

// Clone returns a deep copy.
func (p *Polynomial[T]) Clone() *Polynomial[T] {
	c := make([]T, len(p.Coeffs))
	copy(c, p.Coeffs)
	return &Polynomial[T]{Coeffs: c, Repr: p.Repr, table: p.table}
}

// ToNTT returns p transformed into NTT representation, leaving p unchanged
// unless it was already in NTT form (in which case the same value is
// returned untouched).
func (p *Polynomial[T]) ToNTT() *Polynomial[T] {
	if p.Repr == NTT {
		return p
	}
	out := p.Clone()
	Forward(p.table, out.Coeffs)
	out.Repr = NTT
	return out
}

// ToCoefficient returns p transformed into coefficient representation.
func (p *Polynomial[T]) ToCoefficient() *Polynomial[T] {
	if p.Repr == Coefficient {
		return p
	}
	out := p.Clone()
	Inverse(p.table, out.Coeffs)
	out.Repr = Coefficient
	return out
}

func (p *Polynomial[T]) checkCompatible(q *Polynomial[T]) error {
	if p.table != q.table {
		return fmt.Errorf("%w: polynomials built against different ring tables", kerrors.ErrParamsMismatch)
	}
	if p.Repr != q.Repr {
		return fmt.Errorf("%w: %s vs %s", kerrors.ErrRepresentationMismatch, p.Repr, q.Repr)
	}
	return nil
}

// Add returns p+q coefficient-wise. p and q must share a representation and
// ring table; Add itself is representation-agnostic since the NTT is
// linear, so the same code path serves both domains.
func (p *Polynomial[T]) Add(q *Polynomial[T]) (*Polynomial[T], error) {
	if err := p.checkCompatible(q); err != nil {
		return nil, err
	}
	e := p.table.Engine
	out := NewPolynomial(p.table, p.Repr)
	for i := range out.Coeffs {
		out.Coeffs[i] = e.Add(p.Coeffs[i], q.Coeffs[i])
	}
	return out, nil
}

// Sub returns p-q coefficient-wise.
func (p *Polynomial[T]) Sub(q *Polynomial[T]) (*Polynomial[T], error) {
	if err := p.checkCompatible(q); err != nil {
		return nil, err
	}
	e := p.table.Engine
	out := NewPolynomial(p.table, p.Repr)
	for i := range out.Coeffs {
		out.Coeffs[i] = e.Sub(p.Coeffs[i], q.Coeffs[i])
	}
	return out, nil
}

// Neg returns -p coefficient-wise.
func (p *Polynomial[T]) Neg() *Polynomial[T] {
	e := p.table.Engine
	out := NewPolynomial(p.table, p.Repr)
	for i := range out.Coeffs {
		out.Coeffs[i] = e.Neg(p.Coeffs[i])
	}
	return out
}

// ScalarMul returns p with every coefficient multiplied by the plain
// (non-Montgomery) scalar x mod q. This is linear in either representation
// — scaling every evaluation point by a constant is the same as scaling
// every coefficient by it — so it is valid whether p is in Coefficient or
// NTT form.
func (p *Polynomial[T]) ScalarMul(x uint64) *Polynomial[T] {
	e := p.table.Engine
	scalar := e.ImportUint64(x)
	out := NewPolynomial(p.table, p.Repr)
	for i := range out.Coeffs {
		out.Coeffs[i] = e.Mul(p.Coeffs[i], scalar)
	}
	return out
}

// MulNTT returns the pointwise (Hadamard) product of two NTT-representation
// polynomials, which corresponds to their ring product in coefficient
// representation. Both operands must already be in NTT form: multiplying
// coefficient-domain polynomials pointwise is not the ring product, so that
// case is rejected rather than silently computing the wrong thing.
func (p *Polynomial[T]) MulNTT(q *Polynomial[T]) (*Polynomial[T], error) {
	if p.Repr != NTT || q.Repr != NTT {
		return nil, fmt.Errorf("%w: MulNTT requires both operands in ntt representation", kerrors.ErrRepresentationMismatch)
	}
	if err := p.checkCompatible(q); err != nil {
		return nil, err
	}
	e := p.table.Engine
	out := NewPolynomial(p.table, NTT)
	for i := range out.Coeffs {
		out.Coeffs[i] = e.Mul(p.Coeffs[i], q.Coeffs[i])
	}
	return out, nil
}

// Substitute applies the Galois automorphism X -> X^k to p, returning
// Sum c_j X^j -> Sum c_j X^(jk mod 2N). k must be odd (so it is coprime to
// 2N for N a power of two, making the map a bijection on exponents); p must
// be in coefficient representation, since the substitution is not linear in
// the NTT evaluation domain the way Add/Sub/ScalarMul are. Because X^N =
// -1 in this ring, an exponent that lands in [N, 2N) after reduction folds
// back into [0, N) with a sign flip rather than simply reducing mod N.
func (p *Polynomial[T]) Substitute(k int) (*Polynomial[T], error) {
	if p.Repr != Coefficient {
		return nil, fmt.Errorf("%w: Substitute requires coefficient representation", kerrors.ErrRepresentationMismatch)
	}
	if k%2 == 0 {
		return nil, fmt.Errorf("%w: substitution exponent %d must be odd", kerrors.ErrInvalidArgument, k)
	}
	n := len(p.Coeffs)
	twoN := 2 * n
	kMod := ((k % twoN) + twoN) % twoN

	e := p.table.Engine
	out := NewPolynomial(p.table, Coefficient)
	for j, c := range p.Coeffs {
		exp := (j * kMod) % twoN
		idx := exp % n
		if exp < n {
			out.Coeffs[idx] = e.Add(out.Coeffs[idx], c)
		} else {
			out.Coeffs[idx] = e.Sub(out.Coeffs[idx], c)
		}
	}
	return out, nil
}

// Equal reports whether p and q have the same representation, table, and
// coefficients.
func (p *Polynomial[T]) Equal(q *Polynomial[T]) bool {
	if p.table != q.table || p.Repr != q.Repr || len(p.Coeffs) != len(q.Coeffs) {
		return false
	}
	e := p.table.Engine
	for i := range p.Coeffs {
		if !e.Equal(p.Coeffs[i], q.Coeffs[i]) {
			return false
		}
	}
	return true
}

// ImportCoefficients reduces and lifts plain uint64 coefficients (plaintext
// or small samples) into a Coefficient-representation Polynomial.
func ImportCoefficients[T any](table *Table[T], values []uint64) (*Polynomial[T], error) {
	if len(values) != table.N {
		return nil, fmt.Errorf("%w: expected %d coefficients, got %d", kerrors.ErrInvalidArgument, table.N, len(values))
	}
	return &Polynomial[T]{
		Coeffs: table.Engine.BatchReduce(values),
		Repr:   Coefficient,
		table:  table,
	}, nil
}
