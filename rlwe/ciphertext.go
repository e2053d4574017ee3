package rlwe

import (
	"fmt"

	"github.com/vaultgrove/secagg/kerrors"
	"github.com/vaultgrove/secagg/ring"
)

// Ciphertext is a tuple of NTT-form polynomials (Value[0]=c0, Value[1]=c1)
// over a fixed modulus, tagged with the power of the secret key they were
// produced against and a running noise bound. The secure-aggregation flow
// never multiplies ciphertexts, so len(Value) stays 2 and PowerOfS stays 1
// throughout, but both are tracked explicitly rather than assumed.
type Ciphertext struct {
	Value       []*ring.Polynomial[ring.Uint128]
	Table       *ring.Table[ring.Uint128]
	PowerOfS    int
	ErrorBound  float64
	ErrorParams *ErrorParams
}

// Len returns the number of component polynomials (2 in this flow).
func (c *Ciphertext) Len() int { return len(c.Value) }

// Component returns the i-th component polynomial.
func (c *Ciphertext) Component(i int) *ring.Polynomial[ring.Uint128] { return c.Value[i] }

// LogModulus returns the bit length of the ciphertext's modulus.
func (c *Ciphertext) LogModulus() int { return c.Table.Modulus.BitLen() }

// NumCoeffs returns the ring degree N.
func (c *Ciphertext) NumCoeffs() int { return c.Table.N }

// Error returns the tracked noise bound.
func (c *Ciphertext) Error() float64 { return c.ErrorBound }

// Add returns a new ciphertext whose components are the coordinatewise sum
// of c and other's, and whose error bound is the sum of both. Both
// ciphertexts must share modulus and PowerOfS (spec 4.7).
func (c *Ciphertext) Add(other *Ciphertext) (*Ciphertext, error) {
	if c.Table != other.Table {
		return nil, fmt.Errorf("%w: ciphertexts built over different moduli", kerrors.ErrParamsMismatch)
	}
	if c.PowerOfS != other.PowerOfS {
		return nil, fmt.Errorf("%w: %d vs %d", kerrors.ErrPowerOfSMismatch, c.PowerOfS, other.PowerOfS)
	}
	if len(c.Value) != len(other.Value) {
		return nil, fmt.Errorf("%w: component count %d vs %d", kerrors.ErrParamsMismatch, len(c.Value), len(other.Value))
	}
	sum := make([]*ring.Polynomial[ring.Uint128], len(c.Value))
	for i := range sum {
		s, err := c.Value[i].Add(other.Value[i])
		if err != nil {
			return nil, err
		}
		sum[i] = s
	}
	return &Ciphertext{
		Value:       sum,
		Table:       c.Table,
		PowerOfS:    c.PowerOfS,
		ErrorBound:  c.ErrorBound + other.ErrorBound,
		ErrorParams: c.ErrorParams,
	}, nil
}
