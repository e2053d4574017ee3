package ring

import (
	"crypto/rand"
	"math/big"
)

// IsPrime reports whether q is prime, using the Baillie-PSW test exposed by
// math/big (adequate for the handful of one-off checks performed when a
// Table is constructed; this is never on a per-coefficient hot path).
func IsPrime(q *big.Int) bool {
	return q.ProbablyPrime(32)
}

// factorize returns the distinct prime factors of m. Small factors are
// peeled off by trial division; the remaining cofactor, which for an 80-bit
// modulus can itself be a large semiprime, is split with Pollard's rho
// rather than continuing trial division to its square root — q-1 for the
// aggregation modulus is far too large (order 2^80) for sqrt-bound trial
// division to finish in any reasonable time.
func factorize(m *big.Int) []*big.Int {
	n := new(big.Int).Set(m)
	factorSet := make(map[string]*big.Int)

	trialLimit := int64(1 << 20)
	two := big.NewInt(2)
	for new(big.Int).Mod(n, two).Sign() == 0 {
		factorSet["2"] = two
		n.Div(n, two)
	}
	for d := int64(3); d < trialLimit && n.Cmp(big.NewInt(1)) > 0; d += 2 {
		dBig := big.NewInt(d)
		for new(big.Int).Mod(n, dBig).Sign() == 0 {
			factorSet[dBig.String()] = dBig
			n.Div(n, dBig)
		}
	}

	if n.Cmp(big.NewInt(1)) > 0 {
		for _, p := range fullFactor(n) {
			factorSet[p.String()] = p
		}
	}

	factors := make([]*big.Int, 0, len(factorSet))
	for _, p := range factorSet {
		factors = append(factors, p)
	}
	return factors
}

// fullFactor returns the distinct prime factors of n (n > 1, already known
// to have no small factors below the trial-division limit), via recursive
// Pollard's rho splitting.
func fullFactor(n *big.Int) []*big.Int {
	if n.ProbablyPrime(32) {
		return []*big.Int{new(big.Int).Set(n)}
	}
	d := pollardRho(n)
	left := fullFactor(d)
	right := fullFactor(new(big.Int).Div(n, d))
	return append(left, right...)
}

// pollardRho finds a nontrivial factor of composite n using Floyd's cycle
// detection over the map x -> x^2+c mod n, retrying with a new random c on
// failure.
func pollardRho(n *big.Int) *big.Int {
	if n.Bit(0) == 0 {
		return big.NewInt(2)
	}
	one := big.NewInt(1)
	for {
		c, _ := rand.Int(rand.Reader, n)
		if c.Sign() == 0 {
			c = big.NewInt(1)
		}
		x := big.NewInt(2)
		y := big.NewInt(2)
		d := big.NewInt(1)

		f := func(v *big.Int) *big.Int {
			r := new(big.Int).Mul(v, v)
			r.Add(r, c)
			r.Mod(r, n)
			return r
		}

		for d.Cmp(one) == 0 {
			x = f(x)
			y = f(f(y))
			diff := new(big.Int).Sub(x, y)
			diff.Abs(diff)
			if diff.Sign() == 0 {
				d.Set(n)
				break
			}
			d = new(big.Int).GCD(nil, nil, diff, n)
		}
		if d.Cmp(n) != 0 && d.Cmp(one) != 0 {
			return d
		}
		// d == n (cycle collapsed) or a degenerate case: retry with new c.
	}
}

// primitiveRoot finds the smallest primitive root g of prime q, given the
// distinct prime factors of q-1.
func primitiveRoot(q *big.Int, factors []*big.Int) *big.Int {
	qMinus1 := new(big.Int).Sub(q, big.NewInt(1))
	g := big.NewInt(1)
	one := big.NewInt(1)

	// q fits in 64 bits for every modulus this repo actually builds a
	// Table over except the 80-bit aggregation modulus, so the 64-bit
	// Barrett-reduction ModExp serves the common case; the 80-bit case
	// falls back to big.Int.Exp, which has no 64-bit-word restriction.
	fitsUint64 := q.BitLen() <= 64
	var q64 uint64
	if fitsUint64 {
		q64 = q.Uint64()
	}

	for {
		g.Add(g, one)
		isPrimitive := true
		for _, f := range factors {
			e := new(big.Int).Div(qMinus1, f)
			var residue *big.Int
			if fitsUint64 && e.IsUint64() {
				residue = new(big.Int).SetUint64(ModExp(g.Uint64(), e.Uint64(), q64))
			} else {
				residue = new(big.Int).Exp(g, e, q)
			}
			if residue.Cmp(one) == 0 {
				isPrimitive = false
				break
			}
		}
		if isPrimitive {
			return g
		}
	}
}
