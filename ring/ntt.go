package ring

// Forward applies the negacyclic forward NTT to coeffs in place, using the
// Cooley-Tukey decimation-in-time butterfly: natural-order input, bit-
// reversed-order output, twiddle factors read from t.RootsForward in bit-
// reversed order. This is the textbook CT butterfly used throughout the lattice
// literature; a constant-geometry or unsafe-pointer-optimized variant is
// intentionally not used here, so the loop stays easy to audit against the
// algorithm description.
func Forward[T any](t *Table[T], coeffs []T) {
	n := t.N
	e := t.Engine
	tt := n
	for m := 1; m < n; m <<= 1 {
		tt >>= 1
		for i := 0; i < m; i++ {
			j1 := 2 * i * tt
			j2 := j1 + tt
			psi := t.RootsForward[m+i]
			for j := j1; j < j2; j++ {
				u := coeffs[j]
				v := e.Mul(coeffs[j+tt], psi)
				coeffs[j] = e.Add(u, v)
				coeffs[j+tt] = e.Sub(u, v)
			}
		}
	}
}

// Inverse applies the negacyclic inverse NTT to coeffs in place, using the
// matching Gentleman-Sande decimation-in-frequency butterfly (bit-reversed-
// order input, natural-order output), followed by a
// final scaling by N^-1 (in Montgomery form, via t.NInv).
func Inverse[T any](t *Table[T], coeffs []T) {
	n := t.N
	e := t.Engine
	tt := 1
	for m := n; m > 1; m >>= 1 {
		j1 := 0
		h := m >> 1
		for i := 0; i < h; i++ {
			j2 := j1 + tt
			psi := t.RootsBackward[h+i]
			for j := j1; j < j2; j++ {
				u := coeffs[j]
				v := coeffs[j+tt]
				coeffs[j] = e.Add(u, v)
				coeffs[j+tt] = e.Mul(e.Sub(u, v), psi)
			}
			j1 += tt << 1
		}
		tt <<= 1
	}
	for j := 0; j < n; j++ {
		coeffs[j] = e.Mul(coeffs[j], t.NInv)
	}
}
