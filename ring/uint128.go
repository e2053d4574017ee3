package ring

import (
	"math/big"
	"math/bits"
)

// Uint128 is a fixed two-limb unsigned integer (Hi holds the high 64 bits).
// The 80-bit aggregation modulus q does not fit in a uint64, so the q-side
// ring is instantiated over this type instead of plain uint64; the
// p-side ring (NewHope, q_p = 12289) is instantiated over uint64 directly.
type Uint128 struct {
	Hi, Lo uint64
}

func u128FromBig(x *big.Int) Uint128 {
	var b [16]byte
	x.FillBytes(b[:])
	return Uint128{
		Hi: beUint64(b[0:8]),
		Lo: beUint64(b[8:16]),
	}
}

func (x Uint128) toBig() *big.Int {
	var b [16]byte
	putBeUint64(b[0:8], x.Hi)
	putBeUint64(b[8:16], x.Lo)
	return new(big.Int).SetBytes(b[:])
}

func beUint64(b []byte) uint64 {
	return uint64(b[0])<<56 | uint64(b[1])<<48 | uint64(b[2])<<40 | uint64(b[3])<<32 |
		uint64(b[4])<<24 | uint64(b[5])<<16 | uint64(b[6])<<8 | uint64(b[7])
}

func putBeUint64(b []byte, v uint64) {
	b[0] = byte(v >> 56)
	b[1] = byte(v >> 48)
	b[2] = byte(v >> 40)
	b[3] = byte(v >> 32)
	b[4] = byte(v >> 24)
	b[5] = byte(v >> 16)
	b[6] = byte(v >> 8)
	b[7] = byte(v)
}

func (x Uint128) cmp(y Uint128) int {
	switch {
	case x.Hi != y.Hi:
		if x.Hi < y.Hi {
			return -1
		}
		return 1
	case x.Lo != y.Lo:
		if x.Lo < y.Lo {
			return -1
		}
		return 1
	default:
		return 0
	}
}

func (x Uint128) isZero() bool { return x.Hi == 0 && x.Lo == 0 }

// add128 returns x+y truncated to 128 bits and the carry out.
func add128(x, y Uint128) (Uint128, uint64) {
	lo, c0 := bits.Add64(x.Lo, y.Lo, 0)
	hi, c1 := bits.Add64(x.Hi, y.Hi, c0)
	return Uint128{Hi: hi, Lo: lo}, c1
}

// sub128 returns x-y truncated to 128 bits and the borrow out.
func sub128(x, y Uint128) (Uint128, uint64) {
	lo, b0 := bits.Sub64(x.Lo, y.Lo, 0)
	hi, b1 := bits.Sub64(x.Hi, y.Hi, b0)
	return Uint128{Hi: hi, Lo: lo}, b1
}

// uint256 is the 4-limb product of two Uint128 values, most significant
// limb first.
type uint256 struct {
	w3, w2, w1, w0 uint64
}

// mul128 computes the full 256-bit product x*y via schoolbook multiplication
// on 64-bit limbs.
func mul128(x, y Uint128) uint256 {
	// Cross products of the four 64-bit halves.
	h0, l0 := bits.Mul64(x.Lo, y.Lo)
	h1, l1 := bits.Mul64(x.Lo, y.Hi)
	h2, l2 := bits.Mul64(x.Hi, y.Lo)
	h3, l3 := bits.Mul64(x.Hi, y.Hi)

	var w0, w1, w2, w3 uint64
	var c uint64

	w0 = l0

	w1, c = bits.Add64(h0, l1, 0)
	w1, c2 := bits.Add64(w1, l2, c)
	carry1 := c + c2

	w2, c = bits.Add64(h1, h2, 0)
	w2, c2 = bits.Add64(w2, l3, c)
	w2, c3 := bits.Add64(w2, carry1, c2)
	carry2 := c + c2 + c3

	w3 = h3 + carry2

	return uint256{w3: w3, w2: w2, w1: w1, w0: w0}
}

func (v uint256) toBig() *big.Int {
	var b [32]byte
	putBeUint64(b[0:8], v.w3)
	putBeUint64(b[8:16], v.w2)
	putBeUint64(b[16:24], v.w1)
	putBeUint64(b[24:32], v.w0)
	return new(big.Int).SetBytes(b[:])
}

func u256FromBig(x *big.Int) uint256 {
	var b [32]byte
	x.FillBytes(b[:])
	return uint256{
		w3: beUint64(b[0:8]),
		w2: beUint64(b[8:16]),
		w1: beUint64(b[16:24]),
		w0: beUint64(b[24:32]),
	}
}

// limb128 is the width-128 Montgomery/Barrett arithmetic engine. Unlike the
// width-64 path (modular_reduction.go), which keeps everything in machine
// words via math/bits, the 128-bit intermediates (256 bits wide) are reduced
// through math/big: q is an 80-bit prime so the hot path is the N log N NTT
// butterflies, each a single Montgomery multiplication, and a big.Int
// division per multiplication is an acceptable cost at this width. A
// carry-save 256-by-128 division similar to the 64-bit BRed routine would
// remove the big.Int dependency on the hot path; left as a follow-up should
// profiling show q-side NTTs dominate a real deployment's CPU budget.
type limb128 struct {
	q    Uint128
	qBig *big.Int
	r    *big.Int // 2^128 mod q, used to move into Montgomery form
	rInv *big.Int // 2^-128 mod q, used to move out of Montgomery form
}

func newLimb128(q Uint128) *limb128 {
	qBig := q.toBig()
	r := new(big.Int).Lsh(big.NewInt(1), 128)
	r.Mod(r, qBig)
	rInv := new(big.Int).ModInverse(r, qBig)
	return &limb128{q: q, qBig: qBig, r: r, rInv: rInv}
}

func (e *limb128) reduce(x *big.Int) *big.Int {
	return new(big.Int).Mod(x, e.qBig)
}

// toMontgomery imports a plain (non-Montgomery) residue, reducing it mod q.
func (e *limb128) toMontgomery(x uint64) Uint128 {
	v := new(big.Int).SetUint64(x)
	v.Mul(v, e.r)
	v = e.reduce(v)
	return u128FromBig(v)
}

// fromMontgomery exports a Montgomery-form residue back to [0, q).
func (e *limb128) fromMontgomery(a Uint128) *big.Int {
	v := new(big.Int).Mul(a.toBig(), e.rInv)
	return e.reduce(v)
}

func (e *limb128) add(a, b Uint128) Uint128 {
	s, carry := add128(a, b)
	if carry != 0 || s.cmp(e.q) >= 0 {
		s, _ = sub128(s, e.q)
	}
	return s
}

func (e *limb128) sub(a, b Uint128) Uint128 {
	d, borrow := sub128(a, b)
	if borrow != 0 {
		d, _ = add128(d, e.q)
	}
	return d
}

func (e *limb128) neg(a Uint128) Uint128 {
	if a.isZero() {
		return a
	}
	d, _ := sub128(e.q, a)
	return d
}

// mul computes Montgomery multiplication: given a, b in Montgomery form,
// returns a*b*2^-128 mod q, also in Montgomery form.
func (e *limb128) mul(a, b Uint128) Uint128 {
	prod := mul128(a, b)
	v := new(big.Int).Mul(prod.toBig(), e.rInv)
	// prod = (x*R)*(y*R) carries R^2 from the Montgomery representations
	// of a and b; multiplying by R^-1 and reducing mod q yields a*b*R^-1 =
	// x*y*R mod q, i.e. the Montgomery product.
	v = e.reduce(v)
	return u128FromBig(v)
}

func (e *limb128) equal(a, b Uint128) bool { return a.cmp(b) == 0 }
