package ring

import (
	"math/big"
	"math/bits"
)

// This file implements C1: modular element/vector arithmetic for a single
// modulus Q, with a "prepared" (Montgomery) form for fast repeated
// multiplication by a fixed scalar -- the form the gadget product hot path
// needs, since every digit of a decomposition is multiplied against many
// ring elements of a fixed RGSW row.
//
// Grounded on the teacher's ring/modular_reduction.go (MForm/MRed/BRed
// family); adapted to operate on a single modulus instead of an RNS limb
// array.

// mredParams computes qInv = q^-1 mod 2^64 (for odd q), the constant
// Montgomery reduction needs.
func mredParams(q uint64) uint64 {
	qInv := uint64(1)
	x := q
	for i := 0; i < 63; i++ {
		qInv *= x
		x *= x
	}
	return qInv
}

// bredParams computes floor(2^128/q) split into (hi, lo) 64-bit halves, the
// Barrett constants BRedAdd needs to reduce a value < q^2 modulo q.
func bredParams(q uint64) [2]uint64 {
	r := new(big.Int).Lsh(big.NewInt(1), 128)
	r.Quo(r, new(big.Int).SetUint64(q))
	hi := new(big.Int).Rsh(r, 64).Uint64()
	lo := r.Uint64()
	return [2]uint64{hi, lo}
}

// BRedAdd reduces x (assumed < q^2) modulo q using precomputed Barrett
// constants.
func BRedAdd(x, q uint64, u [2]uint64) uint64 {
	hi, _ := bits.Mul64(x, u[0])
	r := x - hi*q
	for r >= q {
		r -= q
	}
	return r
}

// MForm switches a into the Montgomery domain: a*2^64 mod q, computed by
// doubling mod q 64 times (2^64 mod q == 1 doubled 64 times).
func MForm(a, q, qInv uint64) uint64 {
	r := a % q
	for i := 0; i < 64; i++ {
		r = AddMod(r, r, q)
	}
	return r
}

// MRed computes x*y*2^-64 mod q (Montgomery multiplication).
func MRed(x, y, q, qInv uint64) uint64 {
	hi, lo := bits.Mul64(x, y)
	m := lo * qInv
	h, _ := bits.Mul64(m, q)
	r := hi - h
	if hi < h {
		r += q
	}
	if r >= q {
		r -= q
	}
	return r
}

// InvMForm switches a out of the Montgomery domain.
func InvMForm(a, q, qInv uint64) uint64 {
	return MRed(a, 1, q, qInv)
}

// AddMod returns (a+b) mod q.
func AddMod(a, b, q uint64) uint64 {
	r := a + b
	if r >= q {
		r -= q
	}
	return r
}

// SubMod returns (a-b) mod q.
func SubMod(a, b, q uint64) uint64 {
	if a >= b {
		return a - b
	}
	return a + q - b
}

// NegMod returns (-a) mod q.
func NegMod(a, q uint64) uint64 {
	if a == 0 {
		return 0
	}
	return q - a
}

// MulModGeneric reduces the full 128-bit product of a*b mod q. It is the
// fallback used outside the NTT hot path (e.g. scalar bookkeeping), where
// Barrett's precomputed constants are overkill.
func MulModGeneric(a, b, q uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	_, rem := bits.Div64(hi%q, lo, q)
	return rem
}

// Add writes a+b mod Q into out, coefficient-wise.
func (r *Ring) Add(a, b, out Poly) {
	for i := 0; i < r.N; i++ {
		out[i] = AddMod(a[i], b[i], r.Q)
	}
}

// Sub writes a-b mod Q into out, coefficient-wise.
func (r *Ring) Sub(a, b, out Poly) {
	for i := 0; i < r.N; i++ {
		out[i] = SubMod(a[i], b[i], r.Q)
	}
}

// Neg writes -a mod Q into out, coefficient-wise.
func (r *Ring) Neg(a, out Poly) {
	for i := 0; i < r.N; i++ {
		out[i] = NegMod(a[i], r.Q)
	}
}

// MulScalar multiplies every coefficient of a by the scalar s mod Q.
func (r *Ring) MulScalar(a Poly, s uint64, out Poly) {
	for i := 0; i < r.N; i++ {
		out[i] = MulModGeneric(a[i], s, r.Q)
	}
}

// MulScalarAndAdd multiplies a by scalar s and accumulates into out.
func (r *Ring) MulScalarAndAdd(a Poly, s uint64, out Poly) {
	for i := 0; i < r.N; i++ {
		out[i] = AddMod(out[i], MulModGeneric(a[i], s, r.Q), r.Q)
	}
}

// Prepared is the Montgomery-form representation of every coefficient of a
// polynomial (or a single scalar), precomputed once and reused across many
// multiplications -- the "prep(x) is pure and deterministic" form spec.md
// §4.1 calls for.
type Prepared struct {
	ring   *Ring
	values []uint64
}

// Prepare precomputes the Montgomery form of p for repeated multiplication.
func (r *Ring) Prepare(p Poly) Prepared {
	values := make([]uint64, len(p))
	for i, v := range p {
		values[i] = MForm(v, r.Q, r.mredParams)
	}
	return Prepared{ring: r, values: values}
}

// MulCoeffsPrepared multiplies a (standard domain) by prepared b (Montgomery
// domain), coefficient-wise, into out (standard domain).
func (r *Ring) MulCoeffsPrepared(a Poly, b Prepared, out Poly) {
	for i := 0; i < r.N; i++ {
		out[i] = MRed(a[i], b.values[i], r.Q, r.mredParams)
	}
}

// MulCoeffsPreparedAndAdd accumulates a*b (prepared) into out.
func (r *Ring) MulCoeffsPreparedAndAdd(a Poly, b Prepared, out Poly) {
	for i := 0; i < r.N; i++ {
		out[i] = AddMod(out[i], MRed(a[i], b.values[i], r.Q, r.mredParams), r.Q)
	}
}
