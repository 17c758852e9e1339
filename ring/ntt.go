package ring

import "fmt"

// This file implements C2: the forward/inverse negacyclic NTT over
// Z_Q[X]/(X^N+1) for a prime Q admitting a primitive 2N-th root of unity
// psi. It follows the standard bit-reversed-twiddle Cooley-Tukey (forward,
// decimation-in-time) / Gentleman-Sande (inverse, decimation-in-frequency)
// layout, the same butterfly shapes as the teacher's ring/ntt.go, adapted
// from the teacher's RNS (per-limb) loop to a single modulus.

// initNTT precomputes the bit-reversed twiddle tables for forward and
// inverse transforms, and N^-1 mod Q.
func (r *Ring) initNTT(psi uint64) error {
	n := r.N
	q := r.Q

	psiInv := modInverse(psi, q)
	if psiInv == 0 {
		return fmt.Errorf("ring: psi=%d has no inverse mod Q=%d", psi, q)
	}

	r.zetas = make([]uint64, n)
	r.zetasInv = make([]uint64, n)

	// zetas[bitrev(i, logN)] = psi^i mod q, for i = 0..N-1, laid out so the
	// iterative butterfly loop consumes them in natural visiting order.
	for i := 0; i < n; i++ {
		br := bitReverse(i, r.logN)
		r.zetas[br] = powMod(psi, uint64(i), q)
		r.zetasInv[br] = powMod(psiInv, uint64(i), q)
	}

	r.nInv = modInverse(uint64(n), q)
	if r.nInv == 0 {
		return fmt.Errorf("ring: N=%d has no inverse mod Q=%d", n, q)
	}
	return nil
}

// Forward computes the forward negacyclic NTT of p1 into p2 (may alias).
func (r *Ring) Forward(p1, p2 Poly) {
	if p2.ptrNeq(p1) {
		copy(p2, p1)
	}
	r.nttCT(p2, r.zetas)
}

// ForwardNormalized is Forward, scaled so that its own inverse is
// BackwardNormalized (i.e. it absorbs 1/N up front instead of on the way
// back).
func (r *Ring) ForwardNormalized(p1, p2 Poly) {
	r.Forward(p1, p2)
	for i := range p2 {
		p2[i] = MulModGeneric(p2[i], r.nInv, r.Q)
	}
}

// Backward computes the inverse negacyclic NTT of p1 into p2 (may alias).
func (r *Ring) Backward(p1, p2 Poly) {
	if p2.ptrNeq(p1) {
		copy(p2, p1)
	}
	r.nttGS(p2, r.zetasInv)
	for i := range p2 {
		p2[i] = MulModGeneric(p2[i], r.nInv, r.Q)
	}
}

// BackwardNormalized is the inverse of ForwardNormalized: it does not divide
// by N again, since ForwardNormalized already did.
func (r *Ring) BackwardNormalized(p1, p2 Poly) {
	if p2.ptrNeq(p1) {
		copy(p2, p1)
	}
	r.nttGS(p2, r.zetasInv)
}

// AddBackward computes the inverse NTT of p1 and accumulates it into out
// (out += Backward(p1)), going through a freshly allocated temporary
// polynomial.
func (r *Ring) AddBackward(p1 Poly, out Poly) {
	tmp := r.NewPoly()
	r.Backward(p1, tmp)
	r.Add(out, tmp, out)
}

// AddBackwardNormalized is AddBackward for the normalized inverse transform.
func (r *Ring) AddBackwardNormalized(p1 Poly, out Poly) {
	tmp := r.NewPoly()
	r.BackwardNormalized(p1, tmp)
	r.Add(out, tmp, out)
}

// nttCT performs the in-place decimation-in-time Cooley-Tukey butterfly
// network: repeated halving of the block length, zeta consumed in the
// bit-reversed order precomputed by initNTT.
func (r *Ring) nttCT(a Poly, zetas []uint64) {
	q := r.Q
	n := r.N
	k := 1
	for length := n / 2; length >= 1; length /= 2 {
		for start := 0; start < n; start += 2 * length {
			zeta := zetas[k]
			k++
			for j := start; j < start+length; j++ {
				t := MulModGeneric(zeta, a[j+length], q)
				a[j+length] = SubMod(a[j], t, q)
				a[j] = AddMod(a[j], t, q)
			}
		}
	}
}

// nttGS performs the in-place decimation-in-frequency Gentleman-Sande
// butterfly network, the inverse network of nttCT.
func (r *Ring) nttGS(a Poly, zetasInv []uint64) {
	q := r.Q
	n := r.N
	for length := 1; length < n; length *= 2 {
		for start := 0; start < n; start += 2 * length {
			zeta := zetasInv[n/(2*length)+start/(2*length)]
			for j := start; j < start+length; j++ {
				t := a[j]
				a[j] = AddMod(t, a[j+length], q)
				a[j+length] = MulModGeneric(zeta, SubMod(t, a[j+length], q), q)
			}
		}
	}
}

func (p Poly) ptrNeq(o Poly) bool {
	if len(p) == 0 || len(o) == 0 {
		return true
	}
	return &p[0] != &o[0]
}

func bitReverse(x, bits int) int {
	r := 0
	for i := 0; i < bits; i++ {
		r = (r << 1) | (x & 1)
		x >>= 1
	}
	return r
}

func powMod(base, exp, mod uint64) uint64 {
	result := uint64(1) % mod
	base %= mod
	for exp > 0 {
		if exp&1 == 1 {
			result = MulModGeneric(result, base, mod)
		}
		base = MulModGeneric(base, base, mod)
		exp >>= 1
	}
	return result
}

// modInverse returns a^-1 mod m via the extended Euclidean algorithm, or 0
// if gcd(a, m) != 1.
func modInverse(a, m uint64) uint64 {
	g, x, _ := extGCD(int64(a%m), int64(m))
	if g != 1 {
		return 0
	}
	x %= int64(m)
	if x < 0 {
		x += int64(m)
	}
	return uint64(x)
}

func extGCD(a, b int64) (g, x, y int64) {
	if a == 0 {
		return b, 0, 1
	}
	g, x1, y1 := extGCD(b%a, a)
	return g, y1 - (b/a)*x1, x1
}
