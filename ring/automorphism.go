package ring

// This file implements C5: the automorphism map sigma_k: X -> X^k on
// Z_Q[X]/(X^N+1), used both to permute RLWE/RGSW coefficient rows directly
// and to rotate the blind-rotation test vector.
//
// Grounded on the teacher's ring/automorphism.go (index+sign precomputation)
// and cross-checked against original_source's math/src/poly/automorphism.rs,
// which specifies the exact same (sign, destination) contract.

// AutomorphismMap is the precomputed destination index and sign flip for
// applying X -> X^k to a degree-N polynomial over the negacyclic ring.
type AutomorphismMap struct {
	n    int
	k    int // k reduced mod 2N
	dest []int
	neg  []bool
}

// NewAutomorphismMap builds the index+sign table for sigma_k on a ring of
// degree n (a power of two). k is reduced modulo 2n.
func NewAutomorphismMap(n int, k int) *AutomorphismMap {
	mod2n := 2 * n
	k = ((k % mod2n) + mod2n) % mod2n

	dest := make([]int, n)
	neg := make([]bool, n)
	for i := 0; i < n; i++ {
		j := i * k
		// j mod 2n determines both the destination (mod n) and whether the
		// term wrapped through X^n = -1 (sign flip iff the quotient bit is set).
		jr := j % mod2n
		dest[jr%n] = i
		neg[jr%n] = jr >= n
	}
	return &AutomorphismMap{n: n, k: k, dest: dest, neg: neg}
}

// K returns the (already-reduced) automorphism exponent.
func (m *AutomorphismMap) K() int { return m.k }

// Apply writes sigma_k(poly) into out (out must not alias poly).
func (m *AutomorphismMap) Apply(r *Ring, poly, out Poly) {
	for i := 0; i < m.n; i++ {
		src := poly[m.dest[i]]
		if m.neg[i] {
			out[i] = NegMod(src, r.Q)
		} else {
			out[i] = src
		}
	}
}

// Inverse returns the automorphism map for sigma_k^-1 = sigma_{k^-1 mod 2n}.
func (m *AutomorphismMap) Inverse() *AutomorphismMap {
	kInv := int(modInverse(uint64(m.k), uint64(2*m.n)))
	return NewAutomorphismMap(m.n, kInv)
}
