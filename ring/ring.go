// Package ring implements single-modulus arithmetic over Z_Q[X]/(X^N+1),
// the negacyclic polynomial ring shared by the RLWE, RGSW and LWE layers.
//
// Unlike the RNS (multi-limb) rings used by schemes that need a large
// dynamic range at small per-limb cost (CKKS/BFV/BGV), the boolean PBS
// pipeline only ever touches three fixed, small-arity moduli (Q, Q_ks, q),
// so a Ring here always carries exactly one modulus.
package ring

import (
	"fmt"
	"math/bits"

	"github.com/klauspost/cpuid/v2"
)

// Ring holds the precomputed state for arithmetic and (when Q is prime and a
// primitive 2N-th root of unity was supplied) the negacyclic NTT over
// Z_Q[X]/(X^N+1).
type Ring struct {
	N int
	Q uint64

	// logN = log2(N).
	logN int

	// Montgomery/Barrett reduction parameters for Q.
	mredParams uint64
	bredParams [2]uint64

	// NTT twiddle tables, nil unless HasNTT() reports true.
	zetas    []uint64 // forward, bit-reversed powers of psi
	zetasInv []uint64 // inverse, bit-reversed powers of psi^-1
	nInv     uint64   // N^-1 mod Q

	// batchWidth records a butterfly batch width (8 with AVX2, else 4) chosen
	// from detected CPU features; the NTT loops in ntt.go do not read it.
	batchWidth int
}

// NewRing constructs a Ring of degree N over Z_Q. If psi is non-zero it must
// be a primitive 2N-th root of unity mod Q; the Ring will then support the
// negacyclic NTT. Pass psi=0 for moduli used only for plain vector arithmetic
// (e.g. the LWE and key-switch moduli, which are never transformed).
//
// NewRing returns an error if N is not a power of two, if Q < 2, or if a
// non-zero psi or N has no inverse mod Q. It does not check that psi is actually a
// primitive 2N-th root of unity: that remains the caller's responsibility,
// as parameter-set selection is out of scope for this package.
func NewRing(N int, Q uint64, psi uint64) (*Ring, error) {
	if N <= 0 || N&(N-1) != 0 {
		return nil, fmt.Errorf("ring: N=%d is not a power of two", N)
	}
	if Q < 2 {
		return nil, fmt.Errorf("ring: Q=%d is not a valid modulus", Q)
	}

	r := &Ring{
		N:          N,
		Q:          Q,
		logN:       bits.Len64(uint64(N)) - 1,
		mredParams: mredParams(Q),
		bredParams: bredParams(Q),
	}

	if cpuid.CPU.Supports(cpuid.AVX2) {
		r.batchWidth = 8
	} else {
		r.batchWidth = 4
	}

	if psi != 0 {
		if err := r.initNTT(psi); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// HasNTT reports whether this Ring was constructed with a primitive root and
// therefore supports Forward/Backward.
func (r *Ring) HasNTT() bool { return r.zetas != nil }

// NewPoly allocates a zero polynomial of degree < N.
func (r *Ring) NewPoly() Poly { return make(Poly, r.N) }

// Equal reports whether two rings share the same modulus and degree (both
// non-nil). The ring operators in this module do not call it.
func (r *Ring) Equal(o *Ring) bool { return r != nil && o != nil && r.N == o.N && r.Q == o.Q }

// Poly is a dense coefficient vector of a polynomial in Z_Q[X]/(X^N+1), in
// natural (non-NTT) order unless the caller otherwise tracks its domain.
type Poly []uint64

// CopyNew returns an independent copy of p.
func (p Poly) CopyNew() Poly {
	out := make(Poly, len(p))
	copy(out, p)
	return out
}
