// Package rlwe implements the RLWE half of C7: secret generation, secret-key
// and public-key encryption/decryption, and seed-derived reconstruction of a
// ciphertext's uniform A-half.
//
// Grounded on the teacher's rlwe/encryptor.go (secret-key vs. public-key
// split, ephemeral ternary u for PK encryption) and rlwe/decryptor.go.
package rlwe

import (
	"fmt"

	"github.com/tfhe-go/boolean/ring"
	"github.com/tfhe-go/boolean/sampling"
)

// Secret is a length-N vector over {-1, 0, +1} with fixed Hamming weight
// (typically N/2), used to key RLWE/RGSW encryption (spec.md §3).
type Secret struct {
	Value ring.Poly
}

// NewSecret draws a fresh fixed-Hamming-weight ternary RLWE secret.
func NewSecret(r *ring.Ring, weight int, src *sampling.Source) (*Secret, error) {
	p, err := sampling.TernarySample(r, src.Private, r.N, weight)
	if err != nil {
		return nil, fmt.Errorf("rlwe: sampling secret: %w", err)
	}
	return &Secret{Value: p}, nil
}

// Ciphertext is an Rlwe(Q) = (A(X), B(X)) ciphertext: B - A*s ~= m(X)
// (spec.md §3). A may be nil for a seed-derived ciphertext, in which case
// Seed is set and the reader reconstructs A deterministically.
type Ciphertext struct {
	A, B ring.Poly
	Seed *[32]byte
}

// NewCiphertext allocates a ciphertext with both halves materialized.
func NewCiphertext(r *ring.Ring) *Ciphertext {
	return &Ciphertext{A: r.NewPoly(), B: r.NewPoly()}
}

// ResolveA returns the A half, reconstructing it deterministically from Seed
// via the seedable RNG stream if it was not stored directly (spec.md §6,
// "Seed-derived key halves").
func (c *Ciphertext) ResolveA(r *ring.Ring) (ring.Poly, error) {
	if c.A != nil {
		return c.A, nil
	}
	if c.Seed == nil {
		return nil, fmt.Errorf("rlwe: ciphertext has neither A nor a seed")
	}
	src, err := sampling.NewSource(*c.Seed)
	if err != nil {
		return nil, fmt.Errorf("rlwe: reconstructing A from seed: %w", err)
	}
	a := r.NewPoly()
	if err := sampling.UniformPoly(r, src.Seedable, a); err != nil {
		return nil, fmt.Errorf("rlwe: reconstructing A from seed: %w", err)
	}
	return a, nil
}

// EncryptSecretKey produces a secret-key RLWE encryption of plaintext m,
// given in coefficient domain (m may be nil for an encryption of zero); the
// product A*s is computed through the NTT when r.HasNTT() and by schoolbook
// convolution otherwise.
//
// If seed is non-nil, A is derived deterministically from it instead of
// drawn from private entropy, and the returned ciphertext stores the seed
// instead of A, halving its serialized size (spec.md §3, ServerKeyEval).
func EncryptSecretKey(r *ring.Ring, s *Secret, m ring.Poly, gauss *sampling.GaussianSampler, src *sampling.Source, seed *[32]byte) (*Ciphertext, error) {
	a := r.NewPoly()
	if seed != nil {
		seededSrc, err := sampling.NewSource(*seed)
		if err != nil {
			return nil, fmt.Errorf("rlwe: encrypt: %w", err)
		}
		if err := sampling.UniformPoly(r, seededSrc.Seedable, a); err != nil {
			return nil, fmt.Errorf("rlwe: encrypt: %w", err)
		}
	} else {
		if err := sampling.UniformPoly(r, src.Private, a); err != nil {
			return nil, fmt.Errorf("rlwe: encrypt: %w", err)
		}
	}

	e := r.NewPoly()
	if err := gauss.SamplePoly(r, src.Private, e); err != nil {
		return nil, fmt.Errorf("rlwe: encrypt: %w", err)
	}

	b := r.NewPoly()
	mulAddSecret(r, a, s.Value, b)
	r.Add(b, e, b)
	if m != nil {
		r.Add(b, m, b)
	}

	ct := &Ciphertext{A: a, B: b}
	if seed != nil {
		ct.A = nil
		ct.Seed = seed
	}
	return ct, nil
}

// PublicKey is (A, B) with A a common-seed uniform polynomial and
// B = -A*s + e (single-party) or Sum_i(-A*s_i + e_i) (multi-party,
// spec.md §3).
type PublicKey struct {
	A    ring.Poly
	Seed *[32]byte
	B    ring.Poly
}

// GenPublicKey derives a public key from the secret s under a common
// reference seed (single-party case; multi-party aggregation lives in
// package keygen).
func GenPublicKey(r *ring.Ring, s *Secret, gauss *sampling.GaussianSampler, src *sampling.Source, crSeed [32]byte) (*PublicKey, error) {
	crSrc, err := sampling.NewSource(crSeed)
	if err != nil {
		return nil, fmt.Errorf("rlwe: public key: %w", err)
	}
	a := r.NewPoly()
	if err := sampling.UniformPoly(r, crSrc.Seedable, a); err != nil {
		return nil, fmt.Errorf("rlwe: public key: %w", err)
	}

	e := r.NewPoly()
	if err := gauss.SamplePoly(r, src.Private, e); err != nil {
		return nil, fmt.Errorf("rlwe: public key: %w", err)
	}

	negAS := r.NewPoly()
	mulAddSecret(r, a, s.Value, negAS)
	b := r.NewPoly()
	r.Neg(negAS, b)
	r.Add(b, e, b)

	return &PublicKey{Seed: &crSeed, B: b}, nil
}

// EncryptPublicKey encrypts m under pk: sample ephemeral ternary u, compute
// (-(A*u + e0), B*u + e1 + m), so that Decrypt's B - A*s recovers m plus
// noise (spec.md §4.7).
func EncryptPublicKey(r *ring.Ring, pk *PublicKey, m ring.Poly, gauss *sampling.GaussianSampler, src *sampling.Source) (*Ciphertext, error) {
	a, err := (&Ciphertext{A: pk.A, Seed: pk.Seed}).ResolveA(r)
	if err != nil {
		return nil, err
	}

	u, err := sampling.TernarySample(r, src.Private, r.N, r.N/2)
	if err != nil {
		return nil, fmt.Errorf("rlwe: public-key encrypt: %w", err)
	}

	e0, e1 := r.NewPoly(), r.NewPoly()
	if err := gauss.SamplePoly(r, src.Private, e0); err != nil {
		return nil, err
	}
	if err := gauss.SamplePoly(r, src.Private, e1); err != nil {
		return nil, err
	}

	outA := r.NewPoly()
	mulPlain(r, a, u, outA)
	r.Add(outA, e0, outA)
	r.Neg(outA, outA)

	outB := r.NewPoly()
	mulPlain(r, pk.B, u, outB)
	r.Add(outB, e1, outB)
	if m != nil {
		r.Add(outB, m, outB)
	}

	return &Ciphertext{A: outA, B: outB}, nil
}

// Decrypt returns the noisy plaintext B - A*s (spec.md §3).
func Decrypt(r *ring.Ring, ct *Ciphertext, s *Secret) (ring.Poly, error) {
	a, err := ct.ResolveA(r)
	if err != nil {
		return nil, err
	}
	as := r.NewPoly()
	mulAddSecret(r, a, s.Value, as)
	out := r.NewPoly()
	r.Sub(ct.B, as, out)
	return out, nil
}

// mulAddSecret computes a*s (negacyclic polynomial product) into out, using
// the NTT when available and schoolbook otherwise (small rings used for
// tests/decomposition scratch may not carry an NTT table).
func mulAddSecret(r *ring.Ring, a, s, out ring.Poly) {
	mulPlain(r, a, s, out)
}

// MulPoly computes the negacyclic product a*b into out. Exported for package
// blindrotate's Rotate, which multiplies the test vector and the
// accumulator halves by monomials X^k.
func MulPoly(r *ring.Ring, a, b, out ring.Poly) {
	mulPlain(r, a, b, out)
}

// mulPlain computes the negacyclic product a*b into out.
func mulPlain(r *ring.Ring, a, b, out ring.Poly) {
	if r.HasNTT() {
		fa, fb := r.NewPoly(), r.NewPoly()
		r.Forward(a, fa)
		r.Forward(b, fb)
		prod := r.NewPoly()
		for i := range prod {
			prod[i] = ring.MulModGeneric(fa[i], fb[i], r.Q)
		}
		r.Backward(prod, out)
		return
	}
	schoolbookNegacyclic(r, a, b, out)
}

func schoolbookNegacyclic(r *ring.Ring, a, b, out ring.Poly) {
	n := r.N
	acc := make([]uint64, n)
	for i := 0; i < n; i++ {
		if a[i] == 0 {
			continue
		}
		for j := 0; j < n; j++ {
			if b[j] == 0 {
				continue
			}
			k := i + j
			term := ring.MulModGeneric(a[i], b[j], r.Q)
			if k < n {
				acc[k] = ring.AddMod(acc[k], term, r.Q)
			} else {
				acc[k-n] = ring.SubMod(acc[k-n], term, r.Q)
			}
		}
	}
	copy(out, acc)
}
