package blindrotate

import (
	"fmt"

	"github.com/tfhe-go/boolean/decomposer"
	"github.com/tfhe-go/boolean/ring"
	"github.com/tfhe-go/boolean/rlwe"
	"github.com/tfhe-go/boolean/sampling"
)

// AutoKey lets a ciphertext be moved from the sigma_k(s)-keyed domain back
// to the s-keyed domain after applying the ring automorphism sigma_k, via a
// gadget key switch (spec.md §4.3).
type AutoKey struct {
	Galois *ring.AutomorphismMap
	Rows   []*rlwe.Ciphertext // Rows[j] = RLWE_s(beta^j * sigma_k(s))
}

// GenAutoKey builds the automorphism key for Galois element k under secret
// s.
func GenAutoKey(r *ring.Ring, dec *decomposer.Decomposer, s *rlwe.Secret, k int, gauss *sampling.GaussianSampler, src *sampling.Source) (*AutoKey, error) {
	amap := ring.NewAutomorphismMap(r.N, k)
	sigmaS := r.NewPoly()
	amap.Apply(r, s.Value, sigmaS)

	rows := make([]*rlwe.Ciphertext, dec.D())
	for j, beta := range dec.GadgetVector() {
		scaled := r.NewPoly()
		for i := range scaled {
			scaled[i] = ring.MulModGeneric(sigmaS[i], beta, r.Q)
		}
		row, err := rlwe.EncryptSecretKey(r, s, scaled, gauss, src, nil)
		if err != nil {
			return nil, fmt.Errorf("blindrotate: automorphism key row %d: %w", j, err)
		}
		rows[j] = row
	}
	return &AutoKey{Galois: amap, Rows: rows}, nil
}

// Apply computes out = KeySwitch(sigma_k(ct)), so that out decrypts under s
// to sigma_k(m) when ct decrypted under s to m (spec.md §4.3).
func Apply(r *ring.Ring, dec *decomposer.Decomposer, ct *rlwe.Ciphertext, ak *AutoKey, out *rlwe.Ciphertext) error {
	a, err := ct.ResolveA(r)
	if err != nil {
		return fmt.Errorf("blindrotate: automorphism apply: %w", err)
	}
	sigmaA := r.NewPoly()
	ak.Galois.Apply(r, a, sigmaA)
	sigmaB := r.NewPoly()
	ak.Galois.Apply(r, ct.B, sigmaB)

	for v := range out.A {
		out.A[v] = 0
		out.B[v] = 0
	}

	digits := make([]uint64, dec.D())
	for k := 0; k < r.N; k++ {
		dec.Decompose(sigmaA[k], digits)
		for j, dj := range digits {
			if dj == 0 {
				continue
			}
			fmaRowAtCoeff(r, ak.Rows[j].A, dj, k, out.A)
			fmaRowAtCoeff(r, ak.Rows[j].B, dj, k, out.B)
		}
	}

	// The rows encrypt +sigma_k(s)*g_j, so the sum so far encrypts
	// sigma_k(A)*sigma_k(s); negate it before adding sigma_k(B).
	r.Neg(out.A, out.A)
	r.Neg(out.B, out.B)
	r.Add(out.B, sigmaB, out.B)
	return nil
}

// fmaRowAtCoeff adds digit * (row * X^shift) into acc, honoring the
// negacyclic wraparound X^N = -1 (mirrors rgsw.ExternalProduct's digit/row
// accumulation, specialized to a single encrypted-ring-element row rather
// than a per-gadget-step ciphertext list).
func fmaRowAtCoeff(r *ring.Ring, row ring.Poly, digit uint64, shift int, acc ring.Poly) {
	n := r.N
	for k := 0; k < n; k++ {
		if row[k] == 0 {
			continue
		}
		term := ring.MulModGeneric(row[k], digit, r.Q)
		dst := k + shift
		if dst < n {
			acc[dst] = ring.AddMod(acc[dst], term, r.Q)
		} else {
			acc[dst-n] = ring.SubMod(acc[dst-n], term, r.Q)
		}
	}
}
