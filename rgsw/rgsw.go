// Package rgsw implements C7b: RGSW ciphertexts, secret-key RGSW encryption,
// the RLWE x RGSW external product that the blind-rotation loop iterates
// over, and RGSW x RGSW products used for automorphism-key style bootstrap
// key ladders.
//
// Grounded on the teacher's rgsw/ciphertext.go and rgsw/encryptor.go for the
// two-row gadget layout; original_source's src/rgsw.rs for the external
// product's digit/row pairing.
package rgsw

import (
	"fmt"

	"github.com/tfhe-go/boolean/decomposer"
	"github.com/tfhe-go/boolean/ring"
	"github.com/tfhe-go/boolean/rlwe"
	"github.com/tfhe-go/boolean/sampling"
)

// Ciphertext is an Rgsw(Q) encryption of a ring element m: two RLWE'
// "gadget ladders" of length Dec.D(), ARow_i = RLWE(0) + m*beta^i*(1,0) and
// BRow_i = RLWE(0) + m*beta^i*(0,1) (spec.md §3).
type Ciphertext struct {
	ARow []*rlwe.Ciphertext
	BRow []*rlwe.Ciphertext
}

// Encrypt produces a secret-key RGSW encryption of the ring element m.
func Encrypt(r *ring.Ring, dec *decomposer.Decomposer, s *rlwe.Secret, m ring.Poly, gauss *sampling.GaussianSampler, src *sampling.Source) (*Ciphertext, error) {
	ct := &Ciphertext{
		ARow: make([]*rlwe.Ciphertext, dec.D()),
		BRow: make([]*rlwe.Ciphertext, dec.D()),
	}

	for i, beta := range dec.GadgetVector() {
		scaled := r.NewPoly()
		for k := range scaled {
			scaled[k] = ring.MulModGeneric(m[k], beta, r.Q)
		}

		aRow, err := rlwe.EncryptSecretKey(r, s, nil, gauss, src, nil)
		if err != nil {
			return nil, fmt.Errorf("rgsw: encrypt a-row %d: %w", i, err)
		}
		r.Add(aRow.A, scaled, aRow.A)
		ct.ARow[i] = aRow

		bRow, err := rlwe.EncryptSecretKey(r, s, nil, gauss, src, nil)
		if err != nil {
			return nil, fmt.Errorf("rgsw: encrypt b-row %d: %w", i, err)
		}
		r.Add(bRow.B, scaled, bRow.B)
		ct.BRow[i] = bRow
	}

	return ct, nil
}

// ExternalProduct computes out = in (x) gsw: decompose in's A and B halves
// over the gadget base into per-digit polynomials, then accumulate the
// digit-polynomial/row products (spec.md §4.5, "RLWE x RGSW external
// product"). When the ring carries an NTT (the case every non-test
// parameter set uses), the accumulation runs entirely in evaluation domain
// -- forward-NTT each digit polynomial once, multiply pointwise against the
// gadget rows' Montgomery-prepared evaluation forms, and inverse-NTT the
// accumulated result exactly once per output half -- which is the only
// operation spec.md §4.7 puts on the hot path. Rings without an NTT table
// (small scratch rings with no compatible root of unity) fall back to
// schoolbook negacyclic convolution.
func ExternalProduct(r *ring.Ring, dec *decomposer.Decomposer, in *rlwe.Ciphertext, gsw *Ciphertext, out *rlwe.Ciphertext) error {
	a, err := in.ResolveA(r)
	if err != nil {
		return fmt.Errorf("rgsw: external product: %w", err)
	}

	if r.HasNTT() {
		externalProductNTT(r, dec, a, in.B, gsw, out)
		return nil
	}
	externalProductSchoolbook(r, dec, a, in.B, gsw, out)
	return nil
}

// externalProductNTT implements the evaluation-domain hot path: decompose a
// and b into d digit polynomials each, forward-NTT every digit polynomial,
// accumulate the pointwise products against the gadget rows' prepared
// evaluation forms, and inverse-NTT the two accumulators exactly once.
func externalProductNTT(r *ring.Ring, dec *decomposer.Decomposer, a, b ring.Poly, gsw *Ciphertext, out *rlwe.Ciphertext) {
	d := dec.D()
	digits := make([]uint64, d)

	digitA := make([]ring.Poly, d)
	digitB := make([]ring.Poly, d)
	for i := 0; i < d; i++ {
		digitA[i] = r.NewPoly()
		digitB[i] = r.NewPoly()
	}
	for k := 0; k < r.N; k++ {
		dec.Decompose(a[k], digits)
		for i, dj := range digits {
			digitA[i][k] = dj
		}
		dec.Decompose(b[k], digits)
		for i, dj := range digits {
			digitB[i][k] = dj
		}
	}

	accA := r.NewPoly()
	accB := r.NewPoly()
	evalDigit := r.NewPoly()

	for i := 0; i < d; i++ {
		r.Forward(digitA[i], evalDigit)
		r.MulCoeffsPreparedAndAdd(evalDigit, evalPrepared(r, gsw.ARow[i].A), accA)
		r.MulCoeffsPreparedAndAdd(evalDigit, evalPrepared(r, gsw.ARow[i].B), accB)

		r.Forward(digitB[i], evalDigit)
		r.MulCoeffsPreparedAndAdd(evalDigit, evalPrepared(r, gsw.BRow[i].A), accA)
		r.MulCoeffsPreparedAndAdd(evalDigit, evalPrepared(r, gsw.BRow[i].B), accB)
	}

	r.Backward(accA, out.A)
	r.Backward(accB, out.B)
}

// evalPrepared forward-NTTs p and returns its Montgomery-prepared evaluation
// form, ready for repeated pointwise multiplication via MulCoeffsPrepared.
func evalPrepared(r *ring.Ring, p ring.Poly) ring.Prepared {
	ntt := r.NewPoly()
	r.Forward(p, ntt)
	return r.Prepare(ntt)
}

// externalProductSchoolbook is the O(N^2) coefficient-domain fallback used
// when the ring has no NTT table.
func externalProductSchoolbook(r *ring.Ring, dec *decomposer.Decomposer, a, b ring.Poly, gsw *Ciphertext, out *rlwe.Ciphertext) {
	for v := range out.A {
		out.A[v] = 0
		out.B[v] = 0
	}

	digits := make([]uint64, dec.D())
	for k := 0; k < r.N; k++ {
		dec.Decompose(a[k], digits)
		for i, dj := range digits {
			if dj == 0 {
				continue
			}
			fmaPolyScalarAtCoeff(r, gsw.ARow[i].A, dj, k, out.A)
			fmaPolyScalarAtCoeff(r, gsw.ARow[i].B, dj, k, out.B)
		}

		dec.Decompose(b[k], digits)
		for i, dj := range digits {
			if dj == 0 {
				continue
			}
			fmaPolyScalarAtCoeff(r, gsw.BRow[i].A, dj, k, out.A)
			fmaPolyScalarAtCoeff(r, gsw.BRow[i].B, dj, k, out.B)
		}
	}
}

// fmaPolyScalarAtCoeff adds digit * (p * X^shift) into acc, with the
// negacyclic wraparound X^N = -1.
func fmaPolyScalarAtCoeff(r *ring.Ring, p ring.Poly, digit uint64, shift int, acc ring.Poly) {
	n := r.N
	for k := 0; k < n; k++ {
		if p[k] == 0 {
			continue
		}
		term := ring.MulModGeneric(p[k], digit, r.Q)
		dst := k + shift
		if dst < n {
			acc[dst] = ring.AddMod(acc[dst], term, r.Q)
		} else {
			acc[dst-n] = ring.SubMod(acc[dst-n], term, r.Q)
		}
	}
}

// Product computes the RGSW x RGSW product of two ciphertexts encrypting m1
// and m2 into out (encrypting m1*m2), by running the external product row by
// row (spec.md §4.5).
func Product(r *ring.Ring, dec *decomposer.Decomposer, a, b *Ciphertext, out *Ciphertext) error {
	for i := range b.ARow {
		if err := ExternalProduct(r, dec, b.ARow[i], a, out.ARow[i]); err != nil {
			return fmt.Errorf("rgsw: product a-row %d: %w", i, err)
		}
		if err := ExternalProduct(r, dec, b.BRow[i], a, out.BRow[i]); err != nil {
			return fmt.Errorf("rgsw: product b-row %d: %w", i, err)
		}
	}
	return nil
}

// NewCiphertext allocates an RGSW ciphertext shell with all rows materialized
// over ring r with gadget dimension d.
func NewCiphertext(r *ring.Ring, d int) *Ciphertext {
	ct := &Ciphertext{ARow: make([]*rlwe.Ciphertext, d), BRow: make([]*rlwe.Ciphertext, d)}
	for i := 0; i < d; i++ {
		ct.ARow[i] = rlwe.NewCiphertext(r)
		ct.BRow[i] = rlwe.NewCiphertext(r)
	}
	return ct
}

// Automorphism applies the ring automorphism sigma_k to every row of gsw,
// producing the RGSW encryption of sigma_k(m) under sigma_k(s) (spec.md
// §4.3). Key generation in this module does not call it.
func Automorphism(r *ring.Ring, amap *ring.AutomorphismMap, gsw *Ciphertext, out *Ciphertext) {
	for i := range gsw.ARow {
		amap.Apply(r, gsw.ARow[i].A, out.ARow[i].A)
		amap.Apply(r, gsw.ARow[i].B, out.ARow[i].B)
		amap.Apply(r, gsw.BRow[i].A, out.BRow[i].A)
		amap.Apply(r, gsw.BRow[i].B, out.BRow[i].B)
	}
}
