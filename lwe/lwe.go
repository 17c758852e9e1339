// Package lwe implements C6: LWE ciphertexts, encryption/decryption, and the
// LWE-to-LWE key switch with gadget decomposition that PBS uses to move a
// sample from the RLWE-secret dimension down to the LWE-secret dimension.
//
// Grounded on the teacher's lwe/lwe.go (ciphertext shape) and lwe/utils.go;
// original_source's src/lwe.rs fixes the exact encrypt/decrypt/key-switch
// contracts this package follows.
package lwe

import (
	"fmt"

	"github.com/tfhe-go/boolean/decomposer"
	"github.com/tfhe-go/boolean/ring"
	"github.com/tfhe-go/boolean/sampling"
)

// Secret is a length-n vector over {-1, 0, +1} (stored as elements of Z_q,
// i.e. -1 is represented as q-1) with a fixed Hamming weight. It is the
// target secret of an LWE key switch (spec.md §3).
type Secret struct {
	Values []uint64
}

// NewSecret draws a fresh fixed-Hamming-weight ternary secret of length n
// (weight is typically n/2, spec.md §3).
func NewSecret(q uint64, n, weight int, src *sampling.Source) (*Secret, error) {
	r, err := ring.NewRing(nextPow2(n), q, 0)
	if err != nil {
		return nil, fmt.Errorf("lwe: building scratch ring for secret sampling: %w", err)
	}
	full, err := sampling.TernarySample(r, src.Private, r.N, weight)
	if err != nil {
		return nil, fmt.Errorf("lwe: sampling secret: %w", err)
	}
	return &Secret{Values: full[:n]}, nil
}

// At reinterprets a ternary secret's {0, 1, q-1} representation under a
// different modulus q2, preserving each coordinate's {-1, 0, +1} value.
// Secrets are sampled once under a fixed modulus but the same key material
// is used to encrypt/decrypt at whatever modulus a given ciphertext
// happens to carry (spec.md §3 Invariant 2, "ternary secrets are
// modulus-agnostic").
func (s *Secret) At(q2 uint64) *Secret {
	out := make([]uint64, len(s.Values))
	for i, v := range s.Values {
		switch v {
		case 0:
			out[i] = 0
		case 1:
			out[i] = 1
		default:
			out[i] = q2 - 1
		}
	}
	return &Secret{Values: out}
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Ciphertext is an Lwe(q') = (b, a_1...a_k) ciphertext: b - <a,s> ~= m
// (spec.md §3).
type Ciphertext struct {
	Q uint64
	B uint64
	A []uint64
}

// NewCiphertext allocates a zeroed ciphertext of dimension k under modulus q.
func NewCiphertext(q uint64, k int) *Ciphertext {
	return &Ciphertext{Q: q, A: make([]uint64, k)}
}

// Encrypt produces an LWE encryption of m (m is embedded directly into the
// modulus-q plaintext slot by the caller, e.g. +Q/8 or -Q/8 for the boolean
// evaluator -- this package is agnostic to the encoding).
func Encrypt(q uint64, s *Secret, m uint64, gauss *sampling.GaussianSampler, src *sampling.Source) (*Ciphertext, error) {
	n := len(s.Values)
	r, err := ring.NewRing(nextPow2(n), q, 0)
	if err != nil {
		return nil, fmt.Errorf("lwe: encrypt: %w", err)
	}

	a := make([]uint64, n)
	for i := range a {
		v, err := uniform(src.Private, q)
		if err != nil {
			return nil, fmt.Errorf("lwe: sampling a: %w", err)
		}
		a[i] = v
	}

	e, err := gauss.Sample(r, src.Private)
	if err != nil {
		return nil, fmt.Errorf("lwe: sampling noise: %w", err)
	}

	b := innerProduct(a, s.Values, q)
	b = ring.AddMod(b, e, q)
	b = ring.AddMod(b, m, q)

	return &Ciphertext{Q: q, B: b, A: a}, nil
}

// Decrypt returns the noisy plaintext coset b - <a,s> mod q. The caller
// (package pbs/boolean) is responsible for rounding to the encoded message.
func Decrypt(ct *Ciphertext, s *Secret) uint64 {
	return ring.SubMod(ct.B, innerProduct(ct.A, s.Values, ct.Q), ct.Q)
}

func innerProduct(a, s []uint64, q uint64) uint64 {
	acc := uint64(0)
	for i := range a {
		acc = ring.AddMod(acc, ring.MulModGeneric(a[i], s[i], q), q)
	}
	return acc
}

func uniform(src interface{ Read([]byte) (int, error) }, q uint64) (uint64, error) {
	var buf [8]byte
	for {
		if _, err := src.Read(buf[:]); err != nil {
			return 0, err
		}
		v := uint64(0)
		for i, b := range buf {
			v |= uint64(b) << (8 * i)
		}
		limit := (^uint64(0) / q) * q
		if v < limit {
			return v % q, nil
		}
	}
}

// Ksk is the LWE-to-LWE key-switching key: d_ks*N rows, each an
// LWE(Q_ks) ciphertext under the target secret, encoding the coefficients of
// the source secret across the key-switch gadget base (spec.md §3, §4.6).
type Ksk struct {
	Rows [][]*Ciphertext // Rows[i][j]: digit j of source coordinate i
	Dec  *decomposer.Decomposer
}

// KeySwitch computes out = KeySwitch(in, ksk): for every a_i of `in`
// (skipping b), decompose into d digits, FMA each digit scaled row of ksk
// into out, then negate the sum and add in's b (spec.md §4.6).
func KeySwitch(out *Ciphertext, in *Ciphertext, ksk *Ksk) {
	for v := range out.A {
		out.A[v] = 0
	}
	out.B = 0

	digits := make([]uint64, ksk.Dec.D())
	for i, ai := range in.A {
		ksk.Dec.Decompose(ai, digits)
		for j, dj := range digits {
			row := ksk.Rows[i][j]
			out.B = ring.AddMod(out.B, ring.MulModGeneric(row.B, dj, out.Q), out.Q)
			for v := range out.A {
				out.A[v] = ring.AddMod(out.A[v], ring.MulModGeneric(row.A[v], dj, out.Q), out.Q)
			}
		}
	}

	// The ksk rows encrypt +s_in[i]*g_j, so the accumulated (a, b) encrypts
	// <a_in, s_in> under the target secret; negating it folds in the sign,
	// then the input's own b completes b_out - <a_out, s_out> ~=
	// b_in - <a_in, s_in>.
	for v := range out.A {
		out.A[v] = ring.NegMod(out.A[v], out.Q)
	}
	out.B = ring.SubMod(in.B, out.B, out.Q)
}
