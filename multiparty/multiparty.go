// Package multiparty implements C13: partial-decryption share computation
// and aggregation for the collective (non-interactive multi-party) LWE
// decryption protocol, plus the final rounding step that snaps the
// aggregated phase to one of the two boolean-evaluator plaintext cosets
// (+Q/8 and -Q/8).
//
// Grounded on the teacher's multiparty/ package (share/combine split for
// collective decryption) generalized from its RLWE/RNS setting down to the
// single-modulus LWE ciphertexts this module bootstraps; original_source's
// src/multiparty.rs fixes the smudging-noise magnitude. Rounding uses the
// two cosets above, not a four-coset table.
package multiparty

import (
	"fmt"

	"github.com/tfhe-go/boolean/lwe"
	"github.com/tfhe-go/boolean/ring"
	"github.com/tfhe-go/boolean/sampling"
)

// DecryptionShare is one party's additive contribution to a collective
// decryption: <a, s_i> plus smudging noise large enough to swamp that
// party's own key-switch/bootstrap noise contribution, so that publishing
// the share leaks nothing about s_i beyond what the final plaintext already
// reveals (spec.md §4.12, "collective decryption").
type DecryptionShare struct {
	Value uint64
}

// GenDecryptionShare computes party i's share of decrypting ct under its
// secret slice sI (the portion of the collective LWE secret this party
// holds), adding smudging noise sampled at sigmaSmudge (spec.md §4.12).
// sigmaSmudge must be chosen large relative to the ciphertext's own noise
// so the published share does not leak information about sI; parameter
// selection for sigmaSmudge is out of scope here.
func GenDecryptionShare(ct *lwe.Ciphertext, sI []uint64, smudge *sampling.GaussianSampler, scratch *ring.Ring, src *sampling.Source) (*DecryptionShare, error) {
	if len(sI) != len(ct.A) {
		return nil, fmt.Errorf("multiparty: secret slice length %d does not match ciphertext dimension %d", len(sI), len(ct.A))
	}

	acc := uint64(0)
	for i, ai := range ct.A {
		acc = ring.AddMod(acc, ring.MulModGeneric(ai, sI[i], ct.Q), ct.Q)
	}

	e, err := smudge.Sample(scratch, src.Private)
	if err != nil {
		return nil, fmt.Errorf("multiparty: sampling smudging noise: %w", err)
	}
	acc = ring.AddMod(acc, e, ct.Q)

	return &DecryptionShare{Value: acc}, nil
}

// Combine aggregates decryption shares (one per party) against the
// ciphertext's public b to recover the noisy phase b - Sum_i<a,s_i>, then
// rounds it to the nearer of the boolean evaluator's two plaintext cosets,
// +Q/8 (true) and -Q/8 (false) (spec.md §4.2, §4.12 "collective rounding").
// ambiguous reports whether the recovered phase sits close enough to one of
// the two coset boundaries (0 and Q/2) that the rounding decision is not
// trustworthy evidence of which bit was encoded -- a diagnostic signal, not
// a new encoding rule.
func Combine(ct *lwe.Ciphertext, shares []*DecryptionShare) (bit bool, ambiguous bool) {
	phase := ct.B
	for _, sh := range shares {
		phase = ring.SubMod(phase, sh.Value, ct.Q)
	}

	mu := ct.Q / 8
	half := ct.Q / 2

	circularDist := func(a, b uint64) uint64 {
		var d uint64
		if a > b {
			d = a - b
		} else {
			d = b - a
		}
		if d > half {
			d = ct.Q - d
		}
		return d
	}

	distToTrue := circularDist(phase, mu)
	distToFalse := circularDist(phase, ct.Q-mu)
	bit = distToTrue <= distToFalse

	boundaryDist := circularDist(phase, 0)
	if d := circularDist(phase, half); d < boundaryDist {
		boundaryDist = d
	}
	if boundaryDist < mu/2 {
		ambiguous = true
	}
	return bit, ambiguous
}
