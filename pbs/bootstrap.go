package pbs

import (
	"fmt"

	"github.com/tfhe-go/boolean/blindrotate"
	"github.com/tfhe-go/boolean/lwe"
	"github.com/tfhe-go/boolean/ring"
	"github.com/tfhe-go/boolean/tracer"
)

// Params bundles the moduli the bootstrapping pipeline steps through: the
// RLWE accumulator modulus Q, the key-switch target modulus Q_ks, and the
// blind-rotation modulus q = 2N (spec.md §3). Tracer is optional
// noise-snapshot reporting (spec.md §9, "Noise tracing"); a nil Tracer
// disables snapshotting entirely, so correctness and timing never depend on
// it being set.
type Params struct {
	RLWE   *ring.Ring
	QKs    uint64
	Tracer tracer.Tracer
}

func (p *Params) trace(stage tracer.Stage, ct *lwe.Ciphertext) {
	if p.Tracer == nil {
		return
	}
	p.Tracer.Record(tracer.SampleOf(stage, ct))
}

// Bootstrap runs the full PBS pipeline on an input LWE(Q) ciphertext at the
// small (post-key-switch) dimension, evaluating testVector as the
// bootstrapped function and refreshing the noise (spec.md §4, "Programmable
// bootstrapping"). The gate-bootstrapping convention this pipeline follows
// -- blind-rotate first, key-switch back down second -- keeps every gate's
// input and output ciphertexts at the same (small) dimension and the same
// modulus Q, so gate outputs chain directly into the next gate's inputs:
//
//  1. odd modulus-switch Q -> q = 2N
//  2. blind rotation over RGSW, keyed by the bootstrap key (coordinates are
//     the small LWE secret's bits); produces a big-dimension RLWE
//     ciphertext under the RLWE accumulator secret
//  3. sample extraction to a big-dimension LWE(Q) ciphertext
//  4. modulus-switch Q -> Q_ks
//  5. LWE key switch from the big (RLWE-coefficient) secret down to the
//     small LWE secret
//  6. modulus-switch Q_ks -> Q, to hand back a ciphertext in the caller's
//     expected (small dimension, modulus Q) format
func Bootstrap(p *Params, in *lwe.Ciphertext, ksk *lwe.Ksk, brk *blindrotate.Key, testVector ring.Poly) (*lwe.Ciphertext, error) {
	if in.Q != p.RLWE.Q {
		return nil, fmt.Errorf("pbs: input ciphertext modulus %d does not match RLWE modulus %d", in.Q, p.RLWE.Q)
	}
	if len(in.A) != len(brk.CoeffPos) {
		return nil, fmt.Errorf("pbs: input dimension %d does not match bootstrap key dimension %d", len(in.A), len(brk.CoeffPos))
	}

	p.trace(tracer.PreModDown, in)

	q := uint64(2 * p.RLWE.N)
	bOdd := ModSwitchOdd(in.B, in.Q, q)
	aOdd := make([]uint64, len(in.A))
	for i, ai := range in.A {
		aOdd[i] = ModSwitchOdd(ai, in.Q, q)
	}
	p.trace(tracer.PostOddModDown, &lwe.Ciphertext{Q: q, B: bOdd, A: aOdd})

	acc, err := blindrotate.Rotate(p.RLWE, brk, testVector, bOdd, aOdd)
	if err != nil {
		return nil, fmt.Errorf("pbs: blind rotation: %w", err)
	}

	extracted, err := SampleExtract(p.RLWE, acc, 0)
	if err != nil {
		return nil, fmt.Errorf("pbs: sample extraction: %w", err)
	}

	down := lwe.NewCiphertext(p.QKs, len(extracted.A))
	down.B = ModSwitch(extracted.B, extracted.Q, p.QKs)
	for i, ai := range extracted.A {
		down.A[i] = ModSwitch(ai, extracted.Q, p.QKs)
	}
	p.trace(tracer.PostModDown, down)

	switched := lwe.NewCiphertext(p.QKs, len(ksk.Rows[0][0].A))
	lwe.KeySwitch(switched, down, ksk)
	p.trace(tracer.PostKSK, switched)

	out := lwe.NewCiphertext(in.Q, len(switched.A))
	out.B = ModSwitch(switched.B, p.QKs, in.Q)
	for i, ai := range switched.A {
		out.A[i] = ModSwitch(ai, p.QKs, in.Q)
	}

	return out, nil
}
