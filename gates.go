package boolean

import (
	"fmt"

	"github.com/tfhe-go/boolean/keygen"
	"github.com/tfhe-go/boolean/lwe"
	"github.com/tfhe-go/boolean/pbs"
	"github.com/tfhe-go/boolean/ring"
)

// combine2 builds the weighted-sum ciphertext 2*ct1 + ct2 that
// GateTestVector's quadrant layout assumes, so every one of a two-input
// gate's four truth-table rows lands on a distinct phase (spec.md §4.2).
func combine2(ct1, ct2 *lwe.Ciphertext) (*lwe.Ciphertext, error) {
	if ct1.Q != ct2.Q || len(ct1.A) != len(ct2.A) {
		return nil, fmt.Errorf("boolean: %w: combine2 dimension/modulus mismatch", ErrParameterMismatch)
	}
	out := lwe.NewCiphertext(ct1.Q, len(ct1.A))
	out.B = ring.AddMod(ring.MulModGeneric(2, ct1.B, ct1.Q), ct2.B, ct1.Q)
	for i := range out.A {
		out.A[i] = ring.AddMod(ring.MulModGeneric(2, ct1.A[i], ct1.Q), ct2.A[i], ct1.Q)
	}
	return out, nil
}

// plainSum builds ct1 + ct2, the combination NAND's test vector expects
// (NAND has a single false row, so the quarter/three-quarter split of
// NandTestVector already distinguishes it without a weighted combination).
func plainSum(ct1, ct2 *lwe.Ciphertext) (*lwe.Ciphertext, error) {
	if ct1.Q != ct2.Q || len(ct1.A) != len(ct2.A) {
		return nil, fmt.Errorf("boolean: %w: plainSum dimension/modulus mismatch", ErrParameterMismatch)
	}
	out := lwe.NewCiphertext(ct1.Q, len(ct1.A))
	out.B = ring.AddMod(ct1.B, ct2.B, ct1.Q)
	for i := range out.A {
		out.A[i] = ring.AddMod(ct1.A[i], ct2.A[i], ct1.Q)
	}
	return out, nil
}

// gate runs Bootstrap against a given test vector over the combined
// ciphertext, the shared plumbing every two-input gate below uses.
func (e *Evaluator) gate(sk *keygen.ServerKey, combined *lwe.Ciphertext, tv ring.Poly) (*lwe.Ciphertext, error) {
	out, err := pbs.Bootstrap(e.pbsParams(), combined, sk.Ksk, sk.Brk, tv)
	if err != nil {
		return nil, fmt.Errorf("boolean: gate bootstrap: %w", err)
	}
	return out, nil
}

// NAND is the one gate whose test vector is read against a plain ciphertext
// sum; every other two-input gate below bootstraps against the weighted
// combine2 sum instead (see weighted2), and NOT needs no bootstrap at all
// (spec.md §4.3, "free gates").
func (e *Evaluator) NAND(sk *keygen.ServerKey, ct1, ct2 *lwe.Ciphertext) (*lwe.Ciphertext, error) {
	combined, err := plainSum(ct1, ct2)
	if err != nil {
		return nil, err
	}
	return e.gate(sk, combined, pbs.NandTestVector(e.ring))
}

// NOT negates a ciphertext's encoded bit without any bootstrap: negating
// every coefficient of b and each a_i maps the +Q/8 / -Q/8 encoding onto
// its opposite while leaving <a,s> unaffected modulo the sign flip (spec.md
// §4.3, "free gates").
func (e *Evaluator) NOT(ct *lwe.Ciphertext) *lwe.Ciphertext {
	out := lwe.NewCiphertext(ct.Q, len(ct.A))
	out.B = ring.NegMod(ct.B, ct.Q)
	for i, ai := range ct.A {
		out.A[i] = ring.NegMod(ai, ct.Q)
	}
	return out
}

func (e *Evaluator) weighted2(sk *keygen.ServerKey, ct1, ct2 *lwe.Ciphertext, f func(a, b bool) bool) (*lwe.Ciphertext, error) {
	combined, err := combine2(ct1, ct2)
	if err != nil {
		return nil, err
	}
	return e.gate(sk, combined, pbs.GateTestVector(e.ring, f))
}

// AND, OR, XOR, NOR, XNOR are the five remaining standard two-input gates;
// each bootstraps once against a LUT built directly from its truth table
// (spec.md §4.2, derived gates).
func (e *Evaluator) AND(sk *keygen.ServerKey, ct1, ct2 *lwe.Ciphertext) (*lwe.Ciphertext, error) {
	return e.weighted2(sk, ct1, ct2, func(a, b bool) bool { return a && b })
}

func (e *Evaluator) OR(sk *keygen.ServerKey, ct1, ct2 *lwe.Ciphertext) (*lwe.Ciphertext, error) {
	return e.weighted2(sk, ct1, ct2, func(a, b bool) bool { return a || b })
}

func (e *Evaluator) XOR(sk *keygen.ServerKey, ct1, ct2 *lwe.Ciphertext) (*lwe.Ciphertext, error) {
	return e.weighted2(sk, ct1, ct2, func(a, b bool) bool { return a != b })
}

func (e *Evaluator) NOR(sk *keygen.ServerKey, ct1, ct2 *lwe.Ciphertext) (*lwe.Ciphertext, error) {
	return e.weighted2(sk, ct1, ct2, func(a, b bool) bool { return !(a || b) })
}

func (e *Evaluator) XNOR(sk *keygen.ServerKey, ct1, ct2 *lwe.Ciphertext) (*lwe.Ciphertext, error) {
	return e.weighted2(sk, ct1, ct2, func(a, b bool) bool { return a == b })
}

// ANDNY computes (NOT ct1) AND ct2; ANDYN computes ct1 AND (NOT ct2); ORNY
// and ORYN are the equivalent OR-family asymmetric gates. These expose the
// four "one input inverted" combinations directly as single bootstraps
// rather than composing NOT with AND/OR, since NOT is free and the LUT
// already has the inverted truth table built in (spec.md §4.2).
func (e *Evaluator) ANDNY(sk *keygen.ServerKey, ct1, ct2 *lwe.Ciphertext) (*lwe.Ciphertext, error) {
	return e.weighted2(sk, ct1, ct2, func(a, b bool) bool { return !a && b })
}

func (e *Evaluator) ANDYN(sk *keygen.ServerKey, ct1, ct2 *lwe.Ciphertext) (*lwe.Ciphertext, error) {
	return e.weighted2(sk, ct1, ct2, func(a, b bool) bool { return a && !b })
}

func (e *Evaluator) ORNY(sk *keygen.ServerKey, ct1, ct2 *lwe.Ciphertext) (*lwe.Ciphertext, error) {
	return e.weighted2(sk, ct1, ct2, func(a, b bool) bool { return !a || b })
}

func (e *Evaluator) ORYN(sk *keygen.ServerKey, ct1, ct2 *lwe.Ciphertext) (*lwe.Ciphertext, error) {
	return e.weighted2(sk, ct1, ct2, func(a, b bool) bool { return a || !b })
}

// MUX computes (cond AND a) OR (NOT cond AND b) -- ct1 selects, choosing
// ct2 when true and ct3 when false -- via two NAND-family bootstraps plus
// a final combination, following the standard 3-gate MUX decomposition
// since a single LUT pass can only discriminate inputs on a 1-D phase axis
// and MUX genuinely depends on three independent bits (spec.md §4.2, "MUX
// is not a 2-input gate").
func (e *Evaluator) MUX(sk *keygen.ServerKey, cond, ifTrue, ifFalse *lwe.Ciphertext) (*lwe.Ciphertext, error) {
	notCond := e.NOT(cond)

	left, err := e.weighted2(sk, cond, ifTrue, func(a, b bool) bool { return a && b })
	if err != nil {
		return nil, fmt.Errorf("boolean: mux left branch: %w", err)
	}
	right, err := e.weighted2(sk, notCond, ifFalse, func(a, b bool) bool { return a && b })
	if err != nil {
		return nil, fmt.Errorf("boolean: mux right branch: %w", err)
	}
	return e.OR(sk, left, right)
}
