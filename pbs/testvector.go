package pbs

import "github.com/tfhe-go/boolean/ring"

// NandTestVector builds the blind-rotation test polynomial for the NAND
// gate: phases corresponding to "both inputs true" decode to -Q/8 (encoded
// false), every other phase decodes to +Q/8 (encoded true) -- NAND's truth
// table has exactly one false row, so a single threshold boundary at the
// negacyclic ring's midpoint suffices (spec.md §4.2, "NAND test vector").
//
// The polynomial is built directly in the rotated-by-sign-of-generator
// frame the blind-rotation loop expects: coefficient k holds the output for
// the phase bucket k, with the wraparound half (k >= N/2) pre-negated by the
// ring's X^N=-1 identity so that sample extraction's sign convention lines
// up without a separate post-rotation fixup.
func NandTestVector(r *ring.Ring) ring.Poly {
	out := r.NewPoly()
	mu := r.Q / 8
	falseVal := r.Q - mu
	trueVal := mu

	quarter := r.N / 4
	for k := 0; k < r.N; k++ {
		if k >= quarter && k < 3*quarter {
			out[k] = falseVal
		} else {
			out[k] = trueVal
		}
	}
	return out
}

// GateTestVector builds a general LUT test polynomial from an arbitrary
// 2-input boolean function, for use by the root package's derived gates
// (AND, OR, XOR, ...). f receives the two encoded input bits and returns
// the gate's output bit.
//
// It assumes its input ciphertext was formed as the weighted combination
// 2*Enc(a) + Enc(b) (encoding true as +Q/8, false as -Q/8): the resulting
// phase takes one of four distinct, strictly increasing values
// -3Q/8, -Q/8, +Q/8, +3Q/8 for (a,b) = (F,F), (F,T), (T,F), (T,T)
// respectively, so the four quadrants of the negacyclic phase space can be
// read directly in truth-table order without needing a separate pass to
// distinguish the two mixed-input cases (spec.md §4.2).
func GateTestVector(r *ring.Ring, f func(a, b bool) bool) ring.Poly {
	out := r.NewPoly()
	mu := r.Q / 8
	trueVal := mu
	falseVal := r.Q - mu

	quadrant := r.N / 4
	inputs := [4][2]bool{{false, false}, {false, true}, {true, false}, {true, true}}
	for q := 0; q < 4; q++ {
		val := falseVal
		if f(inputs[q][0], inputs[q][1]) {
			val = trueVal
		}
		for k := q * quadrant; k < (q+1)*quadrant; k++ {
			out[k] = val
		}
	}
	return out
}
