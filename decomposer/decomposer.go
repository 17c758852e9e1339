// Package decomposer implements C3: signed base-beta digit decomposition,
// the gadget transform that turns "multiply by a large ring/field element"
// into "sum of multiplications by small signed digits", which is what makes
// the RLWE/RGSW external product and the LWE key switch noise-linear instead
// of noise-multiplicative.
//
// No single teacher file implements this as a standalone, single-modulus
// capability -- in the kept lattigo generation it is inlined into the RNS
// gadget-ciphertext machinery we did not carry forward (see DESIGN.md). This
// package is built directly from the algebraic contract of spec.md §4.3 and
// §3 Invariant 5, cross-checked against original_source's math/src/ring.rs
// decomposer (same signed-digit convention).
package decomposer

import "fmt"

// Decomposer decomposes elements of Z_Q into d signed digits in base beta =
// 2^logBeta, such that x = sum(d_j * beta^j) mod Q, with |d_j| <= beta/2.
type Decomposer struct {
	q       uint64
	logBeta int
	beta    uint64
	d       int
	gadget  []uint64 // [beta^0, beta^1, ..., beta^{d-1}] * 2^shift
}

// New builds a Decomposer for modulus q, digit count d and base beta =
// 2^logBeta. It does not check that beta^d >= q: when d*logBeta is smaller
// than log2(q), the low bits of x are truncated (ignored) rather than
// decomposed -- the usual "ignore low bits" gadget trick -- and every gadget
// entry is scaled by 2^shift so that it stays aligned with the digits.
func New(q uint64, d, logBeta int) (*Decomposer, error) {
	if d <= 0 || logBeta <= 0 {
		return nil, fmt.Errorf("decomposer: d=%d and logBeta=%d must be positive", d, logBeta)
	}
	beta := uint64(1) << uint(logBeta)
	gadget := make([]uint64, d)
	acc := uint64(1)
	for j := 0; j < d; j++ {
		gadget[j] = acc
		if j != d-1 {
			acc *= beta
		}
	}
	dec := &Decomposer{q: q, logBeta: logBeta, beta: beta, d: d, gadget: gadget}
	shift := dec.shift()
	for j := range gadget {
		gadget[j] <<= shift
	}
	return dec, nil
}

// D returns the digit count.
func (dec *Decomposer) D() int { return dec.d }

// Q returns the modulus this decomposer was built for.
func (dec *Decomposer) Q() uint64 { return dec.q }

// Base returns beta.
func (dec *Decomposer) Base() uint64 { return dec.beta }

// GadgetVector returns [beta^0 ... beta^{d-1}] scaled by 2^shift (the number
// of truncated low bits, 0 when nothing is truncated), the vector decomposed
// digits are implicitly weighted by.
func (dec *Decomposer) GadgetVector() []uint64 { return dec.gadget }

// Decompose writes the d signed digits of x (each represented as an element
// of Z_q in balanced form, i.e. in (-beta/2, beta/2] mapped into [0, q) the
// usual way: small positive digits stay as-is, negative digits are encoded
// as q - |d_j|) into out, which must have length d.
//
// When d*logBeta < log2(q), the low (log2(q) - d*logBeta) bits of x are
// dropped before decomposing -- this is the "ignore low bits" truncation
// spec.md §4.3 allows; those bits contribute an error below 2^shift to
// the reconstruction, which the parameter set's noise budget already
// accounts for.
func (dec *Decomposer) Decompose(x uint64, out []uint64) {
	shift := dec.shift()
	v := x >> shift

	halfBeta := dec.beta >> 1
	carry := uint64(0)
	for j := 0; j < dec.d; j++ {
		digit := (v & (dec.beta - 1)) + carry
		v >>= dec.logBeta
		carry = 0
		if digit > halfBeta {
			// balance into (-beta/2, beta/2]: represent as q - (beta-digit).
			out[j] = dec.q - (dec.beta - digit)
			carry = 1
		} else {
			out[j] = digit
		}
	}
}

// shift returns how many low bits of x are dropped before decomposition.
func (dec *Decomposer) shift() uint {
	logQ := 0
	for q := dec.q; q > 1; q >>= 1 {
		logQ++
	}
	total := dec.d * dec.logBeta
	if total >= logQ {
		return 0
	}
	return uint(logQ - total)
}
