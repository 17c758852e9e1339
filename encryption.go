package boolean

import (
	"fmt"

	"github.com/tfhe-go/boolean/lwe"
	"github.com/tfhe-go/boolean/sampling"
)

// Encrypt encodes bit as +Q/8 (true) or -Q/8 (false) and produces an
// LWE(Q) ciphertext of dimension params.LWEDimension under sk.LWE -- the
// shape every gate above expects as input (spec.md §4.1, §4.2 encoding).
func (e *Evaluator) Encrypt(sk *SecretKey, bit bool, src *sampling.Source) (*lwe.Ciphertext, error) {
	mu := e.params.RLWEModulus / 8
	m := mu
	if !bit {
		m = e.params.RLWEModulus - mu
	}

	secret := sk.LWE.At(e.params.RLWEModulus)
	ct, err := lwe.Encrypt(e.params.RLWEModulus, secret, m, e.gauss, src)
	if err != nil {
		return nil, fmt.Errorf("boolean: encrypt: %w", err)
	}
	return ct, nil
}

// Decrypt recovers the encoded bit from ct, rounding the noisy phase to
// whichever of +Q/8, -Q/8 it is closer to (spec.md §4.1).
func (e *Evaluator) Decrypt(sk *SecretKey, ct *lwe.Ciphertext) bool {
	secret := sk.LWE.At(ct.Q)
	phase := lwe.Decrypt(ct, secret)

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
	return distToTrue <= distToFalse
}
