// Package keygen implements C8: single-party server-key generation
// (bootstrap key + LWE key-switch key), multi-party share generation and
// aggregation, and common-reference-seed handling.
//
// Grounded on the teacher's rlwe/keygen.go and lwe/ key-switch-key
// construction for the single-party path; multiparty/ for the share/
// aggregate split used by the multi-party path (spec.md §4.8, §4.11).
package keygen

import (
	"fmt"
	"math"
	"math/big"

	"github.com/ALTree/bigfloat"
	"github.com/tfhe-go/boolean/blindrotate"
	"github.com/tfhe-go/boolean/decomposer"
	"github.com/tfhe-go/boolean/lwe"
	"github.com/tfhe-go/boolean/ring"
	"github.com/tfhe-go/boolean/rlwe"
	"github.com/tfhe-go/boolean/sampling"
)

// ServerKey bundles the two pieces the PBS pipeline needs at evaluation
// time: the blind-rotation (bootstrap) key and the LWE-to-LWE key-switch
// key (spec.md §3).
type ServerKey struct {
	Brk *blindrotate.Key
	Ksk *lwe.Ksk
}

// GenServerKey builds a single party's server key from its RLWE accumulator
// secret and the (small-dimension) LWE secret that gate ciphertexts are
// encrypted under: brk.CoeffPos/CoeffNeg's RGSW(selector bit) entries use
// lweSecret's coordinates directly (the blind-rotation loop consumes the
// gate ciphertext's own a_i's, which live in that same small dimension),
// while ksk key-switches the big (RLWE-coefficient) dimension sample
// extraction produces back down to lweSecret's dimension (spec.md §4.8).
func GenServerKey(r *ring.Ring, brkDec, kskDec *decomposer.Decomposer, rlweSecret *rlwe.Secret, lweSecret *lwe.Secret, g uint64, gauss *sampling.GaussianSampler, src *sampling.Source) (*ServerKey, error) {
	mod2N := uint64(2 * r.N)
	sIn := make([]uint64, len(lweSecret.Values))
	for i, v := range lweSecret.Values {
		sIn[i] = ternaryReinterpret(v, 0, mod2N)
	}

	brk, err := blindrotate.GenKey(r, brkDec, rlweSecret, sIn, g, gauss, src)
	if err != nil {
		return nil, fmt.Errorf("keygen: bootstrap key: %w", err)
	}

	qKs := kskDec.Q()
	lweSecretKs := lweSecret.At(qKs)
	ksk := &lwe.Ksk{Dec: kskDec, Rows: make([][]*lwe.Ciphertext, len(rlweSecret.Value))}
	for i, si := range rlweSecret.Value {
		siKs := ternaryReinterpret(si, r.Q, qKs)
		ksk.Rows[i] = make([]*lwe.Ciphertext, kskDec.D())
		for j, beta := range kskDec.GadgetVector() {
			coeff := ring.MulModGeneric(siKs, beta, qKs)
			ct, err := lwe.Encrypt(qKs, lweSecretKs, coeff, gauss, src)
			if err != nil {
				return nil, fmt.Errorf("keygen: key-switch key row (%d,%d): %w", i, j, err)
			}
			ksk.Rows[i][j] = ct
		}
	}

	return &ServerKey{Brk: brk, Ksk: ksk}, nil
}

// ternaryReinterpret maps a {0, 1, qFrom-1} ternary value into its {0, 1,
// qTo-1} representation under a different modulus.
func ternaryReinterpret(v, qFrom, qTo uint64) uint64 {
	switch v {
	case 0:
		return 0
	case 1:
		return 1
	default:
		return qTo - 1
	}
}

// CheckNoiseBound validates that the chosen Gaussian noise parameter sigma
// keeps the bootstrapped ciphertext's failure probability below target
// (spec.md §4.4, "parameter soundness"). It follows the standard lattice
// tail bound Pr[|e| > B] <= 2*exp(-B^2/(2*sigma^2)) evaluated at the
// decryption threshold B = Q/16, using arbitrary-precision arithmetic
// because the exponent is large enough that float64 alone loses the
// comparison's significant digits for realistic (sigma, Q) parameter pairs.
func CheckNoiseBound(sigma float64, q uint64, target float64) error {
	if sigma <= 0 {
		return fmt.Errorf("keygen: sigma must be positive, got %v", sigma)
	}
	bound := float64(q) / 16

	exponent := -(bound * bound) / (2 * sigma * sigma)
	prec := uint(128)
	prob := bigfloat.Exp(new(big.Float).SetPrec(prec).SetFloat64(exponent))
	prob.Mul(prob, new(big.Float).SetPrec(prec).SetFloat64(2))

	probF, _ := prob.Float64()
	if math.IsInf(probF, 0) || math.IsNaN(probF) {
		return fmt.Errorf("keygen: failure-probability computation diverged for sigma=%v q=%v", sigma, q)
	}
	if probF > target {
		return fmt.Errorf("keygen: noise parameter sigma=%v gives failure probability %.3e, exceeds target %.3e", sigma, probF, target)
	}
	return nil
}
