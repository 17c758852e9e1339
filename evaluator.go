package boolean

import (
	"fmt"

	"github.com/tfhe-go/boolean/decomposer"
	"github.com/tfhe-go/boolean/keygen"
	"github.com/tfhe-go/boolean/lwe"
	"github.com/tfhe-go/boolean/pbs"
	"github.com/tfhe-go/boolean/ring"
	"github.com/tfhe-go/boolean/rlwe"
	"github.com/tfhe-go/boolean/sampling"
	"github.com/tfhe-go/boolean/tracer"
)

// Evaluator holds the arithmetic context (ring, decomposers, noise
// samplers) every encryption/evaluation operation needs. It carries no
// secret or server key itself -- those are passed explicitly to each call
// -- so a single Evaluator value can serve a client-only, server-only, or
// combined role (spec.md §5, §9 design notes: "no thread-locals").
type Evaluator struct {
	params Parameters
	ring   *ring.Ring
	brkDec *decomposer.Decomposer
	kskDec *decomposer.Decomposer
	gauss  *sampling.GaussianSampler
	tracer tracer.Tracer
}

// NewEvaluator builds the arithmetic context for params. It takes no
// randomness source: the operations that need randomness (GenerateKeys,
// Encrypt) take their own Source explicitly so callers can control entropy
// provenance per call.
func NewEvaluator(params Parameters) (*Evaluator, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("boolean: %w: %w", ErrSetupFailure, err)
	}

	r, err := ring.NewRing(params.RingDegree, params.RLWEModulus, params.PrimitiveRoot)
	if err != nil {
		return nil, fmt.Errorf("boolean: %w: building ring: %w", ErrSetupFailure, err)
	}

	brkDec, err := decomposer.New(params.RLWEModulus, params.BrkDigits, params.BrkLogBase)
	if err != nil {
		return nil, fmt.Errorf("boolean: %w: bootstrap decomposer: %w", ErrSetupFailure, err)
	}
	kskDec, err := decomposer.New(params.KeySwitchMod, params.KskDigits, params.KskLogBase)
	if err != nil {
		return nil, fmt.Errorf("boolean: %w: keyswitch decomposer: %w", ErrSetupFailure, err)
	}

	return &Evaluator{
		params: params,
		ring:   r,
		brkDec: brkDec,
		kskDec: kskDec,
		gauss:  sampling.NewGaussianSampler(params.NoiseSigma),
	}, nil
}

// ShallowCopy returns an Evaluator sharing this one's immutable ring and
// decomposer state but free of any per-call mutable scratch, so concurrent
// goroutines can each hold their own copy and evaluate gates in parallel
// without interfering (spec.md §5, mirroring the teacher's
// Evaluator.ShallowCopy concurrency pattern).
func (e *Evaluator) ShallowCopy() *Evaluator {
	return &Evaluator{
		params: e.params,
		ring:   e.ring,
		brkDec: e.brkDec,
		kskDec: e.kskDec,
		gauss:  sampling.NewGaussianSampler(e.params.NoiseSigma),
		tracer: e.tracer,
	}
}

// Parameters returns the parameter set this Evaluator was built from.
func (e *Evaluator) Parameters() Parameters { return e.params }

// SetTracer attaches t as the Evaluator's PBS noise tracer; every
// subsequent gate call reports its pipeline snapshots to t. Pass nil to
// disable tracing again (spec.md §9, "Noise tracing" -- off by default,
// never load-bearing for correctness).
func (e *Evaluator) SetTracer(t tracer.Tracer) { e.tracer = t }

// SecretKey is a party's private key material: the RLWE accumulator secret
// and the LWE key-switch-target secret (spec.md §3).
type SecretKey struct {
	RLWE *rlwe.Secret
	LWE  *lwe.Secret
}

// GenerateKeys draws a fresh secret key and the server key derived from it
// (spec.md §4.8). g is the blind-rotation generator from params.Generator.
func (e *Evaluator) GenerateKeys(src *sampling.Source) (*SecretKey, *keygen.ServerKey, error) {
	rlweSecret, err := rlwe.NewSecret(e.ring, e.params.RLWESecretWeight, src)
	if err != nil {
		return nil, nil, fmt.Errorf("boolean: %w: rlwe secret: %w", ErrSetupFailure, err)
	}
	lweSecret, err := lwe.NewSecret(e.params.KeySwitchMod, e.params.LWEDimension, e.params.LWESecretWeight, src)
	if err != nil {
		return nil, nil, fmt.Errorf("boolean: %w: lwe secret: %w", ErrSetupFailure, err)
	}

	sk, err := keygen.GenServerKey(e.ring, e.brkDec, e.kskDec, rlweSecret, lweSecret, e.params.Generator, e.gauss, src)
	if err != nil {
		return nil, nil, fmt.Errorf("boolean: %w: server key: %w", ErrSetupFailure, err)
	}

	return &SecretKey{RLWE: rlweSecret, LWE: lweSecret}, sk, nil
}

// pbsParams builds the moduli bundle package pbs needs for Bootstrap.
func (e *Evaluator) pbsParams() *pbs.Params {
	return &pbs.Params{RLWE: e.ring, QKs: e.params.KeySwitchMod, Tracer: e.tracer}
}
