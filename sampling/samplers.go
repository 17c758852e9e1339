package sampling

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/tfhe-go/boolean/ring"
)

// UniformPoly fills p with independent uniform elements of Z_Q, drawn from
// src (callers pass Source.Seedable for seed-reproducible A-halves, or
// Source.Private otherwise).
func UniformPoly(r *ring.Ring, src interface {
	Read([]byte) (int, error)
}, p ring.Poly) error {
	for i := range p {
		v, err := uniformUint64(src, r.Q)
		if err != nil {
			return fmt.Errorf("sampling: uniform poly: %w", err)
		}
		p[i] = v
	}
	return nil
}

// GaussianSampler draws centered discrete-Gaussian noise, discretized to Z_Q
// via rounded truncation at roughly 6 sigma (spec.md §4.4).
type GaussianSampler struct {
	sigma float64
	bound int64
}

// NewGaussianSampler builds a sampler with standard deviation sigma,
// truncated at 6*sigma.
func NewGaussianSampler(sigma float64) *GaussianSampler {
	return &GaussianSampler{sigma: sigma, bound: int64(math.Ceil(6 * sigma))}
}

// Sample draws one centered Gaussian value, reduced mod Q.
func (g *GaussianSampler) Sample(r *ring.Ring, src interface {
	Read([]byte) (int, error)
}) (uint64, error) {
	for {
		u1, err := uniformFloat(src)
		if err != nil {
			return 0, err
		}
		u2, err := uniformFloat(src)
		if err != nil {
			return 0, err
		}
		// Box-Muller.
		radius := math.Sqrt(-2 * math.Log(u1+1e-300))
		z := radius * math.Cos(2*math.Pi*u2) * g.sigma
		v := int64(math.Round(z))
		if v >= -g.bound && v <= g.bound {
			if v < 0 {
				return r.Q - uint64(-v), nil
			}
			return uint64(v), nil
		}
	}
}

// SamplePoly fills p with independent centered-Gaussian noise.
func (g *GaussianSampler) SamplePoly(r *ring.Ring, src interface {
	Read([]byte) (int, error)
}, p ring.Poly) error {
	for i := range p {
		v, err := g.Sample(r, src)
		if err != nil {
			return err
		}
		p[i] = v
	}
	return nil
}

func uniformFloat(src interface{ Read([]byte) (int, error) }) (float64, error) {
	var buf [8]byte
	if _, err := src.Read(buf[:]); err != nil {
		return 0, err
	}
	v := uint64(0)
	for i, b := range buf {
		v |= uint64(b) << (8 * i)
	}
	// (0, 1) open interval, avoiding log(0).
	return (float64(v>>11) + 1) / float64(uint64(1)<<53), nil
}

// TernarySample draws a length-n vector over {-1, 0, +1} (represented as
// {Q-1, 0, 1} in Z_Q) with exactly `weight` nonzero positions, each assigned
// +-1 uniformly. Rejection-samples positions via a seen-bitset, matching
// original_source's math/src/distribution.rs fixed-weight sampler.
func TernarySample(r *ring.Ring, src interface {
	Read([]byte) (int, error)
}, n, weight int) (ring.Poly, error) {
	if weight <= 0 || weight > n {
		return nil, fmt.Errorf("sampling: hamming weight %d invalid for length %d", weight, n)
	}

	out := make(ring.Poly, n)
	seen := make([]bool, n)
	placed := 0
	for placed < weight {
		idx, err := uniformUint64(src, uint64(n))
		if err != nil {
			return nil, err
		}
		if seen[idx] {
			continue
		}
		seen[idx] = true

		sign, err := uniformUint64(src, 2)
		if err != nil {
			return nil, err
		}
		if sign == 0 {
			out[idx] = 1
		} else {
			out[idx] = r.Q - 1
		}
		placed++
	}
	return out, nil
}

// nextPow2 rounds n up to the next power of two (1 for n <= 1). It is
// unexported and nothing in this package calls it; package lwe sizes its
// secrets with its own copy.
func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
