package ring

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// A small NTT-friendly (N=16, 2N | Q-1) prime and primitive 32nd root of
// unity, used throughout the package tests. Parameter selection proper is
// out of scope for this module; tests just need one concrete valid triple.
const (
	testN   = 16
	testQ   = 65537 // 2^16 + 1, Fermat prime: 2N=32 divides Q-1=65536
	testPsi = 65529 // 3^2048 mod 65537: a primitive 32nd root of unity mod 65537
)

func testRing(t *testing.T) *Ring {
	t.Helper()
	r, err := NewRing(testN, testQ, testPsi)
	require.NoError(t, err)
	require.True(t, r.HasNTT())
	return r
}

func randomPoly(r *Ring, rnd *rand.Rand) Poly {
	p := r.NewPoly()
	for i := range p {
		p[i] = rnd.Uint64() % r.Q
	}
	return p
}

// TestNTTRoundTrip checks spec.md §8 property 2: forward/backward compose to
// identity in both normalization conventions.
func TestNTTRoundTrip(t *testing.T) {
	r := testRing(t)
	rnd := rand.New(rand.NewSource(1))

	for trial := 0; trial < 50; trial++ {
		p := randomPoly(r, rnd)

		fwd := r.NewPoly()
		r.Forward(p, fwd)
		back := r.NewPoly()
		r.Backward(fwd, back)
		require.Equal(t, []uint64(p), []uint64(back), "Backward(Forward(p)) == p")

		fwdNorm := r.NewPoly()
		r.ForwardNormalized(p, fwdNorm)
		backNorm := r.NewPoly()
		r.BackwardNormalized(fwdNorm, backNorm)
		require.Equal(t, []uint64(p), []uint64(backNorm), "BackwardNormalized(ForwardNormalized(p)) == p")
	}
}

// TestAutomorphismLinearity checks spec.md §8 property 3.
func TestAutomorphismLinearity(t *testing.T) {
	r := testRing(t)
	rnd := rand.New(rand.NewSource(2))

	g := 5
	autoG := NewAutomorphismMap(r.N, g)
	autoGInv := autoG.Inverse()

	for trial := 0; trial < 20; trial++ {
		p := randomPoly(r, rnd)
		q := randomPoly(r, rnd)

		sum := r.NewPoly()
		r.Add(p, q, sum)

		sigmaSum := r.NewPoly()
		autoG.Apply(r, sum, sigmaSum)

		sigmaP := r.NewPoly()
		autoG.Apply(r, p, sigmaP)
		sigmaQ := r.NewPoly()
		autoG.Apply(r, q, sigmaQ)

		sigmaPPlusSigmaQ := r.NewPoly()
		r.Add(sigmaP, sigmaQ, sigmaPPlusSigmaQ)

		require.Equal(t, []uint64(sigmaSum), []uint64(sigmaPPlusSigmaQ))

		// sigma_k(sigma_{k^-1}(p)) == p
		roundTrip := r.NewPoly()
		tmp := r.NewPoly()
		autoGInv.Apply(r, p, tmp)
		autoG.Apply(r, tmp, roundTrip)
		require.Equal(t, []uint64(p), []uint64(roundTrip))
	}
}

func TestModularArithmetic(t *testing.T) {
	require.Equal(t, uint64(3), AddMod(1, 2, 97))
	require.Equal(t, uint64(0), AddMod(96, 1, 97))
	require.Equal(t, uint64(96), SubMod(0, 1, 97))
	require.Equal(t, uint64(1), NegMod(96, 97))
	require.Equal(t, uint64(0), NegMod(0, 97))
}
