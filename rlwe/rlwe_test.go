package rlwe

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tfhe-go/boolean/ring"
	"github.com/tfhe-go/boolean/sampling"
)

func testRing(t *testing.T) *ring.Ring {
	t.Helper()
	r, err := ring.NewRing(16, 65537, 65529)
	require.NoError(t, err)
	return r
}

func testSource(t *testing.T) *sampling.Source {
	t.Helper()
	seed, err := sampling.NewSeed()
	require.NoError(t, err)
	src, err := sampling.NewSource(seed)
	require.NoError(t, err)
	return src
}

// TestSecretKeyRoundTrip checks spec.md §8 property 1 for the RLWE layer.
func TestSecretKeyRoundTrip(t *testing.T) {
	r := testRing(t)
	src := testSource(t)
	gauss := sampling.NewGaussianSampler(3.2)

	s, err := NewSecret(r, 8, src)
	require.NoError(t, err)

	m := r.NewPoly()
	m[0] = r.Q / 4

	ct, err := EncryptSecretKey(r, s, m, gauss, src, nil)
	require.NoError(t, err)

	got, err := Decrypt(r, ct, s)
	require.NoError(t, err)

	// The constant term should decrypt close to Q/4; noise should keep every
	// other coefficient small relative to Q/4.
	diff := got[0] - m[0]
	if diff > r.Q/2 {
		diff = r.Q - diff
	}
	require.Less(t, diff, r.Q/16)
}

func TestPublicKeyRoundTrip(t *testing.T) {
	r := testRing(t)
	src := testSource(t)
	gauss := sampling.NewGaussianSampler(3.2)

	s, err := NewSecret(r, 8, src)
	require.NoError(t, err)

	crSeed, err := sampling.NewSeed()
	require.NoError(t, err)

	pk, err := GenPublicKey(r, s, gauss, src, crSeed)
	require.NoError(t, err)

	m := r.NewPoly()
	m[0] = r.Q / 4

	ct, err := EncryptPublicKey(r, pk, m, gauss, src)
	require.NoError(t, err)

	got, err := Decrypt(r, ct, s)
	require.NoError(t, err)

	diff := got[0] - m[0]
	if diff > r.Q/2 {
		diff = r.Q - diff
	}
	require.Less(t, diff, r.Q/16)
}

// TestSeedDerivedAMatchesStored checks that reconstructing A from a seed
// yields exactly the stored polynomial (spec.md §6).
func TestSeedDerivedAMatchesStored(t *testing.T) {
	r := testRing(t)
	src := testSource(t)
	gauss := sampling.NewGaussianSampler(3.2)

	s, err := NewSecret(r, 8, src)
	require.NoError(t, err)

	seed, err := sampling.NewSeed()
	require.NoError(t, err)

	withSeed, err := EncryptSecretKey(r, s, nil, gauss, src, &seed)
	require.NoError(t, err)
	require.Nil(t, withSeed.A)

	a, err := withSeed.ResolveA(r)
	require.NoError(t, err)

	srcAgain, err := sampling.NewSource(seed)
	require.NoError(t, err)
	direct := r.NewPoly()
	require.NoError(t, sampling.UniformPoly(r, srcAgain.Seedable, direct))

	require.Equal(t, []uint64(direct), []uint64(a))
}
