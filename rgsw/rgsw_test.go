package rgsw

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tfhe-go/boolean/decomposer"
	"github.com/tfhe-go/boolean/ring"
	"github.com/tfhe-go/boolean/rlwe"
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

// TestExternalProductMultipliesPlaintexts checks spec.md §8 property 4: the
// external product of Rlwe(m1) with Rgsw(m2) decrypts to (approximately)
// m1*m2.
func TestExternalProductMultipliesPlaintexts(t *testing.T) {
	r := testRing(t)
	src := testSource(t)
	gauss := sampling.NewGaussianSampler(2.0)

	s, err := rlwe.NewSecret(r, 8, src)
	require.NoError(t, err)

	dec, err := decomposer.New(r.Q, 4, 4)
	require.NoError(t, err)

	// m2 = 1 (the constant polynomial), so m1*m2 should recover m1 exactly
	// up to noise.
	one := r.NewPoly()
	one[0] = 1
	gsw, err := Encrypt(r, dec, s, one, gauss, src)
	require.NoError(t, err)

	m1 := r.NewPoly()
	m1[0] = r.Q / 4
	ct, err := rlwe.EncryptSecretKey(r, s, m1, gauss, src, nil)
	require.NoError(t, err)

	out := rlwe.NewCiphertext(r)
	require.NoError(t, ExternalProduct(r, dec, ct, gsw, out))

	got, err := rlwe.Decrypt(r, out, s)
	require.NoError(t, err)

	diff := got[0] - m1[0]
	if diff > r.Q/2 {
		diff = r.Q - diff
	}
	require.Less(t, diff, r.Q/16)
}

func TestAutomorphismPreservesDecryption(t *testing.T) {
	r := testRing(t)
	src := testSource(t)
	gauss := sampling.NewGaussianSampler(2.0)

	s, err := rlwe.NewSecret(r, 8, src)
	require.NoError(t, err)

	dec, err := decomposer.New(r.Q, 4, 4)
	require.NoError(t, err)

	one := r.NewPoly()
	one[0] = 1
	gsw, err := Encrypt(r, dec, s, one, gauss, src)
	require.NoError(t, err)

	amap := ring.NewAutomorphismMap(r.N, 3)
	out := NewCiphertext(r, dec.D())
	Automorphism(r, amap, gsw, out)

	require.Len(t, out.ARow, dec.D())
	require.Len(t, out.BRow, dec.D())

	// BRow[0] encrypted 1*g_0 under s; after sigma_k it decrypts to
	// sigma_k(1)*g_0 = g_0 under sigma_k(s).
	sigmaS := r.NewPoly()
	amap.Apply(r, s.Value, sigmaS)
	got, err := rlwe.Decrypt(r, out.BRow[0], &rlwe.Secret{Value: sigmaS})
	require.NoError(t, err)

	g0 := dec.GadgetVector()[0]
	diff := got[0] - g0
	if diff > r.Q/2 {
		diff = r.Q - diff
	}
	require.Less(t, diff, r.Q/16)
}
