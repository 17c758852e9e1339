package keygen

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tfhe-go/boolean/decomposer"
	"github.com/tfhe-go/boolean/lwe"
	"github.com/tfhe-go/boolean/ring"
	"github.com/tfhe-go/boolean/rlwe"
	"github.com/tfhe-go/boolean/sampling"
)

func testSetup(t *testing.T) (*ring.Ring, *sampling.GaussianSampler, *sampling.Source) {
	t.Helper()
	r, err := ring.NewRing(16, 65537, 65529)
	require.NoError(t, err)
	gauss := sampling.NewGaussianSampler(2.0)
	seed, err := sampling.NewSeed()
	require.NoError(t, err)
	src, err := sampling.NewSource(seed)
	require.NoError(t, err)
	return r, gauss, src
}

func TestGenServerKeyProducesUsableBootstrapAndKsk(t *testing.T) {
	r, gauss, src := testSetup(t)

	brkDec, err := decomposer.New(r.Q, 4, 4)
	require.NoError(t, err)
	kskDec, err := decomposer.New(uint64(1)<<20, 4, 4)
	require.NoError(t, err)

	rlweSecret, err := rlwe.NewSecret(r, 8, src)
	require.NoError(t, err)

	lweSecret, err := lwe.NewSecret(kskDec.Q(), 8, 4, src)
	require.NoError(t, err)

	sk, err := GenServerKey(r, brkDec, kskDec, rlweSecret, lweSecret, 5, gauss, src)
	require.NoError(t, err)
	require.Len(t, sk.Brk.CoeffPos, 8)
	require.Len(t, sk.Brk.CoeffNeg, 8)
	require.Len(t, sk.Ksk.Rows, r.N)
}

func TestCheckNoiseBoundRejectsTooLargeSigma(t *testing.T) {
	err := CheckNoiseBound(1e8, uint64(1)<<32, 1e-9)
	require.Error(t, err)

	err = CheckNoiseBound(1e7, uint64(1)<<32, 1e-9)
	require.NoError(t, err)
}

func TestPublicKeyShareAggregationRoundTrip(t *testing.T) {
	r, gauss, _ := testSetup(t)

	seedA, err := sampling.NewSeed()
	require.NoError(t, err)
	srcA, err := sampling.NewSource(seedA)
	require.NoError(t, err)
	seedB, err := sampling.NewSeed()
	require.NoError(t, err)
	srcB, err := sampling.NewSource(seedB)
	require.NoError(t, err)

	sA, err := rlwe.NewSecret(r, 8, srcA)
	require.NoError(t, err)
	sB, err := rlwe.NewSecret(r, 8, srcB)
	require.NoError(t, err)

	pkCrSeed, err := sampling.NewSeed()
	require.NoError(t, err)

	shA, err := GenPublicKeyShare(r, sA, gauss, srcA, pkCrSeed)
	require.NoError(t, err)
	shB, err := GenPublicKeyShare(r, sB, gauss, srcB, pkCrSeed)
	require.NoError(t, err)

	pk, err := AggregatePublicKey(r, []*PublicKeyShare{shA, shB}, pkCrSeed)
	require.NoError(t, err)
	require.NotNil(t, pk.Seed)

	jointSecret := r.NewPoly()
	r.Add(sA.Value, sB.Value, jointSecret)

	m := r.NewPoly()
	m[0] = r.Q / 4
	ct, err := rlwe.EncryptPublicKey(r, pk, m, gauss, srcA)
	require.NoError(t, err)

	got, err := rlwe.Decrypt(r, ct, &rlwe.Secret{Value: jointSecret})
	require.NoError(t, err)

	diff := got[0] - m[0]
	if diff > r.Q/2 {
		diff = r.Q - diff
	}
	require.Less(t, diff, r.Q/16)
}

func TestDeriveSeedsAreDeterministicAndDistinct(t *testing.T) {
	main, err := sampling.NewSeed()
	require.NoError(t, err)

	s1, err := DeriveSeeds(main)
	require.NoError(t, err)
	s2, err := DeriveSeeds(main)
	require.NoError(t, err)

	require.Equal(t, s1.PkCr, s2.PkCr)
	require.Equal(t, s1.PbsCr, s2.PbsCr)
	require.NotEqual(t, s1.PkCr, s1.PbsCr)
}
