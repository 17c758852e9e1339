package blindrotate

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tfhe-go/boolean/decomposer"
	"github.com/tfhe-go/boolean/ring"
	"github.com/tfhe-go/boolean/rlwe"
	"github.com/tfhe-go/boolean/sampling"
)

func TestDlogTableCoversAllResidues(t *testing.T) {
	// 5 generates the order-N/2 subgroup of (Z/2NZ)* mod +-1 for N=16.
	table, err := NewDlogTable(16, 5)
	require.NoError(t, err)
	require.Equal(t, 8, table.Buckets)

	seenBuckets := make(map[int]bool)
	for i := uint64(1); i < 32; i += 2 {
		e := table.Lookup(i)
		require.True(t, e.Bucket >= 0 && e.Bucket < table.Buckets)
		seenBuckets[e.Bucket] = true
	}
	require.Len(t, seenBuckets, 8)
}

func TestMonomialPolyWraparound(t *testing.T) {
	r, err := ring.NewRing(16, 65537, 65529)
	require.NoError(t, err)

	p0 := MonomialPoly(r, 0)
	require.Equal(t, uint64(1), p0[0])

	pN := MonomialPoly(r, 16)
	require.Equal(t, r.Q-1, pN[0])

	pNeg1 := MonomialPoly(r, -1)
	require.Equal(t, r.Q-1, pNeg1[15])
}

func testSetup(t *testing.T) (*ring.Ring, *decomposer.Decomposer, *rlwe.Secret, *sampling.GaussianSampler, *sampling.Source) {
	t.Helper()
	r, err := ring.NewRing(16, 65537, 65529)
	require.NoError(t, err)
	dec, err := decomposer.New(r.Q, 4, 4)
	require.NoError(t, err)
	seed, err := sampling.NewSeed()
	require.NoError(t, err)
	src, err := sampling.NewSource(seed)
	require.NoError(t, err)
	gauss := sampling.NewGaussianSampler(2.0)
	s, err := rlwe.NewSecret(r, 8, src)
	require.NoError(t, err)
	return r, dec, s, gauss, src
}

// TestRotateSelectsCorrectTestVectorEntry checks spec.md §8 property 5: with
// a zero LWE vector (b fixed, all a_i = 0), blind rotation degenerates to a
// pure monomial rotation of the test vector by -b, independent of the
// bootstrap key's coordinate ciphertexts.
func TestRotateSelectsCorrectTestVectorEntry(t *testing.T) {
	r, dec, s, gauss, src := testSetup(t)

	sIn := make([]uint64, 4)
	key, err := GenKey(r, dec, s, sIn, 5, gauss, src)
	require.NoError(t, err)

	testVector := r.NewPoly()
	testVector[0] = r.Q / 4

	acc, err := Rotate(r, key, testVector, 0, make([]uint64, 4))
	require.NoError(t, err)

	got, err := rlwe.Decrypt(r, acc, s)
	require.NoError(t, err)

	diff := got[0] - testVector[0]
	if diff > r.Q/2 {
		diff = r.Q - diff
	}
	require.Less(t, diff, r.Q/16)
}
