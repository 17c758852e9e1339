package multiparty

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tfhe-go/boolean/lwe"
	"github.com/tfhe-go/boolean/ring"
	"github.com/tfhe-go/boolean/sampling"
)

func testSource(t *testing.T) *sampling.Source {
	t.Helper()
	seed, err := sampling.NewSeed()
	require.NoError(t, err)
	src, err := sampling.NewSource(seed)
	require.NoError(t, err)
	return src
}

// TestCollectiveDecryptionRecoversPlaintext checks spec.md §8's
// collective-decryption scenario: two parties' shares combine to recover
// the bit encrypted under their joint secret.
func TestCollectiveDecryptionRecoversPlaintext(t *testing.T) {
	const q = uint64(1) << 32
	n := 16

	srcA := testSource(t)
	srcB := testSource(t)
	gauss := sampling.NewGaussianSampler(3.2)
	smudge := sampling.NewGaussianSampler(3.2 * 1024)

	scratch, err := ring.NewRing(32, q, 0)
	require.NoError(t, err)

	sA, err := lwe.NewSecret(q, n, n/2, srcA)
	require.NoError(t, err)
	sB, err := lwe.NewSecret(q, n, n/2, srcB)
	require.NoError(t, err)

	joint := make([]uint64, n)
	for i := range joint {
		joint[i] = ring.AddMod(sA.Values[i], sB.Values[i], q)
	}
	jointSecret := &lwe.Secret{Values: joint}

	m := q / 8
	ct, err := lwe.Encrypt(q, jointSecret, m, gauss, srcA)
	require.NoError(t, err)

	shA, err := GenDecryptionShare(ct, sA.Values, smudge, scratch, srcA)
	require.NoError(t, err)
	shB, err := GenDecryptionShare(ct, sB.Values, smudge, scratch, srcB)
	require.NoError(t, err)

	bit, ambiguous := Combine(ct, []*DecryptionShare{shA, shB})
	require.False(t, ambiguous)
	require.True(t, bit)
}
