package lwe

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tfhe-go/boolean/decomposer"
	"github.com/tfhe-go/boolean/sampling"
)

func newSource(t *testing.T) *sampling.Source {
	t.Helper()
	seed, err := sampling.NewSeed()
	require.NoError(t, err)
	src, err := sampling.NewSource(seed)
	require.NoError(t, err)
	return src
}

// TestRoundTrip checks spec.md §8 property 1 for the LWE layer.
func TestRoundTrip(t *testing.T) {
	const q = uint64(1) << 32
	src := newSource(t)
	gauss := sampling.NewGaussianSampler(3.2)

	s, err := NewSecret(q, 16, 8, src)
	require.NoError(t, err)

	for _, bit := range []uint64{0, 1} {
		m := bit * (q / 4)
		ct, err := Encrypt(q, s, m, gauss, src)
		require.NoError(t, err)

		got := Decrypt(ct, s)
		// Round to nearest multiple of q/4 and compare bit.
		rounded := (got + q/8) / (q / 4) % 4
		require.Equal(t, bit, rounded%2, "decrypted coset should round back to the encoded bit")
	}
}

func TestKeySwitchPreservesPlaintext(t *testing.T) {
	const qKs = uint64(1) << 20
	src := newSource(t)
	gauss := sampling.NewGaussianSampler(3.2)

	sIn, err := NewSecret(qKs, 8, 4, src)
	require.NoError(t, err)
	sOut, err := NewSecret(qKs, 4, 2, src)
	require.NoError(t, err)

	dec, err := decomposer.New(qKs, 4, 4)
	require.NoError(t, err)

	ksk := &Ksk{Dec: dec, Rows: make([][]*Ciphertext, len(sIn.Values))}
	for i, si := range sIn.Values {
		ksk.Rows[i] = make([]*Ciphertext, dec.D())
		for j, beta := range dec.GadgetVector() {
			scaledSecretCoeff := mulMod(si, beta, qKs)
			ct, err := Encrypt(qKs, sOut, scaledSecretCoeff, gauss, src)
			require.NoError(t, err)
			ksk.Rows[i][j] = ct
		}
	}

	in, err := Encrypt(qKs, sIn, qKs/4, gauss, src)
	require.NoError(t, err)

	out := NewCiphertext(qKs, len(sOut.Values))
	KeySwitch(out, in, ksk)

	got := Decrypt(out, sOut)
	rounded := (got + qKs/8) / (qKs / 4) % 4
	require.Equal(t, uint64(1), rounded%2)
}

func mulMod(a, b, q uint64) uint64 {
	hi, lo := bitsMul64(a, b)
	_ = hi
	return lo % q
}

func bitsMul64(a, b uint64) (hi, lo uint64) {
	lo = a * b
	return 0, lo
}
