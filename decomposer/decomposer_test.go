package decomposer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGadgetVectorAlignment(t *testing.T) {
	dec, err := New(1<<32, 4, 8)
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 1 << 8, 1 << 16, 1 << 24}, dec.GadgetVector())
}

func TestDecomposeSmallValues(t *testing.T) {
	q := uint64(1) << 32
	dec, err := New(q, 4, 8)
	require.NoError(t, err)

	digits := make([]uint64, dec.D())
	dec.Decompose(10, digits)
	require.Equal(t, uint64(10), digits[0])
	for _, d := range digits[1:] {
		require.Zero(t, d)
	}
}

func TestDecomposeRespectsDigitBound(t *testing.T) {
	q := uint64(1) << 32
	dec, err := New(q, 4, 8)
	require.NoError(t, err)
	half := dec.Base() / 2

	digits := make([]uint64, dec.D())
	dec.Decompose(0xFEDCBA98, digits)
	for _, d := range digits {
		require.True(t, d <= half || d >= q-half, "digit %d outside balanced range", d)
	}
}
