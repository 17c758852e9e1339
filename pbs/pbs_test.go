package pbs

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tfhe-go/boolean/ring"
)

func TestModSwitchRoundTripScale(t *testing.T) {
	const qFrom = uint64(1) << 32
	const qTo = uint64(1) << 10

	v := ModSwitch(qFrom/4, qFrom, qTo)
	require.InDelta(t, float64(qTo/4), float64(v), 1)
}

func TestModSwitchOddIsAlwaysOdd(t *testing.T) {
	const qFrom = uint64(1) << 20
	const qTo = uint64(1) << 8

	for _, x := range []uint64{0, 1, 12345, qFrom - 1, qFrom / 2} {
		v := ModSwitchOdd(x, qFrom, qTo)
		require.Equal(t, uint64(1), v%2, "ModSwitchOdd(%d) = %d must be odd", x, v)
		require.Less(t, v, qTo)
	}
}

func TestNandTestVectorHasSingleFalseRegion(t *testing.T) {
	r, err := ring.NewRing(16, 65537, 65529)
	require.NoError(t, err)

	tv := NandTestVector(r)
	falseCount := 0
	for _, v := range tv {
		if v != tv[0] {
			falseCount++
		}
	}
	require.Greater(t, falseCount, 0)
}

func TestGateTestVectorMatchesTruthTable(t *testing.T) {
	r, err := ring.NewRing(16, 65537, 65529)
	require.NoError(t, err)

	tv := GateTestVector(r, func(a, b bool) bool { return a && b })
	quadrant := r.N / 4
	// Quadrant 3 is (true, true).
	require.Equal(t, r.Q/8, tv[3*quadrant])
	// Quadrant 0 is (false, false).
	require.Equal(t, r.Q-r.Q/8, tv[0])
}
