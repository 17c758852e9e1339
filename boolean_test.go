package boolean

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tfhe-go/boolean/keygen"
	"github.com/tfhe-go/boolean/lwe"
	"github.com/tfhe-go/boolean/sampling"
)

func testParameters() Parameters {
	return Parameters{
		RingDegree:       16,
		RLWEModulus:      65537,
		PrimitiveRoot:    65529,
		KeySwitchMod:     1 << 20,
		LWEDimension:     8,
		LWESecretWeight:  4,
		RLWESecretWeight: 8,
		BrkDigits:        4,
		BrkLogBase:       4,
		KskDigits:        4,
		KskLogBase:       4,
		Generator:        5,
		NoiseSigma:       2.0,
	}
}

func testSetup(t *testing.T) (*Evaluator, *SecretKey, *keygen.ServerKey) {
	t.Helper()
	e, err := NewEvaluator(testParameters())
	require.NoError(t, err)

	seed, err := sampling.NewSeed()
	require.NoError(t, err)
	src, err := sampling.NewSource(seed)
	require.NoError(t, err)

	sk, pk, err := e.GenerateKeys(src)
	require.NoError(t, err)
	return e, sk, pk
}

func newSource(t *testing.T) *sampling.Source {
	t.Helper()
	seed, err := sampling.NewSeed()
	require.NoError(t, err)
	src, err := sampling.NewSource(seed)
	require.NoError(t, err)
	return src
}

func TestDefaultParametersValidate(t *testing.T) {
	require.NoError(t, DefaultParameters().Validate())
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	e, sk, _ := testSetup(t)
	src := newSource(t)

	for _, bit := range []bool{true, false} {
		ct, err := e.Encrypt(sk, bit, src)
		require.NoError(t, err)
		require.Equal(t, bit, e.Decrypt(sk, ct))
	}
}

func TestNotIsFree(t *testing.T) {
	e, sk, _ := testSetup(t)
	src := newSource(t)

	ct, err := e.Encrypt(sk, true, src)
	require.NoError(t, err)

	require.False(t, e.Decrypt(sk, e.NOT(ct)))
}

// TestTwoInputGateTruthTables runs every two-input gate through its full
// truth table, bootstrapping each row, and checks the result against Go's
// own boolean operators.
func TestTwoInputGateTruthTables(t *testing.T) {
	e, sk, srv := testSetup(t)
	src := newSource(t)

	encrypt := func(bit bool) *lwe.Ciphertext {
		ct, err := e.Encrypt(sk, bit, src)
		require.NoError(t, err)
		return ct
	}

	gates := []struct {
		name string
		fn   func(sk *keygen.ServerKey, a, b *lwe.Ciphertext) (*lwe.Ciphertext, error)
		want func(a, b bool) bool
	}{
		{"NAND", e.NAND, func(a, b bool) bool { return !(a && b) }},
		{"AND", e.AND, func(a, b bool) bool { return a && b }},
		{"OR", e.OR, func(a, b bool) bool { return a || b }},
		{"XOR", e.XOR, func(a, b bool) bool { return a != b }},
		{"NOR", e.NOR, func(a, b bool) bool { return !(a || b) }},
		{"XNOR", e.XNOR, func(a, b bool) bool { return a == b }},
		{"ANDNY", e.ANDNY, func(a, b bool) bool { return !a && b }},
		{"ANDYN", e.ANDYN, func(a, b bool) bool { return a && !b }},
		{"ORNY", e.ORNY, func(a, b bool) bool { return !a || b }},
		{"ORYN", e.ORYN, func(a, b bool) bool { return a || !b }},
	}

	for _, g := range gates {
		t.Run(g.name, func(t *testing.T) {
			for _, a := range []bool{false, true} {
				for _, b := range []bool{false, true} {
					got, err := g.fn(srv, encrypt(a), encrypt(b))
					require.NoError(t, err)
					require.Equal(t, g.want(a, b), e.Decrypt(sk, got), "%s(%v,%v)", g.name, a, b)
				}
			}
		})
	}
}

func TestMuxSelectsCorrectBranch(t *testing.T) {
	e, sk, srv := testSetup(t)
	src := newSource(t)

	encrypt := func(bit bool) *lwe.Ciphertext {
		ct, err := e.Encrypt(sk, bit, src)
		require.NoError(t, err)
		return ct
	}

	for _, cond := range []bool{false, true} {
		for _, ifTrue := range []bool{false, true} {
			for _, ifFalse := range []bool{false, true} {
				got, err := e.MUX(srv, encrypt(cond), encrypt(ifTrue), encrypt(ifFalse))
				require.NoError(t, err)
				want := ifFalse
				if cond {
					want = ifTrue
				}
				require.Equal(t, want, e.Decrypt(sk, got), "mux(%v,%v,%v)", cond, ifTrue, ifFalse)
			}
		}
	}
}

func TestNandChainComposesAcrossGates(t *testing.T) {
	e, sk, srv := testSetup(t)
	src := newSource(t)

	a, err := e.Encrypt(sk, true, src)
	require.NoError(t, err)
	b, err := e.Encrypt(sk, false, src)
	require.NoError(t, err)
	c, err := e.Encrypt(sk, true, src)
	require.NoError(t, err)

	nand1, err := e.NAND(srv, a, b)
	require.NoError(t, err)
	nand2, err := e.NAND(srv, nand1, c)
	require.NoError(t, err)

	want := !(!(true && false) && true)
	require.Equal(t, want, e.Decrypt(sk, nand2))
}
