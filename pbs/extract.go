package pbs

import (
	"github.com/tfhe-go/boolean/lwe"
	"github.com/tfhe-go/boolean/ring"
	"github.com/tfhe-go/boolean/rlwe"
)

// SampleExtract pulls LWE coefficient `index` out of an RLWE ciphertext: the
// output LWE secret is the RLWE secret's coefficient vector, and
// a'_j = a_{(index-j) mod N}, negated when index-j wraps past 0 (the
// negacyclic sign flip), b' = b_index (spec.md §4.10).
func SampleExtract(r *ring.Ring, ct *rlwe.Ciphertext, index int) (*lwe.Ciphertext, error) {
	a, err := ct.ResolveA(r)
	if err != nil {
		return nil, err
	}

	out := lwe.NewCiphertext(r.Q, r.N)
	out.B = ct.B[index]
	for j := 0; j < r.N; j++ {
		k := index - j
		if k >= 0 {
			out.A[j] = a[k]
		} else {
			out.A[j] = ring.SubMod(0, a[k+r.N], r.Q)
		}
	}
	return out, nil
}
