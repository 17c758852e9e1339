package keygen

import (
	"fmt"

	"github.com/tfhe-go/boolean/blindrotate"
	"github.com/tfhe-go/boolean/decomposer"
	"github.com/tfhe-go/boolean/rgsw"
	"github.com/tfhe-go/boolean/ring"
	"github.com/tfhe-go/boolean/rlwe"
)

// AggregateServerKeyShares sums the parties' bootstrap-key shares into the
// collective bootstrap key, reconstructing each gadget row's shared A-half
// from the pbs CRS seed the same deterministic way every party derived it
// (spec.md §4.11).
func AggregateServerKeyShares(r *ring.Ring, dec *decomposer.Decomposer, g uint64, pbsCrSeed [32]byte, shares []*BootstrapKeyShare) (*blindrotate.Key, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("keygen: aggregating bootstrap key: no shares")
	}
	n := len(shares[0].CoeffPosB)
	d := dec.D()

	dlog, err := NewDlogTableForGenerator(r.N, g)
	if err != nil {
		return nil, err
	}

	coeffPos, err := aggregateCoeffRows(r, n, d, pbsCrSeed, "coeffpos", func(sh *BootstrapKeyShare) [][]ring.Poly { return sh.CoeffPosB }, shares)
	if err != nil {
		return nil, fmt.Errorf("keygen: aggregating positive selector key: %w", err)
	}
	coeffNeg, err := aggregateCoeffRows(r, n, d, pbsCrSeed, "coeffneg", func(sh *BootstrapKeyShare) [][]ring.Poly { return sh.CoeffNegB }, shares)
	if err != nil {
		return nil, fmt.Errorf("keygen: aggregating negative selector key: %w", err)
	}

	autoPos, err := aggregateAutoKey(r, dec, g, pbsCrSeed, "autopos", collectAuto(shares, true))
	if err != nil {
		return nil, fmt.Errorf("keygen: aggregating +g automorphism key: %w", err)
	}
	autoNeg, err := aggregateAutoKey(r, dec, (2*uint64(r.N)-g)%uint64(2*r.N), pbsCrSeed, "autoneg", collectAuto(shares, false))
	if err != nil {
		return nil, fmt.Errorf("keygen: aggregating -g automorphism key: %w", err)
	}

	return &blindrotate.Key{Dlog: dlog, CoeffPos: coeffPos, CoeffNeg: coeffNeg, AutoPos: autoPos, AutoNeg: autoNeg, Dec: dec}, nil
}

// aggregateCoeffRows reconstructs one selector-bit RGSW key array (either
// the positive or the negative half) from each party's additive B-half
// shares, tagged with tag so its seeds never collide with the other half's.
func aggregateCoeffRows(r *ring.Ring, n, d int, pbsCrSeed [32]byte, tag string, pick func(*BootstrapKeyShare) [][]ring.Poly, shares []*BootstrapKeyShare) ([]*rgsw.Ciphertext, error) {
	coeff := make([]*rgsw.Ciphertext, n)
	for i := 0; i < n; i++ {
		ct := rgsw.NewCiphertext(r, d)
		for j := 0; j < d; j++ {
			seed, err := rowSeed(pbsCrSeed, fmt.Sprintf("%s/%d/%d", tag, i, j))
			if err != nil {
				return nil, err
			}
			a, err := (&rlwe.Ciphertext{Seed: &seed}).ResolveA(r)
			if err != nil {
				return nil, err
			}
			b := r.NewPoly()
			for _, sh := range shares {
				rows := pick(sh)
				if len(rows) != n || len(rows[i]) != d {
					return nil, fmt.Errorf("keygen: share dimension mismatch at coordinate %d", i)
				}
				r.Add(b, rows[i][j], b)
			}
			ct.ARow[j] = &rlwe.Ciphertext{A: a, B: b}
			ct.BRow[j] = &rlwe.Ciphertext{A: a, B: b}
		}
		coeff[i] = ct
	}
	return coeff, nil
}

func collectAuto(shares []*BootstrapKeyShare, pos bool) [][]ring.Poly {
	out := make([][]ring.Poly, len(shares))
	for i, sh := range shares {
		if pos {
			out[i] = sh.AutoPos
		} else {
			out[i] = sh.AutoNeg
		}
	}
	return out
}

func aggregateAutoKey(r *ring.Ring, dec *decomposer.Decomposer, galoisElem uint64, pbsCrSeed [32]byte, tag string, perPartyRows [][]ring.Poly) (*blindrotate.AutoKey, error) {
	d := dec.D()
	amap := ring.NewAutomorphismMap(r.N, int(galoisElem))
	rows := make([]*rlwe.Ciphertext, d)
	for j := 0; j < d; j++ {
		seed, err := rowSeed(pbsCrSeed, fmt.Sprintf("%s/%d", tag, j))
		if err != nil {
			return nil, err
		}
		a, err := (&rlwe.Ciphertext{Seed: &seed}).ResolveA(r)
		if err != nil {
			return nil, err
		}
		b := r.NewPoly()
		for _, rowsForParty := range perPartyRows {
			if len(rowsForParty) != d {
				return nil, fmt.Errorf("keygen: automorphism share has %d rows, want %d", len(rowsForParty), d)
			}
			r.Add(b, rowsForParty[j], b)
		}
		rows[j] = &rlwe.Ciphertext{A: a, B: b}
	}
	return &blindrotate.AutoKey{Galois: amap, Rows: rows}, nil
}

// NewDlogTableForGenerator is a thin re-export so callers that only import
// package keygen (not blindrotate directly) can build the dlog table that
// goes alongside an aggregated bootstrap key.
func NewDlogTableForGenerator(n int, g uint64) (*blindrotate.DlogTable, error) {
	return blindrotate.NewDlogTable(n, g)
}
