package keygen

import (
	"fmt"

	"github.com/tfhe-go/boolean/sampling"
)

// Seeds holds the three common-reference seeds the multi-party protocol
// derives everything public from: the public-key CRS, the bootstrap-key
// CRS, and the overall session seed they are both derived from (spec.md
// §4.11, "common reference strings").
type Seeds struct {
	Main  [32]byte
	PkCr  [32]byte
	PbsCr [32]byte
}

// DeriveSeeds expands one main session seed into the pk/pbs common
// reference seeds via domain-separated blake3 derivation (the same
// DeriveKey-based stream sampling.Source uses internally for the seedable
// RNG), so every party who starts from the same main seed reconstructs
// identical CRS material without exchanging it.
func DeriveSeeds(main [32]byte) (*Seeds, error) {
	pkCr, err := deriveSubSeed(main, "boolean-pk-cr-seed")
	if err != nil {
		return nil, fmt.Errorf("keygen: deriving pk CRS seed: %w", err)
	}
	pbsCr, err := deriveSubSeed(main, "boolean-pbs-cr-seed")
	if err != nil {
		return nil, fmt.Errorf("keygen: deriving pbs CRS seed: %w", err)
	}
	return &Seeds{Main: main, PkCr: pkCr, PbsCr: pbsCr}, nil
}

func deriveSubSeed(main [32]byte, domain string) ([32]byte, error) {
	var out [32]byte
	if err := sampling.DeriveKey(main, domain, out[:]); err != nil {
		return out, err
	}
	return out, nil
}
