// Package sampling implements C4: the uniform, centered-discrete-Gaussian and
// fixed-Hamming-weight ternary samplers the rest of the module draws secrets
// and noise from, plus the dual (private, seedable) CSPRNG design notes §9
// calls for ("a single named CSPRNG construction parameterized by the seed").
//
// Grounded on the teacher's ring/gaussianSampler.go and ring/distribution.go,
// and on original_source's crypto/src/util/rng.rs (the private/seedable RNG
// split) and math/src/distribution.rs (fixed-weight ternary via rejection).
package sampling

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

// Source is the dual RNG every key-generation and encryption routine draws
// from: Private is true entropy (process-wide, non-reproducible -- it seeds
// Gaussian/ternary noise), Seedable is a deterministic stream derived from a
// 32-byte seed (it fills the uniform A-halves of RLWE/RGSW ciphertexts and
// common-reference material, so any party can reconstruct them from the
// seed alone).
type Source struct {
	Private  io.Reader
	Seedable io.Reader
	seed     [32]byte
}

// NewSource builds a Source whose private stream is blake2b-keyed system
// entropy (teacher's CRPGenerator uses the same primitive for its keyed
// PRNG) and whose seedable stream is a blake3 XOF over the given 32-byte
// seed -- deterministic, so two parties presented with the same seed derive
// byte-identical streams (spec.md §3 Invariant 3, §6 "Collective key seeds").
func NewSource(seed [32]byte) (*Source, error) {
	privKey := make([]byte, 32)
	if _, err := rand.Read(privKey); err != nil {
		return nil, fmt.Errorf("sampling: reading entropy for private stream: %w", err)
	}
	priv, err := blake2b.NewXOF(0, privKey)
	if err != nil {
		return nil, fmt.Errorf("sampling: initializing private stream: %w", err)
	}

	seedable := blake3.NewDeriveKey("tfhe-go/boolean seedable-rng v1")
	seedable.Write(seed[:])

	return &Source{Private: priv, Seedable: seedable.Digest(), seed: seed}, nil
}

// NewSeed draws a fresh 32-byte common-reference seed from the OS CSPRNG.
func NewSeed() ([32]byte, error) {
	var seed [32]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return seed, fmt.Errorf("sampling: generating seed: %w", err)
	}
	return seed, nil
}

// Seed returns the 32-byte seed this Source's Seedable stream was derived
// from, so it can be persisted/transmitted alongside a ciphertext's B-half
// (spec.md §6, "seed-derived halves ... serialized as a 32-byte seed").
func (s *Source) Seed() [32]byte { return s.seed }

// DeriveKey expands seed into out using a domain-separated blake3 key
// derivation, so distinct domains (e.g. the public-key vs. bootstrap-key
// common reference strings) produce independent streams from one shared
// main seed (spec.md §4.11).
func DeriveKey(seed [32]byte, domain string, out []byte) error {
	xof := blake3.NewDeriveKey(domain)
	xof.Write(seed[:])
	if _, err := io.ReadFull(xof.Digest(), out); err != nil {
		return fmt.Errorf("sampling: deriving key for domain %q: %w", domain, err)
	}
	return nil
}

// uniformUint64 reads a uniform value in [0, bound) from r via rejection
// sampling, avoiding modulo bias (design notes §9, "rejection sampling to
// avoid modulo bias for prime Q").
func uniformUint64(r io.Reader, bound uint64) (uint64, error) {
	if bound == 0 {
		return 0, fmt.Errorf("sampling: zero bound")
	}
	// Largest multiple of bound that fits in 64 bits; values above it are
	// rejected and redrawn so every residue class below `bound` is equally
	// likely.
	limit := (^uint64(0) / bound) * bound
	var buf [8]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		v := binary.LittleEndian.Uint64(buf[:])
		if v < limit {
			return v % bound, nil
		}
	}
}
