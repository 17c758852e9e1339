package keygen

import (
	"fmt"

	"github.com/tfhe-go/boolean/blindrotate"
	"github.com/tfhe-go/boolean/decomposer"
	"github.com/tfhe-go/boolean/ring"
	"github.com/tfhe-go/boolean/rlwe"
	"github.com/tfhe-go/boolean/sampling"
)

// rowSeed derives a distinct, deterministically reproducible A-half seed
// for gadget row (i,j) of a shared CRS, so that every party's share of that
// row lands on the exact same A polynomial (required for additive
// aggregation) while different rows still get independent A's.
func rowSeed(base [32]byte, tag string) ([32]byte, error) {
	var out [32]byte
	if err := sampling.DeriveKey(base, "boolean-row-seed/"+tag, out[:]); err != nil {
		return out, err
	}
	return out, nil
}

// PublicKeyShare is one party's contribution to the collective public key:
// B_i = -A*s_i + e_i, computed against the shared pk CRS so that A never
// needs to be exchanged (spec.md §4.11).
type PublicKeyShare struct {
	B ring.Poly
}

// GenPublicKeyShare computes this party's public-key share under the shared
// pk CRS seed.
func GenPublicKeyShare(r *ring.Ring, s *rlwe.Secret, gauss *sampling.GaussianSampler, src *sampling.Source, pkCrSeed [32]byte) (*PublicKeyShare, error) {
	pk, err := rlwe.GenPublicKey(r, s, gauss, src, pkCrSeed)
	if err != nil {
		return nil, fmt.Errorf("keygen: public-key share: %w", err)
	}
	return &PublicKeyShare{B: pk.B}, nil
}

// AggregatePublicKey sums the parties' shares into the collective public
// key B = Sum_i B_i, paired with the shared CRS seed as A (spec.md §4.11).
func AggregatePublicKey(r *ring.Ring, shares []*PublicKeyShare, pkCrSeed [32]byte) (*rlwe.PublicKey, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("keygen: aggregating public key: no shares")
	}
	b := r.NewPoly()
	for i, sh := range shares {
		if len(sh.B) != r.N {
			return nil, fmt.Errorf("keygen: share %d has wrong degree %d, want %d", i, len(sh.B), r.N)
		}
		r.Add(b, sh.B, b)
	}
	seed := pkCrSeed
	return &rlwe.PublicKey{Seed: &seed, B: b}, nil
}

// ServerKeyShare is one party's contribution to the collective server key:
// per-coordinate RGSW(selector bit) entries and automorphism-key rows
// computed against the shared pbs CRS, plus this party's LWE key-switch-key
// rows (spec.md §4.11, §4.8).
type ServerKeyShare struct {
	Brk *BootstrapKeyShare
	Ksk [][]ring.Poly // Ksk[i][j]: this party's additive share of ksk row (i,j)'s B component; A components come from the shared pbs CRS the same way RLWE A-halves do.
}

// BootstrapKeyShare carries one party's additive contribution to each
// gadget row of the collective bootstrap key. Non-interactive aggregation
// of RGSW ciphertexts (as opposed to a single joint encryption) follows the
// "sum of independent RLWE(0)+scaled-plaintext rows" additive homomorphism
// of the gadget construction: summing d independent encryptions of the same
// scaled plaintext under the same CRS A-half yields a valid encryption of
// that plaintext under the sum of the secrets, which is exactly the
// collective secret the protocol wants (spec.md §4.11).
//
// CoeffPosB/CoeffNegB carry the positive/negative selector-bit halves a
// GINX CMUX needs per coordinate (see package blindrotate's SelectorBits);
// a single RGSW(X^{s_i}) share, as used by a monomial-keyed CMUX, would not
// combine into a correct bootstrap key (see blindrotate.Rotate).
type BootstrapKeyShare struct {
	CoeffPosB [][]ring.Poly // CoeffPosB[i][j]: B-half share of RGSW(s_i_pos), gadget row j
	CoeffNegB [][]ring.Poly // CoeffNegB[i][j]: B-half share of RGSW(s_i_neg), gadget row j
	AutoPos   [][]ring.Poly
	AutoNeg   [][]ring.Poly
}

// GenServerKeyShare computes this party's additive contribution to the
// collective bootstrap key, reusing the pbs CRS seed for every A-half so
// the shares combine without further communication.
func GenServerKeyShare(r *ring.Ring, dec *decomposer.Decomposer, s *rlwe.Secret, sIn []uint64, g uint64, gauss *sampling.GaussianSampler, src *sampling.Source, pbsCrSeed [32]byte) (*BootstrapKeyShare, error) {
	d := dec.D()
	mod2N := uint64(2 * r.N)
	coeffPosB := make([][]ring.Poly, len(sIn))
	coeffNegB := make([][]ring.Poly, len(sIn))
	for i, si := range sIn {
		pos, neg := blindrotate.SelectorBits(si, mod2N)
		coeffPosB[i] = make([]ring.Poly, d)
		coeffNegB[i] = make([]ring.Poly, d)
		for j, beta := range dec.GadgetVector() {
			posScaled := constScaled(r, pos, beta)
			posSeed, err := rowSeed(pbsCrSeed, fmt.Sprintf("coeffpos/%d/%d", i, j))
			if err != nil {
				return nil, err
			}
			posRow, err := rlwe.EncryptSecretKey(r, s, posScaled, gauss, src, &posSeed)
			if err != nil {
				return nil, fmt.Errorf("keygen: server-key share coordinate %d row %d (pos): %w", i, j, err)
			}
			coeffPosB[i][j] = posRow.B

			negScaled := constScaled(r, neg, beta)
			negSeed, err := rowSeed(pbsCrSeed, fmt.Sprintf("coeffneg/%d/%d", i, j))
			if err != nil {
				return nil, err
			}
			negRow, err := rlwe.EncryptSecretKey(r, s, negScaled, gauss, src, &negSeed)
			if err != nil {
				return nil, fmt.Errorf("keygen: server-key share coordinate %d row %d (neg): %w", i, j, err)
			}
			coeffNegB[i][j] = negRow.B
		}
	}

	amapPos := ring.NewAutomorphismMap(r.N, int(g%uint64(2*r.N)))
	amapNeg := ring.NewAutomorphismMap(r.N, int((uint64(2*r.N)-g%uint64(2*r.N))%uint64(2*r.N)))

	autoPos, err := autoKeyShareRows(r, dec, s, amapPos, gauss, src, pbsCrSeed, "autopos")
	if err != nil {
		return nil, fmt.Errorf("keygen: +g automorphism share: %w", err)
	}
	autoNeg, err := autoKeyShareRows(r, dec, s, amapNeg, gauss, src, pbsCrSeed, "autoneg")
	if err != nil {
		return nil, fmt.Errorf("keygen: -g automorphism share: %w", err)
	}

	return &BootstrapKeyShare{CoeffPosB: coeffPosB, CoeffNegB: coeffNegB, AutoPos: autoPos, AutoNeg: autoNeg}, nil
}

func autoKeyShareRows(r *ring.Ring, dec *decomposer.Decomposer, s *rlwe.Secret, amap *ring.AutomorphismMap, gauss *sampling.GaussianSampler, src *sampling.Source, pbsCrSeed [32]byte, tag string) ([]ring.Poly, error) {
	sigmaS := r.NewPoly()
	amap.Apply(r, s.Value, sigmaS)

	rows := make([]ring.Poly, dec.D())
	for j, beta := range dec.GadgetVector() {
		scaled := r.NewPoly()
		for i := range scaled {
			scaled[i] = ring.MulModGeneric(sigmaS[i], beta, r.Q)
		}
		seed, err := rowSeed(pbsCrSeed, fmt.Sprintf("%s/%d", tag, j))
		if err != nil {
			return nil, err
		}
		row, err := rlwe.EncryptSecretKey(r, s, scaled, gauss, src, &seed)
		if err != nil {
			return nil, err
		}
		rows[j] = row.B
	}
	return rows, nil
}

// constScaled returns the constant polynomial bit*scale (bit in {0,1}), the
// plaintext a single gadget row of a selector-bit RGSW share encrypts.
func constScaled(r *ring.Ring, bit, scale uint64) ring.Poly {
	p := r.NewPoly()
	p[0] = ring.MulModGeneric(bit, scale, r.Q)
	return p
}
