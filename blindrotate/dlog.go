// Package blindrotate implements C9: the blind-rotation loop over RGSW. It
// builds the discrete-log bucket partition of the residues modulo 2N and the
// +-g automorphism keys, but Rotate processes the LWE coordinates one at a
// time with GINX-style CMUX steps; it does not traverse the bucket partition
// or apply the automorphism keys the way an LMKCDEY loop does.
//
// Grounded on the teacher's ring/automorphism.go (Galois element arithmetic)
// and rgsw/ external-product usage in its bootstrapping-adjacent code paths;
// original_source's src/blind_rotate.rs fixes the bucket-partition /
// dlog-table shape and the asymmetric handling of the j=0 bucket.
package blindrotate

import "fmt"

// Entry records where a residue mod 2N sits in the discrete-log bucket
// partition keyed by generator G: i == Sign * G^Bucket (mod 2N).
type Entry struct {
	Bucket int
	Sign   int8 // +1 or -1
}

// DlogTable partitions Z_2N into N/2 buckets under generator g, one bucket
// per {+g^j, -g^j} pair (spec.md §4.9, "bucket partition").
type DlogTable struct {
	Mod     int
	G       uint64
	Buckets int
	entry   []Entry
}

// NewDlogTable builds the table for ring degree N and generator g. g must
// generate the order-N/2 cyclic subgroup of (Z/2NZ)* modulo {+-1}
// (parameter selection, including the choice of g, is out of scope here:
// this package receives an already-validated g).
func NewDlogTable(N int, g uint64) (*DlogTable, error) {
	if N <= 0 || N%2 != 0 {
		return nil, fmt.Errorf("blindrotate: invalid ring degree %d", N)
	}
	mod := uint64(2 * N)
	buckets := N / 2

	t := &DlogTable{Mod: int(mod), G: g, Buckets: buckets, entry: make([]Entry, mod)}
	seen := make([]bool, mod)

	cur := uint64(1)
	for j := 0; j < buckets; j++ {
		if seen[cur] {
			return nil, fmt.Errorf("blindrotate: generator %d has order < %d mod %d", g, buckets, mod)
		}
		seen[cur] = true
		t.entry[cur] = Entry{Bucket: j, Sign: +1}
		neg := (mod - cur) % mod
		t.entry[neg] = Entry{Bucket: j, Sign: -1}
		cur = (cur * g) % mod
	}
	return t, nil
}

// Lookup returns the bucket/sign entry for residue i mod 2N.
func (t *DlogTable) Lookup(i uint64) Entry {
	return t.entry[i%uint64(t.Mod)]
}
