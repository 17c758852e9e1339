// Package scratch implements C12: a stack-discipline arena that hands out
// uint64 scratch space (LWE vectors, polynomials) without allocating. No
// other package in this module uses it: the blind-rotation loop and the
// Evaluator allocate their buffers per call and hold no Arena.
//
// Grounded on the teacher's ring/pool.go-style buffer reuse (several lattigo
// evaluators keep a pre-sized scratch buffer and slice into it rather than
// allocating per call); original_source's src/bootstrap.rs pre-allocates a
// single accumulator and a single pair of automorphism-key scratch
// ciphertexts for the whole blind-rotation loop and never allocates inside
// it.
package scratch

import "fmt"

// Arena is a single flat uint64 buffer handed out in a strict LIFO order:
// callers Reserve a slice, use it, and Release back down to a prior mark.
// It is not safe for concurrent use; callers needing concurrent PBS
// evaluation should give each goroutine its own Arena.
type Arena struct {
	buf  []uint64
	mark int
}

// New allocates an Arena with the given total capacity, in uint64 words.
func New(capacity int) *Arena {
	return &Arena{buf: make([]uint64, capacity)}
}

// Mark returns a checkpoint that Release can later rewind to.
func (a *Arena) Mark() int { return a.mark }

// Reserve returns a zeroed slice of n words carved off the top of the arena.
// It panics if the arena is exhausted: the capacity is fixed by the caller
// in New, so an out-of-space arena indicates a programming error, not user
// input.
func (a *Arena) Reserve(n int) []uint64 {
	if a.mark+n > len(a.buf) {
		panic(fmt.Sprintf("scratch: arena exhausted: want %d words, have %d of %d free", n, len(a.buf)-a.mark, len(a.buf)))
	}
	s := a.buf[a.mark : a.mark+n]
	for i := range s {
		s[i] = 0
	}
	a.mark += n
	return s
}

// Release rewinds the arena back to mark, making the space available again.
func (a *Arena) Release(mark int) {
	if mark < 0 || mark > a.mark {
		panic("scratch: invalid release mark")
	}
	a.mark = mark
}

// Reset rewinds the entire arena to empty.
func (a *Arena) Reset() { a.mark = 0 }

// Len reports words currently in use.
func (a *Arena) Len() int { return a.mark }

// Cap reports the arena's total capacity in words.
func (a *Arena) Cap() int { return len(a.buf) }
