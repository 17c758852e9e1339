// Package tracer implements the optional PBS noise-tracing capability
// spec.md §9 describes: a data sink the bootstrapping pipeline reports
// ciphertext snapshots to, which must no-op by default and must never
// influence Bootstrap's control flow, timing-sensitive paths aside.
//
// Grounded on spec.md §9 ("Noise tracing") directly -- no teacher or pack
// example carries an equivalent hook, since lattigo's own bootstrapping has
// no comparable snapshot capability to adapt.
package tracer

import "github.com/tfhe-go/boolean/lwe"

// Stage names the four points in the PBS pipeline spec.md §9 asks a tracer
// to snapshot.
type Stage string

const (
	// PreModDown is the input ciphertext as Bootstrap received it, before
	// any modulus switch.
	PreModDown Stage = "pre-moddown"
	// PostModDown is the sample-extracted ciphertext after it has been
	// switched down from the RLWE accumulator modulus Q to the key-switch
	// modulus Q_ks, immediately before the LWE key switch.
	PostModDown Stage = "post-moddown"
	// PostKSK is the ciphertext immediately after the LWE key switch, still
	// at modulus Q_ks.
	PostKSK Stage = "post-ksk"
	// PostOddModDown is the ciphertext after the odd modulus switch that
	// feeds blind rotation (modulus q = 2N).
	PostOddModDown Stage = "post-odd-moddown"
)

// Sample is a single snapshot: the raw (b, a) pair at one pipeline stage,
// for offline noise analysis. It carries no interpretation of what the
// noise "should" be -- that judgment belongs to the test suite or to
// whatever offline tool consumes recorded samples.
type Sample struct {
	Stage Stage
	Q     uint64
	B     uint64
	A     []uint64
}

// SampleOf copies ct's (b, a) into a Sample tagged with stage. The copy
// keeps a later mutation of ct (the pipeline keeps going) from corrupting
// an already-recorded sample.
func SampleOf(stage Stage, ct *lwe.Ciphertext) Sample {
	a := make([]uint64, len(ct.A))
	copy(a, ct.A)
	return Sample{Stage: stage, Q: ct.Q, B: ct.B, A: a}
}

// Tracer receives pipeline snapshots. Record must not block or panic on the
// hot path; a Tracer that needs to do expensive work should buffer and
// drain asynchronously. The pipeline treats a nil Tracer as "tracing
// disabled" and records nothing.
type Tracer interface {
	Record(Sample)
}

// Noop discards every sample, with the same effect as a nil Tracer (the
// Evaluator's default), satisfying spec.md §9's "no-ops by default"
// requirement.
type Noop struct{}

// Record implements Tracer.
func (Noop) Record(Sample) {}

// Collector is a Tracer that appends every sample it receives, in order,
// for tests and interactive noise inspection (e.g. charting per-stage
// standard deviation across many PBS calls).
type Collector struct {
	Samples []Sample
}

// Record implements Tracer.
func (c *Collector) Record(s Sample) {
	c.Samples = append(c.Samples, s)
}

// ByStage filters the collected samples down to one stage, in recorded
// order.
func (c *Collector) ByStage(stage Stage) []Sample {
	var out []Sample
	for _, s := range c.Samples {
		if s.Stage == stage {
			out = append(out, s)
		}
	}
	return out
}
