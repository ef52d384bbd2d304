package entity

import (
	"github.com/opd-ai/go-orrery/pkg/physics"
)

// Trace defaults.
const (
	DefaultTracePoints    = 75
	DefaultTraceThreshold = 0.21
)

// TraceChange reports what a trace update did.
type TraceChange int

const (
	TraceUnchanged TraceChange = iota
	// TraceAppended means the oldest sample was evicted for a new one.
	TraceAppended
	// TraceEnteredTransition means the buffer was rewritten to the full ellipse.
	TraceEnteredTransition
	// TraceHeldTransition means the buffer was rewritten to the ellipse again.
	TraceHeldTransition
	// TraceLeftTransition means every sample snapped to the current position.
	TraceLeftTransition
)

// Trace is a fixed-capacity window of recent orbital-plane positions.
// Samples live in a circular buffer; head is the index of the oldest one.
type Trace struct {
	samples       []physics.Vector2D
	head          int
	threshold     float64
	transitioning bool
}

// NewTrace creates a trace of capacity samples, all at start. Capacity is
// clamped to at least one.
func NewTrace(capacity int, threshold float64, start physics.Vector2D) *Trace {
	if capacity < 1 {
		capacity = 1
	}
	t := &Trace{
		samples:   make([]physics.Vector2D, capacity),
		threshold: threshold,
	}
	t.fill(start)
	return t
}

// Len returns the fixed number of samples.
func (t *Trace) Len() int {
	return len(t.samples)
}

// Threshold returns the minimum movement that records a new sample.
func (t *Trace) Threshold() float64 {
	return t.threshold
}

// Transitioning reports whether the trace currently shows the full ellipse.
func (t *Trace) Transitioning() bool {
	return t.transitioning
}

// At returns the i-th sample counting from the oldest.
func (t *Trace) At(i int) physics.Vector2D {
	return t.samples[(t.head+i)%len(t.samples)]
}

// Newest returns the most recently recorded sample.
func (t *Trace) Newest() physics.Vector2D {
	return t.At(len(t.samples) - 1)
}

// Samples returns a copy of the samples ordered oldest to newest.
func (t *Trace) Samples() []physics.Vector2D {
	out := make([]physics.Vector2D, len(t.samples))
	for i := range out {
		out[i] = t.At(i)
	}
	return out
}

// ShowEllipse rewrites every slot so slot i lies on e at angle i/N·2π.
func (t *Trace) ShowEllipse(e physics.Ellipse) TraceChange {
	copy(t.samples, e.Sample(len(t.samples)))
	t.head = 0

	change := TraceHeldTransition
	if !t.transitioning {
		change = TraceEnteredTransition
	}
	t.transitioning = true
	return change
}

// Record adds p when it is at least the threshold away from the newest
// sample. Leaving a transition snaps the whole buffer to p so no streak is
// drawn across the ellipse.
func (t *Trace) Record(p physics.Vector2D) TraceChange {
	if p.Distance(t.Newest()) < t.threshold {
		return TraceUnchanged
	}
	if t.transitioning {
		t.fill(p)
		t.transitioning = false
		return TraceLeftTransition
	}
	t.samples[t.head] = p
	t.head = (t.head + 1) % len(t.samples)
	return TraceAppended
}

func (t *Trace) fill(p physics.Vector2D) {
	for i := range t.samples {
		t.samples[i] = p
	}
	t.head = 0
}
