// Package history retains a bounded window of past solver samples for
// waveform display, choosing the decimation stride from Δt so that
// capacity·decimation·Δt covers at least HistoryTargetSecs of simulated
// time regardless of step size (spec.md §4.6).
package history

import (
	"math"

	"github.com/jfalvarez1/circuit-toy-sub001/internal/consts"
)

// Sample is one retained (time, value) point.
type Sample struct {
	Time  float64
	Value float64
}

// Ring is a fixed-capacity, time-ordered sample buffer. Rather than a fixed
// stride, decimation is recomputed from the current Δt on every Append per
// spec.md §4.6's formula, so a run that changes step size (e.g. the adaptive
// transient stepper) keeps capacity·decimation·Δt at or above
// historyTargetSecs instead of drifting as Δt varies. Span, measured from
// the first to the last retained sample, is one retained interval shorter.
type Ring struct {
	capacity          int
	historyTargetSecs float64
	samples           []Sample
	// decimation is the number of accepted steps folded into one retained
	// sample; recomputed from Δt each Append.
	decimation int
	// pending counts raw Append calls since the last retained sample, used
	// to decide when the next one lands.
	pending int
}

func NewRing(capacity int) *Ring {
	return NewRingWithTarget(capacity, consts.HistoryTargetSecs)
}

// NewRingWithTarget builds a Ring with an explicit target span, for callers
// that don't want the package-level default.
func NewRingWithTarget(capacity int, historyTargetSecs float64) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{capacity: capacity, historyTargetSecs: historyTargetSecs, decimation: 1}
}

// Append records one solver sample at simulated time t, recomputing the
// decimation stride from dt (the step size that produced this sample) per
// spec.md §4.6: decimation = ceil(HISTORY_TARGET_SECONDS / (MAX_HISTORY ·
// dt)), clamped to [1, 10000]. Only every decimation-th accepted step is
// retained.
func (r *Ring) Append(t, v float64, dt float64) {
	r.decimation = decimationFor(r.historyTargetSecs, r.capacity, dt)
	r.pending++
	if r.pending < r.decimation {
		return
	}
	r.pending = 0
	r.samples = append(r.samples, Sample{Time: t, Value: v})
	if len(r.samples) > r.capacity {
		r.samples = r.samples[len(r.samples)-r.capacity:]
	}
}

func decimationFor(historyTargetSecs float64, capacity int, dt float64) int {
	if dt <= 0 || capacity <= 0 {
		return 1
	}
	n := math.Ceil(historyTargetSecs / (float64(capacity) * dt))
	switch {
	case n < 1:
		n = 1
	case n > 10000:
		n = 10000
	}
	return int(n)
}

// Samples returns the retained samples in time order.
func (r *Ring) Samples() []Sample { return r.samples }

// Span returns the simulated time covered by the retained samples, or 0 if
// fewer than two are retained.
func (r *Ring) Span() float64 {
	if len(r.samples) < 2 {
		return 0
	}
	return r.samples[len(r.samples)-1].Time - r.samples[0].Time
}

// Reset discards all retained samples and resets the decimation stride,
// for Simulation.Reset (spec.md §8 property 4).
func (r *Ring) Reset() {
	r.samples = nil
	r.decimation = 1
	r.pending = 0
}
