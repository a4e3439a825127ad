package history

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRingRetainsSamplesUnderCapacity(t *testing.T) {
	r := NewRingWithTarget(10, 10.0)
	for i := 0; i < 5; i++ {
		// dt large enough that decimationFor(10, 10, 1) == 1: every sample kept.
		r.Append(float64(i), float64(i)*2, 1.0)
	}
	require.Len(t, r.Samples(), 5)
}

func TestRingDecimationSpanWhenFull(t *testing.T) {
	// capacity=10, target=10s, dt=1s -> decimationFor = ceil(10/(10*1)) = 1:
	// every step retained; once full, the 10 samples at t=0..9 span 9s,
	// one retained interval short of capacity*decimation*dt = 10s.
	r := NewRingWithTarget(10, 10.0)
	for i := 0; i < 10; i++ {
		r.Append(float64(i), float64(i), 1.0)
	}
	require.GreaterOrEqual(t, r.Span(), 9.0)
}

func TestRingDecimationRecomputesFromDt(t *testing.T) {
	// capacity=10, target=10s, dt=0.01s -> decimationFor = ceil(10/(10*0.01)) = 100:
	// only every 100th accepted step is retained.
	r := NewRingWithTarget(10, 10.0)
	for i := 0; i < 250; i++ {
		r.Append(float64(i)*0.01, float64(i), 0.01)
	}
	require.Equal(t, 2, len(r.Samples()))
}

func TestDecimationForClampsToRange(t *testing.T) {
	require.Equal(t, 1, decimationFor(10.0, 10000, 1.0))
	require.Equal(t, 10000, decimationFor(10.0, 1, 1e-9))
}

func TestRingDropsOldestPastCapacity(t *testing.T) {
	r := NewRingWithTarget(4, 10.0)
	for i := 0; i < 20; i++ {
		r.Append(float64(i), float64(i), 1.0)
	}
	require.LessOrEqual(t, len(r.Samples()), 4)
}

func TestRingSamplesStayTimeOrdered(t *testing.T) {
	r := NewRingWithTarget(8, 10.0)
	for i := 0; i < 30; i++ {
		r.Append(float64(i)*0.1, float64(i), 0.1)
	}
	samples := r.Samples()
	for i := 1; i < len(samples); i++ {
		require.Greater(t, samples[i].Time, samples[i-1].Time)
	}
}

func TestRingResetClearsSamples(t *testing.T) {
	r := NewRingWithTarget(4, 10.0)
	r.Append(0, 1, 1.0)
	r.Append(1, 2, 1.0)
	r.Reset()
	require.Empty(t, r.Samples())
	require.Equal(t, 0.0, r.Span())
}
