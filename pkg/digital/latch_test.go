package digital

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDFlipFlopCapturesOnRisingEdge(t *testing.T) {
	ff := NewDFlipFlop()
	ff.Step(High, Low)
	require.Equal(t, Low, ff.Q) // no edge yet
	ff.Step(High, High)
	require.Equal(t, High, ff.Q)
	require.Equal(t, Low, ff.QN)

	// Changing D without another edge must not affect Q.
	ff.Step(Low, High)
	require.Equal(t, High, ff.Q)
}

func TestTFlipFlopTogglesOnlyWhenTHigh(t *testing.T) {
	ff := NewTFlipFlop()
	ff.Step(Low, Low)
	ff.Step(Low, High) // rising edge, T low: no toggle
	require.Equal(t, Low, ff.Q)

	ff.Step(High, Low)
	ff.Step(High, High) // rising edge, T high: toggle
	require.Equal(t, High, ff.Q)
}

func TestJKFlipFlopToggleMode(t *testing.T) {
	ff := NewJKFlipFlop()
	ff.Step(High, High, Low)
	ff.Step(High, High, High)
	require.Equal(t, High, ff.Q)
	ff.Step(High, High, Low)
	ff.Step(High, High, High)
	require.Equal(t, Low, ff.Q)
}

func TestSRLatchForbiddenStateIsBothLow(t *testing.T) {
	l := NewSRLatch()
	l.Step(High, Low)
	require.Equal(t, High, l.Q)
	l.Step(High, High)
	require.Equal(t, Low, l.Q)
	require.Equal(t, Low, l.QN)
}
