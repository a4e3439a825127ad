package digital

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAndGateTruthTable(t *testing.T) {
	g := AndGate{}
	require.Equal(t, High, g.Evaluate(High, High))
	require.Equal(t, Low, g.Evaluate(High, Low))
	require.Equal(t, Unknown, g.Evaluate(High, Unknown))
	require.Equal(t, Low, g.Evaluate(Low, Unknown)) // a definite 0 dominates
}

func TestOrGateTruthTable(t *testing.T) {
	g := OrGate{}
	require.Equal(t, Low, g.Evaluate(Low, Low))
	require.Equal(t, High, g.Evaluate(High, Low))
	require.Equal(t, Unknown, g.Evaluate(Low, Unknown))
	require.Equal(t, High, g.Evaluate(High, Unknown)) // a definite 1 dominates
}

func TestXorGate(t *testing.T) {
	g := XorGate{}
	require.Equal(t, Low, g.Evaluate(High, High))
	require.Equal(t, High, g.Evaluate(High, Low))
	require.Equal(t, Unknown, g.Evaluate(High, Unknown))
}

func TestNandNorXnor(t *testing.T) {
	require.Equal(t, Low, NandGate{}.Evaluate(High, High))
	require.Equal(t, High, NorGate{}.Evaluate(Low, Low))
	require.Equal(t, High, XnorGate{}.Evaluate(High, High))
}

func TestNotGateRequiresOneInput(t *testing.T) {
	require.Equal(t, Unknown, NotGate{}.Evaluate(High, Low))
	require.Equal(t, Low, NotGate{}.Evaluate(High))
}
