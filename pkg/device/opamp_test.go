package device

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jfalvarez1/circuit-toy-sub001/pkg/topology"
)

func TestOpAmpUpdateVoltagesClampsToSupply(t *testing.T) {
	inPlus, inMinus, out := topology.NodeID(1), topology.NodeID(2), topology.NodeID(3)
	op := NewOpAmp("U1", inPlus, inMinus, out, 100000, 15, -15)
	nm := topology.BuildNodeMap([]topology.NodeID{inPlus, inMinus, out}, nil, nil)
	solution := make([]float64, nm.NumMatrixNodes+1)
	solution[nm.Index(inPlus)] = 1.0 // unclamped output would be 100,000V

	require.NoError(t, op.UpdateVoltages(nm, solution, 300))
	require.Equal(t, 1, op.clamp)
}

func TestOpAmpLinearRegionNoClamp(t *testing.T) {
	inPlus, inMinus, out := topology.NodeID(1), topology.NodeID(2), topology.NodeID(3)
	op := NewOpAmp("U1", inPlus, inMinus, out, 10, 15, -15)
	nm := topology.BuildNodeMap([]topology.NodeID{inPlus, inMinus, out}, nil, nil)
	solution := make([]float64, nm.NumMatrixNodes+1)
	solution[nm.Index(inPlus)] = 0.1 // unclamped output = 1V, within rails

	require.NoError(t, op.UpdateVoltages(nm, solution, 300))
	require.Equal(t, 0, op.clamp)
}
