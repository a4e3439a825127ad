package device

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jfalvarez1/circuit-toy-sub001/pkg/topology"
)

func TestBJTSenseAppliesPolarityConvention(t *testing.T) {
	base, collector, emitter := topology.NodeID(1), topology.NodeID(2), topology.NodeID(0)
	npn := NewBJT("Q1", base, collector, emitter, NPN)
	pnp := NewBJT("Q2", base, collector, emitter, PNP)

	nm := topology.BuildNodeMap([]topology.NodeID{base, collector, emitter}, nil, []topology.NodeID{emitter})
	solution := make([]float64, nm.NumMatrixNodes+1)
	solution[nm.Index(base)] = 0.7

	require.InDelta(t, 0.7, npn.sense(nm, solution), 1e-9)
	require.InDelta(t, -0.7, pnp.sense(nm, solution), 1e-9)
}

func TestBJTUpdateVoltagesClamps(t *testing.T) {
	base, collector, emitter := topology.NodeID(1), topology.NodeID(2), topology.NodeID(0)
	q := NewBJT("Q1", base, collector, emitter, NPN)
	nm := topology.BuildNodeMap([]topology.NodeID{base, collector, emitter}, nil, []topology.NodeID{emitter})
	solution := make([]float64, nm.NumMatrixNodes+1)
	solution[nm.Index(base)] = 5.0 // way past the clamp

	require.NoError(t, q.UpdateVoltages(nm, solution, 300))
	vt := thermalVoltage(300)
	require.LessOrEqual(t, q.vbe, 40*q.N*vt+1e-9)
}

func TestBJTKindNaming(t *testing.T) {
	q := NewBJT("Q1", topology.NodeID(1), topology.NodeID(2), topology.NodeID(0), PNP)
	require.Equal(t, "Q_PNP", q.Kind())
}
