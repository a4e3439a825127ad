package device

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jfalvarez1/circuit-toy-sub001/pkg/linalg"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/topology"
)

func TestFuseBlowsPastRatedI2T(t *testing.T) {
	n1, n2 := topology.NodeID(1), topology.NodeID(0)
	f := NewFuse("F1", n1, n2, 1.0, 1.0) // 1 ohm, 1 A^2 s rating
	nm := topology.BuildNodeMap([]topology.NodeID{n1, n2}, nil, []topology.NodeID{n2})
	solution := make([]float64, nm.NumMatrixNodes+1)
	solution[nm.Index(n1)] = 10.0 // 10A through 1 ohm

	ctx := &Context{Mode: ModeTransient, TimeStep: 0.1}
	f.UpdateState(nm, solution, ctx)
	require.True(t, f.Blown)
}

func TestFuseResetClearsBlownState(t *testing.T) {
	f := NewFuse("F1", topology.NodeID(1), topology.NodeID(0), 1.0, 1.0)
	f.Blown = true
	f.IntegratedI2T = 5
	f.ResetState()
	require.False(t, f.Blown)
	require.Equal(t, 0.0, f.IntegratedI2T)
}

func TestSwitchSelectsResistanceByState(t *testing.T) {
	n1, n2 := topology.NodeID(1), topology.NodeID(0)
	sw := NewSwitch("SW1", n1, n2, SPST, 0.1, 1e9)
	nm := topology.BuildNodeMap([]topology.NodeID{n1, n2}, nil, []topology.NodeID{n2})
	m := linalg.NewMatrix(nm.NumMatrixNodes)

	sw.Closed = true
	require.NoError(t, sw.Stamp(m, nm, &Context{}))
	require.InDelta(t, 1.0/0.1, m.Get(nm.Index(n1), nm.Index(n1)), 1e-9)
}

func TestRelayPullInAndDropOutHysteresis(t *testing.T) {
	coilN1, coilN2 := topology.NodeID(1), topology.NodeID(0)
	contactN1, contactN2 := topology.NodeID(2), topology.NodeID(3)
	r := NewRelay("K1", contactN1, contactN2, coilN1, coilN2, 0.1, 1e9, 100, 0.05, 0.02)
	nm := topology.BuildNodeMap([]topology.NodeID{coilN1, coilN2, contactN1, contactN2}, nil, []topology.NodeID{coilN2})
	solution := make([]float64, nm.NumMatrixNodes+1)

	solution[nm.Index(coilN1)] = 10.0 // 10V / 100ohm = 0.1A >= pullIn 0.05
	r.UpdateState(nm, solution, &Context{})
	require.True(t, r.Closed)

	solution[nm.Index(coilN1)] = 1.0 // 0.01A < dropOut 0.02
	r.UpdateState(nm, solution, &Context{})
	require.False(t, r.Closed)
}

func TestPotentiometerWiperSplitsResistance(t *testing.T) {
	end1, wiper, end2 := topology.NodeID(1), topology.NodeID(2), topology.NodeID(0)
	p := NewPotentiometer("P1", end1, wiper, end2, 10000, 0.25)
	require.Equal(t, 0.25, p.WiperPos)
}

func TestEnvironmentalResistorRespondsToSignal(t *testing.T) {
	n1, n2 := topology.NodeID(1), topology.NodeID(0)
	r := NewEnvironmentalResistor("LDR1", n1, n2, Photoresistor, 1e6, 100, 0.01)
	rDark := r.resistance()
	r.Signal = 1000
	rLight := r.resistance()
	require.Less(t, rLight, rDark)
}
