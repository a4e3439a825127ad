package device

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jfalvarez1/circuit-toy-sub001/pkg/linalg"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/topology"
)

func TestDiodeForwardConductsPositiveCurrent(t *testing.T) {
	anode, cathode := topology.NodeID(1), topology.NodeID(0)
	d := NewDiode("D1", anode, cathode)
	wires := []topology.Wire{}
	nm := topology.BuildNodeMap([]topology.NodeID{anode, cathode}, wires, []topology.NodeID{cathode})

	d.vd = 0.6
	m := linalg.NewMatrix(nm.NumMatrixNodes)
	ctx := &Context{Mode: ModeDC, Temp: 300, Gmin: 1e-12}
	require.NoError(t, d.Stamp(m, nm, ctx))
	require.Greater(t, m.Get(nm.Index(anode), nm.Index(anode)), 0.0)
	require.Greater(t, d.current(d.vd, thermalVoltage(ctx.Temp)), 0.0)
}

func TestDiodeClampVoltageBounds(t *testing.T) {
	d := NewDiode("D1", topology.NodeID(1), topology.NodeID(0))
	vt := thermalVoltage(300)
	require.InDelta(t, 40*d.N*vt, d.clampVoltage(1000, vt), 1e-9)
	require.InDelta(t, -5*d.N*vt, d.clampVoltage(-1000, vt), 1e-9)
}

func TestZenerBreaksDownPastRatedVoltage(t *testing.T) {
	z := NewZener("Z1", topology.NodeID(1), topology.NodeID(0), 5.1)
	vt := thermalVoltage(300)
	id := z.current(-6.0, vt)
	require.Less(t, id, -z.Is) // conducting harder than plain reverse leakage
}

func TestNewLEDHasHigherIdealityFactor(t *testing.T) {
	led := NewLED("LED1", topology.NodeID(1), topology.NodeID(0))
	require.Equal(t, 2.0, led.N)
	require.Equal(t, "D_LED", led.Kind())
}
