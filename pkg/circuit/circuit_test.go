package circuit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jfalvarez1/circuit-toy-sub001/pkg/device"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/linalg"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/topology"
)

// voltageDivider builds a +10V source over two 1k resistors to ground,
// matching spec.md §8's canonical end-to-end scenario.
func voltageDivider() (*Circuit, topology.NodeID, topology.NodeID) {
	c := New()
	gnd := topology.NodeID(0)
	top := topology.NodeID(1)
	mid := topology.NodeID(2)

	c.AddGround(gnd)
	src := device.NewDCSource("V1", top, gnd, 10.0)
	r1 := device.NewResistor("R1", top, mid, 1000)
	r2 := device.NewResistor("R2", mid, gnd, 1000)
	c.AddDevice(src)
	c.AddDevice(r1)
	c.AddDevice(r2)
	c.Rebuild()
	return c, top, mid
}

func TestVoltageDividerMidpoint(t *testing.T) {
	c, top, mid := voltageDivider()
	ctx := &device.Context{Mode: device.ModeDC, Temp: 300, Gmin: 1e-12, XPrev: make([]float64, c.Size()+1)}
	require.NoError(t, c.Stamp(ctx))
	x, err := linalg.Solve(c.Matrix())
	require.NoError(t, err)

	sol := &Solution{X: x, NM: c.NodeMap()}
	require.InDelta(t, 10.0, sol.VoltageAt(top), 1e-6)
	require.InDelta(t, 5.0, sol.VoltageAt(mid), 1e-6)
}

func TestResetClearsDynamicState(t *testing.T) {
	c := New()
	gnd := topology.NodeID(0)
	n1 := topology.NodeID(1)
	c.AddGround(gnd)
	cap := device.NewCapacitor("C1", n1, gnd, 1e-6)
	cap.Voltage = 5.0
	c.AddDevice(cap)
	c.Reset()
	require.Equal(t, 0.0, cap.Voltage)
}

func TestNoGroundReportsTrueWithoutGroundDevice(t *testing.T) {
	c := New()
	require.True(t, c.NoGround())
	c.AddGround(topology.NodeID(0))
	require.False(t, c.NoGround())
}

func TestStampPanicsOnDirtyTopology(t *testing.T) {
	c := New()
	c.AddGround(topology.NodeID(0))
	c.Rebuild()
	c.AddDevice(device.NewResistor("R1", topology.NodeID(1), topology.NodeID(0), 1000))
	ctx := &device.Context{Mode: device.ModeDC, Temp: 300, Gmin: 1e-12}
	require.Panics(t, func() { _ = c.Stamp(ctx) })
}
