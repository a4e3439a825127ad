package simulation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jfalvarez1/circuit-toy-sub001/pkg/circuit"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/device"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/topology"
)

func divider() (*Simulation, topology.NodeID, topology.NodeID) {
	c := circuit.New()
	gnd := topology.NodeID(0)
	top := topology.NodeID(1)
	mid := topology.NodeID(2)
	c.AddGround(gnd)
	c.AddDevice(device.NewDCSource("V1", top, gnd, 10.0))
	c.AddDevice(device.NewResistor("R1", top, mid, 1000))
	c.AddDevice(device.NewResistor("R2", mid, gnd, 1000))
	return New(c), top, mid
}

func TestDCAnalysisVoltageDivider(t *testing.T) {
	sim, top, mid := divider()
	sol, err := sim.DCAnalysis()
	require.NoError(t, err)
	require.InDelta(t, 10.0, sol.VoltageAt(top), 1e-6)
	require.InDelta(t, 5.0, sol.VoltageAt(mid), 1e-6)
}

func TestDCAnalysisNoGroundFails(t *testing.T) {
	c := circuit.New()
	n1 := topology.NodeID(1)
	c.AddDevice(device.NewResistor("R1", n1, topology.NodeID(0), 1000))
	sim := New(c)
	_, err := sim.DCAnalysis()
	require.Error(t, err)
	var se *SimError
	require.ErrorAs(t, err, &se)
	require.Equal(t, ErrNoGround, se.Kind)
}

func TestDCAnalysisIsIdempotentAfterReset(t *testing.T) {
	sim, top, _ := divider()
	sol1, err := sim.DCAnalysis()
	require.NoError(t, err)
	v1 := sol1.VoltageAt(top)

	sim.Reset()
	sol2, err := sim.DCAnalysis()
	require.NoError(t, err)
	require.InDelta(t, v1, sol2.VoltageAt(top), 1e-9)
}

func TestTransientRCChargesTowardSourceVoltage(t *testing.T) {
	gnd := topology.NodeID(0)
	n1 := topology.NodeID(1)
	mid := topology.NodeID(2)

	c := circuit.New()
	c.AddGround(gnd)
	c.AddDevice(device.NewDCSource("V1", n1, gnd, 5.0))
	c.AddDevice(device.NewResistor("R1", n1, mid, 1000))
	cap := device.NewCapacitor("C1", mid, gnd, 1e-6)
	c.AddDevice(cap)

	sim := New(c)
	sim.SetAdaptive(false)
	_, err := sim.DCAnalysis()
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		require.NoError(t, sim.Step(1e-6))
	}
	require.Greater(t, sim.NodeVoltage(mid), 0.0)
	require.LessOrEqual(t, sim.NodeVoltage(mid), 5.0+1e-6)
}

func TestShortCircuitPreCheck(t *testing.T) {
	c := circuit.New()
	gnd := topology.NodeID(0)
	n1 := topology.NodeID(1)
	c.AddGround(gnd)
	c.AddDevice(device.NewDCSource("V1", n1, n1, 5.0)) // both terminals the same node
	sim := New(c)
	_, err := sim.DCAnalysis()
	require.Error(t, err)
	var se *SimError
	require.ErrorAs(t, err, &se)
	require.Equal(t, ErrShortCircuit, se.Kind)
}
