package sweep

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jfalvarez1/circuit-toy-sub001/pkg/circuit"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/device"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/simulation"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/topology"
)

func TestRunSweepsSourceVoltage(t *testing.T) {
	gnd := topology.NodeID(0)
	top := topology.NodeID(1)
	c := circuit.New()
	c.AddGround(gnd)
	src := device.NewDCSource("V1", top, gnd, 0)
	c.AddDevice(src)
	c.AddDevice(device.NewResistor("R1", top, gnd, 1000))
	sim := simulation.New(c)

	var progress atomic.Int64
	points, err := Run(context.Background(), sim, Range{Start: 0, Stop: 4, Step: 1}, &progress, func(v float64) {
		src.Value = v
	})
	require.NoError(t, err)
	require.Len(t, points, 5)
	require.Equal(t, int64(5), progress.Load())
	for i, p := range points {
		require.NoError(t, p.Err)
		require.InDelta(t, float64(i), p.Solution.VoltageAt(top), 1e-6)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	gnd := topology.NodeID(0)
	top := topology.NodeID(1)
	c := circuit.New()
	c.AddGround(gnd)
	src := device.NewDCSource("V1", top, gnd, 0)
	c.AddDevice(src)
	c.AddDevice(device.NewResistor("R1", top, gnd, 1000))
	sim := simulation.New(c)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	points, err := Run(ctx, sim, Range{Start: 0, Stop: 10, Step: 1}, nil, func(v float64) { src.Value = v })
	require.Error(t, err)
	require.Empty(t, points)
}
