package main

import (
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/circuit"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/device"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/topology"
)

// builtinExamples maps a CLI --example name to a circuit builder returning
// the ready-to-rebuild circuit plus a name->node map of the probes worth
// printing. Kept tiny and hardcoded (no netlist parser, per SPEC_FULL.md)
// since the schematic-capture model of spec.md §4.2 builds circuits
// programmatically; a GUI editor is the intended caller in production, this
// CLI just needs something to drive for a smoke test.
var builtinExamples = map[string]func() (*circuit.Circuit, map[string]topology.NodeID){
	"voltage-divider": voltageDividerExample,
	"rc-lowpass":      rcLowPassExample,
	"half-wave-rect":  halfWaveRectifierExample,
}

func voltageDividerExample() (*circuit.Circuit, map[string]topology.NodeID) {
	gnd := topology.NodeID(0)
	top := topology.NodeID(1)
	mid := topology.NodeID(2)
	c := circuit.New()
	c.AddGround(gnd)
	c.AddDevice(device.NewDCSource("V1", top, gnd, 10.0))
	c.AddDevice(device.NewResistor("R1", top, mid, 1000))
	c.AddDevice(device.NewResistor("R2", mid, gnd, 1000))
	c.Rebuild()
	return c, map[string]topology.NodeID{"top": top, "mid": mid}
}

func rcLowPassExample() (*circuit.Circuit, map[string]topology.NodeID) {
	gnd := topology.NodeID(0)
	in := topology.NodeID(1)
	out := topology.NodeID(2)
	c := circuit.New()
	c.AddGround(gnd)
	c.AddDevice(device.NewDCSource("V1", in, gnd, 5.0))
	c.AddDevice(device.NewResistor("R1", in, out, 1000))
	c.AddDevice(device.NewCapacitor("C1", out, gnd, 1e-6))
	c.Rebuild()
	return c, map[string]topology.NodeID{"in": in, "out": out}
}

func halfWaveRectifierExample() (*circuit.Circuit, map[string]topology.NodeID) {
	gnd := topology.NodeID(0)
	in := topology.NodeID(1)
	out := topology.NodeID(2)
	c := circuit.New()
	c.AddGround(gnd)
	c.AddDevice(device.NewACSource("V1", in, gnd, 0, 10, 60, 0))
	c.AddDevice(device.NewDiode("D1", in, out))
	c.AddDevice(device.NewResistor("RL", out, gnd, 1000))
	c.Rebuild()
	return c, map[string]topology.NodeID{"in": in, "out": out}
}
