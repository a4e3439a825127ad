package simulation

import (
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/device"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/digital"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/logicfamily"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/topology"
)

// digitalInput is one ADC tap: a node to sample and the logic family whose
// thresholds turn its voltage into a Level. prevHigh carries the Schmitt
// hysteresis state across steps (spec.md §4.7 step 1).
type digitalInput struct {
	Node     topology.NodeID
	Family   logicfamily.Family
	prevHigh bool
}

// digitalOutput is one DAC tap: spec.md §4.7 step 3 says a dedicated output
// stamp doesn't exist yet, so a digital output instead drives the Value of
// an existing analog DCSource wired to its node -- the "conservative
// fallback" the spec names explicitly.
type digitalOutput struct {
	Source *device.DCSource
	Family logicfamily.Family
}

// DigitalBridge couples one digital.Propagator (a gate, adder, flip-flop,
// ...) to the analog netlist: its Inputs are sampled from node voltages
// each accepted step (ADC), fed through Prop.Propagate (logic propagation),
// and the results drive Outputs back into the analog solve (DAC).
type DigitalBridge struct {
	Prop    digital.Propagator
	Inputs  []*digitalInput
	Outputs []*digitalOutput
}

// NewDigitalBridge builds a bridge with no inputs/outputs yet; wire them up
// with AddInput/AddOutput before registering it with Simulation.
func NewDigitalBridge(prop digital.Propagator) *DigitalBridge {
	return &DigitalBridge{Prop: prop}
}

// AddInput adds an ADC tap sampling node through family's thresholds.
func (b *DigitalBridge) AddInput(node topology.NodeID, family logicfamily.Family) {
	b.Inputs = append(b.Inputs, &digitalInput{Node: node, Family: family})
}

// AddOutput adds a DAC tap: the bridge's i-th Propagate output (by position)
// drives source.Value to family's VOL/VOH for that level.
func (b *DigitalBridge) AddOutput(source *device.DCSource, family logicfamily.Family) {
	b.Outputs = append(b.Outputs, &digitalOutput{Source: source, Family: family})
}

// AddDigitalBridge registers a bridge to run every accepted transient step
// (spec.md §4.7's "after each accepted analog step").
func (s *Simulation) AddDigitalBridge(b *DigitalBridge) {
	s.bridges = append(s.bridges, b)
}

// runMixedSignal executes spec.md §4.7 ADC/propagate/DAC for every
// registered bridge, in registration order. A bridge with no committed
// solution yet (e.g. before the first DCAnalysis) is skipped rather than
// sampling a zero-valued phantom solution.
func (s *Simulation) runMixedSignal() {
	if s.lastSolution == nil {
		return
	}
	for _, b := range s.bridges {
		inputs := make([]digital.Level, len(b.Inputs))
		for i, in := range b.Inputs {
			v := s.lastSolution.VoltageAt(in.Node)
			inputs[i] = in.Family.Sample(v, &in.prevHigh)
		}
		outputs := b.Prop.Propagate(inputs)
		for i, out := range b.Outputs {
			if i >= len(outputs) {
				break
			}
			out.Source.Value = out.Family.DriveVoltage(outputs[i])
		}
	}
}
