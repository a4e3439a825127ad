package device

import (
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/linalg"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/topology"
)

// OpAmp is an ideal finite-gain voltage-controlled voltage source (spec.md
// §3: "op-amp (ideal, finite open-loop gain, optional output rail clamp)").
// Terminals are (InPlus, InMinus, Out); like the ideal voltage source it
// needs a branch-current unknown to enforce its output equation. When the
// unclamped output would exceed the supply rails the branch equation
// switches, for that Newton iterate, to an ideal source pinned at the rail
// -- the same "treat the nonlinear element as a local linear stand-in,
// re-evaluate next iterate" approach the diode/BJT stamps use. Grounded on
// toy-spice/pkg/device/vsource.go's branch-unknown stamp, generalized from a
// constant RHS to input-dependent coefficients.
type OpAmp struct {
	BranchBaseDevice // Nodes = [InPlus, InMinus, Out]

	Gain                 float64
	VSupplyPos, VSupplyNeg float64 // rail voltages; VSupplyNeg is typically negative or 0

	clamp int // 0 = linear, +1 = clamped high, -1 = clamped low
}

func NewOpAmp(name string, inPlus, inMinus, out topology.NodeID, gain, vSupplyPos, vSupplyNeg float64) *OpAmp {
	return &OpAmp{
		BranchBaseDevice: BranchBaseDevice{BaseDevice: BaseDevice{Name: name, Nodes: []topology.NodeID{inPlus, inMinus, out}}},
		Gain:             gain,
		VSupplyPos:       vSupplyPos,
		VSupplyNeg:       vSupplyNeg,
	}
}

func (o *OpAmp) Kind() string { return "OPAMP" }

func (o *OpAmp) UpdateVoltages(nm *topology.NodeMap, solution []float64, temp float64) error {
	at := func(id topology.NodeID) float64 {
		if i := nm.Index(id); i != 0 && i < len(solution) {
			return solution[i]
		}
		return 0
	}
	vin := at(o.Nodes[0]) - at(o.Nodes[1])
	unclamped := o.Gain * vin
	switch {
	case unclamped >= o.VSupplyPos:
		o.clamp = 1
	case unclamped <= o.VSupplyNeg:
		o.clamp = -1
	default:
		o.clamp = 0
	}
	return nil
}

func (o *OpAmp) Stamp(m *linalg.Matrix, nm *topology.NodeMap, ctx *Context) error {
	inPlus, inMinus, out := nm.Index(o.Nodes[0]), nm.Index(o.Nodes[1]), nm.Index(o.Nodes[2])
	b := o.BranchIndex()

	switch o.clamp {
	case 1:
		stampVoltageSource(m, out, 0, b, o.VSupplyPos, 0)
	case -1:
		stampVoltageSource(m, out, 0, b, o.VSupplyNeg, 0)
	default:
		// Branch equation: Vout - Gain*(Vin+ - Vin-) = 0.
		if out != 0 {
			m.AddAt(b, out, 1)
			m.AddAt(out, b, 1)
		}
		if inPlus != 0 {
			m.AddAt(b, inPlus, -o.Gain)
		}
		if inMinus != 0 {
			m.AddAt(b, inMinus, o.Gain)
		}
	}
	return nil
}
