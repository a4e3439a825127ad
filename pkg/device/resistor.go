package device

import (
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/linalg"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/topology"
)

// Resistor is the linear conductance stamp: G=1/R between its two
// terminals. Grounded on toy-spice/pkg/device/resistor.go, trimmed to the
// real-valued OP/transient stamp (the AC branch dropped with AC analysis).
type Resistor struct {
	BaseDevice
	Value float64
	Tc1   float64 // linear temperature coefficient
	Tc2   float64 // quadratic temperature coefficient
	Tnom  float64
}

func NewResistor(name string, n1, n2 topology.NodeID, value float64) *Resistor {
	return &Resistor{
		BaseDevice: BaseDevice{Name: name, Nodes: []topology.NodeID{n1, n2}},
		Value:      value,
		Tnom:       300.15,
	}
}

func (r *Resistor) Kind() string { return "R" }

func (r *Resistor) Stamp(m *linalg.Matrix, nm *topology.NodeMap, ctx *Context) error {
	n1, n2 := nm.Index(r.Nodes[0]), nm.Index(r.Nodes[1])
	g := 1.0 / r.temperatureAdjustedValue(ctx.Temp)
	stampConductance(m, n1, n2, g)
	return nil
}

func (r *Resistor) temperatureAdjustedValue(temp float64) float64 {
	if temp == 0 {
		return r.Value
	}
	dt := temp - r.Tnom
	factor := 1.0 + r.Tc1*dt + r.Tc2*dt*dt
	return r.Value * factor
}

// stampConductance adds a conductance g between n1 and n2, skipping writes
// to ground (index 0). Shared by every device whose linearization reduces
// to a plain two-terminal conductance (resistor, companion models, switch).
func stampConductance(m *linalg.Matrix, n1, n2 int, g float64) {
	if n1 != 0 {
		m.AddAt(n1, n1, g)
		if n2 != 0 {
			m.AddAt(n1, n2, -g)
		}
	}
	if n2 != 0 {
		if n1 != 0 {
			m.AddAt(n2, n1, -g)
		}
		m.AddAt(n2, n2, g)
	}
}
