package device

import (
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/linalg"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/topology"
)

// Potentiometer is a three-terminal resistor split by wiper position
// (spec.md §3: "potentiometer (linear, with wiper position)"). Terminals
// are (End1, Wiper, End2); the wiper splits TotalOhms into two series
// resistors whose sum is constant as WiperPos sweeps [0,1].
type Potentiometer struct {
	BaseDevice
	TotalOhms float64
	WiperPos  float64 // 0 = wiper at End1, 1 = wiper at End2
}

func NewPotentiometer(name string, end1, wiper, end2 topology.NodeID, totalOhms, wiperPos float64) *Potentiometer {
	return &Potentiometer{
		BaseDevice: BaseDevice{Name: name, Nodes: []topology.NodeID{end1, wiper, end2}},
		TotalOhms:  totalOhms,
		WiperPos:   clamp01(wiperPos),
	}
}

func (p *Potentiometer) Kind() string { return "POT" }

func (p *Potentiometer) Stamp(m *linalg.Matrix, nm *topology.NodeMap, ctx *Context) error {
	end1, wiper, end2 := nm.Index(p.Nodes[0]), nm.Index(p.Nodes[1]), nm.Index(p.Nodes[2])

	r1 := p.TotalOhms * p.WiperPos
	r2 := p.TotalOhms * (1 - p.WiperPos)
	const minR = 1e-6
	if r1 < minR {
		r1 = minR
	}
	if r2 < minR {
		r2 = minR
	}

	stampConductance(m, end1, wiper, 1.0/r1)
	stampConductance(m, wiper, end2, 1.0/r2)
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
