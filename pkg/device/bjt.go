package device

import (
	"math"

	"github.com/jfalvarez1/circuit-toy-sub001/pkg/linalg"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/topology"
)

// BJTPolarity selects NPN or PNP -- the two entries spec.md §3 groups under
// "BJT NPN/PNP (simplified Ebers-Moll, forward-active region only)".
type BJTPolarity int

const (
	NPN BJTPolarity = iota
	PNP
)

// BJT is the simplified (forward-active-only) Ebers-Moll bipolar model of
// spec.md §4.3: gm = (Is/Vt)*exp(Vbe/Vt), g_be = gm/beta, and the three
// terminals (Base, Collector, Emitter) are stamped with a diode-like
// base-emitter conductance plus a collector-emitter transconductance.
// Grounded on the shape of toy-spice/pkg/device/bjt.go's DC operating-point
// stamp, stripped of its Gummel-Poon parameter set (Early effect, reverse
// injection, charge storage) -- none of which spec.md §4.3 asks for.
type BJT struct {
	BaseDevice // Nodes = [Base, Collector, Emitter]
	Pol        BJTPolarity

	Is   float64 // saturation current
	Beta float64 // forward current gain, Ic/Ib
	N    float64 // emission coefficient
	Gmin float64

	vbe float64 // last Newton iterate's base-emitter voltage (NPN sign convention)
}

func NewBJT(name string, base, collector, emitter topology.NodeID, pol BJTPolarity) *BJT {
	return &BJT{
		BaseDevice: BaseDevice{Name: name, Nodes: []topology.NodeID{base, collector, emitter}},
		Pol:        pol,
		Is:         1e-15,
		Beta:       100,
		N:          1.0,
		Gmin:       1e-12,
	}
}

func (t *BJT) Kind() string {
	if t.Pol == PNP {
		return "Q_PNP"
	}
	return "Q_NPN"
}

// sense returns the base-emitter junction voltage in the NPN convention
// (Vb - Ve); a PNP device is modelled by evaluating the same equations on
// -Vbe and negating the resulting currents, the standard symmetry trick.
func (t *BJT) sense(nm *topology.NodeMap, solution []float64) float64 {
	vb, vc, ve := 0.0, 0.0, 0.0
	_ = vc
	if i := nm.Index(t.Nodes[0]); i != 0 && i < len(solution) {
		vb = solution[i]
	}
	if i := nm.Index(t.Nodes[2]); i != 0 && i < len(solution) {
		ve = solution[i]
	}
	vbe := vb - ve
	if t.Pol == PNP {
		vbe = -vbe
	}
	return vbe
}

// UpdateVoltages clamps the base-emitter junction voltage ahead of the next
// Stamp call; temp must match the temp Stamp will use so the clamp bracket
// and the Ebers-Moll exponential agree.
func (t *BJT) UpdateVoltages(nm *topology.NodeMap, solution []float64, temp float64) error {
	vbe := t.sense(nm, solution)
	vt := thermalVoltage(temp)
	lo, hi := -5*t.N*vt, 40*t.N*vt
	if vbe < lo {
		vbe = lo
	}
	if vbe > hi {
		vbe = hi
	}
	t.vbe = vbe
	return nil
}

func (t *BJT) Stamp(m *linalg.Matrix, nm *topology.NodeMap, ctx *Context) error {
	base, collector, emitter := nm.Index(t.Nodes[0]), nm.Index(t.Nodes[1]), nm.Index(t.Nodes[2])
	vt := thermalVoltage(ctx.Temp)

	expArg := t.vbe / (t.N * vt)
	if expArg > 40 {
		expArg = 40
	}
	ic := t.Is * (math.Exp(expArg) - 1)
	gm := (t.Is / (t.N * vt)) * math.Exp(expArg)
	gbe := gm/t.Beta + t.Gmin
	ib := ic / t.Beta

	icEq := ic - gm*t.vbe
	ibEq := ib - gbe*t.vbe

	sign := 1.0
	if t.Pol == PNP {
		sign = -1.0
	}

	// Base-emitter junction: diode-like conductance carrying Ib.
	stampConductance(m, base, emitter, gbe)
	if base != 0 {
		m.AddRHS(base, -sign*ibEq)
	}
	if emitter != 0 {
		m.AddRHS(emitter, sign*ibEq)
	}

	// Collector-emitter branch: voltage-controlled current source gm*Vbe,
	// linearized with transconductance stamps into the base/emitter columns.
	if collector != 0 {
		m.AddAt(collector, base, sign*gm)
		m.AddAt(collector, emitter, -sign*gm)
		m.AddRHS(collector, -sign*icEq)
	}
	if emitter != 0 {
		m.AddAt(emitter, base, -sign*gm)
		m.AddAt(emitter, emitter, sign*gm)
		m.AddRHS(emitter, sign*icEq)
	}
	return nil
}
