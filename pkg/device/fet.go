package device

import (
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/linalg"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/topology"
)

// FETKind names the four taxonomy entries spec.md §3 groups as "MOSFET
// N/P-channel, JFET N/P-channel (square-law, three-region: cutoff / triode /
// saturation)". All four share one square-law equation set; only the sign
// of Vgs-relative-to-Vth and the channel-current direction differ.
type FETKind int

const (
	NMOS FETKind = iota
	PMOS
	NJFET
	PJFET
)

func (k FETKind) depletionMode() bool { return k == NJFET || k == PJFET }
func (k FETKind) pChannel() bool      { return k == PMOS || k == PJFET }

// FET is the square-law field-effect stamp of spec.md §4.3. Terminals are
// (Gate, Drain, Source); the gate draws no DC current (ideal insulated or
// reverse-biased-junction gate), so only the drain-source branch carries a
// voltage-controlled current source linearized each Newton iterate into a
// transconductance (gm) and output conductance (gds) pair. Grounded on the
// region-selection shape of toy-spice/pkg/device/mosfet.go's DC stamp, cut
// down to the bare square-law (no body effect, no subthreshold, no CLM
// beyond an optional Lambda) since spec.md §4.3 asks only for the
// three-region square law.
type FET struct {
	BaseDevice // Nodes = [Gate, Drain, Source]
	K          FETKind

	Kp     float64 // transconductance parameter (A/V^2), includes W/L
	Vth    float64 // threshold (enhancement) or pinch-off (depletion) voltage
	Lambda float64 // channel-length modulation, 0 disables it
	Gmin   float64

	vgs, vds float64 // last Newton iterate's terminal voltages, gate convention
}

func NewMOSFET(name string, gate, drain, source topology.NodeID, k FETKind, kp, vth float64) *FET {
	return &FET{
		BaseDevice: BaseDevice{Name: name, Nodes: []topology.NodeID{gate, drain, source}},
		K:          k,
		Kp:         kp,
		Vth:        vth,
		Gmin:       1e-12,
	}
}

func (f *FET) Kind() string {
	switch f.K {
	case PMOS:
		return "M_PMOS"
	case NJFET:
		return "J_NJFET"
	case PJFET:
		return "J_PJFET"
	default:
		return "M_NMOS"
	}
}

// sense reads Vgs and Vds in the N-channel convention; P-channel devices are
// evaluated by negating both inputs and, in Stamp, negating the resulting
// current -- the usual square-law symmetry.
func (f *FET) sense(nm *topology.NodeMap, solution []float64) (vgs, vds float64) {
	at := func(id topology.NodeID) float64 {
		if i := nm.Index(id); i != 0 && i < len(solution) {
			return solution[i]
		}
		return 0
	}
	vg, vd, vs := at(f.Nodes[0]), at(f.Nodes[1]), at(f.Nodes[2])
	vgs, vds = vg-vs, vd-vs
	if f.K.pChannel() {
		vgs, vds = -vgs, -vds
	}
	return vgs, vds
}

func (f *FET) UpdateVoltages(nm *topology.NodeMap, solution []float64, temp float64) error {
	f.vgs, f.vds = f.sense(nm, solution)
	return nil
}

// squareLaw returns drain current and its partials at the given terminal
// voltages, classifying into cutoff/triode/saturation per spec.md §4.3.
// Depletion-mode devices (JFET) conduct at Vgs==0 and cut off as Vgs moves
// past Vth toward pinch-off, the mirror image of an enhancement MOSFET.
func (f *FET) squareLaw(vgs, vds float64) (id, gm, gds float64) {
	vov := vgs - f.Vth // overdrive voltage
	if f.K.depletionMode() {
		// JFET: Vth (pinch-off) is negative for n-channel; conduction region
		// is Vgs > Vth, mirroring the enhancement-mode overdrive shape.
		vov = vgs - f.Vth
	}
	if vov <= 0 {
		return 0, 0, f.Gmin
	}

	lam := 1 + f.Lambda*vds
	if vds < vov {
		// Triode/linear region.
		id = f.Kp * (vov*vds - vds*vds/2) * lam
		gm = f.Kp * vds * lam
		gds = f.Kp*(vov-vds)*lam + f.Kp*(vov*vds-vds*vds/2)*f.Lambda + f.Gmin
	} else {
		// Saturation.
		id = 0.5 * f.Kp * vov * vov * lam
		gm = f.Kp * vov * lam
		gds = 0.5*f.Kp*vov*vov*f.Lambda + f.Gmin
	}
	return id, gm, gds
}

func (f *FET) Stamp(m *linalg.Matrix, nm *topology.NodeMap, ctx *Context) error {
	gate, drain, source := nm.Index(f.Nodes[0]), nm.Index(f.Nodes[1]), nm.Index(f.Nodes[2])
	_ = gate // gate carries no DC current in this square-law model

	id, gm, gds := f.squareLaw(f.vgs, f.vds)
	ieq := id - gm*f.vgs - gds*f.vds

	sign := 1.0
	if f.K.pChannel() {
		sign = -1.0
	}

	// Drain-source branch: Id = gm*Vgs + gds*Vds, linearized as a
	// transconductance plus an output conductance between drain and source,
	// controlled by gate-source and drain-source, plus an equivalent current
	// source carrying the residual Ieq.
	gNodes := [2]int{drain, source}
	cNodes := [2]int{gate, source} // controlling nodes for gm (Vgs)
	oNodes := [2]int{drain, source} // controlling nodes for gds (Vds)
	for i, n := range gNodes {
		if n == 0 {
			continue
		}
		rowSign := 1.0
		if i == 1 {
			rowSign = -1.0
		}
		if cNodes[0] != 0 {
			m.AddAt(n, cNodes[0], sign*rowSign*gm)
		}
		if cNodes[1] != 0 {
			m.AddAt(n, cNodes[1], -sign*rowSign*gm)
		}
		if oNodes[0] != 0 {
			m.AddAt(n, oNodes[0], sign*rowSign*gds)
		}
		if oNodes[1] != 0 {
			m.AddAt(n, oNodes[1], -sign*rowSign*gds)
		}
		m.AddRHS(n, -sign*rowSign*ieq)
	}
	return nil
}
