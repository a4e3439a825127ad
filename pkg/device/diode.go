package device

import (
	"math"

	"github.com/jfalvarez1/circuit-toy-sub001/pkg/linalg"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/topology"
)

// DiodeKind selects which Shockley-equation variant a Diode implements --
// spec.md §3 groups "diode, Zener, Schottky, LED (all nonlinear via
// Shockley equation with kind-specific parameters)" as one family.
type DiodeKind int

const (
	Rectifier DiodeKind = iota
	Zener
	Schottky
	LED
)

// Diode is the nonlinear Shockley-equation stamp of spec.md §4.3: at the
// current Newton iterate, Vd is clamped to [-5nVt, 40nVt] (a Zener has no
// lower clamp, so its reverse breakdown branch is reachable), Id and Gd follow
// the standard exponential, and the linearization is stamped as a
// conductance plus an equivalent current source so the net branch current
// matches Id at Vd. Grounded on toy-spice/pkg/device/diode.go, trimmed of
// its junction-capacitance/AC machinery (AC is a spec.md Non-goal).
type Diode struct {
	BaseDevice
	K DiodeKind

	Is   float64 // saturation current
	N    float64 // ideality / emission coefficient
	Vz   float64 // Zener/reverse breakdown voltage (Zener kind only)
	Gmin float64

	vd float64 // last Newton iterate's junction voltage
}

func NewDiode(name string, anode, cathode topology.NodeID) *Diode {
	return &Diode{
		BaseDevice: BaseDevice{Name: name, Nodes: []topology.NodeID{anode, cathode}},
		K:          Rectifier,
		Is:         1e-12,
		N:          1.0,
		Vz:         100.0,
		Gmin:       1e-12,
	}
}

func NewZener(name string, anode, cathode topology.NodeID, vz float64) *Diode {
	d := NewDiode(name, anode, cathode)
	d.K = Zener
	d.Vz = vz
	return d
}

func NewSchottky(name string, anode, cathode topology.NodeID) *Diode {
	d := NewDiode(name, anode, cathode)
	d.K = Schottky
	d.Is = 1e-8 // Schottky's larger saturation current vs. a silicon junction
	return d
}

func NewLED(name string, anode, cathode topology.NodeID) *Diode {
	d := NewDiode(name, anode, cathode)
	d.K = LED
	d.N = 2.0 // LEDs commonly run a higher ideality factor than small-signal diodes
	return d
}

func (d *Diode) Kind() string {
	switch d.K {
	case Zener:
		return "D_ZENER"
	case Schottky:
		return "D_SCHOTTKY"
	case LED:
		return "D_LED"
	default:
		return "D"
	}
}

func thermalVoltage(temp float64) float64 {
	if temp <= 0 {
		temp = 300
	}
	return (0.026 / 300.0) * temp
}

func (d *Diode) current(vd, vt float64) float64 {
	if vd >= -5*vt {
		expArg := vd / (d.N * vt)
		if expArg > 40 {
			expArg = 40
		}
		return d.Is * (math.Exp(expArg) - 1)
	}
	if d.K == Zener && vd < -d.Vz {
		// Breakdown: steep reverse conduction once |Vd| exceeds the rated
		// Zener voltage, clamping the voltage near -Vz (spec.md §4.3: "a
		// low-impedance breakdown conductance producing the clamping
		// current shift").
		return -d.Is + (vd+d.Vz)/breakdownImpedance
	}
	return -d.Is
}

// breakdownImpedance is the low, fixed impedance used to model Zener
// reverse breakdown clamping -- chosen small enough that the node voltage
// settles close to -Vz once conduction begins.
const breakdownImpedance = 1.0

func (d *Diode) conductance(vd, id, vt float64) float64 {
	if vd >= -5*vt {
		return (id+d.Is)/(d.N*vt) + d.Gmin
	}
	if d.K == Zener && vd < -d.Vz {
		return 1.0/breakdownImpedance + d.Gmin
	}
	return d.Gmin
}

func (d *Diode) clampVoltage(vd, vt float64) float64 {
	lo := -5 * d.N * vt
	hi := 40 * d.N * vt
	if vd < lo && d.K != Zener {
		return lo
	}
	if vd > hi {
		return hi
	}
	return vd
}

// UpdateVoltages reads the Newton iterate's junction voltage and clamps it
// per spec.md §4.3, ahead of the next Stamp call. temp must match the temp
// Stamp will use, so the clamp bracket and the Shockley exponential agree.
func (d *Diode) UpdateVoltages(nm *topology.NodeMap, solution []float64, temp float64) error {
	v1, v2 := 0.0, 0.0
	if i := nm.Index(d.Nodes[0]); i != 0 && i < len(solution) {
		v1 = solution[i]
	}
	if i := nm.Index(d.Nodes[1]); i != 0 && i < len(solution) {
		v2 = solution[i]
	}
	vt := thermalVoltage(temp)
	d.vd = d.clampVoltage(v1-v2, vt)
	return nil
}

func (d *Diode) Stamp(m *linalg.Matrix, nm *topology.NodeMap, ctx *Context) error {
	n1, n2 := nm.Index(d.Nodes[0]), nm.Index(d.Nodes[1])
	vt := thermalVoltage(ctx.Temp)

	id := d.current(d.vd, vt)
	gd := d.conductance(d.vd, id, vt)
	ieq := id - gd*d.vd

	stampConductance(m, n1, n2, gd)
	if n1 != 0 {
		m.AddRHS(n1, -ieq)
	}
	if n2 != 0 {
		m.AddRHS(n2, ieq)
	}
	return nil
}
