package device

import (
	"github.com/jfalvarez1/circuit-toy-sub001/internal/consts"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/linalg"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/topology"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/util"
)

// Capacitor is the backward-Euler companion model of spec.md §4.3:
// Geq=C/Δt, Ieq=C·v_prev/Δt, stamped as a conductance plus an equivalent
// current source. DC analysis uses Δt=1e9 so it degenerates to an open
// circuit. Grounded on toy-spice/pkg/device/capacitor.go; dropped the AC
// admittance branch (AC is a spec.md Non-goal) and the OP-mode gmin-only
// branch (folded into the normal transient path by having callers pass
// Δt=consts.DcTimeStep for DC per spec.md §4.4 step 5). The Geq coefficient
// itself comes from the teacher's order-1 BDF table in pkg/util rather than
// a bare 1/Δt literal, so a future higher-order integrator only needs to
// change the order argument here, not the stamping formula.
type Capacitor struct {
	BaseDevice
	Value    float64
	Voltage  float64 // last solved terminal voltage (companion-model state)
	Reversed bool    // electrolytic: true once biased opposite its rated polarity
	rated    bool    // true for ElectrolyticCapacitor instances
}

var _ TimeDependent = (*Capacitor)(nil)

func NewCapacitor(name string, n1, n2 topology.NodeID, value float64) *Capacitor {
	return &Capacitor{BaseDevice: BaseDevice{Name: name, Nodes: []topology.NodeID{n1, n2}}, Value: value}
}

// NewElectrolyticCapacitor is a Capacitor that additionally tracks reverse-
// polarity bias (spec.md §3's "rated polarity" capacitor kind). Reverse bias
// is a diagnostic flag (Reversed), not a hard stamping failure -- spec.md
// does not define a breakdown stamp for it, only that the kind is rated.
func NewElectrolyticCapacitor(name string, pos, neg topology.NodeID, value float64) *Capacitor {
	c := NewCapacitor(name, pos, neg, value)
	c.rated = true
	return c
}

func (c *Capacitor) Kind() string {
	if c.rated {
		return "CE"
	}
	return "C"
}

func (c *Capacitor) dt(ctx *Context) float64 {
	if ctx.Mode == ModeDC {
		return consts.DcTimeStep
	}
	if ctx.TimeStep <= 0 {
		return consts.DcTimeStep
	}
	return ctx.TimeStep
}

func (c *Capacitor) Stamp(m *linalg.Matrix, nm *topology.NodeMap, ctx *Context) error {
	n1, n2 := nm.Index(c.Nodes[0]), nm.Index(c.Nodes[1])
	dt := c.dt(ctx)

	geq := c.Value * util.GetBDFcoeffs(1, dt)[0]
	ieq := geq * c.Voltage

	stampConductance(m, n1, n2, geq)
	if n1 != 0 {
		m.AddRHS(n1, ieq)
	}
	if n2 != 0 {
		m.AddRHS(n2, -ieq)
	}
	return nil
}

func (c *Capacitor) terminalVoltage(nm *topology.NodeMap, solution []float64) float64 {
	v1, v2 := 0.0, 0.0
	if i := nm.Index(c.Nodes[0]); i != 0 && i < len(solution) {
		v1 = solution[i]
	}
	if i := nm.Index(c.Nodes[1]); i != 0 && i < len(solution) {
		v2 = solution[i]
	}
	return v1 - v2
}

func (c *Capacitor) LoadState(nm *topology.NodeMap, solution []float64, ctx *Context) {}

func (c *Capacitor) UpdateState(nm *topology.NodeMap, solution []float64, ctx *Context) {
	v := c.terminalVoltage(nm, solution)
	c.Voltage = v
	if c.rated {
		c.Reversed = v < 0
	}
}

func (c *Capacitor) ResetState() {
	c.Voltage = 0
	c.Reversed = false
}

type capacitorSnapshot struct {
	Voltage  float64
	Reversed bool
}

func (c *Capacitor) Snapshot() any { return capacitorSnapshot{c.Voltage, c.Reversed} }

func (c *Capacitor) Restore(snap any) {
	s := snap.(capacitorSnapshot)
	c.Voltage, c.Reversed = s.Voltage, s.Reversed
}
