package device

import (
	"github.com/jfalvarez1/circuit-toy-sub001/internal/consts"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/linalg"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/topology"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/util"
)

// Inductor is the backward-Euler companion model of spec.md §4.3:
// branch-unknown k, Req=L/Δt, Veq=L·I_prev/Δt, same ±1 incidence as a
// voltage source plus A[k,k]-=Req, b[k]+=Veq. DC analysis uses Δt=1e9 so it
// degenerates to a short. Grounded on toy-spice/pkg/device/inductor.go; the
// Req coefficient is read off the teacher's order-1 BDF table (pkg/util)
// rather than a bare 1/Δt literal, same as Capacitor.
type Inductor struct {
	BranchBaseDevice
	Value   float64
	Current float64 // last solved branch current (companion-model state)
}

var _ TimeDependent = (*Inductor)(nil)

func NewInductor(name string, n1, n2 topology.NodeID, value float64) *Inductor {
	return &Inductor{BranchBaseDevice: BranchBaseDevice{BaseDevice: BaseDevice{Name: name, Nodes: []topology.NodeID{n1, n2}}}, Value: value}
}

func (l *Inductor) Kind() string { return "L" }

func (l *Inductor) dt(ctx *Context) float64 {
	if ctx.Mode == ModeDC || ctx.TimeStep <= 0 {
		return consts.DcTimeStep
	}
	return ctx.TimeStep
}

func (l *Inductor) Stamp(m *linalg.Matrix, nm *topology.NodeMap, ctx *Context) error {
	n1, n2 := nm.Index(l.Nodes[0]), nm.Index(l.Nodes[1])
	bIdx := l.BranchIndex()
	dt := l.dt(ctx)

	if n1 != 0 {
		m.AddAt(n1, bIdx, 1)
		m.AddAt(bIdx, n1, 1)
	}
	if n2 != 0 {
		m.AddAt(n2, bIdx, -1)
		m.AddAt(bIdx, n2, -1)
	}

	req := l.Value * util.GetBDFcoeffs(1, dt)[0]
	m.AddAt(bIdx, bIdx, -req)
	m.AddRHS(bIdx, req*l.Current)
	return nil
}

func (l *Inductor) LoadState(nm *topology.NodeMap, solution []float64, ctx *Context) {}

func (l *Inductor) UpdateState(nm *topology.NodeMap, solution []float64, ctx *Context) {
	bIdx := l.BranchIndex()
	if bIdx > 0 && bIdx < len(solution) {
		// MNA convention: the solved branch unknown is the current flowing
		// from n2 to n1 through the source/inductor branch; the device's
		// own current is the negative of that (teacher: circuit.Update()
		// negates branch solutions for I(name)).
		l.Current = -solution[bIdx]
	}
}

func (l *Inductor) ResetState() {
	l.Current = 0
}

func (l *Inductor) Snapshot() any { return l.Current }

func (l *Inductor) Restore(snap any) { l.Current = snap.(float64) }
