package device

import (
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/linalg"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/topology"
)

// Fuse is a resistor whose conductance collapses once its integrated I²t
// crosses a rated threshold (spec.md §3's "fuse (state: intact/blown)" with
// "integrated I²t" as the persisted dynamic state). Modelled, like the
// switches, as a Resistor whose value is chosen by state -- intact uses
// ResistanceOhms, blown uses a large open-circuit resistance.
type Fuse struct {
	BaseDevice
	ResistanceOhms float64
	RatedI2T       float64 // A²·s threshold before the fuse opens
	OpenResistance float64

	Blown       bool
	IntegratedI2T float64
}

func NewFuse(name string, n1, n2 topology.NodeID, resistanceOhms, ratedI2T float64) *Fuse {
	return &Fuse{
		BaseDevice:     BaseDevice{Name: name, Nodes: []topology.NodeID{n1, n2}},
		ResistanceOhms: resistanceOhms,
		RatedI2T:       ratedI2T,
		OpenResistance: 1e9,
	}
}

func (f *Fuse) Kind() string { return "FUSE" }

func (f *Fuse) activeResistance() float64 {
	if f.Blown {
		return f.OpenResistance
	}
	return f.ResistanceOhms
}

func (f *Fuse) Stamp(m *linalg.Matrix, nm *topology.NodeMap, ctx *Context) error {
	n1, n2 := nm.Index(f.Nodes[0]), nm.Index(f.Nodes[1])
	g := 1.0 / f.activeResistance()
	stampConductance(m, n1, n2, g)
	return nil
}

// UpdateState integrates I²t from the accepted step's terminal current and
// blows the fuse once the rated energy is exceeded.
func (f *Fuse) UpdateState(nm *topology.NodeMap, solution []float64, ctx *Context) {
	if f.Blown || ctx.TimeStep <= 0 {
		return
	}
	v1, v2 := 0.0, 0.0
	if i := nm.Index(f.Nodes[0]); i != 0 && i < len(solution) {
		v1 = solution[i]
	}
	if i := nm.Index(f.Nodes[1]); i != 0 && i < len(solution) {
		v2 = solution[i]
	}
	current := (v1 - v2) / f.activeResistance()
	f.IntegratedI2T += current * current * ctx.TimeStep
	if f.RatedI2T > 0 && f.IntegratedI2T >= f.RatedI2T {
		f.Blown = true
	}
}

func (f *Fuse) LoadState(nm *topology.NodeMap, solution []float64, ctx *Context) {}

func (f *Fuse) ResetState() {
	f.Blown = false
	f.IntegratedI2T = 0
}

type fuseSnapshot struct {
	Blown         bool
	IntegratedI2T float64
}

func (f *Fuse) Snapshot() any { return fuseSnapshot{f.Blown, f.IntegratedI2T} }

func (f *Fuse) Restore(snap any) {
	s := snap.(fuseSnapshot)
	f.Blown, f.IntegratedI2T = s.Blown, s.IntegratedI2T
}
