package device

import (
	"math"

	"github.com/jfalvarez1/circuit-toy-sub001/pkg/linalg"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/topology"
)

// Transformer is a pair of mutually coupled inductors (spec.md §3's
// "transformer (mutually coupled inductors)"). Grounded on
// toy-spice/pkg/device/mutual.go's Mutual device: kept the
// M = k*sqrt(L1*L2), V_i += M*di_j/dt companion-model cross-stamp onto each
// inductor's own branch row, dropped the AC admittance branch (AC is a
// spec.md Non-goal) and the n-inductor generality (spec.md only names a
// two-winding transformer).
type Transformer struct {
	BaseDevice
	Primary, Secondary *Inductor
	Coupling           float64 // k, dimensionless (0..1]
}

func NewTransformer(name string, primary, secondary *Inductor, coupling float64) *Transformer {
	return &Transformer{BaseDevice: BaseDevice{Name: name}, Primary: primary, Secondary: secondary, Coupling: coupling}
}

func (t *Transformer) Kind() string { return "XFMR" }

func (t *Transformer) Stamp(m *linalg.Matrix, nm *topology.NodeMap, ctx *Context) error {
	if ctx.Mode != ModeTransient {
		return nil
	}
	dt := ctx.TimeStep
	if dt <= 0 {
		return nil
	}

	mij := t.Coupling * math.Sqrt(t.Primary.Value*t.Secondary.Value)
	if mij == 0 {
		return nil
	}

	bp, bs := t.Primary.BranchIndex(), t.Secondary.BranchIndex()

	m.AddAt(bp, bs, -mij/dt)
	m.AddAt(bs, bp, -mij/dt)
	m.AddRHS(bp, mij*t.Secondary.Current/dt)
	m.AddRHS(bs, mij*t.Primary.Current/dt)
	return nil
}
