// Package device holds the circuit-element taxonomy and the additive Stamp
// contract every kind implements. Grounded on the teacher's
// toy-spice/pkg/device package: kept the BaseDevice-embedding pattern and
// the per-kind Stamp method, regeneralized the signature to take a
// topology.NodeMap instead of netlist-preresolved node indices.
package device

import (
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/linalg"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/topology"
)

// Mode selects which analysis is stamping: DC treats capacitors as open and
// inductors as shorts via a pseudo-infinite Δt; Transient uses the real Δt
// and backward-Euler companion models.
type Mode int

const (
	ModeDC Mode = iota
	ModeTransient
)

// Context is the per-stamp environment every device reads from. XPrev is the
// solution vector from the previous Newton iterate (or the prior accepted
// timestep on the first iteration of a new step; zeroed for DC cold start
// per spec.md §9(b)), indexed by compact matrix index.
type Context struct {
	Time     float64
	TimeStep float64
	Mode     Mode
	Temp     float64
	Gmin     float64
	XPrev    []float64
}

// VoltageAt reads XPrev at a compact node index, returning 0 for ground.
func (c *Context) VoltageAt(idx int) float64 {
	if idx <= 0 || idx >= len(c.XPrev) {
		return 0
	}
	return c.XPrev[idx]
}

// Device is the common contract every circuit element implements. Stamping
// is additive into the shared (A,b); devices in any order produce the same
// linearized system (spec.md §5, ordering guarantee).
type Device interface {
	ID() string
	Kind() string
	NodeIDs() []topology.NodeID
	NeedsBranchUnknown() bool
	Stamp(m *linalg.Matrix, nm *topology.NodeMap, ctx *Context) error
}

// BranchDevice is implemented by devices that allocate a branch-current
// unknown row/column (voltage sources, inductors, op-amps).
type BranchDevice interface {
	Device
	SetBranchIndex(idx int)
	BranchIndex() int
}

// TimeDependent is implemented by devices with companion-model state that
// must persist across solver calls (capacitor voltage, inductor current).
// LoadState primes the device's "previous" fields at the start of a new
// time step; UpdateState commits them once a step is accepted. Rejection
// must not corrupt this state -- callers only invoke UpdateState after
// accepting the trial solution.
type TimeDependent interface {
	LoadState(nm *topology.NodeMap, solution []float64, ctx *Context)
	UpdateState(nm *topology.NodeMap, solution []float64, ctx *Context)
}

// NonLinear is implemented by devices whose stamp depends on the current
// Newton iterate (diodes, BJTs, FETs). The Newton loop calls UpdateVoltages
// once per iteration, before Stamp. temp is the same device temperature
// Stamp will see via ctx.Temp, so a junction-voltage clamp computed here
// uses the identical thermal voltage as the exponential it's clamping ahead
// of.
type NonLinear interface {
	UpdateVoltages(nm *topology.NodeMap, solution []float64, temp float64) error
}

// Resettable is implemented by devices with dynamic state that must clear
// on Simulation.Reset (spec.md §8 property 4).
type Resettable interface {
	ResetState()
}

// Snapshotter is implemented by TimeDependent (or otherwise stateful)
// devices whose state the adaptive stepper must be able to roll back.
// Simulation.AutoTimeStep snapshots every such device before each trial
// step and restores it when the trial fails to solve or is rejected by the
// error check, so a retry at a smaller Δt starts from the pre-trial state.
type Snapshotter interface {
	Snapshot() any
	Restore(snap any)
}

// BaseDevice centralizes the fields shared by every concrete device kind.
type BaseDevice struct {
	Name  string
	Nodes []topology.NodeID
}

func (b *BaseDevice) ID() string                 { return b.Name }
func (b *BaseDevice) NodeIDs() []topology.NodeID { return b.Nodes }
func (b *BaseDevice) NeedsBranchUnknown() bool   { return false }

// BranchBaseDevice embeds BaseDevice plus the branch-current index shared by
// voltage-defining devices (voltage sources, inductors, op-amps).
type BranchBaseDevice struct {
	BaseDevice
	branchIdx int
}

func (b *BranchBaseDevice) NeedsBranchUnknown() bool { return true }
func (b *BranchBaseDevice) SetBranchIndex(idx int)   { b.branchIdx = idx }
func (b *BranchBaseDevice) BranchIndex() int         { return b.branchIdx }
