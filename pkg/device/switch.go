package device

import (
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/linalg"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/topology"
)

// SwitchKind names the taxonomy entries spec.md §3 groups together as
// "SPST/SPDT/DPDT/push-button/analog switch" -- all modelled identically,
// as a resistor whose value is ROn or ROff selected by Closed.
type SwitchKind int

const (
	SPST SwitchKind = iota
	SPDT
	DPDT
	PushButton
	AnalogSwitch
)

// Switch is "a resistor whose value is r_on or r_off selected by the
// component's state" (spec.md §3). Closed is the externally driven user
// state (mouse click, PWL control signal for AnalogSwitch, etc.); the core
// only consumes it, it never decides it.
type Switch struct {
	BaseDevice
	K          SwitchKind
	ROn, ROff  float64
	Closed     bool
}

func NewSwitch(name string, n1, n2 topology.NodeID, k SwitchKind, rOn, rOff float64) *Switch {
	return &Switch{BaseDevice: BaseDevice{Name: name, Nodes: []topology.NodeID{n1, n2}}, K: k, ROn: rOn, ROff: rOff}
}

func (s *Switch) Kind() string { return "SW" }

func (s *Switch) Stamp(m *linalg.Matrix, nm *topology.NodeMap, ctx *Context) error {
	n1, n2 := nm.Index(s.Nodes[0]), nm.Index(s.Nodes[1])
	r := s.ROff
	if s.Closed {
		r = s.ROn
	}
	stampConductance(m, n1, n2, 1.0/r)
	return nil
}

// Relay is a Switch whose Closed state is derived from a coil current
// threshold rather than set directly by a user (spec.md §3: "relay").
// CoilCurrent is read from the accepted solution each step; the contact
// itself stamps exactly like Switch.
type Relay struct {
	Switch
	CoilN1, CoilN2   topology.NodeID
	CoilResistance   float64
	PullInThreshold  float64 // amps
	DropOutThreshold float64 // amps, <= PullInThreshold (hysteresis)
}

func NewRelay(name string, contactN1, contactN2, coilN1, coilN2 topology.NodeID, rOn, rOff, coilR, pullIn, dropOut float64) *Relay {
	return &Relay{
		Switch:           *NewSwitch(name, contactN1, contactN2, SPST, rOn, rOff),
		CoilN1:           coilN1,
		CoilN2:           coilN2,
		CoilResistance:   coilR,
		PullInThreshold:  pullIn,
		DropOutThreshold: dropOut,
	}
}

func (r *Relay) Kind() string { return "RELAY" }

// UpdateState reads the coil current from the accepted solution (coil is
// wired externally as a Resistor of value CoilResistance so its current is
// just the node-voltage difference over that resistance) and applies
// pull-in/drop-out hysteresis to the contact's Closed state.
func (r *Relay) UpdateState(nm *topology.NodeMap, solution []float64, ctx *Context) {
	v1, v2 := 0.0, 0.0
	if i := nm.Index(r.CoilN1); i != 0 && i < len(solution) {
		v1 = solution[i]
	}
	if i := nm.Index(r.CoilN2); i != 0 && i < len(solution) {
		v2 = solution[i]
	}
	current := (v1 - v2) / r.CoilResistance
	if current < 0 {
		current = -current
	}
	if !r.Closed && current >= r.PullInThreshold {
		r.Closed = true
	} else if r.Closed && current < r.DropOutThreshold {
		r.Closed = false
	}
}

func (r *Relay) LoadState(nm *topology.NodeMap, solution []float64, ctx *Context) {}

func (r *Relay) Snapshot() any { return r.Closed }

func (r *Relay) Restore(snap any) { r.Closed = snap.(bool) }
