// Package circuit owns the live netlist (nodes, wires, devices) and the
// matrix it stamps into. It is the Go counterpart of the teacher's
// toy-spice/pkg/circuit.Circuit, regeneralized from "parse a netlist text
// file once at startup" to "rebuild the topology whenever the caller's
// schematic edit makes it dirty" -- the schematic-capture model of spec.md
// §4.2 has no static text to parse, only an editor that adds/removes
// devices and wires at will.
package circuit

import (
	"fmt"

	"github.com/jfalvarez1/circuit-toy-sub001/pkg/device"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/linalg"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/topology"
)

// Circuit is the mutable netlist plus the derived, rebuildable topology and
// matrix that stamping needs. Callers mutate it with AddDevice/AddWire/
// AddGround/RemoveDevice and must call Rebuild before the next Stamp once
// any of those have been called -- Stamp itself checks a dirty flag and
// panics rather than silently stamping into a stale NumMatrixNodes-sized
// matrix, the same "fail loud on a caller ordering bug" stance the teacher
// takes around CreateMatrix/SetupDevices sequencing.
type Circuit struct {
	devices  []device.Device
	wires    []topology.Wire
	grounds  []topology.NodeID
	allNodes map[topology.NodeID]bool

	nm     *topology.NodeMap
	matrix *linalg.Matrix
	dirty  bool
}

func New() *Circuit {
	return &Circuit{allNodes: make(map[topology.NodeID]bool), dirty: true}
}

func (c *Circuit) AddDevice(d device.Device) {
	c.devices = append(c.devices, d)
	for _, id := range d.NodeIDs() {
		c.allNodes[id] = true
	}
	if g, ok := d.(*device.Ground); ok {
		c.grounds = append(c.grounds, g.Nodes[0])
	}
	c.dirty = true
}

func (c *Circuit) RemoveDevice(d device.Device) {
	for i, dev := range c.devices {
		if dev == d {
			c.devices = append(c.devices[:i], c.devices[i+1:]...)
			c.dirty = true
			return
		}
	}
}

func (c *Circuit) AddWire(a, b topology.NodeID) {
	c.wires = append(c.wires, topology.Wire{A: a, B: b})
	c.allNodes[a] = true
	c.allNodes[b] = true
	c.dirty = true
}

func (c *Circuit) AddGround(id topology.NodeID) {
	c.grounds = append(c.grounds, id)
	c.allNodes[id] = true
	c.dirty = true
}

func (c *Circuit) Devices() []device.Device { return c.devices }
func (c *Circuit) NodeMap() *topology.NodeMap { return c.nm }
func (c *Circuit) Matrix() *linalg.Matrix     { return c.matrix }
func (c *Circuit) Dirty() bool                { return c.dirty }

// NoGround reports whether the circuit has no ground reference at all,
// spec.md §4.8's first diagnostic precondition.
func (c *Circuit) NoGround() bool { return len(c.grounds) == 0 }

// Rebuild recomputes the node map (union-find over wires) and allocates a
// fresh matrix sized for the current node/branch-unknown count, assigning
// each BranchDevice its branch row/column index. Must run after any
// topology mutation and before the next Stamp.
func (c *Circuit) Rebuild() {
	allIDs := make([]topology.NodeID, 0, len(c.allNodes))
	for id := range c.allNodes {
		allIDs = append(allIDs, id)
	}
	c.nm = topology.BuildNodeMap(allIDs, c.wires, c.grounds)

	branchCount := 0
	for _, d := range c.devices {
		if !d.NeedsBranchUnknown() {
			continue
		}
		bd, ok := d.(device.BranchDevice)
		if !ok {
			continue
		}
		branchCount++
		bd.SetBranchIndex(c.nm.NumMatrixNodes + branchCount)
	}

	size := c.nm.NumMatrixNodes + branchCount
	c.matrix = linalg.NewMatrix(size)
	c.dirty = false
}

// Size returns the live matrix dimension (0 before the first Rebuild).
func (c *Circuit) Size() int {
	if c.matrix == nil {
		return 0
	}
	return c.matrix.Size
}

// Stamp clears the matrix and re-stamps every device under ctx, then adds
// the GMIN diagonal stabilizer (spec.md §4.3). Devices implementing
// NonLinear must already have had UpdateVoltages called by the Newton loop
// before this runs; Stamp itself never touches XPrev.
func (c *Circuit) Stamp(ctx *device.Context) error {
	if c.dirty {
		panic("circuit: Stamp called on a dirty topology; call Rebuild first")
	}
	c.matrix.Clear()
	for _, d := range c.devices {
		if err := d.Stamp(c.matrix, c.nm, ctx); err != nil {
			return fmt.Errorf("stamping device %q: %w", d.ID(), err)
		}
	}
	c.matrix.AddDiagonalGmin(ctx.Gmin)
	return nil
}

// LoadState primes every TimeDependent device's "previous" fields ahead of
// a new time step (spec.md §4.4).
func (c *Circuit) LoadState(solution []float64, ctx *device.Context) {
	for _, d := range c.devices {
		if td, ok := d.(device.TimeDependent); ok {
			td.LoadState(c.nm, solution, ctx)
		}
	}
}

// UpdateState commits every TimeDependent device's state from an accepted
// solution. Must only be called once a trial step is accepted, never on a
// step that is about to be retried at a smaller Δt.
func (c *Circuit) UpdateState(solution []float64, ctx *device.Context) {
	for _, d := range c.devices {
		if td, ok := d.(device.TimeDependent); ok {
			td.UpdateState(c.nm, solution, ctx)
		}
	}
}

// UpdateVoltages calls UpdateVoltages on every NonLinear device ahead of the
// next Newton iteration's Stamp, passing the same temp the subsequent Stamp
// call will see via ctx.Temp so a junction-voltage clamp and its exponential
// never desync.
func (c *Circuit) UpdateVoltages(solution []float64, temp float64) error {
	for _, d := range c.devices {
		if nl, ok := d.(device.NonLinear); ok {
			if err := nl.UpdateVoltages(c.nm, solution, temp); err != nil {
				return fmt.Errorf("updating nonlinear device %q: %w", d.ID(), err)
			}
		}
	}
	return nil
}

// SnapshotState captures every Snapshotter device's current state, for the
// adaptive stepper to roll back to after a rejected trial step.
func (c *Circuit) SnapshotState() map[device.Device]any {
	snap := make(map[device.Device]any)
	for _, d := range c.devices {
		if sn, ok := d.(device.Snapshotter); ok {
			snap[d] = sn.Snapshot()
		}
	}
	return snap
}

// RestoreState restores every Snapshotter device from a SnapshotState
// result.
func (c *Circuit) RestoreState(snap map[device.Device]any) {
	for _, d := range c.devices {
		if sn, ok := d.(device.Snapshotter); ok {
			if v, ok := snap[d]; ok {
				sn.Restore(v)
			}
		}
	}
}

// Reset clears every Resettable device's dynamic state (spec.md §8 property
// 4: Reset followed by DCAnalysis must reproduce the original DC solution).
func (c *Circuit) Reset() {
	for _, d := range c.devices {
		if r, ok := d.(device.Resettable); ok {
			r.ResetState()
		}
	}
}

// Solution bundles a solved vector with the NodeMap needed to interpret it,
// so callers don't have to keep the two in sync by hand.
type Solution struct {
	X  []float64
	NM *topology.NodeMap
}

// VoltageAt returns the solved voltage at id, 0 for ground or an unknown id.
func (s *Solution) VoltageAt(id topology.NodeID) float64 {
	i := s.NM.Index(id)
	if i <= 0 || i >= len(s.X) {
		return 0
	}
	return s.X[i]
}
