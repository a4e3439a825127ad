package simulation

import (
	"fmt"
	"math"

	"github.com/jfalvarez1/circuit-toy-sub001/internal/consts"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/device"
)

// voltageSource is satisfied by every ideal/Thevenin/AC/waveform source in
// pkg/device; the short-circuit pre-check only cares about devices that
// impose a voltage difference, not every branch-current device (an
// inductor's branch current is a solved unknown, not an imposed value).
type voltageSource interface {
	device.Device
	Voltage(t float64) float64
}

// checkShortCircuit is spec.md §4.8's pre-check: a voltage-defining device
// whose two terminals have collapsed to the same compact node (by a wire,
// or by sharing a node with another source) cannot have its imposed
// voltage honored unless that voltage happens to be exactly 0 -- the
// classic "voltage source shorted by a wire" mistake.
func (s *Simulation) checkShortCircuit() error {
	for _, d := range s.Circuit.Devices() {
		vs, ok := d.(voltageSource)
		if !ok {
			continue
		}
		ids := vs.NodeIDs()
		if len(ids) != 2 {
			continue
		}
		n1, n2 := s.Circuit.NodeMap().Index(ids[0]), s.Circuit.NodeMap().Index(ids[1])
		if n1 != n2 {
			continue
		}
		if math.Abs(vs.Voltage(s.time)) > 1e-12 {
			return newSimError(ErrShortCircuit, fmt.Sprintf("device %q: both terminals tied to the same node", d.ID()))
		}
	}
	return nil
}

// checkExcessiveCurrent is spec.md §4.8's post-check: a branch-current
// unknown (voltage source, inductor, op-amp) whose solved magnitude exceeds
// ShortCurrentThreshold almost always indicates a modeling mistake (a
// near-zero-impedance path) rather than a legitimate operating point, so it
// is surfaced as a warning-carrying error rather than silently accepted.
func (s *Simulation) checkExcessiveCurrent(x []float64) error {
	for _, d := range s.Circuit.Devices() {
		bd, ok := d.(device.BranchDevice)
		if !ok {
			continue
		}
		idx := bd.BranchIndex()
		if idx <= 0 || idx >= len(x) {
			continue
		}
		if math.Abs(x[idx]) > consts.ShortCurrentThreshold {
			return newSimError(ErrExcessiveCurrent, fmt.Sprintf("device %q: branch current %.3gA exceeds threshold", d.ID(), x[idx]))
		}
	}
	return nil
}
