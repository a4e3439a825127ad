// Package simulation drives the circuit package through DC operating-point
// analysis and adaptive-step transient analysis, running the Newton-Raphson
// loop each step and retaining results in a bounded history. It is the Go
// counterpart of the teacher's toy-spice/pkg/analysis package
// (OperatingPoint/Transient's doNRiter convergence loop), rebuilt around
// spec.md §4.5's adaptive Δt controller in place of the teacher's fixed-step
// gmin-stepping ladder -- gmin stepping is kept as the DC convergence
// fallback (see DCAnalysis), since spec.md is silent on how to recover a
// non-converging operating point and the teacher's approach is a reasonable
// default to inherit.
package simulation

import (
	"math"

	"github.com/jfalvarez1/circuit-toy-sub001/internal/consts"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/circuit"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/device"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/history"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/linalg"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/topology"
)

// Simulation is the stateful driver around a Circuit: current time, current
// Δt, adaptive-stepping configuration, and per-node history.
type Simulation struct {
	Circuit *circuit.Circuit

	Temp float64
	Gmin float64

	time     float64
	dt       float64 // Δt_actual: the adaptively-varying current step size
	dtTarget float64 // Δt_target: the fixed nominal step size configured by SetTimeStep
	adaptive bool

	history map[topology.NodeID]*history.Ring
	probes  []topology.NodeID
	bridges []*DigitalBridge

	lastSolution *circuit.Solution

	// warning holds the last non-fatal diagnostic (e.g. Newton non-
	// convergence) as a single line of text, per spec.md §6/§7's
	// get_error() contract. Cleared whenever a step converges cleanly.
	warning string
}

// GetError returns the last non-fatal diagnostic as a single line of text,
// or "" if nothing is outstanding (spec.md §6/§7's get_error() accessor).
func (s *Simulation) GetError() string { return s.warning }

func (s *Simulation) setWarning(msg string) { s.warning = msg }

func (s *Simulation) clearWarning() { s.warning = "" }

func New(c *circuit.Circuit) *Simulation {
	return &Simulation{
		Circuit:  c,
		Temp:     consts.NominalTemp,
		Gmin:     consts.Gmin,
		dt:       consts.DefaultDt,
		dtTarget: consts.DefaultDt,
		adaptive: true,
		history:  make(map[topology.NodeID]*history.Ring),
	}
}

// Reset rewinds simulated time, clears every device's dynamic state, and
// discards retained history, matching spec.md §8 property 4 ("Reset then
// DCAnalysis reproduces the original DC result").
func (s *Simulation) Reset() {
	s.time = 0
	s.dt = s.dtTarget
	s.Circuit.Reset()
	for _, r := range s.history {
		r.Reset()
	}
	for _, b := range s.bridges {
		for _, in := range b.Inputs {
			in.prevHigh = false
		}
	}
	s.lastSolution = nil
	s.warning = ""
}

func (s *Simulation) SetTimeStep(dt float64) { s.dt, s.dtTarget = dt, dt }
func (s *Simulation) SetAdaptive(on bool)     { s.adaptive = on }
func (s *Simulation) Time() float64           { return s.time }
func (s *Simulation) TimeStep() float64       { return s.dt }

// ProbeVoltage registers a node for history retention, returning the Ring a
// caller can read incrementally (e.g. to drive a live waveform plot).
func (s *Simulation) ProbeVoltage(id topology.NodeID) *history.Ring {
	r, ok := s.history[id]
	if !ok {
		r = history.NewRing(consts.MaxHistory)
		s.history[id] = r
		s.probes = append(s.probes, id)
	}
	return r
}

// NodeVoltage returns the last solved voltage at id, 0 if nothing has been
// solved yet.
func (s *Simulation) NodeVoltage(id topology.NodeID) float64 {
	if s.lastSolution == nil {
		return 0
	}
	return s.lastSolution.VoltageAt(id)
}

// GetHistory returns the retained samples for a probed node, nil if it was
// never probed.
func (s *Simulation) GetHistory(id topology.NodeID) []history.Sample {
	r, ok := s.history[id]
	if !ok {
		return nil
	}
	return r.Samples()
}

// recordHistory appends the last committed solution to every probed node's
// ring, using dt (the step size that produced it) to recompute the ring's
// decimation stride per spec.md §4.6.
func (s *Simulation) recordHistory(dt float64) {
	for _, id := range s.probes {
		s.history[id].Append(s.time, s.lastSolution.VoltageAt(id), dt)
	}
}

// newton runs the Newton-Raphson loop to convergence or MaxNewtonIters,
// returning the solved vector. Convergence is the max absolute change in
// the solution vector between iterates falling below NewtonTol, matching
// the teacher's doNRiter/CheckConvergence criterion (toy-spice/pkg/analysis
// /anlysis.go).
//
// err is reserved for genuine solve failures (a bad stamp, a singular
// system): exhausting MaxNewtonIters without converging is not one of
// those. Per spec.md §7, non-convergence is non-fatal -- the last iterate
// is returned with converged=false so the caller can keep it and attach a
// warning rather than discard the step.
func (s *Simulation) newton(ctx *device.Context) (x []float64, iters int, converged bool, err error) {
	size := s.Circuit.Size()
	x = make([]float64, size+1)
	copy(x, ctx.XPrev)

	for iter := 0; iter < consts.MaxNewtonIters; iter++ {
		if err := s.Circuit.UpdateVoltages(x, ctx.Temp); err != nil {
			return nil, iter, false, err
		}
		if err := s.Circuit.Stamp(ctx); err != nil {
			return nil, iter, false, err
		}
		next, err := linalg.Solve(s.Circuit.Matrix())
		if err != nil {
			return nil, iter, false, wrapSimError(ErrSingularSystem, "linear solve failed", err)
		}

		maxDelta := 0.0
		for i := 1; i < len(next) && i < len(x); i++ {
			d := math.Abs(next[i] - x[i])
			if d > maxDelta {
				maxDelta = d
			}
		}
		x = next
		ctx.XPrev = x
		if maxDelta < consts.NewtonTol {
			return x, iter + 1, true, nil
		}
	}
	return x, consts.MaxNewtonIters, false, nil
}

// DCAnalysis computes the operating point: a single Newton solve at
// ModeDC (capacitors open, inductors shorted via a pseudo-infinite Δt). If
// the plain Newton loop fails to converge, it falls back to gmin stepping
// -- starting from a large artificial Gmin that forces convergence and
// geometrically relaxing it back toward the configured Gmin, re-solving
// from the previous step's solution each time -- the same recovery strategy
// toy-spice/pkg/analysis/op.go's Execute uses before giving up. Per spec.md
// §7, Newton non-convergence is non-fatal even if the gmin-stepping
// recovery itself cannot fully relax back to the configured Gmin: the best
// iterate found is kept and GetError() reports the warning, rather than
// DCAnalysis returning a nil solution.
func (s *Simulation) DCAnalysis() (*circuit.Solution, error) {
	if s.Circuit.NoGround() {
		return nil, newSimError(ErrNoGround, "circuit has no ground reference")
	}
	if s.Circuit.Dirty() {
		s.Circuit.Rebuild()
	}
	if err := s.checkShortCircuit(); err != nil {
		return nil, err
	}

	ctx := &device.Context{Mode: device.ModeDC, TimeStep: consts.DcTimeStep, Temp: s.Temp, Gmin: s.Gmin, XPrev: make([]float64, s.Circuit.Size()+1)}

	x, _, converged, err := s.newton(ctx)
	if err != nil {
		return nil, err
	}
	if converged {
		s.clearWarning()
		return s.acceptDC(x)
	}

	gmin := s.Gmin
	recovered := false
	for attempt := 0; attempt < consts.MaxRetries; attempt++ {
		gmin *= 1000
		ctx.Gmin = gmin
		ctx.XPrev = make([]float64, s.Circuit.Size()+1)
		var cx bool
		x, _, cx, err = s.newton(ctx)
		if err != nil {
			return nil, err
		}
		if cx {
			recovered = true
			break
		}
	}
	if !recovered {
		s.setWarning("operating point did not converge; keeping the best Newton iterate found")
		return s.acceptDC(x)
	}

	// Relax Gmin back toward its configured value, re-converging from the
	// previous (looser) solution at each step. If relaxation stalls partway,
	// keep the best iterate found at the loosest Gmin that still converged
	// rather than discarding it.
	stalled := false
	for gmin > s.Gmin {
		gmin /= 10
		if gmin < s.Gmin {
			gmin = s.Gmin
		}
		ctx.Gmin = gmin
		ctx.XPrev = x
		next, _, cx, err := s.newton(ctx)
		if err != nil {
			return nil, err
		}
		if !cx {
			stalled = true
			s.setWarning("gmin-stepping recovery could not fully relax to the configured Gmin; keeping the last converged iterate")
			break
		}
		x = next
	}
	if !stalled {
		s.clearWarning()
	}
	return s.acceptDC(x)
}

func (s *Simulation) acceptDC(x []float64) (*circuit.Solution, error) {
	s.lastSolution = &circuit.Solution{X: x, NM: s.Circuit.NodeMap()}
	ctx := &device.Context{Mode: device.ModeDC, TimeStep: consts.DcTimeStep, Temp: s.Temp, Gmin: s.Gmin}
	s.Circuit.LoadState(x, ctx)
	s.Circuit.UpdateState(x, ctx)
	if err := s.checkExcessiveCurrent(x); err != nil {
		return s.lastSolution, err
	}
	s.recordHistory(consts.DcTimeStep)
	return s.lastSolution, nil
}
