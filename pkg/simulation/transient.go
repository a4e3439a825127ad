package simulation

import (
	"fmt"
	"math"

	"github.com/jfalvarez1/circuit-toy-sub001/internal/consts"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/circuit"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/device"
)

// trialStep runs one backward-Euler Newton solve of length dt from the
// circuit's current committed state, without committing the result. The
// caller decides whether to call commitStep or leave device state
// untouched (the trial's Newton iterates never mutate committed device
// fields -- only UpdateState does that). converged is false when the loop
// exhausted MaxNewtonIters; per spec.md §7 that is not itself an error, so
// err is reserved for genuine stamp/solve failures.
func (s *Simulation) trialStep(dt float64) (x []float64, converged bool, err error) {
	ctx := &device.Context{
		Time: s.time + dt, TimeStep: dt, Mode: device.ModeTransient,
		Temp: s.Temp, Gmin: s.Gmin, XPrev: make([]float64, s.Circuit.Size()+1),
	}
	if s.lastSolution != nil {
		copy(ctx.XPrev, s.lastSolution.X)
	}
	x, _, converged, err = s.newton(ctx)
	return x, converged, err
}

// commitStep advances simulated time and commits the given solution into
// every TimeDependent device's companion-model state.
func (s *Simulation) commitStep(x []float64, dt float64) {
	s.time += dt
	ctx := &device.Context{Time: s.time, TimeStep: dt, Mode: device.ModeTransient, Temp: s.Temp, Gmin: s.Gmin}
	s.Circuit.LoadState(x, ctx)
	s.Circuit.UpdateState(x, ctx)
	s.lastSolution = &circuit.Solution{X: x, NM: s.Circuit.NodeMap()}
	s.recordHistory(dt)
}

// Step advances one fixed-Δt transient step without adaptive control, for
// callers that called SetAdaptive(false). Newton non-convergence does not
// abort the step (spec.md §7): the last iterate is committed and a warning
// is attached, since "the caller may still advance time."
func (s *Simulation) Step(dt float64) error {
	if s.Circuit.Dirty() {
		s.Circuit.Rebuild()
	}
	x, converged, err := s.trialStep(dt)
	if err != nil {
		return err
	}
	if converged {
		s.clearWarning()
	} else {
		s.setWarning(newtonWarning(s.time + dt))
	}
	s.commitStep(x, dt)
	if err := s.checkExcessiveCurrent(x); err != nil {
		return err
	}
	s.runMixedSignal()
	return nil
}

// AutoTimeStep advances exactly one adaptive transient step per spec.md
// §4.5's literal algorithm:
//
//  1. Snapshot device state.
//  2. Trial-solve at the current Δt. A stamp/solve failure shrinks Δt by
//     MIN_FACTOR, clamped to MIN_DT, and retries (up to MAX_RETRIES) --
//     Newton non-convergence within the trial is not itself a failure here.
//  3. Estimate relative error e against the previous accepted solution
//     x_prev.
//  4. e > ERR_TOL: reject, restore state, shrink Δt by
//     max(SAFETY·sqrt(ERR_TOL/e), MIN_FACTOR), retry.
//     Otherwise: accept, commit, and grow Δt for next time (capped at
//     MAX_FACTOR, or the full MAX_FACTOR when e < STEADY_TOL), clamped to
//     [MIN_DT, MAX_DT] and to 2·MAX_FACTOR·Δt_target.
func (s *Simulation) AutoTimeStep() error {
	if s.Circuit.Dirty() {
		s.Circuit.Rebuild()
	}
	if !s.adaptive {
		return s.Step(s.dt)
	}

	dt := clampDt(s.dt)

	for attempt := 0; attempt < consts.MaxRetries; attempt++ {
		snap := s.Circuit.SnapshotState()

		xPrev := s.prevSolutionVector()
		xTrial, converged, err := s.trialStep(dt)
		if err != nil {
			s.Circuit.RestoreState(snap)
			dt = clampDt(dt * consts.MinFactor)
			continue
		}

		e := relativeError(xTrial, xPrev)
		if e > consts.ErrTol {
			s.Circuit.RestoreState(snap)
			factor := consts.SafetyFactor * math.Sqrt(consts.ErrTol/e)
			if factor < consts.MinFactor {
				factor = consts.MinFactor
			}
			dt = clampDt(dt * factor)
			continue
		}

		if converged {
			s.clearWarning()
		} else {
			s.setWarning(newtonWarning(s.time + dt))
		}
		s.commitStep(xTrial, dt)
		if err := s.checkExcessiveCurrent(xTrial); err != nil {
			return err
		}
		s.runMixedSignal()
		s.dt = growDt(dt, e, s.dtTarget)
		return nil
	}
	return newSimError(ErrNonConvergence, "adaptive stepper exhausted retries without an accepted step")
}

// prevSolutionVector returns the last accepted solution padded/truncated to
// the circuit's current size, the x_prev spec.md §4.5 step 3 compares a
// trial solve against.
func (s *Simulation) prevSolutionVector() []float64 {
	size := s.Circuit.Size() + 1
	x := make([]float64, size)
	if s.lastSolution != nil {
		copy(x, s.lastSolution.X)
	}
	return x
}

// relativeError implements spec.md §4.5 step 3: the largest relative
// difference between the trial solution and the previous accepted one.
func relativeError(trial, prev []float64) float64 {
	maxRel := 0.0
	for i := 1; i < len(trial) && i < len(prev); i++ {
		diff := math.Abs(trial[i] - prev[i])
		denom := math.Max(math.Abs(trial[i]), math.Max(math.Abs(prev[i]), 1e-6))
		rel := diff / denom
		if rel > maxRel {
			maxRel = rel
		}
	}
	return maxRel
}

// growDt implements spec.md §4.5 step 4's accept-path Δt update: grown by
// SAFETY·sqrt(ERR_TOL/e) capped at MAX_FACTOR when e < ERR_TOL/2, or by the
// full MAX_FACTOR when e < STEADY_TOL, then clamped to [MIN_DT, MAX_DT] and
// to 2·MAX_FACTOR·dtTarget.
func growDt(dt, e, dtTarget float64) float64 {
	next := dt
	switch {
	case e < consts.SteadyTol:
		next = dt * consts.MaxFactor
	case e < consts.ErrTol/2:
		factor := consts.MaxFactor
		if e > 1e-15 {
			factor = consts.SafetyFactor * math.Sqrt(consts.ErrTol/e)
			if factor > consts.MaxFactor {
				factor = consts.MaxFactor
			}
		}
		next = dt * factor
	}
	if cap := 2 * consts.MaxFactor * dtTarget; next > cap {
		next = cap
	}
	return clampDt(next)
}

func clampDt(dt float64) float64 {
	if dt < consts.MinDt {
		return consts.MinDt
	}
	if dt > consts.MaxDt {
		return consts.MaxDt
	}
	return dt
}

func newtonWarning(t float64) string {
	return fmt.Sprintf("Newton loop did not converge within %d iterations at t=%.6g; using last iterate", consts.MaxNewtonIters, t)
}
