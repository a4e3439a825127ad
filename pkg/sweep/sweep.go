// Package sweep runs a parameter (e.g. a DC source value) across a range of
// settings, re-solving the operating point at each step and reporting
// progress cooperatively so a caller can cancel a long sweep. Grounded on
// toy-spice/pkg/analysis/dc.go's DCSweep (single and nested sweep loops),
// regeneralized from "vary a named netlist source" to "call a caller-
// supplied setter closure", since this package has no netlist names to look
// up -- the schematic-capture model only has device references.
package sweep

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/jfalvarez1/circuit-toy-sub001/pkg/circuit"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/simulation"
)

// Point is one sweep step's independent variable and resulting DC solution.
type Point struct {
	Value    float64
	Solution *circuit.Solution
	Err      error
}

// Range describes a linear sweep from Start to Stop (inclusive) in Step
// increments; Step's sign must agree with the direction from Start to Stop.
type Range struct {
	Start, Stop, Step float64
}

// Count returns the number of points this range visits.
func (r Range) Count() int {
	if r.Step == 0 {
		return 0
	}
	n := int((r.Stop-r.Start)/r.Step) + 1
	if n < 0 {
		return 0
	}
	return n
}

// Run sweeps set(value) across r, calling sim.DCAnalysis() at each point and
// appending the result to the returned slice. progress, if non-nil, is
// updated with the number of points completed so far -- a caller can poll
// it from another goroutine for a progress bar. The sweep stops early,
// returning the points gathered so far, if ctx is canceled between points.
func Run(ctx context.Context, sim *simulation.Simulation, r Range, progress *atomic.Int64, set func(value float64)) ([]Point, error) {
	n := r.Count()
	if n <= 0 {
		return nil, fmt.Errorf("sweep: empty range %+v", r)
	}
	points := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return points, ctx.Err()
		default:
		}

		value := r.Start + float64(i)*r.Step
		set(value)
		sol, err := sim.DCAnalysis()
		points = append(points, Point{Value: value, Solution: sol, Err: err})
		if progress != nil {
			progress.Add(1)
		}
	}
	return points, nil
}

// Nested sweeps an inner Range for every point of an outer Range, the
// nested-sweep shape toy-spice/pkg/analysis/dc.go's DCSweep supports for
// two-source sweeps (e.g. output-characteristic curve families).
func Nested(ctx context.Context, sim *simulation.Simulation, outer, inner Range, progress *atomic.Int64, setOuter, setInner func(value float64)) (map[float64][]Point, error) {
	outerN := outer.Count()
	if outerN <= 0 {
		return nil, fmt.Errorf("sweep: empty outer range %+v", outer)
	}
	results := make(map[float64][]Point, outerN)
	for i := 0; i < outerN; i++ {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}
		outerValue := outer.Start + float64(i)*outer.Step
		setOuter(outerValue)
		pts, err := Run(ctx, sim, inner, progress, setInner)
		results[outerValue] = pts
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
