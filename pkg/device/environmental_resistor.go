package device

import (
	"math"

	"github.com/jfalvarez1/circuit-toy-sub001/pkg/linalg"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/topology"
)

// EnvironmentKind selects whether an EnvironmentalResistor's value tracks
// ambient light (photoresistor) or temperature (thermistor) -- spec.md §3:
// "photoresistor / thermistor (linear but parameterized by environment)".
type EnvironmentKind int

const (
	Photoresistor EnvironmentKind = iota
	Thermistor
)

// EnvironmentalResistor is a plain conductance stamp whose resistance is
// recomputed from an externally driven environment signal (lux for a
// photoresistor, Kelvin for a thermistor) before each stamp, rather than
// held fixed like Resistor. The caller sets Signal (Simulation never does);
// the device is otherwise a linear resistor at the moment of stamping.
type EnvironmentalResistor struct {
	BaseDevice
	Env EnvironmentKind

	DarkOhms  float64 // resistance at Signal==0 (dark / cold)
	LightOhms float64 // resistance as Signal -> +inf (bright / hot)
	Sensitivity float64 // decay rate of the exponential response to Signal

	Signal float64 // lux or Kelvin, set by the caller before Stamp
}

func NewEnvironmentalResistor(name string, n1, n2 topology.NodeID, env EnvironmentKind, darkOhms, lightOhms, sensitivity float64) *EnvironmentalResistor {
	return &EnvironmentalResistor{
		BaseDevice:  BaseDevice{Name: name, Nodes: []topology.NodeID{n1, n2}},
		Env:         env,
		DarkOhms:    darkOhms,
		LightOhms:   lightOhms,
		Sensitivity: sensitivity,
	}
}

func (r *EnvironmentalResistor) Kind() string {
	if r.Env == Thermistor {
		return "THERMISTOR"
	}
	return "PHOTORESISTOR"
}

// resistance exponentially relaxes from DarkOhms toward LightOhms as Signal
// increases, the standard qualitative LDR/NTC response shape.
func (r *EnvironmentalResistor) resistance() float64 {
	decay := math.Exp(-r.Sensitivity * r.Signal)
	return r.LightOhms + (r.DarkOhms-r.LightOhms)*decay
}

func (r *EnvironmentalResistor) Stamp(m *linalg.Matrix, nm *topology.NodeMap, ctx *Context) error {
	n1, n2 := nm.Index(r.Nodes[0]), nm.Index(r.Nodes[1])
	stampConductance(m, n1, n2, 1.0/r.resistance())
	return nil
}
