package device

import (
	"math"

	"github.com/jfalvarez1/circuit-toy-sub001/pkg/linalg"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/topology"
)

// stampVoltageSource writes the MNA branch equation for a (possibly
// Thevenin) voltage source: v(n1) - v(n2) - i*seriesR = voltage. With
// seriesR==0 this is the ideal voltage-source stamp from spec.md §4.3;
// seriesR>0 folds the Thevenin series resistance into the same branch row
// instead of allocating a synthetic internal node, since node ids are
// opaque values minted by the external editor (spec.md §4.2) and the core
// has no authority to mint its own.
func stampVoltageSource(m *linalg.Matrix, n1, n2, bIdx int, voltage, seriesR float64) {
	if n1 != 0 {
		m.AddAt(bIdx, n1, 1)
		m.AddAt(n1, bIdx, 1)
	}
	if n2 != 0 {
		m.AddAt(bIdx, n2, -1)
		m.AddAt(n2, bIdx, -1)
	}
	if seriesR != 0 {
		m.AddAt(bIdx, bIdx, -seriesR)
	}
	m.AddRHS(bIdx, voltage)
}

// DCSource is an ideal or Thevenin DC voltage source. SeriesR==0 is ideal.
type DCSource struct {
	BranchBaseDevice
	Value   float64
	SeriesR float64
}

func NewDCSource(name string, pos, neg topology.NodeID, value float64) *DCSource {
	return &DCSource{BranchBaseDevice: BranchBaseDevice{BaseDevice: BaseDevice{Name: name, Nodes: []topology.NodeID{pos, neg}}}, Value: value}
}

func NewTheveninSource(name string, pos, neg topology.NodeID, value, seriesR float64) *DCSource {
	s := NewDCSource(name, pos, neg, value)
	s.SeriesR = seriesR
	return s
}

func (s *DCSource) Kind() string             { return "V" }
func (s *DCSource) Voltage(t float64) float64 { return s.Value }

func (s *DCSource) Stamp(m *linalg.Matrix, nm *topology.NodeMap, ctx *Context) error {
	n1, n2 := nm.Index(s.Nodes[0]), nm.Index(s.Nodes[1])
	stampVoltageSource(m, n1, n2, s.BranchIndex(), s.Voltage(ctx.Time), s.SeriesR)
	return nil
}

// ACSource is a sinusoidal voltage source, per spec.md §6's waveform table.
type ACSource struct {
	BranchBaseDevice
	Offset    float64
	Amplitude float64
	FreqHz    float64
	PhaseDeg  float64
	SeriesR   float64
}

func NewACSource(name string, pos, neg topology.NodeID, offset, amplitude, freqHz, phaseDeg float64) *ACSource {
	return &ACSource{BranchBaseDevice: BranchBaseDevice{BaseDevice: BaseDevice{Name: name, Nodes: []topology.NodeID{pos, neg}}},
		Offset: offset, Amplitude: amplitude, FreqHz: freqHz, PhaseDeg: phaseDeg}
}

func (s *ACSource) Kind() string { return "V_AC" }

func (s *ACSource) Voltage(t float64) float64 {
	return s.Offset + s.Amplitude*math.Sin(2*math.Pi*s.FreqHz*t+s.PhaseDeg*math.Pi/180.0)
}

func (s *ACSource) Stamp(m *linalg.Matrix, nm *topology.NodeMap, ctx *Context) error {
	n1, n2 := nm.Index(s.Nodes[0]), nm.Index(s.Nodes[1])
	stampVoltageSource(m, n1, n2, s.BranchIndex(), s.Voltage(ctx.Time), s.SeriesR)
	return nil
}

// WaveformKind selects the non-sinusoidal periodic waveform formulas of
// spec.md §6.
type WaveformKind int

const (
	Square WaveformKind = iota
	Triangle
	Sawtooth
	Pulse
	PWM
	Clock
)

// WaveformSource covers square/triangle/sawtooth/PWM/pulse/clock generators
// with a single device kind parameterized by WaveformKind, per spec.md §3's
// device-taxonomy line.
type WaveformSource struct {
	BranchBaseDevice
	K         WaveformKind
	Offset    float64
	Amplitude float64
	FreqHz    float64
	PhaseDeg  float64
	Duty      float64 // square/PWM/clock duty cycle, fraction in (0,1)
	SeriesR   float64
}

func NewWaveformSource(name string, pos, neg topology.NodeID, k WaveformKind, offset, amplitude, freqHz, phaseDeg, duty float64) *WaveformSource {
	if duty <= 0 {
		duty = 0.5
	}
	return &WaveformSource{
		BranchBaseDevice: BranchBaseDevice{BaseDevice: BaseDevice{Name: name, Nodes: []topology.NodeID{pos, neg}}},
		K:                k, Offset: offset, Amplitude: amplitude, FreqHz: freqHz, PhaseDeg: phaseDeg, Duty: duty,
	}
}

func (s *WaveformSource) Kind() string { return "V_WAVE" }

// phaseFraction returns τ = frac(f·t + φ/360), the normalized cycle
// position used by every non-sinusoidal formula in spec.md §6.
func phaseFraction(freqHz, phaseDeg, t float64) float64 {
	tau := freqHz*t + phaseDeg/360.0
	tau -= math.Floor(tau)
	return tau
}

func (s *WaveformSource) Voltage(t float64) float64 {
	tau := phaseFraction(s.FreqHz, s.PhaseDeg, t)
	switch s.K {
	case Square, Clock:
		if tau < s.Duty {
			return s.Offset + s.Amplitude
		}
		return s.Offset - s.Amplitude
	case Triangle:
		if tau < 0.5 {
			return s.Offset + s.Amplitude*(4*tau-1)
		}
		return s.Offset + s.Amplitude*(3-4*tau)
	case Sawtooth:
		return s.Offset + s.Amplitude*(2*tau-1)
	case PWM:
		if tau < s.Duty {
			return s.Offset + s.Amplitude
		}
		return s.Offset
	case Pulse:
		if tau < s.Duty {
			return s.Offset + s.Amplitude
		}
		return s.Offset
	default:
		return s.Offset
	}
}

func (s *WaveformSource) Stamp(m *linalg.Matrix, nm *topology.NodeMap, ctx *Context) error {
	n1, n2 := nm.Index(s.Nodes[0]), nm.Index(s.Nodes[1])
	stampVoltageSource(m, n1, n2, s.BranchIndex(), s.Voltage(ctx.Time), s.SeriesR)
	return nil
}

// NoiseSource injects a pseudo-random voltage that is, per spec.md §6 and
// the Open Question recorded in DESIGN.md, deterministic in t rather than
// seeded: V0 + A*(sin(12345.68 t)+sin(9876.54 t+1.234)+sin(5678.12 t+2.345))/3.
type NoiseSource struct {
	BranchBaseDevice
	Offset    float64
	Amplitude float64
	SeriesR   float64
}

func NewNoiseSource(name string, pos, neg topology.NodeID, offset, amplitude float64) *NoiseSource {
	return &NoiseSource{BranchBaseDevice: BranchBaseDevice{BaseDevice: BaseDevice{Name: name, Nodes: []topology.NodeID{pos, neg}}},
		Offset: offset, Amplitude: amplitude}
}

func (s *NoiseSource) Kind() string { return "V_NOISE" }

func (s *NoiseSource) Voltage(t float64) float64 {
	sum := math.Sin(12345.68*t) + math.Sin(9876.54*t+1.234) + math.Sin(5678.12*t+2.345)
	return s.Offset + s.Amplitude*sum/3.0
}

func (s *NoiseSource) Stamp(m *linalg.Matrix, nm *topology.NodeMap, ctx *Context) error {
	n1, n2 := nm.Index(s.Nodes[0]), nm.Index(s.Nodes[1])
	stampVoltageSource(m, n1, n2, s.BranchIndex(), s.Voltage(ctx.Time), s.SeriesR)
	return nil
}

// CurrentSource is a DC or AC-formula current source (spec.md §4.3's
// current-source stamp: current flows into n1 and out of n2).
type CurrentSource struct {
	BaseDevice
	DC        bool
	Value     float64 // DC amps
	Offset    float64
	Amplitude float64
	FreqHz    float64
	PhaseDeg  float64
}

func NewDCCurrentSource(name string, n1, n2 topology.NodeID, value float64) *CurrentSource {
	return &CurrentSource{BaseDevice: BaseDevice{Name: name, Nodes: []topology.NodeID{n1, n2}}, DC: true, Value: value}
}

func NewACCurrentSource(name string, n1, n2 topology.NodeID, offset, amplitude, freqHz, phaseDeg float64) *CurrentSource {
	return &CurrentSource{BaseDevice: BaseDevice{Name: name, Nodes: []topology.NodeID{n1, n2}},
		Offset: offset, Amplitude: amplitude, FreqHz: freqHz, PhaseDeg: phaseDeg}
}

func (s *CurrentSource) Kind() string { return "I" }

func (s *CurrentSource) Current(t float64) float64 {
	if s.DC {
		return s.Value
	}
	return s.Offset + s.Amplitude*math.Sin(2*math.Pi*s.FreqHz*t+s.PhaseDeg*math.Pi/180.0)
}

func (s *CurrentSource) Stamp(m *linalg.Matrix, nm *topology.NodeMap, ctx *Context) error {
	n1, n2 := nm.Index(s.Nodes[0]), nm.Index(s.Nodes[1])
	i := s.Current(ctx.Time)
	if n1 != 0 {
		m.AddRHS(n1, -i)
	}
	if n2 != 0 {
		m.AddRHS(n2, i)
	}
	return nil
}

// Ground ties its node to zero. Circuit.AddDevice registers that node as a
// ground reference, which topology.BuildNodeMap collapses into matrix
// index 0, so Stamp itself is a no-op by construction; the registered node
// also counts as a ground for the NoGround diagnostic (spec.md §4.4 step 1).
type Ground struct {
	BaseDevice
}

func NewGround(name string, node topology.NodeID) *Ground {
	return &Ground{BaseDevice: BaseDevice{Name: name, Nodes: []topology.NodeID{node}}}
}

func (g *Ground) Kind() string { return "GND" }

func (g *Ground) Stamp(m *linalg.Matrix, nm *topology.NodeMap, ctx *Context) error {
	return nil
}
