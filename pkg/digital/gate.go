// Package digital implements the combinational and sequential logic
// elements of spec.md §4.7's mixed-signal phase: three-valued gates,
// flip-flops, a multiplexer/decoder, adders, a BCD-to-seven-segment
// decoder, and a logic indicator. Every element consumes and produces
// logicfamily.Level rather than plain bool, so an Unknown input propagates
// the way a floating or metastable net should, instead of silently
// defaulting to false.
//
// Grounded on the Gate interface shape of
// other_examples/432f01b1_xDarkicex-logic__classical-gates.go.go
// (Evaluate(inputs...)/String()), generalized from bool to Level.
package digital

import "github.com/jfalvarez1/circuit-toy-sub001/pkg/logicfamily"

type Level = logicfamily.Level

const (
	Low     = logicfamily.Low
	High    = logicfamily.High
	Unknown = logicfamily.Unknown
)

// Gate evaluates a combinational function of Level inputs.
type Gate interface {
	Evaluate(inputs ...Level) Level
	String() string
}

// Propagator is the uniform contract the mixed-signal phase of spec.md
// §4.7 drives each accepted analog step: sample inputs as Levels in, read
// outputs as Levels back. Combinational gates and sequential elements both
// satisfy it (a gate's "state" is stateless, a flip-flop's Step mutates its
// stored Q/QN first).
type Propagator interface {
	Propagate(inputs []Level) []Level
}

// GateAdapter lifts any combinational Gate to a single-output Propagator,
// since Gate.Evaluate already has exactly the signature a Propagator needs
// modulo the []Level/...Level and single/slice-of-one-output wrapping.
type GateAdapter struct{ Gate Gate }

func (a GateAdapter) Propagate(inputs []Level) []Level {
	return []Level{a.Gate.Evaluate(inputs...)}
}

// anyUnknown reports whether any input is Unknown. It does not apply
// dominant-input forcing (e.g. a Low input into AND); each gate's Evaluate
// checks its dominant input itself.
func anyUnknown(inputs []Level) bool {
	for _, in := range inputs {
		if in == Unknown {
			return true
		}
	}
	return false
}

type AndGate struct{}

func (AndGate) Evaluate(inputs ...Level) Level {
	for _, in := range inputs {
		if v, ok := in.Bool(); ok && !v {
			return Low // a definite 0 input forces AND low regardless of the rest
		}
	}
	if anyUnknown(inputs) {
		return Unknown
	}
	return High
}
func (AndGate) String() string { return "AND" }

type OrGate struct{}

func (OrGate) Evaluate(inputs ...Level) Level {
	for _, in := range inputs {
		if v, ok := in.Bool(); ok && v {
			return High
		}
	}
	if anyUnknown(inputs) {
		return Unknown
	}
	return Low
}
func (OrGate) String() string { return "OR" }

type NotGate struct{}

func (NotGate) Evaluate(inputs ...Level) Level {
	if len(inputs) != 1 {
		return Unknown
	}
	v, ok := inputs[0].Bool()
	if !ok {
		return Unknown
	}
	return logicfamily.FromBool(!v)
}
func (NotGate) String() string { return "NOT" }

type NandGate struct{ AndGate }

func (g NandGate) Evaluate(inputs ...Level) Level {
	out := g.AndGate.Evaluate(inputs...)
	if out == Unknown {
		return Unknown
	}
	return logicfamily.FromBool(out == Low)
}
func (NandGate) String() string { return "NAND" }

type NorGate struct{ OrGate }

func (g NorGate) Evaluate(inputs ...Level) Level {
	out := g.OrGate.Evaluate(inputs...)
	if out == Unknown {
		return Unknown
	}
	return logicfamily.FromBool(out == Low)
}
func (NorGate) String() string { return "NOR" }

type XorGate struct{}

func (XorGate) Evaluate(inputs ...Level) Level {
	if anyUnknown(inputs) {
		return Unknown
	}
	odd := false
	for _, in := range inputs {
		if v, _ := in.Bool(); v {
			odd = !odd
		}
	}
	return logicfamily.FromBool(odd)
}
func (XorGate) String() string { return "XOR" }

type XnorGate struct{ XorGate }

func (g XnorGate) Evaluate(inputs ...Level) Level {
	out := g.XorGate.Evaluate(inputs...)
	if out == Unknown {
		return Unknown
	}
	return logicfamily.FromBool(out == Low)
}
func (XnorGate) String() string { return "XNOR" }

// BufferGate passes its single input through unchanged; used to model a
// non-inverting driver stage ahead of a logic indicator or DAC bridge.
type BufferGate struct{}

func (BufferGate) Evaluate(inputs ...Level) Level {
	if len(inputs) != 1 {
		return Unknown
	}
	return inputs[0]
}
func (BufferGate) String() string { return "BUF" }
