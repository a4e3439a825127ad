package digital

// Multiplexer selects one of 2^len(sel) inputs using sel as a binary
// select code, MSB first. An Unknown select bit makes the whole selection
// ambiguous, so the output is Unknown rather than guessing a branch.
func Multiplexer(inputs []Level, sel []Level) Level {
	idx := 0
	for _, s := range sel {
		b, ok := s.Bool()
		if !ok {
			return Unknown
		}
		idx <<= 1
		if b {
			idx |= 1
		}
	}
	if idx < 0 || idx >= len(inputs) {
		return Unknown
	}
	return inputs[idx]
}

// Decoder is a one-hot binary decoder: exactly one of the 2^len(sel)
// outputs is High, selected by sel (MSB first); all outputs are Unknown if
// any select line is Unknown.
func Decoder(sel []Level) []Level {
	n := 1 << len(sel)
	out := make([]Level, n)
	idx := 0
	for _, s := range sel {
		b, ok := s.Bool()
		if !ok {
			for i := range out {
				out[i] = Unknown
			}
			return out
		}
		idx <<= 1
		if b {
			idx |= 1
		}
	}
	for i := range out {
		out[i] = Low
	}
	out[idx] = High
	return out
}

// HalfAdder returns (sum, carry) for a, b.
func HalfAdder(a, b Level) (sum, carry Level) {
	return XorGate{}.Evaluate(a, b), AndGate{}.Evaluate(a, b)
}

// FullAdder returns (sum, carryOut) for a, b, and an incoming carry.
func FullAdder(a, b, cin Level) (sum, carryOut Level) {
	s1, c1 := HalfAdder(a, b)
	s2, c2 := HalfAdder(s1, cin)
	return s2, OrGate{}.Evaluate(c1, c2)
}

// sevenSegPatterns maps each BCD digit 0-9 to its seven-segment pattern in
// {a,b,c,d,e,f,g} order, common-cathode convention (High lights the
// segment). Digits 10-15 (invalid BCD) decode to all-Unknown.
var sevenSegPatterns = [16][7]bool{
	0:  {true, true, true, true, true, true, false},
	1:  {false, true, true, false, false, false, false},
	2:  {true, true, false, true, true, false, true},
	3:  {true, true, true, true, false, false, true},
	4:  {false, true, true, false, false, true, true},
	5:  {true, false, true, true, false, true, true},
	6:  {true, false, true, true, true, true, true},
	7:  {true, true, true, false, false, false, false},
	8:  {true, true, true, true, true, true, true},
	9:  {true, true, true, true, false, true, true},
}

// BCDToSevenSegment decodes a 4-bit BCD input (MSB first) into seven
// segment drive levels (a..g). Any Unknown input bit, or a code outside
// 0-9, decodes to all segments Unknown.
func BCDToSevenSegment(bits [4]Level) [7]Level {
	var out [7]Level
	idx := 0
	for _, b := range bits {
		v, ok := b.Bool()
		if !ok {
			for i := range out {
				out[i] = Unknown
			}
			return out
		}
		idx <<= 1
		if v {
			idx |= 1
		}
	}
	if idx > 9 {
		for i := range out {
			out[i] = Unknown
		}
		return out
	}
	pattern := sevenSegPatterns[idx]
	for i, lit := range pattern {
		out[i] = logicfamilyFromBool(lit)
	}
	return out
}

func logicfamilyFromBool(b bool) Level {
	if b {
		return High
	}
	return Low
}

// LogicIndicator is a passive probe element: it just remembers the last
// level it was driven with, for a UI to render as a lit/unlit/floating
// indicator (spec.md §4.7's "logic indicator" diagnostics aid).
type LogicIndicator struct {
	Level Level
}

func (i *LogicIndicator) Sample(l Level) { i.Level = l }
