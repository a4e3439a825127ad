package digital

// Clocked components update their stored state only on a rising clock edge
// (spec.md §4.7: "sequential logic propagates on clock edges, not every
// sample"). Each type keeps the previous clock level itself so the caller
// only has to feed it the current sampled levels once per step.

// DFlipFlop stores D on the clock's rising edge.
type DFlipFlop struct {
	Q, QN    Level
	prevClk  Level
}

func NewDFlipFlop() *DFlipFlop {
	return &DFlipFlop{Q: Low, QN: High, prevClk: Low}
}

// Propagate implements Propagator with inputs ordered [D, CLK] and outputs
// [Q, QN], the order the mixed-signal phase (spec.md §4.7) binds positionally
// from a bridge's sampled node voltages.
func (f *DFlipFlop) Propagate(inputs []Level) []Level {
	if len(inputs) != 2 {
		return []Level{Unknown, Unknown}
	}
	f.Step(inputs[0], inputs[1])
	return []Level{f.Q, f.QN}
}

func (f *DFlipFlop) Step(d, clk Level) {
	rising := f.prevClk != High && clk == High
	f.prevClk = clk
	if !rising {
		return
	}
	if d == Unknown {
		f.Q, f.QN = Unknown, Unknown
		return
	}
	f.Q = d
	f.QN = NotGate{}.Evaluate(d)
}

// TFlipFlop toggles Q on the clock's rising edge when T is High.
type TFlipFlop struct {
	Q, QN   Level
	prevClk Level
}

func NewTFlipFlop() *TFlipFlop {
	return &TFlipFlop{Q: Low, QN: High, prevClk: Low}
}

// Propagate: inputs [T, CLK], outputs [Q, QN].
func (f *TFlipFlop) Propagate(inputs []Level) []Level {
	if len(inputs) != 2 {
		return []Level{Unknown, Unknown}
	}
	f.Step(inputs[0], inputs[1])
	return []Level{f.Q, f.QN}
}

func (f *TFlipFlop) Step(t, clk Level) {
	rising := f.prevClk != High && clk == High
	f.prevClk = clk
	if !rising {
		return
	}
	toggle, ok := t.Bool()
	if !ok {
		f.Q, f.QN = Unknown, Unknown
		return
	}
	if toggle {
		f.Q = NotGate{}.Evaluate(f.Q)
		f.QN = NotGate{}.Evaluate(f.Q)
	}
}

// JKFlipFlop implements the classic J/K truth table: 00 hold, 01 reset,
// 10 set, 11 toggle.
type JKFlipFlop struct {
	Q, QN   Level
	prevClk Level
}

func NewJKFlipFlop() *JKFlipFlop {
	return &JKFlipFlop{Q: Low, QN: High, prevClk: Low}
}

// Propagate: inputs [J, K, CLK], outputs [Q, QN].
func (f *JKFlipFlop) Propagate(inputs []Level) []Level {
	if len(inputs) != 3 {
		return []Level{Unknown, Unknown}
	}
	f.Step(inputs[0], inputs[1], inputs[2])
	return []Level{f.Q, f.QN}
}

func (f *JKFlipFlop) Step(j, k, clk Level) {
	rising := f.prevClk != High && clk == High
	f.prevClk = clk
	if !rising {
		return
	}
	jb, jok := j.Bool()
	kb, kok := k.Bool()
	if !jok || !kok {
		f.Q, f.QN = Unknown, Unknown
		return
	}
	switch {
	case !jb && !kb: // hold
	case !jb && kb:
		f.Q, f.QN = Low, High
	case jb && !kb:
		f.Q, f.QN = High, Low
	default: // toggle
		f.Q = NotGate{}.Evaluate(f.Q)
		f.QN = NotGate{}.Evaluate(f.Q)
	}
}

// SRLatch is level-sensitive (not clocked): Set/Reset both High is the
// invalid/forbidden state, reported per spec.md §4.7 as both outputs Low
// rather than the complementary Q/QN pair a valid state would hold.
type SRLatch struct {
	Q, QN Level
}

func NewSRLatch() *SRLatch {
	return &SRLatch{Q: Low, QN: High}
}

// Propagate: inputs [S, R], outputs [Q, QN].
func (l *SRLatch) Propagate(inputs []Level) []Level {
	if len(inputs) != 2 {
		return []Level{Unknown, Unknown}
	}
	l.Step(inputs[0], inputs[1])
	return []Level{l.Q, l.QN}
}

func (l *SRLatch) Step(s, r Level) {
	sb, sok := s.Bool()
	rb, rok := r.Bool()
	switch {
	case !sok || !rok:
		l.Q, l.QN = Unknown, Unknown
	case sb && rb:
		l.Q, l.QN = Low, Low // forbidden state, spec.md §4.7: "11: both outputs Low"
	case sb:
		l.Q, l.QN = High, Low
	case rb:
		l.Q, l.QN = Low, High
	default: // hold
	}
}
