// Package logicfamily holds the voltage-threshold tables that bridge an
// analog node voltage to a three-valued logic level (spec.md §4.7's ADC
// stage) and back (the DAC stage). Each Family is a fixed set of input
// thresholds (with optional Schmitt hysteresis), output levels, and an
// output driver impedance -- the same small, data-only shape the teacher
// uses for its device parameter structs (e.g. diode.go's Is/N/Rs group),
// just applied to a different concern.
package logicfamily

// Family describes one logic family's electrical characteristics.
type Family struct {
	Name string

	VIL float64 // maximum input voltage still read as logic 0
	VIH float64 // minimum input voltage read as logic 1

	VOL float64 // driven output voltage for logic 0
	VOH float64 // driven output voltage for logic 1

	VHyst float64 // Schmitt offset: falls below VIH-VHyst, rises above VIL+VHyst; 0 for non-Schmitt inputs
	ROut  float64 // Thevenin output impedance of a driving gate
}

var (
	TTL = Family{
		Name: "TTL",
		VIL:  0.8, VIH: 2.0,
		VOL: 0.2, VOH: 3.4,
		ROut: 50,
	}

	CMOS5V = Family{
		Name: "CMOS-5V",
		VIL:  1.5, VIH: 3.5,
		VOL: 0.05, VOH: 4.95,
		ROut: 200,
	}

	CMOS3V3 = Family{
		Name: "CMOS-3.3V",
		VIL:  0.8, VIH: 2.0,
		VOL: 0.1, VOH: 3.2,
		ROut: 200,
	}

	LVCMOS1V8 = Family{
		Name: "LVCMOS-1.8V",
		VIL:  0.63, VIH: 1.17,
		VOL: 0.1, VOH: 1.7,
		ROut: 300,
	}

	// Schmitt is CMOS5V's thresholds widened with a hysteresis band, for
	// devices whose inputs are explicitly Schmitt-triggered.
	Schmitt = Family{
		Name: "Schmitt",
		VIL:  1.0, VIH: 4.0,
		VOL: 0.05, VOH: 4.95,
		VHyst: 0.4,
		ROut:  200,
	}
)

// Custom builds a caller-specified family, for components whose datasheet
// thresholds don't match one of the standard families.
func Custom(name string, vil, vih, vol, voh, vhyst, rout float64) Family {
	return Family{Name: name, VIL: vil, VIH: vih, VOL: vol, VOH: voh, VHyst: vhyst, ROut: rout}
}

// Sample converts an analog voltage to a three-valued logic level per
// spec.md §4.7. prevHigh carries the previous sample's settled state so
// Schmitt families can apply hysteresis around the last decision instead of
// re-deciding independently every call: once High, it only falls back to Low
// below V_IH−V_hyst; once Low, it only rises to High above V_IL+V_hyst.
func (f Family) Sample(v float64, prevHigh *bool) Level {
	if f.VHyst > 0 && prevHigh != nil {
		if *prevHigh {
			if v < f.VIH-f.VHyst {
				*prevHigh = false
				return Low
			}
			return High
		}
		if v > f.VIL+f.VHyst {
			*prevHigh = true
			return High
		}
		return Low
	}
	switch {
	case v >= f.VIH:
		if prevHigh != nil {
			*prevHigh = true
		}
		return High
	case v <= f.VIL:
		if prevHigh != nil {
			*prevHigh = false
		}
		return Low
	default:
		return Unknown
	}
}

// Level is a three-valued logic level: spec.md §4.7 requires the digital
// side to represent "unknown/floating" distinctly from a settled 0 or 1,
// since an ADC sample in the VIL..VIH no-man's-land is neither.
type Level int

const (
	Low Level = iota
	High
	Unknown
)

func (l Level) String() string {
	switch l {
	case High:
		return "1"
	case Low:
		return "0"
	default:
		return "X"
	}
}

// Bool reports the level as a boolean and whether it was settled (not
// Unknown) -- most gate evaluation treats Unknown by propagating Unknown,
// so callers check ok before trusting the bool.
func (l Level) Bool() (value, ok bool) {
	switch l {
	case High:
		return true, true
	case Low:
		return false, true
	default:
		return false, false
	}
}

func FromBool(b bool) Level {
	if b {
		return High
	}
	return Low
}

// DriveVoltage returns the Thevenin source voltage a gate output in this
// family would drive for the given level, for the DAC stage of spec.md
// §4.7 to bridge back into the analog netlist. Unknown (e.g. a
// high-impedance tri-state output) is reported as the midpoint, which
// callers bridging to the analog side should treat as "do not drive" by
// checking the level before calling DriveVoltage.
func (f Family) DriveVoltage(l Level) float64 {
	switch l {
	case High:
		return f.VOH
	case Low:
		return f.VOL
	default:
		return (f.VOL + f.VOH) / 2
	}
}
