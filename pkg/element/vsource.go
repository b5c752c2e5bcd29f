package element

import "math"

// SourceKind selects an independent source's time dependence: a constant
// value, or one of the SIN/PULSE/PWL time-varying waveforms. AC phasor
// sources are deliberately not supported; nothing in this module performs
// small-signal analysis.
type SourceKind int

const (
	DC SourceKind = iota
	SIN
	PULSE
	PWL
)

// Waveform evaluates a source's instantaneous value at time t. DC sources
// use a constant waveform; it is still invoked so every source shares one
// code path.
type Waveform func(t float64) float64

func constWaveform(v float64) Waveform {
	return func(float64) float64 { return v }
}

func sinWaveform(offset, amplitude, freq, phase float64) Waveform {
	return func(t float64) float64 {
		return offset + amplitude*math.Sin(2*math.Pi*freq*t+phase*math.Pi/180)
	}
}

func pulseWaveform(v1, v2, delay, rise, fall, width, period float64) Waveform {
	return func(t float64) float64 {
		if t < delay {
			return v1
		}
		tp := t - delay
		if period > 0 {
			tp = math.Mod(tp, period)
		}
		switch {
		case tp < rise:
			if rise == 0 {
				return v2
			}
			return v1 + (v2-v1)*(tp/rise)
		case tp < rise+width:
			return v2
		case tp < rise+width+fall:
			if fall == 0 {
				return v1
			}
			return v2 + (v1-v2)*((tp-rise-width)/fall)
		default:
			return v1
		}
	}
}

func pwlWaveform(times, values []float64) Waveform {
	return func(t float64) float64 {
		if len(times) == 0 {
			return 0
		}
		if t <= times[0] {
			return values[0]
		}
		last := len(times) - 1
		if t >= times[last] {
			return values[last]
		}
		for i := 0; i < last; i++ {
			if t >= times[i] && t <= times[i+1] {
				frac := (t - times[i]) / (times[i+1] - times[i])
				return values[i] + (values[i+1]-values[i])*frac
			}
		}
		return values[last]
	}
}

// VoltageSource is an independent voltage source occupying one MNA
// auxiliary row: four +/-1 matrix entries plus its value at b[row].
type VoltageSource struct {
	name       string
	nPos, nNeg NodeId
	kind       SourceKind
	wave       Waveform
	value      float64 // current instantaneous value, refreshed by SetTime or directly by companion engine
}

// NewDCVoltageSource builds a constant voltage source.
func NewDCVoltageSource(name string, nPos, nNeg NodeId, v float64) *VoltageSource {
	return &VoltageSource{name: name, nPos: nPos, nNeg: nNeg, kind: DC, wave: constWaveform(v), value: v}
}

// NewSinVoltageSource builds a sinusoidal voltage source.
func NewSinVoltageSource(name string, nPos, nNeg NodeId, offset, amplitude, freq, phase float64) *VoltageSource {
	wave := sinWaveform(offset, amplitude, freq, phase)
	return &VoltageSource{name: name, nPos: nPos, nNeg: nNeg, kind: SIN, wave: wave, value: wave(0)}
}

// NewPulseVoltageSource builds a pulse voltage source.
func NewPulseVoltageSource(name string, nPos, nNeg NodeId, v1, v2, delay, rise, fall, width, period float64) *VoltageSource {
	wave := pulseWaveform(v1, v2, delay, rise, fall, width, period)
	return &VoltageSource{name: name, nPos: nPos, nNeg: nNeg, kind: PULSE, wave: wave, value: wave(0)}
}

// NewPWLVoltageSource builds a piecewise-linear voltage source.
func NewPWLVoltageSource(name string, nPos, nNeg NodeId, times, values []float64) *VoltageSource {
	wave := pwlWaveform(times, values)
	return &VoltageSource{name: name, nPos: nPos, nNeg: nNeg, kind: PWL, wave: wave, value: wave(0)}
}

// NewCompanionVoltageSource builds the synthetic, directly-valued voltage
// source the capacitor companion model uses (no waveform, value set each
// step by the companion engine).
func NewCompanionVoltageSource(name string, nPos, nNeg NodeId) *VoltageSource {
	return &VoltageSource{name: name, nPos: nPos, nNeg: nNeg, kind: DC, wave: nil}
}

func (v *VoltageSource) Name() string    { return v.name }
func (v *VoltageSource) Kind() string    { return "V" }
func (v *VoltageSource) Nodes() []NodeId { return []NodeId{v.nPos, v.nNeg} }
func (v *VoltageSource) BranchName() string { return v.name }

// SetTime evaluates the waveform at t, refreshing the stamped value. DC
// sources are idempotent under this call.
func (v *VoltageSource) SetTime(t float64) {
	if v.wave != nil {
		v.value = v.wave(t)
	}
}

// Value returns the current instantaneous value.
func (v *VoltageSource) Value() float64 { return v.value }

// SetValue overwrites the value directly; used by the companion engine.
func (v *VoltageSource) SetValue(val float64) { v.value = val }

// IsTimeVarying reports whether this source's value depends on t.
func (v *VoltageSource) IsTimeVarying() bool {
	return v.kind == SIN || v.kind == PULSE || v.kind == PWL
}

// RestampValue re-adds this source's current value at its branch row. The
// structural stamp assembled it with value 0, so this is the entire
// per-step contribution, not a delta on top of some other nonzero base.
func (v *VoltageSource) RestampValue(s Stamper, branches *BranchTable) {
	s.AddRHS(branches.Row(v.name), v.value)
}

func (v *VoltageSource) Stamp(s Stamper, branches *BranchTable) error {
	row := branches.Row(v.name)
	s.AddElement(row, v.nPos, 1)
	s.AddElement(row, v.nNeg, -1)
	s.AddElement(v.nPos, row, 1)
	s.AddElement(v.nNeg, row, -1)
	s.AddRHS(row, v.value)
	return nil
}
