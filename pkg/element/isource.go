package element

// CurrentSource is an independent current source; it contributes to the
// RHS only (no auxiliary row, no matrix entries), flowing from nPos to
// nNeg inside the source (out of nNeg into the external circuit).
type CurrentSource struct {
	name       string
	nPos, nNeg NodeId
	kind       SourceKind
	wave       Waveform
	value      float64
}

// NewDCCurrentSource builds a constant current source.
func NewDCCurrentSource(name string, nPos, nNeg NodeId, i float64) *CurrentSource {
	return &CurrentSource{name: name, nPos: nPos, nNeg: nNeg, kind: DC, wave: constWaveform(i), value: i}
}

// NewSinCurrentSource builds a sinusoidal current source.
func NewSinCurrentSource(name string, nPos, nNeg NodeId, offset, amplitude, freq, phase float64) *CurrentSource {
	wave := sinWaveform(offset, amplitude, freq, phase)
	return &CurrentSource{name: name, nPos: nPos, nNeg: nNeg, kind: SIN, wave: wave, value: wave(0)}
}

// NewPulseCurrentSource builds a pulse current source.
func NewPulseCurrentSource(name string, nPos, nNeg NodeId, i1, i2, delay, rise, fall, width, period float64) *CurrentSource {
	wave := pulseWaveform(i1, i2, delay, rise, fall, width, period)
	return &CurrentSource{name: name, nPos: nPos, nNeg: nNeg, kind: PULSE, wave: wave, value: wave(0)}
}

// NewPWLCurrentSource builds a piecewise-linear current source.
func NewPWLCurrentSource(name string, nPos, nNeg NodeId, times, values []float64) *CurrentSource {
	wave := pwlWaveform(times, values)
	return &CurrentSource{name: name, nPos: nPos, nNeg: nNeg, kind: PWL, wave: wave, value: wave(0)}
}

func (i *CurrentSource) Name() string    { return i.name }
func (i *CurrentSource) Kind() string    { return "I" }
func (i *CurrentSource) Nodes() []NodeId { return []NodeId{i.nPos, i.nNeg} }

// SetTime evaluates the waveform at t, refreshing the stamped value.
func (i *CurrentSource) SetTime(t float64) {
	if i.wave != nil {
		i.value = i.wave(t)
	}
}

// Value returns the current instantaneous value.
func (i *CurrentSource) Value() float64 { return i.value }

// SetValue overwrites the value directly; used by the companion engine.
func (i *CurrentSource) SetValue(val float64) { i.value = val }

// IsTimeVarying reports whether this source's value depends on t.
func (i *CurrentSource) IsTimeVarying() bool {
	return i.kind == SIN || i.kind == PULSE || i.kind == PWL
}

// RestampValue re-adds this source's current value at its terminals. The
// structural stamp assembled it with value 0, so this is the entire
// per-step contribution, not a delta on top of some other nonzero base.
func (i *CurrentSource) RestampValue(s Stamper, _ *BranchTable) {
	s.AddRHS(i.nPos, -i.value)
	s.AddRHS(i.nNeg, i.value)
}

func (i *CurrentSource) Stamp(s Stamper, _ *BranchTable) error {
	s.AddRHS(i.nPos, -i.value)
	s.AddRHS(i.nNeg, i.value)
	return nil
}
