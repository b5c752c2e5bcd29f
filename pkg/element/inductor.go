package element

// Inductor is a short at DC: Stamp adds its own auxiliary branch row with
// a zero voltage constraint, exactly like a zero-valued voltage source.
// In transient mode it is bypassed in favor of its companion model's
// synthetic conductance + current source pair, read off Nodes/Henries.
type Inductor struct {
	name       string
	nPos, nNeg NodeId
	henries    float64
	iPrev      float64
	vPrev      float64
}

// NewInductor builds an inductor of the given value in henries.
func NewInductor(name string, nPos, nNeg NodeId, henries float64) *Inductor {
	return &Inductor{name: name, nPos: nPos, nNeg: nNeg, henries: henries}
}

func (l *Inductor) Name() string        { return l.name }
func (l *Inductor) Kind() string        { return "L" }
func (l *Inductor) Nodes() []NodeId     { return []NodeId{l.nPos, l.nNeg} }
func (l *Inductor) Henries() float64    { return l.henries }
func (l *Inductor) BranchName() string  { return l.name }

// Stamp enforces V(nPos)-V(nNeg)=0 through its own branch row, the DC
// short-circuit behavior of an ideal inductor.
func (l *Inductor) Stamp(s Stamper, branches *BranchTable) error {
	row := branches.Row(l.name)
	s.AddElement(row, l.nPos, 1)
	s.AddElement(row, l.nNeg, -1)
	s.AddElement(l.nPos, row, 1)
	s.AddElement(l.nNeg, row, -1)
	s.AddRHS(row, 0)
	return nil
}

// PrevCurrent returns the branch current from the last accepted step.
func (l *Inductor) PrevCurrent() float64 { return l.iPrev }

// PrevVoltage returns the branch voltage from the last accepted step.
func (l *Inductor) PrevVoltage() float64 { return l.vPrev }

// Commit records the branch current/voltage after a step is accepted.
func (l *Inductor) Commit(i, v float64) {
	l.iPrev = i
	l.vPrev = v
}
