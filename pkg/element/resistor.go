package element

// Resistor stamps the standard 2x2 conductance block. Value is stored as
// conductance (siemens), not resistance.
type Resistor struct {
	name        string
	nPos, nNeg  NodeId
	conductance float64
}

// NewResistor builds a resistor from a resistance value in ohms.
func NewResistor(name string, nPos, nNeg NodeId, resistanceOhms float64) *Resistor {
	return &Resistor{name: name, nPos: nPos, nNeg: nNeg, conductance: 1 / resistanceOhms}
}

// NewConductance builds a resistor directly from a conductance value,
// used by the companion-model engine to construct its synthetic resistor.
func NewConductance(name string, nPos, nNeg NodeId, g float64) *Resistor {
	return &Resistor{name: name, nPos: nPos, nNeg: nNeg, conductance: g}
}

func (r *Resistor) Name() string          { return r.name }
func (r *Resistor) Kind() string          { return "R" }
func (r *Resistor) Nodes() []NodeId       { return []NodeId{r.nPos, r.nNeg} }
func (r *Resistor) Conductance() float64  { return r.conductance }

// SetConductance overwrites the companion resistor's value; called once
// per transient step by the companion engine.
func (r *Resistor) SetConductance(g float64) { r.conductance = g }

func (r *Resistor) Stamp(s Stamper, _ *BranchTable) error {
	g := r.conductance
	s.AddElement(r.nPos, r.nPos, g)
	s.AddElement(r.nPos, r.nNeg, -g)
	s.AddElement(r.nNeg, r.nPos, -g)
	s.AddElement(r.nNeg, r.nNeg, g)
	return nil
}
