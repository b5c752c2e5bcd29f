// Package companion builds and drives the per-step trapezoidal-rule
// companion model for each reactive element.
package companion

import (
	"github.com/edp1096/nodal-spice/pkg/element"
	"github.com/edp1096/nodal-spice/pkg/netlist"
)

// Model is a reactive element's companion: one or two synthetic basic
// elements, stamped through the same element.Stamp machinery as any
// other element, plus the scalar bookkeeping (previous branch voltage
// and current) the trapezoidal formulas need across steps.
type Model interface {
	// Elements returns the synthetic elements to fold into the base
	// transient equation's structural assembly pass.
	Elements() []element.Element
	// Update recomputes the synthetic elements' values from the current
	// guess x and step size dt, ahead of a Newton solve.
	Update(x element.Reader, dt float64)
	// Restamp re-applies the synthetic elements' (now-updated) values
	// directly into a finalized matrix/vector pair — the per-step
	// refill, distinct from the one-time structural Elements() pass.
	Restamp(s element.Stamper, branches *element.BranchTable)
	// Commit records the branch voltage/current once a step is accepted.
	Commit(x element.Reader)
}

// capacitorModel implements the series R–V Thevenin companion: n+ —R—
// mid —V— n-.
type capacitorModel struct {
	cap      *element.Capacitor
	mid      element.NodeId
	resistor *element.Resistor
	vsource  *element.VoltageSource
}

// NewCapacitorModel builds a capacitor's companion, allocating a fresh
// internal node from nl to sit between the series resistor and voltage
// source.
func NewCapacitorModel(cap *element.Capacitor, nl *netlist.Netlist) Model {
	nodes := cap.Nodes()
	mid := nl.AppendNode()
	return &capacitorModel{
		cap:      cap,
		mid:      mid,
		resistor: element.NewConductance(cap.Name()+"-R", nodes[0], mid, 0),
		vsource:  element.NewCompanionVoltageSource(cap.Name()+"-V", mid, nodes[1]),
	}
}

func (m *capacitorModel) Elements() []element.Element {
	return []element.Element{m.resistor, m.vsource}
}

func (m *capacitorModel) Update(x element.Reader, dt float64) {
	nodes := m.cap.Nodes()
	vDiff := x.GetByNodeID(nodes[0]) - x.GetByNodeID(nodes[1])
	c := m.cap.Farads()

	m.resistor.SetConductance(2 * c / dt) // G = 1/R, R = dt/(2C)
	vEq := vDiff + dt*m.cap.PrevCurrent()/(2*c)
	m.vsource.SetValue(vEq)
}

func (m *capacitorModel) Restamp(s element.Stamper, branches *element.BranchTable) {
	m.resistor.Stamp(s, branches)
	// The base equation already carries the source's +/-1 branch entries;
	// only its value is added per step.
	m.vsource.RestampValue(s, branches)
}

func (m *capacitorModel) Commit(x element.Reader) {
	nodes := m.cap.Nodes()
	vDiff := x.GetByNodeID(nodes[0]) - x.GetByNodeID(nodes[1])
	vR := vDiff - m.vsource.Value()
	iNew := m.resistor.Conductance() * vR
	m.cap.Commit(vDiff, iNew)
}

// inductorModel implements the parallel G–I Norton companion: both
// spanning (n+, n-) directly — no internal node needed.
type inductorModel struct {
	ind      *element.Inductor
	resistor *element.Resistor
	isource  *element.CurrentSource
}

// NewInductorModel builds an inductor's companion.
func NewInductorModel(ind *element.Inductor) Model {
	nodes := ind.Nodes()
	return &inductorModel{
		ind:      ind,
		resistor: element.NewConductance(ind.Name()+"-R", nodes[0], nodes[1], 0),
		isource:  element.NewDCCurrentSource(ind.Name()+"-I", nodes[0], nodes[1], 0),
	}
}

func (m *inductorModel) Elements() []element.Element {
	return []element.Element{m.resistor, m.isource}
}

func (m *inductorModel) Update(x element.Reader, dt float64) {
	nodes := m.ind.Nodes()
	vDiff := x.GetByNodeID(nodes[0]) - x.GetByNodeID(nodes[1])
	l := m.ind.Henries()

	g := dt / (2 * l)
	m.resistor.SetConductance(g)
	iEq := m.ind.PrevCurrent() + dt*vDiff/(2*l)
	m.isource.SetValue(iEq)
}

func (m *inductorModel) Restamp(s element.Stamper, branches *element.BranchTable) {
	m.resistor.Stamp(s, branches)
	m.isource.Stamp(s, branches)
}

func (m *inductorModel) Commit(x element.Reader) {
	nodes := m.ind.Nodes()
	vDiff := x.GetByNodeID(nodes[0]) - x.GetByNodeID(nodes[1])
	iNew := m.resistor.Conductance()*vDiff + m.isource.Value()
	m.ind.Commit(iNew, vDiff)
}

// BuildAll constructs one companion model per reactive element in nl,
// allocating any internal nodes capacitors need before the caller
// assembles the base transient equation and assigns branch rows.
func BuildAll(nl *netlist.Netlist) []Model {
	models := make([]Model, 0, len(nl.Capacitors)+len(nl.Inductors))
	for _, c := range nl.Capacitors {
		models = append(models, NewCapacitorModel(c, nl))
	}
	for _, l := range nl.Inductors {
		models = append(models, NewInductorModel(l))
	}
	return models
}

// Elements flattens every model's synthetic elements, in model order, for
// folding into the base transient equation's structural pass.
func Elements(models []Model) []element.Element {
	elems := make([]element.Element, 0, 2*len(models))
	for _, m := range models {
		elems = append(elems, m.Elements()...)
	}
	return elems
}
