package element

import "math"

// MosfetPolarity distinguishes NMOS and PMOS; the region boundaries and
// the sign of Ids in saturation mirror across the two.
type MosfetPolarity int

const (
	NMOS MosfetPolarity = iota
	PMOS
)

type mosfetRegion int

const (
	cutoff mosfetRegion = iota
	linear
	saturation
)

// Mosfet is the one nonlinear element: a three-terminal device
// linearized at the solver's current guess every Newton iteration via a
// Norton-equivalent stamp.
type Mosfet struct {
	name           string
	nD, nG, nS     NodeId
	polarity       MosfetPolarity
	w, l           float64
	modelID        int
	models         *ModelTable
}

// NewMosfet builds a MOSFET referencing a model by id; models must
// already be registered in the shared table by the time Stamp or
// UpdateNonlinear is first called.
func NewMosfet(name string, nD, nG, nS NodeId, polarity MosfetPolarity, w, l float64, modelID int, models *ModelTable) *Mosfet {
	return &Mosfet{name: name, nD: nD, nG: nG, nS: nS, polarity: polarity, w: w, l: l, modelID: modelID, models: models}
}

func (m *Mosfet) Name() string    { return m.name }
func (m *Mosfet) Kind() string    { return "M" }
func (m *Mosfet) Nodes() []NodeId { return []NodeId{m.nD, m.nG, m.nS} }

func (m *Mosfet) model() MosfetModel {
	model, ok := m.models.Get(m.modelID)
	if !ok {
		// A netlist that references an undeclared model id is a parse-time
		// fault; by the time a transient or DC solve runs the table is
		// already complete, so this would only fire on a programming error.
		return MosfetModel{}
	}
	return model
}

func (m *Mosfet) region(vgs, vds float64) mosfetRegion {
	model := m.model()
	switch m.polarity {
	case NMOS:
		if vgs < model.Vth {
			return cutoff
		}
		if vds < vgs-model.Vth {
			return linear
		}
		return saturation
	default: // PMOS
		if vgs > model.Vth {
			return cutoff
		}
		if vds > vgs-model.Vth {
			return linear
		}
		return saturation
	}
}

func (m *Mosfet) k() float64 {
	model := m.model()
	return model.Mu * model.Cox * m.w / m.l
}

// Gm returns the small-signal transconductance ∂Ids/∂Vgs at the given bias.
func (m *Mosfet) Gm(vgs, vds float64) float64 {
	model := m.model()
	k := m.k()
	var g float64
	switch m.region(vgs, vds) {
	case cutoff:
		g = 0
	case linear:
		g = k * vds
	case saturation:
		g = k * (vgs - model.Vth) * (1 + model.Lambda*math.Abs(vds))
	}
	return math.Abs(g)
}

// Gds returns the small-signal output conductance ∂Ids/∂Vds at the given bias.
func (m *Mosfet) Gds(vgs, vds float64) float64 {
	model := m.model()
	k := m.k()
	var g float64
	switch m.region(vgs, vds) {
	case cutoff:
		g = 0
	case linear:
		g = k * (vgs - model.Vth - vds)
	case saturation:
		g = 0.5 * k * (vgs-model.Vth)*(vgs-model.Vth) * model.Lambda
	}
	return math.Abs(g)
}

// Ids returns the drain current at the given bias.
func (m *Mosfet) Ids(vgs, vds float64) float64 {
	model := m.model()
	k := m.k()
	switch m.region(vgs, vds) {
	case cutoff:
		return 0
	case linear:
		return k * (vgs - model.Vth - vds*0.5) * math.Abs(vds)
	default: // saturation
		base := 0.5 * k * (vgs - model.Vth) * (vgs - model.Vth) * (1 + model.Lambda*math.Abs(vds))
		if m.polarity == PMOS {
			return -base
		}
		return base
	}
}

// Ieq returns the Norton-equivalent current source value accompanying
// Gm/Gds at the given bias: Ieq = Ids - Gds*Vds - Gm*Vgs.
func (m *Mosfet) Ieq(vgs, vds float64) float64 {
	return m.Ids(vgs, vds) - m.Gds(vgs, vds)*vds - m.Gm(vgs, vds)*vgs
}

// Stamp places structural zeros at every position UpdateNonlinear will
// later write into, and seeds the RHS entries touched, so the matrix's
// sparsity pattern is fixed before Newton iteration begins.
func (m *Mosfet) Stamp(s Stamper, _ *BranchTable) error {
	s.AddElement(m.nD, m.nD, 0)
	s.AddElement(m.nD, m.nS, 0)
	s.AddElement(m.nS, m.nD, 0)
	s.AddElement(m.nS, m.nS, 0)
	s.AddElement(m.nD, m.nG, 0)
	s.AddElement(m.nS, m.nG, 0)
	s.AddRHS(m.nD, 0)
	s.AddRHS(m.nS, 0)
	s.AddRHS(m.nG, 0)
	return nil
}

// UpdateNonlinear linearizes the device at the guess x and adds its
// Norton stamp (gds block, gm block, Ieq) on top of the already-assembled
// system. The gm block's (S,S) term accumulates on top of the gds
// block's own (S,S) contribution rather than replacing it.
func (m *Mosfet) UpdateNonlinear(s Stamper, x Reader, _ *BranchTable) error {
	vg := x.GetByNodeID(m.nG)
	vd := x.GetByNodeID(m.nD)
	vs := x.GetByNodeID(m.nS)

	vgs := vg - vs
	vds := vd - vs

	gds := m.Gds(vgs, vds)
	s.AddElement(m.nD, m.nD, gds)
	s.AddElement(m.nD, m.nS, -gds)
	s.AddElement(m.nS, m.nD, -gds)
	s.AddElement(m.nS, m.nS, gds)

	ieq := m.Ieq(vgs, vds)
	s.AddRHS(m.nD, -ieq)
	s.AddRHS(m.nS, ieq)

	gm := m.Gm(vgs, vds)
	s.AddElement(m.nD, m.nG, gm)
	s.AddElement(m.nS, m.nS, gm)
	s.AddElement(m.nD, m.nS, -gm)
	s.AddElement(m.nS, m.nG, -gm)

	return nil
}
