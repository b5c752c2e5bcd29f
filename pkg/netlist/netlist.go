package netlist

import (
	"github.com/edp1096/nodal-spice/pkg/element"
	"github.com/edp1096/nodal-spice/pkg/spiceerr"
	"github.com/edp1096/nodal-spice/pkg/spmat"
)

// Mode tells Netlist.Sample which analysis produced the solution it reads.
type Mode int

const (
	DCMode Mode = iota
	TransientMode
)

// Netlist owns every parsed element, the node-name table, the MOSFET
// model table, and the recording tasks. Node count grows when the
// companion engine allocates an internal node for a capacitor's branch
// voltage source; this must happen before BranchTable rows are assigned,
// since branch rows are indexed immediately after the last node.
type Netlist struct {
	Title string

	nodeNames map[string]element.NodeId
	nodeCount int // highest assigned node id; ground (0) doesn't count

	Basics     []element.Element // R, V, I, M — stamped unchanged in both modes
	Capacitors []*element.Capacitor
	Inductors  []*element.Inductor
	Models     *element.ModelTable
	Tasks      []*Task
}

// Build resolves a ParseResult's node names into ids and constructs every
// element, model, and task.
func Build(pr *ParseResult) (*Netlist, error) {
	nl := &Netlist{
		Title:     pr.Title,
		nodeNames: map[string]element.NodeId{"0": 0},
		Models:    element.NewModelTable(),
	}

	for _, m := range pr.Models {
		nl.Models.Add(m.id, element.MosfetModel{
			Vth:    m.params["VT"],
			Mu:     m.params["MU"],
			Lambda: m.params["LAMBDA"],
			Cox:    m.params["COX"],
			Cj0:    m.params["CJ0"],
		})
	}

	for _, e := range pr.Elements {
		nodes := make([]element.NodeId, len(e.nodes))
		for i, name := range e.nodes {
			nodes[i] = nl.resolveNode(name)
		}

		switch e.kind {
		case "R":
			nl.Basics = append(nl.Basics, element.NewResistor(e.name, nodes[0], nodes[1], e.value))
		case "C":
			nl.Capacitors = append(nl.Capacitors, element.NewCapacitor(e.name, nodes[0], nodes[1], e.value))
		case "L":
			nl.Inductors = append(nl.Inductors, element.NewInductor(e.name, nodes[0], nodes[1], e.value))
		case "V", "I":
			src, err := buildSource(e, nodes[0], nodes[1])
			if err != nil {
				return nil, err
			}
			nl.Basics = append(nl.Basics, src)
		case "M":
			polarity := element.NMOS
			if e.params["polarity"] == "P" {
				polarity = element.PMOS
			}
			var w, l float64
			var err error
			if w, err = ParseValue(e.params["w"]); err != nil {
				return nil, err
			}
			if l, err = ParseValue(e.params["l"]); err != nil {
				return nil, err
			}
			modelID, err := atoiOrErr(e.params["modelId"])
			if err != nil {
				return nil, err
			}
			if _, ok := nl.Models.Get(modelID); !ok {
				return nil, spiceerr.Parse("MOSFET %s references undeclared model id %d", e.name, modelID)
			}
			nl.Basics = append(nl.Basics, element.NewMosfet(e.name, nodes[0], nodes[1], nodes[2], polarity, w, l, modelID, nl.Models))
		default:
			return nil, spiceerr.Parse("unsupported element kind: %s", e.kind)
		}
	}

	for _, t := range pr.Tasks {
		task, err := nl.buildTask(&t)
		if err != nil {
			return nil, err
		}
		nl.Tasks = append(nl.Tasks, task)
	}

	return nl, nil
}

// resolveNode assigns (or looks up) a node name's id; node "0" is always
// ground.
func (nl *Netlist) resolveNode(name string) element.NodeId {
	if id, ok := nl.nodeNames[name]; ok {
		return id
	}
	nl.nodeCount++
	id := nl.nodeCount
	nl.nodeNames[name] = id
	return id
}

// AppendNode allocates a fresh internal node, used by the companion
// engine to give a capacitor's companion voltage source a home between
// its series resistor and the capacitor's negative terminal.
func (nl *Netlist) AppendNode() element.NodeId {
	nl.nodeCount++
	return nl.nodeCount
}

// NodeCount reports the highest assigned node id (ground excluded from
// the count but never itself counted).
func (nl *Netlist) NodeCount() int { return nl.nodeCount }

func atoiOrErr(s string) (int, error) {
	n := 0
	if s == "" {
		return 0, spiceerr.Parse("missing MOSFET model id")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, spiceerr.Parse("invalid MOSFET model id: %s", s)
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}

// builderStamper adapts a triplet/vector builder pair to element.Stamper,
// used for the one-time structural assembly pass.
type builderStamper struct {
	mat *spmat.TripletBuilder
	rhs *spmat.VecBuilder
}

func (s *builderStamper) AddElement(i, j int, v float64) { s.mat.PushWithNodeID(i, j, v) }
func (s *builderStamper) AddRHS(i int, v float64)        { s.rhs.PushWithNodeID(i, v) }

// LiveStamper adapts a finalized matrix/vector pair to element.Stamper,
// used by Newton-iteration nonlinear updates and by companion models
// re-stamping their synthetic elements every transient step.
type LiveStamper struct {
	Mat *spmat.CSRMatrix
	RHS *spmat.SparseVector
}

func (s *LiveStamper) AddElement(i, j int, v float64) { s.Mat.AddByNodeID(i, j, v) }
func (s *LiveStamper) AddRHS(i int, v float64)        { s.RHS.AddByNodeID(i, v) }

// Equation is a finalized MNA system ready for the solver.
type Equation struct {
	A *spmat.CSRMatrix
	B *spmat.SparseVector
}

// assignBranches walks elems in order, giving every BranchElement an
// auxiliary row starting right after the last node index.
func (nl *Netlist) assignBranches(elems []element.Element) (*element.BranchTable, int) {
	branches := element.NewBranchTable()
	row := nl.nodeCount + 1
	count := 0
	for _, e := range elems {
		if be, ok := e.(element.BranchElement); ok {
			branches.Assign(be.BranchName(), row)
			row++
			count++
		}
	}
	return branches, count
}

// DCEquation assembles the DC/operating-point system: basics plus
// inductors stamped as zero-volt sources (their DC short-circuit
// behavior); capacitors contribute nothing (open at DC).
func (nl *Netlist) DCEquation() (*Equation, *element.BranchTable, []element.Element) {
	elems := make([]element.Element, 0, len(nl.Basics)+len(nl.Inductors))
	elems = append(elems, nl.Basics...)
	for _, l := range nl.Inductors {
		elems = append(elems, l)
	}

	branches, nBranch := nl.assignBranches(elems)
	size := nl.nodeCount + nBranch

	matBuilder := spmat.NewTripletBuilder(size)
	rhsBuilder := spmat.NewVecBuilder(size)
	bs := &builderStamper{mat: matBuilder, rhs: rhsBuilder}
	for _, e := range elems {
		e.Stamp(bs, branches)
	}

	eq := &Equation{A: matBuilder.Build(), B: rhsBuilder.Build()}
	return eq, branches, elems
}

// BaseTransientEquation assembles the transient system's constant part:
// basics only (reactive elements are introduced entirely through their
// companion models, stamped fresh into a clone of this base each step).
// Companion models must already have been built (and any internal nodes
// they allocate must already exist) before this is called, so their
// synthetic branch elements receive rows in the same pass as ordinary
// voltage sources.
func (nl *Netlist) BaseTransientEquation(companionElems []element.Element) (*Equation, *element.BranchTable, []element.Element) {
	elems := make([]element.Element, 0, len(nl.Basics)+len(companionElems))
	elems = append(elems, nl.Basics...)
	elems = append(elems, companionElems...)

	branches, nBranch := nl.assignBranches(elems)
	size := nl.nodeCount + nBranch

	restore := zeroTimeVaryingSources(elems)
	defer restore()

	matBuilder := spmat.NewTripletBuilder(size)
	rhsBuilder := spmat.NewVecBuilder(size)
	bs := &builderStamper{mat: matBuilder, rhs: rhsBuilder}
	for _, e := range elems {
		e.Stamp(bs, branches)
	}

	eq := &Equation{A: matBuilder.Build(), B: rhsBuilder.Build()}
	return eq, branches, elems
}

// zeroTimeVaryingSources sets every time-varying independent source's value
// to 0 for the duration of the base structural stamp, returning a closure
// that restores each to its pre-call value. This keeps base's frozen RHS
// contribution from these rows at exactly zero, so each step's clone can
// add the real, per-step value via RestampValue without double-counting
// whatever base already carried, the same trick the companion models use
// for their own synthetic sources.
func zeroTimeVaryingSources(elems []element.Element) func() {
	type saved struct {
		v   interface{ SetValue(float64) }
		val float64
	}
	var restores []saved
	for _, e := range elems {
		tv, ok := e.(element.TimeVaryingSource)
		if !ok || !tv.IsTimeVarying() {
			continue
		}
		setter, ok := e.(interface{ SetValue(float64) })
		if !ok {
			continue
		}
		val := e.(interface{ Value() float64 }).Value()
		restores = append(restores, saved{v: setter, val: val})
		setter.SetValue(0)
	}
	return func() {
		for _, s := range restores {
			s.v.SetValue(s.val)
		}
	}
}

// Clone returns an independent copy of the equation, for a transient
// step's inner retry loop to mutate without disturbing the base system.
func (eq *Equation) Clone() *Equation {
	return &Equation{A: eq.A.Clone(), B: eq.B.Clone()}
}
