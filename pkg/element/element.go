// Package element is the circuit element library: each element's DC/transient
// stamp and, for the one nonlinear kind (MOSFET), its per-iteration
// linearization at the current operating point.
package element

// NodeId identifies a circuit node; 0 is always the reference (ground)
// node and is never assigned a matrix row or column.
type NodeId = int

// Stamper is the narrow surface an element stamps into: either a
// structural builder (first pass) or an already-finalized matrix/vector
// pair (Newton iterations, per-step companion fills). Matching this to a
// single small interface lets every element's Stamp method run unchanged
// in both phases.
type Stamper interface {
	AddElement(i, j NodeId, value float64)
	AddRHS(i NodeId, value float64)
}

// BranchTable resolves an element's MNA auxiliary row via a side-table,
// rather than a mutable field on the element itself. Voltage sources and
// the companion engine's synthetic voltage source both need one;
// resistors, current sources, and MOSFETs never do.
type BranchTable struct {
	rows map[string]int
}

// NewBranchTable creates an empty table.
func NewBranchTable() *BranchTable {
	return &BranchTable{rows: make(map[string]int)}
}

// Assign records the auxiliary row for a named branch (voltage source or
// companion synthetic source).
func (t *BranchTable) Assign(name string, row int) { t.rows[name] = row }

// Row returns the auxiliary row assigned to name, or 0 (never a valid
// row — rows start at 1) if none was assigned.
func (t *BranchTable) Row(name string) int { return t.rows[name] }

// Element is the common surface of every circuit element: a name, its
// terminal nodes, and a DC/structural stamp. Reactive elements (Capacitor,
// Inductor) expose their nodes/value to the companion-model engine. In DC
// mode a Capacitor stamps nothing (open at DC) and an Inductor stamps a
// zero-volt branch (short at DC); neither is stamped directly in transient
// mode — only their companion's synthetic elements are.
type Element interface {
	Name() string
	Kind() string // "R", "V", "I", "C", "L", "M"
	Nodes() []NodeId
	// Stamp applies this element's stamp against s. Called once during
	// structural assembly (s backed by a triplet builder) and, for
	// companion synthetic elements, again every transient step (s backed
	// directly by the finalized matrix/vector) once their values have
	// been refreshed by the companion engine.
	Stamp(s Stamper, branches *BranchTable) error
}

// BranchElement is an Element that occupies an MNA auxiliary row
// (voltage sources, including companion synthetic ones).
type BranchElement interface {
	Element
	BranchName() string
}

// TimeVaryingSource is an independent source whose value changes over the
// course of a transient run (SIN/PULSE/PWL). RunTransient advances one of
// these by calling SetTime with the attempted time and then RestampValue
// against the step's live equation, mirroring how companion models refresh
// their own synthetic sources each step.
type TimeVaryingSource interface {
	Element
	IsTimeVarying() bool
	SetTime(t float64)
	RestampValue(s Stamper, branches *BranchTable)
}

// NonlinearElement additionally linearizes itself at the solver's current
// guess x and adds that contribution on top of an already-finalized
// system, once per Newton iteration.
type NonlinearElement interface {
	Element
	UpdateNonlinear(s Stamper, x Reader, branches *BranchTable) error
}

// Reader is the read side of the current solution guess, keyed by node id
// with ground reading back as zero — satisfied by *spmat.SparseVector
// without this package importing spmat.
type Reader interface {
	GetByNodeID(node int) float64
}
