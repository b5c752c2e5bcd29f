package element

// MosfetModel holds the process parameters referenced by model id: VT
// (threshold voltage), MU (mobility), LAMBDA (channel-length modulation),
// COX (oxide capacitance per area) and CJ0 (unused by the DC/transient
// equations this simulator solves, kept only because .MODEL cards carry
// it). Populated once during netlist parsing and never mutated after.
type MosfetModel struct {
	Vth    float64
	Mu     float64
	Lambda float64
	Cox    float64
	Cj0    float64
}

// ModelTable is the process-wide mapping from model id to parameters.
// Go's single-threaded execution means this needs no locking, unlike the
// Arc<Mutex<...>> the source reaches for — there is exactly one goroutine
// ever touching it, populated during parsing before any element reads it.
type ModelTable struct {
	models map[int]MosfetModel
}

// NewModelTable creates an empty table.
func NewModelTable() *ModelTable {
	return &ModelTable{models: make(map[int]MosfetModel)}
}

// Add registers a model under id, overwriting any prior definition.
func (t *ModelTable) Add(id int, m MosfetModel) { t.models[id] = m }

// Get looks up a model by id; ok is false if no such model was parsed.
func (t *ModelTable) Get(id int) (MosfetModel, bool) {
	m, ok := t.models[id]
	return m, ok
}
