package element

// Capacitor is open at DC (Stamp is a no-op) and is never stamped
// directly in transient mode either; pkg/companion reads Nodes/Farads off
// it to build a synthetic series resistor + voltage source pair once per
// transient run and refresh their values every step.
type Capacitor struct {
	name       string
	nPos, nNeg NodeId
	farads     float64
	// icPrev/vPrev carry the companion model's state between steps; kept
	// on the element so a rejected (shrunk) step can be retried from the
	// same starting state without the companion engine needing its own
	// side-table.
	vPrev  float64
	icPrev float64
}

// NewCapacitor builds a capacitor of the given value in farads.
func NewCapacitor(name string, nPos, nNeg NodeId, farads float64) *Capacitor {
	return &Capacitor{name: name, nPos: nPos, nNeg: nNeg, farads: farads}
}

func (c *Capacitor) Name() string    { return c.name }
func (c *Capacitor) Kind() string    { return "C" }
func (c *Capacitor) Nodes() []NodeId { return []NodeId{c.nPos, c.nNeg} }
func (c *Capacitor) Farads() float64 { return c.farads }

// Stamp contributes nothing: a capacitor is open at DC and is bypassed by
// its companion model in transient mode.
func (c *Capacitor) Stamp(Stamper, *BranchTable) error { return nil }

// PrevVoltage returns the branch voltage (nPos - nNeg) from the last
// accepted step.
func (c *Capacitor) PrevVoltage() float64 { return c.vPrev }

// PrevCurrent returns the branch current from the last accepted step.
func (c *Capacitor) PrevCurrent() float64 { return c.icPrev }

// Commit records the branch voltage/current after a step is accepted.
func (c *Capacitor) Commit(v, ic float64) {
	c.vPrev = v
	c.icPrev = ic
}
