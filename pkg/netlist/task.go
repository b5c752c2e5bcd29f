package netlist

import (
	"github.com/edp1096/nodal-spice/pkg/element"
	"github.com/edp1096/nodal-spice/pkg/spiceerr"
	"github.com/edp1096/nodal-spice/pkg/spmat"
)

// TaskKind distinguishes a node-voltage probe from a branch-current probe.
type TaskKind int

const (
	NodeVoltage TaskKind = iota
	BranchCurrent
)

// Task is a recording probe requested by .PLOTNV/.PLOTIB; Samples grows
// by one every time a step is accepted (or once, for a DC solve).
type Task struct {
	Kind     TaskKind
	NodeName string
	Node     element.NodeId
	ElemName string
	Sign     float64 // +1 if from->to matches the device's own terminal order, -1 if reversed
	Samples  []float64
}

func (nl *Netlist) buildTask(t *rawTask) (*Task, error) {
	switch t.kind {
	case "NV":
		name := t.args[0]
		node, ok := nl.nodeNames[name]
		if !ok {
			return nil, spiceerr.Parse(".PLOTNV references unknown node: %s", name)
		}
		return &Task{Kind: NodeVoltage, NodeName: name, Node: node}, nil
	case "IB":
		fromName, toName := t.args[0], t.args[1]
		from, ok := nl.nodeNames[fromName]
		if !ok {
			return nil, spiceerr.Parse(".PLOTIB references unknown node: %s", fromName)
		}
		to, ok := nl.nodeNames[toName]
		if !ok {
			return nil, spiceerr.Parse(".PLOTIB references unknown node: %s", toName)
		}
		name, sign, err := nl.findSpanningDevice(from, to)
		if err != nil {
			return nil, err
		}
		return &Task{Kind: BranchCurrent, ElemName: name, Sign: sign}, nil
	default:
		return nil, spiceerr.Parse("unsupported task kind: %s", t.kind)
	}
}

// findSpanningDevice locates the lone voltage source, inductor, or resistor
// whose terminals are exactly {a, b}, returning its name and the sign to
// apply to its recorded current so the result reads positive flowing from
// a to b. Fails (as an unsupported probe) unless exactly one such device
// spans the pair.
func (nl *Netlist) findSpanningDevice(a, b element.NodeId) (string, float64, error) {
	type match struct {
		name string
		sign float64
	}
	var found []match

	for _, e := range nl.Basics {
		switch el := e.(type) {
		case *element.VoltageSource:
			if sign, ok := spanSign(el.Nodes(), a, b); ok {
				found = append(found, match{el.Name(), sign})
			}
		case *element.Resistor:
			if sign, ok := spanSign(el.Nodes(), a, b); ok {
				found = append(found, match{el.Name(), sign})
			}
		}
	}
	for _, l := range nl.Inductors {
		if sign, ok := spanSign(l.Nodes(), a, b); ok {
			found = append(found, match{l.Name(), sign})
		}
	}

	if len(found) != 1 {
		return "", 0, spiceerr.Unsupported(".PLOTIB %d %d: expected exactly one spanning device, found %d", a, b, len(found))
	}
	return found[0].name, found[0].sign, nil
}

// spanSign reports whether nodes is {a, b} in either order, and the sign
// that orients the device's recorded current from a to b.
func spanSign(nodes []element.NodeId, a, b element.NodeId) (float64, bool) {
	switch {
	case nodes[0] == a && nodes[1] == b:
		return 1, true
	case nodes[0] == b && nodes[1] == a:
		return -1, true
	default:
		return 0, false
	}
}

func (nl *Netlist) findResistor(name string) *element.Resistor {
	for _, e := range nl.Basics {
		if r, ok := e.(*element.Resistor); ok && r.Name() == name {
			return r
		}
	}
	return nil
}

func (nl *Netlist) findBranchSource(name string) *element.VoltageSource {
	for _, e := range nl.Basics {
		if v, ok := e.(*element.VoltageSource); ok && v.Name() == name {
			return v
		}
	}
	return nil
}

func (nl *Netlist) findInductor(name string) *element.Inductor {
	for _, l := range nl.Inductors {
		if l.Name() == name {
			return l
		}
	}
	return nil
}

// Sample evaluates every task against a solved equation and appends one
// sample to each, using branches to resolve auxiliary rows for
// branch-current probes. In transient mode an inductor no longer carries
// its own auxiliary row (its companion model stamps in its place), so its
// current is read from the companion engine's last committed value
// instead.
func (nl *Netlist) Sample(mode Mode, x *spmat.SparseVector, branches *element.BranchTable) {
	for _, t := range nl.Tasks {
		switch t.Kind {
		case NodeVoltage:
			t.Samples = append(t.Samples, x.GetByNodeID(t.Node))
		case BranchCurrent:
			t.Samples = append(t.Samples, t.Sign*nl.branchCurrent(mode, t.ElemName, x, branches))
		}
	}
}

// branchCurrent resolves a .PLOTIB probe: voltage sources (and, in DC
// mode, inductors) read their current directly off the MNA auxiliary row
// (sign convention: the auxiliary variable is the current flowing from
// n+ through the source to n-, matching the stamp's +1/-1 placement); a
// resistor's current is derived as G*(V(n+)-V(n-)). In transient mode an
// inductor's current comes from its companion model's last committed
// value instead, since it has no auxiliary row of its own in that mode.
func (nl *Netlist) branchCurrent(mode Mode, name string, x *spmat.SparseVector, branches *element.BranchTable) float64 {
	if v := nl.findBranchSource(name); v != nil {
		return x.GetByNodeID(branches.Row(name))
	}
	if l := nl.findInductor(name); l != nil {
		if mode == DCMode {
			return x.GetByNodeID(branches.Row(name))
		}
		return l.PrevCurrent()
	}
	if r := nl.findResistor(name); r != nil {
		nodes := r.Nodes()
		v := x.GetByNodeID(nodes[0]) - x.GetByNodeID(nodes[1])
		return r.Conductance() * v
	}
	return 0
}
