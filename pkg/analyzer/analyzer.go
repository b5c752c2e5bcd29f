// Package analyzer orchestrates a DC or transient run end to end: equation
// assembly, the Newton/companion step loop, and probe recording.
package analyzer

import (
	"fmt"
	"io"

	"github.com/edp1096/nodal-spice/pkg/netlist"
	"github.com/edp1096/nodal-spice/pkg/util"
)

// writeTaskSamples prints every recorded task's sample series to w, one
// line per task, space-separated, scaled to an SI prefix per sample.
func writeTaskSamples(nl *netlist.Netlist, w io.Writer) {
	for _, t := range nl.Tasks {
		label := t.NodeName
		unit := "V"
		if t.Kind == netlist.BranchCurrent {
			label = "I(" + t.ElemName + ")"
			unit = "A"
		}
		fmt.Fprintf(w, "%s:", label)
		for _, s := range t.Samples {
			fmt.Fprintf(w, " %s", util.FormatValueFactor(s, unit))
		}
		fmt.Fprintln(w)
	}
}
