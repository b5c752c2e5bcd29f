package analyzer

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/edp1096/nodal-spice/pkg/element"
	"github.com/edp1096/nodal-spice/pkg/netlist"
	"github.com/edp1096/nodal-spice/pkg/solver"
)

// RunDC assembles the DC equation, runs Newton to the operating point,
// and writes one line per node to w.
func RunDC(nl *netlist.Netlist, disp int, w io.Writer, log zerolog.Logger) error {
	eq, branches, elems := nl.DCEquation()
	nonlinear := nonlinearElements(elems)

	log.Debug().Int("dimension", eq.A.Dim()).Int("nonlinear", len(nonlinear)).Msg("assembled DC equation")

	x, err := solver.Solve(eq, nonlinear, branches, nil)
	if err != nil {
		return err
	}

	for i := 1; i <= nl.NodeCount(); i++ {
		fmt.Fprintf(w, "Node[%d]: %.*f V\n", i, disp, x.GetByNodeID(i))
	}
	nl.Sample(netlist.DCMode, x, branches)
	return nil
}

func nonlinearElements(elems []element.Element) []element.NonlinearElement {
	var out []element.NonlinearElement
	for _, e := range elems {
		if nl, ok := e.(element.NonlinearElement); ok {
			out = append(out, nl)
		}
	}
	return out
}
