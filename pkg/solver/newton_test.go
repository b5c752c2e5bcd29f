package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/nodal-spice/pkg/netlist"
)

func TestSolveVoltageDividerConvergesInOneIteration(t *testing.T) {
	pr, err := netlist.Parse("title\nV1 1 0 DC 10\nR1 1 2 1000\nR2 2 0 1000\n")
	require.NoError(t, err)
	nl, err := netlist.Build(pr)
	require.NoError(t, err)

	eq, branches, _ := nl.DCEquation()
	x, err := Solve(eq, nil, branches, nil)
	require.NoError(t, err)

	assert.InDelta(t, 10.0, x.GetByNodeID(1), 1e-9)
	assert.InDelta(t, 5.0, x.GetByNodeID(2), 1e-9)
}

func TestSolveCurrentSourceIntoResistor(t *testing.T) {
	pr, err := netlist.Parse("title\nI1 0 1 DC 2\nR1 1 0 5\n")
	require.NoError(t, err)
	nl, err := netlist.Build(pr)
	require.NoError(t, err)

	eq, branches, _ := nl.DCEquation()
	x, err := Solve(eq, nil, branches, nil)
	require.NoError(t, err)

	assert.InDelta(t, 10.0, x.GetByNodeID(1), 1e-9)
}

func TestSolveSingularNetworkFails(t *testing.T) {
	pr, err := netlist.Parse("title\nV1 1 0 DC 5\nV2 1 0 DC 3\nR1 1 0 1000\n")
	require.NoError(t, err)
	nl, err := netlist.Build(pr)
	require.NoError(t, err)

	eq, branches, _ := nl.DCEquation()
	_, err = Solve(eq, nil, branches, nil)
	require.Error(t, err)
}
