package netlist

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/nodal-spice/pkg/spiceerr"
)

func TestParseValueUnits(t *testing.T) {
	cases := map[string]float64{
		"1k":    1000,
		"10meg": 1e7,
		"100n":  1e-7,
		"2.5u":  2.5e-6,
		"-3m":   -3e-3,
	}
	for in, want := range cases {
		got, err := ParseValue(in)
		require.NoError(t, err)
		assert.InDelta(t, want, got, math.Abs(want)*1e-12+1e-18)
	}
}

func TestParseVoltageDivider(t *testing.T) {
	pr, err := Parse("Voltage divider\nV1 1 0 DC 10\nR1 1 2 1000\nR2 2 0 1000\n")
	require.NoError(t, err)
	assert.Equal(t, "Voltage divider", pr.Title)
	require.Len(t, pr.Elements, 3)
}

func TestBuildAssignsNodesInOrderOfAppearance(t *testing.T) {
	pr, err := Parse("title\nV1 1 0 DC 10\nR1 1 2 1000\nR2 2 0 1000\n")
	require.NoError(t, err)
	nl, err := Build(pr)
	require.NoError(t, err)

	assert.Equal(t, 2, nl.NodeCount())
	assert.Equal(t, 1, nl.nodeNames["1"])
	assert.Equal(t, 2, nl.nodeNames["2"])
	assert.Equal(t, 0, nl.nodeNames["0"])
}

func TestDCEquationDimension(t *testing.T) {
	pr, err := Parse("title\nV1 1 0 DC 10\nR1 1 2 1000\nR2 2 0 1000\n")
	require.NoError(t, err)
	nl, err := Build(pr)
	require.NoError(t, err)

	eq, branches, _ := nl.DCEquation()
	// 2 nodes + 1 voltage source auxiliary row.
	assert.Equal(t, 3, eq.A.Dim())
	assert.Equal(t, 3, branches.Row("V1"))
}

func TestMosfetNetlistWithModel(t *testing.T) {
	input := "title\n" +
		"V1 1 0 DC 5\n" +
		"V2 2 0 DC 3\n" +
		"R1 1 3 1000\n" +
		"M1 3 2 0 N W=1 L=1 modelId=1\n" +
		".MODEL 1 VT 1 MU 1 LAMBDA 0 COX 1 CJ0 0\n"
	pr, err := Parse(input)
	require.NoError(t, err)
	nl, err := Build(pr)
	require.NoError(t, err)

	model, ok := nl.Models.Get(1)
	require.True(t, ok)
	assert.Equal(t, 1.0, model.Vth)
	assert.Equal(t, 1.0, model.Mu)
	assert.Equal(t, 1.0, model.Cox)
}

func TestPlotIBAmbiguousSpanIsUnsupported(t *testing.T) {
	input := "title\nV1 1 0 DC 1\nR1 1 0 1000\n.PLOTIB 1 0\n"
	pr, err := Parse(input)
	require.NoError(t, err)
	_, err = Build(pr)
	require.Error(t, err)
	assert.True(t, errors.Is(err, spiceerr.ErrUnsupported))
}

func TestPlotDirectivesBuildTasks(t *testing.T) {
	input := "title\nV1 1 0 DC 1\nR1 1 2 1\n.PLOTNV 1\n.PLOTIB 1 0\n"
	pr, err := Parse(input)
	require.NoError(t, err)
	nl, err := Build(pr)
	require.NoError(t, err)
	require.Len(t, nl.Tasks, 2)
	assert.Equal(t, NodeVoltage, nl.Tasks[0].Kind)
	assert.Equal(t, BranchCurrent, nl.Tasks[1].Kind)
	assert.Equal(t, "V1", nl.Tasks[1].ElemName)
	assert.Equal(t, 1.0, nl.Tasks[1].Sign)
}
