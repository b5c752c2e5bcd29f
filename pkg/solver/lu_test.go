package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/nodal-spice/pkg/spmat"
)

func buildDense(vals [][]float64) *spmat.CSRMatrix {
	n := len(vals)
	b := spmat.NewTripletBuilder(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if vals[i][j] != 0 {
				b.PushWithNodeID(i+1, j+1, vals[i][j])
			}
		}
	}
	return b.Build()
}

func TestFactorSolveReproducesKnownSolution(t *testing.T) {
	// 2x + y = 5; x + 3y = 10  =>  x=1, y=3
	a := buildDense([][]float64{{2, 1}, {1, 3}})
	rhsBuilder := spmat.NewVecBuilder(2)
	rhsBuilder.PushWithNodeID(1, 5)
	rhsBuilder.PushWithNodeID(2, 10)
	rhs := rhsBuilder.Build()

	lu, err := Factor(a, nil)
	require.NoError(t, err)

	x := lu.Solve(rhs)
	assert.InDelta(t, 1.0, x.At(0), 1e-9)
	assert.InDelta(t, 3.0, x.At(1), 1e-9)
}

func TestFactorRequiresPivoting(t *testing.T) {
	// Zero on the natural diagonal forces a row swap to proceed.
	a := buildDense([][]float64{{0, 1}, {1, 1}})
	rhsBuilder := spmat.NewVecBuilder(2)
	rhsBuilder.PushWithNodeID(1, 2)
	rhsBuilder.PushWithNodeID(2, 3)
	rhs := rhsBuilder.Build()

	lu, err := Factor(a, nil)
	require.NoError(t, err)
	x := lu.Solve(rhs)
	// y=2 (from row 1), x+y=3 => x=1
	assert.InDelta(t, 1.0, x.At(0), 1e-9)
	assert.InDelta(t, 2.0, x.At(1), 1e-9)
}

func TestFactorSingularMatrixFails(t *testing.T) {
	// Two identical rows: no pivot can make column 2 nonzero after elimination.
	a := buildDense([][]float64{{1, 1}, {1, 1}})
	_, err := Factor(a, nil)
	require.Error(t, err)
}

func TestFactorReusesCachedPermutation(t *testing.T) {
	a := buildDense([][]float64{{0, 1}, {1, 1}})
	lu, err := Factor(a, nil)
	require.NoError(t, err)

	lu2, err := Factor(a, lu.Perm())
	require.NoError(t, err)
	assert.Equal(t, lu.Perm(), lu2.Perm())
}
