package solver

import (
	"github.com/edp1096/nodal-spice/pkg/element"
	"github.com/edp1096/nodal-spice/pkg/netlist"
	"github.com/edp1096/nodal-spice/pkg/spiceerr"
	"github.com/edp1096/nodal-spice/pkg/spmat"
)

const (
	maxIterations  = 100
	convergenceTol = 1e-6
)

// Solve runs fixed-point Newton-Raphson over a linear base system plus a
// list of nonlinear elements that relinearize at the current guess every
// iteration. base is never mutated; a fresh clone is stamped into each
// iteration. x0 seeds the first guess (the zero vector for a cold DC
// solve, or the previous accepted solution for a transient step).
func Solve(base *netlist.Equation, nonlinear []element.NonlinearElement, branches *element.BranchTable, x0 *spmat.SparseVector) (*spmat.SparseVector, error) {
	x := x0
	if x == nil {
		x = spmat.NewSparseVector(base.A.Dim())
	} else {
		x = x.Clone()
	}

	var perm []int
	for iter := 0; iter < maxIterations; iter++ {
		eq := base.Clone()
		stamper := &netlist.LiveStamper{Mat: eq.A, RHS: eq.B}
		for _, nl := range nonlinear {
			if err := nl.UpdateNonlinear(stamper, x, branches); err != nil {
				return nil, err
			}
		}

		lu, err := Factor(eq.A, perm)
		if err != nil {
			return nil, err
		}
		perm = lu.Perm()
		xNext := lu.Solve(eq.B)

		dSq := squaredL2Diff(x, xNext)
		x = xNext
		if dSq < convergenceTol {
			return x, nil
		}
		if len(nonlinear) == 0 {
			// A purely linear system is exact in one solve; iterating again
			// would just repeat the same answer.
			return x, nil
		}
	}

	return nil, spiceerr.NonConvergence("exceeded %d iterations", maxIterations)
}

func squaredL2Diff(a, b *spmat.SparseVector) float64 {
	sum := 0.0
	for i := 0; i < a.Dim(); i++ {
		d := a.At(i) - b.At(i)
		sum += d * d
	}
	return sum
}
