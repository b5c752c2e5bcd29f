// Package solver provides Doolittle LU factorization with partial
// pivoting and Newton-Raphson iteration over it.
package solver

import (
	"math"

	"github.com/edp1096/nodal-spice/pkg/spiceerr"
	"github.com/edp1096/nodal-spice/pkg/spmat"
)

// LU holds a factored dense system: L and U combined in one matrix (the
// standard Doolittle compact-storage trick — L's unit diagonal is never
// stored) plus the row permutation pivoting produced.
type LU struct {
	n    int
	a    []float64 // n*n, combined L/U
	perm []int     // perm[i] = original row now in position i
}

// Factor runs Doolittle elimination with greedy partial pivoting (the
// redesign this simulator applies relative to the unpivoted source —
// see the pivoting decision recorded alongside this package). When perm
// is non-nil, that row order is reused as-is instead of re-searching for
// pivots — the Newton loop's way of caching π across iterations, since
// the sparsity pattern never changes between them, only the values.
// Returns ErrSingularMatrix if no usable pivot is found (perm == nil) or
// if a cached pivot position turns out to carry a near-zero value.
func Factor(m *spmat.CSRMatrix, perm []int) (*LU, error) {
	n := m.Dim()
	a := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a[i*n+j] = m.At(i, j)
		}
	}

	fixedPerm := perm != nil
	if !fixedPerm {
		perm = make([]int, n)
		for i := range perm {
			perm[i] = i
		}
	} else {
		permuted := make([]float64, n*n)
		for newRow, origRow := range perm {
			copy(permuted[newRow*n:newRow*n+n], a[origRow*n:origRow*n+n])
		}
		a = permuted
	}

	for k := 0; k < n; k++ {
		if !fixedPerm {
			pivotRow, pivotVal := k, math.Abs(a[k*n+k])
			for i := k + 1; i < n; i++ {
				if v := math.Abs(a[i*n+k]); v > pivotVal {
					pivotRow, pivotVal = i, v
				}
			}
			if pivotVal < 1e-300 {
				return nil, spiceerr.Singular("no usable pivot in column %d", k)
			}
			if pivotRow != k {
				swapRows(a, n, k, pivotRow)
				perm[k], perm[pivotRow] = perm[pivotRow], perm[k]
			}
		} else if math.Abs(a[k*n+k]) < 1e-300 {
			return nil, spiceerr.Singular("cached pivot in column %d is singular", k)
		}

		pivot := a[k*n+k]
		for i := k + 1; i < n; i++ {
			factor := a[i*n+k] / pivot
			a[i*n+k] = factor
			for j := k + 1; j < n; j++ {
				a[i*n+j] -= factor * a[k*n+j]
			}
		}
	}

	return &LU{n: n, a: a, perm: perm}, nil
}

// Perm exposes the row permutation this factorization used, for the
// Newton loop to cache and pass to the next iteration's Factor call.
func (lu *LU) Perm() []int { return lu.perm }

func swapRows(a []float64, n, r1, r2 int) {
	for j := 0; j < n; j++ {
		a[r1*n+j], a[r2*n+j] = a[r2*n+j], a[r1*n+j]
	}
}

// Solve applies forward then back substitution against rhs (un-permuted,
// length n) and returns x, also length n.
func (lu *LU) Solve(rhs *spmat.SparseVector) *spmat.SparseVector {
	n := lu.n
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := rhs.At(lu.perm[i])
		for j := 0; j < i; j++ {
			sum -= lu.a[i*n+j] * y[j]
		}
		y[i] = sum
	}

	x := spmat.NewSparseVector(n)
	for i := n - 1; i >= 0; i-- {
		sum := y[i]
		for j := i + 1; j < n; j++ {
			sum -= lu.a[i*n+j] * x.At(j)
		}
		x.Set(i, sum/lu.a[i*n+i])
	}
	return x
}
