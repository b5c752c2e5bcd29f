// Package spmat provides the sparse matrix/vector primitives the rest of
// the simulator builds on: a triplet builder, a CSR matrix finalized from
// triplets with additive duplicate-summing, and a sparse vector. Node id 0
// is always ground and is dropped by every node-indexed accessor; a
// non-zero node id n refers to 0-based storage index n-1.
package spmat

// TripletBuilder accumulates (row, col, value) contributions before a
// matrix's sparsity pattern is finalized. PushWithNodeID treats 0 as
// ground and drops the contribution; all other ids are shifted down by
// one. Duplicate (row, col) pairs are summed by Build.
type TripletBuilder struct {
	Size int
	rows []int
	cols []int
	vals []float64
}

// NewTripletBuilder creates a builder for an initial size x size system.
func NewTripletBuilder(size int) *TripletBuilder {
	return &TripletBuilder{Size: size}
}

// ExtendSize grows the builder's declared dimension by k and returns the
// first newly available 1-based row/column index.
func (b *TripletBuilder) ExtendSize(k int) int {
	first := b.Size + 1
	b.Size += k
	return first
}

// PushWithNodeID records a contribution at (row, col); either coordinate
// being ground (0) silently drops the whole entry.
func (b *TripletBuilder) PushWithNodeID(row, col int, v float64) {
	if row == 0 || col == 0 {
		return
	}
	b.rows = append(b.rows, row-1)
	b.cols = append(b.cols, col-1)
	b.vals = append(b.vals, v)
}

// Build finalizes the triplets into a CSR matrix, summing duplicates.
func (b *TripletBuilder) Build() *CSRMatrix {
	return newCSRFromTriplets(b.Size, b.rows, b.cols, b.vals)
}
