package spmat

import "testing"

func TestTripletBuilderDropsGround(t *testing.T) {
	b := NewTripletBuilder(2)
	b.PushWithNodeID(0, 1, 5) // row=ground, dropped
	b.PushWithNodeID(1, 0, 5) // col=ground, dropped
	b.PushWithNodeID(1, 1, 3)

	m := b.Build()
	if got := m.GetByNodeID(1, 1); got != 3 {
		t.Fatalf("GetByNodeID(1,1) = %v, want 3", got)
	}
	if got := m.GetByNodeID(0, 1); got != 0 {
		t.Fatalf("ground row should read back 0, got %v", got)
	}
}

func TestTripletBuilderSumsDuplicates(t *testing.T) {
	b := NewTripletBuilder(1)
	b.PushWithNodeID(1, 1, 2)
	b.PushWithNodeID(1, 1, 3)

	m := b.Build()
	if got := m.GetByNodeID(1, 1); got != 5 {
		t.Fatalf("duplicate stamps should sum additively: got %v, want 5", got)
	}
}

func TestTripletBuilderAppliedTwiceDoubles(t *testing.T) {
	stamp := func(b *TripletBuilder) {
		b.PushWithNodeID(1, 1, 4)
		b.PushWithNodeID(1, 2, -4)
	}
	b := NewTripletBuilder(2)
	stamp(b)
	stamp(b)
	m := b.Build()
	if got := m.GetByNodeID(1, 1); got != 8 {
		t.Fatalf("applying a stamp twice should double it: got %v, want 8", got)
	}
	if got := m.GetByNodeID(1, 2); got != -8 {
		t.Fatalf("applying a stamp twice should double it: got %v, want -8", got)
	}
}

func TestCSRMatrixCloneIsIndependent(t *testing.T) {
	b := NewTripletBuilder(1)
	b.PushWithNodeID(1, 1, 1)
	m := b.Build()

	clone := m.Clone()
	clone.UpdateByNodeID(1, 1, 99)

	if got := m.GetByNodeID(1, 1); got != 1 {
		t.Fatalf("mutating a clone should not affect the original: got %v", got)
	}
	if got := clone.GetByNodeID(1, 1); got != 99 {
		t.Fatalf("clone mutation did not apply: got %v", got)
	}
}

func TestSparseVectorGroundReadsZero(t *testing.T) {
	v := NewSparseVector(3)
	v.AddByNodeID(0, 100) // dropped
	v.AddByNodeID(1, 5)

	if got := v.GetByNodeID(0); got != 0 {
		t.Fatalf("ground should read back 0, got %v", got)
	}
	if got := v.GetByNodeID(1); got != 5 {
		t.Fatalf("GetByNodeID(1) = %v, want 5", got)
	}
}

func TestVecBuilderSumsDuplicates(t *testing.T) {
	b := NewVecBuilder(2)
	b.PushWithNodeID(1, 3)
	b.PushWithNodeID(1, 4)
	v := b.Build()
	if got := v.GetByNodeID(1); got != 7 {
		t.Fatalf("duplicate vector contributions should sum: got %v, want 7", got)
	}
}
