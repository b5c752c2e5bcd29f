package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBuilder is a minimal Stamper recording raw contributions by (row,col)
// and by row for RHS, used to check individual element stamps in isolation.
type fakeBuilder struct {
	mat map[[2]int]float64
	rhs map[int]float64
}

func newFakeBuilder() *fakeBuilder {
	return &fakeBuilder{mat: make(map[[2]int]float64), rhs: make(map[int]float64)}
}

func (f *fakeBuilder) AddElement(i, j int, v float64) { f.mat[[2]int{i, j}] += v }
func (f *fakeBuilder) AddRHS(i int, v float64)        { f.rhs[i] += v }

func TestResistorStamp(t *testing.T) {
	r := NewResistor("R1", 1, 2, 1000)
	s := newFakeBuilder()
	require.NoError(t, r.Stamp(s, nil))

	g := 1.0 / 1000
	assert.InDelta(t, g, s.mat[[2]int{1, 1}], 1e-12)
	assert.InDelta(t, -g, s.mat[[2]int{1, 2}], 1e-12)
	assert.InDelta(t, -g, s.mat[[2]int{2, 1}], 1e-12)
	assert.InDelta(t, g, s.mat[[2]int{2, 2}], 1e-12)
}

func TestVoltageSourceStamp(t *testing.T) {
	v := NewDCVoltageSource("V1", 1, 0, 10)
	branches := NewBranchTable()
	branches.Assign("V1", 3)

	s := newFakeBuilder()
	require.NoError(t, v.Stamp(s, branches))

	assert.Equal(t, 1.0, s.mat[[2]int{3, 1}])
	assert.Equal(t, -1.0, s.mat[[2]int{3, 0}]) // ground column, harmless to record here
	assert.Equal(t, 1.0, s.mat[[2]int{1, 3}])
	assert.Equal(t, 10.0, s.rhs[3])
}

func TestCurrentSourceStampsRHSOnly(t *testing.T) {
	i := NewDCCurrentSource("I1", 1, 0, 2)
	s := newFakeBuilder()
	require.NoError(t, i.Stamp(s, nil))

	assert.Empty(t, s.mat)
	assert.Equal(t, -2.0, s.rhs[1])
	assert.Equal(t, 2.0, s.rhs[0])
}

func TestCapacitorStampIsNoOp(t *testing.T) {
	c := NewCapacitor("C1", 1, 0, 1e-6)
	s := newFakeBuilder()
	require.NoError(t, c.Stamp(s, nil))
	assert.Empty(t, s.mat)
	assert.Empty(t, s.rhs)
}

func TestMosfetRegions(t *testing.T) {
	models := NewModelTable()
	models.Add(1, MosfetModel{Vth: 1, Mu: 1, Lambda: 0, Cox: 1})
	m := NewMosfet("M1", 1, 2, 0, NMOS, 1, 1, 1, models)

	assert.Equal(t, cutoff, m.region(0.5, 2))
	assert.Equal(t, linear, m.region(2, 0.5))
	assert.Equal(t, saturation, m.region(2, 5))
}

func TestMosfetIeqConsistentWithNortonStamp(t *testing.T) {
	models := NewModelTable()
	models.Add(1, MosfetModel{Vth: 1, Mu: 1, Lambda: 0, Cox: 1})
	m := NewMosfet("M1", 1, 2, 0, NMOS, 1, 1, 1, models)

	vgs, vds := 2.0, 3.0
	ids := m.Ids(vgs, vds)
	gds := m.Gds(vgs, vds)
	gm := m.Gm(vgs, vds)
	ieq := m.Ieq(vgs, vds)

	// The Norton-equivalent current plus the linearized conductance terms
	// must reconstruct the true device current at this bias point.
	assert.InDelta(t, ids, ieq+gds*vds+gm*vgs, 1e-9)
}
