package invariant_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/oacanon/design"
	"github.com/katalvlaran/oacanon/invariant"
	"github.com/katalvlaran/oacanon/transform"
)

func example(t *testing.T, id string) *design.Array {
	t.Helper()
	a, err := design.Example(id)
	require.NoError(t, err)

	return a
}

func TestGWLP_KnownDesigns(t *testing.T) {
	assert.Equal(t, []float64{1, 0, 0, 1}, invariant.GWLP(example(t, "oa4-2^3")))
	assert.Equal(t, []float64{1, 0, 0, 0}, invariant.GWLP(example(t, "ff8-2^3")))
	assert.Equal(t, []float64{1, 0, 0, 0, 1}, invariant.GWLP(example(t, "oa8-2^4")))

	// Strength-2 designs have A_1 = A_2 = 0.
	for _, id := range []string{"oa9-3^4", "oa16-4.2^6", "oa18-2.3^3"} {
		g := invariant.GWLP(example(t, id))
		assert.Equal(t, 1.0, g[0], id)
		assert.Equal(t, 0.0, g[1], id)
		assert.Equal(t, 0.0, g[2], id)
	}
}

func TestGWLP_NonOrthogonal(t *testing.T) {
	// Column 0 is constant: A_1 counts its squared imbalance.
	a := design.MustFromRows([][]int{{0, 0}, {0, 1}})
	levels, err := design.New(a.RowSlices(), []int{2, 2})
	require.NoError(t, err)
	g := invariant.GWLP(levels)
	assert.Equal(t, 1.0, g[0])
	assert.Equal(t, 1.0, g[1])
	assert.Equal(t, 0.0, g[2])
}

func TestGWLP_NoColumns(t *testing.T) {
	e, err := design.Empty(5)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, invariant.GWLP(e))
	assert.Equal(t, invariant.Vector{25}, invariant.ScaledGWLP(e))
}

func TestDistanceDistribution(t *testing.T) {
	dd := invariant.DistanceDistribution(example(t, "oa4-2^3"))
	assert.Equal(t, map[string]int64{"0": 4, "2": 12}, dd)
}

func TestCrossTab(t *testing.T) {
	a := example(t, "oa4-2^3")
	assert.Equal(t, [][]int{{1, 1}, {1, 1}}, invariant.CrossTab(a, 0, 1))
	assert.Nil(t, invariant.CrossTab(a, 0, 3))

	b := design.MustFromRows([][]int{{0, 0}, {0, 0}, {1, 1}})
	assert.Equal(t, [][]int{{2, 0}, {0, 1}}, invariant.CrossTab(b, 0, 1))
}

// All invariants must follow their column/row through any group element.
func TestInvariants_AreGroupInvariant(t *testing.T) {
	rng := transform.NewRNG(99)
	for _, id := range design.ExampleIDs() {
		a := example(t, id)
		cols := invariant.ColumnInvariants(a)
		rows := invariant.RowInvariants(a)
		whole := invariant.ArrayInvariant(a)

		for trial := 0; trial < 3; trial++ {
			tr := transform.RandomFull(a.Rows(), a.Levels(), rng)
			b, err := tr.Apply(a)
			require.NoError(t, err)

			assert.True(t, whole.Equal(invariant.ArrayInvariant(b)), id)
			cp, rp := tr.ColPerm(), tr.RowPerm()
			for j := 0; j < b.Cols(); j++ {
				assert.True(t, cols[cp[j]].Equal(invariant.ColumnInvariant(b, j)), "%s column %d", id, j)
			}
			for i := 0; i < b.Rows(); i++ {
				assert.True(t, rows[rp[i]].Equal(invariant.RowInvariant(b, i)), "%s row %d", id, i)
			}
		}
	}
}

func TestColumnInvariant_Distinguishes(t *testing.T) {
	// Column 2 duplicates column 0; column 1 is independent of both.
	a := design.MustFromRows([][]int{{0, 0, 0}, {0, 1, 0}, {1, 0, 1}, {1, 1, 1}})
	c0 := invariant.ColumnInvariant(a, 0)
	c1 := invariant.ColumnInvariant(a, 1)
	c2 := invariant.ColumnInvariant(a, 2)
	assert.True(t, c0.Equal(c2))
	assert.False(t, c0.Equal(c1))
	assert.Nil(t, invariant.ColumnInvariant(a, 3))
	assert.Nil(t, invariant.RowInvariant(a, -1))
}

func TestVector_Compare(t *testing.T) {
	assert.Equal(t, -1, invariant.Vector{1, 2}.Compare(invariant.Vector{1, 3}))
	assert.Equal(t, -1, invariant.Vector{1}.Compare(invariant.Vector{1, 0}))
	assert.Equal(t, 0, invariant.Vector{4}.Compare(invariant.Vector{4}))
	assert.Equal(t, "(1, -2)", invariant.Vector{1, -2}.String())
}
