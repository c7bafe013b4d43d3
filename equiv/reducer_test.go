package equiv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/oacanon/canon"
	"github.com/katalvlaran/oacanon/design"
	"github.com/katalvlaran/oacanon/equiv"
	"github.com/katalvlaran/oacanon/transform"
)

func TestReducer_CachesResults(t *testing.T) {
	r, err := equiv.NewReducer(4)
	require.NoError(t, err)

	a := example(t, "pb12-2^11")
	first, err := r.Canonicalize(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())

	second, err := r.Canonicalize(ctx, a)
	require.NoError(t, err)
	assert.Same(t, first.Array, second.Array, "second call must be served from the cache")
	assert.Equal(t, 1, r.Len())

	r.Purge()
	assert.Equal(t, 0, r.Len())
}

func TestReducer_EvictsLeastRecentlyUsed(t *testing.T) {
	r, err := equiv.NewReducer(2)
	require.NoError(t, err)
	for _, id := range []string{"oa4-2^3", "ff8-2^3", "oa8-2^4"} {
		_, err = r.Reduce(ctx, example(t, id))
		require.NoError(t, err)
	}
	assert.Equal(t, 2, r.Len())
}

func TestReducer_MatchesPackageFunctions(t *testing.T) {
	r, err := equiv.NewReducer(0, canon.WithWorkers(2))
	require.NoError(t, err)
	rng := transform.NewRNG(17)

	for _, id := range design.ExampleIDs() {
		a := example(t, id)
		got, err := r.Reduce(ctx, a)
		require.NoError(t, err)
		assert.True(t, got.Equal(reduce(t, a)), id)

		tr, err := r.ReductionTransform(ctx, a)
		require.NoError(t, err)
		applied, err := tr.Apply(a)
		require.NoError(t, err)
		assert.True(t, applied.Equal(got), id)

		c, err := r.IsCanonical(ctx, got)
		require.NoError(t, err)
		assert.Zero(t, c, id)

		b, err := transform.Random(a.Rows(), a.Levels(), rng).Apply(a)
		require.NoError(t, err)
		ok, err := r.AreEquivalent(ctx, a, b)
		require.NoError(t, err)
		assert.True(t, ok, id)
	}

	classes, err := r.SelectClasses(ctx, []*design.Array{example(t, "oa4-2^3"), example(t, "oa4-2^3")})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0}, classes)
}

func TestReducer_Nil(t *testing.T) {
	var r *equiv.Reducer
	_, err := r.Canonicalize(ctx, example(t, "oa4-2^3"))
	assert.ErrorIs(t, err, equiv.ErrNilReducer)
	_, err = r.IsCanonical(ctx, example(t, "oa4-2^3"))
	assert.ErrorIs(t, err, equiv.ErrNilReducer)
	assert.Zero(t, r.Len())
}
