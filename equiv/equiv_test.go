package equiv_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/oacanon/canon"
	"github.com/katalvlaran/oacanon/design"
	"github.com/katalvlaran/oacanon/equiv"
	"github.com/katalvlaran/oacanon/transform"
)

var ctx = context.Background()

func example(t *testing.T, id string) *design.Array {
	t.Helper()
	a, err := design.Example(id)
	require.NoError(t, err)

	return a
}

func reduce(t *testing.T, a *design.Array) *design.Array {
	t.Helper()
	r, err := equiv.Reduce(ctx, a)
	require.NoError(t, err)

	return r
}

// Invariance: reduce(T(A)) == reduce(A).
func TestReduce_Invariance(t *testing.T) {
	rng := transform.NewRNG(2024)
	for _, id := range design.ExampleIDs() {
		a := example(t, id)
		want := reduce(t, a)
		for trial := 0; trial < 4; trial++ {
			tr := transform.Random(a.Rows(), a.Levels(), rng)
			b, err := tr.Apply(a)
			require.NoError(t, err)
			got := reduce(t, b)
			if diff := cmp.Diff(want.RowSlices(), got.RowSlices()); diff != "" {
				t.Errorf("%s trial %d: canonical forms differ (-want +got):\n%s", id, trial, diff)
			}
		}
	}
}

// Self-consistency: ReductionTransform(A).Apply(A) == Reduce(A).
func TestReductionTransform_SelfConsistent(t *testing.T) {
	rng := transform.NewRNG(7)
	for _, id := range design.ExampleIDs() {
		a := example(t, id)
		b, err := transform.RandomFull(a.Rows(), a.Levels(), rng).Apply(a)
		require.NoError(t, err)

		for _, x := range []*design.Array{a, b} {
			tr, err := equiv.ReductionTransform(ctx, x)
			require.NoError(t, err)
			got, err := tr.Apply(x)
			require.NoError(t, err)
			assert.True(t, got.Equal(reduce(t, x)), id)
		}
	}
}

// Idempotence: reduce(reduce(A)) == reduce(A).
func TestReduce_Idempotent(t *testing.T) {
	for _, id := range design.ExampleIDs() {
		r := reduce(t, example(t, id))
		assert.True(t, reduce(t, r).Equal(r), id)
	}
}

// Identity: identity(signature).apply(A) == A.
func TestIdentity_AppliesAsNoOp(t *testing.T) {
	for _, id := range design.ExampleIDs() {
		a := example(t, id)
		got, err := transform.IdentityFor(a).Apply(a)
		require.NoError(t, err)
		assert.True(t, got.Equal(a), id)
	}
}

// Composition: compose(T1, T2).apply(A) == T2.apply(T1.apply(A)).
func TestCompose_MatchesSequentialApply(t *testing.T) {
	rng := transform.NewRNG(99)
	a := example(t, "oa18-2.3^3")
	t1 := transform.Random(a.Rows(), a.Levels(), rng)
	t2 := transform.Random(a.Rows(), a.Levels(), rng)

	c, err := transform.Compose(t1, t2)
	require.NoError(t, err)
	direct, err := c.Apply(a)
	require.NoError(t, err)
	step, err := t1.Apply(a)
	require.NoError(t, err)
	step, err = t2.Apply(step)
	require.NoError(t, err)
	assert.True(t, direct.Equal(step))
}

func TestAreEquivalent_SignatureRejection(t *testing.T) {
	pairs := [][2]string{
		{"oa4-2^3", "oa8-2^4"},
		{"oa9-3^4", "oa8-2^4"},
		{"oa18-2.3^3", "oa16-4.2^6"},
	}
	for _, p := range pairs {
		_, err := equiv.AreEquivalent(ctx, example(t, p[0]), example(t, p[1]))
		assert.ErrorIs(t, err, equiv.ErrIncompatibleSignature, "%v", p)
		assert.True(t, errors.Is(err, transform.ErrIncompatibleSignature))
	}
}

func TestAreEquivalent_Scenarios(t *testing.T) {
	t.Run("row-permuted copy", func(t *testing.T) {
		a := design.MustFromRows([][]int{{0, 0, 0}, {0, 1, 1}, {1, 0, 1}, {1, 1, 0}})
		b := design.MustFromRows([][]int{{1, 0, 1}, {1, 1, 0}, {0, 0, 0}, {0, 1, 1}})
		ok, err := equiv.AreEquivalent(ctx, a, b)
		require.NoError(t, err)
		assert.True(t, ok)
	})
	t.Run("swapped symbols", func(t *testing.T) {
		a := design.MustFromRows([][]int{{0}, {1}, {0}, {0}})
		b := design.MustFromRows([][]int{{1}, {0}, {1}, {1}})
		ok, err := equiv.AreEquivalent(ctx, a, b)
		require.NoError(t, err)
		assert.True(t, ok)
	})
	t.Run("no columns", func(t *testing.T) {
		a, err := design.Empty(5)
		require.NoError(t, err)
		r := reduce(t, a)
		assert.True(t, r.Equal(a))
		tr, err := equiv.ReductionTransform(ctx, a)
		require.NoError(t, err)
		assert.True(t, tr.IsIdentity())
	})
	t.Run("different row counts", func(t *testing.T) {
		ok, err := equiv.AreEquivalent(ctx, example(t, "oa4-2^3"), example(t, "ff8-2^3"))
		require.NoError(t, err)
		assert.False(t, ok)
	})
	t.Run("same signature, different design", func(t *testing.T) {
		a := example(t, "ff8-2^3")
		b := design.MustFromRows([][]int{
			{0, 0, 0}, {0, 0, 0}, {0, 1, 1}, {0, 1, 1},
			{1, 0, 1}, {1, 0, 1}, {1, 1, 0}, {1, 1, 0},
		})
		ok, err := equiv.AreEquivalent(ctx, a, b)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestAreEquivalent_NilArray(t *testing.T) {
	_, err := equiv.AreEquivalent(ctx, nil, example(t, "oa4-2^3"))
	assert.ErrorIs(t, err, canon.ErrNilArray)
}

func TestSelectClasses(t *testing.T) {
	rng := transform.NewRNG(3)
	oa8 := example(t, "oa8-2^4")
	ff8 := example(t, "ff8-2^3")
	moved, err := transform.Random(oa8.Rows(), oa8.Levels(), rng).Apply(oa8)
	require.NoError(t, err)
	ffMoved, err := transform.Random(ff8.Rows(), ff8.Levels(), rng).Apply(ff8)
	require.NoError(t, err)

	arrays := []*design.Array{ff8, oa8, ffMoved, moved, example(t, "oa4-2^3")}
	classes, err := equiv.SelectClasses(ctx, arrays)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0, 1, 2}, classes)
}

func TestSelectClasses_PropagatesFailure(t *testing.T) {
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err := equiv.SelectClasses(cancelled, []*design.Array{example(t, "oa16-4.2^6")})
	assert.ErrorIs(t, err, canon.ErrSearchBudgetExceeded)
}

func TestSelectClasses_Empty(t *testing.T) {
	classes, err := equiv.SelectClasses(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, classes)
}

func TestIsCanonical(t *testing.T) {
	for _, id := range design.ExampleIDs() {
		c, err := equiv.IsCanonical(ctx, reduce(t, example(t, id)))
		require.NoError(t, err)
		assert.Zero(t, c, "%s: a canonical form is canonical", id)
	}

	// The class of [[0] [1] [1]] read in three orders.
	tests := []struct {
		name string
		rows [][]int
		want int
	}{
		{"canonical", [][]int{{0}, {1}, {1}}, 0},
		{"sorts before", [][]int{{0}, {0}, {1}}, -1},
		{"sorts after", [][]int{{1}, {0}, {0}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := design.MustFromRows(tt.rows)
			c, err := equiv.IsCanonical(ctx, a)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c)
			assert.Equal(t, a.Compare(reduce(t, a)), c)
		})
	}
}

func TestIsCanonical_Errors(t *testing.T) {
	_, err := equiv.IsCanonical(ctx, nil)
	assert.ErrorIs(t, err, canon.ErrNilArray)

	_, err = equiv.IsCanonical(ctx, example(t, "oa8-2^4"), canon.WithMaxNodes(1))
	assert.ErrorIs(t, err, canon.ErrSearchBudgetExceeded)
}
