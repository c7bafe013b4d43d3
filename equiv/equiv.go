// Package equiv is the equivalence facade over the canonical search: reduce an
// array to its canonical representative, recover the reduction
// transformation, decide equivalence and partition collections into classes.
package equiv

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/oacanon/canon"
	"github.com/katalvlaran/oacanon/design"
	"github.com/katalvlaran/oacanon/transform"
)

// ErrIncompatibleSignature is returned by AreEquivalent when the two arrays
// have different level-group signatures. It is the transform sentinel, so
// errors.Is matches either name.
var ErrIncompatibleSignature = transform.ErrIncompatibleSignature

// Reduce returns the canonical representative of a.
//
// Errors: canon.ErrNilArray, canon.ErrSearchBudgetExceeded.
func Reduce(ctx context.Context, a *design.Array, opts ...canon.Option) (*design.Array, error) {
	res, err := canon.Canonicalize(ctx, a, opts...)
	if err != nil {
		return nil, err
	}

	return res.Array, nil
}

// ReductionTransform returns the transformation T used to reach the canonical
// representative: T.Apply(a) equals Reduce(a).
func ReductionTransform(ctx context.Context, a *design.Array, opts ...canon.Option) (*transform.Transformation, error) {
	res, err := canon.Canonicalize(ctx, a, opts...)
	if err != nil {
		return nil, err
	}

	return res.Transform, nil
}

// IsCanonical compares a with its canonical representative in the
// design.Array Compare order: 0 when a already is its canonical form, -1
// when a sorts before it and +1 when a sorts after it.
//
// Errors: canon.ErrNilArray, canon.ErrSearchBudgetExceeded.
func IsCanonical(ctx context.Context, a *design.Array, opts ...canon.Option) (int, error) {
	return isCanonical(ctx, a, func(ctx context.Context, x *design.Array) (*design.Array, error) {
		return Reduce(ctx, x, opts...)
	})
}

// AreEquivalent reports whether a and b lie in the same equivalence class.
// Arrays with different level-group signatures are rejected with
// ErrIncompatibleSignature before any search; arrays with different row
// counts are simply not equivalent.
func AreEquivalent(ctx context.Context, a, b *design.Array, opts ...canon.Option) (bool, error) {
	return areEquivalent(ctx, a, b, func(ctx context.Context, x *design.Array) (*design.Array, error) {
		return Reduce(ctx, x, opts...)
	})
}

// SelectClasses assigns every array the index of its equivalence class.
// Classes are numbered in order of first occurrence, so classes[i] ≤ i and
// the first array of each class is its representative. Arrays are reduced
// concurrently, at most GOMAXPROCS at a time; the first failure cancels the
// rest and is returned.
func SelectClasses(ctx context.Context, arrays []*design.Array, opts ...canon.Option) ([]int, error) {
	return selectClasses(ctx, arrays, func(ctx context.Context, x *design.Array) (*design.Array, error) {
		return Reduce(ctx, x, opts...)
	})
}

type reduceFunc func(context.Context, *design.Array) (*design.Array, error)

func isCanonical(ctx context.Context, a *design.Array, reduce reduceFunc) (int, error) {
	if a == nil {
		return 0, canon.ErrNilArray
	}
	r, err := reduce(ctx, a)
	if err != nil {
		return 0, err
	}

	return a.Compare(r), nil
}

func areEquivalent(ctx context.Context, a, b *design.Array, reduce reduceFunc) (bool, error) {
	if a == nil || b == nil {
		return false, canon.ErrNilArray
	}
	if !a.Signature().Equal(b.Signature()) {
		return false, fmt.Errorf("equiv: %v vs %v: %w", a.Signature(), b.Signature(), ErrIncompatibleSignature)
	}
	if a.Rows() != b.Rows() {
		return false, nil
	}
	ra, err := reduce(ctx, a)
	if err != nil {
		return false, err
	}
	rb, err := reduce(ctx, b)
	if err != nil {
		return false, err
	}

	return ra.Equal(rb), nil
}

func selectClasses(ctx context.Context, arrays []*design.Array, reduce reduceFunc) ([]int, error) {
	canonical := make([]*design.Array, len(arrays))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, a := range arrays {
		g.Go(func() error {
			r, err := reduce(gctx, a)
			if err != nil {
				return fmt.Errorf("equiv: array %d: %w", i, err)
			}
			canonical[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var (
		classes = make([]int, len(arrays))
		buckets = make(map[uint64][]int) // hash → indices of class representatives
		next    int
	)
	for i, r := range canonical {
		h := r.Hash()
		found := -1
		for _, rep := range buckets[h] {
			if canonical[rep].Equal(r) {
				found = classes[rep]
				break
			}
		}
		if found < 0 {
			found = next
			next++
			buckets[h] = append(buckets[h], i)
		}
		classes[i] = found
	}

	return classes, nil
}
