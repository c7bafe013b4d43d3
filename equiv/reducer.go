package equiv

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/katalvlaran/oacanon/canon"
	"github.com/katalvlaran/oacanon/design"
	"github.com/katalvlaran/oacanon/transform"
)

// DefaultCacheSize is the number of canonical forms a Reducer keeps when
// NewReducer is given a non-positive size.
const DefaultCacheSize = 1024

// ErrNilReducer is returned by methods called on a nil *Reducer.
var ErrNilReducer = errors.New("equiv: reducer is nil")

// entry is one cached search result. input guards against hash collisions.
type entry struct {
	input  *design.Array
	result canon.Result
}

// Reducer is the equivalence facade with fixed search options and an LRU
// cache of canonical forms keyed by the array's xxhash. A Reducer is safe for
// concurrent use.
type Reducer struct {
	opts  []canon.Option
	cache *lru.Cache[uint64, entry]
}

// NewReducer returns a Reducer caching up to size results (DefaultCacheSize
// if size ≤ 0) and passing opts to every search.
func NewReducer(size int, opts ...canon.Option) (*Reducer, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[uint64, entry](size)
	if err != nil {
		return nil, fmt.Errorf("equiv: cache: %w", err)
	}

	return &Reducer{opts: opts, cache: cache}, nil
}

// Canonicalize returns the cached search result for a, running the search on
// a miss. Failed searches are not cached.
func (r *Reducer) Canonicalize(ctx context.Context, a *design.Array) (canon.Result, error) {
	if r == nil {
		return canon.Result{}, ErrNilReducer
	}
	if a == nil {
		return canon.Result{}, canon.ErrNilArray
	}
	h := a.Hash()
	if e, ok := r.cache.Get(h); ok && e.input.Equal(a) {
		return e.result, nil
	}
	res, err := canon.Canonicalize(ctx, a, r.opts...)
	if err != nil {
		return canon.Result{}, err
	}
	r.cache.Add(h, entry{input: a, result: res})

	return res, nil
}

// Reduce is the cached form of the package-level Reduce.
func (r *Reducer) Reduce(ctx context.Context, a *design.Array) (*design.Array, error) {
	res, err := r.Canonicalize(ctx, a)
	if err != nil {
		return nil, err
	}

	return res.Array, nil
}

// ReductionTransform is the cached form of the package-level ReductionTransform.
func (r *Reducer) ReductionTransform(ctx context.Context, a *design.Array) (*transform.Transformation, error) {
	res, err := r.Canonicalize(ctx, a)
	if err != nil {
		return nil, err
	}

	return res.Transform, nil
}

// IsCanonical is the cached form of the package-level IsCanonical.
func (r *Reducer) IsCanonical(ctx context.Context, a *design.Array) (int, error) {
	return isCanonical(ctx, a, r.Reduce)
}

// AreEquivalent is the cached form of the package-level AreEquivalent.
func (r *Reducer) AreEquivalent(ctx context.Context, a, b *design.Array) (bool, error) {
	return areEquivalent(ctx, a, b, r.Reduce)
}

// SelectClasses is the cached form of the package-level SelectClasses.
func (r *Reducer) SelectClasses(ctx context.Context, arrays []*design.Array) ([]int, error) {
	return selectClasses(ctx, arrays, r.Reduce)
}

// Len returns the number of cached results.
func (r *Reducer) Len() int {
	if r == nil {
		return 0
	}

	return r.cache.Len()
}

// Purge empties the cache.
func (r *Reducer) Purge() {
	if r != nil {
		r.cache.Purge()
	}
}
