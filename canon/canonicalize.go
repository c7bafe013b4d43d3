package canon

import (
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/oacanon/design"
	"github.com/katalvlaran/oacanon/partition"
	"github.com/katalvlaran/oacanon/transform"
)

// Canonicalize returns the canonical representative of a's equivalence class
// and a transformation T with T.Apply(a) equal to it.
//
// Two arrays are equivalent exactly when their canonical arrays are equal.
// The canonical array does not depend on Workers, pruning, or the order in
// which equal leaves are met; with Workers > 1 the returned transformation
// may be any of the optimal ones.
//
// Errors:
//   - ErrNilArray if a is nil.
//   - ErrSearchBudgetExceeded (wrapping ctx.Err() when the context ended) if
//     the search is cut short. No partial result is returned.
func Canonicalize(ctx context.Context, a *design.Array, opts ...Option) (Result, error) {
	if a == nil {
		return Result{}, ErrNilArray
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	o.Observer.OnSearchStart(ctx, a.Rows(), a.Cols())
	res, err := run(ctx, a, o)
	res.Stats.Elapsed = time.Since(start)
	o.Observer.OnSearchComplete(ctx, res.Stats, err)

	if err != nil {
		o.Logger.Debug("canonical search aborted",
			"rows", a.Rows(), "cols", a.Cols(),
			"nodes", res.Stats.Nodes, "elapsed", res.Stats.Elapsed, "err", err)
		return Result{Stats: res.Stats}, err
	}
	o.Logger.Debug("canonical search finished",
		"rows", a.Rows(), "cols", a.Cols(),
		"nodes", res.Stats.Nodes, "leaves", res.Stats.Leaves,
		"pruned", res.Stats.Pruned, "orbit_pruned", res.Stats.OrbitPruned,
		"automorphisms", res.Stats.Automorphisms, "elapsed", res.Stats.Elapsed)

	return res, nil
}

func run(ctx context.Context, a *design.Array, o Options) (Result, error) {
	// Without columns every row is the empty tuple: a is its own canonical form.
	if a.Cols() == 0 {
		return Result{Array: a, Transform: transform.IdentityFor(a)}, nil
	}

	// The engine starts the time limit, so the refiner setup counts against it.
	var (
		e          = newEngine(ctx, a, nil, o)
		rows, cols *partition.Partition
		stats      Stats
	)
	if err := e.prepare(); err != nil {
		return Result{}, err
	}
	if o.AutomorphismPruning {
		e.seedAutomorphisms()
	}
	rows, cols, _ = e.ref.Root()
	if o.Workers > 1 {
		stats = e.searchParallel(rows, cols, o.Workers)
	} else {
		e.search(rows, cols, nil)
		stats = e.stats
	}

	if err := e.sh.failure(); err != nil {
		return Result{Stats: stats}, err
	}
	best := e.sh.best.Load()
	if best == nil {
		// Unreachable for k > 0: the leftmost path always reaches a leaf.
		return Result{Stats: stats}, fmt.Errorf("canon: search produced no leaf")
	}

	res, err := e.result(best)
	res.Stats = stats

	return res, err
}

// prepare builds the Refiner under the context and the time limit. The
// static invariants cost O(N²·k²), so large arrays must be able to stop here.
func (e *engine) prepare() error {
	ctx := e.ctx
	if e.useDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, e.deadline)
		defer cancel()
	}
	ref, err := partition.NewRefinerContext(ctx, e.a)
	if err != nil {
		if cerr := e.ctx.Err(); cerr != nil {
			return fmt.Errorf("%w: %w", ErrSearchBudgetExceeded, cerr)
		}
		return fmt.Errorf("%w: time limit", ErrSearchBudgetExceeded)
	}
	e.ref = ref

	return nil
}

// searchParallel expands the root and explores its children concurrently,
// at most workers at a time. Children in one orbit of the seeded
// automorphisms are explored once. Automorphisms found by the branches are
// appended to e's.
func (e *engine) searchParallel(rows, cols *partition.Partition, workers int) Stats {
	if e.check() {
		return e.stats
	}
	e.stats.Nodes++
	axis, cell := e.target(rows, cols)
	if cell < 0 {
		e.leaf(rows, cols)
		return e.stats
	}

	var members []int
	if axis == rowAxis {
		members = rows.Cell(cell)
	} else {
		members = cols.Cell(cell)
	}
	reps := members
	if e.autPrune {
		reps = e.orbits(axis, nil).representatives(members)
		e.stats.OrbitPruned += int64(len(members) - len(reps))
	}

	var (
		branchStats = make([]Stats, len(reps))
		branchAutos = make([][]automorphism, len(reps))
		seeded      = len(e.autos)
	)
	g, gctx := errgroup.WithContext(e.ctx)
	g.SetLimit(workers)
	for b, x := range reps {
		g.Go(func() error {
			w := e.fork(gctx, b)
			cr, cc := w.child(rows, cols, axis, x)
			w.search(cr, cc, []int{w.elem(axis, x)})
			branchStats[b] = w.stats
			branchAutos[b] = w.autos[seeded:]
			// Report the abort so errgroup cancels the remaining branches.
			return w.sh.failure()
		})
	}
	_ = g.Wait() // the abort reason is kept in e.sh

	stats := e.stats
	for b, s := range branchStats {
		stats.add(s)
		e.autos = append(e.autos, branchAutos[b]...)
	}

	return stats
}

// result materializes the canonical array and transformation of leaf best.
func (e *engine) result(best *incumbent) (Result, error) {
	out := make([]int, e.k)
	for j, c := range best.cols {
		out[j] = e.levels[c]
	}
	arr, err := design.FromData(e.n, out, best.image)
	if err != nil {
		return Result{}, fmt.Errorf("canon: canonical image: %w", err)
	}
	tr, err := transform.New(best.rows, best.cols, e.symbolMaps(best.rows, best.cols), e.levels)
	if err != nil {
		return Result{}, fmt.Errorf("canon: canonical transformation: %w", err)
	}

	autos := make([]Automorphism, len(e.autos))
	for i, g := range e.autos {
		autos[i] = Automorphism{Rows: slices.Clone(g.rows), Cols: slices.Clone(g.cols)}
	}

	return Result{Array: arr, Transform: tr, Automorphisms: autos}, nil
}
