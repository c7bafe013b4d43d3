// Package partition - the refiner.
//
// The Refiner drives an ordered partition of rows and an ordered partition of
// columns of one array through the states
//
//	Unrefined → Refining → Stable | Discrete
//
// A pass computes, for every column and every row, a key relative to the
// current cells and splits each cell by key (sub-cells in ascending key
// order). Passes repeat until one produces no split. Keys are functions of
// cell indices and symbol-relabeling-invariant counts only, so refinement
// commutes with every group element: refining T(A) yields the T-image of
// refining A.
//
// Relative keys:
//   - column j: for each ordered pair of row cells (X, Y) the number of row
//     pairs (x∈X, y∈Y) agreeing in column j; then for each column cell the
//     sorted ranks of the static cross-tab signatures of (j, j').
//   - row r: for each (row cell X, column cell Y) the number of (x, c),
//     x∈X, c∈Y, with a[r][c] == a[x][c].
package partition

import (
	"context"
	"slices"

	"github.com/katalvlaran/oacanon/design"
	"github.com/katalvlaran/oacanon/invariant"
)

// State is the refinement state of a row/column partition pair.
type State int

const (
	// Unrefined: one cell per axis (or per level group for columns).
	Unrefined State = iota
	// Refining: at least one pass is still splitting cells.
	Refining
	// Stable: no pass splits further, but some cell has more than one element.
	Stable
	// Discrete: every cell on both axes is a singleton. Terminal.
	Discrete
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case Unrefined:
		return "unrefined"
	case Refining:
		return "refining"
	case Stable:
		return "stable"
	case Discrete:
		return "discrete"
	}

	return "unknown"
}

// Refiner holds the static, per-array data needed by refinement. It is
// read-only after NewRefiner and may be shared by concurrent searches; all
// scratch space lives in the partitions passed to Refine.
type Refiner struct {
	a        *design.Array
	n, k     int
	raw      []int
	pairRank [][]int64 // pairRank[j][c]: rank of CrossTabSignature(j, c)
	static   struct{ cols, rows []invariant.Vector }
}

// NewRefiner precomputes static invariants of a: the delete-one-factor column
// invariants, the row distance profiles and the ranked cross-tab signatures.
//
// Complexity: O(N²·k²) dominated by the column invariants.
func NewRefiner(a *design.Array) *Refiner {
	r, _ := NewRefinerContext(context.Background(), a)

	return r
}

// NewRefinerContext is NewRefiner polling ctx between columns. It returns
// ctx.Err() as soon as the context ends, so large arrays honor cancellation
// and deadlines during precomputation.
func NewRefinerContext(ctx context.Context, a *design.Array) (*Refiner, error) {
	var (
		r    = &Refiner{a: a, n: a.Rows(), k: a.Cols(), raw: a.Raw()}
		j, c int
	)
	r.static.cols = make([]invariant.Vector, r.k)
	for j = 0; j < r.k; j++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r.static.cols[j] = invariant.ColumnInvariant(a, j)
	}
	r.static.rows = invariant.RowInvariants(a)

	// Rank distinct pair signatures by value so ranks are label-free.
	sigs := make([][]invariant.Vector, r.k)
	all := make([]invariant.Vector, 0, r.k*r.k)
	for j = 0; j < r.k; j++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sigs[j] = make([]invariant.Vector, r.k)
		for c = 0; c < r.k; c++ {
			if c != j {
				sigs[j][c] = invariant.CrossTabSignature(a, j, c)
				all = append(all, sigs[j][c])
			}
		}
	}
	slices.SortFunc(all, func(x, y invariant.Vector) int { return x.Compare(y) })
	all = slices.CompactFunc(all, func(x, y invariant.Vector) bool { return x.Equal(y) })
	r.pairRank = make([][]int64, r.k)
	for j = 0; j < r.k; j++ {
		r.pairRank[j] = make([]int64, r.k)
		for c = 0; c < r.k; c++ {
			if c == j {
				continue
			}
			idx, _ := slices.BinarySearchFunc(all, sigs[j][c], func(x, y invariant.Vector) int { return x.Compare(y) })
			r.pairRank[j][c] = int64(idx)
		}
	}

	return r, nil
}

// Array returns the array the refiner was built for.
func (r *Refiner) Array() *design.Array { return r.a }

// Root returns the initial row and column partitions: columns grouped by
// level count (ascending) then delete-one-factor invariant, rows by distance
// profile, both refined to a stable state.
func (r *Refiner) Root() (rows, cols *Partition, state State) {
	// ColumnInvariant starts with the level count, so level groups come first.
	cols = FromKeys(r.static.cols)
	rows = FromKeys(r.static.rows)
	state = r.Refine(rows, cols)

	return rows, cols, state
}

// Refine splits rows and cols in place until stable and returns the final
// state, Stable or Discrete. Refinement never fails.
//
// Complexity per pass: O(N·k·C + k·s·C²) for C row cells.
func (r *Refiner) Refine(rows, cols *Partition) State {
	for {
		counts := r.symbolCounts(rows)
		changed := cols.SplitBy(r.columnKeys(counts, rows, cols))
		if rows.SplitBy(r.rowKeys(counts, rows, cols)) {
			changed = true
		}
		if !changed {
			break
		}
	}
	if rows.IsDiscrete() && cols.IsDiscrete() {
		return Discrete
	}

	return Stable
}

// symbolCounts returns counts[c][v][X]: rows of cell X holding symbol v in
// column c.
func (r *Refiner) symbolCounts(rows *Partition) [][][]int64 {
	var (
		nc     = rows.NumCells()
		counts = make([][][]int64, r.k)
		c, v   int
		x      int
	)
	for c = 0; c < r.k; c++ {
		s := r.a.Level(c)
		counts[c] = make([][]int64, s)
		for v = 0; v < s; v++ {
			counts[c][v] = make([]int64, nc)
		}
	}
	for x = 0; x < r.n; x++ {
		X := rows.CellOf(x)
		for c = 0; c < r.k; c++ {
			counts[c][r.raw[x*r.k+c]][X]++
		}
	}

	return counts
}

func (r *Refiner) columnKeys(counts [][][]int64, rows, cols *Partition) []invariant.Vector {
	var (
		nr   = rows.NumCells()
		nc   = cols.NumCells()
		keys = make([]invariant.Vector, r.k)
		j    int
	)
	for j = 0; j < r.k; j++ {
		key := make(invariant.Vector, 0, nr*nr+nc+r.k)
		var X, Y, v int
		for X = 0; X < nr; X++ {
			for Y = 0; Y < nr; Y++ {
				var agree int64
				for v = range counts[j] {
					agree += counts[j][v][X] * counts[j][v][Y]
				}
				key = append(key, agree)
			}
		}
		var C int
		for C = 0; C < nc; C++ {
			cell := cols.cells[C]
			ranks := make([]int64, 0, len(cell))
			var c int
			for _, c = range cell {
				if c != j {
					ranks = append(ranks, r.pairRank[j][c])
				}
			}
			slices.Sort(ranks)
			key = append(key, int64(len(ranks)))
			key = append(key, ranks...)
		}
		keys[j] = key
	}

	return keys
}

func (r *Refiner) rowKeys(counts [][][]int64, rows, cols *Partition) []invariant.Vector {
	var (
		nr   = rows.NumCells()
		nc   = cols.NumCells()
		keys = make([]invariant.Vector, r.n)
		x    int
	)
	for x = 0; x < r.n; x++ {
		key := make(invariant.Vector, nr*nc)
		var c, X int
		for c = 0; c < r.k; c++ {
			Y := cols.CellOf(c)
			col := counts[c][r.raw[x*r.k+c]]
			for X = 0; X < nr; X++ {
				key[X*nc+Y] += col[X]
			}
		}
		keys[x] = key
	}

	return keys
}
