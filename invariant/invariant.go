// Package invariant - column, row and array invariants.
//
// All functions here are pure: deterministic, side-effect free, and
// invariant under row permutations, symbol relabelings and permutations of
// the columns they do not single out. They never produce false negatives.
package invariant

import (
	"fmt"
	"slices"
	"strings"

	"github.com/katalvlaran/oacanon/design"
)

// CrossTab returns the s₁×s₂ contingency table of columns j1 and j2:
// t[u][v] = #{rows i : a[i][j1] == u ∧ a[i][j2] == v}.
// Out-of-range columns yield nil.
// Complexity: O(N + s₁·s₂).
func CrossTab(a *design.Array, j1, j2 int) [][]int {
	if j1 < 0 || j1 >= a.Cols() || j2 < 0 || j2 >= a.Cols() {
		return nil
	}
	var (
		k   = a.Cols()
		raw = a.Raw()
		t   = make([][]int, a.Level(j1))
		i   int
	)
	for i = range t {
		t[i] = make([]int, a.Level(j2))
	}
	for i = 0; i < a.Rows(); i++ {
		t[raw[i*k+j1]][raw[i*k+j2]]++
	}

	return t
}

// CrossTabSignature summarizes CrossTab(a, j1, j2) in a form invariant under
// symbol relabelings of both columns: the two level counts followed by the
// per-row-of-the-table sorted counts, with table rows sorted.
func CrossTabSignature(a *design.Array, j1, j2 int) Vector {
	t := CrossTab(a, j1, j2)
	rows := make([]Vector, len(t))
	var u, v int
	for u = range t {
		r := make(Vector, len(t[u]))
		for v = range t[u] {
			r[v] = int64(t[u][v])
		}
		slices.Sort(r)
		rows[u] = r
	}
	sortVectors(rows)
	out := Vector{int64(a.Level(j1)), int64(a.Level(j2))}

	return append(out, flatten(rows)...)
}

// ColumnInvariant is the delete-one-factor invariant of column j:
//
//	(s_j, N²·GWLP(A without j), sorted{ CrossTabSignature(j, j') : j' ≠ j })
//
// It is invariant under row permutations, all symbol relabelings and any
// permutation of the other columns. Returns nil for an out-of-range column.
//
// Complexity: O(N²·k) for the projection GWLP plus O(k·N) for the
// cross-tabulations.
func ColumnInvariant(a *design.Array, j int) Vector {
	rest, err := a.DeleteColumn(j)
	if err != nil {
		return nil
	}
	var (
		pairs = make([]Vector, 0, a.Cols()-1)
		c     int
	)
	for c = 0; c < a.Cols(); c++ {
		if c != j {
			pairs = append(pairs, CrossTabSignature(a, j, c))
		}
	}
	sortVectors(pairs)

	out := Vector{int64(a.Level(j))}
	out = append(out, flatten([]Vector{ScaledGWLP(rest)})...)

	return append(out, flatten(pairs)...)
}

// RowInvariant is the distance profile of row r: for every per-level-group
// distance vector, the number of rows (including r itself) at that distance,
// listed in ascending key order as (key, count) pairs. Returns nil for an
// out-of-range row.
// Complexity: O(N·k).
func RowInvariant(a *design.Array, r int) Vector {
	if r < 0 || r >= a.Rows() {
		return nil
	}
	var (
		g    = groupColumns(a)
		d    = make([]int, len(g.sizes))
		hist = make(map[int]int64)
		q    int
	)
	for q = 0; q < a.Rows(); q++ {
		g.distance(a, r, q, d)
		hist[g.key(d)]++
	}
	keys := make([]int, 0, len(hist))
	var key int
	for key = range hist {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	out := make(Vector, 0, 2*len(keys))
	for _, key = range keys {
		out = append(out, int64(key), hist[key])
	}

	return out
}

// ArrayInvariant is (N, k, signature…, N²·GWLP…).
func ArrayInvariant(a *design.Array) Vector {
	out := Vector{int64(a.Rows()), int64(a.Cols())}
	var s int
	for _, s = range a.Signature() {
		out = append(out, int64(s))
	}

	return append(out, ScaledGWLP(a)...)
}

// ColumnInvariants computes ColumnInvariant for every column.
func ColumnInvariants(a *design.Array) []Vector {
	out := make([]Vector, a.Cols())
	var j int
	for j = range out {
		out[j] = ColumnInvariant(a, j)
	}

	return out
}

// RowInvariants computes RowInvariant for every row.
func RowInvariants(a *design.Array) []Vector {
	out := make([]Vector, a.Rows())
	var r int
	for r = range out {
		out[r] = RowInvariant(a, r)
	}

	return out
}

func intsString(d []int) string {
	parts := make([]string, len(d))
	var i int
	for i = range d {
		parts[i] = fmt.Sprintf("%d", d[i])
	}

	return strings.Join(parts, ",")
}
