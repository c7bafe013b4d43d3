// Package design provides the Design Array value type consumed and produced by
// the canonicalization engine.
// Array is a row-major, immutable N×k matrix of small non-negative integers
// with a separate per-column level count, stored in a flat slice for cache
// friendliness.
package design

import (
	"encoding/binary"
	"fmt"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Array is an N×k design array. Column j takes values in {0, …, s_j−1}.
// An Array is never mutated after construction; every accessor that exposes
// internal storage returns a copy, so values are freely shareable.
type Array struct {
	n, k   int   // number of rows (runs) and columns (factors)
	levels []int // per-column level counts, len == k
	data   []int // flat backing storage, len == n*k, row-major
}

// New builds an Array from rows and explicit per-column level counts.
// Stage 1 (Validate): n ≥ 1, every row has len(levels) entries, every level
// count ≥ 1, every value within its column's range.
// Stage 2 (Finalize): copy into a flat row-major buffer.
//
// Errors: ErrInvalidArray wrapped with the offending coordinates.
// Complexity: O(n·k).
func New(rows [][]int, levels []int) (*Array, error) {
	var (
		n = len(rows)
		k = len(levels)
	)
	if n == 0 {
		return nil, fmt.Errorf("no rows: %w", ErrInvalidArray)
	}
	var j int
	for j = 0; j < k; j++ {
		if levels[j] < 1 {
			return nil, fmt.Errorf("column %d has level count %d: %w", j, levels[j], ErrInvalidArray)
		}
	}

	data := make([]int, n*k)
	var (
		i int
		v int
	)
	for i = 0; i < n; i++ {
		if len(rows[i]) != k {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", i, len(rows[i]), k, ErrInvalidArray)
		}
		for j = 0; j < k; j++ {
			v = rows[i][j]
			if v < 0 || v >= levels[j] {
				return nil, fmt.Errorf("value %d at (%d,%d) outside [0,%d): %w", v, i, j, levels[j], ErrInvalidArray)
			}
			data[i*k+j] = v
		}
	}

	return &Array{n: n, k: k, levels: slices.Clone(levels), data: data}, nil
}

// FromRows builds an Array inferring each column's level count as its
// maximal value plus one.
//
// Errors: ErrInvalidArray for empty, ragged or negative input.
// Complexity: O(n·k).
func FromRows(rows [][]int) (*Array, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows: %w", ErrInvalidArray)
	}
	k := len(rows[0])
	levels := make([]int, k)
	var i, j int
	for i = range rows {
		if len(rows[i]) != k {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", i, len(rows[i]), k, ErrInvalidArray)
		}
		for j = 0; j < k; j++ {
			if rows[i][j] < 0 {
				return nil, fmt.Errorf("negative value at (%d,%d): %w", i, j, ErrInvalidArray)
			}
			if rows[i][j]+1 > levels[j] {
				levels[j] = rows[i][j] + 1
			}
		}
	}

	return New(rows, levels)
}

// MustFromRows is FromRows for literals in tests and examples; it panics on
// invalid input.
func MustFromRows(rows [][]int) *Array {
	a, err := FromRows(rows)
	if err != nil {
		panic(err)
	}

	return a
}

// Empty returns the n×0 array (n ≥ 1).
func Empty(n int) (*Array, error) {
	if n < 1 {
		return nil, fmt.Errorf("no rows: %w", ErrInvalidArray)
	}

	return &Array{n: n, k: 0, levels: []int{}, data: []int{}}, nil
}

// FromData wraps an already validated row-major buffer. It is the fast path
// used by the transformation and search packages, whose outputs are valid by
// construction; values are still range-checked.
//
// Complexity: O(n·k).
func FromData(n int, levels []int, data []int) (*Array, error) {
	k := len(levels)
	if n < 1 || len(data) != n*k {
		return nil, fmt.Errorf("buffer of %d cells for %d×%d: %w", len(data), n, k, ErrInvalidArray)
	}
	var idx int
	for idx = range data {
		if data[idx] < 0 || data[idx] >= levels[idx%k] {
			return nil, fmt.Errorf("value %d at (%d,%d): %w", data[idx], idx/k, idx%k, ErrInvalidArray)
		}
	}

	return &Array{n: n, k: k, levels: slices.Clone(levels), data: slices.Clone(data)}, nil
}

// Rows returns the number of rows N.
func (a *Array) Rows() int { return a.n }

// Cols returns the number of columns k.
func (a *Array) Cols() int { return a.k }

// Levels returns a copy of the ordered per-column level counts.
func (a *Array) Levels() []int { return slices.Clone(a.levels) }

// Level returns the level count of column j (0 when j is out of range).
func (a *Array) Level(j int) int {
	if j < 0 || j >= a.k {
		return 0
	}

	return a.levels[j]
}

// Signature returns the level-group signature (sorted multiset of levels).
func (a *Array) Signature() Signature { return NewSignature(a.levels) }

// At returns the value at (row, col).
// Errors: ErrOutOfRange.
func (a *Array) At(row, col int) (int, error) {
	if row < 0 || row >= a.n || col < 0 || col >= a.k {
		return 0, fmt.Errorf("At(%d,%d): %w", row, col, ErrOutOfRange)
	}

	return a.data[row*a.k+col], nil
}

// Row returns a copy of row i, or nil when i is out of range.
func (a *Array) Row(i int) []int {
	if i < 0 || i >= a.n {
		return nil
	}

	return slices.Clone(a.data[i*a.k : (i+1)*a.k])
}

// Column returns a copy of column j, or nil when j is out of range.
func (a *Array) Column(j int) []int {
	if j < 0 || j >= a.k {
		return nil
	}
	col := make([]int, a.n)
	var i int
	for i = 0; i < a.n; i++ {
		col[i] = a.data[i*a.k+j]
	}

	return col
}

// Data returns a copy of the row-major buffer.
func (a *Array) Data() []int { return slices.Clone(a.data) }

// Raw exposes the row-major buffer without copying. Callers must treat the
// returned slice as read-only; it exists for the hot loops of the invariant
// and search packages.
func (a *Array) Raw() []int { return a.data }

// RowSlices returns the array as a fresh [][]int.
func (a *Array) RowSlices() [][]int {
	out := make([][]int, a.n)
	var i int
	for i = 0; i < a.n; i++ {
		out[i] = a.Row(i)
	}

	return out
}

// Equal reports whether a and b have identical shape, levels and values.
func (a *Array) Equal(b *Array) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.n == b.n && a.k == b.k && slices.Equal(a.levels, b.levels) && slices.Equal(a.data, b.data)
}

// Compare orders arrays by (N, k, levels, row-major values) lexicographically
// and returns -1, 0 or +1.
func (a *Array) Compare(b *Array) int {
	if c := compareInt(a.n, b.n); c != 0 {
		return c
	}
	if c := compareInt(a.k, b.k); c != 0 {
		return c
	}
	if c := slices.Compare(a.levels, b.levels); c != 0 {
		return c
	}

	return slices.Compare(a.data, b.data)
}

// Hash returns a 64-bit xxhash of the shape, levels and values. Equal arrays
// hash equally; callers must still confirm with Equal.
func (a *Array) Hash() uint64 {
	buf := make([]byte, 0, 8*(2+a.k+len(a.data)))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(a.n))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(a.k))
	var v int
	for _, v = range a.levels {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(v))
	}
	for _, v = range a.data {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(v))
	}

	return xxhash.Sum64(buf)
}

// DeleteColumn returns a copy of the array without column j.
// Errors: ErrOutOfRange.
func (a *Array) DeleteColumn(j int) (*Array, error) {
	if j < 0 || j >= a.k {
		return nil, fmt.Errorf("DeleteColumn(%d): %w", j, ErrOutOfRange)
	}
	cols := make([]int, 0, a.k-1)
	var c int
	for c = 0; c < a.k; c++ {
		if c != j {
			cols = append(cols, c)
		}
	}

	return a.SelectColumns(cols)
}

// SelectColumns returns the projection onto cols, in the given order.
// Errors: ErrOutOfRange.
// Complexity: O(n·len(cols)).
func (a *Array) SelectColumns(cols []int) (*Array, error) {
	var (
		m      = len(cols)
		levels = make([]int, m)
		data   = make([]int, a.n*m)
		i, j   int
	)
	for j = 0; j < m; j++ {
		if cols[j] < 0 || cols[j] >= a.k {
			return nil, fmt.Errorf("SelectColumns: column %d: %w", cols[j], ErrOutOfRange)
		}
		levels[j] = a.levels[cols[j]]
	}
	for i = 0; i < a.n; i++ {
		for j = 0; j < m; j++ {
			data[i*m+j] = a.data[i*a.k+cols[j]]
		}
	}

	return &Array{n: a.n, k: m, levels: levels, data: data}, nil
}

// String renders the array compactly, one row per line, without separators
// (levels above 9 are separated by spaces).
func (a *Array) String() string {
	var (
		sb   strings.Builder
		wide = slices.ContainsFunc(a.levels, func(s int) bool { return s > 10 })
		i, j int
	)
	fmt.Fprintf(&sb, "array %d×%d levels %v\n", a.n, a.k, a.levels)
	for i = 0; i < a.n; i++ {
		for j = 0; j < a.k; j++ {
			if wide && j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%d", a.data[i*a.k+j])
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}

func compareInt(x, y int) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}

	return 0
}
