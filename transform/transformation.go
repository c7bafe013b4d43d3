// Package transform - the Transformation value object.
//
// A Transformation T for arrays with N rows and ordered level vector L is the
// triple (rp, cp, S) acting in gather form:
//
//	T(A)[i][j] = S_j( A[rp[i]][cp[j]] )
//
// i.e. the row/column permutation is applied first, then the per-column
// symbol relabeling, where S_j is indexed by the target column j and is a
// permutation of {0, …, L[cp[j]]−1}. The output level vector is
// L∘cp = (L[cp[0]], …, L[cp[k−1]]).
package transform

import (
	"fmt"
	"slices"
	"strings"

	"github.com/katalvlaran/oacanon/design"
)

// Transformation is an immutable descriptor; it never holds hidden state.
type Transformation struct {
	levels  []int   // ordered input level vector, len k
	rowPerm []int   // rp[i] = source row of target row i, len N
	colPerm []int   // cp[j] = source column of target column j, len k
	symbols [][]int // symbols[j][v] = image of source symbol v in target column j
}

// Identity returns the identity transformation for n rows and the ordered
// level vector levels.
//
// Apply accepts exactly the arrays with n rows and this ordered level vector.
// An array with the same signature but its columns in another order (levels
// [3 2] for Identity(n, []int{2, 3})) is rejected with
// ErrIncompatibleSignature: symbol maps are bound to column positions.
// Complexity: O(n + Σ levels).
func Identity(n int, levels []int) *Transformation {
	t := &Transformation{
		levels:  slices.Clone(levels),
		rowPerm: seq(n),
		colPerm: seq(len(levels)),
		symbols: make([][]int, len(levels)),
	}
	var j int
	for j = range levels {
		t.symbols[j] = seq(levels[j])
	}

	return t
}

// IdentityFor returns Identity(a.Rows(), a.Levels()).
func IdentityFor(a *design.Array) *Transformation { return Identity(a.Rows(), a.Levels()) }

// New validates and builds a transformation. All slices are copied.
//
// Contracts:
//   - rowPerm is a permutation of 0..n-1, colPerm a permutation of 0..k-1
//     with k == len(levels);
//   - symbols[j] is a permutation of 0..levels[colPerm[j]]-1.
//
// Errors: ErrInvalidTransformation.
func New(rowPerm, colPerm []int, symbols [][]int, levels []int) (*Transformation, error) {
	k := len(levels)
	if !isPerm(rowPerm) || len(rowPerm) == 0 {
		return nil, fmt.Errorf("row permutation %v: %w", rowPerm, ErrInvalidTransformation)
	}
	if len(colPerm) != k || !isPerm(colPerm) {
		return nil, fmt.Errorf("column permutation %v for %d columns: %w", colPerm, k, ErrInvalidTransformation)
	}
	if len(symbols) != k {
		return nil, fmt.Errorf("%d symbol maps for %d columns: %w", len(symbols), k, ErrInvalidTransformation)
	}
	t := &Transformation{
		levels:  slices.Clone(levels),
		rowPerm: slices.Clone(rowPerm),
		colPerm: slices.Clone(colPerm),
		symbols: make([][]int, k),
	}
	var j int
	for j = 0; j < k; j++ {
		if levels[j] < 1 {
			return nil, fmt.Errorf("level count %d for column %d: %w", levels[j], j, ErrInvalidTransformation)
		}
	}
	for j = 0; j < k; j++ {
		if len(symbols[j]) != levels[colPerm[j]] || !isPerm(symbols[j]) {
			return nil, fmt.Errorf("symbol map %v for target column %d: %w", symbols[j], j, ErrInvalidTransformation)
		}
		t.symbols[j] = slices.Clone(symbols[j])
	}

	return t, nil
}

// Rows returns the row count N the transformation is valid for.
func (t *Transformation) Rows() int { return len(t.rowPerm) }

// Cols returns the column count k.
func (t *Transformation) Cols() int { return len(t.levels) }

// InputLevels returns a copy of the ordered level vector accepted by Apply.
func (t *Transformation) InputLevels() []int { return slices.Clone(t.levels) }

// OutputLevels returns the ordered level vector of Apply's result.
func (t *Transformation) OutputLevels() []int {
	out := make([]int, len(t.colPerm))
	var j int
	for j = range t.colPerm {
		out[j] = t.levels[t.colPerm[j]]
	}

	return out
}

// Signature returns the level-group signature the transformation is valid for.
func (t *Transformation) Signature() design.Signature { return design.NewSignature(t.levels) }

// RowPerm returns a copy of the row permutation (gather form).
func (t *Transformation) RowPerm() []int { return slices.Clone(t.rowPerm) }

// ColPerm returns a copy of the column permutation (gather form).
func (t *Transformation) ColPerm() []int { return slices.Clone(t.colPerm) }

// SymbolPerm returns a copy of the symbol map of target column j, or nil.
func (t *Transformation) SymbolPerm(j int) []int {
	if j < 0 || j >= len(t.symbols) {
		return nil
	}

	return slices.Clone(t.symbols[j])
}

// compatible reports whether an array with n rows and ordered levels can be
// fed to t.
func (t *Transformation) compatible(n int, levels []int) bool {
	return n == len(t.rowPerm) && slices.Equal(levels, t.levels)
}

// Apply returns T(a).
//
// Errors: ErrIncompatibleSignature when a's row count or ordered level vector
// differs from the transformation's.
// Complexity: O(N·k).
func (t *Transformation) Apply(a *design.Array) (*design.Array, error) {
	if !t.compatible(a.Rows(), a.Levels()) {
		return nil, fmt.Errorf("apply to %d rows with levels %v (want %d rows, levels %v): %w",
			a.Rows(), a.Levels(), len(t.rowPerm), t.levels, ErrIncompatibleSignature)
	}
	var (
		n    = a.Rows()
		k    = a.Cols()
		src  = a.Raw()
		dst  = make([]int, n*k)
		i, j int
		base int
	)
	for i = 0; i < n; i++ {
		base = t.rowPerm[i] * k
		for j = 0; j < k; j++ {
			dst[i*k+j] = t.symbols[j][src[base+t.colPerm[j]]]
		}
	}

	return design.FromData(n, t.OutputLevels(), dst)
}

// Compose returns the transformation equivalent to applying inner first and
// outer to the result: Compose(inner, outer).Apply(a) == outer.Apply(inner.Apply(a)).
//
// With gather semantics:
//
//	rp[i] = rp₁[rp₂[i]],  cp[j] = cp₁[cp₂[j]],  S_j = S₂_j ∘ S₁_{cp₂[j]}
//
// Errors: ErrIncompatibleSignature when outer does not accept inner's output.
// Complexity: O(N + Σ levels).
func Compose(inner, outer *Transformation) (*Transformation, error) {
	if !outer.compatible(len(inner.rowPerm), inner.OutputLevels()) {
		return nil, fmt.Errorf("compose: outer expects levels %v, inner produces %v: %w",
			outer.levels, inner.OutputLevels(), ErrIncompatibleSignature)
	}
	var (
		n    = len(inner.rowPerm)
		k    = len(inner.colPerm)
		out  = &Transformation{levels: slices.Clone(inner.levels), rowPerm: make([]int, n), colPerm: make([]int, k), symbols: make([][]int, k)}
		i, j int
		v    int
	)
	for i = 0; i < n; i++ {
		out.rowPerm[i] = inner.rowPerm[outer.rowPerm[i]]
	}
	for j = 0; j < k; j++ {
		out.colPerm[j] = inner.colPerm[outer.colPerm[j]]
		s1 := inner.symbols[outer.colPerm[j]]
		s := make([]int, len(s1))
		for v = range s1 {
			s[v] = outer.symbols[j][s1[v]]
		}
		out.symbols[j] = s
	}

	return out, nil
}

// Inverse returns T⁻¹, valid for arrays with T's output level vector, such
// that T⁻¹(T(a)) == a.
// Complexity: O(N + Σ levels).
func (t *Transformation) Inverse() *Transformation {
	var (
		k   = len(t.colPerm)
		inv = &Transformation{levels: t.OutputLevels(), rowPerm: invert(t.rowPerm), colPerm: invert(t.colPerm), symbols: make([][]int, k)}
		c   int
	)
	// Source column c of t lands at target column cp⁻¹[c]; the inverse
	// moves it back and undoes that column's relabeling.
	for c = 0; c < k; c++ {
		inv.symbols[c] = invert(t.symbols[inv.colPerm[c]])
	}

	return inv
}

// Equal reports whether two transformations are identical descriptors.
func (t *Transformation) Equal(o *Transformation) bool {
	if !slices.Equal(t.levels, o.levels) || !slices.Equal(t.rowPerm, o.rowPerm) || !slices.Equal(t.colPerm, o.colPerm) {
		return false
	}
	var j int
	for j = range t.symbols {
		if !slices.Equal(t.symbols[j], o.symbols[j]) {
			return false
		}
	}

	return true
}

// IsIdentity reports whether t maps every compatible array to itself.
func (t *Transformation) IsIdentity() bool {
	if !isSeq(t.rowPerm) || !isSeq(t.colPerm) {
		return false
	}
	var j int
	for j = range t.symbols {
		if !isSeq(t.symbols[j]) {
			return false
		}
	}

	return true
}

// String renders the row permutation, the column permutation, then the
// symbol permutation of every target column.
func (t *Transformation) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "transformation: %d rows, levels %v\n", len(t.rowPerm), t.levels)
	fmt.Fprintf(&sb, "  row perm: %v\n", t.rowPerm)
	fmt.Fprintf(&sb, "  col perm: %v\n", t.colPerm)
	var j int
	for j = range t.symbols {
		fmt.Fprintf(&sb, "  level perm %d: %v\n", j, t.symbols[j])
	}

	return sb.String()
}

func seq(n int) []int {
	p := make([]int, n)
	var i int
	for i = range p {
		p[i] = i
	}

	return p
}

func isSeq(p []int) bool {
	var i int
	for i = range p {
		if p[i] != i {
			return false
		}
	}

	return true
}

func isPerm(p []int) bool {
	seen := make([]bool, len(p))
	var v int
	for _, v = range p {
		if v < 0 || v >= len(p) || seen[v] {
			return false
		}
		seen[v] = true
	}

	return true
}

func invert(p []int) []int {
	q := make([]int, len(p))
	var i int
	for i = range p {
		q[p[i]] = i
	}

	return q
}
