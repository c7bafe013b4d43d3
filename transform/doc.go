// Package transform implements the Transformation object: a composable,
// invertible descriptor of one element of the design-array symmetry group
// (row permutation, column permutation, per-column symbol relabeling).
//
// Semantics (gather form, row/column permutation first, then relabeling):
//
//	T(A)[i][j] = S_j( A[rp[i]][cp[j]] )
//
// Operations:
//   - Identity(n, levels), New(rp, cp, S, levels)
//   - (*Transformation).Apply(a): ErrIncompatibleSignature on mismatch
//   - Compose(inner, outer): outer ∘ inner
//   - (*Transformation).Inverse()
//   - Random / RandomFull / RandomRows: seeded random group elements
//
// A transformation is valid only for arrays with its row count and ordered
// level vector; applying it elsewhere is an error, never a silent no-op.
package transform
