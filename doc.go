// Package oacanon computes canonical forms of design arrays (orthogonal
// arrays and other N×k arrays with per-column level counts) under the
// group of row permutations, column permutations and per-column symbol
// relabelings.
//
// 🚀 What is oacanon?
//
//	An in-process canonicalization engine that brings together:
//		• Design arrays: validated, immutable, hashable N×k tables
//		• Invariants: GWLP, distance distributions, cross-tabulations
//		• Partition refinement: ordered row/column partitions split to a fixpoint
//		• Canonical search: individualization-refinement with prefix and
//		  automorphism pruning, budgets, cancellation and parallel branches
//		• Transformations: apply, compose, invert, randomize
//		• Equivalence: reduce, reduction transform, equivalence test, class selection
//
// ✨ Why?
//
//   - Two arrays are equivalent iff their canonical forms are equal, so
//     deduplicating a catalog of designs is one map lookup per array.
//   - Every canonical form comes with the transformation that reaches it.
//   - Budgets never yield a half-canonical result: the search either
//     finishes or fails with canon.ErrSearchBudgetExceeded.
//
// Under the hood:
//
//	design/     - Array, Signature, built-in example catalog
//	invariant/  - GWLP, distance distribution, row/column invariants
//	partition/  - ordered partitions and the Refiner
//	transform/  - Transformation and seeded random transformations
//	canon/      - the canonical search engine
//	equiv/      - Reduce, ReductionTransform, IsCanonical, AreEquivalent, SelectClasses, Reducer
//	metrics/    - Prometheus observer for canon
//	cmd/oacanon - CLI: examples, reduce, selftest
//
// Quick example:
//
//	a := design.MustFromRows([][]int{{0, 0, 0}, {0, 1, 1}, {1, 0, 1}, {1, 1, 0}})
//	b := design.MustFromRows([][]int{{1, 1, 1}, {0, 0, 1}, {0, 1, 0}, {1, 0, 0}})
//	ok, err := equiv.AreEquivalent(ctx, a, b) // true, nil
package oacanon
