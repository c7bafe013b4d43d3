// Package canon computes canonical forms of design arrays under row
// permutations, column permutations and per-column symbol relabelings.
//
// What:
//
//   - Canonicalize: returns the canonical representative of an array's
//     equivalence class together with a transformation mapping the input
//     onto it. Two arrays are equivalent iff their canonical arrays are equal.
//   - Result.Automorphisms: the symmetries of the input met on the way, as
//     generators; Automorphism.Transformation turns one into the group
//     element that fixes the array.
//
// How:
//
//   - The partition Refiner splits rows and columns by invariants
//     (delete-one-factor GWLP, distance profiles, cross-tabulations).
//   - Where refinement stalls, the search individualizes each element of the
//     first non-singleton cell in turn (rows before columns) and refines again.
//   - Every discrete leaf yields an image; the lexicographically smallest
//     image (row-major, columns relabeled by first occurrence) is canonical.
//   - Prefix pruning and automorphism (orbit) pruning cut the tree without
//     changing the result.
//
// Canonical arrays have their columns grouped by ascending level count, so
// arrays whose level vectors are permutations of each other are comparable.
//
// Options:
//
//   - WithWorkers: explore root branches concurrently (errgroup).
//   - WithMaxNodes / WithTimeLimit / context: budgets. Any of them ending the
//     search yields ErrSearchBudgetExceeded and no result.
//   - WithLogger: charmbracelet/log logger for debug summaries.
//   - WithObserver: start/complete hooks (see package metrics).
//
// Errors:
//
//   - ErrNilArray
//   - ErrSearchBudgetExceeded
//   - ErrNotAutomorphism
package canon
