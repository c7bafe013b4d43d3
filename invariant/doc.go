// Package invariant computes numeric invariants of design arrays used to
// rank and prune during canonicalization.
//
// Provided invariants:
//
//   - ColumnInvariant: delete-one-factor invariant, the GWLP of the
//     projection without that column plus the sorted cross-tabulation
//     signatures against every other column.
//   - RowInvariant: distance profile of a row against all rows.
//   - ArrayInvariant: shape, signature and GWLP of the whole array.
//   - GWLP, ScaledGWLP, DistanceDistribution, CrossTab.
//
// Contract: equivalent arrays always produce identical invariants (no false
// negatives). Equal invariants do not imply equivalence; the search engine
// resolves remaining ties by enumeration.
//
// Complexity: every invariant is polynomial in N·k·s; ColumnInvariants costs
// O(N²·k²) overall.
package invariant
