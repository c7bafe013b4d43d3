// Package partition implements ordered partitions of rows and columns and the
// Partition Refiner used by the canonical search.
//
// An ordered partition is a sequence of disjoint non-empty cells; the order
// of cells is meaningful, the order inside a cell is not ("don't know yet").
// Refinement splits cells using invariants until stable:
//
//	Unrefined ──pass──▶ Refining ──no split──▶ Stable  (some cell > 1)
//	                                       └──▶ Discrete (all singletons)
//
// When refinement ends Stable, the search engine individualizes an element of
// the first non-singleton cell (Individualize) and refines again.
//
// Partitions are scratch state owned by one search branch; they are not
// safe for concurrent mutation. A Refiner is read-only after construction and
// may be shared.
package partition
