// Package design defines the Design Array: an N×k matrix whose rows are runs,
// whose columns are factors and whose cells are factor levels.
//
// An Array is a value object. It is validated once at construction
// (New, FromRows, FromData) and never mutated afterwards, so it can be shared
// between goroutines without locking. Column j takes values in
// {0, …, s_j−1}, where s_j is its level count; the sorted multiset of level
// counts is the array's Signature.
//
// Storage is a flat row-major []int plus the ordered level vector:
//
//	rows:   0 0 0      data: [0 0 0 0 1 1 1 0 1 1 1 0]
//	        0 1 1      levels: [2 2 2]
//	        1 0 1
//	        1 1 0
//
// The package also ships a small catalog of well-known orthogonal arrays
// (Example, ExampleIDs) used by self-tests and the oacanon command.
//
// Errors: ErrInvalidArray, ErrOutOfRange, ErrUnknownExample.
package design
