// Package design: sentinel error set.
// Every message is prefixed with "design: ..." so it can be grepped across
// logs. Callers match with errors.Is; constructors wrap the sentinel with the
// offending coordinates via fmt.Errorf("...: %w", ErrX).

package design

import "errors"

var (
	// ErrInvalidArray is returned when raw data does not describe a valid
	// design array: no rows, ragged rows, a level count < 1, or a cell value
	// outside its column's level range.
	ErrInvalidArray = errors.New("design: invalid array")

	// ErrOutOfRange indicates a row or column index outside valid bounds.
	ErrOutOfRange = errors.New("design: index out of range")

	// ErrUnknownExample is returned by Example for an id not in the catalog.
	ErrUnknownExample = errors.New("design: unknown example array")
)
