package transform

import "errors"

var (
	// ErrIncompatibleSignature is returned when a transformation is applied to
	// (or composed with) something whose level vector or row count differs
	// from the one it was built for.
	ErrIncompatibleSignature = errors.New("transform: incompatible level-group signature")

	// ErrInvalidTransformation is returned by New when a row/column
	// permutation or a symbol permutation is not a bijection of the right size.
	ErrInvalidTransformation = errors.New("transform: invalid transformation")
)
