package design

import (
	"fmt"
	"slices"
	"strings"
)

// Signature is the level-group signature of an array: the multiset of its
// per-column level counts, kept as a sorted slice. It is invariant under
// column permutation.
type Signature []int

// NewSignature returns the sorted multiset of levels.
func NewSignature(levels []int) Signature {
	s := slices.Clone(levels)
	slices.Sort(s)

	return Signature(s)
}

// Equal reports whether both signatures describe the same multiset.
func (s Signature) Equal(o Signature) bool { return slices.Equal(s, o) }

// Groups returns the distinct level counts with their multiplicities, in
// ascending level order.
func (s Signature) Groups() (levels, counts []int) {
	var v int
	for _, v = range s {
		if n := len(levels); n > 0 && levels[n-1] == v {
			counts[n-1]++
			continue
		}
		levels = append(levels, v)
		counts = append(counts, 1)
	}

	return levels, counts
}

// String renders the signature in exponent notation, e.g. "2^3 3^1".
func (s Signature) String() string {
	levels, counts := s.Groups()
	if len(levels) == 0 {
		return "∅"
	}
	parts := make([]string, len(levels))
	var g int
	for g = range levels {
		parts[g] = fmt.Sprintf("%d^%d", levels[g], counts[g])
	}

	return strings.Join(parts, " ")
}
