package invariant

import (
	"fmt"
	"slices"
	"strings"
)

// Vector is a fixed-length sequence of exact integers derived from a
// projection of an array. Vectors are compared lexicographically; a proper
// prefix orders before its extensions.
type Vector []int64

// Compare returns -1, 0 or +1.
func (v Vector) Compare(o Vector) int { return slices.Compare(v, o) }

// Equal reports element-wise equality.
func (v Vector) Equal(o Vector) bool { return slices.Equal(v, o) }

// String renders the vector as "(a, b, c)".
func (v Vector) String() string {
	parts := make([]string, len(v))
	var i int
	for i = range v {
		parts[i] = fmt.Sprintf("%d", v[i])
	}

	return "(" + strings.Join(parts, ", ") + ")"
}

// flatten concatenates vectors, each prefixed by its length so that the
// concatenation stays unambiguous.
func flatten(vs []Vector) Vector {
	var (
		total int
		v     Vector
	)
	for _, v = range vs {
		total += len(v) + 1
	}
	out := make(Vector, 0, total)
	for _, v = range vs {
		out = append(out, int64(len(v)))
		out = append(out, v...)
	}

	return out
}

// sortVectors sorts vs in place in ascending order.
func sortVectors(vs []Vector) {
	slices.SortFunc(vs, func(a, b Vector) int { return a.Compare(b) })
}
