package canon

import (
	"fmt"

	"github.com/katalvlaran/oacanon/design"
	"github.com/katalvlaran/oacanon/transform"
)

// Automorphism is a symmetry of an array in scatter form: row r moves to
// Rows[r] and column c to Cols[c]. Every column keeps its level count, and
// some relabeling of each column's symbols maps the moved array back onto
// the original.
type Automorphism struct {
	Rows []int
	Cols []int
}

// Transformation returns the group element realizing g on a: T.Apply(a)
// equals a. The symbol maps are read off a; symbols a column never uses are
// paired in ascending order.
//
// Errors: ErrNilArray, ErrNotAutomorphism.
//
// Complexity: O(N·k).
func (g Automorphism) Transformation(a *design.Array) (*transform.Transformation, error) {
	if a == nil {
		return nil, ErrNilArray
	}
	var (
		n, k   = a.Rows(), a.Cols()
		raw    = a.Raw()
		levels = a.Levels()
	)
	rp, ok := inverse(g.Rows, n)
	if !ok {
		return nil, fmt.Errorf("%w: row map %v", ErrNotAutomorphism, g.Rows)
	}
	cp, ok := inverse(g.Cols, k)
	if !ok {
		return nil, fmt.Errorf("%w: column map %v", ErrNotAutomorphism, g.Cols)
	}

	symbols := make([][]int, k)
	for j := 0; j < k; j++ {
		c := cp[j]
		if levels[c] != levels[j] {
			return nil, fmt.Errorf("%w: column %d (%d levels) onto %d (%d levels)",
				ErrNotAutomorphism, c, levels[c], j, levels[j])
		}
		m, used := make([]int, levels[c]), make([]bool, levels[j])
		for v := range m {
			m[v] = -1
		}
		for i := 0; i < n; i++ {
			v, w := raw[rp[i]*k+c], raw[i*k+j]
			switch {
			case m[v] == w:
			case m[v] < 0 && !used[w]:
				m[v], used[w] = w, true
			default:
				return nil, fmt.Errorf("%w: column %d onto %d is not a relabeling", ErrNotAutomorphism, c, j)
			}
		}
		next := 0
		for v := range m {
			if m[v] >= 0 {
				continue
			}
			for used[next] {
				next++
			}
			m[v], used[next] = next, true
		}
		symbols[j] = m
	}

	return transform.New(rp, cp, symbols, levels)
}

// inverse inverts the scatter map p of size n, reporting false if p is not a
// permutation.
func inverse(p []int, n int) ([]int, bool) {
	if len(p) != n {
		return nil, false
	}
	inv := make([]int, n)
	for i := range inv {
		inv[i] = -1
	}
	for x, y := range p {
		if y < 0 || y >= n || inv[y] >= 0 {
			return nil, false
		}
		inv[y] = x
	}

	return inv, true
}
