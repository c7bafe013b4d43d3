// Package partition - ordered partitions.
//
// A Partition of {0, …, n−1} is a sequence of disjoint non-empty cells with a
// total order over cells and no order inside a cell. Elements inside a cell
// are kept ascending only so that iteration is reproducible.
package partition

import (
	"fmt"
	"slices"
	"strings"

	"github.com/katalvlaran/oacanon/invariant"
)

// Partition is an ordered partition. The zero value is the empty partition.
type Partition struct {
	cells  [][]int // ordered cells, each ascending
	cellOf []int   // element -> index of its cell
}

// New returns the unit partition of n elements (one cell), or the empty
// partition when n == 0.
func New(n int) *Partition {
	p := &Partition{cellOf: make([]int, n)}
	if n > 0 {
		cell := make([]int, n)
		var i int
		for i = range cell {
			cell[i] = i
		}
		p.cells = [][]int{cell}
	}

	return p
}

// FromCells builds a partition from explicit cells. It panics when cells do
// not partition {0, …, n−1}; callers pass cells they constructed themselves.
func FromCells(cells [][]int) *Partition {
	var (
		n int
		c []int
	)
	for _, c = range cells {
		n += len(c)
	}
	p := &Partition{cells: make([][]int, len(cells)), cellOf: make([]int, n)}
	seen := make([]bool, n)
	var i, x int
	for i, c = range cells {
		if len(c) == 0 {
			panic("partition: empty cell")
		}
		cell := slices.Clone(c)
		slices.Sort(cell)
		for _, x = range cell {
			if x < 0 || x >= n || seen[x] {
				panic(fmt.Sprintf("partition: element %d invalid or repeated", x))
			}
			seen[x] = true
			p.cellOf[x] = i
		}
		p.cells[i] = cell
	}

	return p
}

// FromKeys returns the partition of n = len(keys) elements grouped by equal
// key, cells ordered by ascending key.
func FromKeys(keys []invariant.Vector) *Partition {
	p := New(len(keys))
	p.SplitBy(keys)

	return p
}

// Len returns the number of elements.
func (p *Partition) Len() int { return len(p.cellOf) }

// NumCells returns the number of cells.
func (p *Partition) NumCells() int { return len(p.cells) }

// Cell returns a copy of cell c.
func (p *Partition) Cell(c int) []int { return slices.Clone(p.cells[c]) }

// Cells returns a deep copy of all cells.
func (p *Partition) Cells() [][]int {
	out := make([][]int, len(p.cells))
	var c int
	for c = range p.cells {
		out[c] = slices.Clone(p.cells[c])
	}

	return out
}

// CellOf returns the index of the cell holding x.
func (p *Partition) CellOf(x int) int { return p.cellOf[x] }

// IsDiscrete reports whether every cell is a singleton.
func (p *Partition) IsDiscrete() bool { return len(p.cells) == len(p.cellOf) }

// FirstNonSingleton returns the index of the first cell with more than one
// element, or −1 when the partition is discrete.
func (p *Partition) FirstNonSingleton() int {
	var c int
	for c = range p.cells {
		if len(p.cells[c]) > 1 {
			return c
		}
	}

	return -1
}

// LeadingSingletons returns how many cells at the front are singletons;
// their elements' positions are fixed in every refinement of p.
func (p *Partition) LeadingSingletons() int {
	var c int
	for c = range p.cells {
		if len(p.cells[c]) != 1 {
			return c
		}
	}

	return len(p.cells)
}

// Order returns the elements in cell order. For a discrete partition this is
// the permutation it encodes: Order()[pos] = element at position pos.
func (p *Partition) Order() []int {
	out := make([]int, 0, len(p.cellOf))
	var c []int
	for _, c = range p.cells {
		out = append(out, c...)
	}

	return out
}

// Clone returns a deep copy.
func (p *Partition) Clone() *Partition {
	return &Partition{cells: p.Cells(), cellOf: slices.Clone(p.cellOf)}
}

// Equal reports whether both partitions have the same ordered cells.
func (p *Partition) Equal(o *Partition) bool {
	if len(p.cells) != len(o.cells) {
		return false
	}
	var c int
	for c = range p.cells {
		if !slices.Equal(p.cells[c], o.cells[c]) {
			return false
		}
	}

	return true
}

// Individualize returns a copy of p in which x is split out of its cell into
// a singleton placed immediately before the remainder of that cell.
// Individualizing an element already in a singleton returns an equal copy.
func (p *Partition) Individualize(x int) *Partition {
	q := p.Clone()
	c := q.cellOf[x]
	if len(q.cells[c]) == 1 {
		return q
	}
	rest := make([]int, 0, len(q.cells[c])-1)
	var y int
	for _, y = range q.cells[c] {
		if y != x {
			rest = append(rest, y)
		}
	}
	cells := make([][]int, 0, len(q.cells)+1)
	cells = append(cells, q.cells[:c]...)
	cells = append(cells, []int{x}, rest)
	cells = append(cells, q.cells[c+1:]...)
	q.cells = cells
	q.reindex(c)

	return q
}

// SplitBy refines every cell by keys (keys[x] is the key of element x):
// each cell is replaced by the sub-cells of equal key, ordered by ascending
// key. It reports whether any cell was split.
//
// Complexity: O(n log n · |key|).
func (p *Partition) SplitBy(keys []invariant.Vector) bool {
	var (
		changed bool
		cells   = make([][]int, 0, len(p.cells))
		cell    []int
	)
	for _, cell = range p.cells {
		if len(cell) == 1 {
			cells = append(cells, cell)
			continue
		}
		sorted := slices.Clone(cell)
		slices.SortStableFunc(sorted, func(x, y int) int { return keys[x].Compare(keys[y]) })
		start := 0
		var i int
		for i = 1; i <= len(sorted); i++ {
			if i == len(sorted) || !keys[sorted[i]].Equal(keys[sorted[start]]) {
				sub := slices.Clone(sorted[start:i])
				slices.Sort(sub)
				cells = append(cells, sub)
				start = i
			}
		}
		if len(cells) > 0 && len(cells[len(cells)-1]) != len(cell) {
			changed = true
		}
	}
	if !changed {
		return false
	}
	p.cells = cells
	p.reindex(0)

	return true
}

// reindex refreshes cellOf for cells from index c onward.
func (p *Partition) reindex(from int) {
	var (
		c int
		x int
	)
	for c = from; c < len(p.cells); c++ {
		for _, x = range p.cells[c] {
			p.cellOf[x] = c
		}
	}
}

// String renders the partition as "[0 3 | 1 | 2 4]".
func (p *Partition) String() string {
	parts := make([]string, len(p.cells))
	var c int
	for c = range p.cells {
		s := make([]string, len(p.cells[c]))
		var i int
		for i = range p.cells[c] {
			s[i] = fmt.Sprintf("%d", p.cells[c][i])
		}
		parts[c] = strings.Join(s, " ")
	}

	return "[" + strings.Join(parts, " | ") + "]"
}
