// Package canon: the individualization-refinement search.
//
// The engine explores a search tree whose nodes are (row partition, column
// partition) pairs produced by the partition Refiner:
//
//  1. The root is the refined static partition pair.
//  2. At a non-discrete node the first non-singleton row cell is branched on
//     (column cells only once the rows are discrete). Each child individualizes
//     one element of that cell and refines again.
//  3. A discrete node is a leaf. Its image is the array read in the leaf's row
//     and column order, each column relabeled by first occurrence from the
//     top. The canonical form is the lexicographically smallest leaf image.
//
// Pruning:
//   - Prefix: the block of the image fixed by the leading singleton cells is
//     compared against the incumbent; a strictly greater block cuts the subtree.
//   - Orbits: two leaves with equal images yield an automorphism. Children
//     lying in one orbit of the automorphisms fixing the node's path have
//     identical subtree images, so only the first is explored.
//
// Budgets: the context is polled at every node, the node budget is shared by
// all branches and the deadline is checked every 256 nodes. Hitting any of
// them aborts the whole search with ErrSearchBudgetExceeded.
//
// Complexity:
//   - Worst case exponential in min(N, k) (highly regular arrays).
//   - Per node: one refinement, O(N·k·C) per pass.
//   - Memory: O(depth·(N+k)) for partitions plus O(|Aut|·(N+k)) for stored
//     automorphisms.

package canon

import (
	"context"
	"encoding/binary"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/katalvlaran/oacanon/design"
	"github.com/katalvlaran/oacanon/partition"
)

const (
	rowAxis = iota
	colAxis
)

// maxAutomorphisms bounds the automorphisms stored per branch.
const maxAutomorphisms = 1 << 12

// incumbent is a leaf: its row/column order and image.
type incumbent struct {
	rows   []int
	cols   []int
	image  []int
	branch int // root branch index, lower wins ties
}

// automorphism in scatter form: row x maps to rows[x], column c to cols[c].
type automorphism struct {
	rows []int
	cols []int
}

// fixes reports whether g fixes every element id of path pointwise.
// Ids below n are rows, ids ≥ n are columns shifted by n.
func (g automorphism) fixes(path []int, n int) bool {
	for _, id := range path {
		if id < n {
			if g.rows[id] != id {
				return false
			}
		} else if g.cols[id-n] != id-n {
			return false
		}
	}

	return true
}

// shared is the state visible to every branch of one call.
type shared struct {
	best  atomic.Pointer[incumbent]
	nodes atomic.Int64
	stop  atomic.Bool

	mu  sync.Mutex
	err error
}

// fail records the first abort reason and stops every branch.
func (s *shared) fail(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
	s.stop.Store(true)
}

func (s *shared) failure() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}

// engine holds the data and policies of one search branch. Engines forked for
// parallel root branches share the Refiner and the shared block; everything
// else is private.
type engine struct {
	// Input
	a        *design.Array
	n, k     int
	raw      []int
	levels   []int
	maxLevel int
	ref      *partition.Refiner

	// Policy
	ctx         context.Context
	autPrune    bool
	maxNodes    int64
	useDeadline bool
	deadline    time.Time

	sh *shared

	// Branch-local state
	branch int
	steps  int
	stats  Stats
	autos  []automorphism
	first  *incumbent
}

func newEngine(ctx context.Context, a *design.Array, ref *partition.Refiner, o Options) *engine {
	e := &engine{
		a:        a,
		n:        a.Rows(),
		k:        a.Cols(),
		raw:      a.Raw(),
		levels:   a.Levels(),
		ref:      ref,
		ctx:      ctx,
		autPrune: o.AutomorphismPruning,
		maxNodes: o.MaxNodes,
		sh:       &shared{},
	}
	for _, s := range e.levels {
		e.maxLevel = max(e.maxLevel, s)
	}
	if o.TimeLimit > 0 {
		e.useDeadline = true
		e.deadline = time.Now().Add(o.TimeLimit)
	}

	return e
}

// fork returns an engine for root branch b sharing input, policy and the
// shared block with e. Seeded automorphisms are copied.
func (e *engine) fork(ctx context.Context, b int) *engine {
	w := *e
	w.ctx = ctx
	w.branch = b
	w.steps = 0
	w.stats = Stats{}
	w.first = nil
	w.autos = slices.Clone(e.autos)

	return &w
}

// check counts one node and reports whether the search must stop.
func (e *engine) check() bool {
	if e.sh.stop.Load() {
		return true
	}
	select {
	case <-e.ctx.Done():
		e.sh.fail(fmt.Errorf("%w: %w", ErrSearchBudgetExceeded, e.ctx.Err()))
		return true
	default:
	}
	if nodes := e.sh.nodes.Add(1); e.maxNodes > 0 && nodes > e.maxNodes {
		e.sh.fail(fmt.Errorf("%w: node budget %d", ErrSearchBudgetExceeded, e.maxNodes))
		return true
	}
	e.steps++
	if e.useDeadline && e.steps&255 == 0 && time.Now().After(e.deadline) {
		e.sh.fail(fmt.Errorf("%w: time limit", ErrSearchBudgetExceeded))
		return true
	}

	return false
}

// target picks the cell to branch on: rows first, then columns. cell < 0
// means the node is a leaf.
func (e *engine) target(rows, cols *partition.Partition) (axis, cell int) {
	if c := rows.FirstNonSingleton(); c >= 0 {
		return rowAxis, c
	}
	if c := cols.FirstNonSingleton(); c >= 0 {
		return colAxis, c
	}

	return rowAxis, -1
}

func (e *engine) elem(axis, x int) int {
	if axis == rowAxis {
		return x
	}

	return e.n + x
}

// child individualizes x on axis and refines the result.
func (e *engine) child(rows, cols *partition.Partition, axis, x int) (*partition.Partition, *partition.Partition) {
	var cr, cc *partition.Partition
	if axis == rowAxis {
		cr, cc = rows.Individualize(x), cols.Clone()
	} else {
		cr, cc = rows.Clone(), cols.Individualize(x)
	}
	e.ref.Refine(cr, cc)

	return cr, cc
}

// search explores the subtree rooted at (rows, cols); path lists the element
// ids individualized on the way down.
func (e *engine) search(rows, cols *partition.Partition, path []int) {
	if e.check() {
		return
	}
	e.stats.Nodes++
	if best := e.sh.best.Load(); best != nil && e.comparePrefix(rows, cols, best) > 0 {
		e.stats.Pruned++
		return
	}

	axis, cell := e.target(rows, cols)
	if cell < 0 {
		e.leaf(rows, cols)
		return
	}

	var (
		members  []int
		explored []int
		orbits   *unionFind
		seen     = -1
	)
	if axis == rowAxis {
		members = rows.Cell(cell)
	} else {
		members = cols.Cell(cell)
	}
	explored = make([]int, 0, len(members))
	for _, x := range members {
		if e.sh.stop.Load() {
			return
		}
		if e.autPrune && len(explored) > 0 {
			if len(e.autos) != seen {
				orbits, seen = e.orbits(axis, path), len(e.autos)
			}
			if orbits.sameAsAny(x, explored) {
				e.stats.OrbitPruned++
				continue
			}
		}
		cr, cc := e.child(rows, cols, axis, x)
		e.search(cr, cc, append(slices.Clip(path), e.elem(axis, x)))
		explored = append(explored, x)
	}
}

// orbits joins the elements of axis under every stored automorphism that
// fixes path pointwise.
func (e *engine) orbits(axis int, path []int) *unionFind {
	size := e.n
	if axis == colAxis {
		size = e.k
	}
	uf := newUnionFind(size)
	for _, g := range e.autos {
		if !g.fixes(path, e.n) {
			continue
		}
		perm := g.rows
		if axis == colAxis {
			perm = g.cols
		}
		for x, y := range perm {
			uf.union(x, y)
		}
	}

	return uf
}

// leaf evaluates a discrete node and offers it as the new incumbent.
func (e *engine) leaf(rows, cols *partition.Partition) {
	e.stats.Leaves++
	cand := &incumbent{rows: rows.Order(), cols: cols.Order(), branch: e.branch}
	cand.image = e.image(cand.rows, cand.cols)

	if e.first == nil {
		e.first = cand
	} else if slices.Equal(cand.image, e.first.image) {
		e.addAutomorphism(e.first, cand)
	}

	best := e.sh.best.Load()
	if best != nil && best != e.first && slices.Equal(cand.image, best.image) {
		e.addAutomorphism(best, cand)
	}
	for {
		if best != nil {
			c := slices.Compare(cand.image, best.image)
			if c > 0 || (c == 0 && best.branch <= cand.branch) {
				return
			}
		}
		if e.sh.best.CompareAndSwap(best, cand) {
			e.stats.Improvements++
			return
		}
		best = e.sh.best.Load()
	}
}

// addAutomorphism stores the automorphism mapping leaf p onto leaf q.
func (e *engine) addAutomorphism(p, q *incumbent) {
	if len(e.autos) >= maxAutomorphisms {
		return
	}
	g := automorphism{rows: make([]int, e.n), cols: make([]int, e.k)}
	identity := true
	for i, x := range p.rows {
		g.rows[x] = q.rows[i]
		identity = identity && x == q.rows[i]
	}
	for j, c := range p.cols {
		g.cols[c] = q.cols[j]
		identity = identity && c == q.cols[j]
	}
	if identity {
		return
	}
	e.autos = append(e.autos, g)
	e.stats.Automorphisms++
}

// image reads the array in the given row/column order, relabeling each
// column by first occurrence.
func (e *engine) image(rowOrder, colOrder []int) []int {
	var (
		img  = make([]int, e.n*e.k)
		m    = make([]int, e.maxLevel)
		i, j int
	)
	for j = 0; j < len(colOrder); j++ {
		c := colOrder[j]
		for v := 0; v < e.levels[c]; v++ {
			m[v] = -1
		}
		next := 0
		for i = 0; i < len(rowOrder); i++ {
			v := e.raw[rowOrder[i]*e.k+c]
			if m[v] < 0 {
				m[v] = next
				next++
			}
			img[i*e.k+j] = m[v]
		}
	}

	return img
}

// symbolMaps returns the full relabeling of every target column for the leaf
// (rowOrder, colOrder): first-occurrence labels for used symbols, remaining
// labels to unused symbols in ascending order.
func (e *engine) symbolMaps(rowOrder, colOrder []int) [][]int {
	maps := make([][]int, len(colOrder))
	for j, c := range colOrder {
		m := make([]int, e.levels[c])
		for v := range m {
			m[v] = -1
		}
		next := 0
		for _, r := range rowOrder {
			v := e.raw[r*e.k+c]
			if m[v] < 0 {
				m[v] = next
				next++
			}
		}
		for v := range m {
			if m[v] < 0 {
				m[v] = next
				next++
			}
		}
		maps[j] = m
	}

	return maps
}

// comparePrefix compares the part of the image fixed at this node with the
// incumbent image. Rows 0..r-1 and columns 0..c-1 of every leaf below are
// known, where r and c count the leading singleton cells. Row-major order
// means only row 0 is comparable until all columns are fixed.
func (e *engine) comparePrefix(rows, cols *partition.Partition, best *incumbent) int {
	r, c := rows.LeadingSingletons(), cols.LeadingSingletons()
	if r == 0 || c == 0 {
		return 0
	}
	var (
		rowOrder = rows.Order()[:r]
		colOrder = cols.Order()[:c]
		maps     = make([][]int, c)
		next     = make([]int, c)
		i, j     int
	)
	for j = 0; j < c; j++ {
		maps[j] = make([]int, e.levels[colOrder[j]])
		for v := range maps[j] {
			maps[j][v] = -1
		}
	}
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			v := e.raw[rowOrder[i]*e.k+colOrder[j]]
			if maps[j][v] < 0 {
				maps[j][v] = next[j]
				next[j]++
			}
			if d := maps[j][v] - best.image[i*e.k+j]; d != 0 {
				if d < 0 {
					return -1
				}
				return 1
			}
		}
		if c < e.k {
			return 0
		}
	}

	return 0
}

// seedAutomorphisms records the obvious automorphisms: transpositions of
// identical rows and of same-level columns equal up to relabeling. Rows and
// column patterns are bucketed by xxhash; a bucket hit is confirmed by
// comparing the values.
func (e *engine) seedAutomorphisms() {
	var (
		buf   []byte
		byRow = make(map[uint64][]int, e.n) // hash → last row of each distinct value
		i, j  int
	)
	for i = 0; i < e.n; i++ {
		row := e.raw[i*e.k : (i+1)*e.k]
		buf = appendInts(buf[:0], row)
		h := xxhash.Sum64(buf)
		b := slices.IndexFunc(byRow[h], func(p int) bool {
			return slices.Equal(e.raw[p*e.k:(p+1)*e.k], row)
		})
		if b < 0 {
			byRow[h] = append(byRow[h], i)
			continue
		}
		e.autos = append(e.autos, e.transposition(rowAxis, byRow[h][b], i))
		byRow[h][b] = i
	}

	var (
		all      = make([]int, e.n)
		patterns = make([][]int, e.k)
		byCol    = make(map[uint64][]int, e.k)
	)
	for i = range all {
		all[i] = i
	}
	for j = 0; j < e.k; j++ {
		patterns[j] = e.image(all, []int{j})
		buf = appendInts(buf[:0], []int{e.levels[j]})
		buf = appendInts(buf, patterns[j])
		h := xxhash.Sum64(buf)
		b := slices.IndexFunc(byCol[h], func(c int) bool {
			return e.levels[c] == e.levels[j] && slices.Equal(patterns[c], patterns[j])
		})
		if b < 0 {
			byCol[h] = append(byCol[h], j)
			continue
		}
		e.autos = append(e.autos, e.transposition(colAxis, byCol[h][b], j))
		byCol[h][b] = j
	}
	if len(e.autos) > maxAutomorphisms {
		e.autos = e.autos[:maxAutomorphisms]
	}
	e.stats.Automorphisms += int64(len(e.autos))
}

func appendInts(buf []byte, xs []int) []byte {
	for _, x := range xs {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(x))
	}

	return buf
}

func (e *engine) transposition(axis, x, y int) automorphism {
	g := automorphism{rows: make([]int, e.n), cols: make([]int, e.k)}
	for i := range g.rows {
		g.rows[i] = i
	}
	for j := range g.cols {
		g.cols[j] = j
	}
	if axis == rowAxis {
		g.rows[x], g.rows[y] = y, x
	} else {
		g.cols[x], g.cols[y] = y, x
	}

	return g
}
