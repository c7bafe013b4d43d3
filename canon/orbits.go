package canon

// unionFind is a disjoint-set forest with path halving and union by size.
type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), size: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.size[i] = 1
	}

	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}

	return x
}

func (uf *unionFind) union(x, y int) {
	rx, ry := uf.find(x), uf.find(y)
	if rx == ry {
		return
	}
	if uf.size[rx] < uf.size[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
}

// sameAsAny reports whether x shares a set with any element of xs.
func (uf *unionFind) sameAsAny(x int, xs []int) bool {
	rx := uf.find(x)
	for _, y := range xs {
		if uf.find(y) == rx {
			return true
		}
	}

	return false
}

// representatives returns the members whose set has no earlier member.
func (uf *unionFind) representatives(members []int) []int {
	var (
		reps = make([]int, 0, len(members))
		seen = make(map[int]struct{}, len(members))
	)
	for _, x := range members {
		r := uf.find(x)
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		reps = append(reps, x)
	}

	return reps
}
