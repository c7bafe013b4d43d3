// Package invariant - generalized word-length pattern.
//
// The GWLP (A_0, …, A_k) of a mixed-level array is computed from its
// distance distribution with the Xu–Wu MacWilliams identity. Columns are
// grouped by level count s_g (n_g columns each). For an ordered pair of rows
// let d = (d_1, …, d_G) count the differing columns per group. Then
//
//	N²·A_j = Σ_{ordered pairs} Σ_{j_1+…+j_G=j} Π_g P_{j_g}(d_g; n_g, s_g)
//
// with the Krawtchouk polynomial
//
//	P_j(x; n, s) = Σ_l (−1)^l (s−1)^(j−l) C(x, l) C(n−x, j−l).
//
// Every term is an integer, so ScaledGWLP is exact. int64 overflow wraps
// deterministically and therefore cannot break invariance, only ranking
// quality on very large arrays.
//
// Complexity: O(N²·k) for the distance distribution plus O(D·k²) for the
// transform, where D ≤ N² is the number of distinct distance vectors.
package invariant

import "github.com/katalvlaran/oacanon/design"

// groups describes the level groups of an array: for each column its group
// index, and for each group its level count and size, ordered by level.
type groups struct {
	of     []int // column -> group
	levels []int // group -> level count
	sizes  []int // group -> number of columns
}

func groupColumns(a *design.Array) groups {
	levels, sizes := a.Signature().Groups()
	g := groups{of: make([]int, a.Cols()), levels: levels, sizes: sizes}
	var j, x int
	for j = 0; j < a.Cols(); j++ {
		for x = range levels {
			if levels[x] == a.Level(j) {
				g.of[j] = x
				break
			}
		}
	}

	return g
}

// key encodes a distance vector in mixed radix (size_g + 1).
func (g groups) key(d []int) int {
	var k, x int
	for x = range d {
		k = k*(g.sizes[x]+1) + d[x]
	}

	return k
}

// decode inverts key.
func (g groups) decode(k int, d []int) {
	var x int
	for x = len(g.sizes) - 1; x >= 0; x-- {
		d[x] = k % (g.sizes[x] + 1)
		k /= g.sizes[x] + 1
	}
}

// distance fills d with the per-group Hamming distance between rows r and q.
func (g groups) distance(a *design.Array, r, q int, d []int) {
	var (
		k   = a.Cols()
		raw = a.Raw()
		j   int
	)
	clear(d)
	for j = 0; j < k; j++ {
		if raw[r*k+j] != raw[q*k+j] {
			d[g.of[j]]++
		}
	}
}

// DistanceDistribution returns the number of ordered row pairs (including
// r == q) at each per-level-group distance vector, keyed by the vector
// rendered in group order (ascending level count).
//
// Complexity: O(N²·k).
func DistanceDistribution(a *design.Array) map[string]int64 {
	var (
		g    = groupColumns(a)
		hist = distanceHistogram(a, g)
		out  = make(map[string]int64, len(hist))
		d    = make([]int, len(g.sizes))
	)
	var (
		key int
		c   int64
	)
	for key, c = range hist {
		g.decode(key, d)
		out[intsString(d)] = c
	}

	return out
}

func distanceHistogram(a *design.Array, g groups) map[int]int64 {
	var (
		n    = a.Rows()
		hist = make(map[int]int64)
		d    = make([]int, len(g.sizes))
		r, q int
	)
	for r = 0; r < n; r++ {
		hist[0]++ // the (r, r) pair is at distance zero
		for q = r + 1; q < n; q++ {
			g.distance(a, r, q, d)
			hist[g.key(d)] += 2
		}
	}

	return hist
}

// ScaledGWLP returns N²·A_j for j = 0..k as exact integers.
func ScaledGWLP(a *design.Array) Vector {
	var (
		k    = a.Cols()
		g    = groupColumns(a)
		hist = distanceHistogram(a, g)
		out  = make(Vector, k+1)
		d    = make([]int, len(g.sizes))
		key  int
		c    int64
	)
	for key, c = range hist {
		g.decode(key, d)
		q := []int64{1}
		var x int
		for x = range g.sizes {
			q = convolve(q, krawtchoukRow(d[x], g.sizes[x], g.levels[x]))
		}
		var j int
		for j = range q {
			out[j] += c * q[j]
		}
	}

	return out
}

// GWLP returns the generalized word-length pattern (A_0, …, A_k).
// A_0 is always 1 for a valid array.
func GWLP(a *design.Array) []float64 {
	var (
		scaled = ScaledGWLP(a)
		n2     = float64(a.Rows()) * float64(a.Rows())
		out    = make([]float64, len(scaled))
		j      int
	)
	for j = range scaled {
		out[j] = float64(scaled[j]) / n2
	}

	return out
}

// krawtchoukRow returns P_j(x; n, s) for j = 0..n.
func krawtchoukRow(x, n, s int) []int64 {
	row := make([]int64, n+1)
	var j, l int
	for j = 0; j <= n; j++ {
		var sum int64
		for l = 0; l <= j; l++ {
			term := binomial(x, l) * binomial(n-x, j-l) * power(int64(s-1), j-l)
			if l%2 == 1 {
				term = -term
			}
			sum += term
		}
		row[j] = sum
	}

	return row
}

func convolve(p, q []int64) []int64 {
	out := make([]int64, len(p)+len(q)-1)
	var i, j int
	for i = range p {
		for j = range q {
			out[i+j] += p[i] * q[j]
		}
	}

	return out
}

func binomial(n, k int) int64 {
	if k < 0 || n < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	var (
		r int64 = 1
		i int
	)
	for i = 1; i <= k; i++ {
		r = r * int64(n-k+i) / int64(i)
	}

	return r
}

func power(b int64, e int) int64 {
	var r int64 = 1
	for ; e > 0; e-- {
		r *= b
	}

	return r
}
