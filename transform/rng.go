// Package transform - deterministic random transformations.
//
// Random transformations drive the self-test harness: reduce an array and a
// randomly transformed copy, then require identical canonical forms.
//
// Concurrency:
//   - math/rand.Rand is NOT goroutine-safe. Do not share a *rand.Rand across goroutines.
//   - Use DeriveRNG to create independent streams for parallel workers.
package transform

import "math/rand"

// defaultRNGSeed is the fixed seed used when callers pass seed==0.
const defaultRNGSeed int64 = 1

// NewRNG returns a deterministic *rand.Rand.
// Policy: seed==0 ⇒ defaultRNGSeed; otherwise the provided seed verbatim.
func NewRNG(seed int64) *rand.Rand {
	s := seed
	if s == 0 {
		s = defaultRNGSeed
	}

	return rand.New(rand.NewSource(s))
}

// deriveSeed mixes a parent seed and a stream identifier (SplitMix64 finalizer).
func deriveSeed(parent int64, stream uint64) int64 {
	var x uint64
	x = uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// DeriveRNG creates an independent deterministic stream from base and a
// stream id. base.Int63() is consumed once so repeated ids still diverge.
func DeriveRNG(base *rand.Rand, stream uint64) *rand.Rand {
	parent := defaultRNGSeed
	if base != nil {
		parent = base.Int63()
	}

	return rand.New(rand.NewSource(deriveSeed(parent, stream)))
}

// permRange returns a uniformly random permutation of 0..n-1.
func permRange(n int, rng *rand.Rand) []int {
	p := seq(n)
	var i, j int
	for i = n - 1; i > 0; i-- {
		j = rng.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}

	return p
}

// Random returns a uniformly random group element that preserves the ordered
// level vector: any row permutation, column permutations within runs of
// equal level count, and arbitrary symbol permutations. Its output levels
// equal its input levels, so random transformations compose freely.
//
// If rng==nil the default deterministic stream is used.
// Complexity: O(n + Σ levels).
func Random(n int, levels []int, rng *rand.Rand) *Transformation {
	if rng == nil {
		rng = NewRNG(0)
	}
	t := &Transformation{
		levels:  append([]int(nil), levels...),
		rowPerm: permRange(n, rng),
		colPerm: make([]int, len(levels)),
		symbols: make([][]int, len(levels)),
	}
	// Group columns by level count and shuffle within each group.
	groups := make(map[int][]int)
	var j int
	for j = range levels {
		groups[levels[j]] = append(groups[levels[j]], j)
	}
	for j = range levels {
		g := groups[levels[j]]
		if len(g) == 0 {
			continue
		}
		p := permRange(len(g), rng)
		var x int
		for x = range g {
			t.colPerm[g[x]] = g[p[x]]
		}
		groups[levels[j]] = nil
	}
	for j = range levels {
		t.symbols[j] = permRange(levels[t.colPerm[j]], rng)
	}

	return t
}

// RandomFull is like Random but permutes columns arbitrarily, so the output
// level vector is a permutation of the input one.
func RandomFull(n int, levels []int, rng *rand.Rand) *Transformation {
	if rng == nil {
		rng = NewRNG(0)
	}
	t := &Transformation{
		levels:  append([]int(nil), levels...),
		rowPerm: permRange(n, rng),
		colPerm: permRange(len(levels), rng),
		symbols: make([][]int, len(levels)),
	}
	var j int
	for j = range levels {
		t.symbols[j] = permRange(levels[t.colPerm[j]], rng)
	}

	return t
}

// RandomRows returns a transformation that only permutes rows.
func RandomRows(n int, levels []int, rng *rand.Rand) *Transformation {
	if rng == nil {
		rng = NewRNG(0)
	}
	t := Identity(n, levels)
	t.rowPerm = permRange(n, rng)

	return t
}
