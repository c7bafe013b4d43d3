package design

import (
	"fmt"
	"sort"
)

// exampleBuilders is the catalog of small, well-known designs used by
// self-tests, examples and the CLI. Each builder returns fresh rows.
var exampleBuilders = map[string]func() ([][]int, []int){
	// OA(4; 2^3; 2): the regular half fraction with c = a xor b.
	"oa4-2^3": func() ([][]int, []int) {
		return [][]int{{0, 0, 0}, {0, 1, 1}, {1, 0, 1}, {1, 1, 0}}, []int{2, 2, 2}
	},
	// Full factorial 2^3.
	"ff8-2^3": func() ([][]int, []int) {
		rows := make([][]int, 0, 8)
		var a, b, c int
		for a = 0; a < 2; a++ {
			for b = 0; b < 2; b++ {
				for c = 0; c < 2; c++ {
					rows = append(rows, []int{a, b, c})
				}
			}
		}
		return rows, []int{2, 2, 2}
	},
	// OA(8; 2^4; 3): 2^3 plus d = a xor b xor c.
	"oa8-2^4": func() ([][]int, []int) {
		rows := make([][]int, 0, 8)
		var a, b, c int
		for a = 0; a < 2; a++ {
			for b = 0; b < 2; b++ {
				for c = 0; c < 2; c++ {
					rows = append(rows, []int{a, b, c, a ^ b ^ c})
				}
			}
		}
		return rows, []int{2, 2, 2, 2}
	},
	// OA(9; 3^4; 2): columns a, b, a+b, a+2b over GF(3).
	"oa9-3^4": func() ([][]int, []int) {
		rows := make([][]int, 0, 9)
		var a, b int
		for a = 0; a < 3; a++ {
			for b = 0; b < 3; b++ {
				rows = append(rows, []int{a, b, (a + b) % 3, (a + 2*b) % 3})
			}
		}
		return rows, []int{3, 3, 3, 3}
	},
	// Plackett–Burman design with 12 runs and 11 two-level factors:
	// cyclic shifts of the generator ++-+++---+- plus the all-minus run.
	"pb12-2^11": func() ([][]int, []int) {
		gen := []int{1, 1, 0, 1, 1, 1, 0, 0, 0, 1, 0}
		rows := make([][]int, 0, 12)
		var i, j int
		for i = 0; i < 11; i++ {
			row := make([]int, 11)
			for j = 0; j < 11; j++ {
				row[j] = gen[(j-i+11)%11]
			}
			rows = append(rows, row)
		}
		rows = append(rows, make([]int, 11))
		levels := make([]int, 11)
		for j = range levels {
			levels[j] = 2
		}
		return rows, levels
	},
	// OA(16; 4^1 2^6; 2) from the 2^4 full factorial: F = 2a+b and six
	// two-level columns, each involving c or d.
	"oa16-4.2^6": func() ([][]int, []int) {
		rows := make([][]int, 0, 16)
		var a, b, c, d int
		for a = 0; a < 2; a++ {
			for b = 0; b < 2; b++ {
				for c = 0; c < 2; c++ {
					for d = 0; d < 2; d++ {
						rows = append(rows, []int{2*a + b, c, d, c ^ d, a ^ c, b ^ d, a ^ b ^ c ^ d})
					}
				}
			}
		}
		return rows, []int{4, 2, 2, 2, 2, 2, 2}
	},
	// OA(18; 2^1 3^3; 2): x, b, c, b+c mod 3.
	"oa18-2.3^3": func() ([][]int, []int) {
		rows := make([][]int, 0, 18)
		var x, b, c int
		for x = 0; x < 2; x++ {
			for b = 0; b < 3; b++ {
				for c = 0; c < 3; c++ {
					rows = append(rows, []int{x, b, c, (b + c) % 3})
				}
			}
		}
		return rows, []int{2, 3, 3, 3}
	},
}

// ExampleIDs lists the catalog identifiers in sorted order.
func ExampleIDs() []string {
	ids := make([]string, 0, len(exampleBuilders))
	var id string
	for id = range exampleBuilders {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

// Example returns a fresh copy of the catalog array id.
// Errors: ErrUnknownExample.
func Example(id string) (*Array, error) {
	build, ok := exampleBuilders[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownExample)
	}
	rows, levels := build()

	return New(rows, levels)
}
