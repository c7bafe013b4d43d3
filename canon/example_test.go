package canon_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/oacanon/canon"
	"github.com/katalvlaran/oacanon/design"
)

func ExampleCanonicalize() {
	a := design.MustFromRows([][]int{{0, 0, 0}, {0, 1, 1}, {1, 0, 1}, {1, 1, 0}})
	// The same design with rows shuffled and the last column flipped.
	b := design.MustFromRows([][]int{{1, 1, 1}, {0, 0, 1}, {0, 1, 0}, {1, 0, 0}})

	ra, err := canon.Canonicalize(context.Background(), a)
	if err != nil {
		fmt.Println(err)
		return
	}
	rb, err := canon.Canonicalize(context.Background(), b)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("equivalent:", ra.Array.Equal(rb.Array))
	fmt.Println("first row:", ra.Array.Row(0))

	back, _ := rb.Transform.Apply(b)
	fmt.Println("transform reproduces:", back.Equal(rb.Array))
	// Output:
	// equivalent: true
	// first row: [0 0 0]
	// transform reproduces: true
}
