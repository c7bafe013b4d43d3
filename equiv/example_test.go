package equiv_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/oacanon/design"
	"github.com/katalvlaran/oacanon/equiv"
)

func ExampleAreEquivalent() {
	a := design.MustFromRows([][]int{{0}, {1}, {1}})
	b := design.MustFromRows([][]int{{1}, {0}, {0}})
	ok, err := equiv.AreEquivalent(context.Background(), a, b)
	fmt.Println(ok, err)

	c := design.MustFromRows([][]int{{0}, {1}, {2}})
	_, err = equiv.AreEquivalent(context.Background(), a, c)
	fmt.Println(errors.Is(err, equiv.ErrIncompatibleSignature))
	// Output:
	// true <nil>
	// true
}

func ExampleSelectClasses() {
	arrays := []*design.Array{
		design.MustFromRows([][]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}),
		design.MustFromRows([][]int{{0, 0}, {0, 0}, {1, 1}, {1, 1}}),
		design.MustFromRows([][]int{{1, 1}, {0, 1}, {1, 0}, {0, 0}}),
		design.MustFromRows([][]int{{0, 1}, {0, 1}, {1, 0}, {1, 0}}),
	}
	classes, err := equiv.SelectClasses(context.Background(), arrays)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(classes)
	// Output:
	// [0 1 0 1]
}

func ExampleIsCanonical() {
	ctx := context.Background()
	a := design.MustFromRows([][]int{{1}, {0}, {0}})
	before, _ := equiv.IsCanonical(ctx, a)

	r, _ := equiv.Reduce(ctx, a)
	after, _ := equiv.IsCanonical(ctx, r)
	fmt.Println(before, after)
	// Output: 1 0
}
