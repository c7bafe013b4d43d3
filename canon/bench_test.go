package canon_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/oacanon/canon"
	"github.com/katalvlaran/oacanon/design"
)

func benchmarkExample(b *testing.B, id string, opts ...canon.Option) {
	a, err := design.Example(id)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for b.Loop() {
		if _, err = canon.Canonicalize(context.Background(), a, opts...); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCanonicalize_OA16(b *testing.B) { benchmarkExample(b, "oa16-4.2^6") }

func BenchmarkCanonicalize_PB12(b *testing.B) { benchmarkExample(b, "pb12-2^11") }

func BenchmarkCanonicalize_PB12_NoOrbits(b *testing.B) {
	benchmarkExample(b, "pb12-2^11", canon.WithoutAutomorphismPruning())
}

func BenchmarkCanonicalize_PB12_Parallel(b *testing.B) {
	benchmarkExample(b, "pb12-2^11", canon.WithWorkers(4))
}
