// Package canon defines types and options for the canonical search engine,
// including cancellation, node/time budgets, parallel root branching,
// logging and observation hooks.
package canon

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/katalvlaran/oacanon/design"
	"github.com/katalvlaran/oacanon/transform"
)

var (
	// ErrSearchBudgetExceeded is returned when the context is cancelled or the
	// node or time budget is used up before the search tree is exhausted.
	// No partial result accompanies it.
	ErrSearchBudgetExceeded = errors.New("canon: search budget exceeded")

	// ErrNilArray is returned when a nil *design.Array is passed in.
	ErrNilArray = errors.New("canon: array is nil")

	// ErrNotAutomorphism is returned by Automorphism.Transformation when the
	// permutation pair does not preserve the array up to symbol relabeling.
	ErrNotAutomorphism = errors.New("canon: not an automorphism of the array")
)

// Option configures optional behavior of Canonicalize.
type Option func(*Options)

// Options holds the configurable parameters of one canonicalization call.
type Options struct {
	// Workers is the number of root-level sibling branches explored
	// concurrently. Values ≤ 1 run the search on the calling goroutine.
	Workers int

	// MaxNodes, if positive, bounds the number of search-tree nodes visited
	// (shared across workers). Exceeding it fails the call.
	MaxNodes int64

	// TimeLimit, if positive, bounds the wall-clock time of the search.
	TimeLimit time.Duration

	// AutomorphismPruning skips children of a node that lie in the same orbit
	// as an already explored sibling under automorphisms found so far.
	// Disabling it never changes the result, only the work done.
	AutomorphismPruning bool

	// Logger receives debug-level search summaries. Defaults to a logger
	// writing to io.Discard.
	Logger *log.Logger

	// Observer receives start/complete events. Defaults to NopObserver.
	Observer Observer
}

// DefaultOptions returns Options with:
//   - sequential search (Workers = 1)
//   - no node or time budget
//   - automorphism pruning enabled
//   - a discarding logger and a no-op observer
func DefaultOptions() Options {
	return Options{
		Workers:             1,
		MaxNodes:            0,
		TimeLimit:           0,
		AutomorphismPruning: true,
		Logger:              log.New(io.Discard),
		Observer:            NopObserver{},
	}
}

// WithWorkers sets the number of concurrent root branches.
func WithWorkers(n int) Option {
	return func(o *Options) {
		o.Workers = n
	}
}

// WithMaxNodes sets the node budget; n ≤ 0 disables it.
func WithMaxNodes(n int64) Option {
	return func(o *Options) {
		o.MaxNodes = n
	}
}

// WithTimeLimit sets the wall-clock budget; d ≤ 0 disables it.
func WithTimeLimit(d time.Duration) Option {
	return func(o *Options) {
		o.TimeLimit = d
	}
}

// WithoutAutomorphismPruning disables orbit pruning (testing/benchmarking).
func WithoutAutomorphismPruning() Option {
	return func(o *Options) {
		o.AutomorphismPruning = false
	}
}

// WithLogger installs l as the search logger. A nil logger has no effect.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithObserver installs obs. A nil observer has no effect.
func WithObserver(obs Observer) Option {
	return func(o *Options) {
		if obs != nil {
			o.Observer = obs
		}
	}
}

// Stats reports the work done by one canonicalization call.
type Stats struct {
	Nodes         int64         // search-tree nodes visited
	Leaves        int64         // discrete leaves evaluated
	Pruned        int64         // subtrees cut by the prefix comparison
	OrbitPruned   int64         // children skipped by automorphism pruning
	Automorphisms int64         // automorphisms recorded
	Improvements  int64         // times the incumbent was replaced
	Elapsed       time.Duration // wall-clock time
}

func (s *Stats) add(o Stats) {
	s.Nodes += o.Nodes
	s.Leaves += o.Leaves
	s.Pruned += o.Pruned
	s.OrbitPruned += o.OrbitPruned
	s.Automorphisms += o.Automorphisms
	s.Improvements += o.Improvements
}

// Result is the outcome of a successful canonicalization.
type Result struct {
	// Array is the canonical representative.
	Array *design.Array

	// Transform maps the input to Array: Transform.Apply(input) == Array.
	Transform *transform.Transformation

	// Automorphisms are the symmetries of the input met during the search:
	// transpositions of identical rows and of same-level columns equal up to
	// relabeling, plus one element per pair of equal leaves. Together with the
	// identity they generate a subgroup of the automorphism group of the
	// input; its orbits on rows and columns are what pruning skips.
	Automorphisms []Automorphism

	// Stats describes the search.
	Stats Stats
}
