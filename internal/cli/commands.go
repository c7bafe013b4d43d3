package cli

import (
	"fmt"
	"math/rand"
	"strings"

	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/oacanon/design"
	"github.com/katalvlaran/oacanon/transform"
)

func newExamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "List the built-in design arrays",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, id := range design.ExampleIDs() {
				a, err := design.Example(id)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%-12s %3d×%-3d %s\n", id, a.Rows(), a.Cols(), a.Signature())
			}
			return nil
		},
	}
}

func newReduceCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "reduce",
		Short: "Print the canonical form of a built-in array",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := envFromContext(cmd.Context())
			if err != nil {
				return err
			}
			a, err := design.Example(id)
			if err != nil {
				return err
			}
			p := newProgress(loggerFromContext(cmd.Context()))
			res, err := e.reducer.Canonicalize(cmd.Context(), a)
			if err != nil {
				return fmt.Errorf("reduce %s: %w", id, err)
			}
			p.done(fmt.Sprintf("Reduced %s in %d nodes", id, res.Stats.Nodes))

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "input %s", a)
			fmt.Fprintf(w, "canonical %s", res.Array)
			fmt.Fprintln(w, res.Transform)
			fmt.Fprintf(w, "symmetry generators %d\n", len(res.Automorphisms))
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "example", "oa8-2^4", "built-in array id (see 'oacanon examples')")

	return cmd
}

func newSelftestCmd() *cobra.Command {
	var (
		ids    []string
		seed   int64
		trials int
	)

	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Check canonical forms of built-in arrays against random transformations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := envFromContext(cmd.Context())
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				ids = design.ExampleIDs()
			}
			var (
				ctx    = cmd.Context()
				w      = cmd.OutOrStdout()
				rng    = transform.NewRNG(seed)
				failed []string
			)
			for i, id := range ids {
				a, err := design.Example(id)
				if err != nil {
					return err
				}
				err = selftestOne(cmd, e, a, id, trials, transform.DeriveRNG(rng, uint64(i)))
				if err != nil {
					if ctx.Err() != nil {
						return err
					}
					failed = append(failed, id)
					e.logger.Error("self-test failed", "example", id, "err", err)
					fmt.Fprintf(w, "FAIL %s: %v\n", id, err)
					continue
				}
				fmt.Fprintf(w, "ok   %s\n", id)
			}
			logSearchTotals(e)
			if len(failed) > 0 {
				return fmt.Errorf("self-test failed for %s", strings.Join(failed, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&ids, "example", nil, "built-in array ids (default: all)")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed for the transformations")
	cmd.Flags().IntVar(&trials, "trials", 3, "random transformations per array")

	return cmd
}

// selftestOne reduces a and trials random transforms of it, requiring equal
// canonical forms and a canonical form that reduces to itself, then checks that the reduction transformation of every
// copy reproduces its canonical form.
func selftestOne(cmd *cobra.Command, e *env, a *design.Array, id string, trials int, rng *rand.Rand) error {
	ctx := cmd.Context()
	want, err := e.reducer.Canonicalize(ctx, a)
	if err != nil {
		return err
	}
	if err = checkTransform(a, want.Array, want.Transform); err != nil {
		return err
	}
	c, err := e.reducer.IsCanonical(ctx, want.Array)
	if err != nil {
		return err
	}
	if c != 0 {
		return fmt.Errorf("canonical form is not fixed by reduction (compare %d)", c)
	}
	for trial := 0; trial < trials; trial++ {
		tr := transform.RandomFull(a.Rows(), a.Levels(), transform.NewRNG(rng.Int63()))
		b, err := tr.Apply(a)
		if err != nil {
			return err
		}
		got, err := e.reducer.Canonicalize(ctx, b)
		if err != nil {
			return err
		}
		if !got.Array.Equal(want.Array) {
			return fmt.Errorf("trial %d: canonical forms differ under %v", trial, tr)
		}
		if err = checkTransform(b, got.Array, got.Transform); err != nil {
			return fmt.Errorf("trial %d: %w", trial, err)
		}
		e.logger.Debug("trial passed", "example", id, "trial", trial, "nodes", got.Stats.Nodes)
	}

	return nil
}

func checkTransform(a, canonical *design.Array, t *transform.Transformation) error {
	got, err := t.Apply(a)
	if err != nil {
		return fmt.Errorf("reduction transformation: %w", err)
	}
	if !got.Equal(canonical) {
		return fmt.Errorf("reduction transformation does not reproduce the canonical form")
	}

	return nil
}

// logSearchTotals reports the collector's counters at debug level.
func logSearchTotals(e *env) {
	mfs, err := e.registry.Gather()
	if err != nil {
		e.logger.Warn("gather metrics", "err", err)
		return
	}
	kv := make([]any, 0, 2*len(mfs))
	for _, mf := range mfs {
		if mf.GetType() != dto.MetricType_COUNTER {
			continue
		}
		var total float64
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		kv = append(kv, strings.TrimPrefix(mf.GetName(), "oacanon_canon_"), total)
	}
	e.logger.Debug("search totals", kv...)
}
