// Package cli implements the oacanon command-line interface.
//
// # Commands
//
//   - examples: list the built-in design arrays
//   - reduce:   print the canonical form and reduction transformation
//   - selftest: reduce an array and randomly transformed copies, check that
//     the canonical forms agree and that the reduction transformation
//     reproduces the canonical form
//
// # Configuration
//
// Search settings come from an optional TOML file (--config) overridden by
// the global flags --workers, --max-nodes, --timeout, --cache and --verbose.
//
// # Logging
//
// --verbose (-v) switches the charmbracelet logger to debug level, which also
// enables the per-search summaries of the canon package. Loggers travel in
// the command context.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/oacanon/canon"
	"github.com/katalvlaran/oacanon/equiv"
	"github.com/katalvlaran/oacanon/metrics"
)

var version = "dev"

// SetVersion sets the version shown by --version.
func SetVersion(v string) { version = v }

type globalFlags struct {
	config   string
	workers  int
	maxNodes int64
	timeout  time.Duration
	cache    int
	verbose  bool
}

// env is the per-invocation state built by the root PersistentPreRunE.
type env struct {
	cfg      Config
	logger   *charmlog.Logger
	registry *prometheus.Registry
	reducer  *equiv.Reducer
}

type envKey struct{}

func envFromContext(ctx context.Context) (*env, error) {
	e, ok := ctx.Value(envKey{}).(*env)
	if !ok {
		return nil, fmt.Errorf("cli: command environment not initialized")
	}

	return e, nil
}

// Execute runs the oacanon CLI with the process arguments.
func Execute(ctx context.Context) error {
	return NewRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree writing results to out and logs to
// errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	f := &globalFlags{}

	root := &cobra.Command{
		Use:          "oacanon",
		Short:        "Canonical forms of orthogonal and design arrays",
		Long:         `oacanon reduces design arrays to a canonical representative under row permutations, column permutations and per-column symbol relabelings.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f.config)
			if err != nil {
				return err
			}
			cfg.override(cmd, f)

			level := charmlog.InfoLevel
			if cfg.Verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(errOut, level)

			reg := prometheus.NewRegistry()
			col, err := metrics.NewCollector(reg)
			if err != nil {
				return fmt.Errorf("metrics: %w", err)
			}
			opts := append(cfg.searchOptions(), canon.WithLogger(logger), canon.WithObserver(col))
			reducer, err := equiv.NewReducer(cfg.Cache, opts...)
			if err != nil {
				return err
			}

			ctx := withLogger(cmd.Context(), logger)
			ctx = context.WithValue(ctx, envKey{}, &env{cfg: cfg, logger: logger, registry: reg, reducer: reducer})
			cmd.SetContext(ctx)
			logger.Debug("configuration", "workers", cfg.Workers, "max_nodes", cfg.MaxNodes, "timeout", cfg.timeout, "cache", cfg.Cache)

			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&f.config, "config", "", "TOML configuration file")
	pf.IntVar(&f.workers, "workers", 1, "concurrent root branches per search")
	pf.Int64Var(&f.maxNodes, "max-nodes", 0, "search node budget (0 = unlimited)")
	pf.DurationVar(&f.timeout, "timeout", 0, "search time budget (0 = unlimited)")
	pf.IntVar(&f.cache, "cache", 256, "canonical-form cache size")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newExamplesCmd())
	root.AddCommand(newReduceCmd())
	root.AddCommand(newSelftestCmd())

	return root
}
