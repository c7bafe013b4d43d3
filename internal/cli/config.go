package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/oacanon/canon"
)

// Config holds the search settings shared by all commands. It is read from a
// TOML file (--config) and then overridden by explicitly set flags:
//
//	workers   = 4
//	max_nodes = 1000000
//	timeout   = "30s"
//	cache     = 256
//	verbose   = true
type Config struct {
	Workers  int    `toml:"workers"`
	MaxNodes int64  `toml:"max_nodes"`
	Timeout  string `toml:"timeout"`
	Cache    int    `toml:"cache"`
	Verbose  bool   `toml:"verbose"`

	timeout time.Duration
}

// defaultConfig mirrors canon.DefaultOptions.
func defaultConfig() Config {
	return Config{Workers: 1, Cache: 256}
}

// loadConfig decodes the TOML file at path over the defaults. An empty path
// yields the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, cfg.resolve()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err = toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, cfg.resolve()
}

// resolve validates the decoded values.
func (c *Config) resolve() error {
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return fmt.Errorf("config timeout %q: %w", c.Timeout, err)
		}
		c.timeout = d
	}
	if c.Workers < 0 || c.MaxNodes < 0 || c.timeout < 0 {
		return fmt.Errorf("config: negative workers, max_nodes or timeout")
	}

	return nil
}

// override copies every explicitly set global flag into c.
func (c *Config) override(cmd *cobra.Command, f *globalFlags) {
	flags := cmd.Flags()
	if flags.Changed("workers") {
		c.Workers = f.workers
	}
	if flags.Changed("max-nodes") {
		c.MaxNodes = f.maxNodes
	}
	if flags.Changed("timeout") {
		c.timeout = f.timeout
		c.Timeout = f.timeout.String()
	}
	if flags.Changed("cache") {
		c.Cache = f.cache
	}
	if flags.Changed("verbose") {
		c.Verbose = f.verbose
	}
}

// searchOptions translates c into canon options.
func (c Config) searchOptions() []canon.Option {
	return []canon.Option{
		canon.WithWorkers(c.Workers),
		canon.WithMaxNodes(c.MaxNodes),
		canon.WithTimeLimit(c.timeout),
	}
}
