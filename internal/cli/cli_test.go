package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/oacanon/canon"
	"github.com/katalvlaran/oacanon/design"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand(&out, &errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())

	return out.String(), errOut.String(), err
}

func TestExamplesCommand(t *testing.T) {
	out, _, err := run(t, "examples")
	require.NoError(t, err)
	for _, id := range design.ExampleIDs() {
		assert.Contains(t, out, id)
	}
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), len(design.ExampleIDs()))
}

func TestReduceCommand(t *testing.T) {
	out, _, err := run(t, "reduce", "--example", "oa4-2^3")
	require.NoError(t, err)
	assert.Contains(t, out, "input array 4×3")
	assert.Contains(t, out, "canonical array 4×3 levels [2 2 2]\n000\n")
	assert.Contains(t, out, "symmetry generators ")
}

func TestReduceCommand_UnknownExample(t *testing.T) {
	_, _, err := run(t, "reduce", "--example", "nope")
	assert.ErrorIs(t, err, design.ErrUnknownExample)
}

func TestReduceCommand_NodeBudget(t *testing.T) {
	_, _, err := run(t, "reduce", "--example", "oa4-2^3", "--max-nodes", "1")
	assert.ErrorIs(t, err, canon.ErrSearchBudgetExceeded)
}

func TestSelftestCommand(t *testing.T) {
	out, logs, err := run(t, "selftest", "--seed", "42", "--trials", "2", "--workers", "2", "-v")
	require.NoError(t, err)
	for _, id := range design.ExampleIDs() {
		assert.Contains(t, out, "ok   "+id)
	}
	assert.NotContains(t, out, "FAIL")
	assert.Contains(t, logs, "search totals")
}

func TestSelftestCommand_SingleExample(t *testing.T) {
	out, _, err := run(t, "selftest", "--example", "oa9-3^4", "--trials", "1")
	require.NoError(t, err)
	assert.Equal(t, "ok   oa9-3^4\n", out)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oacanon.toml")
	require.NoError(t, os.WriteFile(path, []byte("workers = 3\nmax_nodes = 500\ntimeout = \"2s\"\nverbose = true\n"), 0o600))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, int64(500), cfg.MaxNodes)
	assert.Equal(t, 2*time.Second, cfg.timeout)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 256, cfg.Cache, "unset keys keep their defaults")
	assert.Len(t, cfg.searchOptions(), 3)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("timeout = \"soon\"\n"), 0o600))
	_, err := loadConfig(bad)
	assert.Error(t, err)

	_, err = loadConfig(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig().Workers, cfg.Workers)
}

func TestFlagsOverrideConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oacanon.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_nodes = 1\n"), 0o600))

	_, _, err := run(t, "reduce", "--config", path, "--example", "oa4-2^3")
	assert.ErrorIs(t, err, canon.ErrSearchBudgetExceeded, "config budget applies")

	_, _, err = run(t, "reduce", "--config", path, "--example", "oa4-2^3", "--max-nodes", "0")
	assert.NoError(t, err, "flag overrides config")
}

func TestLoggerFromContext(t *testing.T) {
	l := newLogger(&bytes.Buffer{}, 0)
	ctx := withLogger(context.Background(), l)
	assert.Same(t, l, loggerFromContext(ctx))
	assert.NotNil(t, loggerFromContext(context.Background()))
}
