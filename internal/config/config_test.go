package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strand/internal/config"
	"strand/internal/diag"
	"strand/internal/rcstr"
)

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "strand.toml", `
[lexer]
normalize_idents = true

[diagnostics]
max = 7

[driver]
jobs = 3
extensions = [".js", ".ts"]

[allocator]
kind = "pool"
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Lexer.NormalizeIdents)
	assert.Equal(t, 7, cfg.Diagnostics.Max)
	assert.Equal(t, "auto", cfg.Diagnostics.PathMode, "unset keys keep defaults")
	assert.Equal(t, diag.SevInfo, cfg.MinSeverity())
	assert.Equal(t, 3, cfg.Driver.Jobs)
	assert.Equal(t, []string{".js", ".ts"}, cfg.Driver.Extensions)
	assert.Equal(t, path, cfg.Path)
	assert.IsType(t, &rcstr.PoolAllocator{}, cfg.NewAllocator())
}

func TestLoadTOMLErrors(t *testing.T) {
	tests := map[string]string{
		"unknown key":     "[lexer]\nnormalise = true\n",
		"empty ext":       "[driver]\nextensions = []\n",
		"bad allocator":   "[allocator]\nkind = \"arena\"\n",
		"bad extension":   "[driver]\nextensions = [\"js\"]\n",
		"negative jobs":   "[driver]\njobs = -1\n",
		"syntax":          "[lexer\n",
		"bad path mode":   "[diagnostics]\npath_mode = \"short\"\n",
		"bad severity":    "[diagnostics]\nmin_severity = \"fatal\"\n",
		"negative length": "[lexer]\nmax_token_length = -5\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := write(t, t.TempDir(), "strand.toml", body)
			_, err := config.Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadYAML(t *testing.T) {
	path := write(t, t.TempDir(), "strand.yaml", `
cache:
  enabled: true
  dir: /tmp/strand-cache
allocator:
  kind: counting
diagnostics:
  min_severity: error
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "/tmp/strand-cache", cfg.Cache.Dir)
	assert.IsType(t, &rcstr.CountingAllocator{}, cfg.NewAllocator())
	assert.Equal(t, diag.SevError, cfg.MinSeverity())

	bad := write(t, t.TempDir(), "strand.yml", "lexer:\n  unknown: 1\n")
	_, err = config.Load(bad)
	assert.Error(t, err)
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	want := write(t, root, "strand.toml", "")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := config.Find(nested)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	cfg, err := config.Discover(nested)
	require.NoError(t, err)
	assert.Equal(t, want, cfg.Path)
}

func TestDiscoverDefaults(t *testing.T) {
	// Nothing above a fresh temp dir is expected to carry a strand file.
	dir := t.TempDir()
	if _, err := config.Find(dir); err != nil {
		assert.ErrorIs(t, err, config.ErrNotFound)
		cfg, err := config.Discover(dir)
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	}
	_, err := config.Load(write(t, dir, "strand.json", "{}"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{"STRAND_JOBS": "5", "STRAND_ALLOCATOR": "pool", "STRAND_CACHE_DIR": "/c"}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := config.Default()
	require.NoError(t, cfg.ApplyEnv(lookup))
	assert.Equal(t, 5, cfg.Driver.Jobs)
	assert.Equal(t, "pool", cfg.Allocator.Kind)
	assert.Equal(t, "/c", cfg.Cache.Dir)

	env["STRAND_JOBS"] = "many"
	assert.Error(t, cfg.ApplyEnv(lookup))
	env["STRAND_JOBS"] = "1"
	env["STRAND_ALLOCATOR"] = "arena"
	assert.Error(t, cfg.ApplyEnv(lookup))
}
