// Package config loads strand.toml / strand.yaml project settings.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"strand/internal/diag"
	"strand/internal/rcstr"
)

// ErrNotFound is returned by Find when no project file exists up to the
// filesystem root.
var ErrNotFound = errors.New("no strand.toml or strand.yaml found")

// FileNames lists the recognised project files in lookup order.
var FileNames = []string{"strand.toml", "strand.yaml", "strand.yml"}

type Config struct {
	Lexer       LexerConfig       `toml:"lexer" yaml:"lexer"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics" yaml:"diagnostics"`
	Driver      DriverConfig      `toml:"driver" yaml:"driver"`
	Cache       CacheConfig       `toml:"cache" yaml:"cache"`
	Allocator   AllocatorConfig   `toml:"allocator" yaml:"allocator"`

	// Path is the file the values came from; empty for defaults.
	Path string `toml:"-" yaml:"-"`
}

type LexerConfig struct {
	NormalizeIdents bool `toml:"normalize_idents" yaml:"normalize_idents"`
	MaxTokenLength  int  `toml:"max_token_length" yaml:"max_token_length"`
}

type DiagnosticsConfig struct {
	Max      int    `toml:"max" yaml:"max"`
	PathMode string `toml:"path_mode" yaml:"path_mode"`
	// MinSeverity hides diagnostics below info, warning or error.
	MinSeverity string `toml:"min_severity" yaml:"min_severity"`
}

type DriverConfig struct {
	Jobs       int      `toml:"jobs" yaml:"jobs"`
	Extensions []string `toml:"extensions" yaml:"extensions"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Dir     string `toml:"dir" yaml:"dir"`
}

type AllocatorConfig struct {
	// Kind is "heap", "pool" or "counting".
	Kind string `toml:"kind" yaml:"kind"`
}

// Default returns the settings used when no project file exists.
func Default() Config {
	return Config{
		Diagnostics: DiagnosticsConfig{Max: 100, PathMode: "auto", MinSeverity: "info"},
		Driver:      DriverConfig{Extensions: []string{".js", ".mjs", ".cjs"}},
		Allocator:   AllocatorConfig{Kind: "heap"},
	}
}

// Find walks up from startDir looking for a project file.
func Find(startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

// Load reads a project file; the format follows the extension. Values not
// present in the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := decodeTOML(path, &cfg); err != nil {
			return Config{}, err
		}
	case ".yaml", ".yml":
		if err := decodeYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	default:
		return Config{}, fmt.Errorf("%s: unsupported config format", path)
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover is Find followed by Load. A missing file yields Default.
func Discover(startDir string) (Config, error) {
	path, err := Find(startDir)
	if errors.Is(err, ErrNotFound) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}
	return Load(path)
}

func decodeTOML(path string, cfg *Config) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if meta.IsDefined("driver", "extensions") && len(cfg.Driver.Extensions) == 0 {
		return fmt.Errorf("%s: [driver].extensions must not be empty", path)
	}
	return nil
}

func decodeYAML(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: failed to parse YAML: %w", path, err)
	}
	if len(cfg.Driver.Extensions) == 0 {
		return fmt.Errorf("%s: driver.extensions must not be empty", path)
	}
	return nil
}

// ApplyEnv overrides values from STRAND_* variables. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("STRAND_JOBS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("STRAND_JOBS: %w", err)
		}
		c.Driver.Jobs = n
	}
	if v, ok := lookup("STRAND_ALLOCATOR"); ok {
		c.Allocator.Kind = v
	}
	if v, ok := lookup("STRAND_CACHE_DIR"); ok {
		c.Cache.Dir = v
	}
	return c.Validate()
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch c.Allocator.Kind {
	case "heap", "pool", "counting":
	default:
		return fmt.Errorf("unknown allocator kind %q (want heap, pool or counting)", c.Allocator.Kind)
	}
	switch c.Diagnostics.PathMode {
	case "", "auto", "absolute", "relative", "basename":
	default:
		return fmt.Errorf("unknown path_mode %q", c.Diagnostics.PathMode)
	}
	if c.Driver.Jobs < 0 {
		return fmt.Errorf("driver jobs must be >= 0, got %d", c.Driver.Jobs)
	}
	if c.Diagnostics.MinSeverity != "" {
		if _, err := diag.ParseSeverity(c.Diagnostics.MinSeverity); err != nil {
			return fmt.Errorf("min_severity: %w", err)
		}
	}
	if c.Diagnostics.Max < 0 {
		return fmt.Errorf("diagnostics max must be >= 0, got %d", c.Diagnostics.Max)
	}
	if c.Lexer.MaxTokenLength < 0 {
		return fmt.Errorf("max_token_length must be >= 0, got %d", c.Lexer.MaxTokenLength)
	}
	for _, ext := range c.Driver.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	return nil
}

// MinSeverity returns the parsed diagnostics threshold; empty means info.
func (c *Config) MinSeverity() diag.Severity {
	sev, err := diag.ParseSeverity(c.Diagnostics.MinSeverity)
	if err != nil {
		return diag.SevInfo
	}
	return sev
}

// NewAllocator builds the allocator named by Allocator.Kind.
func (c *Config) NewAllocator() rcstr.Allocator {
	switch c.Allocator.Kind {
	case "pool":
		return rcstr.NewPoolAllocator()
	case "counting":
		return rcstr.NewCountingAllocator(nil)
	default:
		return rcstr.HeapAllocator{}
	}
}
