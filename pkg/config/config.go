// Package config loads user defaults for the multiboard tools.
//
// Configuration lives in $XDG_CONFIG_HOME/multiboard/config.toml unless a path
// is given. Files ending in .yaml or .yml are read as YAML with the same keys.
// Every key is optional; keys that are absent keep their [Default] value, and
// command-line flags override whatever the file sets.
//
//	max_tile_cells = 8
//	fit = "inclusive"
//	prefix = "garage_"
//	formats = ["stl", "dxf"]
//
//	[openscad]
//	binary = "/usr/local/bin/openscad"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "720h"
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/asciipip/multiboard-parametric-stacked/pkg/board"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/errors"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/tiling"
)

// AppName names the config and cache directories.
const AppName = "multiboard"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the merged configuration.
type Config struct {
	MaxTileCells int
	// MaxTileMM, when positive, replaces MaxTileCells.
	MaxTileMM    float64
	ToothExtraMM float64
	Fit          tiling.FitRule
	Prefix       string
	OutputDir    string
	Formats      []string
	// Jobs is the render concurrency; zero picks one per CPU.
	Jobs int

	OpenSCAD OpenSCAD
	Cache    Cache
	Server   Server
}

// OpenSCAD configures the solid-model compiler.
type OpenSCAD struct {
	Binary string
	// Source overrides the built-in .scad model.
	Source string
}

// Cache configures the artifact cache.
type Cache struct {
	Backend  string
	Dir      string
	RedisURL string
	TTL      time.Duration
}

// Server configures `multiboard serve`.
type Server struct {
	Addr string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxTileCells: board.DefaultMaxTileCells,
		ToothExtraMM: board.DefaultToothExtraMM,
		Fit:          tiling.FitInclusive,
		OutputDir:    ".",
		Formats:      []string{"stl", "dxf"},
		OpenSCAD:     OpenSCAD{Binary: "openscad"},
		Cache: Cache{
			Backend: BackendFile,
			Dir:     DefaultCacheDir(),
			TTL:     30 * 24 * time.Hour,
		},
		Server: Server{Addr: ":8080"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/multiboard/config.toml, falling back to
// the platform config directory.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		if dir, err = os.UserConfigDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(dir, AppName, "config.toml")
}

// DefaultCacheDir returns the per-user artifact cache directory.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(dir, AppName)
}

// fileConfig is the on-disk layout shared by TOML and YAML.
type fileConfig struct {
	MaxTileCells int      `toml:"max_tile_cells" yaml:"max_tile_cells"`
	MaxTileMM    float64  `toml:"max_tile_mm" yaml:"max_tile_mm"`
	ToothExtraMM float64  `toml:"tooth_extra_mm" yaml:"tooth_extra_mm"`
	Fit          string   `toml:"fit" yaml:"fit"`
	Prefix       string   `toml:"prefix" yaml:"prefix"`
	OutputDir    string   `toml:"output_dir" yaml:"output_dir"`
	Formats      []string `toml:"formats" yaml:"formats"`
	Jobs         int      `toml:"jobs" yaml:"jobs"`

	OpenSCAD struct {
		Binary string `toml:"binary" yaml:"binary"`
		Source string `toml:"source" yaml:"source"`
	} `toml:"openscad" yaml:"openscad"`

	Cache struct {
		Backend  string `toml:"backend" yaml:"backend"`
		Dir      string `toml:"dir" yaml:"dir"`
		RedisURL string `toml:"redis_url" yaml:"redis_url"`
		TTL      string `toml:"ttl" yaml:"ttl"`
	} `toml:"cache" yaml:"cache"`

	Server struct {
		Addr string `toml:"addr" yaml:"addr"`
	} `toml:"server" yaml:"server"`
}

// Load reads the config at path over Default. An empty path reads DefaultPath
// and tolerates it being absent; an explicit path must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadYAML(path)
	default:
		return loadTOML(path)
	}
}

func loadTOML(path string) (Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "config %s: unknown key %q", path, undecoded[0].String())
	}
	return apply(Default(), raw, meta.IsDefined, path)
}

func loadYAML(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	var raw fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load config %s", path)
	}

	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load config %s", path)
	}
	return apply(Default(), raw, yamlDefined(tree), path)
}

// yamlDefined mirrors toml.MetaData.IsDefined for a decoded YAML tree.
func yamlDefined(tree map[string]any) func(key ...string) bool {
	return func(key ...string) bool {
		node := tree
		for i, k := range key {
			v, ok := node[k]
			if !ok {
				return false
			}
			if i == len(key)-1 {
				return true
			}
			if node, ok = v.(map[string]any); !ok {
				return false
			}
		}
		return false
	}
}

func apply(cfg Config, raw fileConfig, defined func(key ...string) bool, path string) (Config, error) {
	invalid := func(format string, args ...any) (Config, error) {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "config %s: "+format, append([]any{path}, args...)...)
	}

	if defined("max_tile_cells") && defined("max_tile_mm") {
		return invalid("set max_tile_cells or max_tile_mm, not both")
	}
	if defined("max_tile_cells") {
		if raw.MaxTileCells < 1 || raw.MaxTileCells > board.MaxTileSideCells {
			return invalid("max_tile_cells must be between 1 and %d", board.MaxTileSideCells)
		}
		cfg.MaxTileCells = raw.MaxTileCells
	}
	if defined("max_tile_mm") {
		if raw.MaxTileMM <= 0 {
			return invalid("max_tile_mm must be positive")
		}
		cfg.MaxTileMM = raw.MaxTileMM
	}
	if defined("tooth_extra_mm") {
		if raw.ToothExtraMM < 0 {
			return invalid("tooth_extra_mm cannot be negative")
		}
		cfg.ToothExtraMM = raw.ToothExtraMM
	}
	if defined("fit") {
		fit, err := tiling.ParseFitRule(raw.Fit)
		if err != nil {
			return invalid("%v", err)
		}
		cfg.Fit = fit
	}
	if defined("prefix") {
		if err := errors.ValidatePrefix(raw.Prefix); err != nil {
			return invalid("%v", err)
		}
		cfg.Prefix = raw.Prefix
	}
	if defined("output_dir") {
		cfg.OutputDir = strings.TrimSpace(raw.OutputDir)
	}
	if defined("formats") {
		cfg.Formats = normalizeFormats(raw.Formats)
	}
	if defined("jobs") {
		if raw.Jobs < 0 {
			return invalid("jobs cannot be negative")
		}
		cfg.Jobs = raw.Jobs
	}

	if defined("openscad", "binary") {
		cfg.OpenSCAD.Binary = strings.TrimSpace(raw.OpenSCAD.Binary)
	}
	if defined("openscad", "source") {
		cfg.OpenSCAD.Source = expandHome(strings.TrimSpace(raw.OpenSCAD.Source))
	}

	if defined("cache", "backend") {
		switch b := strings.ToLower(strings.TrimSpace(raw.Cache.Backend)); b {
		case BackendFile, BackendRedis, BackendNone:
			cfg.Cache.Backend = b
		default:
			return invalid("cache backend %q (must be file, redis or none)", raw.Cache.Backend)
		}
	}
	if defined("cache", "dir") {
		cfg.Cache.Dir = expandHome(strings.TrimSpace(raw.Cache.Dir))
	}
	if defined("cache", "redis_url") {
		cfg.Cache.RedisURL = strings.TrimSpace(raw.Cache.RedisURL)
	}
	if defined("cache", "ttl") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Cache.TTL))
		if err != nil {
			return invalid("parse cache ttl: %v", err)
		}
		cfg.Cache.TTL = d
	}
	if cfg.Cache.Backend == BackendRedis && cfg.Cache.RedisURL == "" {
		return invalid("cache backend redis needs redis_url")
	}

	if defined("server", "addr") {
		cfg.Server.Addr = strings.TrimSpace(raw.Server.Addr)
	}

	return cfg, nil
}

// ApplyBoard fills the board defaults that req leaves unset.
func (c Config) ApplyBoard(req *board.Request) {
	if req.MaxTileMM == nil && req.MaxTileCells == nil {
		if c.MaxTileMM > 0 {
			req.MaxTileMM = board.Float(c.MaxTileMM)
		} else {
			req.MaxTileCells = board.Int(c.MaxTileCells)
		}
	}
	if req.ToothExtraMM == nil {
		req.ToothExtraMM = board.Float(c.ToothExtraMM)
	}
}

func normalizeFormats(in []string) []string {
	out := make([]string, 0, len(in))
	for _, f := range in {
		if v := strings.ToLower(strings.TrimSpace(f)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// String renders the effective configuration for `multiboard config`.
func (c Config) String() string {
	var b strings.Builder
	if c.MaxTileMM > 0 {
		fmt.Fprintf(&b, "max_tile_mm = %g\n", c.MaxTileMM)
	} else {
		fmt.Fprintf(&b, "max_tile_cells = %d\n", c.MaxTileCells)
	}
	fmt.Fprintf(&b, "tooth_extra_mm = %g\n", c.ToothExtraMM)
	fmt.Fprintf(&b, "fit = %q\n", c.Fit)
	fmt.Fprintf(&b, "prefix = %q\n", c.Prefix)
	fmt.Fprintf(&b, "output_dir = %q\n", c.OutputDir)
	fmt.Fprintf(&b, "formats = [%s]\n", quoteAll(c.Formats))
	fmt.Fprintf(&b, "jobs = %d\n", c.Jobs)
	fmt.Fprintf(&b, "\n[openscad]\nbinary = %q\nsource = %q\n", c.OpenSCAD.Binary, c.OpenSCAD.Source)
	fmt.Fprintf(&b, "\n[cache]\nbackend = %q\ndir = %q\nredis_url = %q\nttl = %q\n",
		c.Cache.Backend, c.Cache.Dir, c.Cache.RedisURL, c.Cache.TTL)
	fmt.Fprintf(&b, "\n[server]\naddr = %q\n", c.Server.Addr)
	return b.String()
}

func quoteAll(in []string) string {
	q := make([]string, len(in))
	for i, s := range in {
		q[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(q, ", ")
}
