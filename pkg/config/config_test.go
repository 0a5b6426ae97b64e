package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/asciipip/multiboard-parametric-stacked/pkg/board"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/errors"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/tiling"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
max_tile_mm = 180
fit = "exclusive"
prefix = "garage_"
formats = ["STL", " 3mf "]
jobs = 3

[openscad]
binary = "/opt/openscad"

[cache]
backend = "redis"
redis_url = "redis://localhost:6379/1"
ttl = "2h"

[server]
addr = "127.0.0.1:9000"
`)

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Default()
	want.MaxTileMM = 180
	want.Fit = tiling.FitExclusive
	want.Prefix = "garage_"
	want.Formats = []string{"stl", "3mf"}
	want.Jobs = 3
	want.OpenSCAD.Binary = "/opt/openscad"
	want.Cache.Backend = BackendRedis
	want.Cache.RedisURL = "redis://localhost:6379/1"
	want.Cache.TTL = 2 * time.Hour
	want.Server.Addr = "127.0.0.1:9000"

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
max_tile_cells: 6
tooth_extra_mm: 0
cache:
  backend: none
`)

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Default()
	want.MaxTileCells = 6
	want.ToothExtraMM = 0
	want.Cache.Backend = BackendNone

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEmptyFileKeepsDefaults(t *testing.T) {
	for _, name := range []string{"empty.toml", "empty.yml"} {
		got, err := Load(writeFile(t, name, ""))
		if err != nil {
			t.Fatalf("Load(%s) error = %v", name, err)
		}
		if diff := cmp.Diff(Default(), got); diff != "" {
			t.Errorf("Load(%s) mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestLoadMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	got, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Errorf("Load(\"\") mismatch (-want +got):\n%s", diff)
	}

	_, err = Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load(missing) error = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}
}

func TestDefaultPathUsesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if got, want := DefaultPath(), filepath.Join(dir, "multiboard", "config.toml"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"both max sizes", "c.toml", "max_tile_cells = 8\nmax_tile_mm = 200\n"},
		{"zero max cells", "c.toml", "max_tile_cells = 0\n"},
		{"oversized max cells", "c.toml", "max_tile_cells = 41\n"},
		{"negative tooth", "c.toml", "tooth_extra_mm = -1\n"},
		{"bad fit", "c.toml", `fit = "loose"`},
		{"prefix with separator", "c.toml", `prefix = "a/b"`},
		{"negative jobs", "c.toml", "jobs = -2\n"},
		{"bad backend", "c.toml", "[cache]\nbackend = \"s3\"\n"},
		{"redis without url", "c.toml", "[cache]\nbackend = \"redis\"\n"},
		{"bad ttl", "c.toml", "[cache]\nttl = \"forever\"\n"},
		{"unknown key", "c.toml", "colour = \"red\"\n"},
		{"malformed toml", "c.toml", "max_tile_cells = \n"},
		{"unknown yaml key", "c.yaml", "colour: red\n"},
		{"yaml bad backend", "c.yaml", "cache:\n  backend: s3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want %s", err, errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestApplyBoard(t *testing.T) {
	cfg := Default()
	cfg.MaxTileMM = 180
	cfg.ToothExtraMM = 1

	req := board.Request{WidthCells: board.Int(10), HeightCells: board.Int(10)}
	cfg.ApplyBoard(&req)
	if req.MaxTileMM == nil || *req.MaxTileMM != 180 || req.MaxTileCells != nil {
		t.Errorf("ApplyBoard() max tile = %v / %v, want 180 mm", req.MaxTileMM, req.MaxTileCells)
	}
	if req.ToothExtraMM == nil || *req.ToothExtraMM != 1 {
		t.Errorf("ApplyBoard() tooth = %v, want 1", req.ToothExtraMM)
	}

	// Explicit flags win.
	req = board.Request{MaxTileCells: board.Int(5), ToothExtraMM: board.Float(0)}
	cfg.ApplyBoard(&req)
	if req.MaxTileMM != nil || *req.MaxTileCells != 5 || *req.ToothExtraMM != 0 {
		t.Errorf("ApplyBoard() overrode explicit values: %+v", req)
	}

	spec, err := board.Resolve(func() board.Request {
		r := board.Request{WidthCells: board.Int(10), HeightCells: board.Int(10)}
		Default().ApplyBoard(&r)
		return r
	}())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if spec.MaxTileCells != board.DefaultMaxTileCells {
		t.Errorf("MaxTileCells = %d, want %d", spec.MaxTileCells, board.DefaultMaxTileCells)
	}
}
