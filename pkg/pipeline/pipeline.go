// Package pipeline runs the plan → render flow shared by the CLI and the API.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Plan: resolve the board, choose a tile size, partition and pack stacks
//  2. Render: compile each stack into a model and draw the board in 2D
//
// Rendering is split into independent tasks, one per stack and model format
// plus one per board-level format. Tasks run concurrently up to
// [Options.Jobs]; a failing task is recorded in [Result.Failures] and does not
// stop its siblings.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Board:   board.Request{WidthMM: board.Float(600), HeightMM: board.Float(400)},
//	    Formats: []string{"stl", "dxf"},
//	})
//	if err != nil {
//	    return err // invalid options or an unprintable board
//	}
//	for _, a := range result.Artifacts {
//	    fmt.Println(a.Filename)
//	}
//	return result.Err() // per-task failures
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/asciipip/multiboard-parametric-stacked/pkg/board"
	mberrors "github.com/asciipip/multiboard-parametric-stacked/pkg/errors"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/geometry"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/plan"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/render/scad"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/tiling"
)

// Format constants for output formats.
const (
	FormatSTL  = scad.FormatSTL
	Format3MF  = scad.Format3MF
	FormatDXF  = "dxf"
	FormatPDF  = "pdf"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// Formats lists every output format in the order artifacts are produced.
var Formats = []string{FormatSTL, Format3MF, FormatDXF, FormatPDF, FormatSVG, FormatPNG, FormatJSON}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSTL:  true,
	Format3MF:  true,
	FormatDXF:  true,
	FormatPDF:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// DefaultFormats are rendered when none are requested.
var DefaultFormats = []string{FormatSTL, FormatDXF}

// IsModelFormat reports whether a format is produced per stack by the solid
// model compiler rather than once per board.
func IsModelFormat(format string) bool {
	return scad.ValidFormat(format)
}

// DefaultJobs is the default render concurrency.
func DefaultJobs() int {
	return min(runtime.NumCPU(), 4)
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Plan options
	Board  board.Request  `json:"board"`
	Fit    tiling.FitRule `json:"-"`
	Prefix string         `json:"prefix,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Jobs    int      `json:"jobs,omitempty"`
	GapMM   float64  `json:"gap_mm,omitempty"`
	Title   string   `json:"title,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Compiler scad.Compiler `json:"-"`
	Logger   *log.Logger   `json:"-"`
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return mberrors.New(mberrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates while keeping order.
func ParseFormats(s string) []string {
	var out []string
	seen := map[string]bool{}
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := mberrors.ValidatePrefix(o.Prefix); err != nil {
		return err
	}
	if o.Jobs <= 0 {
		o.Jobs = DefaultJobs()
	}
	if o.GapMM <= 0 {
		o.GapMM = geometry.DefaultGapMM
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// PlanOptions returns the options for plan.Build.
func (o *Options) PlanOptions() plan.Options {
	return plan.Options{Fit: o.Fit, Prefix: o.Prefix}
}

// =============================================================================
// Results
// =============================================================================

// Artifact is one rendered output.
type Artifact struct {
	// Filename is the prefixed output name, e.g. "4x7x7_core-6x6_corner.stl".
	Filename string
	Format   string
	// Stack is the stack name for model formats and empty for board formats.
	Stack  string
	Data   []byte
	Cached bool
}

// Failure is a render task that did not produce an artifact.
type Failure struct {
	Filename string
	Format   string
	Stack    string
	Err      error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Filename, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Stats contains pipeline execution statistics.
type Stats struct {
	Tiles      int
	Stacks     int
	PlanTime   time.Duration
	RenderTime time.Duration
	CacheHits  int
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Plan      *plan.Plan
	Artifacts []Artifact
	Failures  []Failure
	Stats     Stats
}

// Err joins all task failures, or returns nil when every task succeeded.
func (r *Result) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// BoardName is the base name for board-level artifacts, e.g. "20x16_board".
func BoardName(p *plan.Plan, prefix string) string {
	return fmt.Sprintf("%s%dx%d_board", prefix, p.Board.WidthCells, p.Board.HeightCells)
}
