package tiling

import (
	"fmt"
	"strings"

	"github.com/asciipip/multiboard-parametric-stacked/pkg/board"
)

// Size is the base tile size, in cells.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Square reports whether the tile is as wide as it is tall.
func (s Size) Square() bool { return s.Width == s.Height }

// String formats the size as "WxH".
func (s Size) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

// FitRule decides when a whole board counts as fitting on a single tile.
type FitRule int

const (
	// FitInclusive accepts boards whose sides equal the max tile size.
	FitInclusive FitRule = iota
	// FitExclusive requires both sides to be strictly below the max tile size.
	// Early versions of the tool behaved this way.
	FitExclusive
)

// String returns the config/flag spelling of the rule.
func (r FitRule) String() string {
	switch r {
	case FitInclusive:
		return "inclusive"
	case FitExclusive:
		return "exclusive"
	default:
		return fmt.Sprintf("FitRule(%d)", int(r))
	}
}

// ParseFitRule parses "inclusive" or "exclusive". The empty string selects
// FitInclusive.
func ParseFitRule(s string) (FitRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "inclusive":
		return FitInclusive, nil
	case "exclusive":
		return FitExclusive, nil
	default:
		return 0, fmt.Errorf("invalid fit rule %q (must be inclusive or exclusive)", s)
	}
}

// Fits reports whether a width×height board can be a single tile when tile
// sides are limited to max cells.
func Fits(width, height, max int, rule FitRule) bool {
	if rule == FitExclusive {
		return width < max && height < max
	}
	return width <= max && height <= max
}

// AxisSize returns the tile length for one axis: the fewest tiles that respect
// max, with the cells spread as evenly as possible between them.
func AxisSize(cells, max int) int {
	if max < 1 {
		max = 1
	}
	count := ceilDiv(cells, max)
	return ceilDiv(cells, count)
}

// SelectSize chooses the base tile size for spec.
//
// Pinned sizes win: both pins are used verbatim and a single pin is mirrored to
// the other axis. Otherwise a board that fits is one tile, and anything larger
// is split per axis with AxisSize.
func SelectSize(spec board.Spec, rule FitRule) Size {
	switch {
	case spec.TileWidth > 0 && spec.TileHeight > 0:
		return Size{Width: spec.TileWidth, Height: spec.TileHeight}
	case spec.TileWidth > 0:
		return Size{Width: spec.TileWidth, Height: spec.TileWidth}
	case spec.TileHeight > 0:
		return Size{Width: spec.TileHeight, Height: spec.TileHeight}
	}

	if Fits(spec.WidthCells, spec.HeightCells, spec.MaxTileCells, rule) {
		return Size{Width: spec.WidthCells, Height: spec.HeightCells}
	}

	return Size{
		Width:  AxisSize(spec.WidthCells, spec.MaxTileCells),
		Height: AxisSize(spec.HeightCells, spec.MaxTileCells),
	}
}

// ceilDiv divides rounding up without overflowing for large a. b must be
// positive.
func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a-1)/b + 1
}
