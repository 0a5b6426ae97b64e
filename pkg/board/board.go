// Package board resolves a user's area request into a canonical grid-cell
// description of the board to tile.
//
// Users describe the area either in millimetres or in grid cells, per axis, and
// may bound the tile side either way too. [Resolve] normalises all of that into
// a [Spec] carrying both representations.
//
//	spec, err := board.Resolve(board.Request{
//	    WidthMM:  board.Float(220),
//	    HeightMM: board.Float(220),
//	})
//	// spec.WidthCells == 8, spec.MaxTileCells == 8
package board

import (
	"math"

	"github.com/asciipip/multiboard-parametric-stacked/pkg/errors"
)

const (
	// CellSizeMM is the pitch of the peg-board grid.
	CellSizeMM = 25.0

	// DefaultMaxTileCells is the largest tile side used when nothing is given.
	// 8 cells (200 mm) fits the common 220 mm print bed.
	DefaultMaxTileCells = 8

	// DefaultToothExtraMM is the protrusion of the interlocking teeth beyond a
	// tile's nominal outline. It is taken off a millimetre max tile size before
	// converting to cells so the finished tile still fits the bed.
	DefaultToothExtraMM = 2.5

	// MaxBoardCells bounds each board axis (100 m).
	MaxBoardCells = 4000

	// MaxTileSideCells bounds the tile side, whether pinned or used as the
	// max tile size (1 m). Tiles larger than a print bed are never printable.
	MaxTileSideCells = 40
)

// Request is an unresolved board request. Nil fields were not supplied.
type Request struct {
	WidthMM     *float64 `json:"width_mm,omitempty"`
	HeightMM    *float64 `json:"height_mm,omitempty"`
	WidthCells  *int     `json:"width_cells,omitempty"`
	HeightCells *int     `json:"height_cells,omitempty"`

	MaxTileMM    *float64 `json:"max_tile_mm,omitempty"`
	MaxTileCells *int     `json:"max_tile_cells,omitempty"`

	// Explicit tile size pins, in cells. TileSizeMM pins both axes.
	TileWidth  *int     `json:"tile_width,omitempty"`
	TileHeight *int     `json:"tile_height,omitempty"`
	TileSizeMM *float64 `json:"tile_size_mm,omitempty"`

	// ToothExtraMM overrides DefaultToothExtraMM when non-nil.
	ToothExtraMM *float64 `json:"tooth_extra_mm,omitempty"`
}

// Spec is a resolved board request.
type Spec struct {
	WidthMM     float64 `json:"width_mm" yaml:"width_mm"`
	HeightMM    float64 `json:"height_mm" yaml:"height_mm"`
	WidthCells  int     `json:"width_cells" yaml:"width_cells"`
	HeightCells int     `json:"height_cells" yaml:"height_cells"`

	MaxTileCells int `json:"max_tile_cells" yaml:"max_tile_cells"`

	// TileWidth and TileHeight are zero unless the caller pinned them.
	TileWidth  int `json:"tile_width,omitempty" yaml:"tile_width,omitempty"`
	TileHeight int `json:"tile_height,omitempty" yaml:"tile_height,omitempty"`
}

// Float returns a pointer to v, for filling optional Request fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for filling optional Request fields.
func Int(v int) *int { return &v }

// Resolve validates r and derives the missing representation of each axis.
// All failures are USAGE errors.
func Resolve(r Request) (Spec, error) {
	if r.WidthMM != nil && r.WidthCells != nil || r.HeightMM != nil && r.HeightCells != nil {
		return Spec{}, errors.New(errors.ErrCodeUsage, "each dimension should be given in mm or cells, but not both")
	}
	if r.MaxTileMM != nil && r.MaxTileCells != nil {
		return Spec{}, errors.New(errors.ErrCodeUsage, "max tile size should be given in mm or cells, but not both")
	}
	if r.TileSizeMM != nil && (r.TileWidth != nil || r.TileHeight != nil) {
		return Spec{}, errors.New(errors.ErrCodeUsage, "tile size should be given in mm or as a width/height in cells, but not both")
	}

	tooth := DefaultToothExtraMM
	if r.ToothExtraMM != nil {
		tooth = *r.ToothExtraMM
	}
	if tooth < 0 || math.IsNaN(tooth) {
		return Spec{}, errors.New(errors.ErrCodeUsage, "tooth allowance cannot be negative: %g", tooth)
	}

	var s Spec
	var err error
	if s.WidthCells, s.WidthMM, err = resolveAxis("width", r.WidthMM, r.WidthCells); err != nil {
		return Spec{}, err
	}
	if s.HeightCells, s.HeightMM, err = resolveAxis("height", r.HeightMM, r.HeightCells); err != nil {
		return Spec{}, err
	}
	if s.WidthCells == 0 || s.HeightCells == 0 {
		return Spec{}, errors.New(errors.ErrCodeUsage, "you must give a width and height")
	}

	switch {
	case r.MaxTileCells != nil:
		if s.MaxTileCells, err = tileSide("max tile size", *r.MaxTileCells); err != nil {
			return Spec{}, err
		}
	case r.MaxTileMM != nil:
		if s.MaxTileCells, err = mmToTileCells("max tile size", *r.MaxTileMM, tooth); err != nil {
			return Spec{}, err
		}
	default:
		s.MaxTileCells = DefaultMaxTileCells
	}

	if r.TileSizeMM != nil {
		n, err := mmToTileCells("tile size", *r.TileSizeMM, tooth)
		if err != nil {
			return Spec{}, err
		}
		s.TileWidth, s.TileHeight = n, n
		return s, nil
	}
	if s.TileWidth, err = pin("tile width", r.TileWidth); err != nil {
		return Spec{}, err
	}
	if s.TileHeight, err = pin("tile height", r.TileHeight); err != nil {
		return Spec{}, err
	}
	return s, nil
}

// CellsFromMM converts a length to whole cells, rounding down.
func CellsFromMM(mm float64) int {
	return int(math.Floor(mm / CellSizeMM))
}

// MMFromCells converts a cell count to its nominal length.
func MMFromCells(cells int) float64 {
	return float64(cells) * CellSizeMM
}

// resolveAxis returns (cells, mm) for one axis. A missing axis yields zeros.
func resolveAxis(axis string, mm *float64, cells *int) (int, float64, error) {
	switch {
	case mm != nil:
		if *mm < 0 || math.IsNaN(*mm) || math.IsInf(*mm, 0) {
			return 0, 0, errors.New(errors.ErrCodeUsage, "%s must be a non-negative length, got %g mm", axis, *mm)
		}
		if *mm/CellSizeMM >= MaxBoardCells+1 {
			return 0, 0, errors.New(errors.ErrCodeUsage, "%s of %g mm exceeds the %d cell limit", axis, *mm, MaxBoardCells)
		}
		n := CellsFromMM(*mm)
		if n < 1 {
			return 0, 0, errors.New(errors.ErrCodeUsage, "%s of %g mm is smaller than one %g mm cell", axis, *mm, CellSizeMM)
		}
		return n, *mm, nil
	case cells != nil:
		if *cells < 1 {
			return 0, 0, errors.New(errors.ErrCodeUsage, "%s must be at least 1 cell, got %d", axis, *cells)
		}
		if *cells > MaxBoardCells {
			return 0, 0, errors.New(errors.ErrCodeUsage, "%s of %d cells exceeds the %d cell limit", axis, *cells, MaxBoardCells)
		}
		return *cells, MMFromCells(*cells), nil
	default:
		return 0, 0, nil
	}
}

func mmToTileCells(what string, mm, tooth float64) (int, error) {
	if math.IsNaN(mm) || math.IsInf(mm, 0) {
		return 0, errors.New(errors.ErrCodeUsage, "%s must be a finite length", what)
	}
	if (mm-tooth)/CellSizeMM >= MaxTileSideCells+1 {
		return 0, errors.New(errors.ErrCodeUsage, "%s of %g mm exceeds the %d cell tile limit", what, mm, MaxTileSideCells)
	}
	n := CellsFromMM(mm - tooth)
	if n < 1 {
		return 0, errors.New(errors.ErrCodeUsage, "%s of %g mm leaves no room for a cell after the %g mm tooth allowance", what, mm, tooth)
	}
	return n, nil
}

func pin(what string, v *int) (int, error) {
	if v == nil {
		return 0, nil
	}
	return tileSide(what, *v)
}

func tileSide(what string, n int) (int, error) {
	if n < 1 {
		return 0, errors.New(errors.ErrCodeUsage, "%s must be at least 1 cell, got %d", what, n)
	}
	if n > MaxTileSideCells {
		return 0, errors.New(errors.ErrCodeUsage, "%s of %d cells exceeds the %d cell tile limit", what, n, MaxTileSideCells)
	}
	return n, nil
}
