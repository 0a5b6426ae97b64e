package geometry

import (
	"math"

	"github.com/asciipip/multiboard-parametric-stacked/pkg/board"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/tiling"
)

// DefaultGapMM separates drawings on a sheet.
const DefaultGapMM = 10.0

// Sheet is a drawing with one template of every distinct tile laid out left to
// right, and above them a rectangle for the raw requested area.
type Sheet struct {
	Tiles []Tile
	// Area is the requested board area before rounding down to whole cells.
	Area Rect
	// Board is the whole-cell board drawn inside Area.
	Board Rect
}

// NewSheet lays out the drawing for a layout. A gap <= 0 selects DefaultGapMM.
func NewSheet(l tiling.Layout, gap float64) Sheet {
	if gap <= 0 {
		gap = DefaultGapMM
	}

	var sh Sheet
	x, rowHeight := 0.0, 0.0
	for _, g := range l.Unique() {
		t := DrawTile(g).Translate(Point{x, 0})
		sh.Tiles = append(sh.Tiles, t)
		b := t.Bounds()
		x = b.Max.X + gap
		rowHeight = math.Max(rowHeight, board.MMFromCells(g.Height))
	}

	areaW, areaH := l.Board.WidthMM, l.Board.HeightMM
	if areaW <= 0 {
		areaW = board.MMFromCells(l.Board.WidthCells)
	}
	if areaH <= 0 {
		areaH = board.MMFromCells(l.Board.HeightCells)
	}
	origin := Point{0, rowHeight + gap}
	sh.Area = Rect{Min: origin, Max: origin.Add(Point{areaW, areaH})}
	sh.Board = Rect{Min: origin, Max: origin.Add(Point{board.MMFromCells(l.Board.WidthCells), board.MMFromCells(l.Board.HeightCells)})}
	return sh
}

// Bounds returns the extent of everything on the sheet.
func (sh Sheet) Bounds() Rect {
	r := sh.Area
	for _, t := range sh.Tiles {
		b := t.Outline.Bounds()
		r.Min.X = math.Min(r.Min.X, b.Min.X)
		r.Min.Y = math.Min(r.Min.Y, b.Min.Y)
		r.Max.X = math.Max(r.Max.X, b.Max.X)
		r.Max.Y = math.Max(r.Max.Y, b.Max.Y)
	}
	return r
}
