package tiling

import (
	"fmt"
	"strings"

	"github.com/asciipip/multiboard-parametric-stacked/pkg/board"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/errors"
)

// MinTileCells is the smallest tile side that can carry the interlocking teeth.
const MinTileCells = 2

// Group is Count identical tiles of one size and shape. Groups are values:
// copy them freely, never modify one in place.
type Group struct {
	Count  int   `json:"count" yaml:"count"`
	Width  int   `json:"width" yaml:"width"`
	Height int   `json:"height" yaml:"height"`
	Shape  Shape `json:"shape" yaml:"shape"`
}

// Cells returns the number of grid cells covered by the whole group.
func (g Group) Cells() int { return g.Count * g.Width * g.Height }

// String formats the group as "4x 7x6 top".
func (g Group) String() string {
	return fmt.Sprintf("%dx %dx%d %s", g.Count, g.Width, g.Height, g.Shape.Label())
}

// Layout is the partition of a board into tile groups.
type Layout struct {
	Board board.Spec `json:"board" yaml:"board"`
	Size  Size       `json:"tile_size" yaml:"tile_size"`

	// Columns and Rows count tiles across and up the board.
	Columns int `json:"columns" yaml:"columns"`
	Rows    int `json:"rows" yaml:"rows"`

	// TopHeight is the height of the top remainder strip and RightWidth the
	// width of the right one. Each equals the tile size when there is no
	// remainder on that axis.
	TopHeight  int `json:"top_height" yaml:"top_height"`
	RightWidth int `json:"right_width" yaml:"right_width"`

	// Merged is set when the two strips were folded into one side group.
	Merged bool `json:"merged" yaml:"merged"`

	// Groups are ordered core, side, rotated side, corner.
	Groups []Group `json:"groups" yaml:"groups"`
}

// ShouldMerge reports whether the top and right strips are interchangeable
// stock: a square tile turned a quarter is the same tile, so equal strips can
// be printed as one group.
func ShouldMerge(size Size, topHeight, rightWidth int) bool {
	return size.Square() && topHeight == rightWidth
}

// Partition splits the board into tile groups of the given base size.
func Partition(spec board.Spec, size Size) Layout {
	l := Layout{
		Board:      spec,
		Size:       size,
		Columns:    ceilDiv(spec.WidthCells, size.Width),
		Rows:       ceilDiv(spec.HeightCells, size.Height),
		TopHeight:  remainder(spec.HeightCells, size.Height),
		RightWidth: remainder(spec.WidthCells, size.Width),
	}

	coreCount := (l.Columns - 1) * (l.Rows - 1)
	topCount := l.Columns - 1
	rightCount := l.Rows - 1

	if coreCount > 0 {
		l.Groups = append(l.Groups, Group{Count: coreCount, Width: size.Width, Height: size.Height, Shape: ShapeCore})
	}

	if ShouldMerge(size, l.TopHeight, l.RightWidth) {
		l.Merged = true
		if n := topCount + rightCount; n > 0 {
			l.Groups = append(l.Groups, Group{Count: n, Width: size.Width, Height: l.TopHeight, Shape: ShapeSide})
		}
	} else {
		if topCount > 0 {
			l.Groups = append(l.Groups, Group{Count: topCount, Width: size.Width, Height: l.TopHeight, Shape: ShapeSide})
		}
		if rightCount > 0 {
			l.Groups = append(l.Groups, Group{Count: rightCount, Width: l.RightWidth, Height: size.Height, Shape: ShapeRotatedSide})
		}
	}

	l.Groups = append(l.Groups, Group{Count: 1, Width: l.RightWidth, Height: l.TopHeight, Shape: ShapeCorner})
	return l
}

// Validate checks that every group is large enough to print. All undersized
// groups are reported together in a single GEOMETRY error.
func (l Layout) Validate() error {
	var bad []string
	for _, g := range l.Groups {
		if g.Width < MinTileCells || g.Height < MinTileCells {
			bad = append(bad, fmt.Sprintf("%d %s tile(s) of %dx%d", g.Count, g.Shape.Label(), g.Width, g.Height))
		}
	}
	if len(bad) == 0 {
		return nil
	}
	return errors.New(errors.ErrCodeGeometry,
		"tiles must be at least %dx%d cells to hold the interlocking teeth; base tile %s on a %dx%d board gives %s",
		MinTileCells, MinTileCells, l.Size, l.Board.WidthCells, l.Board.HeightCells, strings.Join(bad, ", "))
}

// Group returns the group with the given shape, if present.
func (l Layout) Group(shape Shape) (Group, bool) {
	for _, g := range l.Groups {
		if g.Shape == shape {
			return g, true
		}
	}
	return Group{}, false
}

// TileCount returns the total number of tiles.
func (l Layout) TileCount() int {
	n := 0
	for _, g := range l.Groups {
		n += g.Count
	}
	return n
}

// Area returns the number of cells covered by all groups. It always equals the
// board area.
func (l Layout) Area() int {
	n := 0
	for _, g := range l.Groups {
		n += g.Cells()
	}
	return n
}

// Unique returns one tile of each group, in group order. Renderers that draw a
// template per distinct tile use it.
func (l Layout) Unique() []Group {
	out := make([]Group, len(l.Groups))
	for i, g := range l.Groups {
		g.Count = 1
		out[i] = g
	}
	return out
}

// Placement is one tile positioned on the board, in cells from the bottom-left.
type Placement struct {
	Column int   `json:"column" yaml:"column"`
	Row    int   `json:"row" yaml:"row"`
	X      int   `json:"x" yaml:"x"`
	Y      int   `json:"y" yaml:"y"`
	Width  int   `json:"width" yaml:"width"`
	Height int   `json:"height" yaml:"height"`
	Shape  Shape `json:"shape" yaml:"shape"`
}

// Placements positions every tile: core tiles fill the grid from the origin,
// the top strip runs along the last row, the right strip up the last column
// and the corner sits top-right. Order is row-major from the bottom.
func (l Layout) Placements() []Placement {
	out := make([]Placement, 0, l.Columns*l.Rows)
	for row := 0; row < l.Rows; row++ {
		lastRow := row == l.Rows-1
		for col := 0; col < l.Columns; col++ {
			lastCol := col == l.Columns-1
			p := Placement{
				Column: col,
				Row:    row,
				X:      col * l.Size.Width,
				Y:      row * l.Size.Height,
				Width:  l.Size.Width,
				Height: l.Size.Height,
				Shape:  ShapeCore,
			}
			switch {
			case lastRow && lastCol:
				p.Width, p.Height, p.Shape = l.RightWidth, l.TopHeight, ShapeCorner
			case lastRow:
				p.Height, p.Shape = l.TopHeight, ShapeSide
			case lastCol:
				p.Width, p.Shape = l.RightWidth, ShapeRotatedSide
				if l.Merged {
					p.Shape = ShapeSide
				}
			}
			out = append(out, p)
		}
	}
	return out
}

func remainder(cells, size int) int {
	if r := cells % size; r != 0 {
		return r
	}
	return size
}
