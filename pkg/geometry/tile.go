package geometry

import (
	"github.com/asciipip/multiboard-parametric-stacked/pkg/board"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/tiling"
)

// Edge names a side of a tile.
type Edge int

const (
	EdgeBottom Edge = iota
	EdgeRight
	EdgeTop
	EdgeLeft
)

// Edges is the counter-clockwise edge order starting at the bottom-left corner.
var Edges = [4]Edge{EdgeBottom, EdgeRight, EdgeTop, EdgeLeft}

func (e Edge) String() string {
	return [...]string{"bottom", "right", "top", "left"}[e]
}

// OutwardEdges reports which edges of a tile of the given shape lie on the
// board boundary, indexed by Edge.
func OutwardEdges(shape tiling.Shape) [4]bool {
	var out [4]bool
	switch shape {
	case tiling.ShapeSide:
		out[EdgeTop] = true
	case tiling.ShapeRotatedSide:
		out[EdgeRight] = true
	case tiling.ShapeCorner:
		out[EdgeTop] = true
		out[EdgeRight] = true
	}
	return out
}

// Tile is the drawing of a single tile with its bottom-left at the origin.
type Tile struct {
	Group      tiling.Group
	Outline    Polygon
	Multiholes []Polygon
	PegHoles   []Circle
}

// Bounds returns the nominal footprint of the tile.
func (t Tile) Bounds() Rect {
	return Rect{Max: Point{board.MMFromCells(t.Group.Width), board.MMFromCells(t.Group.Height)}}
}

// Translate returns a copy of the tile moved by d.
func (t Tile) Translate(d Point) Tile {
	out := Tile{Group: t.Group, Outline: t.Outline.Translate(d)}
	for _, h := range t.Multiholes {
		out.Multiholes = append(out.Multiholes, h.Translate(d))
	}
	for _, c := range t.PegHoles {
		c.Center = c.Center.Add(d)
		out.PegHoles = append(out.PegHoles, c)
	}
	return out
}

// DrawTile computes the drawing of one tile of the group.
func DrawTile(g tiling.Group) Tile {
	return Tile{
		Group:      g,
		Outline:    Outline(g.Width, g.Height, OutwardEdges(g.Shape)),
		Multiholes: Multiholes(g.Width, g.Height),
		PegHoles:   PegHoles(g.Width, g.Height),
	}
}

type edgeRun struct {
	start, dir, inward Point
	cells              int
}

// Outline returns the outline of a width×height cell tile. Outward edges
// follow the cell octagons; the others are straight.
func Outline(width, height int, outward [4]bool) Polygon {
	s := board.CellSizeMM
	w, h := board.MMFromCells(width), board.MMFromCells(height)
	runs := [4]edgeRun{
		EdgeBottom: {start: Point{0, 0}, dir: Point{1, 0}, inward: Point{0, 1}, cells: width},
		EdgeRight:  {start: Point{w, 0}, dir: Point{0, 1}, inward: Point{-1, 0}, cells: height},
		EdgeTop:    {start: Point{w, h}, dir: Point{-1, 0}, inward: Point{0, -1}, cells: width},
		EdgeLeft:   {start: Point{0, h}, dir: Point{0, -1}, inward: Point{1, 0}, cells: height},
	}

	var poly Polygon
	for _, e := range Edges {
		prev := outward[(e+3)%4]
		next := outward[(e+1)%4]
		r := runs[e]

		if !outward[e] {
			if !prev {
				poly = append(poly, r.start)
			}
			continue
		}

		for i := 0; i < r.cells; i++ {
			base := r.start.Add(r.dir.Scale(float64(i) * s))
			if i > 0 || !prev {
				poly = append(poly, base.Add(r.inward.Scale(Chamfer)))
			}
			poly = append(poly,
				base.Add(r.dir.Scale(Chamfer)),
				base.Add(r.dir.Scale(Chamfer+OctagonSide)))
		}
		if !next {
			end := r.start.Add(r.dir.Scale(float64(r.cells) * s))
			poly = append(poly, end.Add(r.inward.Scale(Chamfer)))
		}
	}
	return poly
}

// Multiholes returns the octagonal hole at the centre of every cell, row by
// row from the bottom.
func Multiholes(width, height int) []Polygon {
	s := board.CellSizeMM
	holes := make([]Polygon, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := Point{(float64(x) + 0.5) * s, (float64(y) + 0.5) * s}
			holes = append(holes, Octagon(c, MultiholeAcrossFlatsMM))
		}
	}
	return holes
}

// PegHoles returns the two rings of a peg hole at every interior cell corner.
func PegHoles(width, height int) []Circle {
	s := board.CellSizeMM
	var holes []Circle
	for y := 1; y < height; y++ {
		for x := 1; x < width; x++ {
			c := Point{float64(x) * s, float64(y) * s}
			holes = append(holes,
				Circle{Center: c, Radius: PegHoleInnerRadiusMM},
				Circle{Center: c, Radius: PegHoleOuterRadiusMM})
		}
	}
	return holes
}
