package geometry

import (
	"fmt"
	"math"

	"github.com/asciipip/multiboard-parametric-stacked/pkg/board"
)

const (
	// MultiholeAcrossFlatsMM is the flat-to-flat size of the octagonal hole
	// in every cell.
	MultiholeAcrossFlatsMM = 22.0
	// PegHoleInnerRadiusMM and PegHoleOuterRadiusMM describe the two rings of
	// a peg hole.
	PegHoleInnerRadiusMM = 3.0
	PegHoleOuterRadiusMM = 3.9
)

var (
	// OctagonSide is the length of one side of the cell octagon.
	OctagonSide = board.CellSizeMM / (1 + math.Sqrt2)
	// Chamfer is how far each octagon corner is cut back from the cell square.
	Chamfer = (board.CellSizeMM - OctagonSide) / 2
)

// Point is a position in millimetres.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Scale returns p scaled by f.
func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f} }

func (p Point) String() string { return fmt.Sprintf("(%.3f, %.3f)", p.X, p.Y) }

// Polygon is a closed counter-clockwise ring of points.
type Polygon []Point

// Translate returns a copy of the polygon moved by d.
func (poly Polygon) Translate(d Point) Polygon {
	out := make(Polygon, len(poly))
	for i, p := range poly {
		out[i] = p.Add(d)
	}
	return out
}

// Area returns the signed area, positive for counter-clockwise rings.
func (poly Polygon) Area() float64 {
	var sum float64
	for i, p := range poly {
		q := poly[(i+1)%len(poly)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

// Bounds returns the smallest rectangle containing the polygon.
func (poly Polygon) Bounds() Rect {
	if len(poly) == 0 {
		return Rect{}
	}
	r := Rect{Min: poly[0], Max: poly[0]}
	for _, p := range poly[1:] {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r
}

// Circle is a circle in millimetres.
type Circle struct {
	Center Point
	Radius float64
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Min, Max Point
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Polygon returns the rectangle as a counter-clockwise ring.
func (r Rect) Polygon() Polygon {
	return Polygon{r.Min, {r.Max.X, r.Min.Y}, r.Max, {r.Min.X, r.Max.Y}}
}

// Octagon returns a regular octagon centred on c with the given flat-to-flat
// size, flats parallel to the axes.
func Octagon(c Point, acrossFlats float64) Polygon {
	half := acrossFlats / 2
	hs := acrossFlats / (1 + math.Sqrt2) / 2
	return Polygon{
		{c.X + hs, c.Y - half},
		{c.X + half, c.Y - hs},
		{c.X + half, c.Y + hs},
		{c.X + hs, c.Y + half},
		{c.X - hs, c.Y + half},
		{c.X - half, c.Y + hs},
		{c.X - half, c.Y - hs},
		{c.X - hs, c.Y - half},
	}
}
