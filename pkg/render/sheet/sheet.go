// Package sheet plots a [geometry.Sheet] as a printable cutting template.
//
// The plot is drawn at 1:1 scale, so a PDF printed at 100% can be laid on the
// material directly:
//
//	sh := geometry.NewSheet(layout, 0)
//	err := sheet.Render(w, sh, sheet.FormatPDF, "garage wall")
package sheet

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/asciipip/multiboard-parametric-stacked/pkg/geometry"
)

// Output formats understood by gonum/plot.
const (
	FormatPDF = "pdf"
	FormatSVG = "svg"
	FormatEPS = "eps"
)

// MarginMM surrounds the drawing.
const MarginMM = 10.0

// circleSegments approximates circles as polygons.
const circleSegments = 36

var (
	outlineColor = color.Black
	holeColor    = color.RGBA{R: 200, A: 255}
	areaColor    = color.RGBA{B: 200, A: 255}
)

// Plot builds the plot for a sheet.
func Plot(sh geometry.Sheet, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.HideAxes()
	p.X.Padding, p.Y.Padding = 0, 0

	b := sh.Bounds()
	p.X.Min, p.X.Max = b.Min.X-MarginMM, b.Max.X+MarginMM
	p.Y.Min, p.Y.Max = b.Min.Y-MarginMM, b.Max.Y+MarginMM

	add := func(poly geometry.Polygon, c color.Color, width vg.Length, dashed bool) error {
		pg, err := plotter.NewPolygon(xys(poly))
		if err != nil {
			return fmt.Errorf("plot polygon: %w", err)
		}
		pg.Color = nil
		pg.LineStyle.Color = c
		pg.LineStyle.Width = width
		if dashed {
			pg.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		}
		p.Add(pg)
		return nil
	}

	for _, t := range sh.Tiles {
		if err := add(t.Outline, outlineColor, vg.Points(1), false); err != nil {
			return nil, err
		}
		for _, h := range t.Multiholes {
			if err := add(h, holeColor, vg.Points(0.5), false); err != nil {
				return nil, err
			}
		}
		for _, c := range t.PegHoles {
			if err := add(circle(c), holeColor, vg.Points(0.5), false); err != nil {
				return nil, err
			}
		}
	}
	if err := add(sh.Area.Polygon(), areaColor, vg.Points(1), false); err != nil {
		return nil, err
	}
	if sh.Board != sh.Area {
		if err := add(sh.Board.Polygon(), areaColor, vg.Points(0.5), true); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Render writes the sheet in the given format at 1:1 scale.
func Render(w io.Writer, sh geometry.Sheet, format, title string) error {
	switch format {
	case FormatPDF, FormatSVG, FormatEPS:
	default:
		return fmt.Errorf("unsupported sheet format %q", format)
	}

	p, err := Plot(sh, title)
	if err != nil {
		return err
	}
	b := sh.Bounds()
	width := vg.Length(b.Width()+2*MarginMM) * vg.Millimeter
	height := vg.Length(b.Height()+2*MarginMM) * vg.Millimeter

	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return fmt.Errorf("create %s canvas: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}

func xys(poly geometry.Polygon) plotter.XYs {
	pts := make(plotter.XYs, len(poly))
	for i, p := range poly {
		pts[i] = plotter.XY{X: p.X, Y: p.Y}
	}
	return pts
}

func circle(c geometry.Circle) geometry.Polygon {
	poly := make(geometry.Polygon, circleSegments)
	for i := range poly {
		a := 2 * math.Pi * float64(i) / circleSegments
		poly[i] = geometry.Point{X: c.Center.X + c.Radius*math.Cos(a), Y: c.Center.Y + c.Radius*math.Sin(a)}
	}
	return poly
}
