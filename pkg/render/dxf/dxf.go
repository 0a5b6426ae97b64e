// Package dxf writes tile drawings as ASCII DXF for cutting plotters.
//
// Only LINE (polygon edges) and CIRCLE (peg holes) entities are produced.
// Geometry goes on three layers:
//
//   - OUTLINE: tile outlines
//   - HOLES: multiholes and peg holes
//   - AREA: the requested board area and the whole-cell board
//
// Units are millimetres.
package dxf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	dxflib "github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/asciipip/multiboard-parametric-stacked/pkg/geometry"
)

// Layer names.
const (
	LayerOutline = "OUTLINE"
	LayerHoles   = "HOLES"
	LayerArea    = "AREA"
)

// Layers lists every layer with its ACI colour.
var Layers = []struct {
	Name  string
	Color color.ColorNumber
}{
	{LayerOutline, color.White},
	{LayerHoles, color.Red},
	{LayerArea, color.Blue},
}

// Drawing collects entities on the multiboard layers. The first error is
// sticky and returned by WriteTo.
type Drawing struct {
	d     *drawing.Drawing
	layer string
	err   error
}

// NewDrawing creates a drawing with every layer in Layers defined.
func NewDrawing() *Drawing {
	d := &Drawing{d: dxflib.NewDrawing()}
	for _, l := range Layers {
		if _, err := d.d.AddLayer(l.Name, l.Color, dxflib.DefaultLineType, false); err != nil {
			d.err = fmt.Errorf("add layer %s: %w", l.Name, err)
			break
		}
	}
	return d
}

func (d *Drawing) use(layer string) bool {
	if d.err != nil {
		return false
	}
	if d.layer != layer {
		if err := d.d.ChangeLayer(layer); err != nil {
			d.err = fmt.Errorf("change layer %s: %w", layer, err)
			return false
		}
		d.layer = layer
	}
	return true
}

// Line adds a LINE entity.
func (d *Drawing) Line(layer string, a, b geometry.Point) {
	if !d.use(layer) {
		return
	}
	if _, err := d.d.Line(a.X, a.Y, 0, b.X, b.Y, 0); err != nil {
		d.err = fmt.Errorf("add line: %w", err)
	}
}

// Polygon adds the closed ring as LINE entities.
func (d *Drawing) Polygon(layer string, poly geometry.Polygon) {
	for i, p := range poly {
		d.Line(layer, p, poly[(i+1)%len(poly)])
	}
}

// Circle adds a CIRCLE entity.
func (d *Drawing) Circle(layer string, c geometry.Circle) {
	if !d.use(layer) {
		return
	}
	if _, err := d.d.Circle(c.Center.X, c.Center.Y, 0, c.Radius); err != nil {
		d.err = fmt.Errorf("add circle: %w", err)
	}
}

// Tile adds a tile drawing.
func (d *Drawing) Tile(t geometry.Tile) {
	d.Polygon(LayerOutline, t.Outline)
	for _, h := range t.Multiholes {
		d.Polygon(LayerHoles, h)
	}
	for _, c := range t.PegHoles {
		d.Circle(LayerHoles, c)
	}
}

// WriteTo writes the document to w. The library only saves to named files,
// so the document passes through a temporary file.
func (d *Drawing) WriteTo(w io.Writer) (int64, error) {
	if d.err != nil {
		return 0, d.err
	}
	dir, err := os.MkdirTemp("", "multiboard-dxf-")
	if err != nil {
		return 0, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "sheet.dxf")
	if err := d.d.SaveAs(path); err != nil {
		return 0, fmt.Errorf("save dxf: %w", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("read dxf: %w", err)
	}
	defer f.Close()
	return io.Copy(w, f)
}

// Encode writes a whole sheet.
func Encode(w io.Writer, sh geometry.Sheet) error {
	d := NewDrawing()
	for _, t := range sh.Tiles {
		d.Tile(t)
	}
	d.Polygon(LayerArea, sh.Area.Polygon())
	if sh.Board != sh.Area {
		d.Polygon(LayerArea, sh.Board.Polygon())
	}
	_, err := d.WriteTo(w)
	return err
}
