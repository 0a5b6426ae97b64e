package preview

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/asciipip/multiboard-parametric-stacked/pkg/tiling"
)

// DefaultCellInches is the drawn size of one cell.
const DefaultCellInches = 0.4

// Options configures preview rendering.
type Options struct {
	// CellInches is the drawn width of one cell. Zero selects DefaultCellInches.
	CellInches float64
	// Detailed adds grid coordinates to each label.
	Detailed bool
}

var fills = map[tiling.Shape]string{
	tiling.ShapeCore:        "#dfe7ef",
	tiling.ShapeSide:        "#f6d7a7",
	tiling.ShapeRotatedSide: "#c9e4c5",
	tiling.ShapeCorner:      "#f3b0b0",
}

// ToDOT converts a layout to Graphviz DOT with one pinned box per tile.
func ToDOT(l tiling.Layout, opts Options) string {
	scale := opts.CellInches
	if scale <= 0 {
		scale = DefaultCellInches
	}

	var buf bytes.Buffer
	buf.WriteString("graph board {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=filled, fixedsize=true, fontsize=10, penwidth=1.5];\n")
	buf.WriteString("\n")

	for _, p := range l.Placements() {
		// Graphviz positions are in points and refer to node centres.
		cx := (float64(p.X) + float64(p.Width)/2) * scale * 72
		cy := (float64(p.Y) + float64(p.Height)/2) * scale * 72
		label := fmt.Sprintf("%dx%d\\n%s", p.Width, p.Height, p.Shape.Label())
		if opts.Detailed {
			label += fmt.Sprintf("\\n(%d,%d)", p.Column, p.Row)
		}
		fmt.Fprintf(&buf, "  \"t%d_%d\" [label=\"%s\", pos=\"%.2f,%.2f!\", width=%.3f, height=%.3f, fillcolor=%q];\n",
			p.Column, p.Row, label, cx, cy,
			float64(p.Width)*scale, float64(p.Height)*scale, fills[p.Shape])
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders DOT source to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders DOT source to PNG.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
