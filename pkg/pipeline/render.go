package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/asciipip/multiboard-parametric-stacked/pkg/geometry"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/plan"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/render/dxf"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/render/preview"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/render/sheet"
)

// Draw renders a board-level format: the DXF cutting drawing, the PDF cutting
// sheet, or the SVG/PNG layout preview.
func Draw(ctx context.Context, p *plan.Plan, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatDXF:
		var buf bytes.Buffer
		if err := dxf.Encode(&buf, geometry.NewSheet(p.Layout, opts.GapMM)); err != nil {
			return nil, fmt.Errorf("dxf: %w", err)
		}
		return buf.Bytes(), nil

	case FormatPDF:
		var buf bytes.Buffer
		if err := sheet.Render(&buf, geometry.NewSheet(p.Layout, opts.GapMM), sheet.FormatPDF, title(p, opts)); err != nil {
			return nil, fmt.Errorf("pdf: %w", err)
		}
		return buf.Bytes(), nil

	case FormatSVG:
		return preview.RenderSVG(ctx, preview.ToDOT(p.Layout, preview.Options{}))

	case FormatPNG:
		return preview.RenderPNG(ctx, preview.ToDOT(p.Layout, preview.Options{}))

	case FormatJSON:
		var buf bytes.Buffer
		err := p.Encode(&buf, plan.FormatJSON)
		return buf.Bytes(), err

	default:
		return nil, ValidateFormat(format)
	}
}

func title(p *plan.Plan, opts Options) string {
	if opts.Title != "" {
		return opts.Title
	}
	return fmt.Sprintf("%dx%d board (%gx%g mm)", p.Board.WidthCells, p.Board.HeightCells, p.Board.WidthMM, p.Board.HeightMM)
}
