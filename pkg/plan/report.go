package plan

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/asciipip/multiboard-parametric-stacked/pkg/board"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/errors"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/tiling"
)

// Row is one line of the tile table.
type Row struct {
	Label string
	Count int
	Size  string
	Note  string
}

// Rows returns the tile table in print order. A right strip that is printed
// on its own is annotated with the orientation it is printed in.
func (p *Plan) Rows() []Row {
	var rows []Row
	for _, g := range p.Layout.Groups {
		r := Row{Count: g.Count, Size: fmt.Sprintf("%d×%d", g.Width, g.Height)}
		switch g.Shape {
		case tiling.ShapeCore:
			r.Label = "Core"
		case tiling.ShapeSide:
			r.Label = "Top side"
			if p.Layout.Merged {
				r.Label = "Side"
			}
		case tiling.ShapeRotatedSide:
			r.Label = "Right side"
			r.Note = fmt.Sprintf("print as %d×%d side tile", g.Height, g.Width)
		case tiling.ShapeCorner:
			r.Label = "Corner"
		}
		rows = append(rows, r)
	}
	return rows
}

// WriteSummary writes a plain-text summary of the plan.
func (p *Plan) WriteSummary(w io.Writer) error {
	var b strings.Builder
	b.WriteString("The parameters for the board are:\n\n")
	fmt.Fprintf(&b, "  Area dimensions: %.2f×%.2f mm\n", p.Board.WidthMM, p.Board.HeightMM)
	fmt.Fprintf(&b, "  Board dimensions: %d×%d (%g×%g mm)\n",
		p.Board.WidthCells, p.Board.HeightCells,
		board.MMFromCells(p.Board.WidthCells), board.MMFromCells(p.Board.HeightCells))
	fmt.Fprintf(&b, "  Base tile size: %d×%d\n", p.Size.Width, p.Size.Height)
	fmt.Fprintf(&b, "  Board tile dimensions: %d×%d\n\n", p.Layout.Columns, p.Layout.Rows)

	b.WriteString("Tiles to be printed:\n\n")
	for _, r := range p.Rows() {
		fmt.Fprintf(&b, "  %-11s %3d  %s", r.Label+":", r.Count, r.Size)
		if r.Note != "" {
			fmt.Fprintf(&b, "  (%s)", r.Note)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nStacks:\n\n")
	for _, s := range p.Stacks {
		fmt.Fprintf(&b, "  %s\n", s.Name)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Export formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Encode writes the plan in the given format.
func (p *Plan) Encode(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "", FormatText:
		return p.WriteSummary(w)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown output format %q (must be text, json or yaml)", format)
	}
}
