package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/asciipip/multiboard-parametric-stacked/pkg/board"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/pipeline"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/plan"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleHeader   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleCell     = lipgloss.NewStyle().Padding(0, 1)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written artifact with its cache status.
func printFile(w io.Writer, path string, cached bool) {
	status, style := iconFresh, styleComputed
	if cached {
		status, style = iconCached, styleCached
	}
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path)+" "+style.Render(status))
}

func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(16)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Plan Summary
// =============================================================================

// printPlan renders the plan as key/value lines followed by tile and stack
// tables.
func printPlan(w io.Writer, p *plan.Plan) {
	b := p.Board
	fmt.Fprintln(w, StyleTitle.Render("Board"))
	printKeyValue(w, "Area", fmt.Sprintf("%.2f×%.2f mm", b.WidthMM, b.HeightMM))
	printKeyValue(w, "Board", fmt.Sprintf("%d×%d cells (%g×%g mm)",
		b.WidthCells, b.HeightCells, board.MMFromCells(b.WidthCells), board.MMFromCells(b.HeightCells)))
	printKeyValue(w, "Base tile", fmt.Sprintf("%d×%d cells", p.Size.Width, p.Size.Height))
	printKeyValue(w, "Tile grid", fmt.Sprintf("%d × %d", p.Layout.Columns, p.Layout.Rows))
	fmt.Fprintln(w)

	rows := make([][]string, 0, len(p.Rows()))
	for _, r := range p.Rows() {
		rows = append(rows, []string{r.Label, strconv.Itoa(r.Count), r.Size, r.Note})
	}
	fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("Tiles (%d)", p.TileCount())))
	fmt.Fprintln(w, newTable("Tile", "Count", "Size", "Note").Rows(rows...).Render())
	fmt.Fprintln(w)

	stackRows := make([][]string, 0, len(p.Stacks))
	for i, s := range p.Stacks {
		stackRows = append(stackRows, []string{strconv.Itoa(i + 1), strconv.Itoa(s.Stack.TileCount()), s.Name})
	}
	fmt.Fprintln(w, StyleTitle.Render("Stacks"))
	fmt.Fprintln(w, newTable("#", "Tiles", "Name").Rows(stackRows...).Render())
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			return styleCell
		})
}

// printStats prints render statistics on a single line.
func printStats(w io.Writer, s pipeline.Stats, failed int) {
	parts := []string{
		fmt.Sprintf("%d tiles", s.Tiles),
		fmt.Sprintf("%d stacks", s.Stacks),
	}
	if s.CacheHits > 0 {
		parts = append(parts, styleCached.Render(fmt.Sprintf("%d %s", s.CacheHits, iconCached)))
	}
	if failed > 0 {
		parts = append(parts, styleIconError.Render(fmt.Sprintf("%d failed", failed)))
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Fprintln(w, line)
}
