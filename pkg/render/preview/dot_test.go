package preview

import (
	"context"
	"strings"
	"testing"

	"github.com/asciipip/multiboard-parametric-stacked/pkg/board"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/tiling"
)

func layoutFor(w, h, max int) tiling.Layout {
	spec := board.Spec{WidthCells: w, HeightCells: h, MaxTileCells: max}
	return tiling.Partition(spec, tiling.SelectSize(spec, tiling.FitInclusive))
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(layoutFor(20, 20, 8), Options{})

	if !strings.HasPrefix(dot, "graph board {") {
		t.Error("ToDOT() output missing graph declaration")
	}
	if got := strings.Count(dot, "pos="); got != 9 {
		t.Errorf("ToDOT() has %d pinned nodes, want 9", got)
	}
	if !strings.Contains(dot, `label="6x6\ncorner"`) {
		t.Error("ToDOT() output missing corner label")
	}
	if !strings.Contains(dot, `"t2_2"`) {
		t.Error("ToDOT() output missing top-right tile")
	}
	// The corner centre sits at 14+3 cells.
	if !strings.Contains(dot, `pos="489.60,489.60!"`) {
		t.Errorf("ToDOT() corner not pinned at the top-right:\n%s", dot)
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(layoutFor(4, 4, 8), Options{Detailed: true, CellInches: 1})

	if !strings.Contains(dot, `(0,0)`) {
		t.Error("ToDOT() detailed output missing grid coordinates")
	}
	if !strings.Contains(dot, "width=4.000, height=4.000") {
		t.Errorf("ToDOT() ignored cell scale:\n%s", dot)
	}
}

func TestToDOT_Shapes(t *testing.T) {
	dot := ToDOT(layoutFor(17, 20, 6), Options{})
	for _, s := range tiling.Shapes {
		if !strings.Contains(dot, fills[s]) {
			t.Errorf("ToDOT() missing fill for %s", s)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering in short mode")
	}
	svg, err := RenderSVG(context.Background(), ToDOT(layoutFor(10, 10, 8), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output is not SVG")
	}
}
