package tiling

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/asciipip/multiboard-parametric-stacked/pkg/board"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/errors"
)

func cellsSpec(w, h, max int) board.Spec {
	return board.Spec{WidthCells: w, HeightCells: h, MaxTileCells: max}
}

func TestAxisSize(t *testing.T) {
	tests := []struct {
		cells, max, want int
	}{
		{20, 8, 7},
		{16, 8, 8},
		{17, 8, 6},
		{8, 8, 8},
		{3, 8, 3},
		{25, 8, 7},
		{9, 8, 5},
	}
	for _, tt := range tests {
		if got := AxisSize(tt.cells, tt.max); got != tt.want {
			t.Errorf("AxisSize(%d, %d) = %d, want %d", tt.cells, tt.max, got, tt.want)
		}
	}
}

func TestAxisSizeNearMaxInt(t *testing.T) {
	for _, cells := range []int{math.MaxInt, math.MaxInt - 3, math.MaxInt / 2} {
		got := AxisSize(cells, 8)
		if got < 1 || got > 8 {
			t.Errorf("AxisSize(%d, 8) = %d, want 1..8", cells, got)
		}
	}
	if got := AxisSize(math.MaxInt-3, 8); got != 8 {
		t.Errorf("AxisSize(MaxInt-3, 8) = %d, want 8", got)
	}
}

func TestFits(t *testing.T) {
	tests := []struct {
		name      string
		w, h, max int
		rule      FitRule
		want      bool
	}{
		{"inclusive boundary", 8, 8, 8, FitInclusive, true},
		{"inclusive one axis on boundary", 8, 3, 8, FitInclusive, true},
		{"inclusive over", 9, 3, 8, FitInclusive, false},
		{"exclusive boundary", 8, 8, 8, FitExclusive, false},
		{"exclusive below", 7, 7, 8, FitExclusive, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fits(tt.w, tt.h, tt.max, tt.rule); got != tt.want {
				t.Errorf("Fits(%d, %d, %d, %v) = %v, want %v", tt.w, tt.h, tt.max, tt.rule, got, tt.want)
			}
		})
	}
}

func TestParseFitRule(t *testing.T) {
	for in, want := range map[string]FitRule{"": FitInclusive, "inclusive": FitInclusive, "Exclusive": FitExclusive} {
		got, err := ParseFitRule(in)
		if err != nil || got != want {
			t.Errorf("ParseFitRule(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseFitRule("loose"); err == nil {
		t.Error("ParseFitRule(loose) error = nil, want error")
	}
}

func TestSelectSize(t *testing.T) {
	tests := []struct {
		name string
		spec board.Spec
		want Size
	}{
		{"fits on one tile", cellsSpec(8, 8, 8), Size{8, 8}},
		{"fits, small", cellsSpec(3, 5, 8), Size{3, 5}},
		{"even split", cellsSpec(20, 20, 8), Size{7, 7}},
		{"axes independent", cellsSpec(20, 9, 8), Size{7, 5}},
		{"uses requested max", cellsSpec(20, 20, 5), Size{5, 5}},
		{"both pinned", board.Spec{WidthCells: 10, HeightCells: 25, MaxTileCells: 8, TileWidth: 5, TileHeight: 8}, Size{5, 8}},
		{"width pinned mirrors", board.Spec{WidthCells: 10, HeightCells: 10, MaxTileCells: 8, TileWidth: 4}, Size{4, 4}},
		{"height pinned mirrors", board.Spec{WidthCells: 10, HeightCells: 10, MaxTileCells: 8, TileHeight: 3}, Size{3, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectSize(tt.spec, FitInclusive); got != tt.want {
				t.Errorf("SelectSize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectSizeFitRulesAgreeAtBoundary(t *testing.T) {
	// Splitting an axis that already fits yields the axis itself, so the two
	// rules only differ in which branch is taken.
	for w := 1; w <= 8; w++ {
		for h := 1; h <= 8; h++ {
			spec := cellsSpec(w, h, 8)
			in, ex := SelectSize(spec, FitInclusive), SelectSize(spec, FitExclusive)
			if in != ex {
				t.Errorf("%dx%d: inclusive %v != exclusive %v", w, h, in, ex)
			}
		}
	}
}

func TestPartitionScenarios(t *testing.T) {
	tests := []struct {
		name       string
		spec       board.Spec
		size       Size
		wantGroups []Group
		wantMerged bool
		wantErr    bool
	}{
		{
			name:       "single tile",
			spec:       cellsSpec(8, 8, 8),
			size:       Size{8, 8},
			wantGroups: []Group{{Count: 1, Width: 8, Height: 8, Shape: ShapeCorner}},
			wantMerged: true,
		},
		{
			name: "square tiles with equal remainders merge",
			spec: cellsSpec(20, 20, 8),
			size: Size{7, 7},
			wantGroups: []Group{
				{Count: 4, Width: 7, Height: 7, Shape: ShapeCore},
				{Count: 4, Width: 7, Height: 6, Shape: ShapeSide},
				{Count: 1, Width: 6, Height: 6, Shape: ShapeCorner},
			},
			wantMerged: true,
		},
		{
			name: "unequal tiles with a one-cell strip",
			spec: board.Spec{WidthCells: 10, HeightCells: 25, MaxTileCells: 8, TileWidth: 5, TileHeight: 8},
			size: Size{5, 8},
			wantGroups: []Group{
				{Count: 3, Width: 5, Height: 8, Shape: ShapeCore},
				{Count: 1, Width: 5, Height: 1, Shape: ShapeSide},
				{Count: 3, Width: 5, Height: 8, Shape: ShapeRotatedSide},
				{Count: 1, Width: 5, Height: 1, Shape: ShapeCorner},
			},
			wantErr: true,
		},
		{
			name: "square tiles, different remainders",
			spec: cellsSpec(17, 20, 8),
			size: Size{6, 6},
			wantGroups: []Group{
				{Count: 6, Width: 6, Height: 6, Shape: ShapeCore},
				{Count: 2, Width: 6, Height: 2, Shape: ShapeSide},
				{Count: 3, Width: 5, Height: 6, Shape: ShapeRotatedSide},
				{Count: 1, Width: 5, Height: 2, Shape: ShapeCorner},
			},
		},
		{
			name: "single row keeps only the top strip",
			spec: cellsSpec(20, 5, 8),
			size: Size{7, 5},
			wantGroups: []Group{
				{Count: 2, Width: 7, Height: 5, Shape: ShapeSide},
				{Count: 1, Width: 6, Height: 5, Shape: ShapeCorner},
			},
		},
		{
			name: "exact multiple has no remainder",
			spec: cellsSpec(16, 16, 8),
			size: Size{8, 8},
			wantGroups: []Group{
				{Count: 1, Width: 8, Height: 8, Shape: ShapeCore},
				{Count: 2, Width: 8, Height: 8, Shape: ShapeSide},
				{Count: 1, Width: 8, Height: 8, Shape: ShapeCorner},
			},
			wantMerged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Partition(tt.spec, tt.size)
			if diff := cmp.Diff(tt.wantGroups, l.Groups); diff != "" {
				t.Errorf("Partition() groups mismatch (-want +got):\n%s", diff)
			}
			if l.Merged != tt.wantMerged {
				t.Errorf("Merged = %v, want %v", l.Merged, tt.wantMerged)
			}
			err := l.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeGeometry) {
				t.Errorf("Validate() code = %v, want %v", errors.GetCode(err), errors.ErrCodeGeometry)
			}
		})
	}
}

func TestValidateReportsEveryUndersizedGroup(t *testing.T) {
	l := Partition(cellsSpec(9, 9, 8), Size{4, 4})
	err := l.Validate()
	if err == nil {
		t.Fatal("Validate() error = nil, want geometry error")
	}
	msg := errors.UserMessage(err)
	for _, want := range []string{"top tile(s) of 4x1", "corner tile(s) of 1x1"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Validate() message %q missing %q", msg, want)
		}
	}
}

func TestPartitionProperties(t *testing.T) {
	for _, rule := range []FitRule{FitInclusive, FitExclusive} {
		for max := 2; max <= 10; max++ {
			for w := 1; w <= 30; w++ {
				for h := 1; h <= 30; h++ {
					spec := cellsSpec(w, h, max)
					size := SelectSize(spec, rule)
					l := Partition(spec, size)

					if size.Width > max || size.Height > max {
						t.Fatalf("%dx%d max %d: tile %v exceeds max", w, h, max, size)
					}
					if got := l.Area(); got != w*h {
						t.Fatalf("%dx%d max %d: area %d, want %d", w, h, max, got, w*h)
					}
					if bound := l.Columns * size.Width * l.Rows * size.Height; l.Area() > bound {
						t.Fatalf("%dx%d max %d: area %d exceeds bounding box %d", w, h, max, l.Area(), bound)
					}
					if corners := countShape(l, ShapeCorner); corners != 1 {
						t.Fatalf("%dx%d max %d: %d corner groups", w, h, max, corners)
					}
					if ShouldMerge(size, l.TopHeight, l.RightWidth) && countShape(l, ShapeRotatedSide) != 0 {
						t.Fatalf("%dx%d max %d: merged layout has a rotated side group", w, h, max)
					}
					if w <= max && h <= max && rule == FitInclusive {
						want := []Group{{Count: 1, Width: w, Height: h, Shape: ShapeCorner}}
						if diff := cmp.Diff(want, l.Groups); diff != "" {
							t.Fatalf("%dx%d max %d: fitting board (-want +got):\n%s", w, h, max, diff)
						}
					}
					if got := len(l.Placements()); got != l.TileCount() {
						t.Fatalf("%dx%d max %d: %d placements for %d tiles", w, h, max, got, l.TileCount())
					}
				}
			}
		}
	}
}

func TestPlacementsCoverBoard(t *testing.T) {
	spec := cellsSpec(17, 20, 8)
	l := Partition(spec, SelectSize(spec, FitInclusive))

	covered := make([][]int, spec.WidthCells)
	for i := range covered {
		covered[i] = make([]int, spec.HeightCells)
	}
	for _, p := range l.Placements() {
		for x := p.X; x < p.X+p.Width; x++ {
			for y := p.Y; y < p.Y+p.Height; y++ {
				covered[x][y]++
			}
		}
	}
	for x := range covered {
		for y := range covered[x] {
			if covered[x][y] != 1 {
				t.Fatalf("cell (%d,%d) covered %d times", x, y, covered[x][y])
			}
		}
	}

	counts := map[Shape]int{}
	for _, p := range l.Placements() {
		counts[p.Shape]++
	}
	for _, g := range l.Groups {
		if counts[g.Shape] != g.Count {
			t.Errorf("%s placements = %d, want %d", g.Shape, counts[g.Shape], g.Count)
		}
	}
}

func TestShapeText(t *testing.T) {
	for _, s := range Shapes {
		data, err := json.Marshal(s)
		if err != nil {
			t.Fatalf("Marshal(%v) error = %v", s, err)
		}
		var back Shape
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", data, err)
		}
		if back != s {
			t.Errorf("round trip %v -> %s -> %v", s, data, back)
		}
	}
	if _, err := ParseShape("diagonal"); err == nil {
		t.Error("ParseShape(diagonal) error = nil, want error")
	}
	if _, err := Shape(9).MarshalText(); err == nil {
		t.Error("Shape(9).MarshalText() error = nil, want error")
	}
}

func TestShapeLabels(t *testing.T) {
	want := map[Shape]string{
		ShapeCore:        "core",
		ShapeSide:        "top",
		ShapeRotatedSide: "right",
		ShapeCorner:      "corner",
	}
	for s, label := range want {
		if got := s.Label(); got != label {
			t.Errorf("%v.Label() = %q, want %q", s, got, label)
		}
	}
}

func countShape(l Layout, s Shape) int {
	n := 0
	for _, g := range l.Groups {
		if g.Shape == s {
			n++
		}
	}
	return n
}

func TestUnique(t *testing.T) {
	l := Partition(cellsSpec(20, 20, 8), Size{7, 7})
	got := l.Unique()
	want := []Group{
		{Count: 1, Width: 7, Height: 7, Shape: ShapeCore},
		{Count: 1, Width: 7, Height: 6, Shape: ShapeSide},
		{Count: 1, Width: 6, Height: 6, Shape: ShapeCorner},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Unique() mismatch (-want +got):\n%s", diff)
	}
	if l.Groups[0].Count != 4 {
		t.Errorf("Unique() modified layout groups: %v", l.Groups)
	}
}
