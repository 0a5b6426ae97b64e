// Package stack packs tile groups into print batches and names them.
//
// A stack is the set of groups compiled together into one model file. Groups
// that share a print orientation go into the main stack; an unmerged right
// strip gets a stack of its own when a top strip already occupies the main one.
package stack

import (
	"sort"

	"github.com/asciipip/multiboard-parametric-stacked/pkg/tiling"
)

// MaxStacks is the most stacks Pack ever returns.
const MaxStacks = 2

// Stack is an ordered list of groups rendered as one artifact.
type Stack []tiling.Group

// TileCount returns the number of tiles in the stack.
func (s Stack) TileCount() int {
	n := 0
	for _, g := range s {
		n += g.Count
	}
	return n
}

// Has reports whether the stack contains a group of the given shape.
func (s Stack) Has(shape tiling.Shape) bool {
	for _, g := range s {
		if g.Shape == shape {
			return true
		}
	}
	return false
}

// NeedsSecondStack reports whether the right strip must be printed apart from
// the main stack.
func NeedsSecondStack(hasSide, hasRotated bool) bool {
	return hasSide && hasRotated
}

// Pack assigns groups to stacks. The main stack holds core, side and corner
// groups in that order, plus the rotated side group when there is no side
// group. Otherwise the rotated side group is the second stack. Empty stacks
// are not returned.
func Pack(groups []tiling.Group) []Stack {
	ordered := make([]tiling.Group, len(groups))
	copy(ordered, groups)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Shape < ordered[j].Shape })

	var hasSide, hasRotated bool
	for _, g := range ordered {
		switch g.Shape {
		case tiling.ShapeSide:
			hasSide = true
		case tiling.ShapeRotatedSide:
			hasRotated = true
		}
	}
	split := NeedsSecondStack(hasSide, hasRotated)

	var main, second Stack
	for _, g := range ordered {
		if split && g.Shape == tiling.ShapeRotatedSide {
			second = append(second, g)
			continue
		}
		main = append(main, g)
	}

	var out []Stack
	for _, s := range []Stack{main, second} {
		if len(s) > 0 {
			out = append(out, s)
		}
	}
	return out
}
