// Package plan composes board resolution, tiling and stack packing into a
// single printable plan.
package plan

import (
	"github.com/asciipip/multiboard-parametric-stacked/pkg/board"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/errors"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/stack"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/tiling"
)

// MaxTiles bounds the number of tiles in one plan. Rendering allocates per
// tile, so larger plans are refused up front.
const MaxTiles = 10000

// Options control how a board is tiled and how its stacks are named.
type Options struct {
	Fit    tiling.FitRule
	Prefix string
}

// NamedStack is a stack with its artifact name.
type NamedStack struct {
	Name  string      `json:"name" yaml:"name"`
	Stack stack.Stack `json:"groups" yaml:"groups"`
}

// Plan is everything needed to print a board.
type Plan struct {
	Board  board.Spec    `json:"board" yaml:"board"`
	Size   tiling.Size   `json:"tile_size" yaml:"tile_size"`
	Layout tiling.Layout `json:"layout" yaml:"layout"`
	Stacks []NamedStack  `json:"stacks" yaml:"stacks"`
}

// Build resolves req and plans the board.
func Build(req board.Request, opts Options) (*Plan, error) {
	spec, err := board.Resolve(req)
	if err != nil {
		return nil, err
	}
	return FromSpec(spec, opts)
}

// FromSpec plans an already resolved board. It fails with a USAGE error when
// the layout needs more than MaxTiles tiles and with a GEOMETRY error when it
// contains tiles that cannot be printed.
func FromSpec(spec board.Spec, opts Options) (*Plan, error) {
	size := tiling.SelectSize(spec, opts.Fit)
	layout := tiling.Partition(spec, size)
	if n := layout.TileCount(); n > MaxTiles {
		return nil, errors.New(errors.ErrCodeUsage, "board needs %d tiles of %v, more than the %d tile limit", n, size, MaxTiles)
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	namer := stack.Namer{Prefix: opts.Prefix}
	packed := stack.Pack(layout.Groups)
	stacks := make([]NamedStack, len(packed))
	for i, s := range packed {
		stacks[i] = NamedStack{Name: namer.Name(s), Stack: s}
	}

	return &Plan{Board: spec, Size: size, Layout: layout, Stacks: stacks}, nil
}

// TileCount returns the number of tiles to print.
func (p *Plan) TileCount() int { return p.Layout.TileCount() }
