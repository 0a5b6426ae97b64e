package cli

import (
	"github.com/spf13/cobra"

	"github.com/asciipip/multiboard-parametric-stacked/pkg/board"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/config"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/errors"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/tiling"
)

// boardFlags are the board dimension flags shared by plan and generate.
// Only flags the user actually set reach the request, so "given in both
// units" is detected the same way for every input path.
type boardFlags struct {
	widthMM, heightMM       float64
	widthCells, heightCells int
	tileWidth, tileHeight   int
	tileSizeMM              float64
	maxTileCells            int
	maxTileMM               float64
	toothExtraMM            float64
	fit                     string
}

// register adds the board flags to cmd. -h is --height-mm, so help is
// reachable only as --help.
func (f *boardFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Bool("help", false, "help for "+cmd.Name())

	flags.Float64VarP(&f.widthMM, "width-mm", "w", 0, "area width in mm")
	flags.Float64VarP(&f.heightMM, "height-mm", "h", 0, "area height in mm")
	flags.IntVar(&f.widthCells, "width-cells", 0, "board width in cells")
	flags.IntVar(&f.heightCells, "height-cells", 0, "board height in cells")
	flags.IntVar(&f.tileWidth, "tile-width", 0, "base tile width in cells")
	flags.IntVar(&f.tileHeight, "tile-height", 0, "base tile height in cells")
	flags.Float64Var(&f.tileSizeMM, "tile-size-mm", 0, "base tile size in mm, both axes")
	flags.IntVar(&f.maxTileCells, "max-tile-size", 0, "largest tile side in cells (default from config)")
	flags.Float64Var(&f.maxTileMM, "max-tile-size-mm", 0, "largest tile side in mm, e.g. the printer bed")
	flags.Float64Var(&f.toothExtraMM, "tooth-extra-mm", 0, "tooth protrusion subtracted from --max-tile-size-mm")
	flags.StringVar(&f.fit, "fit", "", "single-tile fit rule: inclusive or exclusive (default from config)")
}

// request builds the board request from the flags that were set, with cfg
// filling the defaults.
func (f *boardFlags) request(cmd *cobra.Command, cfg config.Config) (board.Request, tiling.FitRule, error) {
	flags := cmd.Flags()
	var req board.Request

	floatFlag := func(name string, v float64) *float64 {
		if flags.Changed(name) {
			return board.Float(v)
		}
		return nil
	}
	intFlag := func(name string, v int) *int {
		if flags.Changed(name) {
			return board.Int(v)
		}
		return nil
	}

	req.WidthMM = floatFlag("width-mm", f.widthMM)
	req.HeightMM = floatFlag("height-mm", f.heightMM)
	req.WidthCells = intFlag("width-cells", f.widthCells)
	req.HeightCells = intFlag("height-cells", f.heightCells)
	req.TileWidth = intFlag("tile-width", f.tileWidth)
	req.TileHeight = intFlag("tile-height", f.tileHeight)
	req.TileSizeMM = floatFlag("tile-size-mm", f.tileSizeMM)
	req.MaxTileCells = intFlag("max-tile-size", f.maxTileCells)
	req.MaxTileMM = floatFlag("max-tile-size-mm", f.maxTileMM)
	req.ToothExtraMM = floatFlag("tooth-extra-mm", f.toothExtraMM)
	cfg.ApplyBoard(&req)

	fit := cfg.Fit
	if flags.Changed("fit") {
		var err error
		if fit, err = tiling.ParseFitRule(f.fit); err != nil {
			return board.Request{}, 0, errors.Wrap(errors.ErrCodeUsage, err, "invalid --fit")
		}
	}
	return req, fit, nil
}
