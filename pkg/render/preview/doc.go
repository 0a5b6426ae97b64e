// Package preview renders a board layout as a to-scale diagram of its tiles.
//
// # Overview
//
// Every tile of a [tiling.Layout] becomes a box pinned at its position on the
// board and coloured by shape. Graphviz (neato, with pinned positions) does
// the drawing:
//
//	dot := preview.ToDOT(layout, preview.Options{})
//	svg, err := preview.RenderSVG(ctx, dot)
//
// PNG output goes through the same engine with [RenderPNG].
//
// # Scale
//
// One cell is drawn [Options.CellInches] inches wide (default 0.4). Labels
// show the tile size and its shape label ("7x6 top").
package preview
