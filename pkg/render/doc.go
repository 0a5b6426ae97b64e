// Package render groups the output back ends for a planned board.
//
//   - [scad] compiles print stacks into STL or 3MF models with OpenSCAD
//   - [dxf] writes the cutting drawing as a layered DXF file
//   - [sheet] plots a 1:1 cutting sheet with gonum/plot
//   - [preview] draws the tile layout with Graphviz
//
// The pipeline package picks a back end per output format; each subpackage
// can also be used on its own.
//
// [scad]: github.com/asciipip/multiboard-parametric-stacked/pkg/render/scad
// [dxf]: github.com/asciipip/multiboard-parametric-stacked/pkg/render/dxf
// [sheet]: github.com/asciipip/multiboard-parametric-stacked/pkg/render/sheet
// [preview]: github.com/asciipip/multiboard-parametric-stacked/pkg/render/preview
package render
