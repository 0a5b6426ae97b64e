// Package pkg holds the libraries behind the multiboard tool.
//
// Multiboard turns a wall area into printable Multiboard pegboard tiles. The
// flow is:
//
//	width × height (mm or cells)
//	         ↓
//	    [board]    resolve dimensions into whole cells
//	         ↓
//	    [tiling]   choose a base tile size and split the board into groups
//	         ↓
//	    [stack]    pack groups into at most two print stacks and name them
//	         ↓
//	    [plan]     the combined result, with text/JSON/YAML reports
//	         ↓
//	    [pipeline] render models and drawings, with [cache] in front
//
// [geometry] turns groups into 2D tile outlines for the drawing back ends in
// render. [api] serves plans over HTTP, [config] loads user defaults, and
// [observability] exposes hooks and Prometheus metrics.
//
// [board]: github.com/asciipip/multiboard-parametric-stacked/pkg/board
// [tiling]: github.com/asciipip/multiboard-parametric-stacked/pkg/tiling
// [stack]: github.com/asciipip/multiboard-parametric-stacked/pkg/stack
// [plan]: github.com/asciipip/multiboard-parametric-stacked/pkg/plan
// [pipeline]: github.com/asciipip/multiboard-parametric-stacked/pkg/pipeline
// [cache]: github.com/asciipip/multiboard-parametric-stacked/pkg/cache
// [geometry]: github.com/asciipip/multiboard-parametric-stacked/pkg/geometry
// [api]: github.com/asciipip/multiboard-parametric-stacked/pkg/api
// [config]: github.com/asciipip/multiboard-parametric-stacked/pkg/config
// [observability]: github.com/asciipip/multiboard-parametric-stacked/pkg/observability
package pkg
