// Package tiling chooses a tile size for a board and splits the board into
// groups of identical tiles.
//
// # Overview
//
// A board is a grid of 25 mm cells (see [board.Spec]). Printers cap how large
// one tile can be, so a board larger than the cap is cut into a grid of tiles.
// All tiles share a base size except along the top row and the right column,
// where the leftover cells form narrower strips.
//
// # Size Selection
//
// [SelectSize] returns pinned sizes verbatim, mirrors a single pin to the
// other axis, returns the whole board when it [Fits] on one tile, and
// otherwise spreads each axis evenly with [AxisSize]:
//
//	size := tiling.SelectSize(spec, tiling.FitInclusive)
//
// # Partitioning
//
// [Partition] counts the tiles in each [Shape]:
//
//   - [ShapeCore]: base-size tiles away from the strips
//   - [ShapeSide]: the top strip
//   - [ShapeRotatedSide]: the right strip
//   - [ShapeCorner]: the single tile where the strips meet
//
// When the base tile is square and both strips are equally deep, a right-strip
// tile is a top-strip tile turned a quarter, and the two strips are reported
// as one side group ([ShouldMerge]).
//
// [Layout.Validate] rejects layouts containing tiles too thin to carry the
// interlocking teeth.
package tiling
