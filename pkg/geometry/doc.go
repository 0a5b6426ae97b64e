// Package geometry computes the 2D drawing of tiles: outlines, multiholes,
// peg holes and the sheet that places one template of every distinct tile
// next to the raw board area.
//
// All coordinates are millimetres with the origin at the bottom-left and Y
// pointing up. Polygons are counter-clockwise and implicitly closed.
//
// A cell is a 25 mm square holding a regular octagon whose flats touch the
// square. Along an outward edge the tile outline follows the octagon flats,
// so neighbouring cells leave a V-shaped notch of depth [Chamfer] between
// them. Edges that meet another tile are straight.
package geometry
