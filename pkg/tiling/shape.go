package tiling

import (
	"fmt"
)

// Shape is the category of a tile group, which decides where its tiles sit on
// the board and which of their edges face outward.
type Shape int

const (
	// ShapeCore tiles are full-size, away from the remainder strips.
	ShapeCore Shape = iota
	// ShapeSide tiles form the top remainder strip, or both strips when merged.
	ShapeSide
	// ShapeRotatedSide tiles form the right remainder strip when it could not
	// be merged with the top one.
	ShapeRotatedSide
	// ShapeCorner is the single tile where both remainder strips meet.
	ShapeCorner
)

// Shapes lists every shape in layout order.
var Shapes = []Shape{ShapeCore, ShapeSide, ShapeRotatedSide, ShapeCorner}

// String returns the shape tag passed to the solid-model compiler.
func (s Shape) String() string {
	switch s {
	case ShapeCore:
		return "core"
	case ShapeSide:
		return "side"
	case ShapeRotatedSide:
		return "rotated_side"
	case ShapeCorner:
		return "corner"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// Label returns the name used in artifact names and summaries.
func (s Shape) Label() string {
	switch s {
	case ShapeCore:
		return "core"
	case ShapeSide:
		return "top"
	case ShapeRotatedSide:
		return "right"
	case ShapeCorner:
		return "corner"
	default:
		return fmt.Sprintf("shape%d", int(s))
	}
}

// Valid reports whether s is one of the declared shapes.
func (s Shape) Valid() bool {
	return s >= ShapeCore && s <= ShapeCorner
}

// ParseShape parses a shape tag as produced by String.
func ParseShape(tag string) (Shape, error) {
	for _, s := range Shapes {
		if s.String() == tag {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown tile shape %q", tag)
}

// MarshalText implements encoding.TextMarshaler.
func (s Shape) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid tile shape %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Shape) UnmarshalText(text []byte) error {
	v, err := ParseShape(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
