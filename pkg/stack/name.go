package stack

import (
	"fmt"
	"strings"
)

// Name derives a deterministic artifact name from the stack contents, e.g.
// "4x7x7_core-4x7x6_top-6x6_corner". Distinct stacks from one layout always get
// distinct names.
func Name(s Stack) string {
	segments := make([]string, 0, len(s))
	for _, g := range s {
		if g.Count > 1 {
			segments = append(segments, fmt.Sprintf("%dx%dx%d_%s", g.Count, g.Width, g.Height, g.Shape.Label()))
		} else {
			segments = append(segments, fmt.Sprintf("%dx%d_%s", g.Width, g.Height, g.Shape.Label()))
		}
	}
	return strings.Join(segments, "-")
}

// Namer names stacks with an optional filename prefix.
type Namer struct {
	// Prefix is prepended verbatim; include a separator if one is wanted.
	Prefix string
}

// Name returns the prefixed stack name.
func (n Namer) Name(s Stack) string {
	return n.Prefix + Name(s)
}

// Filename returns the prefixed name with the given extension, which may be
// given with or without a leading dot.
func (n Namer) Filename(s Stack, ext string) string {
	return n.Name(s) + "." + strings.TrimPrefix(ext, ".")
}
