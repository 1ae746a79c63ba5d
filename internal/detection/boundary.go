package detection

import (
	"errors"
	"fmt"

	"github.com/ironsheep/form-digits/internal/geometry"
)

// ErrNoBoundary reports that a line family had fewer than two lines, so no
// bounding box can be formed.
var ErrNoBoundary = errors.New("no boundary found")

// Boundary holds the four lines bounding the box.
type Boundary struct {
	// Vertical[0] is closest to the left edge, Vertical[1] to the right edge.
	Vertical [2]geometry.Line `json:"vertical"`

	// Horizontal[0] is closest to the top edge, Horizontal[1] to the bottom edge.
	Horizontal [2]geometry.Line `json:"horizontal"`
}

// Lines returns the boundary as {left, right, top, bottom}.
func (b Boundary) Lines() [4]geometry.Line {
	return [4]geometry.Line{b.Vertical[0], b.Vertical[1], b.Horizontal[0], b.Horizontal[1]}
}

// Edges are the four raster edges a Boundary is matched against.
type Edges struct {
	Left, Right, Top, Bottom geometry.Line
}

// RasterEdges returns the edges of a width x height raster, with endpoints
// ordered the way Families orders them: top to bottom for verticals and left
// to right for horizontals.
func RasterEdges(width, height int) Edges {
	w, h := float64(width), float64(height)
	return Edges{
		Left:   geometry.Ln(0, 0, 0, h),
		Right:  geometry.Ln(w, 0, w, h),
		Top:    geometry.Ln(0, 0, w, 0),
		Bottom: geometry.Ln(0, h, w, h),
	}
}

// SelectBoundaries picks, for each raster edge, the line of the matching
// family that lies closest to it (see geometry.ClosestLine).
//
// Both families need at least two lines; otherwise the error wraps
// ErrNoBoundary. With enough lines the same candidate may still win both
// edges of a family, which the corner resolver rejects as degenerate.
func SelectBoundaries(vertical, horizontal []geometry.Line, width, height int) (Boundary, error) {
	if len(vertical) < 2 {
		return Boundary{}, fmt.Errorf("%w: %d vertical lines", ErrNoBoundary, len(vertical))
	}
	if len(horizontal) < 2 {
		return Boundary{}, fmt.Errorf("%w: %d horizontal lines", ErrNoBoundary, len(horizontal))
	}

	edges := RasterEdges(width, height)

	var b Boundary
	b.Vertical[0], _ = geometry.ClosestLine(vertical, edges.Left)
	b.Vertical[1], _ = geometry.ClosestLine(vertical, edges.Right)
	b.Horizontal[0], _ = geometry.ClosestLine(horizontal, edges.Top)
	b.Horizontal[1], _ = geometry.ClosestLine(horizontal, edges.Bottom)

	return b, nil
}
