package rectify

import (
	"fmt"

	"github.com/ironsheep/form-digits/internal/detection"
	"github.com/ironsheep/form-digits/internal/geometry"
)

// CornerSet holds four corners in canvas order: (0,0), (0,H), (W,H), (W,0).
type CornerSet [4]geometry.Point

// CanvasCorners returns the corners of a width x height canvas.
func CanvasCorners(width, height float64) CornerSet {
	return CornerSet{
		geometry.Pt(0, 0),
		geometry.Pt(0, height),
		geometry.Pt(width, height),
		geometry.Pt(width, 0),
	}
}

// Intersections returns the four vertical x horizontal crossings of b in the
// order (V0,H0), (V0,H1), (V1,H0), (V1,H1). The order says nothing about
// which physical corner a crossing is.
func Intersections(b detection.Boundary) ([4]geometry.Point, error) {
	var out [4]geometry.Point
	i := 0
	for vi, v := range b.Vertical {
		for hi, h := range b.Horizontal {
			p, ok := geometry.Intersect(v, h)
			if !ok {
				return out, fmt.Errorf("%w: vertical %d and horizontal %d are parallel", ErrDegenerateBoundary, vi, hi)
			}
			out[i] = p
			i++
		}
	}
	return out, nil
}

// MatchCorners picks, for each expected corner, the closest candidate.
// Ties go to the earlier candidate. If any two picks lie within squared
// distance eps of each other the match is rejected with ErrDegenerateCorners.
func MatchCorners(candidates []geometry.Point, expected CornerSet, eps float64) (CornerSet, error) {
	var out CornerSet
	for i, e := range expected {
		p, ok := geometry.ClosestPoint(e, candidates)
		if !ok {
			return CornerSet{}, fmt.Errorf("%w: no corner candidates", ErrDegenerateCorners)
		}
		out[i] = p
	}

	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if geometry.SquaredDistance(out[i], out[j]) < eps {
				return CornerSet{}, fmt.Errorf("%w: corners %d and %d coincide at %v", ErrDegenerateCorners, i, j, out[i])
			}
		}
	}
	return out, nil
}

// ResolveCorners turns a boundary found in a width x height raster into
// ordered corners.
//
// The four boundary lines must be pairwise distinct. Their crossings are
// matched to the raster corners by proximity, so boundaries that are only
// roughly axis aligned still resolve. eps is the squared distance under which
// two corners count as the same point.
//
// Parameters:
//   - b: The left, right, top and bottom boundary lines.
//   - width, height: Size of the raster the boundary was found in.
//   - eps: Squared distance threshold for coinciding corners.
//
// Returns:
//   - CornerSet: Top-left, bottom-left, bottom-right, top-right.
//   - error: Wraps ErrDegenerateBoundary when two boundary lines are equal
//     or a vertical and horizontal line are parallel, and
//     ErrDegenerateCorners when two resolved corners coincide.
func ResolveCorners(b detection.Boundary, width, height int, eps float64) (CornerSet, error) {
	lines := b.Lines()
	for i := 0; i < len(lines); i++ {
		for j := i + 1; j < len(lines); j++ {
			if lines[i] == lines[j] {
				return CornerSet{}, fmt.Errorf("%w: lines %d and %d are both %v", ErrDegenerateBoundary, i, j, lines[i])
			}
		}
	}

	candidates, err := Intersections(b)
	if err != nil {
		return CornerSet{}, err
	}

	return MatchCorners(candidates[:], CanvasCorners(float64(width), float64(height)), eps)
}
