package rectify

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/math/f64"

	"github.com/ironsheep/form-digits/internal/geometry"
)

// Sampler is a raster that can be read as intensities in [0, 1].
// Reads outside the raster must return 0.
type Sampler interface {
	Size() (width, height int)
	Value(x, y int) float64
}

// barycentricTolerance lets points on a shared triangle edge land in either
// triangle despite rounding.
const barycentricTolerance = 1e-9

// triangle is one piece of a PiecewiseAffine map.
type triangle struct {
	vertices [3]geometry.Point
	// toSource maps canvas coordinates into the source raster.
	toSource f64.Aff3
}

// PiecewiseAffine maps canvas points to source points with one affine map
// per canvas triangle.
type PiecewiseAffine struct {
	triangles [2]triangle
}

// NewPiecewiseAffine fits the map that sends canvas[i] to source[i].
//
// The canvas quad is split along its canvas[0]-canvas[2] diagonal. Each half
// must span a non-zero area in both quads.
func NewPiecewiseAffine(canvas, source CornerSet) (*PiecewiseAffine, error) {
	halves := [2][3]int{{0, 1, 2}, {0, 2, 3}}

	t := &PiecewiseAffine{}
	for i, idx := range halves {
		dst := [3]geometry.Point{canvas[idx[0]], canvas[idx[1]], canvas[idx[2]]}
		src := [3]geometry.Point{source[idx[0]], source[idx[1]], source[idx[2]]}

		if area2(src) == 0 {
			return nil, fmt.Errorf("%w: source triangle %v has no area", ErrDegenerateCorners, src)
		}
		aff, ok := affineFromTriangles(dst, src)
		if !ok {
			return nil, fmt.Errorf("%w: canvas triangle %v has no area", ErrDegenerateCorners, dst)
		}
		t.triangles[i] = triangle{vertices: dst, toSource: aff}
	}
	return t, nil
}

// Map returns the source point for canvas point p. ok is false when p lies
// outside the canvas quad.
func (t *PiecewiseAffine) Map(p geometry.Point) (geometry.Point, bool) {
	for _, tri := range t.triangles {
		if contains(tri.vertices, p) {
			return apply(tri.toSource, p), true
		}
	}
	return geometry.Point{}, false
}

// Warp resamples the quad with the given source corners onto a new
// width x height canvas. corners must be in canvas order.
//
// Each canvas pixel (x, y) is mapped into src and bilinearly interpolated.
// Pixels that map outside src read as 0.
//
// Parameters:
//   - src: The raster to sample, with values in [0, 1].
//   - corners: Source quad, mapped to (0,0), (0,H), (W,H) and (W,0).
//   - width, height: Canvas size. Both must be positive.
//
// Returns:
//   - *image.Gray: The canvas, with sampled values scaled to 0-255.
//   - error: Non-nil for an invalid canvas size, or wrapping
//     ErrDegenerateCorners when either triangle of the quad has no area.
func Warp(src Sampler, corners CornerSet, width, height int) (*image.Gray, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}

	tform, err := NewPiecewiseAffine(CanvasCorners(float64(width), float64(height)), corners)
	if err != nil {
		return nil, err
	}

	out := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p, ok := tform.Map(geometry.Pt(float64(x), float64(y)))
			if !ok {
				continue
			}
			v := bilinear(src, p.X, p.Y)
			out.SetGray(x, y, color.Gray{Y: uint8(math.Round(clamp01(v) * 255))})
		}
	}
	return out, nil
}

// bilinear interpolates src at a fractional position.
func bilinear(src Sampler, x, y float64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	fx := x - x0
	fy := y - y0
	ix, iy := int(x0), int(y0)

	v00 := src.Value(ix, iy)
	v10 := src.Value(ix+1, iy)
	v01 := src.Value(ix, iy+1)
	v11 := src.Value(ix+1, iy+1)

	top := v00*(1-fx) + v10*fx
	bottom := v01*(1-fx) + v11*fx
	return top*(1-fy) + bottom*fy
}

// affineFromTriangles solves for the map sending from[i] to to[i].
func affineFromTriangles(from, to [3]geometry.Point) (f64.Aff3, bool) {
	x1, y1 := from[0].X, from[0].Y
	x2, y2 := from[1].X, from[1].Y
	x3, y3 := from[2].X, from[2].Y

	det := x1*(y2-y3) + x2*(y3-y1) + x3*(y1-y2)
	if det == 0 {
		return f64.Aff3{}, false
	}

	solve := func(u1, u2, u3 float64) (a, b, c float64) {
		a = (u1*(y2-y3) + u2*(y3-y1) + u3*(y1-y2)) / det
		b = (u1*(x3-x2) + u2*(x1-x3) + u3*(x2-x1)) / det
		c = (u1*(x2*y3-x3*y2) + u2*(x3*y1-x1*y3) + u3*(x1*y2-x2*y1)) / det
		return a, b, c
	}

	a, b, c := solve(to[0].X, to[1].X, to[2].X)
	d, e, f := solve(to[0].Y, to[1].Y, to[2].Y)
	return f64.Aff3{a, b, c, d, e, f}, true
}

func apply(m f64.Aff3, p geometry.Point) geometry.Point {
	return geometry.Point{
		X: m[0]*p.X + m[1]*p.Y + m[2],
		Y: m[3]*p.X + m[4]*p.Y + m[5],
	}
}

// area2 is twice the signed area of the triangle.
func area2(t [3]geometry.Point) float64 {
	return (t[1].X-t[0].X)*(t[2].Y-t[0].Y) - (t[2].X-t[0].X)*(t[1].Y-t[0].Y)
}

// contains reports whether p lies in the triangle, edges included.
func contains(t [3]geometry.Point, p geometry.Point) bool {
	total := area2(t)
	if total == 0 {
		return false
	}
	l1 := area2([3]geometry.Point{p, t[1], t[2]}) / total
	l2 := area2([3]geometry.Point{t[0], p, t[2]}) / total
	l3 := 1 - l1 - l2
	return l1 >= -barycentricTolerance && l2 >= -barycentricTolerance && l3 >= -barycentricTolerance
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
