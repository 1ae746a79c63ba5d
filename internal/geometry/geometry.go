package geometry

import "fmt"

// Point is a position in raster space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%.2f,%.2f)", p.X, p.Y)
}

// Line is a segment between two points, used as a proxy for the infinite
// line through them.
type Line struct {
	P1 Point `json:"p1"`
	P2 Point `json:"p2"`
}

// Ln is shorthand for Line{P1: Pt(x1, y1), P2: Pt(x2, y2)}.
func Ln(x1, y1, x2, y2 float64) Line {
	return Line{P1: Pt(x1, y1), P2: Pt(x2, y2)}
}

func (l Line) String() string {
	return fmt.Sprintf("%v-%v", l.P1, l.P2)
}

// Intersect returns the intersection of the infinite lines through a and b.
//
// It uses the determinant form
//
//	px = ((x1*y2 - y1*x2)*(x3-x4) - (x1-x2)*(x3*y4 - y3*x4)) / d
//	py = ((x1*y2 - y1*x2)*(y3-y4) - (y1-y2)*(x3*y4 - y3*x4)) / d
//	d  = (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
//
// ok is false when d is zero, which happens for parallel or coincident lines
// and for lines whose two points are the same.
func Intersect(a, b Line) (p Point, ok bool) {
	x1, y1, x2, y2 := a.P1.X, a.P1.Y, a.P2.X, a.P2.Y
	x3, y3, x4, y4 := b.P1.X, b.P1.Y, b.P2.X, b.P2.Y

	d := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if d == 0 {
		return Point{}, false
	}

	detA := x1*y2 - y1*x2
	detB := x3*y4 - y3*x4
	return Point{
		X: (detA*(x3-x4) - (x1-x2)*detB) / d,
		Y: (detA*(y3-y4) - (y1-y2)*detB) / d,
	}, true
}

// SquaredDistance returns the squared Euclidean distance between p and q.
// It is only used for ranking, so the square root is skipped.
func SquaredDistance(p, q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}
