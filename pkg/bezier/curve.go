package bezier

import (
	"slices"

	"github.com/deadsy/sdfx/sdf"
)

// Curve is a degree-N Bézier curve with N+1 control points. Points[0]
// and Points[N] are the endpoints.
type Curve struct {
	Points []Point
}

// NewCurve returns a curve through a copy of points.
func NewCurve(points ...Point) Curve {
	return Curve{Points: slices.Clone(points)}
}

// Degree returns the polynomial degree, len(Points)-1.
func (c Curve) Degree() int {
	return len(c.Points) - 1
}

// Subdivide runs De Casteljau reduction at parameter t until the curve
// has the target degree, and returns the reduced control points. With
// target 1 the result is the chord whose interpolation at t is the
// curve point.
func (c Curve) Subdivide(t float64, target int) Curve {
	n := c.Degree()
	checkTarget(n, target)
	buf := slices.Clone(c.Points)
	for d := n; d > target; d-- {
		for i := 0; i < d; i++ {
			buf[i] = lerp(buf[i], buf[i+1], t)
		}
	}
	if target < n {
		buf = buf[:target+1]
	}
	return Curve{Points: buf}
}

// PlaneNormal returns the unit normal of the plane through the first
// three control points.
func (c Curve) PlaneNormal() Point {
	a, b, d := c.Points[0], c.Points[1], c.Points[2]
	return b.Sub(a).Cross(d.Sub(a)).Normalize()
}

// Evaluate returns the curve point at t and the in-plane unit normal
// there, chord direction crossed with the curve's plane normal.
// Straight lines (degree 1) have no plane and get the zero normal.
func (c Curve) Evaluate(t float64) (pos, normal Point) {
	switch len(c.Points) {
	case 0:
		return Point{}, Point{}
	case 1:
		return c.Points[0], Point{}
	}
	chord := c.Subdivide(t, 1)
	pos = lerp(chord.Points[0], chord.Points[1], t)
	if c.Degree() < 2 {
		return pos, Point{}
	}
	dir := chord.Points[1].Sub(chord.Points[0])
	return pos, dir.Cross(c.PlaneNormal()).Normalize()
}

// Rotate returns the curve rotated by angle radians about axis through
// the origin.
func (c Curve) Rotate(axis Point, angle float64) Curve {
	m := sdf.Rotate3d(axis.Normalize(), angle)
	out := make([]Point, len(c.Points))
	for i, p := range c.Points {
		out[i] = m.MulPosition(p)
	}
	return Curve{Points: out}
}
