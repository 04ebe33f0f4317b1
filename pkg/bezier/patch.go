package bezier

import (
	"errors"
	"fmt"
	"slices"

	"github.com/deadsy/sdfx/sdf"
)

// ErrPointCount is returned when a control point slice does not match
// the patch degree.
var ErrPointCount = errors.New("bezier: control point count does not match degree")

// Patch is a degree-N triangular Bézier patch. ControlPoints has exactly
// NumControlPoints(N) entries in row-major storage order.
type Patch struct {
	degree        int
	ControlPoints []Point
}

// NewPatch returns a degree-n patch over a copy of points.
func NewPatch(degree int, points []Point) (Patch, error) {
	if degree < 0 {
		return Patch{}, fmt.Errorf("bezier: negative degree %d", degree)
	}
	if want := NumControlPoints(degree); len(points) != want {
		return Patch{}, fmt.Errorf("%w: degree %d needs %d, got %d", ErrPointCount, degree, want, len(points))
	}
	return Patch{degree: degree, ControlPoints: slices.Clone(points)}, nil
}

// MustPatch is like NewPatch but panics on error.
func MustPatch(degree int, points ...Point) Patch {
	p, err := NewPatch(degree, points)
	if err != nil {
		panic(err)
	}
	return p
}

// ZeroPatch returns a degree-n patch with every control point at the
// origin.
func ZeroPatch(degree int) Patch {
	return Patch{degree: degree, ControlPoints: make([]Point, NumControlPoints(degree))}
}

// Degree returns the polynomial degree of the patch.
func (p Patch) Degree() int {
	return p.degree
}

// Clone returns a deep copy of p.
func (p Patch) Clone() Patch {
	return Patch{degree: p.degree, ControlPoints: slices.Clone(p.ControlPoints)}
}

// At returns the control point with multi-index (N-j-k, j, k).
func (p Patch) At(j, k int) Point {
	return p.ControlPoints[To1D(p.degree, j, k)]
}

// Corner returns the control point at the domain corner c, which must
// be one of CornerU, CornerV or CornerW.
func (p Patch) Corner(c UVW) Point {
	switch c {
	case CornerV:
		return p.At(p.degree, 0)
	case CornerW:
		return p.At(0, p.degree)
	default:
		return p.At(0, 0)
	}
}

// Subdivide runs De Casteljau reduction at uvw until the patch has the
// target degree. Each level replaces the degree-d net with the degree
// d-1 net
//
//	new(j,k) = old(j,k)*u + old(j+1,k)*v + old(j,k+1)*w
//
// With target 1 the result is the micro-triangle (p010, p100, p001) at
// uvw, in storage order.
func (p Patch) Subdivide(uvw UVW, target int) Patch {
	checkTarget(p.degree, target)
	if target >= p.degree {
		return p.Clone()
	}
	// Rows are rewritten in place in ascending offset order; every read
	// of level d is at an offset >= the offset being written.
	buf := slices.Clone(p.ControlPoints)
	for d := p.degree; d > target; d-- {
		m := d - 1
		o := 0
		for r := 0; r <= m; r++ {
			j := m - r
			for k := 0; k <= r; k++ {
				buf[o] = combine(buf[To1D(d, j, k)], buf[To1D(d, j+1, k)], buf[To1D(d, j, k+1)], uvw)
				o++
			}
		}
	}
	return Patch{degree: target, ControlPoints: buf[:NumControlPoints(target)]}
}

// Evaluate returns the surface point at uvw and its unit normal. The
// normal is the normalized cross product of the micro-triangle edges
// p100-p010 and p001-p010; degenerate nets yield NaN components, which
// are passed through unchanged. A degree-0 patch is a single point with
// the zero normal.
func (p Patch) Evaluate(uvw UVW) (pos, normal Point) {
	if p.degree == 0 {
		return p.ControlPoints[0], Point{}
	}
	tri := p.Subdivide(uvw, 1).ControlPoints
	p010, p100, p001 := tri[0], tri[1], tri[2]

	tangent := p100.Sub(p010).Normalize()
	bitangent := p001.Sub(p010).Normalize()
	normal = tangent.Cross(bitangent).Normalize()
	pos = combine(p100, p010, p001, uvw)
	return pos, normal
}

// Rotate returns the patch rotated rigidly by angle radians about axis
// through the origin (right-hand rule).
func (p Patch) Rotate(axis Point, angle float64) Patch {
	m := sdf.Rotate3d(axis.Normalize(), angle)
	out := ZeroPatch(p.degree)
	for i, cp := range p.ControlPoints {
		out.ControlPoints[i] = m.MulPosition(cp)
	}
	return out
}

// Translate returns the patch moved by d.
func (p Patch) Translate(d Point) Patch {
	out := ZeroPatch(p.degree)
	for i, cp := range p.ControlPoints {
		out.ControlPoints[i] = cp.Add(d)
	}
	return out
}
