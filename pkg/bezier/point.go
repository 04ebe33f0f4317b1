package bezier

import v3 "github.com/deadsy/sdfx/vec/v3"

// Point is a position or direction in object space.
type Point = v3.Vec

// UVW is a barycentric parameter. Inside the domain each component is
// non-negative and the components sum to 1; other values extrapolate.
type UVW struct {
	U, V, W float64
}

// Corner parameters of the barycentric domain.
var (
	CornerU = UVW{U: 1}
	CornerV = UVW{V: 1}
	CornerW = UVW{W: 1}
)

// Lerp linearly interpolates between a and b.
func (a UVW) Lerp(b UVW, t float64) UVW {
	return UVW{
		U: a.U*(1-t) + b.U*t,
		V: a.V*(1-t) + b.V*t,
		W: a.W*(1-t) + b.W*t,
	}
}

// Sum returns U+V+W.
func (a UVW) Sum() float64 {
	return a.U + a.V + a.W
}

func lerp(a, b Point, t float64) Point {
	return a.MulScalar(1 - t).Add(b.MulScalar(t))
}

// combine returns a*u + b*v + c*w.
func combine(a, b, c Point, uvw UVW) Point {
	return a.MulScalar(uvw.U).Add(b.MulScalar(uvw.V)).Add(c.MulScalar(uvw.W))
}
