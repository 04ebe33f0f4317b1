package bezier

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const tol = 1e-9

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

func approx(margin float64) cmp.Option {
	return cmpopts.EquateApprox(0, margin)
}

func pt(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z}
}

// linearPatch returns a degree-n patch whose surface is the flat
// triangle pu, pv, pw with the identity parameterization.
func linearPatch(n int, pu, pv, pw Point) Patch {
	p := ZeroPatch(n)
	if n == 0 {
		p.ControlPoints[0] = pu
		return p
	}
	for o := range p.ControlPoints {
		i, j, k := From1D(n, o)
		p.ControlPoints[o] = combine(pu, pv, pw, UVW{
			U: float64(i) / float64(n),
			V: float64(j) / float64(n),
			W: float64(k) / float64(n),
		})
	}
	return p
}

// bumpPatch returns a curved degree-3 patch.
func bumpPatch() Patch {
	p := linearPatch(3, pt(0, 0, 0), pt(0.5, 1, 0), pt(1, 0, 0))
	for o := range p.ControlPoints {
		i, j, k := From1D(3, o)
		p.ControlPoints[o].Z = float64(i*j*k)*0.75 + float64(j)*0.1 - float64(k*k)*0.05
	}
	return p
}

// baryGrid returns every combination of {0, .25, .5, .75, 1} summing to 1.
func baryGrid() []UVW {
	var out []UVW
	for a := 0; a <= 4; a++ {
		for b := 0; a+b <= 4; b++ {
			c := 4 - a - b
			out = append(out, UVW{U: float64(a) / 4, V: float64(b) / 4, W: float64(c) / 4})
		}
	}
	return out
}

func isFinite(p Point) bool {
	for _, v := range []float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
