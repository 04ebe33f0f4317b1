package tessellate

import (
	"github.com/chazu/trisurf/pkg/bezier"
	"github.com/chazu/trisurf/pkg/mesh"
)

// WireFrameControlMesh returns the edges of p's triangular control net.
// For each pair of adjacent rows it emits the two outer rails, the
// zig-zag from every lower-row point to its upper-row neighbours, and
// the lower row's own edges. A degree-N net yields 3N(N+1)/2 lines.
func WireFrameControlMesh(p bezier.Patch) []mesh.Line {
	n := p.Degree()
	lines := make([]mesh.Line, 0, 3*n*(n+1)/2)
	cp := p.ControlPoints
	for r := 0; r < n; r++ {
		upper := r * (r + 1) / 2
		lower := (r + 1) * (r + 2) / 2

		lines = append(lines,
			mesh.Line{From: cp[lower], To: cp[upper]},
			mesh.Line{From: cp[lower+r+1], To: cp[upper+r]},
		)
		for k := 1; k <= r; k++ {
			lines = append(lines,
				mesh.Line{From: cp[lower+k], To: cp[upper+k-1]},
				mesh.Line{From: cp[lower+k], To: cp[upper+k]},
			)
		}
		for k := 0; k <= r; k++ {
			lines = append(lines, mesh.Line{From: cp[lower+k], To: cp[lower+k+1]})
		}
	}
	return lines
}
