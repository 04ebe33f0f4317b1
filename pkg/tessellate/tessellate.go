// Package tessellate turns triangular Bézier patches into triangle
// meshes by sampling the surface on a uniform barycentric grid, and
// builds the wireframe of a patch's control net.
package tessellate

import (
	"context"
	"fmt"

	"github.com/chazu/trisurf/pkg/bezier"
	"github.com/chazu/trisurf/pkg/logging"
	"github.com/chazu/trisurf/pkg/mesh"
	"golang.org/x/sync/errgroup"
)

// DefaultRows is the tessellation density used when none is configured.
const DefaultRows = 32

// edge is the shared edge carried from one strip triangle to the next.
type edge struct {
	first, second mesh.Vertex
}

func vertex(p bezier.Patch, uvw bezier.UVW) mesh.Vertex {
	pos, n := p.Evaluate(uvw)
	return mesh.Vertex{Position: pos, Normal: n}
}

// Patch tessellates p into rows*rows triangles. The domain is cut into
// rows strips parallel to the v=0 edge, counted from the v corner; strip
// r holds 2r+1 triangles alternating between ones that advance along
// the strip's bottom edge and ones that advance along its top edge.
// Every triangle has the same winding. A non-positive row count yields
// no triangles.
func Patch(p bezier.Patch, rows int) []mesh.Triangle {
	if rows <= 0 {
		return nil
	}
	tris := make([]mesh.Triangle, 0, rows*rows)
	step := 1 / float64(rows)

	for layer := 0; layer < rows; layer++ {
		topV := 1 - float64(layer)*step
		botV := 1 - float64(layer+1)*step
		topLeft := bezier.UVW{U: 1 - topV, V: topV}
		topRight := bezier.UVW{V: topV, W: 1 - topV}
		botLeft := bezier.UVW{U: 1 - botV, V: botV}
		botRight := bezier.UVW{V: botV, W: 1 - botV}

		last := edge{vertex(p, botLeft), vertex(p, topLeft)}
		n := 2*layer + 1
		for t := 0; t < n; t++ {
			// t - t/2 counts the triangles so far that advanced along
			// the edge being extended.
			if t%2 == 0 {
				s := float64(t-t/2+1) / float64(layer+1)
				v := vertex(p, botLeft.Lerp(botRight, s))
				tris = append(tris, mesh.Triangle{Vertices: [3]mesh.Vertex{last.first, last.second, v}})
				last = edge{last.second, v}
			} else {
				s := float64(t-t/2) / float64(layer)
				v := vertex(p, topLeft.Lerp(topRight, s))
				tris = append(tris, mesh.Triangle{Vertices: [3]mesh.Vertex{last.first, v, last.second}})
				last = edge{last.second, v}
			}
		}
	}

	logging.Logger().Debug("tessellated patch", "degree", p.Degree(), "rows", rows, "triangles", len(tris))
	return tris
}

// Shape tessellates every patch of s in order and concatenates the
// results.
func Shape(s bezier.Shape, rows int) []mesh.Triangle {
	tris := make([]mesh.Triangle, 0, len(s.Patches)*max(rows, 0)*max(rows, 0))
	for _, p := range s.Patches {
		tris = append(tris, Patch(p, rows)...)
	}
	return tris
}

// Patches tessellates each patch on its own goroutine, at most workers
// at a time (unlimited when workers <= 0). Result i belongs to
// patches[i]. It stops scheduling new patches once ctx is done.
func Patches(ctx context.Context, patches []bezier.Patch, rows, workers int) ([][]mesh.Triangle, error) {
	out := make([][]mesh.Triangle, len(patches))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, p := range patches {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("tessellate: patch %d: %w", i, err)
			}
			out[i] = Patch(p, rows)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ShapeParallel is Shape with patches tessellated concurrently. The
// output is identical to Shape.
func ShapeParallel(ctx context.Context, s bezier.Shape, rows, workers int) ([]mesh.Triangle, error) {
	parts, err := Patches(ctx, s.Patches, rows, workers)
	if err != nil {
		return nil, err
	}
	var tris []mesh.Triangle
	for _, part := range parts {
		tris = append(tris, part...)
	}
	return tris, nil
}
