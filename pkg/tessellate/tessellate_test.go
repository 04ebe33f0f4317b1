package tessellate_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/chazu/trisurf/pkg/bezier"
	"github.com/chazu/trisurf/pkg/mesh"
	"github.com/chazu/trisurf/pkg/tessellate"
	"github.com/google/go-cmp/cmp"
)

func pt(x, y, z float64) bezier.Point {
	return bezier.Point{X: x, Y: y, Z: z}
}

// flatPatch returns a degree-2 patch spanning an equilateral triangle
// in the z=0 plane.
func flatPatch() bezier.Patch {
	pu, pv, pw := pt(-1, 0, 0), pt(0, math.Sqrt(3), 0), pt(1, 0, 0)
	mid := func(a, b bezier.Point) bezier.Point { return a.Add(b).MulScalar(0.5) }
	return bezier.MustPatch(2,
		pv,
		mid(pu, pv), mid(pv, pw),
		pu, mid(pu, pw), pw,
	)
}

// octantPatch returns the degree-2 approximation of a sphere octant.
func octantPatch() bezier.Patch {
	return bezier.MustPatch(2,
		pt(0, 1, 0),
		pt(1, 1, 0), pt(0, 1, 1),
		pt(1, 0, 0), pt(1, 0, 1), pt(0, 0, 1),
	)
}

func TestTriangleCount(t *testing.T) {
	for _, rows := range []int{1, 2, 16, 32} {
		tris := tessellate.Patch(octantPatch(), rows)
		if len(tris) != rows*rows {
			t.Errorf("rows=%d: got %d triangles, want %d", rows, len(tris), rows*rows)
		}
	}
}

func TestNonPositiveRows(t *testing.T) {
	if tris := tessellate.Patch(octantPatch(), 0); len(tris) != 0 {
		t.Errorf("rows=0 produced %d triangles", len(tris))
	}
	if tris := tessellate.Shape(bezier.NewShape(octantPatch()), -3); len(tris) != 0 {
		t.Errorf("rows=-3 produced %d triangles", len(tris))
	}
}

func TestSingleRowIsWholeDomain(t *testing.T) {
	p := flatPatch()
	tris := tessellate.Patch(p, 1)
	if len(tris) != 1 {
		t.Fatalf("got %d triangles, want 1", len(tris))
	}
	v := tris[0].Vertices
	want := []bezier.Point{p.Corner(bezier.CornerU), p.Corner(bezier.CornerV), p.Corner(bezier.CornerW)}
	got := []bezier.Point{v[0].Position, v[1].Position, v[2].Position}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("single triangle corners (-want +got):\n%s", d)
	}
}

func TestConsistentWinding(t *testing.T) {
	tris := tessellate.Patch(flatPatch(), 8)
	var sign float64
	for i, tri := range tris {
		face := tri.FaceNormal()
		d := face.Dot(tri.Vertices[0].Normal)
		if math.Abs(math.Abs(d)-1) > 1e-9 {
			t.Fatalf("triangle %d: face normal %v not parallel to surface normal %v", i, face, tri.Vertices[0].Normal)
		}
		if i == 0 {
			sign = math.Copysign(1, d)
			continue
		}
		if math.Copysign(1, d) != sign {
			t.Errorf("triangle %d has flipped winding", i)
		}
	}
}

func TestVerticesOnFlatSurface(t *testing.T) {
	for _, tri := range tessellate.Patch(flatPatch(), 16) {
		for _, v := range tri.Vertices {
			if math.Abs(v.Position.Z) > 1e-12 {
				t.Fatalf("vertex %v off the z=0 plane", v.Position)
			}
			if math.Abs(v.Normal.Z-1) > 1e-9 {
				t.Fatalf("normal %v, want +z", v.Normal)
			}
			if v.Position.Y < -1e-12 || v.Position.Y > math.Sqrt(3)+1e-12 {
				t.Fatalf("vertex %v outside the triangle", v.Position)
			}
		}
	}
}

func TestStripSharesEdges(t *testing.T) {
	const rows = 6
	tris := tessellate.Patch(octantPatch(), rows)
	start := 0
	for r := 0; r < rows; r++ {
		n := 2*r + 1
		for i := start + 1; i < start+n; i++ {
			shared := 0
			for _, a := range tris[i-1].Vertices {
				for _, b := range tris[i].Vertices {
					if a == b {
						shared++
					}
				}
			}
			if shared != 2 {
				t.Errorf("row %d: triangles %d and %d share %d vertices, want 2", r, i-1, i, shared)
			}
		}
		start += n
	}
}

func TestShapeConcatenatesInOrder(t *testing.T) {
	a := octantPatch()
	b := a.Rotate(pt(0, 1, 0), math.Pi/2)
	tris := tessellate.Shape(bezier.NewShape(a, b), 4)
	if len(tris) != 32 {
		t.Fatalf("got %d triangles, want 32", len(tris))
	}
	if d := cmp.Diff(tessellate.Patch(a, 4), tris[:16]); d != "" {
		t.Errorf("first patch mismatch:\n%s", d)
	}
	if d := cmp.Diff(tessellate.Patch(b, 4), tris[16:]); d != "" {
		t.Errorf("second patch mismatch:\n%s", d)
	}
}

func TestShapeParallelMatchesShape(t *testing.T) {
	var patches []bezier.Patch
	for i := 0; i < 8; i++ {
		patches = append(patches, octantPatch().Rotate(pt(0, 1, 0), float64(i)*math.Pi/4))
	}
	s := bezier.NewShape(patches...)
	for _, workers := range []int{0, 1, 3} {
		got, err := tessellate.ShapeParallel(context.Background(), s, 8, workers)
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		if d := cmp.Diff(tessellate.Shape(s, 8), got); d != "" {
			t.Errorf("workers=%d: parallel output differs:\n%s", workers, d)
		}
	}
}

func TestPatchesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := tessellate.Patches(ctx, []bezier.Patch{octantPatch()}, 4, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestElevatedPatchTessellatesIdentically(t *testing.T) {
	p := octantPatch()
	a := tessellate.Patch(p, 8)
	b := tessellate.Patch(p.Elevate(), 8)
	for i := range a {
		for j := range a[i].Vertices {
			pa, pb := a[i].Vertices[j].Position, b[i].Vertices[j].Position
			if pa.Sub(pb).Length() > 1e-9 {
				t.Fatalf("triangle %d vertex %d: %v vs %v", i, j, pa, pb)
			}
		}
	}
}

func TestDefaultRows(t *testing.T) {
	m := mesh.FromTriangles(tessellate.Patch(octantPatch(), tessellate.DefaultRows), "octant")
	if m.TriangleCount() != 1024 {
		t.Errorf("TriangleCount() = %d, want 1024", m.TriangleCount())
	}
}
