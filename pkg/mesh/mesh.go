// Package mesh defines the render-facing output of the tessellator:
// vertices with normals, triangles, control-net lines, and flat buffers
// ready for upload.
package mesh

import (
	"math"

	"github.com/chazu/trisurf/pkg/bezier"
	"github.com/deadsy/sdfx/sdf"
)

// Vertex is a surface sample: position and unit normal.
type Vertex struct {
	Position bezier.Point `json:"position"`
	Normal   bezier.Point `json:"normal"`
}

// Triangle is three vertices in front-face winding order.
type Triangle struct {
	Vertices [3]Vertex `json:"vertices"`
}

// FaceNormal returns the unit normal implied by the winding order.
func (t Triangle) FaceNormal() bezier.Point {
	tri := toSDF(t)
	return tri.Normal()
}

// Line is a wireframe edge.
type Line struct {
	From bezier.Point `json:"from"`
	To   bezier.Point `json:"to"`
}

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // which scene patch this came from
}

// FromTriangles flattens tris into a Mesh. Vertices are not shared
// between triangles; each triangle contributes three vertices carrying
// the evaluator's per-vertex normals.
func FromTriangles(tris []Triangle, name string) *Mesh {
	numVerts := len(tris) * 3
	m := &Mesh{
		Vertices: make([]float32, 0, numVerts*3),
		Normals:  make([]float32, 0, numVerts*3),
		Indices:  make([]uint32, 0, numVerts),
		PartName: name,
	}
	for i, tri := range tris {
		for j, v := range tri.Vertices {
			m.Vertices = appendPoint(m.Vertices, v.Position)
			m.Normals = appendPoint(m.Normals, v.Normal)
			m.Indices = append(m.Indices, uint32(i*3+j))
		}
	}
	return m
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// BoundingBox returns the axis-aligned bounds of the mesh vertices.
// An empty mesh has a zero box.
func (m *Mesh) BoundingBox() sdf.Box3 {
	if m.IsEmpty() {
		return sdf.Box3{}
	}
	lo := bezier.Point{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := bezier.Point{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		p := bezier.Point{X: float64(m.Vertices[i]), Y: float64(m.Vertices[i+1]), Z: float64(m.Vertices[i+2])}
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return sdf.Box3{Min: lo, Max: hi}
}

// ControlPointBuffer flattens the patch control points for upload as
// point-list data, in storage order.
func ControlPointBuffer(p bezier.Patch) []float32 {
	buf := make([]float32, 0, len(p.ControlPoints)*3)
	for _, cp := range p.ControlPoints {
		buf = appendPoint(buf, cp)
	}
	return buf
}

// LineBuffer flattens lines for upload as line-list data: six floats
// per line.
func LineBuffer(lines []Line) []float32 {
	buf := make([]float32, 0, len(lines)*6)
	for _, l := range lines {
		buf = appendPoint(buf, l.From)
		buf = appendPoint(buf, l.To)
	}
	return buf
}

func appendPoint(buf []float32, p bezier.Point) []float32 {
	return append(buf, float32(p.X), float32(p.Y), float32(p.Z))
}
