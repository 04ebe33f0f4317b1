package mesh

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/chazu/trisurf/pkg/logging"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
)

// ErrExists is returned by SaveSTL when the destination already exists.
var ErrExists = errors.New("mesh: destination already exists")

func toSDF(t Triangle) sdf.Triangle3 {
	return sdf.Triangle3{t.Vertices[0].Position, t.Vertices[1].Position, t.Vertices[2].Position}
}

// ToSDFX converts tris to sdfx triangles. Per-vertex normals are
// dropped; STL carries one face normal per triangle.
func ToSDFX(tris []Triangle) []*sdf.Triangle3 {
	out := make([]*sdf.Triangle3, len(tris))
	for i, t := range tris {
		tri := toSDF(t)
		out[i] = &tri
	}
	return out
}

// SaveSTL writes tris to a binary STL file. Like patch files, an
// existing destination is never overwritten.
func SaveSTL(path string, tris []Triangle) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrExists, path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("mesh: stat %s: %w", path, err)
	}
	if err := render.SaveSTL(path, ToSDFX(tris)); err != nil {
		return fmt.Errorf("mesh: save stl %s: %w", path, err)
	}
	logging.Logger().Debug("wrote stl", "path", path, "triangles", len(tris))
	return nil
}
