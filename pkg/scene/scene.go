// Package scene holds the named patches produced by evaluating a scene
// description.
package scene

import (
	"fmt"

	"github.com/chazu/trisurf/pkg/bezier"
)

// DefaultDegree is the patch degree assumed when none is given.
const DefaultDegree = 2

// DefaultRows is the tessellation density used when none is given.
const DefaultRows = 32

// Defaults contains scene-wide settings.
type Defaults struct {
	Degree int `json:"degree"`
	Rows   int `json:"rows"`
}

// NamedPatch is a patch with an optional user-assigned name.
type NamedPatch struct {
	Name  string       `json:"name,omitempty"`
	Patch bezier.Patch `json:"patch"`
}

// Scene is the top-level structure produced by evaluation. Each
// evaluation produces a new scene; patch order is insertion order.
type Scene struct {
	Patches   []NamedPatch   `json:"patches"`
	NameIndex map[string]int `json:"name_index"`
	Defaults  Defaults       `json:"defaults"`
	Version   uint64         `json:"version"`
}

// New creates an empty scene with default settings.
func New() *Scene {
	return &Scene{
		NameIndex: make(map[string]int),
		Defaults: Defaults{
			Degree: DefaultDegree,
			Rows:   DefaultRows,
		},
	}
}

// Add appends a patch to the scene. It does not check for duplicate
// names; a later patch shadows an earlier one in Lookup.
func (s *Scene) Add(name string, p bezier.Patch) {
	s.Patches = append(s.Patches, NamedPatch{Name: name, Patch: p})
	if name != "" {
		s.NameIndex[name] = len(s.Patches) - 1
	}
}

// Lookup returns the patch with the given name, or nil.
func (s *Scene) Lookup(name string) *NamedPatch {
	i, ok := s.NameIndex[name]
	if !ok {
		return nil
	}
	return &s.Patches[i]
}

// MustLookup returns the patch with the given name, or panics.
func (s *Scene) MustLookup(name string) *NamedPatch {
	p := s.Lookup(name)
	if p == nil {
		panic(fmt.Sprintf("scene: no patch named %q", name))
	}
	return p
}

// PatchCount returns the number of patches in the scene.
func (s *Scene) PatchCount() int {
	return len(s.Patches)
}

// Shape returns every patch of the scene as one shape.
func (s *Scene) Shape() bezier.Shape {
	patches := make([]bezier.Patch, len(s.Patches))
	for i, np := range s.Patches {
		patches[i] = np.Patch
	}
	return bezier.NewShape(patches...)
}
