package bezier

// Shape is an ordered collection of same-degree patches.
type Shape struct {
	Patches []Patch
}

// NewShape returns a shape owning copies of patches.
func NewShape(patches ...Patch) Shape {
	s := Shape{Patches: make([]Patch, len(patches))}
	for i, p := range patches {
		s.Patches[i] = p.Clone()
	}
	return s
}

// NumPatches returns the number of patches in the shape.
func (s Shape) NumPatches() int {
	return len(s.Patches)
}

// Degree returns the degree of the shape's patches, or -1 for an empty
// shape.
func (s Shape) Degree() int {
	if len(s.Patches) == 0 {
		return -1
	}
	return s.Patches[0].Degree()
}

// Center returns the reference point used for distance-based decisions
// by consumers. It is always the origin.
func (s Shape) Center() Point {
	return Point{}
}

// Rotate returns the shape with every patch rotated about axis.
func (s Shape) Rotate(axis Point, angle float64) Shape {
	out := Shape{Patches: make([]Patch, len(s.Patches))}
	for i, p := range s.Patches {
		out.Patches[i] = p.Rotate(axis, angle)
	}
	return out
}

// Elevate returns the shape with every patch elevated by one degree.
func (s Shape) Elevate() Shape {
	out := Shape{Patches: make([]Patch, len(s.Patches))}
	for i, p := range s.Patches {
		out.Patches[i] = p.Elevate()
	}
	return out
}
