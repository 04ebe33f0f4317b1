package scene

import (
	"fmt"
	"math"

	"github.com/chazu/trisurf/pkg/bezier"
)

// degenerateArea is the corner triangle area below which a patch is
// reported as degenerate.
const degenerateArea = 1e-12

// Severity indicates whether a validation finding blocks tessellation
// or is merely informational.
type Severity int

const (
	SeverityError   Severity = iota // blocks tessellation
	SeverityWarning                 // informational
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Patch    int // index into Scene.Patches, -1 if scene-level
	Name     string
	Message  string
	Severity Severity
}

func (e ValidationError) Error() string {
	switch {
	case e.Patch < 0:
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	case e.Name != "":
		return fmt.Sprintf("[%s] patch %q: %s", e.Severity, e.Name, e.Message)
	default:
		return fmt.Sprintf("[%s] patch %d: %s", e.Severity, e.Patch, e.Message)
	}
}

// ValidationResult separates blocking findings from advisory ones.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether no blocking findings were produced.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate checks the scene and returns every finding. It never
// mutates the scene.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateEmpty(s)...)
	errs = append(errs, validateDegrees(s)...)
	errs = append(errs, validateNames(s)...)
	errs = append(errs, validatePoints(s)...)
	errs = append(errs, validateCorners(s)...)
	return errs
}

// ValidateAll runs Validate and splits the findings by severity.
func ValidateAll(s *Scene) ValidationResult {
	var result ValidationResult
	for _, e := range Validate(s) {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, e)
		} else {
			result.Errors = append(result.Errors, e)
		}
	}
	return result
}

func validateEmpty(s *Scene) []ValidationError {
	if len(s.Patches) > 0 {
		return nil
	}
	return []ValidationError{{
		Patch:    -1,
		Message:  "scene contains no patches",
		Severity: SeverityWarning,
	}}
}

// validateDegrees requires every patch to share the degree of the first,
// since a shape holds same-degree patches.
func validateDegrees(s *Scene) []ValidationError {
	if len(s.Patches) == 0 {
		return nil
	}
	var errs []ValidationError
	want := s.Patches[0].Patch.Degree()
	for i, np := range s.Patches[1:] {
		if d := np.Patch.Degree(); d != want {
			errs = append(errs, ValidationError{
				Patch:    i + 1,
				Name:     np.Name,
				Message:  fmt.Sprintf("degree %d differs from scene degree %d", d, want),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

func validateNames(s *Scene) []ValidationError {
	var errs []ValidationError
	first := make(map[string]int)
	for i, np := range s.Patches {
		if np.Name == "" {
			continue
		}
		if j, dup := first[np.Name]; dup {
			errs = append(errs, ValidationError{
				Patch:    i,
				Name:     np.Name,
				Message:  fmt.Sprintf("duplicate name, first used by patch %d", j),
				Severity: SeverityError,
			})
			continue
		}
		first[np.Name] = i
	}
	return errs
}

func validatePoints(s *Scene) []ValidationError {
	var errs []ValidationError
	for i, np := range s.Patches {
		for o, c := range np.Patch.ControlPoints {
			if !finite(c) {
				errs = append(errs, ValidationError{
					Patch:    i,
					Name:     np.Name,
					Message:  fmt.Sprintf("control point %d is not finite: %v", o, c),
					Severity: SeverityError,
				})
				break
			}
		}
	}
	return errs
}

// validateCorners warns about patches whose corner triangle has no
// area. Such patches still tessellate but produce NaN normals.
func validateCorners(s *Scene) []ValidationError {
	var errs []ValidationError
	for i, np := range s.Patches {
		p := np.Patch
		if p.Degree() == 0 {
			continue
		}
		a := p.Corner(bezier.CornerU)
		b := p.Corner(bezier.CornerV)
		c := p.Corner(bezier.CornerW)
		if area := b.Sub(a).Cross(c.Sub(a)).Length() / 2; area < degenerateArea {
			errs = append(errs, ValidationError{
				Patch:    i,
				Name:     np.Name,
				Message:  "corners are collinear or coincident",
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

func finite(p bezier.Point) bool {
	for _, v := range []float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
