package engine

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/chazu/trisurf/pkg/bezier"
	"github.com/chazu/trisurf/pkg/patchio"
	"github.com/chazu/trisurf/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms scene source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: load-patch -> load_patch
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a bezier.Point.
type sexpVec3 struct {
	vec bezier.Point
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpPatch wraps a bezier.Patch so it can be returned from `patch` and
// consumed by `defpatch`, `elevate` and `rotate`.
type sexpPatch struct {
	patch bezier.Patch
	name  string // set once the patch is added to the scene
}

func (p *sexpPatch) SexpString(ps *zygo.PrintState) string {
	if p.name != "" {
		return fmt.Sprintf("(patch-ref %q)", p.name)
	}
	return fmt.Sprintf("(patch :degree %d)", p.patch.Degree())
}
func (p *sexpPatch) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			// A trailing keyword is a flag with no value.
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts a non-negative integer from a SexpInt.
func toInt(s zygo.Sexp) (int, error) {
	v, ok := s.(*zygo.SexpInt)
	if !ok {
		return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
	}
	if v.Val < 0 {
		return 0, fmt.Errorf("expected non-negative integer, got %d", v.Val)
	}
	return int(v.Val), nil
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a point from a sexpVec3.
func toVec3(s zygo.Sexp) (bezier.Point, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return bezier.Point{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toPatch extracts a patch from a sexpPatch.
func toPatch(s zygo.Sexp) (bezier.Patch, error) {
	if p, ok := s.(*sexpPatch); ok {
		return p.patch, nil
	}
	return bezier.Patch{}, fmt.Errorf("expected patch, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// controlPoints flattens positional arguments into points. Each
// argument is either a vec3 or a list/array of vec3.
func controlPoints(args []zygo.Sexp) ([]bezier.Point, error) {
	var pts []bezier.Point
	for i, a := range args {
		if v, ok := a.(*sexpVec3); ok {
			pts = append(pts, v.vec)
			continue
		}
		items, err := sexpListToSlice(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: expected vec3 or list of vec3", i)
		}
		for j, item := range items {
			v, err := toVec3(item)
			if err != nil {
				return nil, fmt.Errorf("argument %d item %d: %w", i, j, err)
			}
			pts = append(pts, v)
		}
	}
	return pts, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all scene builtins into a zygomys environment.
// The builtins operate on the provided Scene, populating it during
// evaluation. Relative load-patch paths resolve against baseDir.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, s *scene.Scene, baseDir string) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var xyz [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %c: %w", "xyz"[i], err)
			}
			xyz[i] = f
		}
		return &sexpVec3{vec: bezier.Point{X: xyz[0], Y: xyz[1], Z: xyz[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (patch :degree 1 (vec3 0 1 0) (vec3 1 0 0) (vec3 0 0 1))
	//
	// Without :degree the degree follows from the point count.
	// -----------------------------------------------------------------------
	env.AddFunction("patch", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		pts, err := controlPoints(pa.positional)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("patch: %w", err)
		}

		degree, ok := bezier.DegreeForCount(len(pts))
		if v, given := pa.kw["degree"]; given {
			if degree, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("patch: degree: %w", err)
			}
		} else if !ok {
			return zygo.SexpNull, fmt.Errorf("patch: %d control points do not form a triangular patch", len(pts))
		}

		p, err := bezier.NewPatch(degree, pts)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("patch: %w", err)
		}
		return &sexpPatch{patch: p}, nil
	})

	// -----------------------------------------------------------------------
	// (load-patch "octant.bez" :degree 2)
	//
	// Without :degree the scene default applies, which may be
	// patchio.AutoDegree. Registered as "load_patch"; the preprocessor
	// rewrites load-patch.
	// -----------------------------------------------------------------------
	env.AddFunction("load_patch", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("load-patch requires a file name")
		}
		path, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("load-patch: file: %w", err)
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}

		degree := s.Defaults.Degree
		if v, ok := pa.kw["degree"]; ok {
			if degree, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("load-patch: degree: %w", err)
			}
		}
		p, err := patchio.ReadFile(path, degree)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("load-patch: %w", err)
		}
		return &sexpPatch{patch: p}, nil
	})

	// -----------------------------------------------------------------------
	// (elevate p :times 2)
	// -----------------------------------------------------------------------
	env.AddFunction("elevate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("elevate requires one patch argument")
		}
		p, err := toPatch(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("elevate: %w", err)
		}
		times := 1
		if v, ok := pa.kw["times"]; ok {
			if times, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("elevate: times: %w", err)
			}
		}
		return &sexpPatch{patch: p.ElevateTo(p.Degree() + times)}, nil
	})

	// -----------------------------------------------------------------------
	// (rotate p :axis (vec3 0 1 0) :angle 90)
	//
	// The angle is in degrees, counter-clockwise about the axis.
	// -----------------------------------------------------------------------
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("rotate requires one patch argument")
		}
		p, err := toPatch(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		axis := bezier.Point{Z: 1}
		if v, ok := pa.kw["axis"]; ok {
			if axis, err = toVec3(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("rotate: axis: %w", err)
			}
		}
		if axis.Length() == 0 {
			return zygo.SexpNull, fmt.Errorf("rotate: axis must be non-zero")
		}
		var deg float64
		if v, ok := pa.kw["angle"]; ok {
			if deg, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("rotate: angle: %w", err)
			}
		}
		return &sexpPatch{patch: p.Rotate(axis, deg*math.Pi/180)}, nil
	})

	// -----------------------------------------------------------------------
	// (translate p (vec3 0 0 1))
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("translate requires a patch and an offset")
		}
		p, err := toPatch(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		d, err := toVec3(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: offset: %w", err)
		}
		return &sexpPatch{patch: p.Translate(d)}, nil
	})

	// -----------------------------------------------------------------------
	// (defpatch "name" (patch ...))
	// -----------------------------------------------------------------------
	env.AddFunction("defpatch", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("defpatch requires a name and a patch expression")
		}
		patchName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defpatch: name: %w", err)
		}
		p, err := toPatch(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defpatch: %w", err)
		}
		s.Add(patchName, p)
		return &sexpPatch{patch: p, name: patchName}, nil
	})

	// -----------------------------------------------------------------------
	// (patch-ref "name")
	// -----------------------------------------------------------------------
	env.AddFunction("patch_ref", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("patch-ref requires a name argument")
		}
		patchName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("patch-ref: name: %w", err)
		}
		np := s.Lookup(patchName)
		if np == nil {
			return zygo.SexpNull, fmt.Errorf("patch-ref: no patch named %q", patchName)
		}
		return &sexpPatch{patch: np.Patch, name: patchName}, nil
	})

	// -----------------------------------------------------------------------
	// (scene-defaults :rows 16 :degree 3)
	// -----------------------------------------------------------------------
	env.AddFunction("scene_defaults", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if v, ok := pa.kw["rows"]; ok {
			rows, err := toInt(v)
			if err != nil || rows == 0 {
				return zygo.SexpNull, fmt.Errorf("scene-defaults: rows must be a positive integer")
			}
			s.Defaults.Rows = rows
		}
		if v, ok := pa.kw["degree"]; ok {
			degree, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("scene-defaults: degree: %w", err)
			}
			s.Defaults.Degree = degree
		}
		return zygo.SexpNull, nil
	})
}
