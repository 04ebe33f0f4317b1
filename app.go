package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/trisurf/pkg/config"
	"github.com/chazu/trisurf/pkg/engine"
	"github.com/chazu/trisurf/pkg/logging"
	"github.com/chazu/trisurf/pkg/mesh"
	"github.com/chazu/trisurf/pkg/patchio"
	"github.com/chazu/trisurf/pkg/scene"
	"github.com/chazu/trisurf/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to patches.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the trisurf backend. It turns scene source or patch files into
// render-ready buffers.
type App struct {
	engine *engine.Engine
	cfg    *config.Config
}

// MeshData is the JSON-serializable mesh format sent to a renderer.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// WireframeData holds a patch's control net as line-list and point-list
// buffers.
type WireframeData struct {
	Lines         []float32 `json:"lines"`
	ControlPoints []float32 `json:"controlPoints"`
	PartName      string    `json:"partName"`
}

// EvalErrorData is a JSON-serializable error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of an evaluation. Slices are never nil.
type EvalResult struct {
	Meshes     []MeshData      `json:"meshes"`
	Wireframes []WireframeData `json:"wireframes"`
	Errors     []EvalErrorData `json:"errors"`
	Warnings   []EvalErrorData `json:"warnings"`
}

func newResult() EvalResult {
	return EvalResult{
		Meshes:     []MeshData{},
		Wireframes: []WireframeData{},
		Errors:     []EvalErrorData{},
		Warnings:   []EvalErrorData{},
	}
}

func (r *EvalResult) fail(msg string) EvalResult {
	r.Errors = append(r.Errors, EvalErrorData{Message: msg})
	return *r
}

// NewApp creates a new App with the default configuration.
func NewApp() *App {
	return NewAppWithConfig(config.Default())
}

// NewAppWithConfig creates a new App whose engine and tessellation
// follow cfg.
func NewAppWithConfig(cfg *config.Config) *App {
	eng := engine.NewEngine()
	eng.Timeout = cfg.Engine.Timeout
	eng.BaseDir = cfg.Engine.BaseDir
	eng.Defaults = scene.Defaults{
		Degree: cfg.Patch.Degree,
		Rows:   cfg.Tessellation.Rows,
	}
	return &App{engine: eng, cfg: cfg}
}

// Evaluate takes scene source and returns mesh data + errors.
func (a *App) Evaluate(source string) EvalResult {
	result := newResult()

	// Step 1: Evaluate the source into a scene.
	s, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		logging.Logger().Error("evaluate fatal error", "err", err)
		return result.fail(err.Error())
	}

	// Step 2: Convert eval errors to the result format.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	return a.render(context.Background(), s, result)
}

// LoadPatch reads a single patch file and returns its mesh data. The
// configured patch degree applies; -1 infers it.
func (a *App) LoadPatch(path string) EvalResult {
	result := newResult()
	s, err := a.patchScene(path)
	if err != nil {
		logging.Logger().Error("load patch failed", "path", path, "err", err)
		return result.fail(err.Error())
	}
	return a.render(context.Background(), s, result)
}

// LoadScene evaluates the scene file at path. Relative load-patch paths
// resolve against the file's directory unless a base dir is configured.
func (a *App) LoadScene(path string) (*scene.Scene, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	eng := a.engine
	if a.cfg.Engine.BaseDir == "" {
		eng = engine.NewEngine()
		eng.Timeout = a.engine.Timeout
		eng.Defaults = a.engine.Defaults
		eng.BaseDir = filepath.Dir(path)
	}
	s, evalErrs, err := eng.Evaluate(string(source))
	if err != nil {
		return nil, err
	}
	if len(evalErrs) > 0 {
		msgs := make([]string, len(evalErrs))
		for i, e := range evalErrs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("scene: %s: %s", path, strings.Join(msgs, "; "))
	}
	return s, nil
}

// ExportSTL tessellates every patch of s and writes the triangles to a
// new STL file at path.
func (a *App) ExportSTL(ctx context.Context, s *scene.Scene, path string) (int, error) {
	if res := scene.ValidateAll(s); !res.OK() {
		return 0, fmt.Errorf("scene: %v", res.Errors[0])
	}
	tris, err := tessellate.ShapeParallel(ctx, s.Shape(), s.Defaults.Rows, a.cfg.Tessellation.Workers)
	if err != nil {
		return 0, err
	}
	if err := mesh.SaveSTL(path, tris); err != nil {
		return 0, err
	}
	return len(tris), nil
}

// patchScene wraps the patch file at path in a one-patch scene named
// after the file.
func (a *App) patchScene(path string) (*scene.Scene, error) {
	p, err := patchio.ReadFile(path, a.cfg.Patch.Degree)
	if err != nil {
		return nil, err
	}
	s := scene.New()
	s.Defaults = a.engine.Defaults
	s.Add(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), p)
	return s, nil
}

// render validates s and tessellates its patches into result.
func (a *App) render(ctx context.Context, s *scene.Scene, result EvalResult) EvalResult {
	// Step 3: Validate the scene.
	vr := scene.ValidateAll(s)
	for _, w := range vr.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.Error()})
	}
	if !vr.OK() {
		for _, e := range vr.Errors {
			result.Errors = append(result.Errors, EvalErrorData{Message: e.Error()})
		}
		return result
	}

	// Step 4: Tessellate the patches.
	patches := s.Shape().Patches
	parts, err := tessellate.Patches(ctx, patches, s.Defaults.Rows, a.cfg.Tessellation.Workers)
	if err != nil {
		logging.Logger().Error("tessellate error", "err", err)
		return result.fail("tessellation failed: " + err.Error())
	}

	// Step 5: Convert triangles and control nets to buffers.
	for i, tris := range parts {
		name := s.Patches[i].Name
		if name == "" {
			name = fmt.Sprintf("patch-%d", i)
		}
		m := mesh.FromTriangles(tris, name)
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    colorPalette[i%len(colorPalette)],
		})
		result.Wireframes = append(result.Wireframes, WireframeData{
			Lines:         mesh.LineBuffer(tessellate.WireFrameControlMesh(patches[i])),
			ControlPoints: mesh.ControlPointBuffer(patches[i]),
			PartName:      name,
		})
	}

	return result
}
