package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/trisurf/pkg/config"
	"github.com/chazu/trisurf/pkg/mesh"
)

// TestE2EDomeScene exercises the full pipeline: scene file → engine →
// scene → tessellate → meshes.
func TestE2EDomeScene(t *testing.T) {
	app := NewApp()

	s, err := app.LoadScene("examples/dome.tsl")
	if err != nil {
		t.Fatalf("LoadScene: %v", err)
	}
	if s.PatchCount() != 4 {
		t.Fatalf("expected 4 patches, got %d", s.PatchCount())
	}
	if s.Defaults.Rows != 16 {
		t.Errorf("expected scene rows 16, got %d", s.Defaults.Rows)
	}

	result := app.render(context.Background(), s, newResult())
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("error: %s", e.Message)
		}
		t.FailNow()
	}

	expected := map[string]bool{
		"front-right": false,
		"front-left":  false,
		"back-left":   false,
		"back-right":  false,
	}
	if len(result.Meshes) != len(expected) {
		t.Fatalf("expected %d meshes, got %d", len(expected), len(result.Meshes))
	}
	for _, m := range result.Meshes {
		if _, ok := expected[m.PartName]; !ok {
			t.Errorf("unexpected patch name: %q", m.PartName)
			continue
		}
		expected[m.PartName] = true

		if got := len(m.Indices) / 3; got != 16*16 {
			t.Errorf("patch %q: %d triangles, want 256", m.PartName, got)
		}
		if len(m.Vertices) != len(m.Normals) {
			t.Errorf("patch %q: %d vertex floats but %d normal floats", m.PartName, len(m.Vertices), len(m.Normals))
		}
		if m.Color == "" {
			t.Errorf("patch %q: no color assigned", m.PartName)
		}
	}
	for name, seen := range expected {
		if !seen {
			t.Errorf("missing mesh for patch %q", name)
		}
	}

	// Degree-2 control nets: 9 lines and 6 points each.
	for _, w := range result.Wireframes {
		if len(w.Lines) != 9*6 {
			t.Errorf("wireframe %q: %d line floats, want 54", w.PartName, len(w.Lines))
		}
		if len(w.ControlPoints) != 6*3 {
			t.Errorf("wireframe %q: %d point floats, want 18", w.PartName, len(w.ControlPoints))
		}
	}
}

func TestE2EEvaluateWithBaseDir(t *testing.T) {
	cfg := config.Default()
	cfg.Engine.BaseDir = "examples"
	app := NewAppWithConfig(cfg)

	source, err := os.ReadFile("examples/dome.tsl")
	if err != nil {
		t.Fatalf("failed to read dome.tsl: %v", err)
	}
	result := app.Evaluate(string(source))
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != 4 {
		t.Errorf("expected 4 meshes, got %d", len(result.Meshes))
	}
}

func TestE2ELoadPatch(t *testing.T) {
	app := NewApp()

	result := app.LoadPatch("examples/top_right_front.bez")
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
	m := result.Meshes[0]
	if m.PartName != "top_right_front" {
		t.Errorf("PartName = %q, want top_right_front", m.PartName)
	}
	if got := len(m.Indices) / 3; got != 32*32 {
		t.Errorf("%d triangles, want 1024", got)
	}
}

func TestE2ELoadPatchMissing(t *testing.T) {
	result := NewApp().LoadPatch(filepath.Join(t.TempDir(), "missing.bez"))
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(result.Errors))
	}
	if !strings.Contains(result.Errors[0].Message, "not found") {
		t.Errorf("error %q does not say the file was not found", result.Errors[0].Message)
	}
}

func TestE2EExportSTL(t *testing.T) {
	app := NewApp()
	s, err := app.LoadScene("examples/dome.tsl")
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "dome.stl")
	n, err := app.ExportSTL(context.Background(), s, path)
	if err != nil {
		t.Fatalf("ExportSTL: %v", err)
	}
	if n != 4*16*16 {
		t.Errorf("wrote %d triangles, want %d", n, 4*16*16)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() <= 84 {
		t.Errorf("stl file is %d bytes, expected header plus triangles", info.Size())
	}

	if _, err := app.ExportSTL(context.Background(), s, path); !errors.Is(err, mesh.ErrExists) {
		t.Errorf("second export: error = %v, want ErrExists", err)
	}
}

func TestE2EEmptySource(t *testing.T) {
	result := NewApp().Evaluate("")
	if len(result.Errors) != 0 {
		t.Errorf("expected 0 errors, got %d", len(result.Errors))
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes, got %d", len(result.Meshes))
	}
}

func TestE2ESyntaxError(t *testing.T) {
	result := NewApp().Evaluate("(defpatch \"a\"")
	if len(result.Errors) == 0 {
		t.Fatal("expected at least one error")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on syntax error, got %d", len(result.Meshes))
	}
}
