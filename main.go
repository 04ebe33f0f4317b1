// Command trisurf tessellates triangular Bézier patches.
//
// Usage:
//
//	trisurf [flags] -patch octant.bez
//	trisurf [flags] -scene octant.tsl -out octant.stl
//
// Without -out it prints a summary of the tessellated mesh.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/chazu/trisurf/pkg/bezier"
	"github.com/chazu/trisurf/pkg/config"
	"github.com/chazu/trisurf/pkg/logging"
	"github.com/chazu/trisurf/pkg/mesh"
	"github.com/chazu/trisurf/pkg/patchio"
	"github.com/chazu/trisurf/pkg/scene"
	"github.com/chazu/trisurf/pkg/tessellate"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "trisurf:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("trisurf", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		cfgPath   = fs.String("config", "", "YAML configuration file")
		patchPath = fs.String("patch", "", "patch file to tessellate")
		scenePath = fs.String("scene", "", "scene file to evaluate")
		degree    = fs.Int("degree", 0, "degree of the patch file, -1 to infer")
		rows      = fs.Int("rows", 0, "tessellation rows per patch")
		workers   = fs.Int("workers", 0, "parallel tessellation workers")
		elevate   = fs.Int("elevate", 0, "raise every patch degree by n")
		out       = fs.String("out", "", "write the mesh to this STL file")
		save      = fs.String("save", "", "write the single resulting patch to this file")
		verbose   = fs.Bool("v", false, "log debug output")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*patchPath == "") == (*scenePath == "") {
		fs.Usage()
		return errors.New("exactly one of -patch or -scene is required")
	}

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			return err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "degree":
			cfg.Patch.Degree = *degree
		case "rows":
			cfg.Tessellation.Rows = *rows
		case "workers":
			cfg.Tessellation.Workers = *workers
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}
	if *elevate < 0 {
		return fmt.Errorf("-elevate must not be negative, got %d", *elevate)
	}

	level, _ := cfg.SlogLevel()
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	logging.SetLogger(logger)
	defer logging.SetLogger(nil)

	app := NewAppWithConfig(cfg)
	var (
		s   *scene.Scene
		err error
	)
	if *patchPath != "" {
		s, err = app.patchScene(*patchPath)
	} else {
		s, err = app.LoadScene(*scenePath)
	}
	if err != nil {
		return err
	}
	if *elevate > 0 {
		for i := range s.Patches {
			p := s.Patches[i].Patch
			s.Patches[i].Patch = p.ElevateTo(p.Degree() + *elevate)
		}
	}

	if *save != "" {
		if s.PatchCount() != 1 {
			return fmt.Errorf("-save needs exactly one patch, scene has %d", s.PatchCount())
		}
		if err := patchio.WriteFile(*save, s.Patches[0].Patch); err != nil {
			return err
		}
		logger.Info("saved patch", "path", *save)
	}

	if *out != "" {
		n, err := app.ExportSTL(ctx, s, *out)
		if err != nil {
			return err
		}
		logger.Info("wrote stl", "path", *out, "triangles", n)
		return nil
	}
	return summarize(ctx, stdout, s, cfg.Tessellation.Workers)
}

// summarize prints patch and mesh statistics for s.
func summarize(ctx context.Context, w io.Writer, s *scene.Scene, workers int) error {
	if res := scene.ValidateAll(s); !res.OK() {
		return fmt.Errorf("scene: %v", res.Errors[0])
	}
	tris, err := tessellate.ShapeParallel(ctx, s.Shape(), s.Defaults.Rows, workers)
	if err != nil {
		return err
	}
	m := mesh.FromTriangles(tris, "")
	fmt.Fprintf(w, "patches:   %d\n", s.PatchCount())
	fmt.Fprintf(w, "degree:    %d\n", s.Shape().Degree())
	fmt.Fprintf(w, "control:   %d points\n", s.PatchCount()*bezier.NumControlPoints(max(s.Shape().Degree(), 0)))
	fmt.Fprintf(w, "triangles: %d\n", m.TriangleCount())
	if !m.IsEmpty() {
		b := m.BoundingBox()
		fmt.Fprintf(w, "bounds:    (%.4f, %.4f, %.4f) - (%.4f, %.4f, %.4f)\n",
			b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
	}
	return nil
}
