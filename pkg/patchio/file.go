package patchio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/chazu/trisurf/pkg/bezier"
	"github.com/chazu/trisurf/pkg/logging"
)

// ReadFile parses the degree-n patch stored at path. degree may be
// AutoDegree.
func ReadFile(path string, degree int) (bezier.Patch, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return bezier.Patch{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return bezier.Patch{}, fmt.Errorf("patchio: open %s: %w", path, err)
	}
	defer f.Close()

	p, err := Parse(f, degree)
	if err != nil {
		return bezier.Patch{}, fmt.Errorf("%s: %w", path, err)
	}
	logging.Logger().Debug("read patch", "path", path, "degree", p.Degree())
	return p, nil
}

// ReadFileAuto parses the patch stored at path, inferring its degree.
func ReadFileAuto(path string) (bezier.Patch, error) {
	return ReadFile(path, AutoDegree)
}

// WriteFile writes p to a new file at path. It fails with ErrExists
// if path already exists, leaving the existing file untouched.
func WriteFile(path string, p bezier.Patch) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
		return fmt.Errorf("patchio: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("patchio: close %s: %w", path, cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	if err := Format(f, p); err != nil {
		return err
	}
	logging.Logger().Debug("wrote patch", "path", path, "degree", p.Degree())
	return nil
}
