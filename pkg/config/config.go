// Package config loads trisurf settings from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration file.
type Config struct {
	Tessellation Tessellation `yaml:"tessellation"`
	Patch        Patch        `yaml:"patch"`
	Engine       Engine       `yaml:"engine"`
	Log          Log          `yaml:"log"`
}

// Tessellation controls mesh density and parallelism.
type Tessellation struct {
	Rows    int `yaml:"rows"`
	Workers int `yaml:"workers"` // 0 means one per CPU
}

// Patch holds the degree assumed for patch files. -1 infers the
// degree from the point count.
type Patch struct {
	Degree int `yaml:"degree"`
}

// Engine configures scene evaluation.
type Engine struct {
	Timeout time.Duration `yaml:"timeout"`
	BaseDir string        `yaml:"base_dir"`
}

// Log configures the process logger.
type Log struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Tessellation: Tessellation{Rows: 32},
		Patch:        Patch{Degree: 2},
		Engine:       Engine{Timeout: 5 * time.Second},
		Log:          Log{Level: "info"},
	}
}

// Load reads the YAML file at path over the defaults and validates the
// result. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	cfg, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML from r over the defaults and validates the result.
func Decode(r io.Reader) (*Config, error) {
	cfg, err := decode(r)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func decode(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Tessellation.Rows <= 0:
		return fmt.Errorf("tessellation.rows must be positive, got %d", c.Tessellation.Rows)
	case c.Tessellation.Workers < 0:
		return fmt.Errorf("tessellation.workers must not be negative, got %d", c.Tessellation.Workers)
	case c.Patch.Degree < -1:
		return fmt.Errorf("patch.degree must be -1 or greater, got %d", c.Patch.Degree)
	case c.Engine.Timeout <= 0:
		return fmt.Errorf("engine.timeout must be positive, got %s", c.Engine.Timeout)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps Log.Level to a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(c.Log.Level))); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}
