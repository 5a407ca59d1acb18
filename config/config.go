// Package config loads the JSON run configuration of the curvegen command.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/paracore/curvegen"
	"github.com/paracore/curvegen/model"
	"github.com/paracore/curvegen/script"
)

// Kernel names accepted in Config.Kernel.
const (
	KernelRuled = "ruled"
	KernelSDFX  = "sdfx"
)

// Config holds everything a run needs.
type Config struct {
	// Database is the SQLite model file. Empty runs against an in-memory
	// model that is discarded on exit.
	Database string `json:"database"`

	// Seed data added before the script runs. Levels and types that
	// already exist in the database are left alone.
	Levels    []Level    `json:"levels"`
	WallTypes []WallType `json:"wall_types"`

	Script   string          `json:"script"`
	Settings json.RawMessage `json:"settings"`

	// Kernel lofts masses, "ruled" or "sdfx".
	Kernel string `json:"kernel"`
	// Cells is the marching cubes resolution of the sdfx kernel.
	Cells int `json:"sdfx_cells"`

	Output Output `json:"output"`
}

// Level is a level to seed. Elevation is in metres.
type Level struct {
	Name      string  `json:"name"`
	Elevation float64 `json:"elevation"`
}

// WallType is a wall type to seed. Width is in metres.
type WallType struct {
	Name   string  `json:"name"`
	Family string  `json:"family"`
	Width  float64 `json:"width"`
}

// Output names the optional files written after a run. Empty paths are
// skipped.
type Output struct {
	STL        string `json:"stl"`
	Plan       string `json:"plan"`
	Preview    string `json:"preview"`
	Mesh       string `json:"mesh"`
	Parameters string `json:"parameters"`
	// ImageSize is the edge length in pixels of preview images.
	ImageSize int `json:"image_size"`
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Database string
	Script   string
	// Settings is inline JSON replacing the settings of the file.
	Settings string
	Kernel   string
	STL      string
	Plan     string
	Preview  string
	Mesh     string
	Params   string
}

// Load reads a JSON config file. Relative paths inside the file are
// resolved against the directory of the file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for _, p := range []*string{
		&cfg.Database,
		&cfg.Output.STL, &cfg.Output.Plan, &cfg.Output.Preview,
		&cfg.Output.Mesh, &cfg.Output.Parameters,
	} {
		if *p != "" && *p != ":memory:" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
	return cfg, nil
}

// Resolve applies flags over the file settings and fills in defaults.
// CLI flags take priority when non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.Database != "" {
		c.Database = flags.Database
	}
	if flags.Script != "" {
		c.Script = flags.Script
	}
	if flags.Settings != "" {
		c.Settings = json.RawMessage(flags.Settings)
	}
	if flags.Kernel != "" {
		c.Kernel = flags.Kernel
	}
	if flags.STL != "" {
		c.Output.STL = flags.STL
	}
	if flags.Plan != "" {
		c.Output.Plan = flags.Plan
	}
	if flags.Preview != "" {
		c.Output.Preview = flags.Preview
	}
	if flags.Mesh != "" {
		c.Output.Mesh = flags.Mesh
	}
	if flags.Params != "" {
		c.Output.Parameters = flags.Params
	}

	if c.Kernel == "" {
		c.Kernel = KernelRuled
	}
	if c.Cells <= 0 {
		c.Cells = 64
	}
	if c.Output.ImageSize <= 0 {
		c.Output.ImageSize = 512
	}
	// A fresh in-memory model gets the levels and types the script
	// defaults refer to.
	if c.Database == "" && len(c.Levels) == 0 {
		c.Levels = DefaultLevels(42, 3.5)
	}
	if c.Database == "" && len(c.WallTypes) == 0 {
		c.WallTypes = []WallType{{Name: "Generic - 200mm", Family: model.BasicWallFamily, Width: 0.2}}
	}
	for i := range c.WallTypes {
		if c.WallTypes[i].Family == "" {
			c.WallTypes[i].Family = model.BasicWallFamily
		}
	}
}

// DefaultLevels returns n levels named "Level 1" to "Level n", spaced
// storey metres apart from elevation zero.
func DefaultLevels(n int, storey float64) []Level {
	levels := make([]Level, n)
	for i := range levels {
		levels[i] = Level{Name: fmt.Sprintf("Level %d", i+1), Elevation: float64(i) * storey}
	}
	return levels
}

// Validate reports the first problem with a resolved config.
func (c *Config) Validate() error {
	if c.Script == "" {
		return fmt.Errorf("config: no script given")
	}
	if _, err := script.Lookup(c.Script); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if len(c.Settings) > 0 && !json.Valid(c.Settings) {
		return fmt.Errorf("config: settings of %s: %w", c.Script, curvegen.Errorf("settings", "not valid JSON"))
	}
	switch c.Kernel {
	case KernelRuled, KernelSDFX:
	default:
		return fmt.Errorf("config: %w", curvegen.Errorf("kernel", "unknown kernel %q", c.Kernel))
	}
	if c.Kernel == KernelSDFX && c.Cells < 8 {
		return fmt.Errorf("config: %w", curvegen.Errorf("sdfx_cells", "%d is below 8", c.Cells))
	}
	seen := make(map[string]bool, len(c.Levels))
	for _, l := range c.Levels {
		if l.Name == "" {
			return fmt.Errorf("config: %w", curvegen.Errorf("levels", "level without name"))
		}
		if seen[l.Name] {
			return fmt.Errorf("config: %w", curvegen.Errorf("levels", "duplicate level %q", l.Name))
		}
		seen[l.Name] = true
	}
	for _, t := range c.WallTypes {
		if t.Name == "" {
			return fmt.Errorf("config: %w", curvegen.Errorf("wall_types", "wall type without name"))
		}
		if !(t.Width > 0) {
			return fmt.Errorf("config: %w", curvegen.Errorf("wall_types", "%q has width %g", t.Name, t.Width))
		}
	}
	return nil
}
