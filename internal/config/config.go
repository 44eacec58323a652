// Package config holds the converter's directory layout and input
// discovery.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Config holds all configurable paths. The zero value resolves to the
// layout the original tool used: ./input for bundles, ./output for
// everything produced.
type Config struct {
	InputDir  string `json:"input_dir"`
	OutputDir string `json:"output_dir"`

	GeometrySubdir string `json:"geometry_subdir"`
	TextureSubdir  string `json:"texture_subdir"`
	PresetSubdir   string `json:"preset_subdir"`

	InputExt string `json:"input_ext"`
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	InputDir  string
	OutputDir string
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve fills in any empty fields with defaults. CLI flags take priority
// when non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.InputDir != "" {
		c.InputDir = flags.InputDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}

	if c.InputDir == "" {
		c.InputDir = "input"
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	if c.GeometrySubdir == "" {
		c.GeometrySubdir = "CustomGeometry"
	}
	if c.TextureSubdir == "" {
		c.TextureSubdir = "CustomTextures"
	}
	if c.PresetSubdir == "" {
		c.PresetSubdir = "Presets"
	}
	if c.InputExt == "" {
		c.InputExt = ".saber"
	}
}

func (c *Config) GeometryDir() string { return filepath.Join(c.OutputDir, c.GeometrySubdir) }
func (c *Config) TextureDir() string  { return filepath.Join(c.OutputDir, c.TextureSubdir) }
func (c *Config) PresetDir() string   { return filepath.Join(c.OutputDir, c.PresetSubdir) }

// EnsureDirs creates the output skeleton.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.OutputDir, c.GeometryDir(), c.TextureDir(), c.PresetDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("config: create %s: %w", dir, err)
		}
	}
	return nil
}

// FindInput locates the bundle to convert: the lexicographically first file
// in InputDir with the configured extension. Extra candidates are returned
// so the caller can warn about them.
func (c *Config) FindInput() (string, []string, error) {
	entries, err := os.ReadDir(c.InputDir)
	if err != nil {
		return "", nil, fmt.Errorf("config: read %s: %w", c.InputDir, err)
	}

	var candidates []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), c.InputExt) {
			candidates = append(candidates, e.Name())
		}
	}
	if len(candidates) == 0 {
		return "", nil, fmt.Errorf("config: no %s file found in %s", c.InputExt, c.InputDir)
	}
	sort.Strings(candidates)

	return filepath.Join(c.InputDir, candidates[0]), candidates[1:], nil
}
