package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{})

	if cfg.InputDir != "input" || cfg.OutputDir != "output" {
		t.Errorf("dirs = %q/%q, want input/output", cfg.InputDir, cfg.OutputDir)
	}
	if cfg.GeometrySubdir != "CustomGeometry" || cfg.TextureSubdir != "CustomTextures" || cfg.PresetSubdir != "Presets" {
		t.Errorf("subdirs = %q/%q/%q", cfg.GeometrySubdir, cfg.TextureSubdir, cfg.PresetSubdir)
	}
	if cfg.InputExt != ".saber" {
		t.Errorf("input ext = %q, want .saber", cfg.InputExt)
	}
	if cfg.GeometryDir() != filepath.Join("output", "CustomGeometry") {
		t.Errorf("geometry dir = %q", cfg.GeometryDir())
	}
}

func TestResolveFlagsOverride(t *testing.T) {
	cfg := Config{InputDir: "from-file"}
	cfg.Resolve(Flags{InputDir: "from-flag", OutputDir: "out-flag"})

	if cfg.InputDir != "from-flag" || cfg.OutputDir != "out-flag" {
		t.Errorf("dirs = %q/%q, flags should win", cfg.InputDir, cfg.OutputDir)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"input_dir": "bundles", "input_ext": ".bundle"}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Resolve(Flags{})
	if cfg.InputDir != "bundles" || cfg.InputExt != ".bundle" {
		t.Errorf("loaded config = %+v", cfg)
	}
	if cfg.OutputDir != "output" {
		t.Errorf("unset fields should get defaults, output = %q", cfg.OutputDir)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestEnsureDirs(t *testing.T) {
	cfg := Config{OutputDir: filepath.Join(t.TempDir(), "out")}
	cfg.Resolve(Flags{})

	if err := cfg.EnsureDirs(); err != nil {
		t.Fatal(err)
	}
	for _, dir := range []string{cfg.GeometryDir(), cfg.TextureDir(), cfg.PresetDir()} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("%s not created: %v", dir, err)
		}
	}
}

func TestFindInput(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"zeta.saber", "alpha.saber", "readme.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := Config{InputDir: dir}
	cfg.Resolve(Flags{})

	path, extras, err := cfg.FindInput()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "alpha.saber" {
		t.Errorf("picked %q, want the lexicographically first candidate", path)
	}
	if len(extras) != 1 || extras[0] != "zeta.saber" {
		t.Errorf("extras = %v, want [zeta.saber]", extras)
	}
}

func TestFindInputNone(t *testing.T) {
	cfg := Config{InputDir: t.TempDir()}
	cfg.Resolve(Flags{})

	if _, _, err := cfg.FindInput(); err == nil {
		t.Error("expected error when no input file exists")
	}
}
