// Command convert turns one .saber asset bundle into extracted OBJ meshes,
// PNG textures and a ReeSabers preset referencing them.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"saber2reesaber/internal/bundle"
	"saber2reesaber/internal/classify"
	"saber2reesaber/internal/config"
	"saber2reesaber/internal/extract"
	"saber2reesaber/internal/preset"
)

func logf(format string, args ...any) {
	fmt.Printf("[INFO] "+format+"\n", args...)
}

func warnf(format string, args ...any) {
	fmt.Printf("[WARN] "+format+"\n", args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[ERROR] "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	inputDir := flag.String("input", "", "Input directory (default: input)")
	outputDir := flag.String("output", "", "Output directory (default: output)")
	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fatalf("%v", err)
		}
	}
	cfg.Resolve(config.Flags{InputDir: *inputDir, OutputDir: *outputDir})

	if err := cfg.EnsureDirs(); err != nil {
		fatalf("%v", err)
	}

	inputPath, extras, err := cfg.FindInput()
	if err != nil {
		fatalf("No %s file found in %s/ folder. Place your %s file there.",
			cfg.InputExt, cfg.InputDir, cfg.InputExt)
	}
	if len(extras) > 0 {
		warnf("Multiple %s files in %s/, converting %s and ignoring: %s",
			cfg.InputExt, cfg.InputDir, filepath.Base(inputPath), strings.Join(extras, ", "))
	}
	baseName := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	logf("Found %s file: %s", cfg.InputExt, filepath.Base(inputPath))

	logf("Loading AssetBundle...")
	b, err := bundle.Open(inputPath)
	if err != nil {
		fatalf("Failed to load %s file: %v", cfg.InputExt, err)
	}

	meshSrcs, texSrcs, sprSrcs := extract.FromBundle(b.Objects())

	logf("Extracting meshes...")
	meshes := extract.Meshes(meshSrcs, cfg.GeometryDir(), warnf)
	for _, a := range meshes {
		logf("Extracted mesh: %s (%d bytes)", a.Filename, len(a.Payload))
	}

	logf("Extracting textures...")
	textures := extract.Images(texSrcs, cfg.TextureDir(), "texture", warnf)
	for _, a := range textures {
		logf("Extracted texture: %s (%d bytes)", a.Filename, len(a.Payload))
	}

	logf("Extracting sprites (if any)...")
	sprites := extract.Images(sprSrcs, cfg.TextureDir(), "sprite", warnf)
	for _, a := range sprites {
		logf("Extracted sprite: %s (%d bytes)", a.Filename, len(a.Payload))
	}
	// Sprites join the texture pool: same folder, same manifest list.
	textures = append(textures, sprites...)

	logf("Extraction complete:")
	logf("  Meshes: %d", len(meshes))
	logf("  Textures: %d", len(textures))

	if len(meshes) == 0 {
		warnf("No meshes extracted. Preset will be empty.")
	}
	for _, a := range meshes {
		logf("Mesh '%s' looks like a %s part", a.Name, classify.Categorize(a.Name))
	}

	doc := preset.Build(meshes, textures)
	presetPath := filepath.Join(cfg.PresetDir(), baseName+".json")
	if err := preset.Write(presetPath, doc); err != nil {
		fatalf("Failed to write preset: %v", err)
	}
	logf("Preset generated: %s", presetPath)

	logf("Conversion complete!")
	logf("Copy the entire '%s/' folder to: Beat Saber/UserData/ReeSabers/", filepath.Base(cfg.OutputDir))
	logf("Extracted:")
	logf("  - %d mesh(es) -> %s/", len(meshes), cfg.GeometrySubdir)
	logf("  - %d texture(s) -> %s/", len(textures), cfg.TextureSubdir)
	logf("  - 1 preset -> %s/", cfg.PresetSubdir)
	logf("Note: Adjust positions, rotations, scales, and materials in-game as needed.")
}
