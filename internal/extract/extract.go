// Package extract pulls meshes and images out of a loaded bundle, writes
// them to disk and records what was written.
package extract

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// Asset is one successfully exported artifact.
type Asset struct {
	Name         string // sanitized, unique per folder by overwrite-last-wins
	Filename     string // Name plus the kind's extension
	Payload      []byte // exact bytes written to disk
	OriginalName string // name as serialized, before sanitization
}

// WarnFunc receives per-item warnings; the pipeline owns the output format.
type WarnFunc func(format string, args ...any)

// MeshSource is a decodable mesh object.
type MeshSource interface {
	Name() string
	PathID() int64
	ExportOBJ() ([]byte, error)
}

// ImageSource is a decodable texture or sprite object.
type ImageSource interface {
	Name() string
	PathID() int64
	Image() (image.Image, error)
}

// SanitizeName keeps alphanumerics, spaces, hyphens and underscores and
// trims surrounding whitespace. An empty result falls back to fallback.
func SanitizeName(name, fallback string) string {
	var b strings.Builder
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteRune(c)
		case c == ' ', c == '-', c == '_':
			b.WriteRune(c)
		}
	}
	clean := strings.TrimSpace(b.String())
	if clean == "" {
		return fallback
	}
	return clean
}

// Meshes exports every source as OBJ into dir. Failing or empty exports are
// warned about and skipped; the returned assets keep encounter order.
func Meshes(srcs []MeshSource, dir string, warn WarnFunc) []Asset {
	var out []Asset
	for _, src := range srcs {
		name := resolveName(src.Name(), "mesh", src.PathID())
		payload, err := src.ExportOBJ()
		if err != nil {
			warn("Failed to export mesh '%s': %v", name, err)
			continue
		}
		if len(payload) == 0 {
			warn("Empty mesh export for: %s", name)
			continue
		}
		asset, err := write(dir, name, ".obj", payload, src.Name())
		if err != nil {
			warn("Failed to export mesh '%s': %v", name, err)
			continue
		}
		out = append(out, asset)
	}
	return out
}

// Images exports every source as PNG into dir. kind ("texture" or "sprite")
// only affects the fallback name for unnamed objects; both kinds share the
// same destination pool.
func Images(srcs []ImageSource, dir, kind string, warn WarnFunc) []Asset {
	var out []Asset
	for _, src := range srcs {
		name := resolveName(src.Name(), kind, src.PathID())
		img, err := src.Image()
		if err != nil {
			warn("Failed to export %s '%s': %v", kind, name, err)
			continue
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			warn("Failed to export %s '%s': %v", kind, name, err)
			continue
		}
		asset, err := write(dir, name, ".png", buf.Bytes(), src.Name())
		if err != nil {
			warn("Failed to export %s '%s': %v", kind, name, err)
			continue
		}
		out = append(out, asset)
	}
	return out
}

func resolveName(name, kind string, pathID int64) string {
	fallback := fmt.Sprintf("%s_%d", kind, pathID)
	if name == "" {
		return fallback
	}
	return SanitizeName(name, fallback)
}

func write(dir, name, ext string, payload []byte, original string) (Asset, error) {
	filename := name + ext
	if err := os.WriteFile(filepath.Join(dir, filename), payload, 0644); err != nil {
		return Asset{}, err
	}
	return Asset{
		Name:         name,
		Filename:     filename,
		Payload:      payload,
		OriginalName: original,
	}, nil
}
