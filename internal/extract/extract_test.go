package extract

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hilt_Base", "Hilt_Base"},
		{"  Blade Glow  ", "Blade Glow"},
		{"saber-v2", "saber-v2"},
		{"bad/slash\\name", "badslashname"},
		{"Ünïcode", "ncode"},
		{"###", "fallback"},
		{"", "fallback"},
		{"   ", "fallback"},
	}
	for _, tc := range cases {
		if got := SanitizeName(tc.in, "fallback"); got != tc.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeNameOnlyAllowedRunes(t *testing.T) {
	inputs := []string{"a!b@c#d$e", "x\ny\tz", "普通话 name", "()[]{}"}
	for _, in := range inputs {
		out := SanitizeName(in, "fb")
		for _, c := range out {
			ok := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
				c >= '0' && c <= '9' || c == ' ' || c == '-' || c == '_'
			if !ok {
				t.Errorf("SanitizeName(%q) produced disallowed rune %q in %q", in, c, out)
			}
		}
	}
}

func TestSanitizeNameIdempotent(t *testing.T) {
	inputs := []string{"Hilt_Base", "  a b  ", "###", "x!y"}
	for _, in := range inputs {
		once := SanitizeName(in, "fb")
		twice := SanitizeName(once, "fb")
		if once != twice {
			t.Errorf("SanitizeName not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

type fakeMesh struct {
	name    string
	pathID  int64
	payload []byte
	err     error
}

func (f fakeMesh) Name() string               { return f.name }
func (f fakeMesh) PathID() int64              { return f.pathID }
func (f fakeMesh) ExportOBJ() ([]byte, error) { return f.payload, f.err }

type fakeImage struct {
	name   string
	pathID int64
	img    image.Image
	err    error
}

func (f fakeImage) Name() string                { return f.name }
func (f fakeImage) PathID() int64               { return f.pathID }
func (f fakeImage) Image() (image.Image, error) { return f.img, f.err }

func collectWarnings(t *testing.T) (WarnFunc, *[]string) {
	t.Helper()
	var warnings []string
	return func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}, &warnings
}

func TestMeshes(t *testing.T) {
	dir := t.TempDir()
	warn, warnings := collectWarnings(t)

	srcs := []MeshSource{
		fakeMesh{name: "Hilt_Base", pathID: 1, payload: []byte("v 0 0 0\n")},
		fakeMesh{name: "broken", pathID: 2, err: errors.New("corrupt")},
		fakeMesh{name: "empty", pathID: 3, payload: nil},
		fakeMesh{name: "###", pathID: 42, payload: []byte("v 1 1 1\n")},
	}
	assets := Meshes(srcs, dir, warn)

	if len(assets) != 2 {
		t.Fatalf("got %d assets, want 2", len(assets))
	}
	if assets[0].Filename != "Hilt_Base.obj" {
		t.Errorf("first asset filename = %q, want Hilt_Base.obj", assets[0].Filename)
	}
	// All-invalid name falls back to the synthesized path-ID name.
	if assets[1].Filename != "mesh_42.obj" {
		t.Errorf("second asset filename = %q, want mesh_42.obj", assets[1].Filename)
	}
	if assets[1].OriginalName != "###" {
		t.Errorf("original name = %q, want ###", assets[1].OriginalName)
	}

	for _, a := range assets {
		data, err := os.ReadFile(filepath.Join(dir, a.Filename))
		if err != nil {
			t.Fatalf("asset %s not on disk: %v", a.Filename, err)
		}
		if string(data) != string(a.Payload) {
			t.Errorf("on-disk bytes differ from payload for %s", a.Filename)
		}
	}

	if len(*warnings) != 2 {
		t.Fatalf("got %d warnings, want 2: %v", len(*warnings), *warnings)
	}
	if !strings.Contains((*warnings)[0], "broken") {
		t.Errorf("first warning %q should mention the failing mesh", (*warnings)[0])
	}
	if !strings.Contains((*warnings)[1], "Empty mesh export") {
		t.Errorf("second warning %q should mention the empty export", (*warnings)[1])
	}
}

func TestMeshesUnnamedFallback(t *testing.T) {
	dir := t.TempDir()
	warn, _ := collectWarnings(t)

	assets := Meshes([]MeshSource{
		fakeMesh{name: "", pathID: 7, payload: []byte("v 0 0 0\n")},
	}, dir, warn)

	if len(assets) != 1 || assets[0].Filename != "mesh_7.obj" {
		t.Fatalf("got %+v, want one asset named mesh_7.obj", assets)
	}
}

func TestImages(t *testing.T) {
	dir := t.TempDir()
	warn, warnings := collectWarnings(t)

	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	srcs := []ImageSource{
		fakeImage{name: "Blade_Glow", pathID: 1, img: img},
		fakeImage{name: "bad", pathID: 2, err: errors.New("unsupported format")},
		fakeImage{name: "", pathID: 9, img: img},
	}
	assets := Images(srcs, dir, "texture", warn)

	if len(assets) != 2 {
		t.Fatalf("got %d assets, want 2", len(assets))
	}
	if assets[0].Filename != "Blade_Glow.png" {
		t.Errorf("filename = %q, want Blade_Glow.png", assets[0].Filename)
	}
	if assets[1].Filename != "texture_9.png" {
		t.Errorf("filename = %q, want texture_9.png", assets[1].Filename)
	}
	if len(assets[0].Payload) == 0 {
		t.Error("PNG payload is empty")
	}
	if _, err := os.Stat(filepath.Join(dir, "Blade_Glow.png")); err != nil {
		t.Errorf("PNG not written: %v", err)
	}
	if len(*warnings) != 1 || !strings.Contains((*warnings)[0], "bad") {
		t.Errorf("warnings = %v, want one mentioning 'bad'", *warnings)
	}
}

func TestImagesSpriteFallbackName(t *testing.T) {
	dir := t.TempDir()
	warn, _ := collectWarnings(t)

	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	assets := Images([]ImageSource{fakeImage{pathID: 3, img: img}}, dir, "sprite", warn)
	if len(assets) != 1 || assets[0].Filename != "sprite_3.png" {
		t.Fatalf("got %+v, want one asset named sprite_3.png", assets)
	}
}

func TestMeshesDuplicateNamesOverwrite(t *testing.T) {
	dir := t.TempDir()
	warn, _ := collectWarnings(t)

	assets := Meshes([]MeshSource{
		fakeMesh{name: "Blade", pathID: 1, payload: []byte("first")},
		fakeMesh{name: "Blade", pathID: 2, payload: []byte("second")},
	}, dir, warn)

	// Both records survive; the last write wins on disk.
	if len(assets) != 2 {
		t.Fatalf("got %d assets, want 2", len(assets))
	}
	data, err := os.ReadFile(filepath.Join(dir, "Blade.obj"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Errorf("on-disk contents = %q, want %q", data, "second")
	}
}
