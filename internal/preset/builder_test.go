package preset

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"saber2reesaber/internal/extract"
)

func asset(name, ext string, payload []byte) extract.Asset {
	return extract.Asset{
		Name:         name,
		Filename:     name + ext,
		Payload:      payload,
		OriginalName: name,
	}
}

func TestBuildModuleCountInvariant(t *testing.T) {
	tex := []extract.Asset{asset("t", ".png", []byte{1})}
	cases := []struct {
		meshes   int
		textures []extract.Asset
	}{
		{0, nil},
		{0, tex},
		{1, nil},
		{3, tex},
	}
	for _, tc := range cases {
		var meshes []extract.Asset
		for i := 0; i < tc.meshes; i++ {
			meshes = append(meshes, asset("m", ".obj", []byte{byte(i)}))
		}
		p := Build(meshes, tc.textures)
		if got, want := len(p.Modules), 1+tc.meshes; got != want {
			t.Errorf("meshes=%d textures=%d: %d modules, want %d",
				tc.meshes, len(tc.textures), got, want)
		}
	}
}

func TestBuildTwoAssets(t *testing.T) {
	meshes := []extract.Asset{asset("Hilt_Base", ".obj", []byte("v 0 0 0\n"))}
	textures := []extract.Asset{asset("Blade_Glow", ".png", []byte{0x89, 0x50, 0x4e, 0x47})}

	p := Build(meshes, textures)

	if p.ModVersion != "0.3.17" || p.Version != 1 || p.RootSettings.Type != 0 {
		t.Errorf("root metadata = %q/%d/%d", p.ModVersion, p.Version, p.RootSettings.Type)
	}
	if p.LocalTransform.Scale != (Vec3{X: 1, Y: 1, Z: 1}) {
		t.Errorf("root transform scale = %+v, want unit", p.LocalTransform.Scale)
	}

	if len(p.Modules) != 2 {
		t.Fatalf("got %d modules, want 2", len(p.Modules))
	}

	trail, ok := p.Modules[0].Config.(TrailConfig)
	if !ok {
		t.Fatalf("first module config is %T, want TrailConfig", p.Modules[0].Config)
	}
	if p.Modules[0].ModuleID != TrailModuleID {
		t.Errorf("first module id = %q", p.Modules[0].ModuleID)
	}
	gs := trail.MaterialSettings.GeneralSettings
	if gs.CustomTextureID != "Blade_Glow.png" || gs.OpacityTextureID != "Blade_Glow.png" {
		t.Errorf("trail texture ids = %q/%q, want Blade_Glow.png for both",
			gs.CustomTextureID, gs.OpacityTextureID)
	}

	model, ok := p.Modules[1].Config.(CustomModelConfig)
	if !ok {
		t.Fatalf("second module config is %T, want CustomModelConfig", p.Modules[1].Config)
	}
	if p.Modules[1].ModuleID != CustomModelModuleID {
		t.Errorf("second module id = %q", p.Modules[1].ModuleID)
	}
	if model.MeshSettings.ModelID != "Hilt_Base.obj" {
		t.Errorf("modelId = %q, want Hilt_Base.obj", model.MeshSettings.ModelID)
	}

	if len(p.BinaryAssets.Geometry) != 1 || len(p.BinaryAssets.Textures) != 1 {
		t.Fatalf("manifest sizes = %d/%d, want 1/1",
			len(p.BinaryAssets.Geometry), len(p.BinaryAssets.Textures))
	}
}

func TestBuildEmptyBundle(t *testing.T) {
	p := Build(nil, nil)

	if len(p.Modules) != 1 {
		t.Fatalf("got %d modules, want just the trail", len(p.Modules))
	}
	trail := p.Modules[0].Config.(TrailConfig)
	gs := trail.MaterialSettings.GeneralSettings
	if gs.CustomTextureID != "" || gs.OpacityTextureID != "" {
		t.Errorf("texture ids = %q/%q, want empty strings", gs.CustomTextureID, gs.OpacityTextureID)
	}
	if len(p.BinaryAssets.Geometry) != 0 || len(p.BinaryAssets.Textures) != 0 {
		t.Error("manifest should be empty")
	}

	// Empty lists must serialize as [], not null.
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"Textures": []`, `"Geometry": []`, `"Children": []`} {
		if !strings.Contains(strings.ReplaceAll(string(data), `":[`, `": [`), want) {
			t.Errorf("marshaled preset missing %s", want)
		}
	}
}

func TestBuildManifestRoundTrip(t *testing.T) {
	meshes := []extract.Asset{
		asset("a", ".obj", []byte("v 0 0 0\nv 1 1 1\n")),
		asset("b", ".obj", make([]byte, 300)),
	}
	textures := []extract.Asset{asset("t", ".png", []byte{1, 2, 3, 4, 5})}

	p := Build(meshes, textures)

	byName := map[string][]byte{}
	for _, a := range append(meshes, textures...) {
		byName[a.Filename] = a.Payload
	}
	for _, list := range [][]BinaryAsset{p.BinaryAssets.Geometry, p.BinaryAssets.Textures} {
		for _, entry := range list {
			want, ok := byName[entry.AssetName]
			if !ok {
				t.Errorf("manifest entry %q has no source asset", entry.AssetName)
				continue
			}
			got, err := base64.StdEncoding.DecodeString(entry.Data)
			if err != nil {
				t.Errorf("%s: data not base64: %v", entry.AssetName, err)
				continue
			}
			if len(got) != len(want) || string(got) != string(want) {
				t.Errorf("%s: decoded %d bytes, want %d identical bytes",
					entry.AssetName, len(got), len(want))
			}
		}
	}

	// Every modelId names a geometry entry.
	geo := map[string]bool{}
	for _, g := range p.BinaryAssets.Geometry {
		geo[g.AssetName] = true
	}
	for _, m := range p.Modules[1:] {
		id := m.Config.(CustomModelConfig).MeshSettings.ModelID
		if !geo[id] {
			t.Errorf("modelId %q not present in geometry manifest", id)
		}
	}
}

func TestBuildDuplicateFilenames(t *testing.T) {
	meshes := []extract.Asset{
		asset("Blade", ".obj", []byte("one")),
		asset("Blade", ".obj", []byte("two")),
	}
	p := Build(meshes, nil)

	// Duplicates produce independent manifest entries.
	if len(p.BinaryAssets.Geometry) != 2 {
		t.Fatalf("got %d geometry entries, want 2", len(p.BinaryAssets.Geometry))
	}
	if p.BinaryAssets.Geometry[0].Data == p.BinaryAssets.Geometry[1].Data {
		t.Error("entries should keep their own payloads")
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	p := Build(nil, []extract.Asset{asset("t", ".png", []byte{9})})
	if err := Write(path, p); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var round map[string]any
	if err := json.Unmarshal(data, &round); err != nil {
		t.Fatalf("written preset is not valid JSON: %v", err)
	}
	for _, key := range []string{"ModVersion", "Version", "RootSettings", "LocalTransform", "Modules", "BinaryAssets"} {
		if _, ok := round[key]; !ok {
			t.Errorf("written preset missing top-level key %q", key)
		}
	}
	if !strings.HasPrefix(string(data), "{\n  ") {
		t.Error("preset should be two-space indented")
	}
}

func TestWriteFailsOnBadPath(t *testing.T) {
	p := Build(nil, nil)
	if err := Write(filepath.Join(t.TempDir(), "missing", "out.json"), p); err == nil {
		t.Fatal("expected error writing into a missing directory")
	}
}
