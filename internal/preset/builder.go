package preset

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"saber2reesaber/internal/extract"
)

// Fixed identity tags the consumer checks before loading a preset. The
// numeric defaults below mirror the values ReeSabers writes for a freshly
// created preset; they must match exactly.
const (
	ModVersion = "0.3.17"

	TrailModuleID       = "reezonate.simple-trail"
	CustomModelModuleID = "reezonate.custom-model"
)

// Build assembles the preset: static root metadata, one trail module, one
// custom-model module per mesh, and the binary-asset manifest. It never
// rejects input; duplicate filenames produce duplicate manifest entries.
func Build(meshes, textures []extract.Asset) *Preset {
	p := &Preset{
		ModVersion:     ModVersion,
		Version:        1,
		RootSettings:   RootSettings{Type: 0},
		LocalTransform: identityTransform(),
		Modules:        []*Module{},
		BinaryAssets: BinaryAssets{
			Textures: []BinaryAsset{},
			Geometry: []BinaryAsset{},
		},
	}

	trailTexture := ""
	if len(textures) > 0 {
		trailTexture = textures[0].Filename
	}
	p.Modules = append(p.Modules, trailModule(trailTexture))

	for _, mesh := range meshes {
		p.Modules = append(p.Modules, customModelModule(mesh.Filename))
		p.BinaryAssets.Geometry = append(p.BinaryAssets.Geometry, BinaryAsset{
			AssetName: mesh.Filename,
			Data:      base64.StdEncoding.EncodeToString(mesh.Payload),
		})
	}
	for _, tex := range textures {
		p.BinaryAssets.Textures = append(p.BinaryAssets.Textures, BinaryAsset{
			AssetName: tex.Filename,
			Data:      base64.StdEncoding.EncodeToString(tex.Payload),
		})
	}

	return p
}

// Write serializes the preset as indented UTF-8 JSON.
func Write(path string, p *Preset) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("preset: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("preset: write %s: %w", path, err)
	}
	return nil
}

func trailModule(textureFilename string) *Module {
	return &Module{
		ModuleID: TrailModuleID,
		Version:  1,
		Config: TrailConfig{
			MeshSettings: TrailMeshSettings{
				TrailLength:          0.3,
				HorizontalResolution: 4,
				VerticalResolution:   60,
			},
			MaterialSettings: TrailMaterialSettings{
				TrailType:            0,
				MaterialType:         0,
				MappingType:          0,
				Offset:               1.0,
				Width:                0.03,
				DistortionMultiplier: 1.0,
				GeneralSettings: GeneralSettings{
					CustomTextureID:  textureFilename,
					OpacityTextureID: textureFilename,
					AnimationLayout:  defaultAnimationLayout(),
					TilingLayout:     Vec4{X: 1, Y: 1},
					UVScroll:         Vec2{},
					BlendingMode:     0,
					AlwaysOnTop:      false,
					RenderQueue:      3000,
				},
				MaskSettings: TrailMaskSettings{
					MainMaskResolution:    128,
					DriversMaskResolution: 32,
					LengthMappings:        defaultMappings(),
					WidthMappings:         defaultMappings(),
					DriversSampleMode:     0,
					ViewingAngleMappings:  defaultMappings(),
					SurfaceAngleMappings:  defaultMappings(),
					Drivers:               []any{},
				},
			},
			Enabled:            true,
			Name:               "Trail",
			LocalTransform:     identityTransform(),
			ForceColorOverride: false,
			ColorOverride:      defaultColorOverride(),
		},
		Children: []*Module{},
	}
}

func customModelModule(modelFilename string) *Module {
	return &Module{
		ModuleID: CustomModelModuleID,
		Version:  1,
		Config: CustomModelConfig{
			MeshSettings: ModelMeshSettings{
				ModelID: modelFilename,
				Scale:   1.0,
			},
			MaterialSettings: ModelMaterialSettings{
				Color:               white(),
				ReflectionColor:     white(),
				EnvLightColor:       white(),
				Opacity:             1.0,
				FresnelPower:        5.0,
				Metallic:            0.0,
				Roughness:           0.0,
				EnvLightIntensity:   1.0,
				ReflectionIntensity: 1.0,
				NormalMapIntensity:  1.0,
				SceneReflections:    false,
				SceneLights:         false,
				RenderQueue:         2990,
				CullMode:            0,
				DepthWrite:          true,
				MaskSettings: ModelMaskSettings{
					DriversMaskResolution: 32,
					DriversSampleMode:     0,
					ViewingAngleMappings:  defaultMappings(),
					SurfaceAngleMappings:  defaultMappings(),
					Drivers:               []any{},
				},
			},
			TexturesSettings: TexturesSettings{
				AnimationLayout: defaultAnimationLayout(),
				TilingLayout:    Vec4{X: 1, Y: 1},
				UVScroll:        Vec2{},
			},
			Enabled:            true,
			Name:               "Custom Model",
			LocalTransform:     identityTransform(),
			ForceColorOverride: false,
			ColorOverride:      defaultColorOverride(),
		},
		Children: []*Module{},
	}
}

func identityTransform() Transform {
	return Transform{Scale: Vec3{X: 1, Y: 1, Z: 1}}
}

func white() Color {
	return Color{R: 1, G: 1, B: 1, A: 1}
}

func defaultAnimationLayout() AnimationLayout {
	return AnimationLayout{
		TotalFrames:     1,
		FramesPerRow:    1,
		FramesPerColumn: 1,
		FrameDuration:   1.0,
	}
}

func defaultMappings() Mappings {
	return Mappings{
		ColorOverValue: ColorCurve{
			ControlPoints: []ColorControlPoint{{Time: 0, Value: white()}},
		},
		AlphaOverValue: ScalarCurve{
			ControlPoints: []ScalarControlPoint{{Time: 0, Value: 1}},
		},
		ScaleOverValue: ScalarCurve{
			ControlPoints: []ScalarControlPoint{{Time: 0, Value: 1}},
		},
		ValueFrom: 0.0,
		ValueTo:   1.0,
	}
}

func defaultColorOverride() ColorOverride {
	return ColorOverride{
		Saturation:         1.0,
		Value:              1.0,
		FakeGlowMultiplier: 1.0,
	}
}
