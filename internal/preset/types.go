// Package preset models the ReeSabers preset document and assembles one
// from extracted assets.
package preset

// Vec2 through Color serialize with the lower-case keys the consumer
// expects inside module configs.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Vec4 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

type Transform struct {
	Position Vec3 `json:"Position"`
	Rotation Vec3 `json:"Rotation"`
	Scale    Vec3 `json:"Scale"`
}

// Preset is the document root.
type Preset struct {
	ModVersion     string       `json:"ModVersion"`
	Version        int          `json:"Version"`
	RootSettings   RootSettings `json:"RootSettings"`
	LocalTransform Transform    `json:"LocalTransform"`
	Modules        []*Module    `json:"Modules"`
	BinaryAssets   BinaryAssets `json:"BinaryAssets"`
}

type RootSettings struct {
	Type int `json:"Type"`
}

// Module is one visual-effect layer. Config's concrete type depends on
// ModuleId.
type Module struct {
	ModuleID string    `json:"ModuleId"`
	Version  int       `json:"Version"`
	Config   any       `json:"Config"`
	Children []*Module `json:"Children"`
}

type BinaryAssets struct {
	Textures []BinaryAsset `json:"Textures"`
	Geometry []BinaryAsset `json:"Geometry"`
}

// BinaryAsset embeds one extracted file by name, base64-encoded.
type BinaryAsset struct {
	AssetName string `json:"AssetName"`
	Data      string `json:"Data"`
}

// TrailConfig is the config block of a reezonate.simple-trail module.
type TrailConfig struct {
	MeshSettings       TrailMeshSettings     `json:"MeshSettings"`
	MaterialSettings   TrailMaterialSettings `json:"MaterialSettings"`
	Enabled            bool                  `json:"Enabled"`
	Name               string                `json:"Name"`
	LocalTransform     Transform             `json:"LocalTransform"`
	ForceColorOverride bool                  `json:"ForceColorOverride"`
	ColorOverride      ColorOverride         `json:"ColorOverride"`
}

type TrailMeshSettings struct {
	TrailLength          float64 `json:"TrailLength"`
	HorizontalResolution int     `json:"HorizontalResolution"`
	VerticalResolution   int     `json:"VerticalResolution"`
}

type TrailMaterialSettings struct {
	TrailType            int               `json:"trailType"`
	MaterialType         int               `json:"materialType"`
	MappingType          int               `json:"mappingType"`
	Offset               float64           `json:"offset"`
	Width                float64           `json:"width"`
	DistortionMultiplier float64           `json:"distortionMultiplier"`
	GeneralSettings      GeneralSettings   `json:"generalSettings"`
	MaskSettings         TrailMaskSettings `json:"maskSettings"`
}

type GeneralSettings struct {
	CustomTextureID  string          `json:"customTextureId"`
	OpacityTextureID string          `json:"opacityTextureId"`
	AnimationLayout  AnimationLayout `json:"animationLayout"`
	TilingLayout     Vec4            `json:"tilingLayout"`
	UVScroll         Vec2            `json:"uvScroll"`
	BlendingMode     int             `json:"blendingMode"`
	AlwaysOnTop      bool            `json:"alwaysOnTop"`
	RenderQueue      int             `json:"renderQueue"`
}

type AnimationLayout struct {
	TotalFrames     int     `json:"totalFrames"`
	FramesPerRow    int     `json:"framesPerRow"`
	FramesPerColumn int     `json:"framesPerColumn"`
	FrameDuration   float64 `json:"frameDuration"`
}

type TrailMaskSettings struct {
	MainMaskResolution    int      `json:"mainMaskResolution"`
	DriversMaskResolution int      `json:"driversMaskResolution"`
	LengthMappings        Mappings `json:"lengthMappings"`
	WidthMappings         Mappings `json:"widthMappings"`
	DriversSampleMode     int      `json:"driversSampleMode"`
	ViewingAngleMappings  Mappings `json:"viewingAngleMappings"`
	SurfaceAngleMappings  Mappings `json:"surfaceAngleMappings"`
	Drivers               []any    `json:"drivers"`
}

// Mappings is a value-driven color/alpha/scale curve set.
type Mappings struct {
	ColorOverValue ColorCurve  `json:"colorOverValue"`
	AlphaOverValue ScalarCurve `json:"alphaOverValue"`
	ScaleOverValue ScalarCurve `json:"scaleOverValue"`
	ValueFrom      float64     `json:"valueFrom"`
	ValueTo        float64     `json:"valueTo"`
}

type ColorCurve struct {
	InterpolationType int                 `json:"interpolationType"`
	ControlPoints     []ColorControlPoint `json:"controlPoints"`
}

type ColorControlPoint struct {
	Time  float64 `json:"time"`
	Value Color   `json:"value"`
}

type ScalarCurve struct {
	InterpolationType int                  `json:"interpolationType"`
	ControlPoints     []ScalarControlPoint `json:"controlPoints"`
}

type ScalarControlPoint struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

type ColorOverride struct {
	Type               int     `json:"type"`
	Hue                float64 `json:"hue"`
	Saturation         float64 `json:"saturation"`
	Value              float64 `json:"value"`
	HueShiftPerSecond  float64 `json:"hueShiftPerSecond"`
	FakeGlowMultiplier float64 `json:"fakeGlowMultiplier"`
	ColorSource        int     `json:"colorSource"`
}

// CustomModelConfig is the config block of a reezonate.custom-model module.
type CustomModelConfig struct {
	MeshSettings       ModelMeshSettings     `json:"MeshSettings"`
	MaterialSettings   ModelMaterialSettings `json:"MaterialSettings"`
	TexturesSettings   TexturesSettings      `json:"TexturesSettings"`
	Enabled            bool                  `json:"Enabled"`
	Name               string                `json:"Name"`
	LocalTransform     Transform             `json:"LocalTransform"`
	ForceColorOverride bool                  `json:"ForceColorOverride"`
	ColorOverride      ColorOverride         `json:"ColorOverride"`
}

type ModelMeshSettings struct {
	ModelID     string  `json:"modelId"`
	Scale       float64 `json:"scale"`
	FlipNormals bool    `json:"flipNormals"`
	MirrorX     bool    `json:"mirrorX"`
	MirrorY     bool    `json:"mirrorY"`
	MirrorZ     bool    `json:"mirrorZ"`
}

type ModelMaterialSettings struct {
	Color               Color             `json:"color"`
	ReflectionColor     Color             `json:"reflectionColor"`
	EnvLightColor       Color             `json:"envLightColor"`
	Opacity             float64           `json:"opacity"`
	FresnelPower        float64           `json:"fresnelPower"`
	Metallic            float64           `json:"metallic"`
	Roughness           float64           `json:"roughness"`
	EnvLightIntensity   float64           `json:"envLightIntensity"`
	ReflectionIntensity float64           `json:"reflectionIntensity"`
	NormalMapIntensity  float64           `json:"normalMapIntensity"`
	SceneReflections    bool              `json:"sceneReflections"`
	SceneLights         bool              `json:"sceneLights"`
	RenderQueue         int               `json:"renderQueue"`
	CullMode            int               `json:"cullMode"`
	DepthWrite          bool              `json:"depthWrite"`
	MaskSettings        ModelMaskSettings `json:"maskSettings"`
}

type ModelMaskSettings struct {
	DriversMaskResolution int      `json:"driversMaskResolution"`
	DriversSampleMode     int      `json:"driversSampleMode"`
	ViewingAngleMappings  Mappings `json:"viewingAngleMappings"`
	SurfaceAngleMappings  Mappings `json:"surfaceAngleMappings"`
	Drivers               []any    `json:"drivers"`
}

type TexturesSettings struct {
	AnimationLayout AnimationLayout `json:"animationLayout"`
	TilingLayout    Vec4            `json:"tilingLayout"`
	UVScroll        Vec2            `json:"uvScroll"`
}
