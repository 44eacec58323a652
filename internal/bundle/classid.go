package bundle

import "fmt"

// ClassID identifies the engine type of a serialized object.
type ClassID int32

const (
	ClassGameObject    ClassID = 1
	ClassTransform     ClassID = 4
	ClassMaterial      ClassID = 21
	ClassTexture2D     ClassID = 28
	ClassMesh          ClassID = 43
	ClassShader        ClassID = 48
	ClassTextAsset     ClassID = 49
	ClassAudioClip     ClassID = 83
	ClassMonoBehaviour ClassID = 114
	ClassMonoScript    ClassID = 115
	ClassAssetBundle   ClassID = 142
	ClassSprite        ClassID = 213
)

var classNames = map[ClassID]string{
	ClassGameObject:    "GameObject",
	ClassTransform:     "Transform",
	ClassMaterial:      "Material",
	ClassTexture2D:     "Texture2D",
	ClassMesh:          "Mesh",
	ClassShader:        "Shader",
	ClassTextAsset:     "TextAsset",
	ClassAudioClip:     "AudioClip",
	ClassMonoBehaviour: "MonoBehaviour",
	ClassMonoScript:    "MonoScript",
	ClassAssetBundle:   "AssetBundle",
	ClassSprite:        "Sprite",
}

func (c ClassID) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Class%d", int32(c))
}
