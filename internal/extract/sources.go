package extract

import (
	"image"

	"saber2reesaber/internal/bundle"
	"saber2reesaber/internal/wavefront"
)

// FromBundle splits a bundle's objects into the three exportable pools.
// Decoding happens lazily so a corrupt object surfaces as a per-item export
// failure, not a load failure.
func FromBundle(objs []*bundle.Object) (meshes []MeshSource, textures, sprites []ImageSource) {
	for _, o := range objs {
		switch o.Class {
		case bundle.ClassMesh:
			meshes = append(meshes, &meshObject{obj: o})
		case bundle.ClassTexture2D:
			textures = append(textures, &textureObject{obj: o})
		case bundle.ClassSprite:
			sprites = append(sprites, &spriteObject{obj: o})
		}
	}
	return meshes, textures, sprites
}

type meshObject struct {
	obj  *bundle.Object
	mesh *bundle.Mesh
	err  error
	done bool
}

func (m *meshObject) decode() {
	if !m.done {
		m.mesh, m.err = m.obj.ReadMesh()
		m.done = true
	}
}

func (m *meshObject) PathID() int64 { return m.obj.PathID }

func (m *meshObject) Name() string {
	m.decode()
	if m.err != nil {
		return ""
	}
	return m.mesh.Name
}

func (m *meshObject) ExportOBJ() ([]byte, error) {
	m.decode()
	if m.err != nil {
		return nil, m.err
	}
	return wavefront.Encode(m.mesh)
}

type textureObject struct {
	obj  *bundle.Object
	tex  *bundle.Texture2D
	err  error
	done bool
}

func (t *textureObject) decode() {
	if !t.done {
		t.tex, t.err = t.obj.ReadTexture2D()
		t.done = true
	}
}

func (t *textureObject) PathID() int64 { return t.obj.PathID }

func (t *textureObject) Name() string {
	t.decode()
	if t.err != nil {
		return ""
	}
	return t.tex.Name
}

func (t *textureObject) Image() (image.Image, error) {
	t.decode()
	if t.err != nil {
		return nil, t.err
	}
	return t.tex.Image()
}

type spriteObject struct {
	obj  *bundle.Object
	spr  *bundle.Sprite
	err  error
	done bool
}

func (s *spriteObject) decode() {
	if !s.done {
		s.spr, s.err = s.obj.ReadSprite()
		s.done = true
	}
}

func (s *spriteObject) PathID() int64 { return s.obj.PathID }

func (s *spriteObject) Name() string {
	s.decode()
	if s.err != nil {
		return ""
	}
	return s.spr.Name
}

func (s *spriteObject) Image() (image.Image, error) {
	s.decode()
	if s.err != nil {
		return nil, s.err
	}
	return s.spr.Image()
}
