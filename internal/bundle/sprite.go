package bundle

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
)

// Sprite is a decoded sprite: a named rectangle over a texture in the same
// bundle.
type Sprite struct {
	Name string

	textureRect [4]float32 // x, y, w, h in texture space, origin bottom-left
	settingsRaw uint32
	texture     *Object
}

func parseSprite(r *reader, sf *serializedFile) (*Sprite, error) {
	s := &Sprite{Name: r.alignedString()}

	r.skip(16)      // rect
	r.skip(8)       // offset
	r.skip(16)      // border
	_ = r.f32()     // pixels to units
	r.skip(8)       // pivot
	_ = r.u32()     // extrude
	_ = r.boolean() // is polygon
	r.align()
	r.skip(24) // render data key: GUID + index

	tagCount := int(r.i32())
	if tagCount < 0 || tagCount > 1<<16 {
		return nil, fmt.Errorf("implausible atlas tag count %d", tagCount)
	}
	for i := 0; i < tagCount; i++ {
		_ = r.alignedString()
	}

	atlas := readPPtr(r)

	// SpriteRenderData
	texPPtr := readPPtr(r)
	_ = readPPtr(r) // alpha texture
	if sf.engine.atLeast(2019, 1) {
		secondaryCount := int(r.i32())
		if secondaryCount < 0 || secondaryCount > 1<<16 {
			return nil, fmt.Errorf("implausible secondary texture count %d", secondaryCount)
		}
		for i := 0; i < secondaryCount; i++ {
			_ = readPPtr(r)
			_ = r.alignedString()
		}
	}
	subMeshCount := int(r.i32())
	if subMeshCount < 0 || subMeshCount > 1<<16 {
		return nil, fmt.Errorf("implausible submesh count %d", subMeshCount)
	}
	r.skip(subMeshCount * 48) // submesh records incl. AABB
	skipByteArray(r)          // index buffer
	_ = r.u32()               // vertex count
	chanCount := int(r.i32())
	if chanCount < 0 || chanCount > 64 {
		return nil, fmt.Errorf("implausible channel count %d", chanCount)
	}
	r.skip(chanCount * 4)
	skipByteArray(r)          // vertex data
	r.skip(int(r.i32()) * 64) // bind poses

	s.textureRect[0] = r.f32()
	s.textureRect[1] = r.f32()
	s.textureRect[2] = r.f32()
	s.textureRect[3] = r.f32()
	r.skip(8) // texture rect offset
	r.skip(8) // atlas rect offset
	s.settingsRaw = r.u32()

	if r.short() {
		return nil, fmt.Errorf("truncated sprite payload")
	}

	if !atlas.isNull() {
		return nil, fmt.Errorf("atlas-packed sprites are not supported")
	}
	if texPPtr.isNull() || texPPtr.fileID != 0 {
		return nil, fmt.Errorf("sprite texture reference is external or null")
	}
	s.texture = sf.objectByPathID(texPPtr.pathID)
	if s.texture == nil {
		return nil, fmt.Errorf("sprite texture %d not found", texPPtr.pathID)
	}
	return s, nil
}

// Image crops the sprite's rectangle out of its upright source texture.
func (s *Sprite) Image() (image.Image, error) {
	if s.settingsRaw&1 != 0 {
		return nil, fmt.Errorf("bundle: sprite %q: tight-packed sprites are not supported", s.Name)
	}

	tex, err := s.texture.ReadTexture2D()
	if err != nil {
		return nil, err
	}
	atlasImg, err := tex.Image()
	if err != nil {
		return nil, err
	}

	x := int(s.textureRect[0])
	y := int(s.textureRect[1])
	w := int(s.textureRect[2] + 0.5)
	h := int(s.textureRect[3] + 0.5)
	if w <= 0 || h <= 0 || x < 0 || y < 0 || x+w > tex.Width || y+h > tex.Height {
		return nil, fmt.Errorf("bundle: sprite %q: rect %dx%d+%d+%d outside %dx%d texture",
			s.Name, w, h, x, y, tex.Width, tex.Height)
	}

	// The rect origin is bottom-left; the decoded image is upright
	// (top-down), so mirror the Y coordinate.
	top := tex.Height - y - h
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(out, out.Bounds(), atlasImg, image.Pt(x, top), xdraw.Src)
	return out, nil
}
