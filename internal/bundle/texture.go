package bundle

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/transform"
)

// Texture2D is a decoded texture object. Pixel data is kept raw; Image
// expands and uprights it on demand.
type Texture2D struct {
	Name   string
	Width  int
	Height int
	Format TextureFormat

	data []byte
}

func parseTexture2D(r *reader, sf *serializedFile) (*Texture2D, error) {
	t := &Texture2D{Name: r.alignedString()}

	_ = r.i32() // forced fallback format
	_ = r.boolean()
	if sf.engine.atLeast(2020, 2) {
		_ = r.boolean() // alpha channel optional
	}
	r.align()

	t.Width = int(r.i32())
	t.Height = int(r.i32())
	_ = r.i32() // complete image size
	if sf.engine.atLeast(2020, 1) {
		_ = r.i32() // mips stripped
	}
	t.Format = TextureFormat(r.i32())
	_ = r.i32()     // mip count
	_ = r.boolean() // readable
	if sf.engine.atLeast(2020, 1) {
		_ = r.boolean() // pre-processed
	}
	if sf.engine.atLeast(2019, 3) {
		_ = r.boolean() // ignore master texture limit
	}
	if sf.engine.atLeast(2018, 2) {
		_ = r.boolean() // streaming mipmaps
	}
	r.align()
	if sf.engine.atLeast(2018, 2) {
		_ = r.i32() // streaming mipmaps priority
	}
	_ = r.i32()  // image count
	_ = r.i32()  // texture dimension
	r.skip(24)   // texture settings: filter, aniso, mip bias, wrap UVW
	_ = r.i32()  // lightmap format
	_ = r.i32()  // color space
	if sf.engine.atLeast(2020, 2) {
		skipByteArray(r) // platform blob
	}

	dataSize := int(r.i32())
	if dataSize < 0 || dataSize > r.remaining() {
		return nil, fmt.Errorf("implausible image data size %d", dataSize)
	}
	t.data = append([]byte(nil), r.bytes(dataSize)...)
	r.align()

	var streamOffset int64
	if sf.engine.atLeast(2020, 1) {
		streamOffset = r.i64()
	} else {
		streamOffset = int64(r.u32())
	}
	streamSize := int64(r.u32())
	streamPath := r.alignedString()

	if r.short() {
		return nil, fmt.Errorf("truncated texture payload")
	}

	if len(t.data) == 0 && streamSize > 0 && streamPath != "" {
		res, err := sf.bundle.resource(streamPath)
		if err != nil {
			return nil, err
		}
		if streamOffset < 0 || streamOffset+streamSize > int64(len(res)) {
			return nil, fmt.Errorf("image stream range out of bounds in %q", streamPath)
		}
		t.data = res[streamOffset : streamOffset+streamSize]
	}

	if t.Width <= 0 || t.Height <= 0 {
		return nil, fmt.Errorf("implausible dimensions %dx%d", t.Width, t.Height)
	}
	return t, nil
}

// Image decodes the top mip level to an upright RGBA image.
func (t *Texture2D) Image() (image.Image, error) {
	raw, err := decodePixels(t.Format, t.data, t.Width, t.Height)
	if err != nil {
		return nil, fmt.Errorf("bundle: texture %q: %w", t.Name, err)
	}
	// Serialized rows run bottom-up.
	return transform.FlipV(raw), nil
}
