package bundle

import (
	"fmt"
	"image"
)

// TextureFormat is the serialized m_TextureFormat enum.
type TextureFormat int32

const (
	FormatAlpha8   TextureFormat = 1
	FormatARGB4444 TextureFormat = 2
	FormatRGB24    TextureFormat = 3
	FormatRGBA32   TextureFormat = 4
	FormatARGB32   TextureFormat = 5
	FormatRGB565   TextureFormat = 7
	FormatDXT1     TextureFormat = 10
	FormatDXT5     TextureFormat = 12
	FormatRGBA4444 TextureFormat = 13
	FormatBGRA32   TextureFormat = 14
)

var formatNames = map[TextureFormat]string{
	FormatAlpha8:   "Alpha8",
	FormatARGB4444: "ARGB4444",
	FormatRGB24:    "RGB24",
	FormatRGBA32:   "RGBA32",
	FormatARGB32:   "ARGB32",
	FormatRGB565:   "RGB565",
	FormatDXT1:     "DXT1",
	FormatDXT5:     "DXT5",
	FormatRGBA4444: "RGBA4444",
	FormatBGRA32:   "BGRA32",
}

func (f TextureFormat) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("TextureFormat%d", int32(f))
}

// dataSize reports how many bytes the top mip level occupies.
func (f TextureFormat) dataSize(w, h int) (int, error) {
	switch f {
	case FormatAlpha8:
		return w * h, nil
	case FormatARGB4444, FormatRGBA4444, FormatRGB565:
		return w * h * 2, nil
	case FormatRGB24:
		return w * h * 3, nil
	case FormatRGBA32, FormatARGB32, FormatBGRA32:
		return w * h * 4, nil
	case FormatDXT1:
		return ((w + 3) / 4) * ((h + 3) / 4) * 8, nil
	case FormatDXT5:
		return ((w + 3) / 4) * ((h + 3) / 4) * 16, nil
	default:
		return 0, fmt.Errorf("texture format %s is not supported", f)
	}
}

// decodePixels expands the top mip level to NRGBA. Rows come out in Unity's
// bottom-up order; the caller flips the image upright.
func decodePixels(f TextureFormat, data []byte, w, h int) (*image.NRGBA, error) {
	need, err := f.dataSize(w, h)
	if err != nil {
		return nil, err
	}
	if len(data) < need {
		return nil, fmt.Errorf("%s: have %d bytes, need %d for %dx%d", f, len(data), need, w, h)
	}
	data = data[:need]

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	px := img.Pix

	switch f {
	case FormatAlpha8:
		for i := 0; i < w*h; i++ {
			px[i*4+0] = 0
			px[i*4+1] = 0
			px[i*4+2] = 0
			px[i*4+3] = data[i]
		}
	case FormatRGB24:
		for i := 0; i < w*h; i++ {
			px[i*4+0] = data[i*3+0]
			px[i*4+1] = data[i*3+1]
			px[i*4+2] = data[i*3+2]
			px[i*4+3] = 255
		}
	case FormatRGBA32:
		copy(px, data)
	case FormatARGB32:
		for i := 0; i < w*h; i++ {
			px[i*4+0] = data[i*4+1]
			px[i*4+1] = data[i*4+2]
			px[i*4+2] = data[i*4+3]
			px[i*4+3] = data[i*4+0]
		}
	case FormatBGRA32:
		for i := 0; i < w*h; i++ {
			px[i*4+0] = data[i*4+2]
			px[i*4+1] = data[i*4+1]
			px[i*4+2] = data[i*4+0]
			px[i*4+3] = data[i*4+3]
		}
	case FormatRGB565:
		for i := 0; i < w*h; i++ {
			v := uint16(data[i*2]) | uint16(data[i*2+1])<<8
			px[i*4+0] = expand5(uint8(v >> 11))
			px[i*4+1] = expand6(uint8(v >> 5 & 0x3f))
			px[i*4+2] = expand5(uint8(v & 0x1f))
			px[i*4+3] = 255
		}
	case FormatRGBA4444:
		for i := 0; i < w*h; i++ {
			v := uint16(data[i*2]) | uint16(data[i*2+1])<<8
			px[i*4+0] = expand4(uint8(v >> 12))
			px[i*4+1] = expand4(uint8(v >> 8 & 0xf))
			px[i*4+2] = expand4(uint8(v >> 4 & 0xf))
			px[i*4+3] = expand4(uint8(v & 0xf))
		}
	case FormatARGB4444:
		for i := 0; i < w*h; i++ {
			v := uint16(data[i*2]) | uint16(data[i*2+1])<<8
			px[i*4+0] = expand4(uint8(v >> 8 & 0xf))
			px[i*4+1] = expand4(uint8(v >> 4 & 0xf))
			px[i*4+2] = expand4(uint8(v & 0xf))
			px[i*4+3] = expand4(uint8(v >> 12))
		}
	case FormatDXT1:
		decodeDXT(data, img, w, h, false)
	case FormatDXT5:
		decodeDXT(data, img, w, h, true)
	}
	return img, nil
}

func expand4(v uint8) uint8 { return v<<4 | v }
func expand5(v uint8) uint8 { return v<<3 | v>>2 }
func expand6(v uint8) uint8 { return v<<2 | v>>4 }

// decodeDXT expands BC1 (DXT1) or BC3 (DXT5) 4x4 blocks.
func decodeDXT(data []byte, img *image.NRGBA, w, h int, alpha bool) {
	blockSize := 8
	if alpha {
		blockSize = 16
	}
	bw := (w + 3) / 4
	bh := (h + 3) / 4

	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			block := data[(by*bw+bx)*blockSize:]
			var alphaVals [16]uint8
			colorBlock := block
			if alpha {
				decodeDXT5Alpha(block, &alphaVals)
				colorBlock = block[8:]
			}

			c0 := uint16(colorBlock[0]) | uint16(colorBlock[1])<<8
			c1 := uint16(colorBlock[2]) | uint16(colorBlock[3])<<8
			var palette [4][4]uint8
			palette[0] = rgb565(c0)
			palette[1] = rgb565(c1)
			if c0 > c1 || alpha {
				for i := 0; i < 3; i++ {
					palette[2][i] = uint8((2*int(palette[0][i]) + int(palette[1][i])) / 3)
					palette[3][i] = uint8((int(palette[0][i]) + 2*int(palette[1][i])) / 3)
				}
				palette[2][3] = 255
				palette[3][3] = 255
			} else {
				for i := 0; i < 3; i++ {
					palette[2][i] = uint8((int(palette[0][i]) + int(palette[1][i])) / 2)
				}
				palette[2][3] = 255
				palette[3] = [4]uint8{0, 0, 0, 0}
			}

			bits := uint32(colorBlock[4]) | uint32(colorBlock[5])<<8 |
				uint32(colorBlock[6])<<16 | uint32(colorBlock[7])<<24
			for py := 0; py < 4; py++ {
				for px := 0; px < 4; px++ {
					x := bx*4 + px
					y := by*4 + py
					if x >= w || y >= h {
						continue
					}
					idx := bits >> uint((py*4+px)*2) & 3
					c := palette[idx]
					o := img.PixOffset(x, y)
					img.Pix[o+0] = c[0]
					img.Pix[o+1] = c[1]
					img.Pix[o+2] = c[2]
					if alpha {
						img.Pix[o+3] = alphaVals[py*4+px]
					} else {
						img.Pix[o+3] = c[3]
					}
				}
			}
		}
	}
}

func rgb565(v uint16) [4]uint8 {
	return [4]uint8{
		expand5(uint8(v >> 11)),
		expand6(uint8(v >> 5 & 0x3f)),
		expand5(uint8(v & 0x1f)),
		255,
	}
}

func decodeDXT5Alpha(block []byte, out *[16]uint8) {
	a0 := block[0]
	a1 := block[1]
	var table [8]uint8
	table[0] = a0
	table[1] = a1
	if a0 > a1 {
		for i := 1; i < 7; i++ {
			table[i+1] = uint8(((7-i)*int(a0) + i*int(a1)) / 7)
		}
	} else {
		for i := 1; i < 5; i++ {
			table[i+1] = uint8(((5-i)*int(a0) + i*int(a1)) / 5)
		}
		table[6] = 0
		table[7] = 255
	}

	bits := uint64(block[2]) | uint64(block[3])<<8 | uint64(block[4])<<16 |
		uint64(block[5])<<24 | uint64(block[6])<<32 | uint64(block[7])<<40
	for i := 0; i < 16; i++ {
		out[i] = table[bits>>uint(i*3)&7]
	}
}
