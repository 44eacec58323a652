package bundle

import (
	"fmt"
	"math"
)

// SubMesh is one draw range inside a mesh's shared index buffer.
type SubMesh struct {
	FirstIndex  int
	IndexCount  int
	Topology    int32
	BaseVertex  uint32
	FirstVertex uint32
	VertexCount uint32
}

// Topology values as serialized; only triangle lists are exportable.
const TopologyTriangles = 0

// Mesh is a decoded Mesh object: flat vertex attributes plus a shared index
// buffer partitioned by submeshes.
type Mesh struct {
	Name      string
	Positions [][3]float32
	Normals   [][3]float32
	UV0       [][2]float32
	Indices   []uint32
	SubMeshes []SubMesh
}

// Vertex channel indices in the fixed channel table (2018+ layout).
const (
	channelPosition = 0
	channelNormal   = 1
	channelUV0      = 4
)

type vertexChannel struct {
	stream    uint8
	offset    uint8
	format    uint8
	dimension uint8
}

// Vertex attribute formats (2019 enum) with their byte sizes.
func vertexFormatSize(format uint8) (int, error) {
	switch format {
	case 0: // Float
		return 4, nil
	case 1: // Float16
		return 2, nil
	case 2, 3, 6, 7: // UNorm8, SNorm8, UInt8, SInt8
		return 1, nil
	case 4, 5, 8, 9: // UNorm16, SNorm16, UInt16, SInt16
		return 2, nil
	case 10, 11: // UInt32, SInt32
		return 4, nil
	default:
		return 0, fmt.Errorf("unknown vertex format %d", format)
	}
}

func parseMesh(r *reader, sf *serializedFile) (*Mesh, error) {
	if sf.engine.major < 2017 {
		return nil, fmt.Errorf("engine %s too old for this mesh layout", sf.engineString)
	}

	m := &Mesh{Name: r.alignedString()}

	subMeshCount := int(r.i32())
	if subMeshCount < 0 || subMeshCount > 1<<16 {
		return nil, fmt.Errorf("implausible submesh count %d", subMeshCount)
	}
	rawSubs := make([]rawSubMesh, subMeshCount)
	for i := range rawSubs {
		rawSubs[i].firstByte = r.u32()
		rawSubs[i].indexCount = r.u32()
		rawSubs[i].topology = r.i32()
		rawSubs[i].baseVertex = r.u32()
		rawSubs[i].firstVertex = r.u32()
		rawSubs[i].vertexCount = r.u32()
		r.skip(24) // local AABB
	}

	skipBlendShapeData(r)

	r.skip(int(r.i32()) * 64) // bind poses
	r.skip(int(r.i32()) * 4)  // bone name hashes
	r.skip(4)                 // root bone name hash
	if sf.engine.atLeast(2019, 1) {
		r.skip(int(r.i32()) * 24) // per-bone AABBs
		r.skip(int(r.i32()) * 4)  // variable bone count weights
	}

	meshCompression := r.u8()
	_ = r.boolean() // isReadable
	_ = r.boolean() // keepVertices
	_ = r.boolean() // keepIndices
	r.align()
	if meshCompression != 0 {
		return nil, fmt.Errorf("compressed mesh data is not supported")
	}

	indexFormat := r.i32()
	indexBuffer := append([]byte(nil), r.bytes(int(r.i32()))...)
	r.align()

	vertexCount := int(r.u32())
	if vertexCount < 0 || vertexCount > 1<<24 {
		return nil, fmt.Errorf("implausible vertex count %d", vertexCount)
	}
	channelCount := int(r.i32())
	if channelCount < 0 || channelCount > 64 {
		return nil, fmt.Errorf("implausible channel count %d", channelCount)
	}
	channels := make([]vertexChannel, channelCount)
	for i := range channels {
		channels[i] = vertexChannel{
			stream:    r.u8(),
			offset:    r.u8(),
			format:    r.u8(),
			dimension: r.u8() & 0xF,
		}
	}
	vertexData := append([]byte(nil), r.bytes(int(r.i32()))...)
	r.align()

	// CompressedMesh is present in the layout even when unused; its packed
	// vectors are empty here since meshCompression was checked above.
	skipCompressedMesh(r)

	r.skip(24)       // local AABB
	_ = r.i32()      // mesh usage flags
	skipByteArray(r) // baked convex collision mesh
	skipByteArray(r) // baked triangle collision mesh
	if sf.engine.atLeast(2018, 2) {
		r.skip(8) // mesh metrics
	}
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
		return nil, fmt.Errorf("truncated mesh payload")
	}

	// Vertex data may live in a side-car resource stream.
	if len(vertexData) == 0 && streamSize > 0 && streamPath != "" {
		res, err := sf.bundle.resource(streamPath)
		if err != nil {
			return nil, err
		}
		if streamOffset < 0 || streamOffset+streamSize > int64(len(res)) {
			return nil, fmt.Errorf("vertex stream range out of bounds in %q", streamPath)
		}
		vertexData = res[streamOffset : streamOffset+streamSize]
	}

	if err := m.decodeVertexData(vertexData, channels, vertexCount); err != nil {
		return nil, err
	}
	if err := m.decodeIndices(indexBuffer, indexFormat, rawSubs); err != nil {
		return nil, err
	}
	return m, nil
}

type rawSubMesh struct {
	firstByte   uint32
	indexCount  uint32
	topology    int32
	baseVertex  uint32
	firstVertex uint32
	vertexCount uint32
}

func (m *Mesh) decodeIndices(buf []byte, indexFormat int32, rawSubs []rawSubMesh) error {
	indexSize := 2
	if indexFormat == 1 {
		indexSize = 4
	}
	total := len(buf) / indexSize
	m.Indices = make([]uint32, total)
	for i := 0; i < total; i++ {
		if indexSize == 2 {
			m.Indices[i] = uint32(buf[i*2]) | uint32(buf[i*2+1])<<8
		} else {
			m.Indices[i] = uint32(buf[i*4]) | uint32(buf[i*4+1])<<8 |
				uint32(buf[i*4+2])<<16 | uint32(buf[i*4+3])<<24
		}
	}
	for _, rs := range rawSubs {
		first := int(rs.firstByte) / indexSize
		count := int(rs.indexCount)
		if first+count > total {
			return fmt.Errorf("submesh index range [%d,%d) exceeds buffer of %d", first, first+count, total)
		}
		m.SubMeshes = append(m.SubMeshes, SubMesh{
			FirstIndex:  first,
			IndexCount:  count,
			Topology:    rs.topology,
			BaseVertex:  rs.baseVertex,
			FirstVertex: rs.firstVertex,
			VertexCount: rs.vertexCount,
		})
	}
	return nil
}

func (m *Mesh) decodeVertexData(data []byte, channels []vertexChannel, vertexCount int) error {
	if vertexCount == 0 {
		return fmt.Errorf("mesh has no vertices")
	}

	// Streams are laid out back to back, each aligned to 16 bytes; a stream's
	// stride is the packed size of its channels.
	streamCount := 0
	for _, c := range channels {
		if c.dimension > 0 && int(c.stream)+1 > streamCount {
			streamCount = int(c.stream) + 1
		}
	}
	strides := make([]int, streamCount)
	for _, c := range channels {
		if c.dimension == 0 {
			continue
		}
		size, err := vertexFormatSize(c.format)
		if err != nil {
			return err
		}
		strides[c.stream] += size * int(c.dimension)
	}
	offsets := make([]int, streamCount)
	off := 0
	for s := 0; s < streamCount; s++ {
		offsets[s] = off
		off += strides[s] * vertexCount
		off = (off + 15) &^ 15
	}

	read := func(ch vertexChannel, wantDim int) ([][]float32, error) {
		size, err := vertexFormatSize(ch.format)
		if err != nil {
			return nil, err
		}
		dim := int(ch.dimension)
		if dim < wantDim {
			return nil, fmt.Errorf("channel dimension %d, want at least %d", dim, wantDim)
		}
		base := offsets[ch.stream] + int(ch.offset)
		stride := strides[ch.stream]
		end := base + stride*(vertexCount-1) + size*dim
		if end > len(data) {
			return nil, fmt.Errorf("vertex channel exceeds data of %d bytes", len(data))
		}
		out := make([][]float32, vertexCount)
		for v := 0; v < vertexCount; v++ {
			row := make([]float32, wantDim)
			p := base + stride*v
			for d := 0; d < wantDim; d++ {
				f, err := decodeComponent(data[p+size*d:], ch.format)
				if err != nil {
					return nil, err
				}
				row[d] = f
			}
			out[v] = row
		}
		return out, nil
	}

	for i, c := range channels {
		if c.dimension == 0 {
			continue
		}
		switch i {
		case channelPosition:
			rows, err := read(c, 3)
			if err != nil {
				return fmt.Errorf("positions: %w", err)
			}
			m.Positions = make([][3]float32, vertexCount)
			for v, row := range rows {
				m.Positions[v] = [3]float32{row[0], row[1], row[2]}
			}
		case channelNormal:
			rows, err := read(c, 3)
			if err != nil {
				return fmt.Errorf("normals: %w", err)
			}
			m.Normals = make([][3]float32, vertexCount)
			for v, row := range rows {
				m.Normals[v] = [3]float32{row[0], row[1], row[2]}
			}
		case channelUV0:
			rows, err := read(c, 2)
			if err != nil {
				return fmt.Errorf("uv0: %w", err)
			}
			m.UV0 = make([][2]float32, vertexCount)
			for v, row := range rows {
				m.UV0[v] = [2]float32{row[0], row[1]}
			}
		}
	}

	if m.Positions == nil {
		return fmt.Errorf("mesh has no position channel")
	}
	return nil
}

func decodeComponent(b []byte, format uint8) (float32, error) {
	switch format {
	case 0: // Float
		bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
		return math.Float32frombits(bits), nil
	case 1: // Float16
		return halfToFloat(uint16(b[0]) | uint16(b[1])<<8), nil
	case 2: // UNorm8
		return float32(b[0]) / 255, nil
	case 4: // UNorm16
		return float32(uint16(b[0])|uint16(b[1])<<8) / 65535, nil
	default:
		return 0, fmt.Errorf("vertex format %d not supported for export", format)
	}
}

// halfToFloat expands an IEEE 754 half-precision value.
func halfToFloat(h uint16) float32 {
	sign := uint32(h>>15) & 1
	exp := uint32(h>>10) & 0x1f
	frac := uint32(h) & 0x3ff

	var bits uint32
	switch {
	case exp == 0 && frac == 0:
		bits = sign << 31
	case exp == 0:
		// Subnormal: normalize.
		e := uint32(127 - 15 + 1)
		for frac&0x400 == 0 {
			frac <<= 1
			e--
		}
		frac &= 0x3ff
		bits = sign<<31 | e<<23 | frac<<13
	case exp == 0x1f:
		bits = sign<<31 | 0xff<<23 | frac<<13
	default:
		bits = sign<<31 | (exp-15+127)<<23 | frac<<13
	}
	return math.Float32frombits(bits)
}

func skipBlendShapeData(r *reader) {
	r.skip(int(r.i32()) * 40) // blend shape vertices
	shapeCount := int(r.i32())
	for i := 0; i < shapeCount; i++ {
		r.skip(10) // firstVertex, vertexCount, hasNormals, hasTangents
		r.align()
	}
	chanCount := int(r.i32())
	for i := 0; i < chanCount; i++ {
		_ = r.alignedString()
		r.skip(12) // nameHash, frameIndex, frameCount
	}
	r.skip(int(r.i32()) * 4) // full weights
}

// skipCompressedMesh walks the CompressedMesh struct, whose packed vectors
// are all empty for uncompressed meshes.
func skipCompressedMesh(r *reader) {
	skipPackedFloatVector(r) // vertices
	skipPackedFloatVector(r) // UV
	skipPackedFloatVector(r) // normals
	skipPackedFloatVector(r) // tangents
	skipPackedIntVector(r)   // weights
	skipPackedIntVector(r)   // normal signs
	skipPackedIntVector(r)   // tangent signs
	skipPackedFloatVector(r) // float colors
	skipPackedIntVector(r)   // bone indices
	skipPackedIntVector(r)   // triangles
	_ = r.u32()              // UV info
}

func skipPackedFloatVector(r *reader) {
	_ = r.u32() // item count
	_ = r.f32() // range
	_ = r.f32() // start
	skipByteArray(r)
	_ = r.u8() // bit size
	r.align()
}

func skipPackedIntVector(r *reader) {
	_ = r.u32() // item count
	skipByteArray(r)
	_ = r.u8() // bit size
	r.align()
}

func skipByteArray(r *reader) {
	n := int(r.i32())
	if n < 0 {
		r.trunc = true
		return
	}
	r.skip(n)
	r.align()
}
