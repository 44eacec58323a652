package bundle

import (
	"encoding/binary"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// Supported UnityFS container format versions.
const (
	containerVersionMin = 6
	containerVersionMax = 8
)

const unityFSSignature = "UnityFS"

// Block compression schemes, low 6 bits of the block/container flags.
const (
	compressionNone uint32 = 0
	compressionLZMA uint32 = 1
	compressionLZ4  uint32 = 2
	compressionLZ4H uint32 = 3
)

const (
	flagBlocksInfoAtEnd   uint32 = 0x80
	flagBlocksNeedPadding uint32 = 0x200
	compressionMask       uint32 = 0x3f
)

// Node is one file entry inside the container: either a serialized file
// holding objects or a raw resource stream (.resS, .resource).
type Node struct {
	Path string
	Data []byte

	serialized *serializedFile
}

// Bundle is a fully loaded UnityFS container. All node payloads are held in
// memory; the source file is closed before Open returns.
type Bundle struct {
	Signature     string
	FormatVersion uint32
	EngineVersion string
	Nodes         []*Node

	objects []*Object
}

// Open reads and parses a UnityFS asset bundle. The whole container is
// decompressed up front; every serialized file inside it is indexed.
func Open(filePath string) (*Bundle, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("bundle: read %s: %w", filePath, err)
	}

	b, err := parseContainer(raw)
	if err != nil {
		return nil, fmt.Errorf("bundle: %s: %w", filePath, err)
	}
	return b, nil
}

func parseContainer(raw []byte) (*Bundle, error) {
	// The container header and blocks info are always big-endian.
	r := newReader(raw, binary.BigEndian)

	sig := r.cstring()
	if sig != unityFSSignature {
		return nil, fmt.Errorf("not a UnityFS bundle (signature %q)", sig)
	}

	version := r.u32()
	if version < containerVersionMin || version > containerVersionMax {
		return nil, fmt.Errorf("unsupported container version %d", version)
	}

	_ = r.cstring() // engine compatibility version, e.g. "5.x.x"
	engineVersion := r.cstring()

	size := r.i64()
	compressedInfoSize := int(r.u32())
	uncompressedInfoSize := int(r.u32())
	flags := r.u32()
	if r.short() {
		return nil, fmt.Errorf("truncated container header")
	}
	if size > int64(len(raw)) {
		return nil, fmt.Errorf("container size %d exceeds file size %d", size, len(raw))
	}

	if version >= 7 {
		// Format 7 pads the header to a 16-byte boundary.
		if rem := r.off % 16; rem != 0 {
			r.skip(16 - rem)
		}
	}

	var infoRaw []byte
	if flags&flagBlocksInfoAtEnd != 0 {
		if compressedInfoSize > len(raw) {
			return nil, fmt.Errorf("truncated blocks info")
		}
		infoRaw = raw[len(raw)-compressedInfoSize:]
	} else {
		infoRaw = r.bytes(compressedInfoSize)
		if r.short() {
			return nil, fmt.Errorf("truncated blocks info")
		}
	}

	info, err := decompressBlock(infoRaw, uncompressedInfoSize, flags&compressionMask)
	if err != nil {
		return nil, fmt.Errorf("blocks info: %w", err)
	}

	ir := newReader(info, binary.BigEndian)
	ir.skip(16) // uncompressed data hash

	blockCount := int(ir.i32())
	if blockCount < 0 || blockCount > 1<<20 {
		return nil, fmt.Errorf("implausible block count %d", blockCount)
	}
	type blockInfo struct {
		uncompressed int
		compressed   int
		flags        uint16
	}
	blocks := make([]blockInfo, blockCount)
	for i := range blocks {
		blocks[i].uncompressed = int(ir.u32())
		blocks[i].compressed = int(ir.u32())
		blocks[i].flags = ir.u16()
	}

	nodeCount := int(ir.i32())
	if nodeCount < 0 || nodeCount > 1<<20 {
		return nil, fmt.Errorf("implausible node count %d", nodeCount)
	}
	type nodeInfo struct {
		offset int64
		size   int64
		flags  uint32
		path   string
	}
	nodes := make([]nodeInfo, nodeCount)
	for i := range nodes {
		nodes[i].offset = ir.i64()
		nodes[i].size = ir.i64()
		nodes[i].flags = ir.u32()
		nodes[i].path = ir.cstring()
	}
	if ir.short() {
		return nil, fmt.Errorf("truncated blocks info payload")
	}

	if flags&flagBlocksNeedPadding != 0 {
		if rem := r.off % 16; rem != 0 {
			r.skip(16 - rem)
		}
	}

	// Decompress the storage blocks into one contiguous data region.
	total := 0
	for _, blk := range blocks {
		total += blk.uncompressed
	}
	data := make([]byte, 0, total)
	for i, blk := range blocks {
		comp := r.bytes(blk.compressed)
		if r.short() {
			return nil, fmt.Errorf("truncated data block %d", i)
		}
		out, err := decompressBlock(comp, blk.uncompressed, uint32(blk.flags)&compressionMask)
		if err != nil {
			return nil, fmt.Errorf("data block %d: %w", i, err)
		}
		data = append(data, out...)
	}

	b := &Bundle{
		Signature:     sig,
		FormatVersion: version,
		EngineVersion: engineVersion,
	}
	for _, n := range nodes {
		if n.offset < 0 || n.size < 0 || n.offset+n.size > int64(len(data)) {
			return nil, fmt.Errorf("node %q out of range", n.path)
		}
		b.Nodes = append(b.Nodes, &Node{
			Path: n.path,
			Data: data[n.offset : n.offset+n.size],
		})
	}

	// Index serialized files. Resource streams (.resS etc) stay raw.
	for _, node := range b.Nodes {
		if !looksSerialized(node) {
			continue
		}
		sf, err := parseSerializedFile(node.Data, b)
		if err != nil {
			return nil, fmt.Errorf("serialized file %q: %w", node.Path, err)
		}
		node.serialized = sf
		b.objects = append(b.objects, sf.objects...)
	}
	if len(b.objects) == 0 {
		return nil, fmt.Errorf("no serialized objects in bundle")
	}

	return b, nil
}

// Objects returns every decoded-object handle across all serialized files,
// in container order.
func (b *Bundle) Objects() []*Object { return b.objects }

// resource resolves a m_StreamData path such as
// "archive:/CAB-xxxx/CAB-xxxx.resS" against the container's own nodes.
func (b *Bundle) resource(streamPath string) ([]byte, error) {
	base := path.Base(strings.ReplaceAll(streamPath, "\\", "/"))
	for _, n := range b.Nodes {
		if path.Base(n.Path) == base {
			return n.Data, nil
		}
	}
	return nil, fmt.Errorf("resource stream %q not found in bundle", streamPath)
}

func looksSerialized(n *Node) bool {
	ext := strings.ToLower(path.Ext(n.Path))
	switch ext {
	case ".ress", ".resource":
		return false
	}
	// A serialized file header starts with big-endian metadata/file sizes and
	// a format version in a narrow known range at offset 8.
	if len(n.Data) < 20 {
		return false
	}
	ver := binary.BigEndian.Uint32(n.Data[8:12])
	return ver >= serializedVersionMin && ver <= serializedVersionMax
}

func decompressBlock(comp []byte, uncompressedSize int, scheme uint32) ([]byte, error) {
	switch scheme {
	case compressionNone:
		return comp, nil
	case compressionLZ4, compressionLZ4H:
		out := make([]byte, uncompressedSize)
		n, err := lz4.UncompressBlock(comp, out)
		if err != nil {
			return nil, fmt.Errorf("lz4: %w", err)
		}
		if n != uncompressedSize {
			return nil, fmt.Errorf("lz4: got %d bytes, want %d", n, uncompressedSize)
		}
		return out, nil
	case compressionLZMA:
		return nil, fmt.Errorf("LZMA-compressed bundles are not supported")
	default:
		return nil, fmt.Errorf("unknown compression scheme %d", scheme)
	}
}
