package bundle

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// Serialized file format versions this loader understands. 17 covers Unity
// 2017.x, 22 covers the large-file layout introduced with 2020.1.
const (
	serializedVersionMin = 17
	serializedVersionMax = 22
)

// engineVersion is the parsed major/minor of the Unity version that wrote a
// serialized file, e.g. 2019.4 for "2019.4.28f1".
type engineVersion struct {
	major int
	minor int
}

func (v engineVersion) atLeast(major, minor int) bool {
	if v.major != major {
		return v.major > major
	}
	return v.minor >= minor
}

func parseEngineVersion(s string) engineVersion {
	parts := strings.SplitN(s, ".", 3)
	var v engineVersion
	if len(parts) > 0 {
		v.major, _ = strconv.Atoi(parts[0])
	}
	if len(parts) > 1 {
		v.minor, _ = strconv.Atoi(parts[1])
	}
	return v
}

type serializedType struct {
	classID ClassID
}

type serializedFile struct {
	formatVersion uint32
	engineString  string
	engine        engineVersion
	platform      int32
	order         binary.ByteOrder
	data          []byte
	dataOffset    int64
	types         []serializedType
	objects       []*Object
	bundle        *Bundle
}

// parseSerializedFile reads the header, type table and object table of one
// serialized file. Object payloads are sliced lazily when an object is read.
func parseSerializedFile(data []byte, owner *Bundle) (*serializedFile, error) {
	// Header is big-endian regardless of the file's own endianness byte.
	r := newReader(data, binary.BigEndian)

	metadataSize := int64(r.u32())
	fileSize := int64(r.u32())
	version := r.u32()
	dataOffset := int64(r.u32())

	if version < serializedVersionMin || version > serializedVersionMax {
		return nil, fmt.Errorf("unsupported serialized format version %d", version)
	}

	bigEndian := r.u8() != 0
	r.skip(3) // reserved

	if version >= 22 {
		metadataSize = int64(r.u32())
		fileSize = r.i64()
		dataOffset = r.i64()
		r.skip(8) // unknown
	}
	if r.short() {
		return nil, fmt.Errorf("truncated header")
	}
	if fileSize > int64(len(data)) || dataOffset > int64(len(data)) || dataOffset < 0 {
		return nil, fmt.Errorf("header sizes out of range")
	}
	_ = metadataSize

	sf := &serializedFile{
		formatVersion: version,
		data:          data,
		dataOffset:    dataOffset,
		bundle:        owner,
	}
	if bigEndian {
		sf.order = binary.BigEndian
	} else {
		sf.order = binary.LittleEndian
	}

	// Metadata is written in the file's own byte order.
	r.order = sf.order

	sf.engineString = r.cstring()
	sf.engine = parseEngineVersion(sf.engineString)
	sf.platform = r.i32()
	enableTypeTree := r.boolean()

	typeCount := int(r.i32())
	if typeCount < 0 || typeCount > 1<<16 {
		return nil, fmt.Errorf("implausible type count %d", typeCount)
	}
	sf.types = make([]serializedType, typeCount)
	for i := 0; i < typeCount; i++ {
		classID := ClassID(r.i32())
		_ = r.boolean() // stripped
		_ = r.i16()     // script type index
		if classID == ClassMonoBehaviour {
			r.skip(16) // script hash
		}
		r.skip(16) // old type hash
		if enableTypeTree {
			if err := skipTypeTree(r, version); err != nil {
				return nil, fmt.Errorf("type %d: %w", i, err)
			}
		}
		sf.types[i] = serializedType{classID: classID}
	}

	objectCount := int(r.i32())
	if objectCount < 0 || objectCount > 1<<24 {
		return nil, fmt.Errorf("implausible object count %d", objectCount)
	}
	for i := 0; i < objectCount; i++ {
		r.align()
		pathID := r.i64()
		var start int64
		if version >= 22 {
			start = r.i64()
		} else {
			start = int64(r.u32())
		}
		size := int64(r.u32())
		typeIdx := int(r.i32())
		if r.short() {
			return nil, fmt.Errorf("truncated object table at entry %d", i)
		}
		if typeIdx < 0 || typeIdx >= len(sf.types) {
			return nil, fmt.Errorf("object %d references unknown type %d", pathID, typeIdx)
		}
		if start < 0 || dataOffset+start+size > int64(len(data)) {
			return nil, fmt.Errorf("object %d payload out of range", pathID)
		}
		sf.objects = append(sf.objects, &Object{
			PathID: pathID,
			Class:  sf.types[typeIdx].classID,
			Size:   size,
			file:   sf,
			start:  dataOffset + start,
		})
	}

	// Script types, externals and user information follow; nothing in this
	// loader needs them.
	return sf, nil
}

// skipTypeTree walks over an embedded type tree without materializing it.
// Since format 12 the tree is a flat node array plus a string buffer.
func skipTypeTree(r *reader, version uint32) error {
	nodeCount := int(r.i32())
	bufSize := int(r.i32())
	if nodeCount < 0 || bufSize < 0 {
		return fmt.Errorf("implausible type tree header")
	}
	nodeSize := 24
	if version >= 19 {
		nodeSize = 32 // adds the 64-bit ref type hash
	}
	r.skip(nodeCount*nodeSize + bufSize)
	if version >= 21 {
		depCount := int(r.i32())
		if depCount < 0 {
			return fmt.Errorf("implausible dependency count")
		}
		r.skip(depCount * 4)
	}
	if r.short() {
		return fmt.Errorf("truncated type tree")
	}
	return nil
}

// objectByPathID resolves a PPtr target inside the same serialized file.
func (sf *serializedFile) objectByPathID(pathID int64) *Object {
	for _, o := range sf.objects {
		if o.PathID == pathID {
			return o
		}
	}
	return nil
}
