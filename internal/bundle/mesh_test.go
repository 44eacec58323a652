package bundle

import (
	"encoding/binary"
	"testing"
)

// meshPayload builds the head of a Mesh object up to the bind-pose array:
// name, zero submeshes, empty blend shape data.
func meshPayload(bindPoseCount int32) []byte {
	var b []byte
	le := binary.LittleEndian

	b = le.AppendUint32(b, 1) // name length
	b = append(b, 'M', 0, 0, 0)
	b = le.AppendUint32(b, 0) // submesh count
	b = le.AppendUint32(b, 0) // blend shape vertices
	b = le.AppendUint32(b, 0) // blend shapes
	b = le.AppendUint32(b, 0) // blend shape channels
	b = le.AppendUint32(b, 0) // full weights
	b = le.AppendUint32(b, uint32(bindPoseCount))
	return b
}

func TestParseMeshNegativeArrayCount(t *testing.T) {
	sf := &serializedFile{
		engineString: "2019.4.28f1",
		engine:       engineVersion{major: 2019, minor: 4},
	}
	r := newReader(meshPayload(-67108864), binary.LittleEndian)

	m, err := parseMesh(r, sf)
	if err == nil {
		t.Fatalf("corrupt bind-pose count decoded as %+v, want error", m)
	}
}

func TestParseMeshTruncated(t *testing.T) {
	sf := &serializedFile{
		engineString: "2019.4.28f1",
		engine:       engineVersion{major: 2019, minor: 4},
	}
	r := newReader(meshPayload(0)[:12], binary.LittleEndian)

	if _, err := parseMesh(r, sf); err == nil {
		t.Fatal("truncated payload should not decode")
	}
}
