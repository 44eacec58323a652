// Package wavefront writes decoded meshes as Wavefront OBJ text.
package wavefront

import (
	"bytes"
	"fmt"

	"saber2reesaber/internal/bundle"
)

// Encode renders a mesh as OBJ. Indices are 1-based; each triangle-list
// submesh becomes its own group. Meshes without any exportable triangles
// produce an error so callers can skip them.
func Encode(m *bundle.Mesh) ([]byte, error) {
	if len(m.Positions) == 0 {
		return nil, fmt.Errorf("wavefront: mesh %q has no vertices", m.Name)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "o %s\n", m.Name)

	for _, p := range m.Positions {
		fmt.Fprintf(&buf, "v %g %g %g\n", p[0], p[1], p[2])
	}
	for _, uv := range m.UV0 {
		fmt.Fprintf(&buf, "vt %g %g\n", uv[0], uv[1])
	}
	for _, n := range m.Normals {
		fmt.Fprintf(&buf, "vn %g %g %g\n", n[0], n[1], n[2])
	}

	hasUV := len(m.UV0) == len(m.Positions)
	hasNormals := len(m.Normals) == len(m.Positions)

	faces := 0
	for si, sub := range m.SubMeshes {
		if sub.Topology != bundle.TopologyTriangles {
			continue
		}
		fmt.Fprintf(&buf, "g %s_%d\n", m.Name, si)
		for i := sub.FirstIndex; i+2 < sub.FirstIndex+sub.IndexCount; i += 3 {
			a := m.Indices[i] + sub.BaseVertex
			b := m.Indices[i+1] + sub.BaseVertex
			c := m.Indices[i+2] + sub.BaseVertex
			if int(a) >= len(m.Positions) || int(b) >= len(m.Positions) || int(c) >= len(m.Positions) {
				return nil, fmt.Errorf("wavefront: mesh %q: face index out of range", m.Name)
			}
			writeFace(&buf, a+1, b+1, c+1, hasUV, hasNormals)
			faces++
		}
	}
	if faces == 0 {
		return nil, fmt.Errorf("wavefront: mesh %q has no triangles", m.Name)
	}
	return buf.Bytes(), nil
}

func writeFace(buf *bytes.Buffer, a, b, c uint32, hasUV, hasNormals bool) {
	switch {
	case hasUV && hasNormals:
		fmt.Fprintf(buf, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
	case hasUV:
		fmt.Fprintf(buf, "f %d/%d %d/%d %d/%d\n", a, a, b, b, c, c)
	case hasNormals:
		fmt.Fprintf(buf, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
	default:
		fmt.Fprintf(buf, "f %d %d %d\n", a, b, c)
	}
}
