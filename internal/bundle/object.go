package bundle

import "fmt"

// Object is a handle to one serialized object inside the bundle. The payload
// is decoded on demand by the Read* methods.
type Object struct {
	PathID int64
	Class  ClassID
	Size   int64

	file  *serializedFile
	start int64
}

// SourceVersion reports the Unity version string of the serialized file the
// object came from.
func (o *Object) SourceVersion() string { return o.file.engineString }

func (o *Object) payload() *reader {
	return newReader(o.file.data[o.start:o.start+o.Size], o.file.order)
}

// ReadMesh decodes the object as a Mesh. Fails when the object is of a
// different class or uses an unsupported layout.
func (o *Object) ReadMesh() (*Mesh, error) {
	if o.Class != ClassMesh {
		return nil, fmt.Errorf("bundle: object %d is %s, not Mesh", o.PathID, o.Class)
	}
	m, err := parseMesh(o.payload(), o.file)
	if err != nil {
		return nil, fmt.Errorf("bundle: mesh %d: %w", o.PathID, err)
	}
	return m, nil
}

// ReadTexture2D decodes the object as a Texture2D.
func (o *Object) ReadTexture2D() (*Texture2D, error) {
	if o.Class != ClassTexture2D {
		return nil, fmt.Errorf("bundle: object %d is %s, not Texture2D", o.PathID, o.Class)
	}
	t, err := parseTexture2D(o.payload(), o.file)
	if err != nil {
		return nil, fmt.Errorf("bundle: texture %d: %w", o.PathID, err)
	}
	return t, nil
}

// ReadSprite decodes the object as a Sprite.
func (o *Object) ReadSprite() (*Sprite, error) {
	if o.Class != ClassSprite {
		return nil, fmt.Errorf("bundle: object %d is %s, not Sprite", o.PathID, o.Class)
	}
	s, err := parseSprite(o.payload(), o.file)
	if err != nil {
		return nil, fmt.Errorf("bundle: sprite %d: %w", o.PathID, err)
	}
	return s, nil
}

// pptr is a serialized object reference: a file index plus a path ID.
type pptr struct {
	fileID int32
	pathID int64
}

func readPPtr(r *reader) pptr {
	p := pptr{fileID: r.i32(), pathID: r.i64()}
	return p
}

func (p pptr) isNull() bool { return p.pathID == 0 }
