// Package render turns generated geometry into meshes and files: triangulated
// lofts, binary STL, plan-view and shaded preview images.
package render

import "io"

// Renderer streams triangles. ReadTriangles fills t and returns io.EOF once
// every triangle has been read.
type Renderer interface {
	ReadTriangles(t []Triangle3) (int, error)
}

// NewMeshRenderer returns a Renderer over an in-memory mesh. The mesh is
// not copied.
func NewMeshRenderer(model []Triangle3) Renderer {
	return &meshRenderer{buf: triangle3Buffer{buf: model}}
}

type meshRenderer struct {
	buf triangle3Buffer
}

func (m *meshRenderer) ReadTriangles(t []Triangle3) (int, error) {
	if m.buf.Len() == 0 {
		return 0, io.EOF
	}
	return m.buf.Read(t), nil
}
