package kernel

import "github.com/paracore/curvegen/render"

// Mesh is an indexed triangle mesh suitable for web viewers.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Name     string    `json:"name,omitempty"`
}

// NewMesh flattens triangles into a Mesh. Vertices are not shared between
// triangles so every vertex carries its face normal.
func NewMesh(name string, model []render.Triangle3) *Mesh {
	m := &Mesh{
		Vertices: make([]float32, 0, 9*len(model)),
		Normals:  make([]float32, 0, 9*len(model)),
		Indices:  make([]uint32, 0, 3*len(model)),
		Name:     name,
	}
	for i, tri := range model {
		n := tri.Normal()
		for j, v := range tri.V {
			m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
			m.Indices = append(m.Indices, uint32(i*3+j))
		}
	}
	return m
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}
