package kernel

import (
	"testing"

	"github.com/paracore/curvegen/render"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewMesh(t *testing.T) {
	tests := []struct {
		name  string
		model []render.Triangle3
		want  int
	}{
		{"empty", nil, 0},
		{"one triangle", []render.Triangle3{{V: [3]r3.Vec{{}, {X: 1}, {Y: 1}}}}, 1},
		{"two triangles", []render.Triangle3{
			{V: [3]r3.Vec{{}, {X: 1}, {Y: 1}}},
			{V: [3]r3.Vec{{X: 1}, {X: 1, Y: 1}, {Y: 1}}},
		}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMesh(tt.name, tt.model)
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
			if got := m.VertexCount(); got != 3*tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, 3*tt.want)
			}
			if m.IsEmpty() != (tt.want == 0) {
				t.Errorf("IsEmpty() = %v", m.IsEmpty())
			}
			if len(m.Normals) != len(m.Vertices) {
				t.Errorf("normals %d != vertices %d", len(m.Normals), len(m.Vertices))
			}
		})
	}
	m := NewMesh("n", []render.Triangle3{{V: [3]r3.Vec{{}, {X: 1}, {Y: 1}}}})
	if m.Normals[2] != 1 {
		t.Errorf("normal z = %v, want 1", m.Normals[2])
	}
}
