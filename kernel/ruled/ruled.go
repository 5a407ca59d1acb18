// Package ruled implements kernel.Kernel with an exact ruled surface: each
// pair of consecutive profiles is joined by straight lines between matching
// vertices and the ends are capped.
package ruled

import (
	"github.com/paracore/curvegen"
	"github.com/paracore/curvegen/kernel"
	"github.com/paracore/curvegen/render"
	"gonum.org/v1/gonum/spatial/r3"
)

var _ kernel.Kernel = Kernel{}

// Kernel is the ruled-surface kernel. The zero value is ready to use.
type Kernel struct{}

type solid struct {
	model []render.Triangle3
}

func (s *solid) BoundingBox() r3.Box {
	return render.Bounds(s.model)
}

// Loft triangulates stack into a closed mesh.
func (Kernel) Loft(stack curvegen.ProfileStack) (kernel.Solid, error) {
	model, err := render.Triangulate(stack, true)
	if err != nil {
		return nil, err
	}
	return &solid{model: model}, nil
}

// Mesh returns the triangles of a solid created by Loft.
func (Kernel) Mesh(s kernel.Solid) ([]render.Triangle3, error) {
	return s.(*solid).model, nil
}
