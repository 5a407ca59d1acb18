// Package kernel defines the geometry kernel that turns a profile stack into
// a lofted solid. Implementations (ruled, sdfx) sit behind this interface so
// the model repository can swap backends.
package kernel

import (
	"github.com/paracore/curvegen"
	"github.com/paracore/curvegen/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() r3.Box
}

// Kernel lofts profile stacks and tessellates the result.
type Kernel interface {
	Loft(stack curvegen.ProfileStack) (Solid, error)
	Mesh(s Solid) ([]render.Triangle3, error)
}
