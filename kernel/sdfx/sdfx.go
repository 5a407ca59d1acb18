// Package sdfx implements kernel.Kernel using the github.com/deadsy/sdfx
// SDF-based CAD library. Consecutive profiles are lofted pairwise and the
// bands are unioned, then meshed with marching cubes.
package sdfx

import (
	"errors"
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/paracore/curvegen"
	"github.com/paracore/curvegen/kernel"
	crender "github.com/paracore/curvegen/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() r3.Box {
	bb := s.s.BoundingBox()
	return r3.Box{
		Min: r3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z},
		Max: r3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z},
	}
}

// Kernel implements kernel.Kernel using sdfx.
type Kernel struct {
	// Cells is the marching cubes resolution along the longest axis.
	Cells int
}

// New returns a Kernel meshing with cells along the longest axis. Zero or
// negative cells selects the default resolution.
func New(cells int) *Kernel {
	if cells <= 0 {
		cells = defaultMeshCells
	}
	return &Kernel{Cells: cells}
}

// Loft builds the union of pairwise lofts between consecutive profiles.
func (k *Kernel) Loft(stack curvegen.ProfileStack) (kernel.Solid, error) {
	if len(stack) < 2 {
		return nil, errors.New("need at least two profiles to loft")
	}
	polys := make([]sdf.SDF2, len(stack))
	for i, p := range stack {
		if len(p.Ring) < 3 {
			return nil, fmt.Errorf("profile %d has %d segments, need at least 3", i, len(p.Ring))
		}
		verts := make([]v2.Vec, len(p.Ring))
		for j, s := range p.Ring {
			verts[j] = v2.Vec{X: s.Start.X, Y: s.Start.Y}
		}
		poly, err := sdf.Polygon2D(verts)
		if err != nil {
			return nil, fmt.Errorf("profile %d: %w", i, err)
		}
		polys[i] = poly
	}
	bands := make([]sdf.SDF3, 0, len(stack)-1)
	for i := 0; i+1 < len(stack); i++ {
		lo, hi := stack[i].Elevation, stack[i+1].Elevation
		h := hi - lo
		if !(h > 0) {
			return nil, fmt.Errorf("profile %d at %g is not above profile %d at %g", i+1, hi, i, lo)
		}
		band, err := sdf.Loft3D(polys[i], polys[i+1], h, 0)
		if err != nil {
			return nil, fmt.Errorf("band %d: %w", i, err)
		}
		// Loft3D is centered on z=0.
		m := sdf.Translate3d(v3.Vec{Z: lo + h/2})
		bands = append(bands, sdf.Transform3D(band, m))
	}
	return &sdfxSolid{s: sdf.Union3D(bands...)}, nil
}

// Mesh converts a solid to triangles using marching cubes.
func (k *Kernel) Mesh(s kernel.Solid) ([]crender.Triangle3, error) {
	ss, ok := s.(*sdfxSolid)
	if !ok {
		return nil, fmt.Errorf("sdfx: foreign solid %T", s)
	}
	cells := k.Cells
	if cells <= 0 {
		cells = defaultMeshCells
	}
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(ss.s, renderer)
	if len(triangles) == 0 {
		return nil, errors.New("sdfx: marching cubes produced no triangles")
	}
	model := make([]crender.Triangle3, 0, len(triangles))
	for _, tri := range triangles {
		t := crender.Triangle3{V: [3]r3.Vec{fromV3(tri[0]), fromV3(tri[1]), fromV3(tri[2])}}
		if t.Degenerate(0) {
			continue
		}
		model = append(model, t)
	}
	return model, nil
}

func fromV3(v v3.Vec) r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}
