package render

import (
	"errors"
	"fmt"

	"github.com/paracore/curvegen"
	"github.com/paracore/curvegen/internal/d2"
	"github.com/paracore/curvegen/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

const closureTol = 1e-9

// Triangulate returns the ruled surface through consecutive profiles of stack.
// With caps set the base and top profiles are closed with triangle fans so
// the mesh is watertight. Rings must be closed, counter-clockwise seen from
// above, and share a vertex count.
func Triangulate(stack curvegen.ProfileStack, caps bool) ([]Triangle3, error) {
	if len(stack) < 2 {
		return nil, errors.New("need at least two profiles to triangulate")
	}
	rings := make([]d3.Set, len(stack))
	for i, p := range stack {
		if len(p.Ring) < 3 {
			return nil, fmt.Errorf("profile %d has %d segments, need at least 3", i, len(p.Ring))
		}
		if !p.Ring.Closed(closureTol) {
			return nil, fmt.Errorf("profile %d ring is not closed", i)
		}
		if len(p.Ring) != len(stack[0].Ring) {
			return nil, fmt.Errorf("profile %d has %d segments, profile 0 has %d", i, len(p.Ring), len(stack[0].Ring))
		}
		rings[i] = p.Ring.Vertices()
	}
	return ruled(rings, caps), nil
}

// Walls returns a closed box for each segment, extruded up by height and
// centred on the segment with the given thickness. Segments without planar
// length are skipped.
func Walls(segs []curvegen.Segment, height, thickness float64) []Triangle3 {
	var model []Triangle3
	for _, s := range segs {
		dir := r2.Sub(curvegen.Planar(s.End), curvegen.Planar(s.Start))
		if !(r2.Norm(dir) > curvegen.MinSegmentLength) {
			continue
		}
		n := r2.Scale(thickness/2, d2.Perp(r2.Unit(dir)))
		off := r3.Vec{X: n.X, Y: n.Y}
		base := d3.Set{
			r3.Sub(s.Start, off),
			r3.Sub(s.End, off),
			r3.Add(s.End, off),
			r3.Add(s.Start, off),
		}
		top := make(d3.Set, len(base))
		for i, v := range base {
			top[i] = r3.Add(v, r3.Vec{Z: height})
		}
		model = append(model, ruled([]d3.Set{base, top}, true)...)
	}
	return model
}

func ruled(rings []d3.Set, caps bool) []Triangle3 {
	m := len(rings[0])
	model := make([]Triangle3, 0, 2*m*len(rings))
	add := func(a, b, c r3.Vec) {
		t := Triangle3{V: [3]r3.Vec{a, b, c}}
		if t.Degenerate(0) {
			return
		}
		model = append(model, t)
	}
	for i := 0; i+1 < len(rings); i++ {
		lo, hi := rings[i], rings[i+1]
		for j := 0; j < m; j++ {
			k := (j + 1) % m
			add(lo[j], lo[k], hi[k])
			add(lo[j], hi[k], hi[j])
		}
	}
	if !caps {
		return model
	}
	base, top := rings[0], rings[len(rings)-1]
	cb, ct := base.Centroid(), top.Centroid()
	for j := 0; j < m; j++ {
		k := (j + 1) % m
		add(cb, base[k], base[j])
		add(ct, top[j], top[k])
	}
	return model
}
