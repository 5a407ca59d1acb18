package render_test

import (
	"math"
	"testing"

	"github.com/paracore/curvegen"
	"github.com/paracore/curvegen/render"
	"gonum.org/v1/gonum/spatial/r3"
)

type edge [2]r3.Vec

// edgeUse counts directed edges. In a closed, consistently wound mesh every
// directed edge appears exactly once and its reverse appears exactly once.
func edgeUse(model []render.Triangle3) map[edge]int {
	use := make(map[edge]int)
	for _, t := range model {
		for i := range t.V {
			use[edge{t.V[i], t.V[(i+1)%3]}]++
		}
	}
	return use
}

func TestTriangulateWatertight(t *testing.T) {
	stack := testLoft()
	model, err := render.Triangulate(stack, true)
	if err != nil {
		t.Fatal(err)
	}
	m := len(stack[0].Ring)
	if want := 2*m*(len(stack)-1) + 2*m; len(model) != want {
		t.Errorf("got %d triangles, want %d", len(model), want)
	}
	use := edgeUse(model)
	for e, n := range use {
		if n != 1 || use[edge{e[1], e[0]}] != 1 {
			t.Fatalf("edge %v used %d times, reverse %d times", e, n, use[edge{e[1], e[0]}])
		}
	}
	// Outward normals give a positive signed volume.
	var vol float64
	for _, tri := range model {
		vol += r3.Dot(tri.V[0], r3.Cross(tri.V[1], tri.V[2])) / 6
	}
	if !(vol > 0) {
		t.Errorf("signed volume %g is not positive", vol)
	}
}

func TestTriangulateOpen(t *testing.T) {
	stack := testLoft()
	model, err := render.Triangulate(stack, false)
	if err != nil {
		t.Fatal(err)
	}
	m := len(stack[0].Ring)
	if want := 2 * m * (len(stack) - 1); len(model) != want {
		t.Errorf("got %d triangles, want %d", len(model), want)
	}
}

func TestTriangulateErrors(t *testing.T) {
	stack := testLoft()
	if _, err := render.Triangulate(stack[:1], true); err == nil {
		t.Error("expected error for single profile")
	}
	broken := append(curvegen.ProfileStack{}, stack...)
	broken[1].Ring = broken[1].Ring[1:]
	if _, err := render.Triangulate(broken, true); err == nil {
		t.Error("expected error for open ring")
	}
}

func TestWalls(t *testing.T) {
	segs := []curvegen.Segment{
		curvegen.Seg(r3.Vec{}, r3.Vec{X: 4}),
		curvegen.Seg(r3.Vec{X: 4}, r3.Vec{X: 4, Y: 3}),
		curvegen.Seg(r3.Vec{X: 1}, r3.Vec{X: 1, Z: 5}), // no footprint
	}
	model := render.Walls(segs, 3, 0.2)
	// 8 side and 8 cap triangles per wall.
	if len(model) != 2*16 {
		t.Fatalf("got %d triangles, want 32", len(model))
	}
	var area float64
	for _, tri := range model[:16] {
		area += tri.Area()
	}
	// 4 x 3 x 0.2 box.
	want := 2 * (4*3 + 4*0.2 + 3*0.2)
	if math.Abs(area-want) > 1e-9 {
		t.Errorf("box area %g, want %g", area, want)
	}
	bb := render.Bounds(model)
	if bb.Max.Z != 3 || bb.Min.Z != 0 {
		t.Errorf("bounds %+v", bb)
	}
}
