package ruled

import (
	"math"
	"testing"

	"github.com/paracore/curvegen"
	"github.com/paracore/curvegen/form/must"
	"github.com/paracore/curvegen/internal/monitoring"
)

func TestLoft(t *testing.T) {
	monitoring.SetLogger(nil)
	stack := must.Loft(curvegen.LoftParams{
		BaseElevation:   2,
		TopElevation:    12,
		Segments:        4,
		BaseSide:        8,
		TopSide:         8,
		SegmentsPerSide: 1,
	})
	var k Kernel
	s, err := k.Loft(stack)
	if err != nil {
		t.Fatal(err)
	}
	bb := s.BoundingBox()
	if bb.Min.Z != 2 || bb.Max.Z != 12 {
		t.Errorf("z range [%g,%g]", bb.Min.Z, bb.Max.Z)
	}
	// Square inscribed in the circle of radius 4 has its corners on the axes.
	if math.Abs(bb.Max.X-4) > 1e-12 || math.Abs(bb.Min.Y+4) > 1e-12 {
		t.Errorf("bounding box %+v", bb)
	}
	model, err := k.Mesh(s)
	if err != nil {
		t.Fatal(err)
	}
	if want := 2*4*4 + 2*4; len(model) != want {
		t.Errorf("got %d triangles, want %d", len(model), want)
	}
	if _, err := k.Loft(stack[:1]); err == nil {
		t.Error("expected error for single profile")
	}
}
