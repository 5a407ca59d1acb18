package sdfx

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
		BaseElevation:   0,
		TopElevation:    20,
		Segments:        3,
		BaseSide:        10,
		TopSide:         6,
		RotationDegrees: 30,
		SegmentsPerSide: 1,
	})
	k := New(40)
	s, err := k.Loft(stack)
	if err != nil {
		t.Fatalf("Loft failed: %v", err)
	}
	bb := s.BoundingBox()
	if bb.Min.Z > 1e-9 || bb.Max.Z < 20-1e-9 {
		t.Errorf("bounding box z range [%g,%g] does not cover [0,20]", bb.Min.Z, bb.Max.Z)
	}
	model, err := k.Mesh(s)
	if err != nil {
		t.Fatalf("Mesh failed: %v", err)
	}
	if len(model) == 0 {
		t.Fatal("mesh is empty")
	}
	for _, tri := range model {
		for _, v := range tri.V {
			if math.Hypot(v.X, v.Y) > 5+1 || v.Z < -1 || v.Z > 21 {
				t.Fatalf("vertex %v outside loft", v)
			}
		}
	}
	t.Logf("loft triangle count: %d", len(model))
}

func TestLoftErrors(t *testing.T) {
	k := New(0)
	if k.Cells != defaultMeshCells {
		t.Errorf("cells %d", k.Cells)
	}
	if _, err := k.Loft(nil); err == nil {
		t.Error("expected error for empty stack")
	}
	bad := curvegen.ProfileStack{{Elevation: 0}, {Elevation: 1}}
	if _, err := k.Loft(bad); err == nil {
		t.Error("expected error for empty rings")
	}
}
