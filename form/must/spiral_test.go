package must_test

import (
	"errors"
	"math"
	"testing"

	"github.com/paracore/curvegen"
	"github.com/paracore/curvegen/form/must"
	"github.com/paracore/curvegen/internal/monitoring"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func init() {
	monitoring.SetLogger(nil)
}

func TestSpiralScenario(t *testing.T) {
	p := curvegen.SpiralParams{MaxRadius: 24, Turns: 10, ResolutionDegrees: 20}
	if got := p.Samples(); got != 180 {
		t.Fatalf("want 180 samples, got %d", got)
	}
	segs := must.Spiral(p)
	if len(segs) != 180 {
		t.Fatalf("want 180 segments, got %d", len(segs))
	}
	last := segs[len(segs)-1].End
	if r := r3.Norm(last); math.Abs(r-24) > 1e-9 {
		t.Errorf("final radius %g, want 24", r)
	}
	// 3600 degrees lands back on the +X axis.
	if math.Abs(last.Y) > 1e-9 || last.X < 0 {
		t.Errorf("final point %v not on +X axis", last)
	}
	if segs[0].Start != (r3.Vec{}) {
		t.Errorf("spiral should start at origin, got %v", segs[0].Start)
	}
}

func TestSpiralRadiusMonotonic(t *testing.T) {
	for _, p := range []curvegen.SpiralParams{
		{MaxRadius: 24, Turns: 10, ResolutionDegrees: 20},
		{MaxRadius: 3, Turns: 1, ResolutionDegrees: 360},
		{MaxRadius: 7.5, Turns: 4, ResolutionDegrees: 7},
		{MaxRadius: 100, Turns: 2, ResolutionDegrees: 0.5},
	} {
		segs := must.Spiral(p)
		prev := 0.0
		for i, s := range segs {
			r0, r1 := r3.Norm(s.Start), r3.Norm(s.End)
			if r0 < prev-1e-12 || r1 < r0 {
				t.Fatalf("%+v: radius decreased at segment %d: %g -> %g -> %g", p, i, prev, r0, r1)
			}
			prev = r1
		}
		if prev > p.MaxRadius+1e-9 {
			t.Errorf("%+v: radius %g exceeds max", p, prev)
		}
	}
}

func TestSpiralDropsDegenerate(t *testing.T) {
	p := curvegen.SpiralParams{MaxRadius: 0.1, Turns: 1, ResolutionDegrees: 1}
	segs := must.Spiral(p)
	if len(segs) == 0 || len(segs) >= p.Samples() {
		t.Fatalf("expected some but not all segments dropped, got %d of %d", len(segs), p.Samples())
	}
	for i, s := range segs {
		if !(s.Length() > curvegen.MinSegmentLength) {
			t.Fatalf("segment %d has length %g", i, s.Length())
		}
	}
}

func TestSpiralOffsetElevation(t *testing.T) {
	base := must.Spiral(curvegen.SpiralParams{MaxRadius: 5, Turns: 2, ResolutionDegrees: 15})
	moved := must.Spiral(curvegen.SpiralParams{
		MaxRadius: 5, Turns: 2, ResolutionDegrees: 15,
		Elevation: 3.5,
		Offset:    r2.Vec{X: 10, Y: -2},
	})
	if len(base) != len(moved) {
		t.Fatalf("length mismatch %d != %d", len(base), len(moved))
	}
	for i := range base {
		want := base[i].Translate(r3.Vec{X: 10, Y: -2, Z: 3.5})
		if r3.Norm(r3.Sub(want.Start, moved[i].Start)) > 1e-12 || r3.Norm(r3.Sub(want.End, moved[i].End)) > 1e-12 {
			t.Fatalf("segment %d: want %v, got %v", i, want, moved[i])
		}
	}
}

func TestSpiralSampleOverflow(t *testing.T) {
	p := curvegen.SpiralParams{MaxRadius: 1, Turns: math.MaxInt, ResolutionDegrees: 0.001}
	if got := p.Samples(); got != math.MaxInt {
		t.Errorf("samples %d not saturated", got)
	}
	if !p.TooManySamples() {
		t.Error("overflowing request not reported")
	}
	defer func() {
		err, _ := recover().(error)
		if !errors.Is(err, curvegen.ErrInvalidParameter) {
			t.Errorf("want invalid parameter panic, got %v", err)
		}
	}()
	must.Spiral(p)
}

func TestSpiralPanics(t *testing.T) {
	for _, p := range []curvegen.SpiralParams{
		{MaxRadius: 1, Turns: 0, ResolutionDegrees: 10},
		{MaxRadius: 1, Turns: 1, ResolutionDegrees: 0},
		{MaxRadius: 1, Turns: 1, ResolutionDegrees: -5},
		{MaxRadius: 1, Turns: 1, ResolutionDegrees: 361},
		{MaxRadius: 0, Turns: 1, ResolutionDegrees: 10},
		{MaxRadius: math.NaN(), Turns: 1, ResolutionDegrees: 10},
		{MaxRadius: 1, Turns: 10_000, ResolutionDegrees: 0.001},
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%+v: expected panic", p)
				}
			}()
			must.Spiral(p)
		}()
	}
}
