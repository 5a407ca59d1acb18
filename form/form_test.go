package form_test

import (
	"errors"
	"math"
	"testing"

	"github.com/paracore/curvegen"
	"github.com/paracore/curvegen/form"
	"github.com/paracore/curvegen/internal/monitoring"
)

func init() {
	monitoring.SetLogger(nil)
}

func TestInvalidParameters(t *testing.T) {
	for name, f := range map[string]func() error{
		"spiral turns": func() error {
			_, err := form.Spiral(curvegen.SpiralParams{MaxRadius: 1, Turns: 0, ResolutionDegrees: 10})
			return err
		},
		"spiral resolution": func() error {
			_, err := form.Spiral(curvegen.SpiralParams{MaxRadius: 1, Turns: 1, ResolutionDegrees: 0})
			return err
		},
		"spiral sample overflow": func() error {
			_, err := form.Spiral(curvegen.SpiralParams{MaxRadius: 1, Turns: math.MaxInt, ResolutionDegrees: 0.001})
			return err
		},
		"stack width": func() error {
			_, err := form.Stack(curvegen.StackParams{Elevations: []float64{0}, Depth: 1})
			return err
		},
		"loft height": func() error {
			_, err := form.Loft(curvegen.LoftParams{BaseElevation: 3, TopElevation: 3, BaseSide: 1, TopSide: 1, SegmentsPerSide: 1})
			return err
		},
		"grid": func() error {
			_, err := form.Grid(curvegen.GridParams{})
			return err
		},
		"linear wall": func() error {
			_, err := form.LinearWall(-1, true, 0)
			return err
		},
		"offset": func() error {
			_, err := form.Offset(curvegen.Segment{}, 1)
			return err
		},
	} {
		err := f()
		if err == nil {
			t.Errorf("%s: expected error", name)
			continue
		}
		if !errors.Is(err, curvegen.ErrInvalidParameter) {
			t.Errorf("%s: error %v does not wrap ErrInvalidParameter", name, err)
		}
		var perr *curvegen.ParamError
		if !errors.As(err, &perr) {
			t.Errorf("%s: error %v is not a ParamError", name, err)
		}
	}
}

func TestValid(t *testing.T) {
	segs, err := form.Spiral(curvegen.SpiralParams{MaxRadius: 24, Turns: 10, ResolutionDegrees: 20})
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 180 {
		t.Errorf("got %d segments", len(segs))
	}
	stack, err := form.Loft(curvegen.LoftParams{TopElevation: 10, BaseSide: 2, TopSide: 1, SegmentsPerSide: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(stack) != curvegen.MinLoftSegments+1 {
		t.Errorf("got %d profiles", len(stack))
	}
}
