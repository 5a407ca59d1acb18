package model

import (
	"fmt"

	"github.com/paracore/curvegen"
	"github.com/paracore/curvegen/kernel"
)

func creationErr(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", curvegen.ErrElementCreation, fmt.Sprintf(format, a...))
}

// NewWall validates spec and returns the wall element it describes, without
// an ID. Walls too short or without height are rejected.
func NewWall(spec WallSpec, t ElementType) (Element, error) {
	if spec.Curve.Degenerate() {
		return Element{}, creationErr("wall length %g is too short", spec.Curve.Length())
	}
	if spec.Curve.Start.Z != spec.Curve.End.Z {
		return Element{}, creationErr("wall location line is not horizontal")
	}
	if !(spec.Height > 0) {
		return Element{}, creationErr("wall height %g must be positive", spec.Height)
	}
	if t.Kind != KindWall {
		return Element{}, creationErr("type %q is a %s type, not a wall type", t.Name, t.Kind)
	}
	return Element{
		Category: CategoryWalls,
		Level:    spec.Level,
		Type:     spec.Type,
		Curve:    spec.Curve,
		Height:   spec.Height,
		Params: []Param{
			{Name: ParamLength, Kind: Length, Number: spec.Curve.Length(), ReadOnly: true},
			{Name: ParamHeight, Kind: Length, Number: spec.Height},
			{Name: ParamBaseOffset, Kind: Length},
			{Name: ParamTopOffset, Kind: Length},
			{Name: ParamLocationLine, Kind: Integer},
			{Name: ParamComments, Kind: Text},
		},
	}, nil
}

// NewModelLine returns the model line element along curve.
func NewModelLine(curve curvegen.Segment, level ElementID) (Element, error) {
	if curve.Degenerate() {
		return Element{}, creationErr("line length %g is too short", curve.Length())
	}
	return Element{
		Category: CategoryLines,
		Level:    level,
		Curve:    curve,
		Params: []Param{
			{Name: ParamLength, Kind: Length, Number: curve.Length(), ReadOnly: true},
			{Name: ParamComments, Kind: Text},
		},
	}, nil
}

// NewLoft lofts spec.Stack with k and returns the mass element.
func NewLoft(k kernel.Kernel, spec LoftSpec) (Element, error) {
	if len(spec.Stack) < 2 {
		return Element{}, creationErr("loft needs at least two profiles, got %d", len(spec.Stack))
	}
	solid, err := k.Loft(spec.Stack)
	if err != nil {
		return Element{}, creationErr("loft: %v", err)
	}
	base, top := spec.Stack.Anchors()
	return Element{
		Category: CategoryMass,
		Level:    spec.Base,
		Height:   top.Elevation - base.Elevation,
		Profiles: len(spec.Stack),
		Bounds:   solid.BoundingBox(),
		Params: []Param{
			{Name: ParamTotalHeight, Kind: Length, Number: top.Elevation - base.Elevation, ReadOnly: true},
			{Name: ParamProfileCount, Kind: Integer, Number: float64(len(spec.Stack)), ReadOnly: true},
			{Name: ParamComments, Kind: Text},
		},
	}, nil
}
