// Package form provides the error-returning counterparts of the generators in
// form/must. Contract violations are reported as errors wrapping
// curvegen.ErrInvalidParameter instead of panics.
package form

import (
	"fmt"
	"runtime/debug"

	"github.com/paracore/curvegen"
	"github.com/paracore/curvegen/form/must"
)

type shapeErr struct {
	panicObj interface{}
	stack    string
}

func (s *shapeErr) Error() string {
	return fmt.Sprintf("%s", s.panicObj)
}

// Unwrap returns the panic value if it was an error. Any other panic is
// classified as an invalid parameter.
func (s *shapeErr) Unwrap() error {
	if err, ok := s.panicObj.(error); ok {
		return err
	}
	return curvegen.ErrInvalidParameter
}

// Stack returns the goroutine stack captured when the generator panicked.
func (s *shapeErr) Stack() string { return s.stack }

// Spiral returns the segments of an Archimedean spiral.
func Spiral(p curvegen.SpiralParams) (segs []curvegen.Segment, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must.Spiral(p), err
}

// Stack returns one rotated rectangle per level elevation.
func Stack(p curvegen.StackParams) (levels []curvegen.LevelRing, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must.Stack(p), err
}

// Loft returns the tapered, bulged profile stack described by p.
func Loft(p curvegen.LoftParams) (stack curvegen.ProfileStack, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must.Loft(p), err
}

// Grid returns the segments of a rectangular wall grid.
func Grid(p curvegen.GridParams) (segs []curvegen.Segment, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must.Grid(p), err
}

// LinearWall returns a centred segment along X or Y.
func LinearWall(length float64, alongX bool, elevation float64) (s curvegen.Segment, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must.LinearWall(length, alongX, elevation), err
}

// Offset moves s sideways by distance in the XY plane.
func Offset(s curvegen.Segment, distance float64) (o curvegen.Segment, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must.Offset(s, distance), err
}
