package curvegen

import (
	"math"
)

const (
	pi  = math.Pi
	tau = 2 * pi
	// MinSegmentLength is the degeneracy threshold in metres. Segments of
	// this length or shorter are never emitted by a generator.
	MinSegmentLength = 0.0008
)

// DtoR converts degrees to radians
func DtoR(degrees float64) float64 {
	return (pi / 180) * degrees
}

// RtoD converts radians to degrees
func RtoD(radians float64) float64 {
	return (180 / pi) * radians
}

// Mix does a linear interpolation from x to y, a = [0,1]
func Mix(x, y, a float64) float64 {
	return x + (a * (y - x))
}

// Smoothstep is the cubic falloff 1 - 3d² + 2d³ over d in [0,1].
// It is 1 at d=0 and 0 at d=1 with zero slope at both ends.
func Smoothstep(d float64) float64 {
	return 1 - 3*d*d + 2*d*d*d
}
