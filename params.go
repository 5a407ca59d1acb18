package curvegen

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// SpiralWarnSamples is the sample count above which spiral generation
	// logs a resource warning.
	SpiralWarnSamples = 100_000
	// SpiralMaxSamples is the largest sample count a spiral may request.
	SpiralMaxSamples = 2_000_000
	// MinLoftSegments is the smallest number of vertical loft segments.
	// Requests below it are clamped up.
	MinLoftSegments = 3
)

// SpiralParams describes an Archimedean spiral polyline.
type SpiralParams struct {
	MaxRadius float64
	// Turns is the number of full revolutions, at least 1.
	Turns int
	// ResolutionDegrees is the swept angle per segment in (0, 360].
	ResolutionDegrees float64
	Elevation         float64
	Offset            r2.Vec
}

// Samples returns floor(Turns*360/ResolutionDegrees), saturated at
// math.MaxInt.
func (p SpiralParams) Samples() int {
	if p.ResolutionDegrees <= 0 {
		return 0
	}
	n := math.Floor(p.samples())
	if n >= math.MaxInt {
		return math.MaxInt
	}
	return int(n)
}

func (p SpiralParams) samples() float64 {
	return float64(p.Turns) * 360 / p.ResolutionDegrees
}

// TooManySamples reports whether p requests more than SpiralMaxSamples.
func (p SpiralParams) TooManySamples() bool {
	return p.ResolutionDegrees > 0 && p.samples() > SpiralMaxSamples
}

// BulgeParams describe a smoothstep envelope in height space.
// A zero Factor disables the envelope.
type BulgeParams struct {
	// Factor is signed: positive bulges outward, negative squeezes.
	Factor float64
	// CenterRatio locates the envelope center between base (0) and top (1).
	CenterRatio float64
	// RadiusRatio is the half height of the envelope as a fraction of the
	// total height, in (0, 0.5].
	RadiusRatio float64
}

// Active reports whether the bulge has any effect.
func (b BulgeParams) Active() bool {
	return b.Factor > bulgeThreshold || b.Factor < -bulgeThreshold
}

const bulgeThreshold = 1e-3

// StackParams describe one rotated rectangle per level elevation.
type StackParams struct {
	// Elevations in ascending order, one per level.
	Elevations []float64
	Width      float64
	Depth      float64
	// IncrementDegrees is added to the rotation of each successive level.
	IncrementDegrees float64
	Center           r2.Vec
}

// LoftParams describe a tapered, twisted and optionally bulged stack of
// square profiles between two elevations.
type LoftParams struct {
	BaseElevation float64
	TopElevation  float64
	// Segments is the number of vertical intervals. Values below
	// MinLoftSegments are clamped.
	Segments        int
	BaseSide        float64
	TopSide         float64
	RotationDegrees float64
	Clockwise       bool
	TwistDegrees    float64
	SegmentsPerSide int
	Bulge           BulgeParams
	Center          r2.Vec
}

// ProfileCount returns the number of profiles the loft produces.
func (p LoftParams) ProfileCount() int {
	return max(p.Segments, MinLoftSegments) + 1
}

// GridParams describe a rectangular grid of straight walls.
type GridParams struct {
	Origin   r2.Vec
	SpacingX float64
	SpacingY float64
	// CountX is the number of bays along X; CountX+1 lines run parallel to Y.
	CountX    int
	CountY    int
	Elevation float64
}

// Extent returns the far corner of the grid.
func (p GridParams) Extent() r2.Vec {
	return r2.Vec{
		X: p.Origin.X + float64(p.CountX)*p.SpacingX,
		Y: p.Origin.Y + float64(p.CountY)*p.SpacingY,
	}
}
