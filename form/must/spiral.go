package must

import (
	"math"

	"github.com/paracore/curvegen"
	"github.com/paracore/curvegen/internal/d2"
	"github.com/paracore/curvegen/internal/d3"
	"github.com/paracore/curvegen/internal/monitoring"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Spiral returns an Archimedean spiral as an ordered list of segments.
// The radius grows linearly with swept angle, from zero at the origin to
// MaxRadius after Turns revolutions. Segments at or under
// curvegen.MinSegmentLength are dropped, so the result is not guaranteed
// to be connected.
func Spiral(p curvegen.SpiralParams) []curvegen.Segment {
	switch {
	case p.Turns < 1:
		panic(curvegen.Errorf("turns", "got %d, need at least 1", p.Turns))
	case !(p.ResolutionDegrees > 0) || p.ResolutionDegrees > 360:
		panic(curvegen.Errorf("resolution", "%g degrees not in (0,360]", p.ResolutionDegrees))
	case !(p.MaxRadius > 0) || math.IsInf(p.MaxRadius, 0):
		panic(curvegen.Errorf("max radius", "%g must be positive and finite", p.MaxRadius))
	}
	if p.TooManySamples() {
		panic(curvegen.Errorf("resolution", "%d turns at %g degrees exceeds limit of %d samples", p.Turns, p.ResolutionDegrees, curvegen.SpiralMaxSamples))
	}
	samples := p.Samples()
	if samples > curvegen.SpiralWarnSamples {
		monitoring.Logf("spiral: generating %d samples (turns=%d resolution=%g)", samples, p.Turns, p.ResolutionDegrees)
	}

	delta := curvegen.DtoR(p.ResolutionDegrees)
	sweep := float64(p.Turns) * 2 * math.Pi
	at := func(a float64) r3.Vec {
		v := d2.Pol{R: p.MaxRadius * a / sweep, Theta: a}.PolarToCartesian()
		return d3.FromR2(r2.Add(v, p.Offset), p.Elevation)
	}

	segs := make([]curvegen.Segment, 0, samples)
	dropped := 0
	start := at(0)
	for i := 0; i < samples; i++ {
		end := at(float64(i+1) * delta)
		s := curvegen.Seg(start, end)
		start = end
		if s.Degenerate() {
			dropped++
			continue
		}
		segs = append(segs, s)
	}
	if dropped > 0 {
		monitoring.Logf("spiral: dropped %d of %d degenerate segments", dropped, samples)
	}
	return segs
}
