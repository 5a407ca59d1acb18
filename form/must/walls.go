package must

import (
	"github.com/paracore/curvegen"
	"github.com/paracore/curvegen/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Grid returns CountX+1 segments parallel to Y followed by CountY+1
// segments parallel to X, spanning the whole grid.
func Grid(p curvegen.GridParams) []curvegen.Segment {
	switch {
	case p.CountX < 1 || p.CountY < 1:
		panic(curvegen.Errorf("count", "grid needs at least one bay each way, got %dx%d", p.CountX, p.CountY))
	case !(p.SpacingX > curvegen.MinSegmentLength):
		panic(curvegen.Errorf("spacing x", "%g is too small", p.SpacingX))
	case !(p.SpacingY > curvegen.MinSegmentLength):
		panic(curvegen.Errorf("spacing y", "%g is too small", p.SpacingY))
	}
	o, far := p.Origin, p.Extent()
	z := p.Elevation
	segs := make([]curvegen.Segment, 0, p.CountX+p.CountY+2)
	for i := 0; i <= p.CountX; i++ {
		x := o.X + float64(i)*p.SpacingX
		segs = append(segs, curvegen.Seg(r3.Vec{X: x, Y: o.Y, Z: z}, r3.Vec{X: x, Y: far.Y, Z: z}))
	}
	for j := 0; j <= p.CountY; j++ {
		y := o.Y + float64(j)*p.SpacingY
		segs = append(segs, curvegen.Seg(r3.Vec{X: o.X, Y: y, Z: z}, r3.Vec{X: far.X, Y: y, Z: z}))
	}
	return segs
}

// LinearWall returns a segment of the given length centred on the origin,
// running along X or along Y.
func LinearWall(length float64, alongX bool, elevation float64) curvegen.Segment {
	if !(length > curvegen.MinSegmentLength) {
		panic(curvegen.Errorf("length", "%g is too short", length))
	}
	h := length / 2
	if alongX {
		return curvegen.Seg(r3.Vec{X: -h, Z: elevation}, r3.Vec{X: h, Z: elevation})
	}
	return curvegen.Seg(r3.Vec{Y: -h, Z: elevation}, r3.Vec{Y: h, Z: elevation})
}

// Offset moves s sideways by distance in the XY plane. Positive distances
// move to the left of the segment direction.
func Offset(s curvegen.Segment, distance float64) curvegen.Segment {
	dir := r2.Sub(curvegen.Planar(s.End), curvegen.Planar(s.Start))
	if !(r2.Norm(dir) > curvegen.MinSegmentLength) {
		panic(curvegen.Errorf("segment", "planar length %g is too short to offset", r2.Norm(dir)))
	}
	n := r2.Scale(distance, d2.Perp(r2.Unit(dir)))
	return s.Translate(r3.Vec{X: n.X, Y: n.Y})
}
