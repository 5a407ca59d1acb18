package curvegen

import (
	"math"

	"github.com/paracore/curvegen/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Rotate rotates p about the Z axis through the origin by angle radians.
// The Z coordinate is preserved.
func Rotate(p r3.Vec, angle float64) r3.Vec {
	if angle == 0 {
		return p
	}
	s, c := math.Sincos(angle)
	return r3.Vec{
		X: p.X*c - p.Y*s,
		Y: p.X*s + p.Y*c,
		Z: p.Z,
	}
}

// Segment is a straight line between two points in metres.
type Segment struct {
	Start, End r3.Vec
}

// Seg is shorthand for a Segment between a and b.
func Seg(a, b r3.Vec) Segment { return Segment{Start: a, End: b} }

// Length returns the euclidean length of the segment.
func (s Segment) Length() float64 {
	return r3.Norm(r3.Sub(s.End, s.Start))
}

// Degenerate reports whether the segment is too short to be emitted.
func (s Segment) Degenerate() bool {
	return !(s.Length() > MinSegmentLength)
}

// Translate returns the segment moved by v.
func (s Segment) Translate(v r3.Vec) Segment {
	return Segment{Start: r3.Add(s.Start, v), End: r3.Add(s.End, v)}
}

// Ring is a closed, ordered sequence of segments describing one profile.
type Ring []Segment

// Closed reports whether the last segment ends where the first starts
// and consecutive segments share endpoints.
func (r Ring) Closed(tol float64) bool {
	n := len(r)
	if n == 0 {
		return false
	}
	for i := range r {
		if !d3.EqualWithin(r[i].End, r[(i+1)%n].Start, tol) {
			return false
		}
	}
	return true
}

// Vertices returns the start point of every segment in order.
func (r Ring) Vertices() d3.Set {
	v := make(d3.Set, len(r))
	for i := range r {
		v[i] = r[i].Start
	}
	return v
}

// Perimeter returns the sum of segment lengths.
func (r Ring) Perimeter() (l float64) {
	for _, s := range r {
		l += s.Length()
	}
	return l
}

// RingFromVertices closes the polygon v into a ring. Degenerate edges are
// dropped and counted; a ring with skipped edges is no longer closed.
func RingFromVertices(v []r3.Vec) (Ring, int) {
	ring := make(Ring, 0, len(v))
	skipped := 0
	for i := range v {
		s := Seg(v[i], v[(i+1)%len(v)])
		if s.Degenerate() {
			skipped++
			continue
		}
		ring = append(ring, s)
	}
	return ring, skipped
}

// LevelRing is one closed floor-plate outline produced for a building level.
type LevelRing struct {
	Index     int
	Elevation float64
	// Rotation about Z in radians applied to this level.
	Rotation float64
	Ring     Ring
	// Skipped counts boundary segments dropped for being degenerate.
	// A non-zero value means Ring is incomplete.
	Skipped int
}

// Profile is a single cross-section of a loft.
type Profile struct {
	Index int
	// T is the normalised height ratio in [0,1].
	T         float64
	Elevation float64
	// Side is the tapered side length before bulging.
	Side float64
	// Rotation is the total rotation (rotation + twist) in radians.
	Rotation    float64
	BulgeEffect float64
	Ring        Ring
}

// ProfileStack is an ordered sequence of profiles, base first.
type ProfileStack []Profile

// Anchors returns the first and last profiles of the stack.
func (ps ProfileStack) Anchors() (base, top Profile) {
	return ps[0], ps[len(ps)-1]
}

// Planar returns the XY projection of a point.
func Planar(p r3.Vec) r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// Segments flattens rings into a single list of segments.
func Segments(rings ...Ring) []Segment {
	n := 0
	for _, r := range rings {
		n += len(r)
	}
	segs := make([]Segment, 0, n)
	for _, r := range rings {
		segs = append(segs, r...)
	}
	return segs
}
