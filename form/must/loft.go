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

// BulgeEnvelope is a symmetric smoothstep bump in height space.
type BulgeEnvelope struct {
	CenterZ float64
	RadiusZ float64
	Factor  float64
}

// Envelope returns the bulge envelope of p in absolute elevations.
func Envelope(p curvegen.LoftParams) BulgeEnvelope {
	h := p.TopElevation - p.BaseElevation
	factor := p.Bulge.Factor
	if !p.Bulge.Active() {
		factor = 0
	}
	return BulgeEnvelope{
		CenterZ: p.BaseElevation + p.Bulge.CenterRatio*h,
		RadiusZ: p.Bulge.RadiusRatio * h,
		Factor:  factor,
	}
}

// Effect returns the radial scale at elevation z. It is 1 outside the open
// interval (CenterZ-RadiusZ, CenterZ+RadiusZ) and 1+Factor at CenterZ.
func (b BulgeEnvelope) Effect(z float64) float64 {
	if b.Factor == 0 || !(b.RadiusZ > 0) {
		return 1
	}
	d := math.Abs(z-b.CenterZ) / b.RadiusZ
	if d >= 1 {
		return 1
	}
	return 1 + b.Factor*curvegen.Smoothstep(d)
}

// Loft returns the profile stack of a tapered, rotated square loft with an
// optional bulge. Profile i sits at t = i/(n-1). The first and last profiles
// are anchors and never take the bulge.
//
// Each square is inscribed in the circle of radius side/2 and each of its
// four sides is subdivided into SegmentsPerSide chords of that circle.
func Loft(p curvegen.LoftParams) curvegen.ProfileStack {
	validateLoft(p)
	n := p.ProfileCount()
	h := p.TopElevation - p.BaseElevation
	env := Envelope(p)
	rotation := curvegen.DtoR(p.RotationDegrees)
	if !p.Clockwise {
		rotation = -rotation
	}
	twist := curvegen.DtoR(p.TwistDegrees)
	nv := 4 * p.SegmentsPerSide
	step := (math.Pi / 2) / float64(p.SegmentsPerSide)

	stack := make(curvegen.ProfileStack, n)
	for i := range stack {
		t := float64(i) / float64(n-1)
		z := p.BaseElevation + t*h
		side := curvegen.Mix(p.BaseSide, p.TopSide, t)
		angle := rotation*t + twist*t
		effect := 1.0
		anchor := i == 0 || i == n-1
		if !anchor {
			effect = env.Effect(z)
		}
		r := side / 2
		v := make([]r3.Vec, nv)
		if !anchor {
			r *= effect
		}
		for j := range v {
			xy := d2.Pol{R: r, Theta: float64(j)*step + angle}.PolarToCartesian()
			v[j] = d3.FromR2(r2.Add(xy, p.Center), z)
		}
		ring, skipped := curvegen.RingFromVertices(v)
		if skipped > 0 {
			monitoring.Logf("loft: profile %d at %g: skipped %d short edges", i, z, skipped)
		}
		stack[i] = curvegen.Profile{
			Index:       i,
			T:           t,
			Elevation:   z,
			Side:        side,
			Rotation:    angle,
			BulgeEffect: effect,
			Ring:        ring,
		}
	}
	return stack
}

func validateLoft(p curvegen.LoftParams) {
	switch {
	case !(p.TopElevation > p.BaseElevation):
		panic(curvegen.Errorf("top elevation", "%g must be above base elevation %g", p.TopElevation, p.BaseElevation))
	case !(p.BaseSide > 0):
		panic(curvegen.Errorf("base side", "%g must be positive", p.BaseSide))
	case !(p.TopSide > 0):
		panic(curvegen.Errorf("top side", "%g must be positive", p.TopSide))
	case p.SegmentsPerSide < 1:
		panic(curvegen.Errorf("segments per side", "got %d, need at least 1", p.SegmentsPerSide))
	}
	if !p.Bulge.Active() {
		return
	}
	if p.Bulge.CenterRatio < 0 || p.Bulge.CenterRatio > 1 {
		panic(curvegen.Errorf("bulge center", "ratio %g not in [0,1]", p.Bulge.CenterRatio))
	}
	if !(p.Bulge.RadiusRatio > 0) || p.Bulge.RadiusRatio > 0.5 {
		panic(curvegen.Errorf("bulge radius", "ratio %g not in (0,0.5]", p.Bulge.RadiusRatio))
	}
}
