package must

import (
	"math"

	"github.com/paracore/curvegen"
	"github.com/paracore/curvegen/internal/monitoring"
	"gonum.org/v1/gonum/spatial/r3"
)

// Stack returns one closed rectangle per elevation. The rectangle of level k
// is rotated about its center by k*IncrementDegrees. Edges too short to emit
// are skipped and counted in LevelRing.Skipped.
func Stack(p curvegen.StackParams) []curvegen.LevelRing {
	switch {
	case len(p.Elevations) == 0:
		panic(curvegen.Errorf("elevations", "no levels given"))
	case !(p.Width > 0):
		panic(curvegen.Errorf("width", "%g must be positive", p.Width))
	case !(p.Depth > 0):
		panic(curvegen.Errorf("depth", "%g must be positive", p.Depth))
	}
	for k := 1; k < len(p.Elevations); k++ {
		if p.Elevations[k] < p.Elevations[k-1] {
			panic(curvegen.Errorf("elevations", "level %d at %g is below level %d at %g",
				k, p.Elevations[k], k-1, p.Elevations[k-1]))
		}
	}

	hw, hd := p.Width/2, p.Depth/2
	corners := [4]r3.Vec{
		{X: -hw, Y: -hd},
		{X: hw, Y: -hd},
		{X: hw, Y: hd},
		{X: -hw, Y: hd},
	}
	inc := curvegen.DtoR(p.IncrementDegrees)
	levels := make([]curvegen.LevelRing, len(p.Elevations))
	for k, z := range p.Elevations {
		if math.IsNaN(z) || math.IsInf(z, 0) {
			panic(curvegen.Errorf("elevations", "level %d is not finite", k))
		}
		theta := float64(k) * inc
		var v [4]r3.Vec
		for j, c := range corners {
			c = curvegen.Rotate(c, theta)
			v[j] = r3.Vec{X: c.X + p.Center.X, Y: c.Y + p.Center.Y, Z: z}
		}
		ring, skipped := curvegen.RingFromVertices(v[:])
		if skipped > 0 {
			monitoring.Logf("stack: level %d at %g: skipped %d short edges, outline is incomplete", k, z, skipped)
		}
		levels[k] = curvegen.LevelRing{
			Index:     k,
			Elevation: z,
			Rotation:  theta,
			Ring:      ring,
			Skipped:   skipped,
		}
	}
	return levels
}
