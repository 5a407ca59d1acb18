package render

import (
	"errors"
	"image/png"
	"io"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/spatial/r3"
)

// View positions the preview camera. The mesh is first fit in a bi-unit cube
// centered at the origin, so coordinates are relative to that cube.
type View struct {
	Eye, LookAt, Up r3.Vec
	Near, Far       float64
}

// IsoView looks at the origin from above and to the side.
var IsoView = View{
	Eye:    r3.Vec{X: 3, Y: -3, Z: 2.5},
	LookAt: r3.Vec{},
	Up:     r3.Vec{Z: 1},
	Near:   1,
	Far:    20,
}

// PreviewOptions control the shaded preview image.
type PreviewOptions struct {
	Width, Height int
	// Scale is the supersampling factor. Values below 1 are treated as 1.
	Scale int
	View  View
	// Color and Background are hex colors such as "#468966".
	Color      string
	Background string
}

func (o *PreviewOptions) defaults() {
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 600
	}
	if o.Scale < 1 {
		o.Scale = 1
	}
	if o.View == (View{}) {
		o.View = IsoView
	}
	if o.Color == "" {
		o.Color = "#468966"
	}
	if o.Background == "" {
		o.Background = "#FFF8E3"
	}
}

// Preview renders model with Phong shading and writes a PNG to w.
func Preview(w io.Writer, model []Triangle3, opts PreviewOptions) error {
	if len(model) == 0 {
		return errors.New("empty triangle slice")
	}
	opts.defaults()
	const fovy = 30 // vertical field of view in degrees

	tris := make([]*fauxgl.Triangle, 0, len(model))
	for _, t := range model {
		tris = append(tris, fauxgl.NewTriangleForPoints(fv(t.V[0]), fv(t.V[1]), fv(t.V[2])))
	}
	mesh := fauxgl.NewTriangleMesh(tris)

	var (
		view   = opts.View
		eye    = fv(view.Eye)
		center = fv(view.LookAt)
		up     = fv(view.Up)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
	)
	// fit mesh in a bi-unit cube centered at the origin
	mesh.BiUnitCube()
	context := fauxgl.NewContext(opts.Width*opts.Scale, opts.Height*opts.Scale)
	context.ClearColorBufferWith(fauxgl.HexColor(opts.Background))
	aspect := float64(opts.Width) / float64(opts.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.HexColor(opts.Color)
	context.Shader = shader
	context.DrawMesh(mesh)
	// downsample image for antialiasing
	image := context.Image()
	image = resize.Resize(uint(opts.Width), uint(opts.Height), image, resize.Bilinear)
	return png.Encode(w, image)
}

func fv(v r3.Vec) fauxgl.Vector {
	return fauxgl.V(v.X, v.Y, v.Z)
}
