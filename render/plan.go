package render

import (
	"errors"
	"image/color"
	"io"

	"github.com/paracore/curvegen"
	"github.com/paracore/curvegen/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlanOptions control the plan-view image.
type PlanOptions struct {
	Title string
	// Size is the side of the square image. Defaults to 6 inches.
	Size vg.Length
	// Format is any format accepted by plot.WriterTo. Defaults to "png".
	Format string
	Color  color.Color
}

// PlanPNG draws the XY projection of segs with equal axis scaling.
// Consecutive connected segments are drawn as one polyline.
func PlanPNG(w io.Writer, segs []curvegen.Segment, opts PlanOptions) error {
	if len(segs) == 0 {
		return errors.New("no segments to plot")
	}
	if opts.Size == 0 {
		opts.Size = 6 * vg.Inch
	}
	if opts.Format == "" {
		opts.Format = "png"
	}
	if opts.Color == nil {
		opts.Color = color.RGBA{R: 0x46, G: 0x89, B: 0x66, A: 0xff}
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"
	p.Add(plotter.NewGrid())

	bb := d2.Box{Min: curvegen.Planar(segs[0].Start), Max: curvegen.Planar(segs[0].Start)}
	for _, run := range polylines(segs) {
		for _, pt := range run {
			bb = bb.Include(r2.Vec{X: pt.X, Y: pt.Y})
		}
		line, err := plotter.NewLine(run)
		if err != nil {
			return err
		}
		line.Color = opts.Color
		line.Width = vg.Points(1)
		p.Add(line)
	}
	// Equal aspect so circles look like circles.
	sq := bb.Square()
	sq = sq.Enlarge(r2.Scale(0.05, sq.Size()))
	p.X.Min, p.X.Max = sq.Min.X, sq.Max.X
	p.Y.Min, p.Y.Max = sq.Min.Y, sq.Max.Y

	wt, err := p.WriterTo(opts.Size, opts.Size, opts.Format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

func polylines(segs []curvegen.Segment) []plotter.XYs {
	var runs []plotter.XYs
	var cur plotter.XYs
	for i, s := range segs {
		if i == 0 || s.Start != segs[i-1].End {
			if len(cur) > 0 {
				runs = append(runs, cur)
			}
			cur = plotter.XYs{{X: s.Start.X, Y: s.Start.Y}}
		}
		cur = append(cur, plotter.XY{X: s.End.X, Y: s.End.Y})
	}
	return append(runs, cur)
}
