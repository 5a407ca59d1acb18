package render_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/paracore/curvegen"
	"github.com/paracore/curvegen/form/must"
	"github.com/paracore/curvegen/internal/monitoring"
	"github.com/paracore/curvegen/render"
	"gonum.org/v1/gonum/spatial/r3"
)

func init() {
	monitoring.SetLogger(nil)
}

func testLoft() curvegen.ProfileStack {
	return must.Loft(curvegen.LoftParams{
		BaseElevation:   0,
		TopElevation:    30,
		Segments:        6,
		BaseSide:        10,
		TopSide:         4,
		RotationDegrees: 45,
		SegmentsPerSide: 2,
		Bulge:           curvegen.BulgeParams{Factor: 0.5, CenterRatio: 0.5, RadiusRatio: 0.4},
	})
}

func TestSTLCreateWriteRead(t *testing.T) {
	model, err := render.Triangulate(testLoft(), true)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "loft.stl")
	err = render.CreateSTL(path, render.NewMeshRenderer(model))
	if err != nil {
		t.Fatal(err)
	}
	bfile, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	err = render.WriteSTL(&b, model)
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() != len(bfile) {
		t.Fatalf("WriteSTL and CreateSTL output length mismatch: %d != %d", b.Len(), len(bfile))
	}
	if b.String() != string(bfile) {
		t.Fatal("WriteSTL and CreateSTL output mismatch")
	}
	if want := 84 + 50*len(model); len(bfile) != want {
		t.Errorf("file size %d, want %d", len(bfile), want)
	}

	got, err := render.ReadSTL(bytes.NewReader(bfile))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(model) {
		t.Fatalf("read %d triangles, wrote %d", len(got), len(model))
	}
	for i := range got {
		for j := range got[i].V {
			if d := r3.Norm(r3.Sub(got[i].V[j], model[i].V[j])); d > 1e-5 {
				t.Fatalf("triangle %d vertex %d moved by %g", i, j, d)
			}
		}
	}
}

func TestReadSTLRejects(t *testing.T) {
	if _, err := render.ReadSTL(bytes.NewReader(nil)); err == nil {
		t.Error("expected error for empty input")
	}
	model := []render.Triangle3{{V: [3]r3.Vec{{}, {X: 1}, {Y: 1}}}}
	var b bytes.Buffer
	if err := render.WriteSTL(&b, model); err != nil {
		t.Fatal(err)
	}
	truncated := b.Bytes()[:b.Len()-10]
	if _, err := render.ReadSTL(bytes.NewReader(truncated)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("truncated file: got %v", err)
	}
	degenerate := []render.Triangle3{{V: [3]r3.Vec{{}, {}, {Y: 1}}}}
	b.Reset()
	if err := render.WriteSTL(&b, degenerate); err != nil {
		t.Fatal(err)
	}
	if _, err := render.ReadSTL(&b); err == nil {
		t.Error("expected degenerate triangle error")
	}
	if err := render.WriteSTL(io.Discard, nil); err == nil {
		t.Error("expected error writing empty model")
	}
}
