package script

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paracore/curvegen"
	"github.com/paracore/curvegen/internal/monitoring"
	"github.com/paracore/curvegen/model"
	"github.com/paracore/curvegen/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func init() {
	monitoring.SetLogger(nil)
}

type fixture struct {
	m      *model.Memory
	l1, l2 model.Level
	roof   model.Level
	wt     model.ElementType
}

func seeded(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	var f fixture
	f.m = model.NewMemory()
	var err error
	f.l1, err = f.m.AddLevel(ctx, "Level 1", 0)
	require.NoError(t, err)
	f.l2, err = f.m.AddLevel(ctx, "Level 2", 3)
	require.NoError(t, err)
	f.roof, err = f.m.AddLevel(ctx, "Roof", 60)
	require.NoError(t, err)
	f.wt, err = f.m.AddElementType(ctx, model.ElementType{Kind: model.KindWall, Name: "Generic - 200mm", Family: model.BasicWallFamily, Width: 0.2})
	require.NoError(t, err)
	for _, t2 := range []model.ElementType{
		{Kind: model.KindWall, Name: "Curtain", Family: "Curtain Wall"},
		{Kind: model.KindWall, Name: "Basic Stacked", Family: model.BasicWallFamily},
	} {
		_, err = f.m.AddElementType(ctx, t2)
		require.NoError(t, err)
	}
	return f
}

func run(t *testing.T, repo model.Repository, name, settings string) *Result {
	t.Helper()
	res, err := Run(context.Background(), repo, name, json.RawMessage(settings))
	require.NoError(t, err)
	return res
}

func TestRegistry(t *testing.T) {
	var names []string
	for _, s := range All() {
		names = append(names, s.Name())
		assert.NotEmpty(t, s.Description())
	}
	assert.Equal(t, []string{
		"coordinate-walls", "delete-walls", "grid-walls", "linear-wall",
		"perimeter-walls", "set-wall-parameter", "spiral-house", "spiral-lines",
		"spiral-mass", "spiral-walls", "wall-parameters", "wall-types",
	}, names)
	_, err := Lookup("teapot")
	assert.ErrorIs(t, err, curvegen.ErrNotFound)
}

func TestSpiralLines(t *testing.T) {
	f := seeded(t)
	res := run(t, f.m, "spiral-lines", `{"level":"Level 2","maxRadius":24,"unit":"m","turns":10,"resolutionDegrees":20}`)
	assert.Equal(t, "180 of 180 model lines created\n", res.Report.String())
	require.Len(t, res.Segments, 180)
	last := res.Segments[len(res.Segments)-1].End
	assert.InDelta(t, 24, r3.Norm(r3.Vec{X: last.X, Y: last.Y}), 1e-9)
	lines := f.m.Elements(model.CategoryLines)
	require.Len(t, lines, 180)
	assert.Equal(t, f.l2.ID, lines[0].Level)
	assert.Equal(t, 3.0, lines[0].Curve.Start.Z)
}

func TestSpiralWalls(t *testing.T) {
	f := seeded(t)
	res := run(t, f.m, "spiral-walls", `{"wallType":"Missing"}`)
	assert.Equal(t, 60, res.Report.Succeeded)
	assert.Equal(t, 60, res.Report.Attempted)
	assert.Contains(t, res.Report.Notes, `wall type "Missing" not found, using "Generic - 200mm"`)
	assert.Equal(t, 3.0, res.WallHeight)
	assert.Equal(t, 0.2, res.WallThickness)
	walls := f.m.Elements(model.CategoryWalls)
	require.Len(t, walls, 60)
	assert.Equal(t, f.wt.ID, walls[0].Type)

	// Every segment of a fine spiral is below the minimum wall length.
	res = run(t, f.m, "spiral-walls", `{"maxRadius":1,"turns":1,"resolutionDegrees":0.1}`)
	assert.Equal(t, 0, res.Report.Attempted)
	require.Len(t, res.Report.Notes, 1)
	assert.True(t, strings.HasSuffix(res.Report.Notes[0], "shorter than 0.03 m left out"), res.Report.Notes[0])
	assert.Len(t, f.m.Elements(model.CategoryWalls), 60)
}

func TestSettingsRejected(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()
	for name, settings := range map[string]string{
		"spiral-walls":       `{"turns":0}`,
		"spiral-lines":       `{"resolutionDegrees":400}`,
		"spiral-house":       `{"width":-1}`,
		"grid-walls":         `{"countX":0}`,
		"linear-wall":        `{"length":0}`,
		"coordinate-walls":   `{"level":"Level 1"}`,
		"set-wall-parameter": `{"name":"Comments"}`,
		"spiral-mass":        `{"topLevel":"Level 1"}`,
		"delete-walls":       `{"confirm":"yes"}`,
		"wall-parameters":    `{"colour":"red"}`,
	} {
		_, err := Run(ctx, f.m, name, json.RawMessage(settings))
		assert.ErrorIs(t, err, curvegen.ErrInvalidParameter, name)
		assert.True(t, strings.HasPrefix(err.Error(), name+": "), err.Error())
	}
	assert.Empty(t, f.m.Elements(model.CategoryWalls))
	assert.Empty(t, f.m.Elements(model.CategoryLines))
}

func TestNamesNotFound(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()
	for name, settings := range map[string]string{
		"spiral-lines": `{"level":"Basement"}`,
		"spiral-mass":  `{"topLevel":"Level 42"}`,
		"linear-wall":  `{"wallType":"Missing"}`,
		"grid-walls":   `{"level":"Attic"}`,
	} {
		_, err := Run(ctx, f.m, name, json.RawMessage(settings))
		assert.ErrorIs(t, err, curvegen.ErrNotFound, name)
	}
	_, err := Run(ctx, model.NewMemory(), "spiral-house", nil)
	assert.ErrorIs(t, err, curvegen.ErrNotFound)
}

func TestSpiralHousePartial(t *testing.T) {
	f := seeded(t)
	f.m.Reject = func(e model.Element) error {
		if e.Level == f.l2.ID {
			return errors.New("level is locked")
		}
		return nil
	}
	res := run(t, f.m, "spiral-house", `{"incrementDegrees":90}`)
	report := res.Report.String()
	assert.True(t, strings.HasPrefix(report, "8 of 12 walls created\n"), report)
	assert.Len(t, res.Report.Diagnostics, 4)
	assert.Contains(t, report, `level "Level 2" side 1`)
	assert.Contains(t, res.Report.Notes, `3 level(s) using "Generic - 200mm"`)
	assert.Len(t, res.Segments, 12)
	assert.Len(t, f.m.Elements(model.CategoryWalls), 8)

	// The second level is turned a quarter turn about the origin.
	first, second := res.Segments[0], res.Segments[4]
	assert.InDelta(t, 10, first.Length(), 1e-9)
	assert.InDelta(t, 10, second.Length(), 1e-9)
	assert.InDelta(t, 10, second.Start.X, 1e-9)
	assert.InDelta(t, -5, second.Start.Y, 1e-9)
}

func TestSpiralMass(t *testing.T) {
	f := seeded(t)
	res := run(t, f.m, "spiral-mass", `{"topLevel":"Roof","segments":1,"unit":"m","baseSide":10,"topSide":6}`)
	assert.Equal(t, "1 of 1 masses created", strings.SplitN(res.Report.String(), "\n", 2)[0])
	assert.Contains(t, res.Report.Notes, "segments raised from 1 to 3")
	require.Len(t, res.Profiles, 4)
	base, top := res.Profiles.Anchors()
	assert.Equal(t, 0.0, base.Elevation)
	assert.Equal(t, 60.0, top.Elevation)
	assert.Equal(t, 6.0, top.Side)

	masses := f.m.Elements(model.CategoryMass)
	require.Len(t, masses, 1)
	p, ok := masses[0].Param(model.ParamProfileCount)
	require.True(t, ok)
	assert.Equal(t, 4.0, p.Number)
	assert.InDelta(t, 60, masses[0].Bounds.Max.Z-masses[0].Bounds.Min.Z, 1e-9)
}

func TestGridWalls(t *testing.T) {
	f := seeded(t)
	res := run(t, f.m, "grid-walls", `{"countX":2,"countY":3,"spacingX":400,"spacingY":250,"unit":"cm","originX":100}`)
	assert.Equal(t, "7 of 7 walls created\n", res.Report.String())
	walls := f.m.Elements(model.CategoryWalls)
	require.Len(t, walls, 7)
	assert.InDelta(t, 1, walls[0].Curve.Start.X, 1e-12)
	assert.InDelta(t, 7.5, walls[0].Curve.Length(), 1e-12)
	assert.InDelta(t, 8, walls[6].Curve.Length(), 1e-12)
}

func TestCoordinateWalls(t *testing.T) {
	f := seeded(t)
	path := filepath.Join(t.TempDir(), "walls.csv")
	csv := "x1,y1,x2,y2\n0,0,10,0\n10,0,ten,5\n10,0,10,5\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	settings, err := json.Marshal(map[string]any{"file": path, "offset": 1, "level": "Level 2"})
	require.NoError(t, err)
	res := run(t, f.m, "coordinate-walls", string(settings))
	report := res.Report.String()
	assert.True(t, strings.HasPrefix(report, "2 of 3 walls created\n"), report)
	require.Len(t, res.Report.Diagnostics, 1)
	assert.Contains(t, res.Report.Diagnostics[0], "line 3")

	walls := f.m.Elements(model.CategoryWalls)
	require.Len(t, walls, 2)
	// Offset to the left of +X is +Y and to the left of +Y is -X.
	assert.Equal(t, r3.Vec{X: 0, Y: 1, Z: 3}, walls[0].Curve.Start)
	assert.Equal(t, r3.Vec{X: 9, Y: 0, Z: 3}, walls[1].Curve.Start)

	_, err = Run(context.Background(), f.m, "coordinate-walls", json.RawMessage(`{"file":"does-not-exist.csv"}`))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLinearAndDeleteWalls(t *testing.T) {
	f := seeded(t)
	res := run(t, f.m, "linear-wall", `{"alongX":false,"length":8000,"height":2500,"unit":"mm"}`)
	assert.Equal(t, 1, res.Report.Succeeded)
	require.Len(t, res.Segments, 1)
	assert.Equal(t, r3.Vec{Y: -4}, res.Segments[0].Start)
	assert.Equal(t, 2.5, res.WallHeight)
	run(t, f.m, "grid-walls", `{"countX":1,"countY":1}`)
	require.Len(t, f.m.Elements(model.CategoryWalls), 5)

	res = run(t, f.m, "delete-walls", `{"confirm":false}`)
	assert.Equal(t, "0 of 0 walls deleted\ndeletion skipped, confirm is not set\nfound 5 wall(s) that could be deleted\n", res.Report.String())
	require.Len(t, f.m.Elements(model.CategoryWalls), 5)

	res = run(t, f.m, "delete-walls", "")
	assert.Equal(t, "5 of 5 walls deleted\n", res.Report.String())
	assert.Empty(t, f.m.Elements(model.CategoryWalls))

	res = run(t, f.m, "delete-walls", "")
	assert.Equal(t, "0 of 0 walls deleted\nno walls found\n", res.Report.String())
}

func TestPerimeterWalls(t *testing.T) {
	f := seeded(t)
	run(t, f.m, "spiral-lines", `{"level":"Level 2","maxRadius":24,"unit":"m","turns":1,"resolutionDegrees":90}`)
	run(t, f.m, "spiral-lines", `{"level":"Level 1","maxRadius":12,"unit":"m","turns":1,"resolutionDegrees":120}`)
	require.Len(t, f.m.Elements(model.CategoryLines), 7)

	res := run(t, f.m, "perimeter-walls", `{"level":"Level 2","height":250,"unit":"cm"}`)
	assert.Equal(t, "4 of 4 walls created\n", res.Report.String())
	assert.Equal(t, 2.5, res.WallHeight)
	walls := f.m.Elements(model.CategoryWalls)
	require.Len(t, walls, 4)
	for _, w := range walls {
		assert.Equal(t, f.l2.ID, w.Level)
		assert.Equal(t, 3.0, w.Curve.Start.Z)
		assert.Equal(t, 2.5, w.Height)
	}
	assert.Equal(t, r3.Vec{Z: 3}, walls[0].Curve.Start)

	res = run(t, f.m, "perimeter-walls", `{"level":"Roof"}`)
	assert.Equal(t, "0 of 0 walls created\nno model lines found on \"Roof\"\n", res.Report.String())

	_, err := Run(context.Background(), f.m, "perimeter-walls", json.RawMessage(`{"wallType":"Missing"}`))
	assert.ErrorIs(t, err, curvegen.ErrNotFound)
}

func TestWallTypes(t *testing.T) {
	f := seeded(t)
	res := run(t, f.m, "wall-types", `{"unit":"mm"}`)
	assert.Equal(t, "3 of 3 wall types listed\n", res.Report.String())
	require.NotNil(t, res.Table)
	assert.Equal(t, []string{"id", "name", "family", "width"}, res.Table.Header)
	require.Len(t, res.Table.Rows, 3)
	assert.Equal(t, []string{string(f.wt.ID), "Generic - 200mm", model.BasicWallFamily, "200.000 mm"}, res.Table.Rows[2])
	assert.Equal(t, "Basic Stacked", res.Table.Rows[0][1])
}

func TestWallParameters(t *testing.T) {
	f := seeded(t)
	res := run(t, f.m, "wall-parameters", "")
	assert.Nil(t, res.Table)
	assert.Equal(t, []string{"no wall found"}, res.Report.Notes)

	run(t, f.m, "linear-wall", "")
	res = run(t, f.m, "wall-parameters", `{"unit":"ft"}`)
	require.NotNil(t, res.Table)
	assert.Len(t, res.Table.Rows, 6)
	assert.Equal(t, "26.247 ft", res.Table.Rows[0][4])
	assert.Equal(t, "6 of 6 parameters listed\n", res.Report.String())
}

func TestSetWallParameter(t *testing.T) {
	f := seeded(t)
	run(t, f.m, "linear-wall", "")
	run(t, f.m, "spiral-lines", `{"turns":1,"resolutionDegrees":90}`)
	wall := f.m.Elements(model.CategoryWalls)[0]
	line := f.m.Elements(model.CategoryLines)[0]

	settings, err := json.Marshal(map[string]any{
		"walls": []model.ElementID{wall.ID, "missing", line.ID},
		"value": 450, "unit": "cm",
	})
	require.NoError(t, err)
	res := run(t, f.m, "set-wall-parameter", string(settings))
	report := res.Report.String()
	assert.True(t, strings.HasPrefix(report, "1 of 2 walls modified\n"), report)
	assert.Contains(t, report, "skipped 1 non-wall element(s)")
	assert.Contains(t, report, `parameter "Unconnected Height" set to 450 cm`)
	p, ok := f.m.Elements(model.CategoryWalls)[0].Param(model.ParamHeight)
	require.True(t, ok)
	assert.InDelta(t, 4.5, p.Number, 1e-12)

	settings, err = json.Marshal(map[string]any{"walls": []model.ElementID{wall.ID}, "name": model.ParamLength, "value": 1})
	require.NoError(t, err)
	res = run(t, f.m, "set-wall-parameter", string(settings))
	assert.Equal(t, 0, res.Report.Succeeded)
	require.Len(t, res.Report.Diagnostics, 1)
	assert.Contains(t, res.Report.Diagnostics[0], "read-only")

	settings, err = json.Marshal(map[string]any{"walls": []model.ElementID{wall.ID}, "name": model.ParamComments, "text": "north face"})
	require.NoError(t, err)
	run(t, f.m, "set-wall-parameter", string(settings))
	p, _ = f.m.Elements(model.CategoryWalls)[0].Param(model.ParamComments)
	assert.Equal(t, "north face", p.Text)
}

func TestSpiralHouseStore(t *testing.T) {
	ctx := context.Background()
	s, err := store.Open(filepath.Join(t.TempDir(), "model.db"))
	require.NoError(t, err)
	defer s.Close()
	for i, name := range []string{"Level 1", "Level 2", "Level 3"} {
		_, err := s.AddLevel(ctx, name, 3.5*float64(i))
		require.NoError(t, err)
	}
	_, err = s.AddElementType(ctx, model.ElementType{Kind: model.KindWall, Name: "Exterior", Family: model.BasicWallFamily, Width: 0.3})
	require.NoError(t, err)

	res := run(t, s, "spiral-house", "")
	assert.True(t, strings.HasPrefix(res.Report.String(), "12 of 12 walls created\n"))
	assert.Contains(t, res.Report.Notes, `wall type "Generic - 200mm" not found, using "Exterior"`)
	assert.Equal(t, 0.3, res.WallThickness)

	journal, err := s.Journal(ctx)
	require.NoError(t, err)
	require.Len(t, journal, 1)
	assert.Equal(t, "Create Spiral House", journal[0].Name)
	assert.Equal(t, 12, journal[0].Created)
}
