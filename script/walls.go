package script

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"unicode/utf8"

	"github.com/paracore/curvegen"
	"github.com/paracore/curvegen/form"
	"github.com/paracore/curvegen/internal/monitoring"
	"github.com/paracore/curvegen/model"
	"github.com/paracore/curvegen/tabular"
	"gonum.org/v1/gonum/spatial/r2"
)

func init() {
	register("grid-walls", "Builds a rectangular grid of walls on a level.", runGridWalls)
	register("coordinate-walls", "Builds walls from x1,y1,x2,y2 rows of a CSV file.", runCoordinateWalls)
	register("linear-wall", "Builds one straight wall centred on the origin.", runLinearWall)
	register("perimeter-walls", "Builds a wall on every model line of a level.", runPerimeterWalls)
	register("delete-walls", "Deletes every wall in the model.", runDeleteWalls)
}

// WallSettings are shared by the wall-building scripts.
type WallSettings struct {
	Level    string `json:"level"`
	WallType string `json:"wallType"`
	// Height and the other lengths of a script are in Unit.
	Height float64       `json:"height"`
	Unit   curvegen.Unit `json:"unit"`
}

func (s *WallSettings) Validate() error {
	if err := required("level", s.Level); err != nil {
		return err
	}
	if err := required("wall type", s.WallType); err != nil {
		return err
	}
	return positive("height", s.Height)
}

func defaultWall() WallSettings {
	return WallSettings{Level: "Level 1", WallType: "Generic - 200mm", Height: 3, Unit: curvegen.Meter}
}

func (s *WallSettings) length(v float64) float64 { return curvegen.ToInternalLength(v, s.Unit) }

// resolve looks up the level and the wall type. Missing names abort.
func (s *WallSettings) resolve(ctx context.Context, repo model.Repository) (model.Level, model.ElementType, error) {
	level, err := repo.Level(ctx, s.Level)
	if err != nil {
		return model.Level{}, model.ElementType{}, err
	}
	wt, err := wallType(ctx, repo, s.WallType, false, nil)
	if err != nil {
		return model.Level{}, model.ElementType{}, err
	}
	return level, wt, nil
}

// GridWallsSettings configure grid-walls.
type GridWallsSettings struct {
	WallSettings
	SpacingX float64 `json:"spacingX"`
	SpacingY float64 `json:"spacingY"`
	CountX   int     `json:"countX"`
	CountY   int     `json:"countY"`
	OriginX  float64 `json:"originX"`
	OriginY  float64 `json:"originY"`
}

// DefaultGridWalls returns the grid-walls defaults.
func DefaultGridWalls() GridWallsSettings {
	return GridWallsSettings{
		WallSettings: defaultWall(),
		SpacingX:     3,
		SpacingY:     3,
		CountX:       5,
		CountY:       5,
	}
}

func runGridWalls(ctx context.Context, repo model.Repository, raw json.RawMessage) (*Result, error) {
	s := DefaultGridWalls()
	if err := decode(raw, &s); err != nil {
		return nil, err
	}
	level, wt, err := s.resolve(ctx, repo)
	if err != nil {
		return nil, err
	}
	segs, err := form.Grid(curvegen.GridParams{
		Origin:    r2.Vec{X: s.length(s.OriginX), Y: s.length(s.OriginY)},
		SpacingX:  s.length(s.SpacingX),
		SpacingY:  s.length(s.SpacingY),
		CountX:    s.CountX,
		CountY:    s.CountY,
		Elevation: level.Elevation,
	})
	if err != nil {
		return nil, err
	}
	item := func(i int) string {
		if i <= s.CountX {
			return fmt.Sprintf("vertical wall at x=%g %s", s.OriginX+float64(i)*s.SpacingX, s.Unit)
		}
		j := i - s.CountX - 1
		return fmt.Sprintf("horizontal wall at y=%g %s", s.OriginY+float64(j)*s.SpacingY, s.Unit)
	}
	height := s.length(s.Height)

	var b model.Batch
	err = repo.Transact(ctx, "Create Walls - Grid", func(tx model.Tx) error {
		return buildWalls(tx, &b, segs, item, wt, level.ID, height)
	})
	if err != nil {
		return nil, err
	}
	return &Result{
		Report:        model.NewReport("walls created", &b),
		Segments:      segs,
		WallHeight:    height,
		WallThickness: wt.Width,
	}, nil
}

// LevelTolerance is how far in metres a model line may sit from a level
// elevation and still count as drawn on that level.
const LevelTolerance = 0.03

func runPerimeterWalls(ctx context.Context, repo model.Repository, raw json.RawMessage) (*Result, error) {
	s := defaultWall()
	if err := decode(raw, &s); err != nil {
		return nil, err
	}
	level, wt, err := s.resolve(ctx, repo)
	if err != nil {
		return nil, err
	}
	height := s.length(s.Height)

	var (
		b     model.Batch
		segs  []curvegen.Segment
		lines []model.ElementID
	)
	err = repo.Transact(ctx, "Create Walls - Perimeter", func(tx model.Tx) error {
		all, err := tx.Elements(model.CategoryLines)
		if err != nil {
			return err
		}
		for _, e := range all {
			if math.Abs(e.Curve.Start.Z-level.Elevation) >= LevelTolerance ||
				math.Abs(e.Curve.End.Z-level.Elevation) >= LevelTolerance {
				continue
			}
			c := e.Curve
			c.Start.Z, c.End.Z = level.Elevation, level.Elevation
			segs = append(segs, c)
			lines = append(lines, e.ID)
		}
		item := func(i int) string { return fmt.Sprintf("model line %s", lines[i]) }
		return buildWalls(tx, &b, segs, item, wt, level.ID, height)
	})
	if err != nil {
		return nil, err
	}
	r := model.NewReport("walls created", &b)
	if len(segs) == 0 {
		r.Notef("no model lines found on %q", level.Name)
	}
	return &Result{
		Report:        r,
		Segments:      segs,
		WallHeight:    height,
		WallThickness: wt.Width,
	}, nil
}

// CoordinateWallsSettings configure coordinate-walls.
type CoordinateWallsSettings struct {
	WallSettings
	// File is the CSV file with x1,y1,x2,y2 rows in Unit.
	File string `json:"file"`
	// Delimiter defaults to a comma.
	Delimiter string `json:"delimiter"`
	// Offset moves every wall sideways, positive to the left of its
	// direction.
	Offset float64 `json:"offset"`
}

func (s *CoordinateWallsSettings) Validate() error {
	if err := s.WallSettings.Validate(); err != nil {
		return err
	}
	if err := required("file", s.File); err != nil {
		return err
	}
	if utf8.RuneCountInString(s.Delimiter) > 1 {
		return curvegen.Errorf("delimiter", "%q is not a single character", s.Delimiter)
	}
	return nil
}

// DefaultCoordinateWalls returns the coordinate-walls defaults.
func DefaultCoordinateWalls() CoordinateWallsSettings {
	return CoordinateWallsSettings{WallSettings: defaultWall()}
}

func runCoordinateWalls(ctx context.Context, repo model.Repository, raw json.RawMessage) (*Result, error) {
	s := DefaultCoordinateWalls()
	if err := decode(raw, &s); err != nil {
		return nil, err
	}
	level, wt, err := s.resolve(ctx, repo)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(s.File)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	opts := tabular.Options{Unit: s.Unit, Elevation: level.Elevation}
	if s.Delimiter != "" {
		opts.Comma, _ = utf8.DecodeRuneInString(s.Delimiter)
	}
	imp, err := tabular.ReadSegments(f, opts)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.File, err)
	}
	monitoring.Logf("script: %s: %d rows, %d walls, %d skipped", s.File, imp.Rows, len(imp.Segments), len(imp.Errors))

	segs := imp.Segments
	if s.Offset != 0 {
		d := s.length(s.Offset)
		segs = make([]curvegen.Segment, 0, len(imp.Segments))
		lines := make([]int, 0, len(imp.Segments))
		for i, seg := range imp.Segments {
			o, err := form.Offset(seg, d)
			if err != nil {
				imp.Errors = append(imp.Errors, &tabular.RowError{Line: imp.Lines[i], Err: err})
				continue
			}
			segs = append(segs, o)
			lines = append(lines, imp.Lines[i])
		}
		imp.Lines = lines
	}
	item := func(i int) string { return fmt.Sprintf("line %d", imp.Lines[i]) }
	height := s.length(s.Height)

	var b model.Batch
	for _, re := range imp.Errors {
		b.Skip("import", re)
	}
	err = repo.Transact(ctx, "Create Walls - Coordinates", func(tx model.Tx) error {
		return buildWalls(tx, &b, segs, item, wt, level.ID, height)
	})
	if err != nil {
		return nil, err
	}
	return &Result{
		Report:        model.NewReport("walls created", &b),
		Segments:      segs,
		WallHeight:    height,
		WallThickness: wt.Width,
	}, nil
}

// LinearWallSettings configure linear-wall.
type LinearWallSettings struct {
	WallSettings
	Length float64 `json:"length"`
	AlongX bool    `json:"alongX"`
}

// DefaultLinearWall returns the linear-wall defaults.
func DefaultLinearWall() LinearWallSettings {
	return LinearWallSettings{WallSettings: defaultWall(), Length: 8, AlongX: true}
}

func runLinearWall(ctx context.Context, repo model.Repository, raw json.RawMessage) (*Result, error) {
	s := DefaultLinearWall()
	if err := decode(raw, &s); err != nil {
		return nil, err
	}
	level, wt, err := s.resolve(ctx, repo)
	if err != nil {
		return nil, err
	}
	seg, err := form.LinearWall(s.length(s.Length), s.AlongX, level.Elevation)
	if err != nil {
		return nil, err
	}
	height := s.length(s.Height)

	var b model.Batch
	err = repo.Transact(ctx, "Create Wall", func(tx model.Tx) error {
		return buildWalls(tx, &b, []curvegen.Segment{seg}, func(int) string { return "wall" }, wt, level.ID, height)
	})
	if err != nil {
		return nil, err
	}
	r := model.NewReport("walls created", &b)
	r.Notef("%g%s x %g%s on %q", s.Length, s.Unit, s.Height, s.Unit, level.Name)
	return &Result{
		Report:        r,
		Segments:      []curvegen.Segment{seg},
		WallHeight:    height,
		WallThickness: wt.Width,
	}, nil
}

// DeleteWallsSettings configure delete-walls.
type DeleteWallsSettings struct {
	// Confirm must be set for anything to be deleted. Without it the walls
	// are only counted.
	Confirm bool `json:"confirm"`
}

func (s *DeleteWallsSettings) Validate() error { return nil }

func runDeleteWalls(ctx context.Context, repo model.Repository, raw json.RawMessage) (*Result, error) {
	s := DeleteWallsSettings{Confirm: true}
	if err := decode(raw, &s); err != nil {
		return nil, err
	}
	var (
		b     model.Batch
		found int
	)
	err := repo.Transact(ctx, "Delete All Walls", func(tx model.Tx) error {
		walls, err := tx.Elements(model.CategoryWalls)
		if err != nil {
			return err
		}
		found = len(walls)
		if !s.Confirm {
			return nil
		}
		for _, w := range walls {
			err := tx.Delete(w.ID)
			if err != nil && !perElement(err) {
				return err
			}
			b.Add(fmt.Sprintf("wall %s", w.ID), w.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r := model.NewReport("walls deleted", &b)
	switch {
	case found == 0:
		r.Notef("no walls found")
	case !s.Confirm:
		r.Notef("deletion skipped, confirm is not set")
		r.Notef("found %d wall(s) that could be deleted", found)
	}
	return &Result{Report: r}, nil
}
