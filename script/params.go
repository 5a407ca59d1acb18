package script

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/paracore/curvegen"
	"github.com/paracore/curvegen/model"
	"github.com/paracore/curvegen/tabular"
)

func init() {
	register("wall-parameters", "Lists the parameters of a wall.", runWallParameters)
	register("set-wall-parameter", "Sets one parameter on a list of walls.", runSetWallParameter)
	register("wall-types", "Lists the wall types of the model.", runWallTypes)
}

// WallParametersSettings configure wall-parameters.
type WallParametersSettings struct {
	// Wall is the wall to list. Empty lists the first wall of the model.
	Wall model.ElementID `json:"wall"`
	// Unit lengths are shown in.
	Unit curvegen.Unit `json:"unit"`
}

func (s *WallParametersSettings) Validate() error { return nil }

func runWallParameters(ctx context.Context, repo model.Repository, raw json.RawMessage) (*Result, error) {
	s := WallParametersSettings{Unit: curvegen.Meter}
	if err := decode(raw, &s); err != nil {
		return nil, err
	}
	var wall *model.Element
	err := repo.Transact(ctx, "List Wall Parameters", func(tx model.Tx) error {
		if s.Wall != "" {
			e, err := tx.Element(s.Wall)
			if err != nil {
				return err
			}
			if e.Category != model.CategoryWalls {
				return curvegen.Errorf("wall", "element %s is in %s, not %s", e.ID, e.Category, model.CategoryWalls)
			}
			wall = &e
			return nil
		}
		walls, err := tx.Elements(model.CategoryWalls)
		if err != nil || len(walls) == 0 {
			return err
		}
		wall = &walls[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	var b model.Batch
	if wall == nil {
		r := model.NewReport("parameters listed", &b)
		r.Notef("no wall found")
		return &Result{Report: r}, nil
	}
	rows := tabular.ParameterRows([]model.Element{*wall}, s.Unit)
	for _, p := range wall.Params {
		b.Add(p.Name, wall.ID, nil)
	}
	return &Result{
		Report: model.NewReport("parameters listed", &b),
		Table: &Table{
			Title:  fmt.Sprintf("Parameters of wall %s", wall.ID),
			Header: tabular.ParameterHeader,
			Rows:   rows,
		},
	}, nil
}

// WallTypesSettings configure wall-types.
type WallTypesSettings struct {
	// Unit widths are shown in.
	Unit curvegen.Unit `json:"unit"`
}

func (s *WallTypesSettings) Validate() error { return nil }

func runWallTypes(ctx context.Context, repo model.Repository, raw json.RawMessage) (*Result, error) {
	s := WallTypesSettings{Unit: curvegen.Meter}
	if err := decode(raw, &s); err != nil {
		return nil, err
	}
	types, err := repo.ElementTypes(ctx, model.KindWall)
	if err != nil {
		return nil, err
	}
	var b model.Batch
	rows := make([][]string, 0, len(types))
	for _, t := range types {
		b.Add(t.Name, t.ID, nil)
		width := strconv.FormatFloat(curvegen.FromInternalLength(t.Width, s.Unit), 'f', 3, 64) + " " + s.Unit.String()
		rows = append(rows, []string{string(t.ID), t.Name, t.Family, width})
	}
	return &Result{
		Report: model.NewReport("wall types listed", &b),
		Table: &Table{
			Title:  "Wall types",
			Header: []string{"id", "name", "family", "width"},
			Rows:   rows,
		},
	}, nil
}

// SetWallParameterSettings configure set-wall-parameter.
type SetWallParameterSettings struct {
	Walls []model.ElementID `json:"walls"`
	// Name is the parameter to set.
	Name string `json:"name"`
	// Value is used for numeric parameters. Length parameters read it in Unit.
	Value float64       `json:"value"`
	Unit  curvegen.Unit `json:"unit"`
	// Text is used for text parameters.
	Text string `json:"text"`
}

func (s *SetWallParameterSettings) Validate() error {
	if len(s.Walls) == 0 {
		return curvegen.Errorf("walls", "no wall ids given")
	}
	return required("name", s.Name)
}

// DefaultSetWallParameter returns the set-wall-parameter defaults.
func DefaultSetWallParameter() SetWallParameterSettings {
	return SetWallParameterSettings{Name: model.ParamHeight, Value: 3, Unit: curvegen.Meter}
}

func runSetWallParameter(ctx context.Context, repo model.Repository, raw json.RawMessage) (*Result, error) {
	s := DefaultSetWallParameter()
	if err := decode(raw, &s); err != nil {
		return nil, err
	}
	var (
		b       model.Batch
		skipped int
	)
	err := repo.Transact(ctx, "Modify Wall Parameters", func(tx model.Tx) error {
		for _, id := range s.Walls {
			err := setWallParameter(tx, id, &s)
			if err == errNotWall {
				skipped++
				continue
			}
			if err != nil && !perElement(err) {
				return err
			}
			b.Add(fmt.Sprintf("wall %s", id), id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r := model.NewReport("walls modified", &b)
	if b.Succeeded() > 0 {
		r.Notef("parameter %q set to %s", s.Name, s.describe())
	}
	if skipped > 0 {
		r.Notef("skipped %d non-wall element(s)", skipped)
	}
	return &Result{Report: r}, nil
}

var errNotWall = errors.New("not a wall")

func setWallParameter(tx model.Tx, id model.ElementID, s *SetWallParameterSettings) error {
	e, err := tx.Element(id)
	if err != nil {
		return err
	}
	if e.Category != model.CategoryWalls {
		return errNotWall
	}
	cur, err := tx.Parameter(id, s.Name)
	if err != nil {
		return err
	}
	p := model.Param{Name: s.Name, Number: s.Value, Text: s.Text}
	if cur.Kind == model.Length {
		p.Number = curvegen.ToInternalLength(s.Value, s.Unit)
	}
	return tx.SetParameter(id, p)
}

func (s *SetWallParameterSettings) describe() string {
	if s.Text != "" {
		return fmt.Sprintf("%q", s.Text)
	}
	return fmt.Sprintf("%g %s", s.Value, s.Unit)
}
