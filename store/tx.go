package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/paracore/curvegen"
	"github.com/paracore/curvegen/kernel"
	"github.com/paracore/curvegen/kernel/ruled"
	"github.com/paracore/curvegen/model"
)

type storeTx struct {
	ctx     context.Context
	tx      *sql.Tx
	kernel  kernel.Kernel
	created int
	deleted int
}

func (t *storeTx) hasLevel(id model.ElementID) error {
	var n int
	err := t.tx.QueryRowContext(t.ctx, `SELECT COUNT(*) FROM levels WHERE id = ?`, string(id)).Scan(&n)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: level %s: %v", curvegen.ErrElementCreation, id, curvegen.ErrNotFound)
	}
	return nil
}

func (t *storeTx) insert(e model.Element) (model.ElementID, error) {
	e.ID = newID()
	var typeID sql.NullString
	if e.Type != "" {
		typeID = sql.NullString{String: string(e.Type), Valid: true}
	}
	a, b, bb := e.Curve.Start, e.Curve.End, e.Bounds
	_, err := t.tx.ExecContext(t.ctx, `INSERT INTO elements
		(id, category, level_id, type_id, x0, y0, z0, x1, y1, z1, height, profiles,
		 min_x, min_y, min_z, max_x, max_y, max_z)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(e.ID), string(e.Category), string(e.Level), typeID,
		a.X, a.Y, a.Z, b.X, b.Y, b.Z, e.Height, e.Profiles,
		bb.Min.X, bb.Min.Y, bb.Min.Z, bb.Max.X, bb.Max.Y, bb.Max.Z)
	if err != nil {
		return "", fmt.Errorf("insert %s element: %w", e.Category, err)
	}
	for i, p := range e.Params {
		_, err = t.tx.ExecContext(t.ctx, `INSERT INTO parameters
			(element_id, position, name, kind, number, text, read_only) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			string(e.ID), i, p.Name, p.Kind.String(), p.Number, p.Text, p.ReadOnly)
		if err != nil {
			return "", fmt.Errorf("insert parameter %q: %w", p.Name, err)
		}
	}
	t.created++
	return e.ID, nil
}

func (t *storeTx) CreateWall(spec model.WallSpec) (model.ElementID, error) {
	if err := t.hasLevel(spec.Level); err != nil {
		return "", err
	}
	row := t.tx.QueryRowContext(t.ctx, `SELECT `+typeColumns+` FROM element_types WHERE id = ?`, string(spec.Type))
	typ, err := scanType(row)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: wall type %s: %v", curvegen.ErrElementCreation, spec.Type, curvegen.ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	e, err := model.NewWall(spec, typ)
	if err != nil {
		return "", err
	}
	return t.insert(e)
}

func (t *storeTx) CreateModelLine(curve curvegen.Segment, level model.ElementID) (model.ElementID, error) {
	if err := t.hasLevel(level); err != nil {
		return "", err
	}
	e, err := model.NewModelLine(curve, level)
	if err != nil {
		return "", err
	}
	return t.insert(e)
}

func (t *storeTx) CreateLoft(spec model.LoftSpec) (model.ElementID, error) {
	if err := t.hasLevel(spec.Base); err != nil {
		return "", err
	}
	if err := t.hasLevel(spec.Top); err != nil {
		return "", err
	}
	k := t.kernel
	if k == nil {
		k = ruled.Kernel{}
	}
	e, err := model.NewLoft(k, spec)
	if err != nil {
		return "", err
	}
	return t.insert(e)
}

func (t *storeTx) Delete(id model.ElementID) error {
	res, err := t.tx.ExecContext(t.ctx, `DELETE FROM elements WHERE id = ?`, string(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("element %s: %w", id, curvegen.ErrNotFound)
	}
	t.deleted++
	return nil
}

const elementColumns = `id, category, COALESCE(level_id, ''), COALESCE(type_id, ''),
	x0, y0, z0, x1, y1, z1, height, profiles, min_x, min_y, min_z, max_x, max_y, max_z`

func scanElement(row interface{ Scan(...any) error }) (model.Element, error) {
	var e model.Element
	a, b := &e.Curve.Start, &e.Curve.End
	bb := &e.Bounds
	err := row.Scan(&e.ID, &e.Category, &e.Level, &e.Type,
		&a.X, &a.Y, &a.Z, &b.X, &b.Y, &b.Z, &e.Height, &e.Profiles,
		&bb.Min.X, &bb.Min.Y, &bb.Min.Z, &bb.Max.X, &bb.Max.Y, &bb.Max.Z)
	return e, err
}

func (t *storeTx) params(id model.ElementID) ([]model.Param, error) {
	rows, err := t.tx.QueryContext(t.ctx, `SELECT name, kind, number, text, read_only
		FROM parameters WHERE element_id = ? ORDER BY position`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var params []model.Param
	for rows.Next() {
		var p model.Param
		var kind string
		if err := rows.Scan(&p.Name, &kind, &p.Number, &p.Text, &p.ReadOnly); err != nil {
			return nil, err
		}
		if p.Kind, err = model.ParseParamKind(kind); err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, rows.Err()
}

func (t *storeTx) Elements(category model.Category) ([]model.Element, error) {
	rows, err := t.tx.QueryContext(t.ctx, `SELECT `+elementColumns+` FROM elements WHERE category = ? ORDER BY seq`,
		string(category))
	if err != nil {
		return nil, err
	}
	var elements []model.Element
	for rows.Next() {
		e, err := scanElement(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		elements = append(elements, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Parameters are loaded after the cursor is closed; the store runs on a
	// single connection.
	for i := range elements {
		if elements[i].Params, err = t.params(elements[i].ID); err != nil {
			return nil, err
		}
	}
	return elements, nil
}

func (t *storeTx) Element(id model.ElementID) (model.Element, error) {
	row := t.tx.QueryRowContext(t.ctx, `SELECT `+elementColumns+` FROM elements WHERE id = ?`, string(id))
	e, err := scanElement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Element{}, fmt.Errorf("element %s: %w", id, curvegen.ErrNotFound)
	}
	if err != nil {
		return model.Element{}, err
	}
	e.Params, err = t.params(id)
	return e, err
}

func (t *storeTx) Parameter(id model.ElementID, name string) (model.Param, error) {
	e, err := t.Element(id)
	if err != nil {
		return model.Param{}, err
	}
	p, ok := e.Param(name)
	if !ok {
		return model.Param{}, fmt.Errorf("element %s parameter %q: %w", id, name, curvegen.ErrNotFound)
	}
	return p, nil
}

func (t *storeTx) SetParameter(id model.ElementID, p model.Param) error {
	e, err := t.Element(id)
	if err != nil {
		return err
	}
	updated, err := e.WithParam(p)
	if err != nil {
		return fmt.Errorf("element %s: %w", id, err)
	}
	if updated.Height != e.Height {
		_, err = t.tx.ExecContext(t.ctx, `UPDATE elements SET height = ? WHERE id = ?`, updated.Height, string(id))
		if err != nil {
			return err
		}
	}
	for _, q := range updated.Params {
		if q.Name != p.Name {
			continue
		}
		_, err = t.tx.ExecContext(t.ctx, `UPDATE parameters SET number = ?, text = ? WHERE element_id = ? AND name = ?`,
			q.Number, q.Text, string(id), q.Name)
		return err
	}
	return nil
}
