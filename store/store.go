// Package store is a model.Repository backed by SQLite. The schema is
// created by embedded migrations when the store is opened.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/paracore/curvegen"
	"github.com/paracore/curvegen/internal/monitoring"
	"github.com/paracore/curvegen/kernel"
	"github.com/paracore/curvegen/kernel/ruled"
	"github.com/paracore/curvegen/model"
	_ "modernc.org/sqlite"
)

var (
	_ model.Repository = (*Store)(nil)
	_ model.Seeder     = (*Store)(nil)
)

// Store is a SQLite model repository.
type Store struct {
	db *sql.DB
	// Kernel lofts solids for CreateLoft. Defaults to the ruled kernel.
	Kernel kernel.Kernel
}

// Open opens or creates the database at path and migrates it to the latest
// schema. Use ":memory:" for a private in-memory database.
func Open(path string) (*Store, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)
	s := &Store{db: db, Kernel: ruled.Kernel{}}
	if err := s.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func newID() model.ElementID { return model.ElementID(uuid.NewString()) }

func (s *Store) AddLevel(ctx context.Context, name string, elevation float64) (model.Level, error) {
	if name == "" {
		return model.Level{}, curvegen.Errorf("level name", "empty")
	}
	l := model.Level{ID: newID(), Name: name, Elevation: elevation}
	_, err := s.db.ExecContext(ctx, `INSERT INTO levels (id, name, elevation) VALUES (?, ?, ?)`,
		string(l.ID), l.Name, l.Elevation)
	if err != nil {
		return model.Level{}, fmt.Errorf("add level %q: %w", name, err)
	}
	return l, nil
}

func (s *Store) AddElementType(ctx context.Context, t model.ElementType) (model.ElementType, error) {
	if t.Name == "" {
		return model.ElementType{}, curvegen.Errorf("type name", "empty")
	}
	t.ID = newID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO element_types (id, kind, name, family, width) VALUES (?, ?, ?, ?, ?)`,
		string(t.ID), string(t.Kind), t.Name, t.Family, t.Width)
	if err != nil {
		return model.ElementType{}, fmt.Errorf("add %s type %q: %w", t.Kind, t.Name, err)
	}
	return t, nil
}

func (s *Store) Level(ctx context.Context, name string) (model.Level, error) {
	var l model.Level
	err := s.db.QueryRowContext(ctx, `SELECT id, name, elevation FROM levels WHERE name = ?`, name).
		Scan(&l.ID, &l.Name, &l.Elevation)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Level{}, fmt.Errorf("level %q: %w", name, curvegen.ErrNotFound)
	}
	return l, err
}

func (s *Store) Levels(ctx context.Context) ([]model.Level, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, elevation FROM levels ORDER BY elevation, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var levels []model.Level
	for rows.Next() {
		var l model.Level
		if err := rows.Scan(&l.ID, &l.Name, &l.Elevation); err != nil {
			return nil, err
		}
		levels = append(levels, l)
	}
	return levels, rows.Err()
}

const typeColumns = `id, kind, name, family, width`

func scanType(row interface{ Scan(...any) error }) (model.ElementType, error) {
	var t model.ElementType
	err := row.Scan(&t.ID, &t.Kind, &t.Name, &t.Family, &t.Width)
	return t, err
}

func (s *Store) ElementType(ctx context.Context, kind model.Kind, name string) (model.ElementType, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+typeColumns+` FROM element_types WHERE kind = ? AND name = ?`,
		string(kind), name)
	t, err := scanType(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ElementType{}, fmt.Errorf("%s type %q: %w", kind, name, curvegen.ErrNotFound)
	}
	return t, err
}

func (s *Store) ElementTypes(ctx context.Context, kind model.Kind) ([]model.ElementType, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+typeColumns+` FROM element_types WHERE kind = ? ORDER BY name COLLATE NOCASE`,
		string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var types []model.ElementType
	for rows.Next() {
		t, err := scanType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// Transact runs fn inside one SQL transaction and records the transaction
// name in the journal on commit.
func (s *Store) Transact(ctx context.Context, name string, fn func(model.Tx) error) (err error) {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %q: %w", name, err)
	}
	defer func() {
		if err != nil {
			monitoring.Logf("store: transaction %q rolled back: %v", name, err)
			sqlTx.Rollback()
		}
	}()
	tx := &storeTx{ctx: ctx, tx: sqlTx, kernel: s.Kernel}
	if err = fn(tx); err != nil {
		return err
	}
	_, err = sqlTx.ExecContext(ctx, `INSERT INTO transactions (name, created, deleted) VALUES (?, ?, ?)`,
		name, tx.created, tx.deleted)
	if err != nil {
		return fmt.Errorf("journal %q: %w", name, err)
	}
	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit %q: %w", name, err)
	}
	return nil
}

// JournalEntry is one committed transaction.
type JournalEntry struct {
	Name    string
	Created int
	Deleted int
}

// Journal returns committed transactions, oldest first.
func (s *Store) Journal(ctx context.Context) ([]JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, created, deleted FROM transactions ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []JournalEntry
	for rows.Next() {
		var e JournalEntry
		if err := rows.Scan(&e.Name, &e.Created, &e.Deleted); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
