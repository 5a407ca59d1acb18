package model

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/paracore/curvegen"
	"github.com/paracore/curvegen/internal/monitoring"
	"github.com/paracore/curvegen/kernel"
	"github.com/paracore/curvegen/kernel/ruled"
)

var (
	_ Repository = (*Memory)(nil)
	_ Seeder     = (*Memory)(nil)
)

// Memory is an in-process Repository. Transactions are serialised and their
// writes are staged until the transaction function returns nil.
type Memory struct {
	// Kernel lofts solids for CreateLoft. Defaults to the ruled kernel.
	Kernel kernel.Kernel
	// Reject, if set, is consulted before each element is created. A non-nil
	// return makes the model refuse that element.
	Reject func(Element) error

	txMu     sync.Mutex
	mu       sync.Mutex
	levels   []Level
	types    []ElementType
	elements []Element
}

// NewMemory returns an empty in-memory model.
func NewMemory() *Memory {
	return &Memory{Kernel: ruled.Kernel{}}
}

func newID() ElementID { return ElementID(uuid.NewString()) }

// AddLevel adds a level. Level names are unique.
func (m *Memory) AddLevel(_ context.Context, name string, elevation float64) (Level, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if name == "" {
		return Level{}, curvegen.Errorf("level name", "empty")
	}
	for _, l := range m.levels {
		if l.Name == name {
			return Level{}, curvegen.Errorf("level name", "%q already exists", name)
		}
	}
	l := Level{ID: newID(), Name: name, Elevation: elevation}
	m.levels = append(m.levels, l)
	sort.SliceStable(m.levels, func(i, j int) bool { return m.levels[i].Elevation < m.levels[j].Elevation })
	return l, nil
}

// AddElementType adds t with a fresh ID. Names are unique per kind.
func (m *Memory) AddElementType(_ context.Context, t ElementType) (ElementType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.Name == "" {
		return ElementType{}, curvegen.Errorf("type name", "empty")
	}
	for _, e := range m.types {
		if e.Kind == t.Kind && e.Name == t.Name {
			return ElementType{}, curvegen.Errorf("type name", "%s type %q already exists", t.Kind, t.Name)
		}
	}
	t.ID = newID()
	m.types = append(m.types, t)
	return t, nil
}

func (m *Memory) Level(_ context.Context, name string) (Level, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.levels {
		if l.Name == name {
			return l, nil
		}
	}
	return Level{}, fmt.Errorf("level %q: %w", name, curvegen.ErrNotFound)
}

func (m *Memory) Levels(context.Context) ([]Level, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.levels), nil
}

func (m *Memory) ElementType(_ context.Context, kind Kind, name string) (ElementType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.types {
		if t.Kind == kind && t.Name == name {
			return t, nil
		}
	}
	return ElementType{}, fmt.Errorf("%s type %q: %w", kind, name, curvegen.ErrNotFound)
}

func (m *Memory) ElementTypes(_ context.Context, kind Kind) ([]ElementType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ElementType
	for _, t := range m.types {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out, nil
}

// Transact runs fn against a staged copy of the elements and publishes the
// copy only if fn succeeds and ctx is still live.
func (m *Memory) Transact(ctx context.Context, name string, fn func(Tx) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	tx := &memTx{
		m:        m,
		elements: slices.Clone(m.elements),
		levels:   slices.Clone(m.levels),
		types:    slices.Clone(m.types),
	}
	m.mu.Unlock()

	if err := fn(tx); err != nil {
		monitoring.Logf("model: transaction %q rolled back: %v", name, err)
		return err
	}
	if err := ctx.Err(); err != nil {
		monitoring.Logf("model: transaction %q rolled back: %v", name, err)
		return err
	}
	m.mu.Lock()
	m.elements = tx.elements
	m.mu.Unlock()
	return nil
}

// Elements returns the committed elements of category.
func (m *Memory) Elements(category Category) []Element {
	m.mu.Lock()
	defer m.mu.Unlock()
	return filterCategory(m.elements, category)
}

func filterCategory(elements []Element, category Category) []Element {
	var out []Element
	for _, e := range elements {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

type memTx struct {
	m        *Memory
	elements []Element
	levels   []Level
	types    []ElementType
}

func (tx *memTx) level(id ElementID) (Level, error) {
	for _, l := range tx.levels {
		if l.ID == id {
			return l, nil
		}
	}
	return Level{}, creationErr("level %s: %v", id, curvegen.ErrNotFound)
}

func (tx *memTx) create(e Element) (ElementID, error) {
	if tx.m.Reject != nil {
		if err := tx.m.Reject(e); err != nil {
			return "", fmt.Errorf("%w: %v", curvegen.ErrElementCreation, err)
		}
	}
	e.ID = newID()
	tx.elements = append(tx.elements, e)
	return e.ID, nil
}

func (tx *memTx) CreateWall(spec WallSpec) (ElementID, error) {
	if _, err := tx.level(spec.Level); err != nil {
		return "", err
	}
	i := slices.IndexFunc(tx.types, func(t ElementType) bool { return t.ID == spec.Type })
	if i < 0 {
		return "", creationErr("wall type %s: %v", spec.Type, curvegen.ErrNotFound)
	}
	e, err := NewWall(spec, tx.types[i])
	if err != nil {
		return "", err
	}
	return tx.create(e)
}

func (tx *memTx) CreateModelLine(curve curvegen.Segment, level ElementID) (ElementID, error) {
	if _, err := tx.level(level); err != nil {
		return "", err
	}
	e, err := NewModelLine(curve, level)
	if err != nil {
		return "", err
	}
	return tx.create(e)
}

func (tx *memTx) CreateLoft(spec LoftSpec) (ElementID, error) {
	if _, err := tx.level(spec.Base); err != nil {
		return "", err
	}
	if _, err := tx.level(spec.Top); err != nil {
		return "", err
	}
	k := tx.m.Kernel
	if k == nil {
		k = ruled.Kernel{}
	}
	e, err := NewLoft(k, spec)
	if err != nil {
		return "", err
	}
	return tx.create(e)
}

func (tx *memTx) index(id ElementID) (int, error) {
	i := slices.IndexFunc(tx.elements, func(e Element) bool { return e.ID == id })
	if i < 0 {
		return -1, fmt.Errorf("element %s: %w", id, curvegen.ErrNotFound)
	}
	return i, nil
}

func (tx *memTx) Delete(id ElementID) error {
	i, err := tx.index(id)
	if err != nil {
		return err
	}
	tx.elements = slices.Delete(tx.elements, i, i+1)
	return nil
}

func (tx *memTx) Elements(category Category) ([]Element, error) {
	return filterCategory(tx.elements, category), nil
}

func (tx *memTx) Element(id ElementID) (Element, error) {
	i, err := tx.index(id)
	if err != nil {
		return Element{}, err
	}
	return tx.elements[i], nil
}

func (tx *memTx) Parameter(id ElementID, name string) (Param, error) {
	e, err := tx.Element(id)
	if err != nil {
		return Param{}, err
	}
	p, ok := e.Param(name)
	if !ok {
		return Param{}, fmt.Errorf("element %s parameter %q: %w", id, name, curvegen.ErrNotFound)
	}
	return p, nil
}

func (tx *memTx) SetParameter(id ElementID, p Param) error {
	i, err := tx.index(id)
	if err != nil {
		return err
	}
	e, err := tx.elements[i].WithParam(p)
	if err != nil {
		return fmt.Errorf("element %s: %w", id, err)
	}
	tx.elements[i] = e
	return nil
}
