// Package model describes the building model the scripts write into: levels,
// element types and elements with named parameters, reached through a
// Repository that runs one atomic transaction per script invocation.
package model

import (
	"context"

	"github.com/paracore/curvegen"
	"gonum.org/v1/gonum/spatial/r3"
)

// ElementID identifies a level, type or element.
type ElementID string

// Category groups elements.
type Category string

const (
	CategoryWalls Category = "Walls"
	CategoryLines Category = "Lines"
	CategoryMass  Category = "Mass"
)

// Kind selects a family of element types.
type Kind string

const (
	KindWall    Kind = "wall"
	KindSweep   Kind = "sweep"
	KindProfile Kind = "profile"
)

// BasicWallFamily is the family name of plain layered walls.
const BasicWallFamily = "Basic Wall"

// Level is a named horizontal datum.
type Level struct {
	ID        ElementID
	Name      string
	Elevation float64
}

// ElementType is a named type an element is created from.
type ElementType struct {
	ID     ElementID
	Kind   Kind
	Name   string
	Family string
	// Width is the core thickness for wall types, in metres.
	Width float64
}

// Basic reports whether t is a basic wall type.
func (t ElementType) Basic() bool {
	return t.Kind == KindWall && t.Family == BasicWallFamily
}

// Element is a model element as stored in a repository.
type Element struct {
	ID       ElementID
	Category Category
	Level    ElementID
	// Type is empty for elements without a type such as model lines.
	Type ElementID
	// Curve is the location line of walls and model lines.
	Curve    curvegen.Segment
	Height   float64
	Profiles int
	// Bounds is the bounding box of lofted solids.
	Bounds r3.Box
	Params []Param
}

// Param returns the named parameter of e.
func (e Element) Param(name string) (Param, bool) {
	for _, p := range e.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// WallSpec is a request to create a straight wall.
type WallSpec struct {
	Curve  curvegen.Segment
	Type   ElementID
	Level  ElementID
	Height float64
}

// LoftSpec is a request to create a lofted solid between two levels.
type LoftSpec struct {
	Stack curvegen.ProfileStack
	Base  ElementID
	Top   ElementID
}

// Repository is the model a script runs against.
type Repository interface {
	// Level returns the level named name or an error wrapping
	// curvegen.ErrNotFound.
	Level(ctx context.Context, name string) (Level, error)
	// Levels returns every level sorted by ascending elevation.
	Levels(ctx context.Context) ([]Level, error)
	ElementType(ctx context.Context, kind Kind, name string) (ElementType, error)
	// ElementTypes returns the types of kind sorted by name.
	ElementTypes(ctx context.Context, kind Kind) ([]ElementType, error)
	// Transact runs fn in one all-or-nothing transaction. If fn returns an
	// error nothing it did is kept.
	Transact(ctx context.Context, name string, fn func(Tx) error) error
}

// Tx is the write surface of a transaction. A Tx is only valid inside the
// function passed to Transact and must not be used concurrently.
//
// Create methods return an error wrapping curvegen.ErrElementCreation when the
// model rejects a single element; the transaction stays usable.
type Tx interface {
	CreateWall(spec WallSpec) (ElementID, error)
	CreateModelLine(curve curvegen.Segment, level ElementID) (ElementID, error)
	CreateLoft(spec LoftSpec) (ElementID, error)
	Delete(id ElementID) error
	// Elements returns the elements of category in creation order.
	Elements(category Category) ([]Element, error)
	Element(id ElementID) (Element, error)
	Parameter(id ElementID, name string) (Param, error)
	// SetParameter assigns p.Number or p.Text to the parameter named p.Name.
	SetParameter(id ElementID, p Param) error
}

// Seeder adds levels and types outside of script transactions.
type Seeder interface {
	AddLevel(ctx context.Context, name string, elevation float64) (Level, error)
	AddElementType(ctx context.Context, t ElementType) (ElementType, error)
}
