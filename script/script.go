// Package script holds the runnable model procedures. Every script decodes
// its settings, resolves named levels and types, computes its geometry with
// package form and then issues all model writes inside one transaction.
//
// A script never fails because a single element was refused by the model:
// such failures are collected in a model.Batch and listed in the report.
// Invalid settings, missing names and repository failures abort the script
// and nothing is written.
package script

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/paracore/curvegen"
	"github.com/paracore/curvegen/model"
)

// Result is what a script hands back to its caller.
type Result struct {
	Report *model.Report
	// Segments are the location lines the script generated, in metres.
	Segments []curvegen.Segment
	// Profiles is set by scripts that loft a mass.
	Profiles curvegen.ProfileStack
	// WallHeight and WallThickness describe the walls built on Segments,
	// zero when the segments are not walls.
	WallHeight    float64
	WallThickness float64
	// Table is set by scripts that list data.
	Table *Table
}

// Table is tabular output of a script.
type Table struct {
	Title  string
	Header []string
	Rows   [][]string
}

// Script is a named model procedure.
type Script interface {
	Name() string
	Description() string
	// Run decodes settings over the script defaults and runs against repo.
	// Empty settings run with the defaults.
	Run(ctx context.Context, repo model.Repository, settings json.RawMessage) (*Result, error)
}

type script struct {
	name, desc string
	run        func(ctx context.Context, repo model.Repository, settings json.RawMessage) (*Result, error)
}

func (s *script) Name() string        { return s.name }
func (s *script) Description() string { return s.desc }

func (s *script) Run(ctx context.Context, repo model.Repository, settings json.RawMessage) (*Result, error) {
	res, err := s.run(ctx, repo, settings)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}
	return res, nil
}

var registry = map[string]Script{}

func register(name, desc string, run func(context.Context, model.Repository, json.RawMessage) (*Result, error)) {
	if _, dup := registry[name]; dup {
		panic("script: duplicate script " + name)
	}
	registry[name] = &script{name: name, desc: desc, run: run}
}

// Lookup returns the script called name.
func Lookup(name string) (Script, error) {
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("script %q: %w", name, curvegen.ErrNotFound)
	}
	return s, nil
}

// All returns every script sorted by name.
func All() []Script {
	out := make([]Script, 0, len(registry))
	for _, s := range registry {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Run looks up the script called name and runs it.
func Run(ctx context.Context, repo model.Repository, name string, settings json.RawMessage) (*Result, error) {
	s, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, repo, settings)
}

type validator interface {
	Validate() error
}

// decode overlays raw onto v, which already holds the defaults, and
// validates the result. Unknown fields are rejected.
func decode(raw json.RawMessage, v validator) error {
	if len(bytes.TrimSpace(raw)) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("%w: settings: %v", curvegen.ErrInvalidParameter, err)
		}
	}
	return v.Validate()
}

// perElement reports whether err concerns a single element and may be
// recorded in a batch instead of aborting the transaction.
func perElement(err error) bool {
	return errors.Is(err, curvegen.ErrElementCreation) ||
		errors.Is(err, curvegen.ErrNotFound) ||
		errors.Is(err, curvegen.ErrInvalidParameter)
}

func positive(name string, v float64) error {
	if !(v > 0) {
		return curvegen.Errorf(name, "%g must be positive", v)
	}
	return nil
}

func required(name, v string) error {
	if strings.TrimSpace(v) == "" {
		return curvegen.Errorf(name, "required")
	}
	return nil
}
