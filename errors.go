package curvegen

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by generators, the model repository and importers.
// Classify with errors.Is.
var (
	// ErrInvalidParameter is returned for malformed or out-of-range input,
	// typically input that would yield degenerate geometry.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrNotFound is returned when a named level, type or element is absent.
	ErrNotFound = errors.New("not found")
	// ErrElementCreation is returned when the model rejects a single element.
	ErrElementCreation = errors.New("element creation failed")
	// ErrImportParse is returned for a malformed row in tabular input.
	ErrImportParse = errors.New("import parse error")
)

// ParamError describes a parameter that failed validation.
type ParamError struct {
	Param  string
	Reason string
}

// Errorf returns a *ParamError for parameter param.
func Errorf(param, format string, a ...interface{}) *ParamError {
	return &ParamError{Param: param, Reason: fmt.Sprintf(format, a...)}
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Param, e.Reason)
}

// Unwrap makes errors.Is(err, ErrInvalidParameter) report true.
func (e *ParamError) Unwrap() error { return ErrInvalidParameter }
