package model

import (
	"fmt"
	"math"
	"strconv"

	"github.com/paracore/curvegen"
)

// ParamKind is the storage type of a parameter.
type ParamKind int

const (
	Number ParamKind = iota
	// Length parameters hold metres.
	Length
	// Integer parameters hold whole numbers in Number.
	Integer
	Text
)

var paramKindNames = [...]string{
	Number:  "number",
	Length:  "length",
	Integer: "integer",
	Text:    "text",
}

func (k ParamKind) String() string {
	if k < Number || k > Text {
		return "ParamKind(" + strconv.Itoa(int(k)) + ")"
	}
	return paramKindNames[k]
}

// ParseParamKind is the inverse of ParamKind.String.
func ParseParamKind(s string) (ParamKind, error) {
	for k, name := range paramKindNames {
		if name == s {
			return ParamKind(k), nil
		}
	}
	return Number, fmt.Errorf("unknown parameter kind %q", s)
}

// Param is a named element parameter.
type Param struct {
	Name     string
	Kind     ParamKind
	Number   float64
	Text     string
	ReadOnly bool
}

// Format renders the value, converting lengths to u.
func (p Param) Format(u curvegen.Unit) string {
	switch p.Kind {
	case Text:
		return p.Text
	case Integer:
		return strconv.FormatInt(int64(p.Number), 10)
	case Length:
		return strconv.FormatFloat(curvegen.FromInternalLength(p.Number, u), 'f', 3, 64) + " " + u.String()
	}
	return strconv.FormatFloat(p.Number, 'g', -1, 64)
}

// Names of built-in parameters.
const (
	ParamLength       = "Length"
	ParamHeight       = "Unconnected Height"
	ParamBaseOffset   = "Base Offset"
	ParamTopOffset    = "Top Offset"
	ParamLocationLine = "Location Line"
	ParamComments     = "Comments"
	ParamProfileCount = "Profile Count"
	ParamTotalHeight  = "Height"
)

// assign returns cur updated with the value of p. Integer values are
// rounded to the nearest whole number.
func assign(cur, p Param) (Param, error) {
	if cur.ReadOnly {
		return cur, curvegen.Errorf(p.Name, "parameter is read-only")
	}
	switch cur.Kind {
	case Text:
		cur.Text = p.Text
	case Integer:
		if math.IsNaN(p.Number) || math.IsInf(p.Number, 0) {
			return cur, curvegen.Errorf(p.Name, "%g is not a whole number", p.Number)
		}
		cur.Number = math.Round(p.Number)
	default:
		if math.IsNaN(p.Number) || math.IsInf(p.Number, 0) {
			return cur, curvegen.Errorf(p.Name, "%g is not finite", p.Number)
		}
		cur.Number = p.Number
	}
	return cur, nil
}

// SetParam returns a copy of params with p assigned to the parameter of the
// same name. Integer parameters are rounded; read-only parameters are refused.
func SetParam(params []Param, p Param) ([]Param, error) {
	for i := range params {
		if params[i].Name != p.Name {
			continue
		}
		v, err := assign(params[i], p)
		if err != nil {
			return params, err
		}
		out := append([]Param(nil), params...)
		out[i] = v
		return out, nil
	}
	return params, fmt.Errorf("parameter %q: %w", p.Name, curvegen.ErrNotFound)
}

// WithParam returns e with p assigned. Setting the height parameter of a
// wall also moves Height, which must stay positive.
func (e Element) WithParam(p Param) (Element, error) {
	params, err := SetParam(e.Params, p)
	if err != nil {
		return e, err
	}
	out := e
	out.Params = params
	if e.Category == CategoryWalls && p.Name == ParamHeight {
		h, _ := out.Param(ParamHeight)
		if !(h.Number > 0) {
			return e, curvegen.Errorf(p.Name, "wall height %g must be positive", h.Number)
		}
		out.Height = h.Number
	}
	return out, nil
}
