package curvegen

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestToInternalLength(t *testing.T) {
	for _, tc := range []struct {
		v    float64
		u    Unit
		want float64
	}{
		{24, Meter, 24},
		{1000, Centimeter, 10},
		{1000, Millimeter, 1},
		{1, Inch, 0.0254},
		{1, Foot, 0.3048},
		{12, Inch, 0.3048},
	} {
		got := ToInternalLength(tc.v, tc.u)
		if math.Abs(got-tc.want) > 2e-15*math.Abs(tc.want) {
			t.Errorf("ToInternalLength(%g, %s) = %.17g, want %g", tc.v, tc.u, got, tc.want)
		}
		back := FromInternalLength(got, tc.u)
		if math.Abs(back-tc.v) > 2e-15*math.Abs(tc.v) {
			t.Errorf("FromInternalLength round trip for %s: %.17g", tc.u, back)
		}
	}
}

func TestParseUnit(t *testing.T) {
	for s, want := range map[string]Unit{
		"":            Meter,
		"Meters":      Meter,
		"cm":          Centimeter,
		"Millimetres": Millimeter,
		"in":          Inch,
		"Feet":        Foot,
	} {
		got, err := ParseUnit(s)
		if err != nil || got != want {
			t.Errorf("ParseUnit(%q) = %v, %v", s, got, err)
		}
	}
	_, err := ParseUnit("furlong")
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("unknown unit error %v", err)
	}
	var v struct{ U Unit }
	if err := json.Unmarshal([]byte(`{"U":"ft"}`), &v); err != nil || v.U != Foot {
		t.Errorf("json unit: %v %v", v.U, err)
	}
}
