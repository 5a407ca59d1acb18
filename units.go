package curvegen

import (
	"fmt"
	"strings"
)

// Unit is a physical length unit. All geometry in this module is expressed
// in metres; conversion happens at the boundary.
type Unit int

const (
	Meter Unit = iota
	Centimeter
	Millimeter
	Inch
	Foot
)

const (
	// MillimetresPerInch is millimetres per inch (25.4)
	MillimetresPerInch = 25.4
	// MetresPerFoot is the international foot (0.3048 m).
	MetresPerFoot = 0.3048
)

// metres per unit. All factors are exact decimal definitions.
var unitFactor = [...]float64{
	Meter:      1,
	Centimeter: 0.01,
	Millimeter: 0.001,
	Inch:       MillimetresPerInch / 1000,
	Foot:       MetresPerFoot,
}

var unitNames = [...]string{
	Meter:      "m",
	Centimeter: "cm",
	Millimeter: "mm",
	Inch:       "in",
	Foot:       "ft",
}

func (u Unit) valid() bool { return u >= Meter && u <= Foot }

func (u Unit) String() string {
	if !u.valid() {
		return fmt.Sprintf("Unit(%d)", int(u))
	}
	return unitNames[u]
}

// ToInternalLength converts value expressed in unit u to metres.
func ToInternalLength(value float64, u Unit) float64 {
	if !u.valid() {
		panic("unknown length unit " + u.String())
	}
	if u == Meter {
		return value
	}
	return value * unitFactor[u]
}

// FromInternalLength converts a length in metres to unit u.
func FromInternalLength(value float64, u Unit) float64 {
	if !u.valid() {
		panic("unknown length unit " + u.String())
	}
	if u == Meter {
		return value
	}
	return value / unitFactor[u]
}

// ParseUnit accepts abbreviations ("mm"), singular and plural names in
// either spelling ("Millimeters", "millimetre"). The empty string is metres.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "m", "meter", "meters", "metre", "metres":
		return Meter, nil
	case "cm", "centimeter", "centimeters", "centimetre", "centimetres":
		return Centimeter, nil
	case "mm", "millimeter", "millimeters", "millimetre", "millimetres":
		return Millimeter, nil
	case "in", "inch", "inches", "\"":
		return Inch, nil
	case "ft", "foot", "feet", "'":
		return Foot, nil
	}
	return Meter, Errorf("unit", "unknown unit %q", s)
}

// UnmarshalText lets Unit appear as a string in JSON settings.
func (u *Unit) UnmarshalText(b []byte) error {
	v, err := ParseUnit(string(b))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (u Unit) MarshalText() ([]byte, error) {
	if !u.valid() {
		return nil, Errorf("unit", "unknown unit %d", int(u))
	}
	return []byte(u.String()), nil
}
