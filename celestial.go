package parambulator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const (
	// AU is one astronomical unit in kilometers.
	AU = 1.49597870700e8
)

// CelestialObject defines a celestial object by what the kernel needs of it:
// its mean radius (km) and gravitational parameter μ (km^3/s^2).
type CelestialObject struct {
	Name   string
	Radius float64
	μ      float64
}

// NewCelestialObject returns a new celestial object.
func NewCelestialObject(name string, radius, μ float64) CelestialObject {
	return CelestialObject{name, radius, μ}
}

// GM returns μ (which is unexported because it's a lowercase letter)
func (c CelestialObject) GM() float64 {
	return c.μ
}

// String implements the Stringer interface.
func (c CelestialObject) String() string {
	return c.Name + " body"
}

// Equals returns whether the provided celestial object is the same.
func (c CelestialObject) Equals(b CelestialObject) bool {
	return c.Name == b.Name && c.Radius == b.Radius && c.μ == b.μ
}

// BodyTable maps a lowercase body identifier to its constants. It is passed
// around explicitly; there is no package level table.
type BodyTable map[string]CelestialObject

// Lookup returns the object from its name.
func (t BodyTable) Lookup(name string) (CelestialObject, error) {
	if obj, ok := t[strings.ToLower(name)]; ok {
		return obj, nil
	}
	return CelestialObject{}, errors.Errorf("undefined body '%s'", name)
}

// Set adds or replaces a body.
func (t BodyTable) Set(c CelestialObject) {
	t[strings.ToLower(c.Name)] = c
}

// Names returns the sorted identifiers of the table.
func (t BodyTable) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t BodyTable) String() string {
	return fmt.Sprintf("%d bodies %v", len(t), t.Names())
}

// DefaultBodies returns a fresh table of the solar system bodies. Radii are
// mean equatorial radii in km, μ in km^3/s^2 (DE440 values).
func DefaultBodies() BodyTable {
	t := BodyTable{}
	for _, c := range []CelestialObject{
		{"Sun", 695700, 1.32712440041279e11},
		{"Mercury", 2440.53, 2.2031868551e4},
		{"Venus", 6051.8, 3.24858592e5},
		{"Earth", 6378.1363, 3.986004418e5},
		{"Moon", 1737.4, 4.9028001184575e3},
		{"Mars", 3396.19, 4.282837362e4},
		{"Jupiter", 71492.0, 1.26712764e8},
		{"Saturn", 60268.0, 3.7940585e7},
		{"Uranus", 25559.0, 5.794556e6},
		{"Neptune", 24764.0, 6.836527e6},
		// Pluto is not a planet and had that down ranking coming.
		{"Pluto", 1188.3, 9.75e2},
	} {
		t.Set(c)
	}
	return t
}
