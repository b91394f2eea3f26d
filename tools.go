package parambulator

import (
	"math"

	"github.com/pkg/errors"
	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/floats/scalar"
)

// EscapeVelocity returns the escape velocity (km/s) at a distance r (km).
func EscapeVelocity(r, μ float64) float64 {
	return math.Sqrt(2 * μ / r)
}

// CircularVelocity returns the velocity (km/s) of a circular orbit of radius r (km).
func CircularVelocity(r, μ float64) float64 {
	return math.Sqrt(μ / r)
}

// InverseSquare scales an intensity I0 known at distance R0 to distance R1.
func InverseSquare(I0, R0, R1 float64) float64 {
	return I0 * (R0 * R0) / (R1 * R1)
}

// NodeVector returns K×H, pointing to the ascending node.
func NodeVector(s StateVector) []float64 {
	return Cross([]float64{0, 0, 1}, s.H())
}

// OrbitNormal returns the unit orbit normal of the plane defined by Ω and i (degrees).
func OrbitNormal(Ω, i float64) []float64 {
	sΩ, cΩ := math.Sincos(unit.AngleFromDeg(Ω).Rad())
	si, ci := math.Sincos(unit.AngleFromDeg(i).Rad())
	return []float64{sΩ * si, -cΩ * si, ci}
}

// PeriapsisVector returns the position of periapsis (km).
func PeriapsisVector(s StateVector, μ float64) ([]float64, error) {
	o, err := NewElementsFromRV(s, μ)
	if err != nil {
		return nil, err
	}
	if o.Circular {
		return nil, errors.Wrap(ErrDegenerateGeometry, "periapsis of a circular orbit is undefined")
	}
	return scaled(o.Periapsis, unitVec(o.EccVec)), nil
}

// ApoapsisVector returns the position of apoapsis (km).
func ApoapsisVector(s StateVector, μ float64) ([]float64, error) {
	o, err := NewElementsFromRV(s, μ)
	if err != nil {
		return nil, err
	}
	if o.Circular {
		return nil, errors.Wrap(ErrDegenerateGeometry, "apoapsis of a circular orbit is undefined")
	}
	if o.Hyperbolic() {
		return nil, errors.Wrap(ErrDegenerateGeometry, "open orbits have no apoapsis")
	}
	return scaled(-o.Apoapsis, unitVec(o.EccVec)), nil
}

// BetaAngle returns the angle (degrees) between the orbit plane defined by
// Ω and i (degrees) and the direction to the Sun, sunVector being the
// vector from the central body to the Sun in the same frame.
func BetaAngle(Ω, i float64, sunVector []float64) (float64, error) {
	if scalar.EqualWithinAbs(Norm(sunVector), 0, zeroε) {
		return 0, errors.Wrap(ErrDegenerateGeometry, "null sun vector")
	}
	return clampedAsin(Dot(OrbitNormal(Ω, i), unitVec(sunVector))) / deg2rad, nil
}

// BetaAngleDeclination returns the beta angle (degrees) from the right
// ascension and declination of the Sun (degrees).
func BetaAngleDeclination(Ω, i, raSun, decSun float64) float64 {
	sδ, cδ := math.Sincos(unit.AngleFromDeg(decSun).Rad())
	si, ci := math.Sincos(unit.AngleFromDeg(i).Rad())
	sinΔ := math.Sin(unit.AngleFromDeg(Ω - raSun).Rad())
	return clampedAsin(cδ*si*sinΔ+sδ*ci) / deg2rad
}

// EclipseFraction returns the fraction of a circular orbit of the given
// altitude spent in the cylindrical shadow of a body of the given radius,
// for a beta angle β in degrees.
func EclipseFraction(β, altitude, radius float64) float64 {
	r := radius + altitude
	βRad := unit.AngleFromDeg(β).Rad()
	βCrit := math.Asin(radius / r)
	if math.Abs(βRad) >= βCrit {
		return 0
	}
	return clampedAcos(math.Sqrt(altitude*altitude+2*radius*altitude)/(r*math.Cos(βRad))) / math.Pi
}
