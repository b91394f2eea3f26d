package parambulator

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats/scalar"
)

const (
	eccentricityε = 5e-5                         // 0.00005
	angleε        = (5e-3 / 360) * (2 * math.Pi) // 0.005 degrees
	distanceε     = 2e1                          // 20 km
	// circularε and equatorialε flag the singular orbits for which ω/ν or Ω
	// are ill conditioned. Both are relative: e itself, and n/h = sin(i).
	circularε   = 1e-9
	equatorialε = 1e-11
)

// OrbitalElements are the classical elements of an orbit, together with the
// quantities derived alongside them. All angles are in degrees in [0, 360).
// An OrbitalElements is always built in one shot from a single (R, V, μ)
// triple and is never updated afterwards.
type OrbitalElements struct {
	A    float64 // semi major axis (km), negative for hyperbolas
	E    float64 // eccentricity
	I    float64 // inclination, in [0, 180]
	RAAN float64 // Ω
	ArgP float64 // ω
	Nu   float64 // ν

	Period        float64 // s, NaN for open orbits
	Energyξ       float64 // specific mechanical energy (km^2/s^2)
	SemiParameter float64 // p (km)
	HNorm         float64 // specific angular momentum (km^2/s)
	Periapsis     float64 // r_p (km)
	Apoapsis      float64 // r_a (km), negative for hyperbolas
	ArgLatitudeU  float64 // u = ω + ν
	TrueLongλ     float64 // λ = Ω + ω + ν
	EccVec        []float64

	// Circular is set when e is too small for ω and ν to be meaningful:
	// ω is zero and ν holds the argument of latitude (or the true longitude
	// if also equatorial).
	Circular bool
	// Equatorial is set when the node vector vanishes: Ω is zero and ω
	// holds the longitude of periapsis.
	Equatorial bool

	μ float64
}

// NewElementsFromRV returns orbital elements from the R and V vectors.
// From Vallado's RV2COE, page 113, with the singular orbits folded in.
func NewElementsFromRV(s StateVector, μ float64) (*OrbitalElements, error) {
	if μ <= 0 {
		return nil, errors.Wrapf(ErrDegenerateGeometry, "μ=%g must be positive", μ)
	}
	R, V := s.R, s.V
	r := Norm(R)
	v := Norm(V)
	if scalar.EqualWithinAbs(r, 0, zeroε) {
		return nil, errors.Wrap(ErrDegenerateGeometry, "null position vector")
	}
	hVec := Cross(R, V)
	h := Norm(hVec)
	if scalar.EqualWithinAbs(h, 0, zeroε) || h < zeroε*r*v {
		return nil, errors.Wrapf(ErrDegenerateGeometry, "rectilinear orbit (h=%g)", h)
	}

	eVec := sub(scaled(1/μ, Cross(V, hVec)), scaled(1/r, R))
	e := Norm(eVec)
	ξ := (v*v)/2 - μ/r
	a := math.Inf(1)
	if ξ != 0 {
		a = -μ / (2 * ξ)
	}
	i := clampedAcos(hVec[2] / h)
	n := []float64{-hVec[1], hVec[0], 0} // K x H
	nNorm := Norm(n)

	circular := e < circularε
	equatorial := nNorm/h < equatorialε
	retrograde := hVec[2] < 0

	var Ω, ω, ν, u float64
	if !equatorial {
		Ω = clampedAcos(n[0] / nNorm)
		if n[1] < 0 {
			// Node vector below the I axis: ascending node past 180°.
			Ω = 2*math.Pi - Ω
		}
		u = clampedAcos(Dot(n, R) / (nNorm * r))
		if R[2] < 0 {
			// Below the reference plane: past the descending node.
			u = 2*math.Pi - u
		}
	}

	switch {
	case !circular && !equatorial:
		ω = clampedAcos(Dot(n, eVec) / (nNorm * e))
		if eVec[2] < 0 {
			// Periapsis below the reference plane.
			ω = 2*math.Pi - ω
		}
	case !circular && equatorial:
		// Longitude of periapsis, measured from I in the direction of motion.
		ω = clampedAcos(eVec[0] / e)
		if eVec[1] < 0 {
			ω = 2*math.Pi - ω
		}
		if retrograde {
			// Motion is clockwise seen from +K, so is the angle.
			ω = 2*math.Pi - ω
		}
	}

	switch {
	case !circular:
		ν = clampedAcos(Dot(eVec, R) / (e * r))
		if Dot(R, V) < 0 {
			// Moving toward periapsis.
			ν = 2*math.Pi - ν
		}
	case !equatorial:
		// Circular inclined: anomaly counted from the ascending node.
		ν = u
	default:
		// Circular equatorial: anomaly counted from I.
		ν = clampedAcos(R[0] / r)
		if R[1] < 0 {
			ν = 2*math.Pi - ν
		}
		if retrograde {
			ν = 2*math.Pi - ν
		}
	}
	if equatorial {
		u = ω + ν
	}

	p := h * h / μ
	period := math.NaN()
	if a > 0 && e < 1 && !math.IsInf(a, 1) {
		period = 2 * math.Pi * math.Sqrt(a*a*a/μ)
	}

	return &OrbitalElements{
		A:             a,
		E:             e,
		I:             Rad2deg(i),
		RAAN:          Rad2deg(Ω),
		ArgP:          Rad2deg(ω),
		Nu:            Rad2deg(ν),
		Period:        period,
		Energyξ:       ξ,
		SemiParameter: p,
		HNorm:         h,
		Periapsis:     p / (1 + e),
		Apoapsis:      a * (1 + e),
		ArgLatitudeU:  Rad2deg(u),
		TrueLongλ:     Rad2deg(Ω + ω + ν),
		EccVec:        eVec,
		Circular:      circular,
		Equatorial:    equatorial,
		μ:             μ,
	}, nil
}

// NewElementsFromOE returns the elements of the orbit defined by a, e and
// the angles i, Ω, ω, ν in degrees. The elements are recomputed from the
// inertial state so that every derived field is consistent.
func NewElementsFromOE(a, e, i, Ω, ω, ν, μ float64) (*OrbitalElements, error) {
	if μ <= 0 {
		return nil, errors.Wrapf(ErrDegenerateGeometry, "μ=%g must be positive", μ)
	}
	p := a * (1 - e*e)
	if p <= 0 {
		return nil, errors.Wrapf(ErrDegenerateGeometry, "semi parameter %g from a=%g e=%g", p, a, e)
	}
	s := perifocal2Inertial(p, e, Deg2rad(i), Deg2rad(ω), Deg2rad(Ω), Deg2rad(ν), μ)
	if Norm(s.R) <= 0 || math.IsInf(Norm(s.R), 0) {
		return nil, errors.Wrapf(ErrDegenerateGeometry, "ν=%f is beyond the asymptote", ν)
	}
	return NewElementsFromRV(s, μ)
}

// GM returns the gravitational parameter these elements were computed with.
func (o OrbitalElements) GM() float64 {
	return o.μ
}

// Hyperbolic returns whether this is an open orbit.
func (o OrbitalElements) Hyperbolic() bool {
	return o.E >= 1
}

// Tildeω returns the longitude of periapsis in degrees.
func (o OrbitalElements) Tildeω() float64 {
	return wrap360(o.ArgP + o.RAAN)
}

// RV returns the inertial state vector of these elements, through the
// perifocal frame.
func (o OrbitalElements) RV() StateVector {
	return perifocal2Inertial(o.SemiParameter, o.E, Deg2rad(o.I), Deg2rad(o.ArgP), Deg2rad(o.RAAN), Deg2rad(o.Nu), o.μ)
}

func perifocal2Inertial(p, e, i, ω, Ω, ν, μ float64) StateVector {
	sinν, cosν := math.Sincos(ν)
	rPQW := []float64{p * cosν / (1 + e*cosν), p * sinν / (1 + e*cosν), 0}
	vScale := math.Sqrt(μ / p)
	vPQW := []float64{-vScale * sinν, vScale * (e + cosν), 0}
	return StateVector{PQW2ECI(i, ω, Ω, rPQW), PQW2ECI(i, ω, Ω, vPQW)}
}

// String implements the stringer interface (hence the value receiver)
func (o OrbitalElements) String() string {
	if o.Circular {
		if !o.Equatorial {
			return fmt.Sprintf("a=%.1f e=%.4f i=%.3f Ω=%.3f u=%.3f", o.A, o.E, o.I, o.RAAN, o.ArgLatitudeU)
		}
		return fmt.Sprintf("a=%.1f e=%.4f i=%.3f Ω=%.3f λ=%.3f", o.A, o.E, o.I, o.RAAN, o.TrueLongλ)
	}
	return fmt.Sprintf("a=%.1f e=%.4f i=%.3f Ω=%.3f ω=%.3f ν=%.3f", o.A, o.E, o.I, o.RAAN, o.ArgP, o.Nu)
}

// Equals returns whether two orbits are identical with free true anomaly.
// Use StrictlyEquals to also check true anomaly.
func (o OrbitalElements) Equals(o1 OrbitalElements) (bool, error) {
	if !scalar.EqualWithinAbs(o.μ, o1.μ, zeroε) {
		return false, errors.New("different μ")
	}
	if !scalar.EqualWithinAbs(o.A, o1.A, distanceε) {
		return false, errors.New("semi major axis invalid")
	}
	if !scalar.EqualWithinAbs(o.E, o1.E, eccentricityε) {
		return false, errors.New("eccentricity invalid")
	}
	if !degreesEqual(o.I, o1.I) {
		return false, errors.New("inclination invalid")
	}
	if !degreesEqual(o.RAAN, o1.RAAN) {
		return false, errors.New("RAAN invalid")
	}
	if o.Circular || o1.Circular {
		if o.Equatorial || o1.Equatorial {
			if !degreesEqual(o.TrueLongλ, o1.TrueLongλ) {
				return false, errors.New("true longitude invalid")
			}
		} else if !degreesEqual(o.ArgLatitudeU, o1.ArgLatitudeU) {
			return false, errors.New("argument of latitude invalid")
		}
	} else if !degreesEqual(o.ArgP, o1.ArgP) {
		return false, errors.New("argument of perigee invalid")
	}
	return true, nil
}

// StrictlyEquals returns whether two orbits are identical.
func (o OrbitalElements) StrictlyEquals(o1 OrbitalElements) (bool, error) {
	if !o.Circular && !degreesEqual(o.Nu, o1.Nu) {
		return false, errors.New("true anomaly invalid")
	}
	return o.Equals(o1)
}

// degreesEqual compares two angles in degrees modulo 360.
func degreesEqual(a, b float64) bool {
	diff := math.Mod(math.Abs(a-b), 360)
	return diff < angleε/deg2rad || 360-diff < angleε/deg2rad
}

// Radii2ae returns the semi major axis and the eccentricty from the radii.
func Radii2ae(rA, rP float64) (a, e float64, err error) {
	if rA < rP {
		return 0, 0, errors.Wrap(ErrDegenerateGeometry, "periapsis cannot be greater than apoapsis")
	}
	a = (rP + rA) / 2
	e = (rA - rP) / (rA + rP)
	return
}
