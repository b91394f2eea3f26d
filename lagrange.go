package parambulator

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats/scalar"
)

const (
	// lagrangeIdentityε is how close (in degrees) to a full turn Δν must be
	// for the coefficients to be the identity.
	lagrangeIdentityε = 1e-12
	// lagrangeSingularε is how close (in degrees) to 180° Δν may get before
	// sin Δν makes ḟ indeterminate.
	lagrangeSingularε = 1e-6
)

// LagrangeCoefficients map an initial two-body state to the state after a
// change of true anomaly Δν: R1 = f·R0 + g·V0, V1 = ḟ·R0 + ġ·V0.
// They are only valid for the (R0, V0, μ, Δν) they were computed from.
type LagrangeCoefficients struct {
	F, G, FDot, GDot float64
}

// NewLagrangeCoefficients returns the Lagrange coefficients for a change of
// true anomaly of Δν degrees from the provided state. Cf. Curtis 2.11.
func NewLagrangeCoefficients(s StateVector, μ, Δν float64) (LagrangeCoefficients, error) {
	if μ <= 0 {
		return LagrangeCoefficients{}, errors.Wrapf(ErrDegenerateGeometry, "μ=%g must be positive", μ)
	}
	r0 := Norm(s.R)
	if scalar.EqualWithinAbs(r0, 0, zeroε) {
		return LagrangeCoefficients{}, errors.Wrap(ErrDegenerateGeometry, "null position vector")
	}
	h := Norm(Cross(s.R, s.V))
	if scalar.EqualWithinAbs(h, 0, zeroε) {
		return LagrangeCoefficients{}, errors.Wrapf(ErrDegenerateGeometry, "rectilinear orbit (h=%g)", h)
	}
	wrapped := wrap360(Δν)
	if wrapped < lagrangeIdentityε || 360-wrapped < lagrangeIdentityε {
		return LagrangeCoefficients{F: 1, G: 0, FDot: 0, GDot: 1}, nil
	}
	if math.Abs(wrapped-180) < lagrangeSingularε {
		return LagrangeCoefficients{}, errors.Wrapf(ErrUnsupportedPropagationAngle, "Δν=%f°", Δν)
	}

	sinΔν, cosΔν := math.Sincos(Deg2rad(wrapped))
	vr0 := Dot(s.R, s.V) / r0
	h2 := h * h
	denom := 1 + (h2/(μ*r0)-1)*cosΔν - (h*vr0*sinΔν)/μ
	if denom <= 0 {
		return LagrangeCoefficients{}, errors.Wrapf(ErrDegenerateGeometry, "Δν=%f° is beyond the asymptote", Δν)
	}
	r := (h2 / μ) / denom
	oneMinusCos := 1 - cosΔν

	return LagrangeCoefficients{
		F:    1 - μ*r*oneMinusCos/h2,
		G:    r * r0 * sinΔν / h,
		FDot: (μ / h) * (oneMinusCos / sinΔν) * ((μ/h2)*oneMinusCos - 1/r0 - 1/r),
		GDot: 1 - (μ*r0/h2)*oneMinusCos,
	}, nil
}

// Apply returns the state reached from s.
func (c LagrangeCoefficients) Apply(s StateVector) StateVector {
	R := make([]float64, 3)
	V := make([]float64, 3)
	for i := 0; i < 3; i++ {
		R[i] = c.F*s.R[i] + c.G*s.V[i]
		V[i] = c.FDot*s.R[i] + c.GDot*s.V[i]
	}
	return StateVector{R, V}
}

// Determinant returns f·ġ − ḟ·g, which is unity for any valid set of coefficients.
func (c LagrangeCoefficients) Determinant() float64 {
	return c.F*c.GDot - c.FDot*c.G
}

func (c LagrangeCoefficients) String() string {
	return fmt.Sprintf("f=%g g=%g ḟ=%g ġ=%g", c.F, c.G, c.FDot, c.GDot)
}

// Propagate advances the state s by Δν degrees of true anomaly.
func Propagate(s StateVector, μ, Δν float64) (StateVector, error) {
	c, err := NewLagrangeCoefficients(s, μ, Δν)
	if err != nil {
		return StateVector{}, err
	}
	return c.Apply(s), nil
}

// TrajectorySample is the state reached after Δν degrees, or why it could not be.
type TrajectorySample struct {
	Δν    float64
	State StateVector
	Err   error
}

// SampleTrajectory propagates s to each of the Δν offsets independently.
// A failed sample carries its error and does not affect the others.
func SampleTrajectory(s StateVector, μ float64, Δνs []float64) []TrajectorySample {
	samples := make([]TrajectorySample, len(Δνs))
	for i, Δν := range Δνs {
		state, err := Propagate(s, μ, Δν)
		samples[i] = TrajectorySample{Δν, state, err}
	}
	return samples
}

// TimeOfFlight returns the time (s) needed to sweep Δν degrees of true
// anomaly from s on a closed orbit. Whole revolutions are included.
func TimeOfFlight(s StateVector, μ, Δν float64) (float64, error) {
	o, err := NewElementsFromRV(s, μ)
	if err != nil {
		return 0, err
	}
	if o.Hyperbolic() || o.A <= 0 {
		return 0, errors.Wrapf(ErrDegenerateGeometry, "time of flight on an open orbit (e=%f)", o.E)
	}
	revs := math.Floor(Δν / 360)
	rem := Δν - 360*revs
	M0 := meanAnomaly(Deg2rad(o.Nu), o.E)
	ΔM := math.Mod(meanAnomaly(Deg2rad(o.Nu+rem), o.E)-M0, 2*math.Pi)
	if ΔM < 0 {
		ΔM += 2 * math.Pi
	}
	n := math.Sqrt(μ / (o.A * o.A * o.A))
	return (revs*2*math.Pi + ΔM) / n, nil
}

// meanAnomaly returns M from the true anomaly ν (rad) of an ellipse.
func meanAnomaly(ν, e float64) float64 {
	sinν2, cosν2 := math.Sincos(ν / 2)
	E := 2 * math.Atan2(math.Sqrt(1-e)*sinν2, math.Sqrt(1+e)*cosν2)
	return E - e*math.Sin(E)
}
