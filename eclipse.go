package parambulator

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats/scalar"
)

// EclipseType is the shadow condition of an observer. Cf. Kelso,
// "Visually observing earth satellites", Celestrak column v03n01.
type EclipseType int8

const (
	// Invalid is used when the geometry does not allow an eclipse (the
	// observer is closer to the source than the occulter, or coincides
	// with one of the bodies).
	Invalid EclipseType = iota - 1
	// Sunlit means the source disk is fully visible.
	Sunlit
	// AnnularPenumbral means the occulter disk is wholly inside the source disk.
	AnnularPenumbral
	// Penumbral means the disks partially overlap.
	Penumbral
	// Umbral means the source disk is wholly hidden.
	Umbral
)

func (t EclipseType) String() string {
	switch t {
	case Invalid:
		return "invalid"
	case Sunlit:
		return "sunlit"
	case AnnularPenumbral:
		return "annular"
	case Penumbral:
		return "penumbral"
	case Umbral:
		return "umbral"
	}
	return fmt.Sprintf("EclipseType(%d)", int8(t))
}

// EclipseGeometry is the apparent geometry of a source (e.g. the Sun) and an
// occulter (e.g. the Earth) seen by an observer at one epoch. Angles in radians.
type EclipseGeometry struct {
	Θ                float64 // apparent separation of the disk centers
	Θ1               float64 // apparent radius of the source
	Θ2               float64 // apparent radius of the occulter
	Type             EclipseType
	OcclusionPercent float64 // percentage of the source disk hidden, in [0, 100]
}

// NewEclipseGeometry classifies the shadow condition at the observer P3 of
// the source P1 (radius r1) behind the occulter P2 (radius r2). All positions
// must be in the same frame, in km. On error, the returned geometry has the
// Invalid type and whatever angles could be computed.
func NewEclipseGeometry(P1, P2, P3 []float64, r1, r2 float64) (EclipseGeometry, error) {
	R31 := sub(P1, P3)
	R21 := sub(P1, P2)
	R32 := sub(P2, P3)
	D31 := Norm(R31)
	D21 := Norm(R21)
	D32 := Norm(R32)

	geo := EclipseGeometry{Type: Invalid}
	if scalar.EqualWithinAbs(D31, 0, zeroε) || scalar.EqualWithinAbs(D32, 0, zeroε) {
		return geo, errors.Wrapf(ErrDegenerateGeometry, "observer coincides with a body (D31=%g D32=%g)", D31, D32)
	}
	if scalar.EqualWithinAbs(D21, 0, zeroε) {
		return geo, errors.Wrapf(ErrDegenerateGeometry, "source and occulter coincide (D21=%g)", D21)
	}

	geo.Θ = clampedAcos(Dot(R32, R31) / (D32 * D31))
	geo.Θ1 = clampedAsin(r1 / D31)
	geo.Θ2 = clampedAsin(r2 / D32)

	if D31 < D21 {
		return geo, errors.Wrapf(ErrInvalidConfiguration, "observer is closer to the source than the occulter is (D31=%g < D21=%g)", D31, D21)
	}
	geo.Type = eclipseType(geo.Θ, geo.Θ1, geo.Θ2)
	geo.OcclusionPercent = OcclusionPercent(geo.Θ, geo.Θ1, geo.Θ2)
	return geo, nil
}

// eclipseType is an ordered decision list: the first match wins. It uses the
// source and occulter radii as given; they are not interchangeable.
func eclipseType(θ, θ1, θ2 float64) EclipseType {
	switch {
	case θ < θ2-θ1:
		// The occulter disk covers the whole source disk.
		return Umbral
	case math.Abs(θ2-θ1) <= θ && θ < θ1+θ2:
		// The disk edges cross.
		return Penumbral
	case θ < θ1-θ2:
		// The occulter disk is wholly within the larger source disk.
		return AnnularPenumbral
	default:
		// The disks are apart.
		return Sunlit
	}
}

// OcclusionPercent returns the percentage of the source disk (apparent
// radius θ1) hidden by the occulter disk (apparent radius θ2) when their
// centers are θ apart. Cf. Assencio, "Circle-circle intersection area".
func OcclusionPercent(θ, θ1, θ2 float64) float64 {
	if θ1 <= 0 {
		return 0
	}
	// The lens area is symmetric: only here may the radii be swapped.
	α1, α2 := θ1, θ2
	if α2 > α1 {
		α1, α2 = α2, α1
	}
	var area float64
	switch {
	case θ >= α1+α2:
		area = 0
	case θ <= α1-α2:
		area = math.Pi * α2 * α2
	default:
		// θ > α1-α2 >= 0 here, so the division is safe.
		Δ1 := (α1*α1 - α2*α2 + θ*θ) / (2 * θ)
		Δ2 := θ - Δ1
		area = α1*α1*clampedAcos(Δ1/α1) + α2*α2*clampedAcos(Δ2/α2) -
			Δ1*math.Sqrt(math.Max(α1*α1-Δ1*Δ1, 0)) - Δ2*math.Sqrt(math.Max(α2*α2-Δ2*Δ2, 0))
	}
	pct := 100 * area / (math.Pi * θ1 * θ1)
	return math.Min(math.Max(pct, 0), 100)
}
