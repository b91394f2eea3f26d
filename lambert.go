package parambulator

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats/scalar"
)

const (
	lambertε     = 1e-6 // General epsilon
	lambertTε    = 1e-6 // Time epsilon (1e-6 seconds)
	lambertMaxIt = 1000
)

// Lambert solves the Lambert boundary problem with universal variables:
// given the initial and final positions and the time of flight Δt0 (s), it
// returns the initial and final velocities along with ψ, the square of the
// change in eccentric anomaly. dm is the direction of motion: 1 for the short
// way, -1 for the long way, and 0 to pick the way of a prograde transfer.
// Multiple revolutions are not supported. Cf. Vallado, algorithm 58.
func Lambert(Ri, Rf []float64, Δt0 float64, dm int, μ float64) (Vi, Vf []float64, ψ float64, err error) {
	if len(Ri) != 3 || len(Rf) != 3 {
		err = errors.Wrap(ErrDegenerateGeometry, "initial and final radii must be 3x1 vectors")
		return
	}
	if μ <= 0 || Δt0 <= 0 {
		err = errors.Wrapf(ErrDegenerateGeometry, "μ=%g and Δt=%g must be positive", μ, Δt0)
		return
	}
	rI := Norm(Ri)
	rF := Norm(Rf)
	if scalar.EqualWithinAbs(rI, 0, zeroε) || scalar.EqualWithinAbs(rF, 0, zeroε) {
		err = errors.Wrap(ErrDegenerateGeometry, "null position vector")
		return
	}
	cosΔν := Dot(Ri, Rf) / (rI * rF)
	switch dm {
	case 0:
		dm = 1
		if Cross(Ri, Rf)[2] < 0 {
			dm = -1
		}
	case 1, -1:
	default:
		err = errors.Wrapf(ErrInvalidConfiguration, "direction of motion must be either 0, -1 or 1 (got %d)", dm)
		return
	}
	A := float64(dm) * math.Sqrt(rI*rF*(1+cosΔν))
	if scalar.EqualWithinAbs(A, 0, lambertε) {
		// The transfer plane is undefined when the positions are opposite.
		err = errors.Wrap(ErrUnsupportedPropagationAngle, "Δν ~=180 and A ~=0, cannot compute trajectory")
		return
	}

	ψ = 0
	ψup := 4 * math.Pi * math.Pi
	ψlow := -4 * math.Pi
	c2, c3 := stumpff(ψ)
	var Δt, y float64
	for it := 0; ; it++ {
		if it == lambertMaxIt {
			err = errors.Errorf("Lambert did not converge after %d iterations (Δt=%f s, expected %f s)", it, Δt, Δt0)
			return
		}
		y = rI + rF + A*(ψ*c3-1)/math.Sqrt(c2)
		if A > 0 && y < 0 {
			// ψ is too small for this geometry.
			ψlow = ψ
			ψ += 0.1
			c2, c3 = stumpff(ψ)
			continue
		}
		χ := math.Sqrt(y / c2)
		Δt = (χ*χ*χ*c3 + A*math.Sqrt(y)) / math.Sqrt(μ)
		if math.Abs(Δt-Δt0) <= lambertTε {
			break
		}
		if Δt < Δt0 {
			ψlow = ψ
		} else {
			ψup = ψ
		}
		ψ = (ψup + ψlow) / 2
		c2, c3 = stumpff(ψ)
	}

	f := 1 - y/rI
	gDot := 1 - y/rF
	g := A * math.Sqrt(y/μ)
	Vi = make([]float64, 3)
	Vf = make([]float64, 3)
	for i := 0; i < 3; i++ {
		Vi[i] = (Rf[i] - f*Ri[i]) / g
		Vf[i] = (gDot*Rf[i] - Ri[i]) / g
	}
	return
}

// stumpff returns the c2 and c3 Stumpff functions of ψ.
func stumpff(ψ float64) (c2, c3 float64) {
	switch {
	case ψ > lambertε:
		sψ := math.Sqrt(ψ)
		ssψ, csψ := math.Sincos(sψ)
		return (1 - csψ) / ψ, (sψ - ssψ) / (sψ * sψ * sψ)
	case ψ < -lambertε:
		sψ := math.Sqrt(-ψ)
		return (1 - math.Cosh(sψ)) / ψ, (math.Sinh(sψ) - sψ) / (sψ * sψ * sψ)
	default:
		return 1 / 2., 1 / 6.
	}
}
