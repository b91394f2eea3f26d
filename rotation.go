package parambulator

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	// J2000Obliquity is the mean obliquity of the ecliptic at J2000, in radians.
	J2000Obliquity = 23.43928 * deg2rad
)

// PQW2ECI converts a given vector from the perifocal frame to the inertial
// frame. Angles are in radians.
func PQW2ECI(i, ω, Ω float64, vI []float64) []float64 {
	return MxV33(R3R1R3(i, ω, Ω), vI)
}

// R3R1R3 is the perifocal to inertial rotation, i.e. R3(-Ω)·R1(-i)·R3(-ω).
func R3R1R3(i, ω, Ω float64) *mat.Dense {
	si, ci := math.Sincos(i)
	sω, cω := math.Sincos(ω)
	sΩ, cΩ := math.Sincos(Ω)
	return mat.NewDense(3, 3, []float64{cΩ*cω - sΩ*sω*ci, -cΩ*sω - sΩ*cω*ci, sΩ * si,
		sΩ*cω + cΩ*sω*ci, cΩ*cω*ci - sΩ*sω, -cΩ * si,
		sω * si, cω * si, ci})
}

// R1 rotation about the 1st axis.
func R1(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// MxV33 multiplies a matrix with a vector. Note that there is no dimension check!
func MxV33(m *mat.Dense, v []float64) (o []float64) {
	vVec := mat.NewVecDense(len(v), v)
	var rVec mat.VecDense
	rVec.MulVec(m, vVec)
	return []float64{rVec.AtVec(0), rVec.AtVec(1), rVec.AtVec(2)}
}

// Ecliptic2Equatorial rotates an ecliptic J2000 vector into the equatorial
// (ICRF-aligned) frame.
func Ecliptic2Equatorial(v []float64) []float64 {
	return MxV33(R1(-J2000Obliquity), v)
}
