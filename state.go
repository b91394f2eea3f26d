package parambulator

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// StateVector is an inertial position (km) and velocity (km/s).
type StateVector struct {
	R, V []float64
}

// NewStateVector copies R and V into a new state vector.
func NewStateVector(R, V []float64) StateVector {
	r := make([]float64, 3)
	v := make([]float64, 3)
	copy(r, R)
	copy(v, V)
	return StateVector{r, v}
}

// RNorm returns |R|.
func (s StateVector) RNorm() float64 {
	return Norm(s.R)
}

// VNorm returns |V|.
func (s StateVector) VNorm() float64 {
	return Norm(s.V)
}

// H returns the specific angular momentum vector R×V.
func (s StateVector) H() []float64 {
	return Cross(s.R, s.V)
}

// Energyξ returns the specific mechanical energy for the given μ.
func (s StateVector) Energyξ(μ float64) float64 {
	v := s.VNorm()
	return v*v/2 - μ/s.RNorm()
}

// Equals returns whether both states are equal within the relative tolerance.
func (s StateVector) Equals(o StateVector, tol float64) bool {
	return floats.EqualApprox(s.R, o.R, tol) && floats.EqualApprox(s.V, o.V, tol)
}

func (s StateVector) String() string {
	return fmt.Sprintf("R=%+v V=%+v", s.R, s.V)
}
