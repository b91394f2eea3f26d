package parambulator

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

func vectorsEqual(a, b []float64) bool {
	return vectorsEqualWithin(a, b, 1e-3)
}

func vectorsEqualWithin(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := len(a) - 1; i >= 0; i-- {
		if !scalar.EqualWithinAbsOrRel(a[i], b[i], tol, tol) {
			return false
		}
	}
	return true
}

// anglesEqual returns whether two angles in degrees are equal.
func anglesEqual(a, b float64) (bool, error) {
	if degreesEqual(a, b) {
		return true, nil
	}
	return false, fmt.Errorf("difference of %3.10f degrees", math.Mod(math.Abs(a-b), 360))
}
