package parambulator

import "github.com/pkg/errors"

// Failures of the kernel are returned, never panicked. Every error returned
// by the element solver, the propagator and the shadow geometry wraps one of
// the following sentinels, so callers may test with errors.Is.
var (
	// ErrDegenerateGeometry is returned for zero or near-zero magnitudes
	// (null position, rectilinear orbit, coincident bodies).
	ErrDegenerateGeometry = errors.New("degenerate geometry")
	// ErrInvalidConfiguration is returned when the observer geometry makes
	// an eclipse meaningless (observer closer to the source than the occulter is).
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrUnsupportedPropagationAngle is returned when Δν is too close to 180°
	// for the closed-form Lagrange coefficients (sin Δν = 0).
	ErrUnsupportedPropagationAngle = errors.New("unsupported propagation angle")
)
