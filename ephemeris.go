package parambulator

import (
	"strings"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/pkg/errors"
)

// Ephemeris returns the inertial state of a named body at an epoch. Positions
// are in km and velocities in km/s, in an equatorial J2000 (ICRF aligned)
// frame whose origin depends on the implementation.
type Ephemeris interface {
	Position(body string, epoch time.Time) ([]float64, error)
	State(body string, epoch time.Time) (StateVector, error)
}

// EphemerisConfig selects and configures an Ephemeris.
type EphemerisConfig struct {
	Kind string // jpl, vsop87 or static
	// Path is the DE binary file for jpl, or the VSOP87B directory for vsop87.
	Path string
	// Static holds the fixed positions (km) of the static kind, keyed by body.
	Static map[string][]float64
}

// NewEphemeris returns the Ephemeris described by the configuration. The
// caller must Close the returned ephemeris if it implements io.Closer.
func NewEphemeris(cfg EphemerisConfig, logger kitlog.Logger) (Ephemeris, error) {
	logger = nopIfNil(logger)
	switch strings.ToLower(cfg.Kind) {
	case "jpl":
		logger.Log("level", "info", "subsys", "ephemeris", "kind", "jpl", "path", cfg.Path)
		return NewJPLEphemeris(cfg.Path)
	case "vsop87":
		logger.Log("level", "info", "subsys", "ephemeris", "kind", "vsop87", "path", cfg.Path)
		return NewVSOP87Ephemeris(cfg.Path), nil
	case "static", "":
		logger.Log("level", "info", "subsys", "ephemeris", "kind", "static", "bodies", len(cfg.Static))
		eph := NewStaticEphemeris()
		for name, pos := range cfg.Static {
			if len(pos) != 3 {
				return nil, errors.Wrapf(ErrInvalidConfiguration, "static position of %s has %d components", name, len(pos))
			}
			eph.Set(name, NewStateVector(pos, []float64{0, 0, 0}))
		}
		return eph, nil
	default:
		return nil, errors.Wrapf(ErrInvalidConfiguration, "unknown ephemeris kind %q", cfg.Kind)
	}
}

// StaticEphemeris returns the same state for a body at any epoch.
type StaticEphemeris struct {
	states map[string]StateVector
}

// NewStaticEphemeris returns an empty static ephemeris.
func NewStaticEphemeris() *StaticEphemeris {
	return &StaticEphemeris{states: make(map[string]StateVector)}
}

// Set defines the state of a body. It must not be called concurrently with lookups.
func (e *StaticEphemeris) Set(body string, s StateVector) {
	e.states[strings.ToLower(body)] = NewStateVector(s.R, s.V)
}

// State implements the Ephemeris interface.
func (e *StaticEphemeris) State(body string, epoch time.Time) (StateVector, error) {
	s, ok := e.states[strings.ToLower(body)]
	if !ok {
		return StateVector{}, errors.Errorf("no static state for %s", body)
	}
	return NewStateVector(s.R, s.V), nil
}

// Position implements the Ephemeris interface.
func (e *StaticEphemeris) Position(body string, epoch time.Time) ([]float64, error) {
	s, err := e.State(body, epoch)
	if err != nil {
		return nil, err
	}
	return s.R, nil
}
