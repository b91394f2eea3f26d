package parambulator

import (
	"io"
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
	"github.com/pkg/errors"
)

// TLEProvider is an Ephemeris of a single spacecraft propagated with SGP4 from
// a two-line element set. The SGP4 state (TEME, taken as inertial) is added to
// the state of the host body (e.g. Earth) returned by Host, so that the
// spacecraft and the planets share one frame. Any other body is delegated to Host.
type TLEProvider struct {
	Name string
	Host string
	sat  satellite.Satellite
	eph  Ephemeris
}

// NewTLEProvider returns a TLEProvider for the spacecraft called name.
func NewTLEProvider(name, line1, line2, host string, eph Ephemeris) (*TLEProvider, error) {
	if err := validateTLELines(line1, line2); err != nil {
		return nil, errors.Wrapf(err, "invalid TLE for %s", name)
	}
	sat := satellite.TLEToSat(strings.TrimSpace(line1), strings.TrimSpace(line2), satellite.GravityWGS84)
	if sat.Error != 0 {
		return nil, errors.Errorf("sgp4 init failed for %s: code=%d %s", name, sat.Error, sat.ErrorStr)
	}
	return &TLEProvider{Name: name, Host: host, sat: sat, eph: eph}, nil
}

// validateTLELines rejects malformed lines before they reach go-satellite,
// which exits the process on a parse failure.
func validateTLELines(line1, line2 string) error {
	line1 = strings.TrimSpace(line1)
	line2 = strings.TrimSpace(line2)
	if len(line1) != 69 {
		return errors.Errorf("line 1 length %d, expected 69", len(line1))
	}
	if len(line2) != 69 {
		return errors.Errorf("line 2 length %d, expected 69", len(line2))
	}
	if line1[0] != '1' {
		return errors.Errorf("line 1 must start with '1', got '%c'", line1[0])
	}
	if line2[0] != '2' {
		return errors.Errorf("line 2 must start with '2', got '%c'", line2[0])
	}
	return nil
}

// State implements the Ephemeris interface.
func (p *TLEProvider) State(body string, epoch time.Time) (StateVector, error) {
	if !strings.EqualFold(body, p.Name) {
		return p.eph.State(body, epoch)
	}
	host, err := p.eph.State(p.Host, epoch)
	if err != nil {
		return StateVector{}, err
	}
	t := epoch.UTC()
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()
	pos, vel := satellite.Propagate(p.sat, year, int(month), day, hour, minute, sec)
	for _, x := range []float64{pos.X, pos.Y, pos.Z, vel.X, vel.Y, vel.Z} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return StateVector{}, errors.Errorf("sgp4 propagation of %s failed at %s", p.Name, t)
		}
	}
	return StateVector{
		R: []float64{host.R[0] + pos.X, host.R[1] + pos.Y, host.R[2] + pos.Z},
		V: []float64{host.V[0] + vel.X, host.V[1] + vel.Y, host.V[2] + vel.Z},
	}, nil
}

// Position implements the Ephemeris interface.
func (p *TLEProvider) Position(body string, epoch time.Time) ([]float64, error) {
	s, err := p.State(body, epoch)
	if err != nil {
		return nil, err
	}
	return s.R, nil
}

// Close closes the host ephemeris if it holds resources.
func (p *TLEProvider) Close() error {
	if c, ok := p.eph.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
