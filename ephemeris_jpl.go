package parambulator

import (
	"strings"
	"sync"
	"time"

	"github.com/mshafiee/jpleph"
	"github.com/pkg/errors"
	"github.com/soniakeys/meeus/v3/julian"
)

const secondsPerDay = 86400

var jplTargets = map[string]jpleph.Planet{
	"mercury": jpleph.Mercury,
	"venus":   jpleph.Venus,
	"earth":   jpleph.Earth,
	"mars":    jpleph.Mars,
	"jupiter": jpleph.Jupiter,
	"saturn":  jpleph.Saturn,
	"uranus":  jpleph.Uranus,
	"neptune": jpleph.Neptune,
	"pluto":   jpleph.Pluto,
	"moon":    jpleph.Moon,
	"sun":     jpleph.Sun,
	"ssb":     jpleph.SolarSystemBarycenter,
	"emb":     jpleph.EarthMoonBarycenter,
}

// JPLEphemeris reads states from a JPL DE binary file. States are relative to
// the solar system barycenter, in the ICRF.
type JPLEphemeris struct {
	mu   sync.Mutex // the underlying reader seeks in a shared file
	eph  *jpleph.Ephemeris
	auKm float64
}

// NewJPLEphemeris opens the DE binary file at path.
func NewJPLEphemeris(path string) (*JPLEphemeris, error) {
	eph, err := jpleph.NewEphemeris(path, false)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	auKm := eph.GetEphemerisDouble(jpleph.AUinKM)
	if auKm <= 0 {
		auKm = AU
	}
	return &JPLEphemeris{eph: eph, auKm: auKm}, nil
}

// Close releases the ephemeris file.
func (e *JPLEphemeris) Close() error {
	return e.eph.Close()
}

// State implements the Ephemeris interface. The epoch's UTC Julian date is
// used as the ephemeris (TDB) date.
func (e *JPLEphemeris) State(body string, epoch time.Time) (StateVector, error) {
	target, ok := jplTargets[strings.ToLower(body)]
	if !ok {
		return StateVector{}, errors.Errorf("%s is not in the JPL ephemeris", body)
	}
	e.mu.Lock()
	pos, vel, err := e.eph.CalculatePV(julian.TimeToJD(epoch), target, jpleph.CenterSolarSystemBarycenter, true)
	e.mu.Unlock()
	if err != nil {
		return StateVector{}, errors.Wrapf(err, "%s at %s", body, epoch.UTC())
	}
	vScale := e.auKm / secondsPerDay
	return StateVector{
		R: []float64{pos.X * e.auKm, pos.Y * e.auKm, pos.Z * e.auKm},
		V: []float64{vel.DX * vScale, vel.DY * vScale, vel.DZ * vScale},
	}, nil
}

// Position implements the Ephemeris interface.
func (e *JPLEphemeris) Position(body string, epoch time.Time) ([]float64, error) {
	s, err := e.State(body, epoch)
	if err != nil {
		return nil, err
	}
	return s.R, nil
}
