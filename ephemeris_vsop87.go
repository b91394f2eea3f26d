package parambulator

import (
	"math"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/planetposition"
)

// vsop87Δt is the half step (s) of the central difference used for velocities.
const vsop87Δt = 60.0

var vsop87Bodies = map[string]int{
	"mercury": planetposition.Mercury,
	"venus":   planetposition.Venus,
	"earth":   planetposition.Earth,
	"mars":    planetposition.Mars,
	"jupiter": planetposition.Jupiter,
	"saturn":  planetposition.Saturn,
	"uranus":  planetposition.Uranus,
	"neptune": planetposition.Neptune,
}

// VSOP87Ephemeris computes heliocentric planet states from the VSOP87B
// series. The Sun is at the origin.
type VSOP87Ephemeris struct {
	dir     string
	mu      sync.Mutex
	planets map[int]*planetposition.V87Planet
}

// NewVSOP87Ephemeris returns an ephemeris reading the VSOP87B files in dir.
// Files are loaded on first use.
func NewVSOP87Ephemeris(dir string) *VSOP87Ephemeris {
	return &VSOP87Ephemeris{dir: dir, planets: make(map[int]*planetposition.V87Planet)}
}

func (e *VSOP87Ephemeris) planet(body string) (*planetposition.V87Planet, error) {
	ibody, ok := vsop87Bodies[strings.ToLower(body)]
	if !ok {
		return nil, errors.Errorf("%s is not in VSOP87", body)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if pp, loaded := e.planets[ibody]; loaded {
		return pp, nil
	}
	pp, err := planetposition.LoadPlanetPath(ibody, e.dir)
	if err != nil {
		return nil, errors.Wrapf(err, "could not load %s from %s", body, e.dir)
	}
	e.planets[ibody] = pp
	return pp, nil
}

// Position implements the Ephemeris interface.
func (e *VSOP87Ephemeris) Position(body string, epoch time.Time) ([]float64, error) {
	if strings.EqualFold(body, "sun") {
		return []float64{0, 0, 0}, nil
	}
	pp, err := e.planet(body)
	if err != nil {
		return nil, err
	}
	return vsop87Position(pp, julian.TimeToJD(epoch)), nil
}

// State implements the Ephemeris interface.
func (e *VSOP87Ephemeris) State(body string, epoch time.Time) (StateVector, error) {
	if strings.EqualFold(body, "sun") {
		return StateVector{[]float64{0, 0, 0}, []float64{0, 0, 0}}, nil
	}
	pp, err := e.planet(body)
	if err != nil {
		return StateVector{}, err
	}
	jd := julian.TimeToJD(epoch)
	δ := vsop87Δt / secondsPerDay
	before := vsop87Position(pp, jd-δ)
	after := vsop87Position(pp, jd+δ)
	V := make([]float64, 3)
	for i := range V {
		V[i] = (after[i] - before[i]) / (2 * vsop87Δt)
	}
	return StateVector{vsop87Position(pp, jd), V}, nil
}

// vsop87Position returns the equatorial J2000 position (km) from the
// ecliptic L, B, R of date J2000.
func vsop87Position(pp *planetposition.V87Planet, jd float64) []float64 {
	l, b, r := pp.Position2000(jd)
	return Ecliptic2Equatorial(Spherical2Cartesian([]float64{r * AU, math.Pi/2 - b.Rad(), l.Rad()}))
}
