package parambulator

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/soniakeys/meeus/v3/julian"
)

// CgCatalog definition.
type CgCatalog struct {
	Version string     `json:"version"`
	Name    string     `json:"name"`
	Items   []*CgItems `json:"items"`
	Require []string   `json:"require,omitempty"`
}

func (c *CgCatalog) String() string {
	return c.Name + "(" + c.Version + ")"
}

// CgItems definition.
type CgItems struct {
	Class           string            `json:"class"`
	Name            string            `json:"name"`
	StartTime       string            `json:"startTime"`
	EndTime         string            `json:"endTime"`
	Center          string            `json:"center"`
	TrajectoryFrame string            `json:"trajectoryFrame"`
	Trajectory      *CgTrajectory     `json:"trajectory,omitempty"`
	Label           *CgLabel          `json:"label,omitempty"`
	TrajectoryPlot  *CgTrajectoryPlot `json:"trajectoryPlot,omitempty"`
}

// CgTrajectory definition.
type CgTrajectory struct {
	Type   string `json:"type,omitempty"`
	Source string `json:"source,omitempty"`
}

// Validate validates a CgTrajectory.
func (t *CgTrajectory) Validate() error {
	if t.Type != "InterpolatedStates" || !strings.HasSuffix(t.Source, "xyzv") {
		return errors.New("only InterpolatedStates are currently supported in Cosmographia trajectory types")
	}
	return nil
}

// CgLabel definition.
type CgLabel struct {
	Color    []float64 `json:"color,omitempty"`
	FadeSize int       `json:"fadeSize,omitempty"`
	ShowText bool      `json:"showText,omitempty"`
}

// CgTrajectoryPlot definition.
type CgTrajectoryPlot struct {
	Color       []float64 `json:"color,omitempty"`
	LineWidth   int       `json:"lineWidth,omitempty"`
	Duration    string    `json:"duration,omitempty"`
	Lead        string    `json:"lead,omitempty"`
	Fade        int       `json:"fade,omitempty"`
	SampleCount int       `json:"sampleCount,omitempty"`
}

// CgInterpolatedState is one record of a Cosmographia .xyzv file.
type CgInterpolatedState struct {
	JD       float64
	Position []float64
	Velocity []float64
}

// FromText initializes from text.
// The `record` parameter must be an array of seven items.
func (i *CgInterpolatedState) FromText(record []string) error {
	if len(record) != 7 {
		return errors.Errorf("expected 7 fields, got %d", len(record))
	}
	vals := make([]float64, 7)
	for k, field := range record {
		val, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return errors.Wrapf(err, "field %d", k)
		}
		vals[k] = val
	}
	i.JD = vals[0]
	i.Position = vals[1:4]
	i.Velocity = vals[4:7]
	return nil
}

// ToText converts to text for written output.
func (i *CgInterpolatedState) ToText() string {
	return fmt.Sprintf("%f %f %f %f %f %f %f", i.JD, i.Position[0], i.Position[1], i.Position[2], i.Velocity[0], i.Velocity[1], i.Velocity[2])
}

// ParseInterpolatedStates reads the records of an .xyzv file.
func ParseInterpolatedStates(r io.Reader) ([]*CgInterpolatedState, error) {
	var states = []*CgInterpolatedState{}
	cr := csv.NewReader(r)
	cr.Comma = ' '
	cr.Comment = '#'
	for {
		record, err := cr.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		state := CgInterpolatedState{}
		if err := state.FromText(record); err != nil {
			line, _ := cr.FieldPos(0)
			return nil, errors.Wrapf(err, "line %d", line)
		}
		states = append(states, &state)
	}
	return states, nil
}

// TrajectoryStates converts the successful samples of a trajectory started
// from s at epoch into interpolated states. The date of each record is
// found from the time of flight, so the orbit must be closed.
func TrajectoryStates(epoch time.Time, s StateVector, μ float64, samples []TrajectorySample) ([]CgInterpolatedState, error) {
	jd0 := julian.TimeToJD(epoch)
	states := make([]CgInterpolatedState, 0, len(samples))
	for _, sample := range samples {
		if sample.Err != nil {
			continue
		}
		tof, err := TimeOfFlight(s, μ, sample.Δν)
		if err != nil {
			return nil, err
		}
		states = append(states, CgInterpolatedState{JD: jd0 + tof/secondsPerDay, Position: sample.State.R, Velocity: sample.State.V})
	}
	return states, nil
}

// WriteInterpolatedStates writes an .xyzv file.
func WriteInterpolatedStates(w io.Writer, start time.Time, states []CgInterpolatedState) error {
	if _, err := fmt.Fprintf(w, `# Creation date (UTC): %s
# Records are <jd> <x> <y> <z> <vel x> <vel y> <vel z>
#   Time is a TDB Julian date
#   Position in km
#   Velocity in km/sec
#   Simulation time start (UTC): %s`, time.Now().UTC(), start.UTC()); err != nil {
		return err
	}
	for _, state := range states {
		if _, err := io.WriteString(w, "\n"+state.ToText()); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteCatalog writes the Cosmographia catalog of a spacecraft whose
// trajectory is stored in the .xyzv file called source.
func WriteCatalog(w io.Writer, name, center, source string, start, end time.Time) error {
	traj := CgTrajectory{Type: "InterpolatedStates", Source: source}
	if err := traj.Validate(); err != nil {
		return err
	}
	color := []float64{0.6, 1, 1}
	item := &CgItems{
		Class:           "spacecraft",
		Name:            name,
		StartTime:       start.UTC().String(),
		EndTime:         end.UTC().String(),
		Center:          center,
		TrajectoryFrame: "ICRF",
		Trajectory:      &traj,
		Label:           &CgLabel{Color: color, FadeSize: 1000000, ShowText: true},
		TrajectoryPlot: &CgTrajectoryPlot{Color: color, LineWidth: 1, Lead: "0 d", SampleCount: 10,
			Duration: fmt.Sprintf("%d d", int(end.Sub(start).Hours()/24+1))},
	}
	marsh, err := json.Marshal(CgCatalog{Version: "1.0", Name: name, Items: []*CgItems{item}})
	if err != nil {
		return err
	}
	_, err = w.Write(marsh)
	return err
}

// WriteEclipseCSV writes the samples of an eclipse sweep. Angles are in degrees.
func WriteEclipseCSV(w io.Writer, runID, source, occulter, observer string, samples []EclipseSample) error {
	if _, err := fmt.Fprintf(w, `# Creation date (UTC): %s
# Run: %s
# Shadow of %s on %s in the light of %s
`, time.Now().UTC(), runID, occulter, observer, source); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"epoch", "jd", "type", "theta", "theta1", "theta2", "occlusion", "error"}); err != nil {
		return err
	}
	for _, s := range samples {
		errStr := ""
		if s.Err != nil {
			errStr = s.Err.Error()
		}
		g := s.Geometry
		if err := cw.Write([]string{
			s.Epoch.UTC().Format(time.RFC3339),
			strconv.FormatFloat(julian.TimeToJD(s.Epoch), 'f', 6, 64),
			g.Type.String(),
			strconv.FormatFloat(g.Θ/deg2rad, 'f', 6, 64),
			strconv.FormatFloat(g.Θ1/deg2rad, 'f', 6, 64),
			strconv.FormatFloat(g.Θ2/deg2rad, 'f', 6, 64),
			strconv.FormatFloat(g.OcclusionPercent, 'f', 3, 64),
			errStr,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
