package parambulator

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/soniakeys/meeus/v3/julian"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestInterpolatedStatesRoundTrip(t *testing.T) {
	s := NewStateVector([]float64{7000, 200, 3000}, []float64{1, 9.5, 1.5})
	epoch := time.Date(2018, 3, 20, 16, 15, 0, 0, time.UTC)
	samples := SampleTrajectory(s, μEarth, []float64{0, 90, 180, 270})
	states, err := TrajectoryStates(epoch, s, μEarth, samples)
	if err != nil {
		t.Fatal(err)
	}
	if len(states) != 3 {
		t.Fatalf("failed samples should be skipped, got %d states", len(states))
	}
	jd0 := julian.TimeToJD(epoch)
	if states[0].JD != jd0 {
		t.Fatalf("first state at %f instead of %f", states[0].JD, jd0)
	}
	if !scalar.EqualWithinAbs((states[1].JD-jd0)*secondsPerDay, 2965.1031856578356, 1e-3) {
		t.Fatalf("second state at %f", states[1].JD)
	}
	if states[2].JD <= states[1].JD {
		t.Fatal("states are not chronological")
	}

	var buf bytes.Buffer
	if err := WriteInterpolatedStates(&buf, epoch, states); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "# Creation date (UTC): ") {
		t.Fatalf("missing header:\n%s", buf.String())
	}
	parsed, err := ParseInterpolatedStates(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed) != len(states) {
		t.Fatalf("parsed %d states, wrote %d", len(parsed), len(states))
	}
	for i, p := range parsed {
		if !scalar.EqualWithinAbs(p.JD, states[i].JD, 1e-6) {
			t.Fatalf("state %d: JD %f != %f", i, p.JD, states[i].JD)
		}
		if !vectorsEqualWithin(p.Position, states[i].Position, 1e-6) || !vectorsEqualWithin(p.Velocity, states[i].Velocity, 1e-6) {
			t.Fatalf("state %d: %s", i, p.ToText())
		}
	}
}

func TestTrajectoryStatesOpenOrbit(t *testing.T) {
	s := NewStateVector([]float64{7000, 0, 1000}, []float64{0, 12, 1})
	samples := SampleTrajectory(s, μEarth, []float64{0, 10})
	if _, err := TrajectoryStates(time.Now(), s, μEarth, samples); !errors.Is(err, ErrDegenerateGeometry) {
		t.Fatalf("dates on an open orbit accepted: %v", err)
	}
}

func TestParseInterpolatedStatesErrors(t *testing.T) {
	for name, contents := range map[string]string{
		"missing field": "# header\n2458198.1 1 2 3 4 5\n",
		"not a number":  "# header\n2458198.1 1 2 3 4 5 six\n",
	} {
		if _, err := ParseInterpolatedStates(strings.NewReader(contents)); err == nil {
			t.Fatalf("[%s] invalid record accepted", name)
		}
	}
	states, err := ParseInterpolatedStates(strings.NewReader("# only comments\n"))
	if err != nil || len(states) != 0 {
		t.Fatalf("empty file: %d states (%v)", len(states), err)
	}
	var state CgInterpolatedState
	if err := state.FromText([]string{"1"}); err == nil {
		t.Fatal("short record accepted")
	}
}

func TestWriteCatalog(t *testing.T) {
	start := time.Date(2018, 3, 20, 16, 15, 0, 0, time.UTC)
	end := start.Add(72 * time.Hour)
	var buf bytes.Buffer
	if err := WriteCatalog(&buf, "ISS", "Earth", "traj-ISS.xyzv", start, end); err != nil {
		t.Fatal(err)
	}
	var catalog CgCatalog
	if err := json.Unmarshal(buf.Bytes(), &catalog); err != nil {
		t.Fatalf("invalid JSON: %s\n%s", err, buf.String())
	}
	if catalog.Name != "ISS" || len(catalog.Items) != 1 {
		t.Fatalf("catalog: %s", &catalog)
	}
	item := catalog.Items[0]
	if item.Center != "Earth" || item.Trajectory.Source != "traj-ISS.xyzv" || item.TrajectoryPlot.Duration != "4 d" {
		t.Fatalf("item: %+v", item)
	}
	if err := WriteCatalog(&buf, "ISS", "Earth", "traj-ISS.csv", start, end); err == nil {
		t.Fatal("non xyzv source accepted")
	}
}

func TestWriteEclipseCSV(t *testing.T) {
	epoch := time.Date(2018, 3, 20, 16, 15, 0, 0, time.UTC)
	geo, err := NewEclipseGeometry([]float64{0, 0, 0}, []float64{-147e6, 0, 0}, []float64{-147e6 - 7000, 600, 0}, rSun, rEarth)
	if err != nil {
		t.Fatal(err)
	}
	samples := []EclipseSample{
		{Epoch: epoch, Geometry: geo},
		{Epoch: epoch.Add(time.Minute), Geometry: EclipseGeometry{Type: Invalid}, Err: errors.New("no data, really")},
	}
	var buf bytes.Buffer
	if err := WriteEclipseCSV(&buf, "run-id", "Sun", "Earth", "sc", samples); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "# Run: run-id\n") {
		t.Fatalf("run ID not written:\n%s", buf.String())
	}
	r := csv.NewReader(&buf)
	r.Comment = '#'
	records, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("%d records", len(records))
	}
	if strings.Join(records[0], ",") != "epoch,jd,type,theta,theta1,theta2,occlusion,error" {
		t.Fatalf("header: %v", records[0])
	}
	if records[1][0] != "2018-03-20T16:15:00Z" || records[1][2] != "umbral" || records[1][6] != "100.000" || records[1][7] != "" {
		t.Fatalf("first record: %v", records[1])
	}
	if records[1][3] != "4.898859" {
		t.Fatalf("θ=%s", records[1][3])
	}
	if records[2][2] != "invalid" || records[2][7] != "no data, really" {
		t.Fatalf("second record: %v", records[2])
	}
}
