package parambulator

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	issLine1 = "1 25544U 98067A   08264.51782528 -.00002182  00000-0 -11606-4 0  2927"
	issLine2 = "2 25544  51.6416 247.4627 0006703 130.5360 325.0288 15.72125391563537"
)

const testConfig = `
[general]
output_path = "out"
workers = 3

[ephemeris]
kind = "static"

[ephemeris.static]
sun = [0, 0, 0]
earth = [-147e6, 0.0, 0.0]

[bodies.earth]
radius = 6371.0

[bodies.vesta]
radius = 262.7
mu = 17.8

[spacecraft]
name = "ISS"
host = "earth"
line1 = "` + issLine1 + `"
line2 = "` + issLine2 + `"
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "parambulator.toml"), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func configFromString(t *testing.T, contents string) (*Config, error) {
	t.Helper()
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(strings.NewReader(contents)); err != nil {
		t.Fatalf("invalid TOML: %s", err)
	}
	return ConfigFromViper(v)
}

func TestLoadConfig(t *testing.T) {
	dir := writeConfig(t, testConfig)
	conf, err := LoadConfig(filepath.Join(dir, "parambulator.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if conf.Workers != 3 || conf.OutputDir != "out" {
		t.Fatalf("general section not read: %+v", conf)
	}
	if conf.Ephemeris.Kind != "static" {
		t.Fatalf("kind=%s", conf.Ephemeris.Kind)
	}
	if !vectorsEqual(conf.Ephemeris.Static["earth"], []float64{-147e6, 0, 0}) || !vectorsEqual(conf.Ephemeris.Static["sun"], []float64{0, 0, 0}) {
		t.Fatalf("static positions: %+v", conf.Ephemeris.Static)
	}
	earth, err := conf.Bodies.Lookup("Earth")
	if err != nil {
		t.Fatal(err)
	}
	if earth.Radius != 6371 || earth.GM() != 3.986004418e5 {
		t.Fatalf("earth override: %+v", earth)
	}
	vesta, err := conf.Bodies.Lookup("vesta")
	if err != nil {
		t.Fatal(err)
	}
	if vesta.Radius != 262.7 || vesta.GM() != 17.8 {
		t.Fatalf("new body: %+v", vesta)
	}
	if _, err := conf.Bodies.Lookup("mars"); err != nil {
		t.Fatal("default bodies dropped")
	}
	if conf.Spacecraft == nil || conf.Spacecraft.Name != "ISS" || conf.Spacecraft.Host != "earth" {
		t.Fatalf("spacecraft: %+v", conf.Spacecraft)
	}
}

func TestLoadConfigSearch(t *testing.T) {
	dir := writeConfig(t, "[general]\nworkers = 7\n")
	t.Setenv(ConfigEnv, dir)
	conf, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if conf.Workers != 7 {
		t.Fatalf("workers=%d", conf.Workers)
	}
	if _, err := LoadConfig(filepath.Join(dir, "nope.toml")); err == nil {
		t.Fatal("missing file accepted")
	}
}

func TestConfigDefaults(t *testing.T) {
	conf, err := configFromString(t, "")
	if err != nil {
		t.Fatal(err)
	}
	if conf.Workers != 0 || conf.OutputDir != "." || conf.Ephemeris.Kind != "static" || conf.Spacecraft != nil {
		t.Fatalf("unexpected defaults: %+v", conf)
	}
	if len(conf.Bodies) != len(DefaultBodies()) {
		t.Fatalf("bodies: %s", conf.Bodies)
	}
}

func TestConfigErrors(t *testing.T) {
	for name, contents := range map[string]string{
		"jpl without path":      "[ephemeris]\nkind = \"jpl\"\n",
		"vsop87 without path":   "[ephemeris]\nkind = \"vsop87\"\n",
		"unknown kind":          "[ephemeris]\nkind = \"spice\"\n",
		"negative workers":      "[general]\nworkers = -1\n",
		"new body without mu":   "[bodies.ceres]\nradius = 473.0\n",
		"negative radius":       "[bodies.earth]\nradius = -1.0\n",
		"static 2D position":    "[ephemeris.static]\nearth = [1.0, 2.0]\n",
		"static not numbers":    "[ephemeris.static]\nearth = [\"a\", \"b\", \"c\"]\n",
		"spacecraft no host":    "[spacecraft]\nname = \"ISS\"\nline1 = \"" + issLine1 + "\"\nline2 = \"" + issLine2 + "\"\n",
		"spacecraft short line": "[spacecraft]\nname = \"ISS\"\nhost = \"earth\"\nline1 = \"1 25544U\"\nline2 = \"" + issLine2 + "\"\n",
	} {
		if _, err := configFromString(t, contents); !errors.Is(err, ErrInvalidConfiguration) {
			t.Fatalf("[%s] expected an invalid configuration, got %v", name, err)
		}
	}
	conf, err := configFromString(t, "[ephemeris]\nkind = \"JPL\"\npath = \"de440.bsp\"\n")
	if err != nil {
		t.Fatal(err)
	}
	if conf.Ephemeris.Kind != "jpl" || conf.Ephemeris.Path != "de440.bsp" {
		t.Fatalf("ephemeris: %+v", conf.Ephemeris)
	}
}

func TestConfigOpenEphemeris(t *testing.T) {
	dir := writeConfig(t, testConfig)
	conf, err := LoadConfig(filepath.Join(dir, "parambulator.toml"))
	if err != nil {
		t.Fatal(err)
	}
	eph, err := conf.OpenEphemeris(nil)
	if err != nil {
		t.Fatal(err)
	}
	if closer, ok := eph.(io.Closer); !ok {
		t.Fatal("spacecraft ephemeris should be closable")
	} else {
		defer closer.Close()
	}
	epoch := time.Date(2008, 9, 20, 12, 25, 40, 0, time.UTC)
	sun, err := eph.Position("Sun", epoch)
	if err != nil || !vectorsEqual(sun, []float64{0, 0, 0}) {
		t.Fatalf("sun=%v (%v)", sun, err)
	}
	iss, err := eph.Position("iss", epoch)
	if err != nil {
		t.Fatal(err)
	}
	r := Norm(sub(iss, []float64{-147e6, 0, 0}))
	if r < 6600 || r > 6800 {
		t.Fatalf("ISS is %f km from the Earth center", r)
	}
	if _, err := eph.Position("mars", epoch); err == nil {
		t.Fatal("body absent from the static ephemeris accepted")
	}

	conf.Spacecraft.Host = "moon"
	eph, err = conf.OpenEphemeris(nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := eph.Position("iss", epoch); err == nil {
		t.Fatal("spacecraft without host state accepted")
	}
}
