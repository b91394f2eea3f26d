package parambulator

import (
	"io"
	"os"
	"strings"

	kitlog "github.com/go-kit/kit/log"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// ConfigEnv names the environment variable holding the directory searched for
// parambulator.toml when no explicit file is given.
const ConfigEnv = "PARAMBULATOR_CONFIG"

// Config is a parambulator configuration, usually read from a TOML file.
type Config struct {
	Ephemeris  EphemerisConfig
	Bodies     BodyTable
	Spacecraft *TLEConfig // nil unless a [spacecraft] table is given
	Workers    int
	OutputDir  string
}

// TLEConfig describes a spacecraft propagated from a two-line element set.
type TLEConfig struct {
	Name, Host   string
	Line1, Line2 string
}

// LoadConfig reads the configuration file at path. If path is empty,
// parambulator.toml is searched for in $PARAMBULATOR_CONFIG and then in the
// working directory.
func LoadConfig(path string) (*Config, error) {
	v := NewConfigViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "reading configuration")
	}
	return ConfigFromViper(v)
}

// NewConfigViper returns a viper instance set up to read the file at path,
// or to search for parambulator.toml if path is empty. Nothing is read yet.
func NewConfigViper(path string) *viper.Viper {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
		return v
	}
	v.SetConfigName("parambulator")
	v.SetConfigType("toml")
	if dir := os.Getenv(ConfigEnv); dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")
	return v
}

// ConfigFromViper builds a Config from the keys already loaded in v, which
// may also be bound to command line flags.
func ConfigFromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("general.output_path", ".")
	v.SetDefault("general.workers", 0)
	v.SetDefault("ephemeris.kind", "static")

	conf := &Config{
		Ephemeris: EphemerisConfig{
			Kind: strings.ToLower(v.GetString("ephemeris.kind")),
			Path: v.GetString("ephemeris.path"),
		},
		Bodies:    DefaultBodies(),
		Workers:   v.GetInt("general.workers"),
		OutputDir: v.GetString("general.output_path"),
	}
	if conf.Workers < 0 {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "general.workers=%d", conf.Workers)
	}
	switch conf.Ephemeris.Kind {
	case "jpl", "vsop87":
		if conf.Ephemeris.Path == "" {
			return nil, errors.Wrapf(ErrInvalidConfiguration, "ephemeris.path is required for the %s ephemeris", conf.Ephemeris.Kind)
		}
	case "static":
	default:
		return nil, errors.Wrapf(ErrInvalidConfiguration, "unknown ephemeris kind %q", conf.Ephemeris.Kind)
	}

	static, err := staticPositions(v.GetStringMap("ephemeris.static"))
	if err != nil {
		return nil, err
	}
	conf.Ephemeris.Static = static

	for name := range v.GetStringMap("bodies") {
		if err := overrideBody(v, conf.Bodies, name); err != nil {
			return nil, err
		}
	}

	if v.IsSet("spacecraft") {
		sc := &TLEConfig{
			Name:  v.GetString("spacecraft.name"),
			Host:  v.GetString("spacecraft.host"),
			Line1: v.GetString("spacecraft.line1"),
			Line2: v.GetString("spacecraft.line2"),
		}
		if sc.Name == "" || sc.Host == "" {
			return nil, errors.Wrap(ErrInvalidConfiguration, "spacecraft requires a name and a host")
		}
		if err := validateTLELines(sc.Line1, sc.Line2); err != nil {
			return nil, errors.Wrapf(ErrInvalidConfiguration, "spacecraft %s: %s", sc.Name, err)
		}
		conf.Spacecraft = sc
	}
	return conf, nil
}

func staticPositions(raw map[string]interface{}) (map[string][]float64, error) {
	positions := make(map[string][]float64, len(raw))
	for name, val := range raw {
		items, err := cast.ToSliceE(val)
		if err != nil || len(items) != 3 {
			return nil, errors.Wrapf(ErrInvalidConfiguration, "ephemeris.static.%s must be an array of three numbers", name)
		}
		pos := make([]float64, 3)
		for i, item := range items {
			if pos[i], err = cast.ToFloat64E(item); err != nil {
				return nil, errors.Wrapf(ErrInvalidConfiguration, "ephemeris.static.%s[%d]: %s", name, i, err)
			}
		}
		positions[name] = pos
	}
	return positions, nil
}

// overrideBody merges the [bodies.<name>] table into the table. Unknown bodies
// must define both their radius and μ.
func overrideBody(v *viper.Viper, bodies BodyTable, name string) error {
	key := "bodies." + name
	body, err := bodies.Lookup(name)
	if err != nil {
		if !v.IsSet(key+".radius") || !v.IsSet(key+".mu") {
			return errors.Wrapf(ErrInvalidConfiguration, "new body %s requires a radius and a mu", name)
		}
		body = CelestialObject{Name: name}
	}
	if v.IsSet(key + ".radius") {
		body.Radius = v.GetFloat64(key + ".radius")
	}
	if v.IsSet(key + ".mu") {
		body.μ = v.GetFloat64(key + ".mu")
	}
	if body.Radius <= 0 || body.μ <= 0 {
		return errors.Wrapf(ErrInvalidConfiguration, "body %s must have a positive radius and mu", name)
	}
	bodies.Set(body)
	return nil
}

// OpenEphemeris returns the configured ephemeris, which also serves the
// spacecraft if one is configured. The caller must Close it if it
// implements io.Closer.
func (c *Config) OpenEphemeris(logger kitlog.Logger) (Ephemeris, error) {
	eph, err := NewEphemeris(c.Ephemeris, logger)
	if err != nil {
		return nil, err
	}
	if c.Spacecraft == nil {
		return eph, nil
	}
	tle, err := NewTLEProvider(c.Spacecraft.Name, c.Spacecraft.Line1, c.Spacecraft.Line2, c.Spacecraft.Host, eph)
	if err != nil {
		if closer, ok := eph.(io.Closer); ok {
			closer.Close()
		}
		return nil, err
	}
	return tle, nil
}
