package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/FrostyGecko/parambulator"
	kitlog "github.com/go-kit/kit/log"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile     string
	metricsFile string
	verbose     bool

	v       *viper.Viper
	conf    *parambulator.Config
	logger  kitlog.Logger
	reg     *prometheus.Registry
	metrics *parambulator.SweepMetrics
)

var rootCmd = &cobra.Command{
	Use:           "parambulator",
	Short:         "Two-body orbital elements, propagation and eclipse geometry",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = parambulator.NewLogger(os.Stderr, "parambulator")
		if !verbose {
			logger = kitlog.NewNopLogger()
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if cfgFile != "" || !errors.As(err, &notFound) {
				return errors.Wrap(err, "reading configuration")
			}
			logger.Log("level", "info", "subsys", "config", "message", "no configuration file, using defaults")
		}
		var err error
		if conf, err = parambulator.ConfigFromViper(v); err != nil {
			return err
		}
		logger.Log("level", "info", "subsys", "config", "file", v.ConfigFileUsed(), "ephemeris", conf.Ephemeris.Kind, "workers", conf.Workers)
		reg = prometheus.NewRegistry()
		metrics = parambulator.NewSweepMetrics(reg)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if metricsFile == "" {
			return nil
		}
		return prometheus.WriteToTextfile(metricsFile, reg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "configuration TOML file (default: parambulator.toml in $"+parambulator.ConfigEnv+" or .)")
	rootCmd.PersistentFlags().Int("workers", 0, "number of sweep workers (0: one per CPU)")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write the sweep metrics to this file in the Prometheus text format")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log to stderr")
	cobra.OnInitialize(func() {
		v = parambulator.NewConfigViper(cfgFile)
		v.BindPFlag("general.workers", rootCmd.PersistentFlags().Lookup("workers"))
	})
	rootCmd.AddCommand(elementsCmd, propagateCmd, eclipseCmd, betaCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

// readJDEorTime parses either a Julian date or an RFC3339 time.
func readJDEorTime(s string) (time.Time, error) {
	if jde, err := strconv.ParseFloat(s, 64); err == nil {
		return julian.JDToTime(jde), nil
	}
	dt, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errors.Errorf("%q is neither a Julian date nor an RFC3339 time", s)
	}
	return dt, nil
}

// stateFromFlags returns the state vector given as two "x,y,z" flags.
func stateFromFlags(R, V []float64) (parambulator.StateVector, error) {
	if len(R) != 3 || len(V) != 3 {
		return parambulator.StateVector{}, errors.New("both --r and --v require three components")
	}
	return parambulator.NewStateVector(R, V), nil
}

// outputFile opens path, relative to the output directory unless it has a
// separator, or stdout for "" and "-". Call closeFn instead of f.Close.
func outputFile(path string) (f *os.File, closeFn func() error, err error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	if !strings.Contains(path, string(os.PathSeparator)) {
		path = conf.OutputDir + string(os.PathSeparator) + path
	}
	if f, err = os.Create(path); err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
