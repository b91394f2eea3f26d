package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/FrostyGecko/parambulator"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	eclSource, eclOcculter, eclObserver string
	eclStart, eclEnd                    string
	eclStep                             time.Duration
	eclOut                              string
)

var eclipseCmd = &cobra.Command{
	Use:   "eclipse",
	Short: "Shadow condition of an observer over a time span",
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := readJDEorTime(eclStart)
		if err != nil {
			return err
		}
		end := start
		if eclEnd != "" {
			if end, err = readJDEorTime(eclEnd); err != nil {
				return err
			}
		}
		if eclStep <= 0 || end.Before(start) {
			return errors.New("--step must be positive and --end not before --start")
		}
		var epochs []time.Time
		for dt := start; !dt.After(end); dt = dt.Add(eclStep) {
			epochs = append(epochs, dt)
		}

		eph, err := conf.OpenEphemeris(logger)
		if err != nil {
			return err
		}
		if closer, ok := eph.(io.Closer); ok {
			defer closer.Close()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		sweeper := parambulator.NewSweeper(conf.Workers, logger, metrics)
		samples, err := sweeper.EclipseSweep(ctx, eph, eclSource, eclOcculter, eclObserver, conf.Bodies, epochs)
		if err != nil {
			return err
		}

		var out io.Writer = cmd.OutOrStdout()
		if eclOut != "" {
			f, closeOut, err := outputFile(eclOut)
			if err != nil {
				return err
			}
			defer closeOut()
			out = f
		}
		return parambulator.WriteEclipseCSV(out, sweeper.RunID, eclSource, eclOcculter, eclObserver, samples)
	},
}

func init() {
	eclipseCmd.Flags().StringVar(&eclSource, "source", "sun", "illuminating body")
	eclipseCmd.Flags().StringVar(&eclOcculter, "occulter", "earth", "occulting body")
	eclipseCmd.Flags().StringVar(&eclObserver, "observer", "", "observer (a body or the configured spacecraft)")
	eclipseCmd.Flags().StringVar(&eclStart, "start", "2451545.0", "first epoch, as a Julian date or RFC3339")
	eclipseCmd.Flags().StringVar(&eclEnd, "end", "", "last epoch (default: start)")
	eclipseCmd.Flags().DurationVar(&eclStep, "step", time.Minute, "time step")
	eclipseCmd.Flags().StringVar(&eclOut, "output", "", "CSV output file (default: stdout)")
	eclipseCmd.MarkFlagRequired("observer")
}
