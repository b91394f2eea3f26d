package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/FrostyGecko/parambulator"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	propR, propV       []float64
	propBody           string
	propFrom, propTo   float64
	propStep           float64
	propEpoch, propOut string
)

var propagateCmd = &cobra.Command{
	Use:   "propagate",
	Short: "Two-body propagation over a range of true anomaly changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := stateFromFlags(propR, propV)
		if err != nil {
			return err
		}
		body, err := conf.Bodies.Lookup(propBody)
		if err != nil {
			return err
		}
		if propStep <= 0 || propTo < propFrom {
			return errors.New("--step must be positive and --to not before --from")
		}
		var Δνs []float64
		for Δν := propFrom; Δν <= propTo; Δν += propStep {
			Δνs = append(Δνs, Δν)
		}

		sweeper := parambulator.NewSweeper(conf.Workers, logger, metrics)
		samples := sweeper.Trajectory(context.Background(), s, body.GM(), Δνs)

		if propOut != "" {
			return writeTrajectory(s, body, samples)
		}
		out := cmd.OutOrStdout()
		for _, sample := range samples {
			if sample.Err != nil {
				fmt.Fprintf(out, "Δν=%8.3f\terror: %s\n", sample.Δν, sample.Err)
				continue
			}
			fmt.Fprintf(out, "Δν=%8.3f\t%s\n", sample.Δν, sample.State)
		}
		return nil
	},
}

func writeTrajectory(s parambulator.StateVector, body parambulator.CelestialObject, samples []parambulator.TrajectorySample) error {
	epoch, err := readJDEorTime(propEpoch)
	if err != nil {
		return err
	}
	states, err := parambulator.TrajectoryStates(epoch, s, body.GM(), samples)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return errors.New("no sample could be propagated")
	}
	f, closeOut, err := outputFile(propOut)
	if err != nil {
		return err
	}
	defer closeOut()
	if err := parambulator.WriteInterpolatedStates(f, epoch, states); err != nil {
		return err
	}
	if f == os.Stdout {
		return nil
	}
	// Cosmographia catalog next to the trajectory.
	name := strings.TrimSuffix(filepath.Base(f.Name()), ".xyzv")
	fc, err := os.Create(filepath.Join(filepath.Dir(f.Name()), "catalog-"+name+".json"))
	if err != nil {
		return err
	}
	defer fc.Close()
	end := epoch.Add(time.Duration((states[len(states)-1].JD - states[0].JD) * 24 * float64(time.Hour)))
	return parambulator.WriteCatalog(fc, name, body.Name, filepath.Base(f.Name()), epoch, end)
}

func init() {
	propagateCmd.Flags().Float64SliceVar(&propR, "r", nil, "position x,y,z (km)")
	propagateCmd.Flags().Float64SliceVar(&propV, "v", nil, "velocity x,y,z (km/s)")
	propagateCmd.Flags().StringVar(&propBody, "body", "earth", "central body")
	propagateCmd.Flags().Float64Var(&propFrom, "from", 0, "first Δν (deg)")
	propagateCmd.Flags().Float64Var(&propTo, "to", 360, "last Δν (deg)")
	propagateCmd.Flags().Float64Var(&propStep, "step", 10, "Δν step (deg)")
	propagateCmd.Flags().StringVar(&propEpoch, "epoch", "2451545.0", "epoch of the state, as a Julian date or RFC3339")
	propagateCmd.Flags().StringVar(&propOut, "xyzv", "", "write a Cosmographia .xyzv trajectory to this file")
	propagateCmd.MarkFlagRequired("r")
	propagateCmd.MarkFlagRequired("v")
}
