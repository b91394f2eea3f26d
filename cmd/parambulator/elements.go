package main

import (
	"fmt"

	"github.com/FrostyGecko/parambulator"
	"github.com/spf13/cobra"
)

var (
	elemR, elemV []float64
	elemBody     string
)

var elementsCmd = &cobra.Command{
	Use:   "elements",
	Short: "Classical orbital elements from a state vector",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := stateFromFlags(elemR, elemV)
		if err != nil {
			return err
		}
		body, err := conf.Bodies.Lookup(elemBody)
		if err != nil {
			return err
		}
		o, err := parambulator.NewElementsFromRV(s, body.GM())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s around %s\n", o, body.Name)
		fmt.Fprintf(out, "period (s)\t%f\n", o.Period)
		fmt.Fprintf(out, "energy (km²/s²)\t%f\n", o.Energyξ)
		fmt.Fprintf(out, "p (km)\t%f\n", o.SemiParameter)
		fmt.Fprintf(out, "h (km²/s)\t%f\n", o.HNorm)
		fmt.Fprintf(out, "r_p (km)\t%f\n", o.Periapsis)
		fmt.Fprintf(out, "r_a (km)\t%f\n", o.Apoapsis)
		fmt.Fprintf(out, "u (deg)\t%f\n", o.ArgLatitudeU)
		fmt.Fprintf(out, "λ (deg)\t%f\n", o.TrueLongλ)
		fmt.Fprintf(out, "e vector\t%+v\n", o.EccVec)
		fmt.Fprintf(out, "v_esc (km/s)\t%f\n", parambulator.EscapeVelocity(s.RNorm(), body.GM()))
		return nil
	},
}

func init() {
	elementsCmd.Flags().Float64SliceVar(&elemR, "r", nil, "position x,y,z (km)")
	elementsCmd.Flags().Float64SliceVar(&elemV, "v", nil, "velocity x,y,z (km/s)")
	elementsCmd.Flags().StringVar(&elemBody, "body", "earth", "central body")
	elementsCmd.MarkFlagRequired("r")
	elementsCmd.MarkFlagRequired("v")
}
