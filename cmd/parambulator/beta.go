package main

import (
	"fmt"
	"io"

	"github.com/FrostyGecko/parambulator"
	"github.com/spf13/cobra"
)

var (
	betaRAAN, betaInc   float64
	betaBody, betaEpoch string
	betaRA, betaDec     float64
	betaAltitude        float64
	betaUseRADec        bool
)

var betaCmd = &cobra.Command{
	Use:   "beta",
	Short: "Beta angle of an orbit plane and its eclipse fraction",
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := conf.Bodies.Lookup(betaBody)
		if err != nil {
			return err
		}
		var β float64
		if betaUseRADec {
			β = parambulator.BetaAngleDeclination(betaRAAN, betaInc, betaRA, betaDec)
		} else {
			epoch, err := readJDEorTime(betaEpoch)
			if err != nil {
				return err
			}
			eph, err := conf.OpenEphemeris(logger)
			if err != nil {
				return err
			}
			if closer, ok := eph.(io.Closer); ok {
				defer closer.Close()
			}
			sun, err := eph.Position("sun", epoch)
			if err != nil {
				return err
			}
			host, err := eph.Position(body.Name, epoch)
			if err != nil {
				return err
			}
			toSun := []float64{sun[0] - host[0], sun[1] - host[1], sun[2] - host[2]}
			if β, err = parambulator.BetaAngle(betaRAAN, betaInc, toSun); err != nil {
				return err
			}
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "β (deg)\t%f\n", β)
		if betaAltitude > 0 {
			fmt.Fprintf(out, "eclipse fraction\t%f\n", parambulator.EclipseFraction(β, betaAltitude, body.Radius))
		}
		return nil
	},
}

func init() {
	betaCmd.Flags().Float64Var(&betaRAAN, "raan", 0, "right ascension of the ascending node (deg)")
	betaCmd.Flags().Float64Var(&betaInc, "inc", 0, "inclination (deg)")
	betaCmd.Flags().StringVar(&betaBody, "body", "earth", "central body")
	betaCmd.Flags().StringVar(&betaEpoch, "epoch", "2451545.0", "epoch, as a Julian date or RFC3339")
	betaCmd.Flags().BoolVar(&betaUseRADec, "radec", false, "use --ra and --dec for the Sun instead of the ephemeris")
	betaCmd.Flags().Float64Var(&betaRA, "ra", 0, "right ascension of the Sun (deg)")
	betaCmd.Flags().Float64Var(&betaDec, "dec", 0, "declination of the Sun (deg)")
	betaCmd.Flags().Float64Var(&betaAltitude, "altitude", 0, "circular orbit altitude (km) for the eclipse fraction")
}
