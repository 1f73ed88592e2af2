package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/godeepar/bimgeo/crs"
)

var crsProbe []float64

var crsCmd = &cobra.Command{
	Use:     `crs "SRC → DST"`,
	Short:   "Check a crs pair and optionally transform a coordinate",
	Example: `  bimgeo crs "EPSG:25830 → EPSG:4326" --probe 440000,4474000`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := crs.NewFromPair(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "source: %s\n  %s\n", r.Source.Code, r.Source.Proj)
		fmt.Fprintf(out, "target: %s\n  %s\n", r.Target.Code, r.Target.Proj)
		if r.Identity() {
			fmt.Fprintln(out, "identity transform")
		}

		if len(crsProbe) == 0 {
			return nil
		}
		if len(crsProbe) != 2 {
			return fmt.Errorf("--probe takes x,y")
		}

		x, y, err := r.Transform(crsProbe[0], crsProbe[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "(%v, %v) → (%.9f, %.9f)\n", crsProbe[0], crsProbe[1], x, y)

		return nil
	},
}

func init() {
	crsCmd.Flags().Float64SliceVar(&crsProbe, "probe", nil, "x,y coordinate to transform")
}
