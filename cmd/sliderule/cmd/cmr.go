package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aalemi-dev/sliderule-go/cmr"
	"github.com/aalemi-dev/sliderule-go/icesat2"
)

var (
	cmrPoly      string
	cmrShortName string
	cmrVersion   string
	cmrT0        string
	cmrT1        string
)

// cmrCmd represents the cmr command
var cmrCmd = &cobra.Command{
	Use:   "cmr",
	Short: "List granules covering a region",
	Long: `Search NASA's Common Metadata Repository for granules and print their
names, one per line.

Example:
  sliderule cmr --poly "-108.3,38.9 -107.8,38.9 -107.8,39.1" --t0 2019-01-01T00:00:00Z`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var parms icesat2.Parms
		if cmrPoly != "" {
			poly, err := icesat2.ParsePolygon(cmrPoly)
			if err != nil {
				return err
			}
			parms.Poly = poly
		}
		q := cmr.Query{ShortName: cmrShortName, Version: cmrVersion}
		var err error
		if cmrT0 != "" {
			if q.Start, err = time.Parse(time.RFC3339, cmrT0); err != nil {
				return fmt.Errorf("invalid --t0: %w", err)
			}
		}
		if cmrT1 != "" {
			if q.End, err = time.Parse(time.RFC3339, cmrT1); err != nil {
				return fmt.Errorf("invalid --t1: %w", err)
			}
		}

		granules, err := services.icesat2.Granules(cmd.Context(), parms, q)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, g := range granules {
			fmt.Fprintln(out, g)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cmrCmd)
	cmrCmd.Flags().StringVar(&cmrPoly, "poly", "", `region polygon as "lon,lat lon,lat ..."`)
	cmrCmd.Flags().StringVar(&cmrShortName, "short-name", icesat2.ATL03, "product short name")
	cmrCmd.Flags().StringVar(&cmrVersion, "version", "", "product version (default from configuration)")
	cmrCmd.Flags().StringVar(&cmrT0, "t0", "", "start time (RFC 3339)")
	cmrCmd.Flags().StringVar(&cmrT1, "t1", "", "end time (RFC 3339)")
}
