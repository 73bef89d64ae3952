package cmd

import (
	"github.com/spf13/cobra"
)

var atl06Parms *parmsFlags

// atl06Cmd represents the atl06 command
var atl06Cmd = &cobra.Command{
	Use:   "atl06 [resources...]",
	Short: "Compute land ice elevations",
	Long: `Run the atl06 surface fit over the given ATL03 granules, or over the
granules CMR finds for --poly when none are given, and print one row per
elevation.

Example:
  sliderule atl06 --poly "-108.3,38.9 -107.8,38.9 -107.8,39.1 -108.3,39.1"
  sliderule atl06 ATL03_20181019065445_03150111_005_01.h5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		parms, err := atl06Parms.build()
		if err != nil {
			return err
		}
		res, err := services.icesat2.Atl06p(cmd.Context(), parms, args, atl06Parms.workers)
		if err != nil {
			return err
		}
		reportFailures(res.Failed)
		return writeRows(cmd.OutOrStdout(), res.Rows, outputFormat)
	},
}

func init() {
	rootCmd.AddCommand(atl06Cmd)
	atl06Parms = newParmsFlags(atl06Cmd.Flags())
}

func reportFailures(failed map[string]error) {
	for resource, err := range failed {
		services.log.Warn("granule produced no rows", err, map[string]interface{}{
			"resource": resource,
		})
	}
}
