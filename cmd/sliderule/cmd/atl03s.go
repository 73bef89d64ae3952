package cmd

import (
	"github.com/spf13/cobra"
)

var atl03sParms *parmsFlags

// atl03sCmd represents the atl03s command
var atl03sCmd = &cobra.Command{
	Use:   "atl03s <resource>",
	Short: "Subset ATL03 photons",
	Long: `Subset the photons of one ATL03 granule and print one row per photon,
each carrying the fields of its extent.

Example:
  sliderule atl03s ATL03_20181019065445_03150111_005_01.h5 --poly "..." --cnf 4`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parms, err := atl03sParms.build()
		if err != nil {
			return err
		}
		res, err := services.icesat2.Atl03s(cmd.Context(), parms, args[0])
		if err != nil {
			return err
		}
		reportFailures(res.Failed)
		return writeRows(cmd.OutOrStdout(), res.Rows, outputFormat)
	},
}

func init() {
	rootCmd.AddCommand(atl03sCmd)
	atl03sParms = newParmsFlags(atl03sCmd.Flags())
}
