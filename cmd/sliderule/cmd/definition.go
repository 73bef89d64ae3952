package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// definitionCmd represents the definition command
var definitionCmd = &cobra.Command{
	Use:   "definition <rectype>",
	Short: "Show the layout of a record type",
	Long: `Fetch and print the field layout the service uses for a record type.

Example:
  sliderule definition atl06rec.elevation`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := services.client.Definition(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%d bytes)\n", s.Name, s.DataSize)
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "FIELD\tTYPE\tOFFSET\tELEMENTS\tFLAGS")
		for _, f := range s.Fields {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", f.Name, f.Type, f.Offset/8, f.Elements, strings.Join(f.Flags, "|"))
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(definitionCmd)
}
