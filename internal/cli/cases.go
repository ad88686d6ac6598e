package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/csheth/claimscout/internal/catalog"
	"github.com/csheth/claimscout/internal/chart"
)

var casesCmd = &cobra.Command{
	Use:   "cases",
	Short: "List the available patent cases",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Default()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPATENT\tDEFENDANT\tPRODUCT\tELEMENTS\tWEAK")
		for _, c := range cat.Cases() {
			ch := c.SeedChart()
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n", c.ID, c.Patent, c.Defendant, c.Product, ch.Len(), ch.CountByConfidence(chart.Weak))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(casesCmd)
}
