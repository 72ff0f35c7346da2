package commands

import (
	"lendfolio/lib/scrapers/mintos"

	"github.com/spf13/cobra"
)

var claimsFlags listingFlags
var claimsFinished *bool

func init() {
	claimsFlags = registerListingFlags(claimsCmd)
	claimsFinished = claimsCmd.Flags().Bool("finished", false, "List finished claims instead of current ones.")
	rootCmd.AddCommand(claimsCmd)
}

var claimsCmd = &cobra.Command{
	Use:   "claims [--currency <name>] [--quantity <n>] [--finished]",
	Short: "Lists the account's legacy claim investments.",
	Run: func(cmd *cobra.Command, args []string) {
		client := createClient(cmd)
		records, err := client.GetClaims(cmd.Context(), mintos.ClaimsQuery{
			Currency:        *claimsFlags.currency,
			Quantity:        *claimsFlags.quantity,
			Sort:            *claimsFlags.sort,
			Ascending:       *claimsFlags.ascending,
			Countries:       *claimsFlags.countries,
			LenderCompanies: *claimsFlags.lenders,
			Current:         !*claimsFinished,
		})
		if err != nil {
			fatal("failed to retrieve claims", err)
		}
		renderTable(records)
	},
}
