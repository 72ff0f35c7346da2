package commands

import (
	"lendfolio/lib/scrapers/mintos"

	"github.com/spf13/cobra"
)

var loansFlags listingFlags
var loanTypes *[]string

func init() {
	loansFlags = registerListingFlags(loansCmd)
	loanTypes = loansCmd.Flags().StringSlice("types", nil, "Filter by loan types.")
	rootCmd.AddCommand(loansCmd)
}

var loansCmd = &cobra.Command{
	Use:   "loans [--currency <name>] [--quantity <n>]",
	Short: "Lists note offerings on the primary market.",
	Run: func(cmd *cobra.Command, args []string) {
		client := createClient(cmd)
		records, err := client.GetLoans(cmd.Context(), mintos.LoansQuery{
			Currency:        *loansFlags.currency,
			Quantity:        *loansFlags.quantity,
			Sort:            *loansFlags.sort,
			Ascending:       *loansFlags.ascending,
			Countries:       *loansFlags.countries,
			LenderCompanies: *loansFlags.lenders,
			LoanTypes:       *loanTypes,
		})
		if err != nil {
			fatal("failed to retrieve loan offerings", err)
		}
		renderTable(records)
	},
}
