package commands

import (
	"lendfolio/lib/scrapers/mintos"

	"github.com/spf13/cobra"
)

type listingFlags struct {
	currency  *string
	quantity  *int
	sort      *string
	ascending *bool
	countries *[]string
	lenders   *[]string
}

func registerListingFlags(cmd *cobra.Command) listingFlags {
	return listingFlags{
		currency:  cmd.Flags().String("currency", "EUR", "Currency the records are denominated in."),
		quantity:  cmd.Flags().Int("quantity", 30, "How many records to retrieve."),
		sort:      cmd.Flags().String("sort", "interest_rate", "Field to sort by."),
		ascending: cmd.Flags().Bool("asc", false, "Sort ascending instead of descending."),
		countries: cmd.Flags().StringSlice("countries", nil, "Filter by loan-issuing countries."),
		lenders:   cmd.Flags().StringSlice("lenders", nil, "Filter by lending companies."),
	}
}

var investmentsFlags listingFlags
var investmentsFinished *bool

func init() {
	investmentsFlags = registerListingFlags(investmentsCmd)
	investmentsFinished = investmentsCmd.Flags().Bool("finished", false, "List finished investments instead of current ones.")
	rootCmd.AddCommand(investmentsCmd)
}

var investmentsCmd = &cobra.Command{
	Use:   "investments [--currency <name>] [--quantity <n>] [--finished]",
	Short: "Lists the account's note investments.",
	Run: func(cmd *cobra.Command, args []string) {
		client := createClient(cmd)
		records, err := client.GetInvestments(cmd.Context(), mintos.InvestmentsQuery{
			Currency:        *investmentsFlags.currency,
			Quantity:        *investmentsFlags.quantity,
			Sort:            *investmentsFlags.sort,
			Ascending:       *investmentsFlags.ascending,
			Countries:       *investmentsFlags.countries,
			LenderCompanies: *investmentsFlags.lenders,
			Current:         !*investmentsFinished,
		})
		if err != nil {
			fatal("failed to retrieve investments", err)
		}
		renderTable(records)
	},
}
