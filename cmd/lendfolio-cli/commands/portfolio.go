package commands

import (
	"github.com/spf13/cobra"
)

var portfolioCurrency *string
var overviewCurrency *string

func init() {
	portfolioCurrency = portfolioCmd.Flags().String("currency", "EUR", "Currency to report the portfolio in.")
	overviewCurrency = overviewCmd.Flags().String("currency", "EUR", "Currency to report the overview in.")
	rootCmd.AddCommand(portfolioCmd)
	rootCmd.AddCommand(narCmd)
	rootCmd.AddCommand(overviewCmd)
}

var portfolioCmd = &cobra.Command{
	Use:   "portfolio [--currency <name>]",
	Short: "Shows the account's portfolio summary.",
	Run: func(cmd *cobra.Command, args []string) {
		client := createClient(cmd)
		data, err := client.GetPortfolioData(cmd.Context(), *portfolioCurrency)
		if err != nil {
			fatal("failed to retrieve the portfolio summary", err)
		}
		renderMap(data)
	},
}

var narCmd = &cobra.Command{
	Use:   "nar",
	Short: "Shows net annual returns per currency.",
	Run: func(cmd *cobra.Command, args []string) {
		client := createClient(cmd)
		returns, err := client.GetNetAnnualReturn(cmd.Context())
		if err != nil {
			fatal("failed to retrieve net annual returns", err)
		}
		renderMap(returns)
	},
}

var overviewCmd = &cobra.Command{
	Use:   "overview [--currency <name>]",
	Short: "Shows aggregate account figures.",
	Run: func(cmd *cobra.Command, args []string) {
		client := createClient(cmd)
		data, err := client.GetOverview(cmd.Context(), *overviewCurrency)
		if err != nil {
			fatal("failed to retrieve the account overview", err)
		}
		renderMap(data)
	},
}
