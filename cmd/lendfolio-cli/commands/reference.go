package commands

import (
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(currenciesCmd)
	rootCmd.AddCommand(lendersCmd)
}

var currenciesCmd = &cobra.Command{
	Use:   "currencies",
	Short: "Lists the currencies the marketplace accepts.",
	Run: func(cmd *cobra.Command, args []string) {
		client := createClient(cmd)
		currencies, err := client.GetCurrencies(cmd.Context())
		if err != nil {
			fatal("failed to retrieve currencies", err)
		}

		w := table.NewWriter()
		w.SetOutputMirror(os.Stdout)
		w.AppendHeader(table.Row{"currency", "iso code"})
		for _, c := range currencies {
			w.AppendRow(table.Row{c.Name, strconv.Itoa(c.IsoCode)})
		}
		w.Render()
	},
}

var lendersCmd = &cobra.Command{
	Use:   "lenders",
	Short: "Lists the lending companies active on the marketplace.",
	Run: func(cmd *cobra.Command, args []string) {
		client := createClient(cmd)
		lenders, err := client.GetLendingCompanies(cmd.Context())
		if err != nil {
			fatal("failed to retrieve lending companies", err)
		}

		w := table.NewWriter()
		w.SetOutputMirror(os.Stdout)
		w.AppendHeader(table.Row{"lending company", "id"})
		for _, l := range lenders {
			w.AppendRow(table.Row{l.Name, strconv.Itoa(l.ID)})
		}
		w.Render()
	},
}
