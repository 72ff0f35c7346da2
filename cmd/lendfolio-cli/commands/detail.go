package commands

import (
	"lendfolio/lib/scrapers/mintos"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(claimCmd)
	rootCmd.AddCommand(scheduleCmd)
}

var noteCmd = &cobra.Command{
	Use:   "note <isin>",
	Short: "Shows the full record of one note investment.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := createClient(cmd)
		row, err := client.GetNoteDetail(cmd.Context(), args[0])
		if err != nil {
			fatal("failed to retrieve the note detail", err)
		}
		renderMap(row)
	},
}

var claimCmd = &cobra.Command{
	Use:   "claim <id>",
	Short: "Shows the full record of one legacy claim.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := createClient(cmd)
		row, err := client.GetClaimDetail(cmd.Context(), args[0])
		if err != nil {
			fatal("failed to retrieve the claim detail", err)
		}
		renderMap(row)
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule <isin>",
	Short: "Shows the payment schedule of one note.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := createClient(cmd)
		rows, err := client.GetNoteSchedule(cmd.Context(), args[0])
		if err != nil {
			fatal("failed to retrieve the note schedule", err)
		}
		renderTable(mintos.Table{Rows: rows})
	},
}
