package commands

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(logoutCmd)
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Ends the marketplace session and forgets the stored one.",
	Run: func(cmd *cobra.Command, args []string) {
		client := createClient(cmd)
		err := client.Logout(cmd.Context())
		if err != nil {
			fatal("failed to log out", err)
		}
		slog.Info("logged out")
	},
}
