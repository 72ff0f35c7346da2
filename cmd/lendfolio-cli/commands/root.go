package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lendfolio-cli",
	Short: "lendfolio-cli retrieves investment data from the marketplace.",
}

var debugHttpDir *string

func init() {
	debugHttpDir = rootCmd.PersistentFlags().String(
		"debug-http", "",
		"Directory to dump raw request/response exchanges to.",
	)
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
