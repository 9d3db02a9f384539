package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "freshmart",
	Short: "Freshmart - Online Grocery Storefront Backend",
	Long: `Freshmart is the backend for an online grocery storefront. It serves the
product catalog, validates discount coupons, and places orders inside a
single stock-reserving transaction.

The server exposes a REST API for the browser cart client; CLI commands
set up the database schema and load sample data.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
