package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "petmart",
	Short: "Petmart - storefront API server",
	Long: `Petmart is the backend for a small pet storefront: product catalog
browsing and search, order placement and history, and an admin back-office
with filtered, paginated listings for orders, products and users.

The server speaks JSON over HTTP and stores its data in MongoDB.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
