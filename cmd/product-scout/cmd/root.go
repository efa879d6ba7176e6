// Package cmd implements the CLI commands for the product-scout server.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "product-scout",
	Short: "Score and rank e-commerce products for dropshipping",
	Long: "An API-first service that scores marketplace products against profit,\n" +
		"review, and trend criteria, re-ranks the top candidates with an AI\n" +
		"backend, and stores evaluation runs for later inspection.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.AddCommand(versionCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
