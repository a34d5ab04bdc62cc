package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stock-signals",
	Short: "Signal scoring and backtesting service for stocks",
}

func Execute() error {
	// Missing .env is fine in production; config falls back to real
	// environment variables.
	_ = godotenv.Load()

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(migrateCmd)
	return rootCmd.Execute()
}
