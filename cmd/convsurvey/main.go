// Package main implements the convsurvey CLI for rating recorded
// assistant conversations.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/convsurvey/internal/config"
)

var (
	// configPath overrides the default config file location
	configPath string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "convsurvey",
	Short: "Human evaluation survey for recorded assistant conversations",
	Long: `convsurvey runs a terminal survey for rating recorded multi-turn assistant
conversations on four quality dimensions, tracks goal completion, and
persists ratings to an xlsx workbook that later sessions can resume from.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/convsurvey/config.yaml)")
	rootCmd.AddCommand(rateCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(reportCmd)
}

// loadConfig loads the effective configuration for a command run.
func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}
