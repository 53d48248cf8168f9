package main

import (
	"github.com/spf13/cobra"

	"github.com/menucarta/carta/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "carta",
	Short: "Menu digitization pipeline with LLM-powered structured extraction",
	Long: `Carta converts restaurant menu documents into a normalized structured
dataset of menu items with prices, categories and metadata.

The pipeline includes:
  - Text extraction from PDF and plain-text sources
  - Normalization and chunking of noisy extracted text
  - Schema-constrained structured extraction with retry/backoff
  - Record validation, aggregation and confidence scoring
  - Flat tabular export (CSV, XLSX)`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.carta/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "carta home directory (default: ~/.carta)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		setOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
