package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/j-veylop/uranus/internal/config"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "uranus",
	Short: "Product descriptions from audio, URLs and images",
	Long: `Uranus turns a spoken description, a product page or a photo of a label
into a product description using Gemini models, and records every call.

  uranus serve       run the HTTP API and the static frontend
  uranus dashboard   browse the recorded telemetry in the terminal
  uranus stats       print totals from the SQLite mirror

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "path to a .env file (default: search the usual locations)")
}

// loadConfig loads the configuration named by --env-file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
