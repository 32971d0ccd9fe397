// Package main provides the entry point for the resume analyzer CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath       string
	logLevelOverride string
)

var rootCmd = &cobra.Command{
	Use:           "resume_analyzer",
	Short:         "Résumé analysis CLI and HTTP API server",
	Long:          "Resume Analyzer scores résumés for content, ATS structure, keywords, experience and skills against an optional job description and suggests prioritized improvements.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevelOverride, "log-level", "", "Override the configured log level")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
