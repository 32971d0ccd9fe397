package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/parsing"
	"github.com/jonathan/resume-analyzer/internal/vocab"
)

var parseResumeCmd = &cobra.Command{
	Use:   "parse-resume",
	Short: "Split a résumé into structured sections",
	RunE:  runParseResume,
}

var (
	parseResumeInput string
	parseResumeJSON  bool
)

func init() {
	parseResumeCmd.Flags().StringVarP(&parseResumeInput, "in", "i", "", "Path to the résumé file (required)")
	parseResumeCmd.Flags().BoolVar(&parseResumeJSON, "json", false, "Print the parsed résumé as JSON")
	_ = parseResumeCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(parseResumeCmd)
}

func runParseResume(cmd *cobra.Command, _ []string) error {
	doc, err := ingestion.LoadDocument(parseResumeInput)
	if err != nil {
		return fmt.Errorf("failed to load résumé: %w", err)
	}
	v, err := vocab.Default()
	if err != nil {
		return fmt.Errorf("failed to load vocabulary: %w", err)
	}

	content, err := parsing.NewResumeParser(v).ParseBytes([]byte(doc.Text))
	if err != nil {
		return err
	}
	if parseResumeJSON {
		return writeJSON(cmd.OutOrStdout(), content)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintResume(content)
	return nil
}
