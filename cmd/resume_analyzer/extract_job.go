package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/parsing"
	"github.com/jonathan/resume-analyzer/internal/vocab"
)

var extractJobCmd = &cobra.Command{
	Use:   "extract-job",
	Short: "Extract structured requirements from a job description",
	Long:  "Extract required and preferred skills, experience level, education, certifications and keywords from a job description file. HTML postings are flattened to text first.",
	RunE:  runExtractJob,
}

var (
	extractJobInput string
	extractJobJSON  bool
)

func init() {
	extractJobCmd.Flags().StringVarP(&extractJobInput, "in", "i", "", "Path to the job description file (required)")
	extractJobCmd.Flags().BoolVar(&extractJobJSON, "json", false, "Print the requirements as JSON")
	_ = extractJobCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(extractJobCmd)
}

func runExtractJob(cmd *cobra.Command, _ []string) error {
	doc, err := ingestion.LoadDocument(extractJobInput)
	if err != nil {
		return fmt.Errorf("failed to load job description: %w", err)
	}
	v, err := vocab.Default()
	if err != nil {
		return fmt.Errorf("failed to load vocabulary: %w", err)
	}

	reqs := parsing.NewRequirementExtractor(v).Extract(doc.Text)
	if extractJobJSON {
		return writeJSON(cmd.OutOrStdout(), reqs)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintJobRequirements(reqs)
	return nil
}
