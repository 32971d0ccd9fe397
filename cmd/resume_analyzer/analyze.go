package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a résumé, optionally against a job description",
	Long:  "Run the full analysis pipeline on a résumé file (.txt, .md, .html, .pdf, .docx) and print scores, ATS issues and recommendations.",
	RunE:  runAnalyze,
}

var (
	analyzeResumeFile string
	analyzeJobFile    string
	analyzeResumeID   string
	analyzeJSON       bool
	analyzeTimeout    time.Duration
	analyzeQuiet      bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeResumeFile, "resume", "r", "", "Path to the résumé file (required)")
	analyzeCmd.Flags().StringVarP(&analyzeJobFile, "job", "j", "", "Path to a job description file")
	analyzeCmd.Flags().StringVar(&analyzeResumeID, "resume-id", "", "Résumé id (defaults to the content fingerprint)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the result as JSON")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 0, "Override the configured analysis timeout")
	analyzeCmd.Flags().BoolVarP(&analyzeQuiet, "quiet", "q", false, "Do not print progress")
	_ = analyzeCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(analyzeCmd)
}

// progressPublisher prints every progress event
type progressPublisher struct {
	printer *observability.Printer
}

func (p progressPublisher) Publish(_ context.Context, event types.ProgressEvent) error {
	p.printer.PrintProgress(event)
	return nil
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if analyzeTimeout > 0 {
		cfg.Analysis.TimeoutSeconds = int((analyzeTimeout + time.Second - 1) / time.Second)
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	resumeDoc, err := ingestion.LoadDocument(analyzeResumeFile)
	if err != nil {
		return fmt.Errorf("failed to load résumé: %w", err)
	}
	req := analysis.Request{ResumeID: analyzeResumeID, ResumeText: resumeDoc.Text}
	if req.ResumeID == "" {
		req.ResumeID = resumeDoc.Hash
	}
	if analyzeJobFile != "" {
		jobDoc, err := ingestion.LoadDocument(analyzeJobFile)
		if err != nil {
			return fmt.Errorf("failed to load job description: %w", err)
		}
		req.JobDescription = jobDoc.Text
		req.JobDescriptionID = jobDoc.Hash
	}

	var extra []analysis.Publisher
	if !analyzeQuiet && !analyzeJSON {
		extra = append(extra, progressPublisher{printer: observability.NewPrinter(cmd.ErrOrStderr())})
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx, cfg, logger, extra...)
	if err != nil {
		return err
	}
	defer a.shutdown(context.Background())

	submitted, err := a.orchestrator.Submit(ctx, req)
	if err != nil {
		return err
	}
	result, err := a.orchestrator.Wait(ctx, submitted.ID)
	if err != nil {
		return fmt.Errorf("failed waiting for analysis %s: %w", submitted.ID, err)
	}

	if err := writeResult(cmd.OutOrStdout(), result, analyzeJSON); err != nil {
		return err
	}
	if result.Status == types.StatusFailed {
		return fmt.Errorf("analysis %s failed: %s", result.ID, result.Error)
	}
	return nil
}

func writeResult(out io.Writer, result *types.AnalysisResult, asJSON bool) error {
	if asJSON {
		return writeJSON(out, result)
	}
	observability.NewPrinter(out).PrintAnalysis(result)
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}
