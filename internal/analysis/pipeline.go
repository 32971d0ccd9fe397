package analysis

import (
	"context"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/recommend"
	"github.com/jonathan/resume-analyzer/internal/scoring"
	"github.com/jonathan/resume-analyzer/internal/types"
)

func (o *Orchestrator) defaultHandlers() map[string]stepFunc {
	return map[string]stepFunc{
		StepInitialize:      o.initialize,
		StepParse:           o.parse,
		StepContentAnalysis: o.contentAnalysis,
		StepATSCheck:        o.atsCheck,
		StepScoring:         o.score,
		StepRecommendations: o.recommend,
		StepFinalize:        func(context.Context, *runState) error { return nil },
	}
}

func (o *Orchestrator) initialize(_ context.Context, run *runState) error {
	run.details = &types.AnalysisDetails{}
	return nil
}

func (o *Orchestrator) parse(_ context.Context, run *runState) error {
	run.input.Resume = o.parser.Parse(run.req.ResumeText)
	if strings.TrimSpace(run.req.JobDescription) != "" {
		run.input.Requirements = o.extractor.Extract(run.req.JobDescription)
	}
	return nil
}

func (o *Orchestrator) contentAnalysis(ctx context.Context, run *runState) error {
	return o.engine.Run(ctx, scoring.StageContent, run.input, run.details)
}

func (o *Orchestrator) atsCheck(ctx context.Context, run *runState) error {
	return o.engine.Run(ctx, scoring.StageStructure, run.input, run.details)
}

func (o *Orchestrator) score(_ context.Context, run *runState) error {
	run.scores = o.aggregator.Categories(run.input, run.details)
	run.overall = o.aggregator.Overall(run.scores)
	return nil
}

func (o *Orchestrator) recommend(_ context.Context, run *runState) error {
	run.recs = o.generator.Generate(run.input, run.details, run.scores)
	run.strengths, run.improvements = recommend.Summarize(run.input, run.details, run.scores)
	return nil
}
