package scoring

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-analyzer/internal/types"
	"github.com/jonathan/resume-analyzer/internal/vocab"
)

// Analyzer names used as keys in AnalysisDetails.Failures
const (
	AnalyzerActionVerbs     = "action_verbs"
	AnalyzerQuantification  = "quantification"
	AnalyzerKeywordMatching = "keyword_matching"
	AnalyzerClarity         = "clarity"
	AnalyzerATS             = "ats"
)

// Stage groups analyzers by the pipeline step that runs them
type Stage int

// Analysis stages
const (
	StageContent Stage = iota
	StageStructure
)

// Input is what every analyzer reads. Requirements may be nil.
type Input struct {
	Resume       *types.ResumeContent
	Requirements *types.JobRequirements
}

// Options tunes the analyzers
type Options struct {
	LongSentenceWords  int
	MaxVerbSuggestions int
}

type analyzer struct {
	name  string
	stage Stage
	run   func(in Input, out *types.AnalysisDetails)
}

// Engine runs the analyzers with per-analyzer failure isolation
type Engine struct {
	vocab     *vocab.Vocabulary
	opts      Options
	analyzers []analyzer
}

// NewEngine creates an engine over the given vocabulary
func NewEngine(v *vocab.Vocabulary, opts Options) *Engine {
	if opts.LongSentenceWords <= 0 {
		opts.LongSentenceWords = DefaultLongSentenceWords
	}
	if opts.MaxVerbSuggestions <= 0 {
		opts.MaxVerbSuggestions = DefaultMaxVerbSuggestions
	}
	e := &Engine{vocab: v, opts: opts}
	e.analyzers = []analyzer{
		{name: AnalyzerActionVerbs, stage: StageContent, run: func(in Input, out *types.AnalysisDetails) {
			out.ActionVerbs = AnalyzeActionVerbs(e.vocab, in.Resume, e.opts.MaxVerbSuggestions)
		}},
		{name: AnalyzerQuantification, stage: StageContent, run: func(in Input, out *types.AnalysisDetails) {
			out.Quantification = AnalyzeQuantification(in.Resume)
		}},
		{name: AnalyzerKeywordMatching, stage: StageContent, run: func(in Input, out *types.AnalysisDetails) {
			out.KeywordMatching = AnalyzeKeywords(in.Resume, in.Requirements)
		}},
		{name: AnalyzerClarity, stage: StageContent, run: func(in Input, out *types.AnalysisDetails) {
			out.Clarity = AnalyzeClarity(e.vocab, in.Resume, e.opts.LongSentenceWords)
		}},
		{name: AnalyzerATS, stage: StageStructure, run: func(in Input, out *types.AnalysisDetails) {
			out.ATS = AnalyzeATS(in.Resume)
		}},
	}
	return e
}

// Run executes the analyzers of one stage concurrently, writing results into
// details. Each analyzer owns one field of details. A panicking analyzer
// leaves its result nil and is recorded in Failures. Run returns ctx.Err()
// if the context ends before the stage finishes.
func (e *Engine) Run(ctx context.Context, stage Stage, in Input, details *types.AnalysisDetails) error {
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, a := range e.analyzers {
		if a.stage != stage {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := runIsolated(a, in, details); err != nil {
				mu.Lock()
				if details.Failures == nil {
					details.Failures = map[string]string{}
				}
				details.Failures[a.name] = err.Error()
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Analyze runs all stages and returns the collected details
func (e *Engine) Analyze(in Input) *types.AnalysisDetails {
	details := &types.AnalysisDetails{}
	_ = e.Run(context.Background(), StageContent, in, details)
	_ = e.Run(context.Background(), StageStructure, in, details)
	return details
}

func runIsolated(a analyzer, in Input, details *types.AnalysisDetails) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s analyzer panicked: %v", a.name, r)
		}
	}()
	a.run(in, details)
	return nil
}
