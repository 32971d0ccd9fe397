// Package analysis runs résumé analyses as background tasks and tracks
// their progress through a fixed sequence of weighted steps.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/jonathan/resume-analyzer/internal/parsing"
	"github.com/jonathan/resume-analyzer/internal/recommend"
	"github.com/jonathan/resume-analyzer/internal/scoring"
	"github.com/jonathan/resume-analyzer/internal/store"
	"github.com/jonathan/resume-analyzer/internal/types"
	"github.com/jonathan/resume-analyzer/internal/vocab"
)

// Defaults applied by New
const (
	DefaultTimeout       = 60 * time.Second
	DefaultStepFloor     = 250 * time.Millisecond
	DefaultMaxConcurrent = 4

	persistTimeout = 10 * time.Second
)

// Request is the input of one analysis
type Request struct {
	ResumeID         string `json:"resume_id" validate:"required,max=128"`
	ResumeText       string `json:"resume_text" validate:"required"`
	JobDescriptionID string `json:"job_description_id,omitempty" validate:"omitempty,max=128"`
	JobDescription   string `json:"job_description,omitempty"`
}

// Options configures an Orchestrator. Zero values select defaults, except
// StepFloor where zero disables the floor.
type Options struct {
	Timeout        time.Duration
	StepFloor      time.Duration
	MaxConcurrent  int
	MaxPerCategory int
	Scoring        scoring.Options
	Weights        *scoring.Weights
	Clock          Clock
	Store          store.Store
	Publisher      Publisher
	Logger         zerolog.Logger
	Steps          []StepDefinition
}

// stepFunc performs the work of one step
type stepFunc func(ctx context.Context, run *runState) error

// Orchestrator schedules analyses, enforces per-id single-writer updates and
// exposes results and progress.
type Orchestrator struct {
	opts       Options
	steps      []StepDefinition
	handlers   map[string]stepFunc
	tracker    *Tracker
	store      store.Store
	logger     zerolog.Logger
	clock      Clock
	validate   *validator.Validate
	sem        *semaphore.Weighted
	retries    singleflight.Group
	parser     *parsing.ResumeParser
	extractor  *parsing.RequirementExtractor
	engine     *scoring.Engine
	aggregator *scoring.Aggregator
	generator  *recommend.Generator

	baseCtx    context.Context
	baseCancel context.CancelCauseFunc
	wg         sync.WaitGroup

	mu      sync.RWMutex
	closing bool
	records map[string]*record
}

// record is the per-id state. Its mutex serializes every write to the
// result and the tracker for that id.
type record struct {
	mu      sync.Mutex
	req     Request
	attempt int
	result  *types.AnalysisResult
	cancel  context.CancelCauseFunc
	done    chan struct{}
}

// runState carries intermediate values between steps of one run
type runState struct {
	req          Request
	input        scoring.Input
	details      *types.AnalysisDetails
	scores       types.CategoryScores
	overall      int
	recs         []types.Recommendation
	strengths    []string
	improvements []string
}

// New creates an orchestrator over a vocabulary
func New(v *vocab.Vocabulary, opts Options) (*Orchestrator, error) {
	if v == nil {
		return nil, fmt.Errorf("vocabulary is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.StepFloor < 0 {
		opts.StepFloor = 0
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = DefaultMaxConcurrent
	}
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.Store == nil {
		opts.Store = store.NewMemory()
	}
	steps := opts.Steps
	if steps == nil {
		steps = DefaultSteps()
	}
	weights := scoring.DefaultWeights()
	if opts.Weights != nil {
		if err := opts.Weights.Validate(); err != nil {
			return nil, err
		}
		weights = *opts.Weights
	}

	tracker, err := NewTracker(steps, opts.Clock, opts.Publisher, opts.Logger)
	if err != nil {
		return nil, err
	}

	baseCtx, baseCancel := context.WithCancelCause(context.Background())
	o := &Orchestrator{
		opts:       opts,
		steps:      tracker.Steps(),
		tracker:    tracker,
		store:      opts.Store,
		logger:     opts.Logger,
		clock:      opts.Clock,
		validate:   validator.New(),
		sem:        semaphore.NewWeighted(int64(opts.MaxConcurrent)),
		parser:     parsing.NewResumeParser(v),
		extractor:  parsing.NewRequirementExtractor(v),
		engine:     scoring.NewEngine(v, opts.Scoring),
		aggregator: scoring.NewAggregator(weights),
		generator:  recommend.NewGenerator(opts.MaxPerCategory),
		baseCtx:    baseCtx,
		baseCancel: baseCancel,
		records:    make(map[string]*record),
	}
	o.handlers = o.defaultHandlers()
	for _, s := range o.steps {
		if _, ok := o.handlers[s.Name]; !ok {
			baseCancel(nil)
			return nil, &StepError{Step: s.Name, Message: "no handler for step"}
		}
	}
	return o, nil
}

// Tracker exposes the progress state machine
func (o *Orchestrator) Tracker() *Tracker {
	return o.tracker
}

func (o *Orchestrator) validateRequest(req Request) error {
	if err := o.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &parsing.InputError{Field: fieldName(fe.Field()), Message: "failed " + fe.Tag() + " validation", Cause: err}
		}
		return &parsing.InputError{Field: "request", Message: "invalid request", Cause: err}
	}
	if strings.TrimSpace(req.ResumeText) == "" {
		return &parsing.InputError{Field: "resume_text", Message: "résumé text is blank"}
	}
	return nil
}

func fieldName(goName string) string {
	switch goName {
	case "ResumeID":
		return "resume_id"
	case "ResumeText":
		return "resume_text"
	case "JobDescriptionID":
		return "job_description_id"
	}
	return strings.ToLower(goName)
}

func newPendingResult(id string, req Request, attempt int) *types.AnalysisResult {
	return &types.AnalysisResult{
		ID:               id,
		ResumeID:         req.ResumeID,
		JobDescriptionID: req.JobDescriptionID,
		Attempt:          attempt,
		Recommendations:  []types.Recommendation{},
		Strengths:        []string{},
		ImprovementAreas: []string{},
		Status:           types.StatusPending,
	}
}

// Submit validates req, stores a pending result and schedules the run.
// Validation failures return *parsing.InputError.
func (o *Orchestrator) Submit(ctx context.Context, req Request) (*types.AnalysisResult, error) {
	if err := o.validateRequest(req); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	rec := &record{req: req, attempt: 1}
	rec.mu.Lock()
	defer rec.mu.Unlock()

	if err := o.reserve(); err != nil {
		return nil, err
	}
	rec.result = newPendingResult(id, req, 1)
	if err := o.store.Save(ctx, rec.result); err != nil {
		o.wg.Done()
		return nil, fmt.Errorf("failed to persist analysis %s: %w", id, err)
	}
	if _, err := o.tracker.Register(id, 1); err != nil {
		o.wg.Done()
		return nil, err
	}

	o.mu.Lock()
	o.records[id] = rec
	o.mu.Unlock()

	o.logger.Info().Str("analysis_id", id).Str("resume_id", req.ResumeID).Msg("analysis submitted")
	o.launch(id, rec)
	return rec.result.Clone(), nil
}

// reserve accounts for one background run unless shutdown has begun
func (o *Orchestrator) reserve() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closing {
		return ErrShuttingDown
	}
	o.wg.Add(1)
	return nil
}

// launch starts the background run for rec's current attempt. rec.mu must be held.
func (o *Orchestrator) launch(id string, rec *record) {
	ctx, cancel := context.WithCancelCause(o.baseCtx)
	done := make(chan struct{})
	rec.cancel = cancel
	rec.done = done
	attempt := rec.attempt
	req := rec.req

	go func() {
		defer o.wg.Done()
		defer close(done)
		defer cancel(nil)
		o.run(ctx, id, rec, attempt, req)
	}()
}

func (o *Orchestrator) lookup(id string) (*record, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	rec, ok := o.records[id]
	return rec, ok
}

func (o *Orchestrator) run(ctx context.Context, id string, rec *record, attempt int, req Request) {
	if err := o.sem.Acquire(ctx, 1); err != nil {
		o.fail(id, rec, attempt, o.failure(ctx, err))
		return
	}
	defer o.sem.Release(1)

	ctx, cancel := context.WithTimeoutCause(ctx, o.opts.Timeout, ErrTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			o.fail(id, rec, attempt, &PipelineError{Stage: "pipeline", Message: "unexpected panic", Cause: fmt.Errorf("%v", r)})
		}
	}()

	if err := o.execute(ctx, id, rec, attempt, req); err != nil && !errors.Is(err, errSuperseded) {
		o.fail(id, rec, attempt, o.failure(ctx, err))
	}
}

// failure prefers the context cause so cancellation, timeout and shutdown
// are reported as such.
func (o *Orchestrator) failure(ctx context.Context, err error) error {
	cause := context.Cause(ctx)
	switch {
	case cause == nil, errors.Is(cause, context.Canceled), errors.Is(cause, context.DeadlineExceeded):
		return err
	case errors.Is(cause, ErrTimeout):
		return fmt.Errorf("%w after %s", ErrTimeout, o.opts.Timeout)
	default:
		return cause
	}
}

func (o *Orchestrator) execute(ctx context.Context, id string, rec *record, attempt int, req Request) error {
	if err := o.begin(ctx, id, rec, attempt); err != nil {
		return err
	}

	run := &runState{req: req}
	last := len(o.steps) - 1
	for i, step := range o.steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		started := o.clock.Now()
		if err := o.handlers[step.Name](ctx, run); err != nil {
			var pe *PipelineError
			if errors.As(err, &pe) || ctx.Err() != nil {
				return err
			}
			return &PipelineError{Stage: step.Name, Message: "step failed", Cause: err}
		}
		if err := o.clock.Sleep(ctx, o.opts.StepFloor-o.clock.Now().Sub(started)); err != nil {
			return err
		}
		if i == last {
			return o.finish(ctx, id, rec, attempt, run)
		}
		next := o.steps[i+1].Description
		if err := o.commit(rec, attempt, func() error {
			_, err := o.tracker.AdvanceStep(id, next)
			return err
		}); err != nil {
			return err
		}
	}
	return nil
}

// commit runs fn while holding the record lock, but only if attempt is still
// the live run for the record.
func (o *Orchestrator) commit(rec *record, attempt int, fn func() error) error {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.attempt != attempt || rec.result.Status.Terminal() {
		return errSuperseded
	}
	return fn()
}

func (o *Orchestrator) begin(ctx context.Context, id string, rec *record, attempt int) error {
	return o.commit(rec, attempt, func() error {
		if _, err := o.tracker.Start(id); err != nil {
			return err
		}
		next := rec.result.Clone()
		next.Status = types.StatusProcessing
		if err := o.persist(ctx, next); err != nil {
			return &PipelineError{Stage: StepInitialize, Message: "failed to persist result", Cause: err}
		}
		rec.result = next
		o.logger.Info().Str("analysis_id", id).Int("attempt", attempt).Msg("analysis started")
		return nil
	})
}

func (o *Orchestrator) finish(ctx context.Context, id string, rec *record, attempt int, run *runState) error {
	return o.commit(rec, attempt, func() error {
		now := o.clock.Now()
		next := rec.result.Clone()
		next.Status = types.StatusCompleted
		next.OverallScore = run.overall
		next.CategoryScores = run.scores
		next.Recommendations = run.recs
		next.Strengths = run.strengths
		next.ImprovementAreas = run.improvements
		next.Details = run.details
		next.Error = ""
		next.AnalyzedAt = &now
		if err := o.persist(ctx, next); err != nil {
			return &PipelineError{Stage: StepFinalize, Message: "failed to persist result", Cause: err}
		}
		rec.result = next
		if _, err := o.tracker.Complete(id); err != nil {
			return err
		}
		o.logger.Info().
			Str("analysis_id", id).
			Int("attempt", attempt).
			Int("overall_score", next.OverallScore).
			Msg("analysis completed")
		return nil
	})
}

// fail records a terminal failure with no scores. Stale attempts are ignored.
func (o *Orchestrator) fail(id string, rec *record, attempt int, err error) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.attempt != attempt || rec.result.Status.Terminal() {
		return
	}
	o.failLocked(id, rec, err)
}

func (o *Orchestrator) failLocked(id string, rec *record, err error) {
	reason := err.Error()
	next := rec.result.Clone()
	next.ResetScores()
	next.Status = types.StatusFailed
	next.Error = reason
	rec.result = next

	if _, terr := o.tracker.Fail(id, reason); terr != nil && !errors.Is(terr, ErrTerminal) {
		o.logger.Warn().Err(terr).Str("analysis_id", id).Msg("failed to record failure in tracker")
	}
	if perr := o.persist(context.Background(), next); perr != nil {
		o.logger.Error().Err(perr).Str("analysis_id", id).Msg("failed to persist failed result")
	}
	o.logger.Warn().Str("analysis_id", id).Int("attempt", rec.attempt).Str("reason", reason).Msg("analysis failed")
}

// persist saves outside the run's cancellation so terminal states always land
func (o *Orchestrator) persist(ctx context.Context, result *types.AnalysisResult) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	return o.store.Save(ctx, result)
}

// Retry starts a new run for a terminal analysis. A live analysis is
// returned unchanged, and concurrent retries of one id share a single call.
func (o *Orchestrator) Retry(ctx context.Context, id string) (*types.AnalysisResult, error) {
	v, err, _ := o.retries.Do(id, func() (any, error) {
		return o.retry(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*types.AnalysisResult).Clone(), nil
}

func (o *Orchestrator) retry(ctx context.Context, id string) (*types.AnalysisResult, error) {
	rec, ok := o.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()

	if !rec.result.Status.Terminal() {
		return rec.result.Clone(), nil
	}
	if err := o.reserve(); err != nil {
		return nil, err
	}

	attempt := rec.attempt + 1
	next := newPendingResult(id, rec.req, attempt)
	if err := o.store.Save(ctx, next); err != nil {
		o.wg.Done()
		return nil, fmt.Errorf("failed to persist analysis %s: %w", id, err)
	}
	if _, err := o.tracker.Register(id, attempt); err != nil {
		o.wg.Done()
		return nil, err
	}
	rec.attempt = attempt
	rec.result = next

	o.logger.Info().Str("analysis_id", id).Int("attempt", attempt).Msg("analysis retried")
	o.launch(id, rec)
	return next.Clone(), nil
}

// Cancel stops a live analysis. It becomes failed with no scores.
func (o *Orchestrator) Cancel(_ context.Context, id string) (*types.AnalysisResult, error) {
	rec, ok := o.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.result.Status.Terminal() {
		return nil, ErrTerminal
	}
	o.failLocked(id, rec, ErrCancelled)
	rec.cancel(ErrCancelled)
	return rec.result.Clone(), nil
}

// Get returns the current result, falling back to the store for analyses
// this process no longer tracks.
func (o *Orchestrator) Get(ctx context.Context, id string) (*types.AnalysisResult, error) {
	if rec, ok := o.lookup(id); ok {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		return rec.result.Clone(), nil
	}
	r, err := o.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	return r, err
}

// Progress returns the progress snapshot of a tracked analysis
func (o *Orchestrator) Progress(id string) (types.ProgressSnapshot, error) {
	return o.tracker.Snapshot(id)
}

// Wait blocks until the current run of id ends or ctx is done
func (o *Orchestrator) Wait(ctx context.Context, id string) (*types.AnalysisResult, error) {
	rec, ok := o.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}
	rec.mu.Lock()
	done := rec.done
	rec.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return o.Get(ctx, id)
}

// Cleanup forgets the in-memory state of a terminal analysis. The stored
// result remains available through Get.
func (o *Orchestrator) Cleanup(id string) error {
	rec, ok := o.lookup(id)
	if !ok {
		return ErrNotFound
	}
	rec.mu.Lock()
	terminal := rec.result.Status.Terminal()
	rec.mu.Unlock()
	if !terminal {
		return ErrNotTerminal
	}
	o.mu.Lock()
	delete(o.records, id)
	o.mu.Unlock()
	if err := o.tracker.Cleanup(id); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

// Shutdown rejects new work, cancels live runs and waits for them to stop
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.mu.Lock()
	o.closing = true
	o.mu.Unlock()
	o.baseCancel(ErrShuttingDown)

	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
