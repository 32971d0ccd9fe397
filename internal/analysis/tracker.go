package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-analyzer/internal/types"
)

const publishTimeout = 5 * time.Second

// Publisher receives every progress transition. Errors are logged and never
// fail a run.
type Publisher interface {
	Publish(ctx context.Context, event types.ProgressEvent) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, types.ProgressEvent) error { return nil }

// Tracker is the per-analysis progress state machine:
// pending -> processing -> completed | failed.
// Transitions for one id are serialized, and each transition's event is
// published before the next transition for that id begins.
type Tracker struct {
	steps     []StepDefinition
	clock     Clock
	publisher Publisher
	logger    zerolog.Logger

	mu     sync.RWMutex
	states map[string]*trackedState
}

type trackedState struct {
	mu    sync.Mutex
	state *types.ProgressState
}

// NewTracker creates a tracker over a validated step table
func NewTracker(steps []StepDefinition, clock Clock, publisher Publisher, logger zerolog.Logger) (*Tracker, error) {
	if err := ValidateSteps(steps); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = RealClock{}
	}
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &Tracker{
		steps:     append([]StepDefinition(nil), steps...),
		clock:     clock,
		publisher: publisher,
		logger:    logger,
		states:    make(map[string]*trackedState),
	}, nil
}

// Steps returns a copy of the step table
func (t *Tracker) Steps() []StepDefinition {
	return append([]StepDefinition(nil), t.steps...)
}

func (t *Tracker) newState(id string, attempt int) *types.ProgressState {
	now := t.clock.Now()
	steps := make([]types.StepState, len(t.steps))
	for i, s := range t.steps {
		steps[i] = types.StepState{
			Name:              s.Name,
			Description:       s.Description,
			Weight:            s.Weight,
			EstimatedDuration: s.EstimatedDuration,
		}
	}
	return &types.ProgressState{
		AnalysisID:              id,
		Attempt:                 attempt,
		Status:                  types.StatusPending,
		Steps:                   steps,
		Message:                 "Queued",
		StartTime:               now,
		EstimatedCompletionTime: now.Add(remainingDuration(t.steps, 0)),
	}
}

func (t *Tracker) lookup(id string) (*trackedState, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ts, ok := t.states[id]
	return ts, ok
}

// Register creates a pending state for a new attempt. An existing terminal
// state is replaced. An existing live state returns ErrAlreadyRunning.
func (t *Tracker) Register(id string, attempt int) (types.ProgressSnapshot, error) {
	t.mu.Lock()
	if ts, ok := t.states[id]; ok {
		ts.mu.Lock()
		live := !ts.state.Status.Terminal()
		ts.mu.Unlock()
		if live {
			t.mu.Unlock()
			return types.ProgressSnapshot{}, ErrAlreadyRunning
		}
	}
	ts := &trackedState{state: t.newState(id, attempt)}
	ts.mu.Lock()
	t.states[id] = ts
	t.mu.Unlock()
	defer ts.mu.Unlock()

	t.publish(ts.state)
	return t.snapshot(ts.state), nil
}

// Start moves an analysis to processing at its first step. An id that was
// never registered is registered as attempt 1.
func (t *Tracker) Start(id string) (types.ProgressSnapshot, error) {
	ts, ok := t.lookup(id)
	if !ok {
		if _, err := t.Register(id, 1); err != nil {
			return types.ProgressSnapshot{}, err
		}
		ts, _ = t.lookup(id)
	}
	return t.update(ts, func(s *types.ProgressState) error {
		switch {
		case s.Status.Terminal():
			return ErrTerminal
		case s.Status == types.StatusProcessing:
			return ErrAlreadyRunning
		}
		now := t.clock.Now()
		s.Status = types.StatusProcessing
		s.CurrentStepIndex = 0
		s.StartTime = now
		s.Message = t.steps[0].Description
		s.EstimatedCompletionTime = now.Add(remainingDuration(t.steps, 0))
		return nil
	})
}

// AdvanceStep credits the current step and moves to the next one.
// The estimate becomes the start time plus the durations of the steps still ahead.
func (t *Tracker) AdvanceStep(id, description string) (types.ProgressSnapshot, error) {
	return t.updateID(id, func(s *types.ProgressState) error {
		if err := requireProcessing(s); err != nil {
			return err
		}
		if s.CurrentStepIndex >= len(s.Steps)-1 {
			return ErrNoMoreSteps
		}
		s.Steps[s.CurrentStepIndex].Completed = true
		s.CurrentStepIndex++
		if description == "" {
			description = s.Steps[s.CurrentStepIndex].Description
		}
		s.Message = description
		s.EstimatedCompletionTime = s.StartTime.Add(remainingDuration(t.steps, s.CurrentStepIndex))
		return nil
	})
}

// Complete credits every step and marks the analysis completed
func (t *Tracker) Complete(id string) (types.ProgressSnapshot, error) {
	return t.updateID(id, func(s *types.ProgressState) error {
		if err := requireProcessing(s); err != nil {
			return err
		}
		now := t.clock.Now()
		for i := range s.Steps {
			s.Steps[i].Completed = true
		}
		s.CurrentStepIndex = len(s.Steps) - 1
		s.Status = types.StatusCompleted
		s.Message = "Analysis complete"
		s.EstimatedCompletionTime = now
		s.ActualCompletionTime = &now
		return nil
	})
}

// Fail marks a pending or processing analysis failed. Completed steps keep
// their credit.
func (t *Tracker) Fail(id, reason string) (types.ProgressSnapshot, error) {
	return t.updateID(id, func(s *types.ProgressState) error {
		if s.Status.Terminal() {
			return ErrTerminal
		}
		now := t.clock.Now()
		s.Status = types.StatusFailed
		s.Error = reason
		s.Message = "Analysis failed"
		s.ActualCompletionTime = &now
		return nil
	})
}

// Snapshot returns a read-only view of the analysis
func (t *Tracker) Snapshot(id string) (types.ProgressSnapshot, error) {
	ts, ok := t.lookup(id)
	if !ok {
		return types.ProgressSnapshot{}, ErrNotFound
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return t.snapshot(ts.state), nil
}

// State returns a deep copy of the full progress state
func (t *Tracker) State(id string) (*types.ProgressState, error) {
	ts, ok := t.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.state.Clone(), nil
}

// Cleanup forgets a terminal analysis
func (t *Tracker) Cleanup(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	ts, ok := t.states[id]
	if !ok {
		return ErrNotFound
	}
	ts.mu.Lock()
	terminal := ts.state.Status.Terminal()
	ts.mu.Unlock()
	if !terminal {
		return ErrNotTerminal
	}
	delete(t.states, id)
	return nil
}

func requireProcessing(s *types.ProgressState) error {
	switch {
	case s.Status.Terminal():
		return ErrTerminal
	case s.Status != types.StatusProcessing:
		return ErrNotRunning
	}
	return nil
}

func (t *Tracker) updateID(id string, fn func(s *types.ProgressState) error) (types.ProgressSnapshot, error) {
	ts, ok := t.lookup(id)
	if !ok {
		return types.ProgressSnapshot{}, ErrNotFound
	}
	return t.update(ts, fn)
}

func (t *Tracker) update(ts *trackedState, fn func(s *types.ProgressState) error) (types.ProgressSnapshot, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if err := fn(ts.state); err != nil {
		return t.snapshot(ts.state), err
	}
	t.publish(ts.state)
	return t.snapshot(ts.state), nil
}

func (t *Tracker) snapshot(s *types.ProgressState) types.ProgressSnapshot {
	end := t.clock.Now()
	var actual *time.Time
	if s.ActualCompletionTime != nil {
		at := *s.ActualCompletionTime
		actual = &at
		end = at
	}
	elapsed := end.Sub(s.StartTime)
	if s.Status == types.StatusPending {
		elapsed = 0
	}
	return types.ProgressSnapshot{
		AnalysisID:              s.AnalysisID,
		Attempt:                 s.Attempt,
		Status:                  s.Status,
		CurrentStepIndex:        s.CurrentStepIndex,
		CurrentStep:             s.CurrentStepName(),
		Percentage:              s.Percentage(),
		Message:                 s.Message,
		StartTime:               s.StartTime,
		EstimatedCompletionTime: s.EstimatedCompletionTime,
		ActualCompletionTime:    actual,
		Elapsed:                 elapsed,
		Error:                   s.Error,
	}
}

// publish runs under the per-id lock so events for one id stay ordered
func (t *Tracker) publish(s *types.ProgressState) {
	event := types.ProgressEvent{
		AnalysisID:              s.AnalysisID,
		Attempt:                 s.Attempt,
		Status:                  s.Status,
		StepIndex:               s.CurrentStepIndex,
		StepName:                s.CurrentStepName(),
		Percentage:              s.Percentage(),
		EstimatedCompletionTime: s.EstimatedCompletionTime,
		Message:                 s.Message,
		Error:                   s.Error,
		Timestamp:               t.clock.Now(),
	}
	t.logger.Debug().
		Str("analysis_id", s.AnalysisID).
		Int("attempt", s.Attempt).
		Str("status", string(s.Status)).
		Str("step", event.StepName).
		Int("percentage", event.Percentage).
		Msg("analysis progress")

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := t.publisher.Publish(ctx, event); err != nil {
		t.logger.Warn().Err(err).Str("analysis_id", s.AnalysisID).Msg("failed to publish progress event")
	}
}
