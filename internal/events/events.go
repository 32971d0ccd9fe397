// Package events delivers analysis progress events to logs, in-process
// subscribers, Redis pub/sub and RabbitMQ.
package events

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// Publisher matches the orchestrator's publish port
type Publisher interface {
	Publish(ctx context.Context, event types.ProgressEvent) error
}

// Multi fans one event out to several publishers. Every publisher is tried;
// failures are joined.
type Multi []Publisher

// Publish sends the event to each publisher in order
func (m Multi) Publish(ctx context.Context, event types.ProgressEvent) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogPublisher writes each event as a structured log line
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a publisher over logger
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event. Failures log at warn, everything else at info.
func (p *LogPublisher) Publish(_ context.Context, event types.ProgressEvent) error {
	e := p.logger.Info()
	if event.Status == types.StatusFailed {
		e = p.logger.Warn().Str("error", event.Error)
	}
	e.Str("analysis_id", event.AnalysisID).
		Int("attempt", event.Attempt).
		Str("status", string(event.Status)).
		Int("step_index", event.StepIndex).
		Str("step", event.StepName).
		Int("percentage", event.Percentage).
		Time("estimated_completion", event.EstimatedCompletionTime).
		Msg(event.Message)
	return nil
}
