package analysis

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the Tracker and Orchestrator
var (
	ErrNotFound       = errors.New("analysis not found")
	ErrAlreadyRunning = errors.New("analysis already running")
	ErrNotRunning     = errors.New("analysis not running")
	ErrTerminal       = errors.New("analysis already finished")
	ErrNoMoreSteps    = errors.New("no more steps")
	ErrNotTerminal    = errors.New("analysis still in progress")
	ErrShuttingDown   = errors.New("orchestrator is shutting down")
	ErrCancelled      = errors.New("analysis cancelled")
	ErrTimeout        = errors.New("analysis timed out")
)

// errSuperseded marks writes from a run that a retry or cancel has replaced
var errSuperseded = errors.New("analysis run superseded")

// PipelineError is an internal failure of one pipeline stage
type PipelineError struct {
	Stage   string
	Message string
	Cause   error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s failed: %s", e.Stage, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}
