// Package store provides persistence adapters for analysis results.
//
// Every adapter stores results through the versioned record codec in
// package schemas, so a record read back has passed schema validation.
package store

import (
	"context"
	"errors"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// ErrNotFound is returned when no result exists for an id
var ErrNotFound = errors.New("analysis result not found")

// Store persists analysis results keyed by result id
type Store interface {
	// Save inserts or replaces a result
	Save(ctx context.Context, result *types.AnalysisResult) error

	// Get retrieves a result, returning ErrNotFound when absent
	Get(ctx context.Context, id string) (*types.AnalysisResult, error)

	// Delete removes a result. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// List returns every stored result ordered by id
	List(ctx context.Context) ([]*types.AnalysisResult, error)
}
