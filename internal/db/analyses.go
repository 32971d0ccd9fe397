package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-analyzer/internal/schemas"
	"github.com/jonathan/resume-analyzer/internal/store"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// DefaultListLimit caps ListFiltered when no limit is given
const DefaultListLimit = 50

// AnalysisFilters holds optional filters for listing analyses
type AnalysisFilters struct {
	ResumeID string
	Status   types.AnalysisStatus
	Limit    int
}

// Save upserts an analysis. The full result is stored as a versioned
// record; identifying columns are copied out for filtering.
func (db *DB) Save(ctx context.Context, result *types.AnalysisResult) error {
	record, err := schemas.EncodeAnalysisResult(result)
	if err != nil {
		return err
	}
	var jobID *string
	if result.JobDescriptionID != "" {
		jobID = &result.JobDescriptionID
	}
	_, err = db.pool.Exec(ctx,
		`INSERT INTO analyses (id, resume_id, job_description_id, status, attempt, overall_score, record)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
		     resume_id = $2, job_description_id = $3, status = $4, attempt = $5,
		     overall_score = $6, record = $7, updated_at = NOW()`,
		result.ID, result.ResumeID, jobID, string(result.Status), result.Attempt, result.OverallScore, record,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis %s: %w", result.ID, err)
	}
	return nil
}

// Get retrieves an analysis by id, returning store.ErrNotFound when absent
func (db *DB) Get(ctx context.Context, id string) (*types.AnalysisResult, error) {
	var record []byte
	err := db.pool.QueryRow(ctx, `SELECT record FROM analyses WHERE id = $1`, id).Scan(&record)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get analysis %s: %w", id, err)
	}
	return schemas.DecodeAnalysisResult(record)
}

// Delete removes an analysis
func (db *DB) Delete(ctx context.Context, id string) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM analyses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete analysis %s: %w", id, err)
	}
	return nil
}

// List returns every stored analysis ordered by id
func (db *DB) List(ctx context.Context) ([]*types.AnalysisResult, error) {
	rows, err := db.pool.Query(ctx, `SELECT record FROM analyses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return collect(rows)
}

// ListFiltered returns the most recently updated analyses matching filters
func (db *DB) ListFiltered(ctx context.Context, filters AnalysisFilters) ([]*types.AnalysisResult, error) {
	if filters.Limit <= 0 {
		filters.Limit = DefaultListLimit
	}

	query := `SELECT record FROM analyses WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.ResumeID != "" {
		query += fmt.Sprintf(" AND resume_id = $%d", argNum)
		args = append(args, filters.ResumeID)
		argNum++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, string(filters.Status))
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY updated_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return collect(rows)
}

func collect(rows pgx.Rows) ([]*types.AnalysisResult, error) {
	defer rows.Close()
	var out []*types.AnalysisResult
	for rows.Next() {
		var record []byte
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		r, err := schemas.DecodeAnalysisResult(record)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return out, nil
}
