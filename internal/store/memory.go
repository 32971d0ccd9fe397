package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jonathan/resume-analyzer/internal/schemas"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// Memory implements Store using in-memory storage
type Memory struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{records: make(map[string][]byte)}
}

// Save stores an encoded copy of result
func (m *Memory) Save(ctx context.Context, result *types.AnalysisResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := schemas.EncodeAnalysisResult(result)
	if err != nil {
		return fmt.Errorf("failed to encode result %s: %w", result.ID, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[result.ID] = raw
	return nil
}

// Get decodes the stored result for id
func (m *Memory) Get(ctx context.Context, id string) (*types.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	raw, ok := m.records[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return schemas.DecodeAnalysisResult(raw)
}

// Delete removes the result for id
func (m *Memory) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

// List returns all stored results ordered by id
func (m *Memory) List(ctx context.Context) ([]*types.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	ids := make([]string, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	raws := make(map[string][]byte, len(ids))
	for _, id := range ids {
		raws[id] = m.records[id]
	}
	m.mu.RUnlock()

	sort.Strings(ids)
	out := make([]*types.AnalysisResult, 0, len(ids))
	for _, id := range ids {
		r, err := schemas.DecodeAnalysisResult(raws[id])
		if err != nil {
			return nil, fmt.Errorf("failed to decode result %s: %w", id, err)
		}
		out = append(out, r)
	}
	return out, nil
}
