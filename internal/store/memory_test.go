package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jonathan/resume-analyzer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResult(id string) *types.AnalysisResult {
	return &types.AnalysisResult{
		ID:               id,
		ResumeID:         "resume-" + id,
		Attempt:          1,
		Recommendations:  []types.Recommendation{},
		Strengths:        []string{},
		ImprovementAreas: []string{},
		Status:           types.StatusPending,
	}
}

func TestMemory_SaveGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, newResult("a")))

	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, newResult("a"), got)
}

func TestMemory_GetMissing(t *testing.T) {
	_, err := NewMemory().Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	r := newResult("a")
	require.NoError(t, m.Save(ctx, r))

	r.Status = types.StatusFailed
	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, types.StatusPending, got.Status)

	got.Strengths = append(got.Strengths, "x")
	again, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, again.Strengths)
}

func TestMemory_SaveRejectsInvalid(t *testing.T) {
	r := newResult("a")
	r.Status = "bogus"
	assert.Error(t, NewMemory().Save(context.Background(), r))
}

func TestMemory_DeleteAndList(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, m.Save(ctx, newResult(id)))
	}
	require.NoError(t, m.Delete(ctx, "b"))
	require.NoError(t, m.Delete(ctx, "missing"))

	all, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "c", all[1].ID)
}

func TestMemory_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewMemory().Save(ctx, newResult("a")), context.Canceled)
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("r%d", i)
			assert.NoError(t, m.Save(ctx, newResult(id)))
			_, err := m.Get(ctx, id)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	all, err := m.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 20)
}
