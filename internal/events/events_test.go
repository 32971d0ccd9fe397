package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/types"
)

var (
	_ analysis.Publisher = Multi(nil)
	_ analysis.Publisher = (*LogPublisher)(nil)
	_ analysis.Publisher = (*Broadcaster)(nil)
	_ analysis.Publisher = (*RedisPublisher)(nil)
	_ analysis.Publisher = (*AMQPPublisher)(nil)
)

func sampleEvent(status types.AnalysisStatus) types.ProgressEvent {
	return types.ProgressEvent{
		AnalysisID:              "a1",
		Attempt:                 1,
		Status:                  status,
		StepIndex:               2,
		StepName:                "content-analysis",
		Percentage:              20,
		EstimatedCompletionTime: time.Date(2026, 1, 5, 9, 0, 3, 0, time.UTC),
		Message:                 "Analyzing content",
		Timestamp:               time.Date(2026, 1, 5, 9, 0, 1, 0, time.UTC),
	}
}

type funcPublisher func(context.Context, types.ProgressEvent) error

func (f funcPublisher) Publish(ctx context.Context, e types.ProgressEvent) error { return f(ctx, e) }

func TestMulti_Publish(t *testing.T) {
	var got []string
	ok := funcPublisher(func(_ context.Context, e types.ProgressEvent) error {
		got = append(got, "ok:"+e.AnalysisID)
		return nil
	})
	errA := errors.New("a down")
	errB := errors.New("b down")
	failA := funcPublisher(func(context.Context, types.ProgressEvent) error { return errA })
	failB := funcPublisher(func(context.Context, types.ProgressEvent) error { return errB })

	t.Run("all succeed", func(t *testing.T) {
		got = nil
		require.NoError(t, Multi{ok, nil, ok}.Publish(context.Background(), sampleEvent(types.StatusProcessing)))
		assert.Equal(t, []string{"ok:a1", "ok:a1"}, got)
	})

	t.Run("failures are joined and do not stop delivery", func(t *testing.T) {
		got = nil
		err := Multi{failA, ok, failB}.Publish(context.Background(), sampleEvent(types.StatusProcessing))
		assert.ErrorIs(t, err, errA)
		assert.ErrorIs(t, err, errB)
		assert.Equal(t, []string{"ok:a1"}, got)
	})

	t.Run("empty", func(t *testing.T) {
		assert.NoError(t, Multi{}.Publish(context.Background(), sampleEvent(types.StatusPending)))
	})
}

func TestLogPublisher_Publish(t *testing.T) {
	tests := []struct {
		name   string
		event  types.ProgressEvent
		level  string
		hasErr bool
	}{
		{"processing", sampleEvent(types.StatusProcessing), "info", false},
		{"failed", func() types.ProgressEvent {
			e := sampleEvent(types.StatusFailed)
			e.Error = "analysis cancelled"
			return e
		}(), "warn", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := NewLogPublisher(zerolog.New(&buf))
			require.NoError(t, p.Publish(context.Background(), tt.event))

			var line map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
			assert.Equal(t, tt.level, line["level"])
			assert.Equal(t, "a1", line["analysis_id"])
			assert.Equal(t, string(tt.event.Status), line["status"])
			assert.Equal(t, float64(20), line["percentage"])
			assert.Equal(t, "Analyzing content", line["message"])
			if tt.hasErr {
				assert.Equal(t, "analysis cancelled", line["error"])
			}
		})
	}
}
