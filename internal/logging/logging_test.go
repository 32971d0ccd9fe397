package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(Config{Level: "warn"}, &buf)
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Str("analysis_id", "a1").Msg("shown")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "a1", line["analysis_id"])
	assert.Equal(t, "shown", line["message"])
	assert.Contains(t, line, "time")
}

func TestNewWithWriter_Pretty(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(Config{Format: "pretty"}, &buf)
	require.NoError(t, err)

	logger.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestNewWithWriter_Caller(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(Config{ReportCaller: true}, &buf)
	require.NoError(t, err)

	logger.Info().Msg("x")
	assert.Contains(t, buf.String(), "logging_test.go")
}

func TestNewWithWriter_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"unknown level", Config{Level: "loud"}, "invalid log level"},
		{"unknown format", Config{Format: "xml"}, "invalid log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWithWriter(tt.cfg, &bytes.Buffer{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := WithContext(context.Background(), logger)
	FromContext(ctx).Info().Msg("from ctx")
	assert.Contains(t, buf.String(), "from ctx")

	assert.Equal(t, zerolog.Disabled, FromContext(context.Background()).GetLevel())
}
