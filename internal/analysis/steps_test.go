package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSteps(t *testing.T) {
	steps := DefaultSteps()
	require.NoError(t, ValidateSteps(steps))

	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.Name
		assert.NotEmpty(t, s.Description)
	}
	assert.Equal(t, []string{
		StepInitialize, StepParse, StepContentAnalysis, StepATSCheck,
		StepScoring, StepRecommendations, StepFinalize,
	}, names)
	assert.Equal(t, 3*time.Second, remainingDuration(steps, 0))
	assert.Equal(t, 200*time.Millisecond, remainingDuration(steps, len(steps)-1))
	assert.Equal(t, time.Duration(0), remainingDuration(steps, len(steps)))
}

func TestValidateSteps(t *testing.T) {
	tests := []struct {
		name  string
		steps []StepDefinition
		want  string
	}{
		{"empty", nil, "no steps"},
		{"unnamed", []StepDefinition{{Weight: 100}}, "name is empty"},
		{"duplicate", []StepDefinition{{Name: "a", Weight: 50}, {Name: "a", Weight: 50}}, "duplicate"},
		{"zero weight", []StepDefinition{{Name: "a", Weight: 0}, {Name: "b", Weight: 100}}, "positive"},
		{"negative duration", []StepDefinition{{Name: "a", Weight: 100, EstimatedDuration: -1}}, "negative"},
		{"bad sum", []StepDefinition{{Name: "a", Weight: 40}, {Name: "b", Weight: 40}}, "sum to 80"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSteps(tt.steps)
			var se *StepError
			require.ErrorAs(t, err, &se)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
