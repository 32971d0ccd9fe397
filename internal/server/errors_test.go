package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/parsing"
	"github.com/jonathan/resume-analyzer/internal/store"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "resume_text", Message: "is required"}
	assert.Equal(t, "validation error: resume_text - is required", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"ErrValidation", &ErrValidation{Field: "x", Message: "bad"}, http.StatusBadRequest},
		{"InputError", &parsing.InputError{Field: "resume_id", Message: "required"}, http.StatusBadRequest},
		{"wrapped InputError", fmt.Errorf("submit: %w", &parsing.InputError{Message: "bad"}), http.StatusBadRequest},
		{"ErrNotFound", analysis.ErrNotFound, http.StatusNotFound},
		{"store ErrNotFound", fmt.Errorf("get: %w", store.ErrNotFound), http.StatusNotFound},
		{"ErrTerminal", analysis.ErrTerminal, http.StatusConflict},
		{"ErrNotTerminal", analysis.ErrNotTerminal, http.StatusConflict},
		{"ErrNotRunning", analysis.ErrNotRunning, http.StatusConflict},
		{"ErrAlreadyRunning", analysis.ErrAlreadyRunning, http.StatusConflict},
		{"ErrShuttingDown", analysis.ErrShuttingDown, http.StatusServiceUnavailable},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}
