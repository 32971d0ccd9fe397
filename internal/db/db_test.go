package db

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-analyzer/internal/store"
)

var _ store.Store = (*DB)(nil)

func TestSchemaSQL(t *testing.T) {
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS analyses")
	assert.Contains(t, schemaSQL, "JSONB")
}

func TestClose_NilPool(t *testing.T) {
	db := &DB{}
	assert.NotPanics(t, db.Close)
}
