//go:build integration

package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestRedis(t *testing.T) *Redis {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set, skipping integration test")
	}
	client, err := ConnectRedis(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	r, err := NewRedis(client, "resume-analyzer-test:"+t.Name()+":", time.Minute)
	require.NoError(t, err)
	return r
}

func TestIntegration_Redis_CRUD(t *testing.T) {
	r := getTestRedis(t)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, newResult("a")))
	require.NoError(t, r.Save(ctx, newResult("b")))

	got, err := r.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, newResult("a"), got)

	ttl, err := r.client.TTL(ctx, r.key("a")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	all, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, r.Delete(ctx, "a"))
	require.NoError(t, r.Delete(ctx, "b"))
	_, err = r.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}
