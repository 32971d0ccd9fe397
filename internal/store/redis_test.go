package store

import (
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedis_NilClient(t *testing.T) {
	_, err := NewRedis(nil, "", 0)
	assert.Error(t, err)
}

func TestNewRedis_DefaultPrefix(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	r, err := NewRedis(client, "", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultRedisKeyPrefix+"abc", r.key("abc"))
}
