package events

import (
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisPublisher(t *testing.T) {
	_, err := NewRedisPublisher(nil, "")
	assert.Error(t, err)

	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	p, err := NewRedisPublisher(client, "")
	require.NoError(t, err)
	assert.Equal(t, "resume-analyzer:progress:a1", p.Channel("a1"))

	p, err = NewRedisPublisher(client, "custom")
	require.NoError(t, err)
	assert.Equal(t, "custom:a1", p.Channel("a1"))
}
