package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonathan/resume-analyzer/internal/schemas"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// DefaultRedisKeyPrefix namespaces result keys
const DefaultRedisKeyPrefix = "resume-analyzer:analysis:"

// Redis implements Store on Redis string keys with an optional TTL
type Redis struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedis wraps a connected client. A zero ttl keeps results forever.
func NewRedis(client *redis.Client, keyPrefix string, ttl time.Duration) (*Redis, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	if keyPrefix == "" {
		keyPrefix = DefaultRedisKeyPrefix
	}
	return &Redis{client: client, keyPrefix: keyPrefix, ttl: ttl}, nil
}

// ConnectRedis parses a redis:// URL, connects and pings the server
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opt.Addr, err)
	}
	return client, nil
}

func (r *Redis) key(id string) string {
	return r.keyPrefix + id
}

// Save writes the encoded result, refreshing its TTL
func (r *Redis) Save(ctx context.Context, result *types.AnalysisResult) error {
	raw, err := schemas.EncodeAnalysisResult(result)
	if err != nil {
		return fmt.Errorf("failed to encode result %s: %w", result.ID, err)
	}
	if err := r.client.Set(ctx, r.key(result.ID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save result %s: %w", result.ID, err)
	}
	return nil
}

// Get reads and decodes the result for id
func (r *Redis) Get(ctx context.Context, id string) (*types.AnalysisResult, error) {
	raw, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result %s: %w", id, err)
	}
	return schemas.DecodeAnalysisResult(raw)
}

// Delete removes the result for id
func (r *Redis) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete result %s: %w", id, err)
	}
	return nil
}

// List scans every key under the prefix. Keys that expire mid-scan are skipped.
func (r *Redis) List(ctx context.Context) ([]*types.AnalysisResult, error) {
	var ids []string
	iter := r.client.Scan(ctx, 0, r.keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), r.keyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan results: %w", err)
	}
	sort.Strings(ids)

	out := make([]*types.AnalysisResult, 0, len(ids))
	for _, id := range ids {
		res, err := r.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}
