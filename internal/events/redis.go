package events

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jonathan/resume-analyzer/internal/schemas"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// DefaultRedisChannelPrefix namespaces progress channels
const DefaultRedisChannelPrefix = "resume-analyzer:progress"

// RedisPublisher publishes encoded events on the channel <prefix>:<analysisID>
type RedisPublisher struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisPublisher wraps a connected client
func NewRedisPublisher(client redis.UniversalClient, prefix string) (*RedisPublisher, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	if prefix == "" {
		prefix = DefaultRedisChannelPrefix
	}
	return &RedisPublisher{client: client, prefix: prefix}, nil
}

// Channel returns the pub/sub channel for an analysis
func (p *RedisPublisher) Channel(analysisID string) string {
	return p.prefix + ":" + analysisID
}

// Publish encodes the event as a versioned record and publishes it
func (p *RedisPublisher) Publish(ctx context.Context, event types.ProgressEvent) error {
	payload, err := schemas.EncodeProgressEvent(event)
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.Channel(event.AnalysisID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish progress for %s: %w", event.AnalysisID, err)
	}
	return nil
}

// Subscribe streams decoded events for analysisID until ctx ends or a
// terminal event arrives. Undecodable messages are skipped.
func (p *RedisPublisher) Subscribe(ctx context.Context, analysisID string) (<-chan types.ProgressEvent, error) {
	sub := p.client.Subscribe(ctx, p.Channel(analysisID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", p.Channel(analysisID), err)
	}

	out := make(chan types.ProgressEvent)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				event, err := schemas.DecodeProgressEvent([]byte(msg.Payload))
				if err != nil {
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
				if event.Status.Terminal() {
					return
				}
			}
		}
	}()
	return out, nil
}
