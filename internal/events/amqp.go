package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jonathan/resume-analyzer/internal/schemas"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// DefaultAMQPExchange is the topic exchange progress events are published to
const DefaultAMQPExchange = "resume-analyzer.progress"

// amqpChannel is the subset of *amqp.Channel the publisher uses
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes events to a topic exchange with routing key
// analysis.<status>
type AMQPPublisher struct {
	conn     *amqp.Connection
	exchange string

	mu sync.Mutex
	ch amqpChannel
}

// DialAMQP connects, opens a channel and declares a durable topic exchange
func DialAMQP(url, exchange string) (*AMQPPublisher, error) {
	if url == "" {
		return nil, fmt.Errorf("amqp url cannot be empty")
	}
	if exchange == "" {
		exchange = DefaultAMQPExchange
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %q: %w", exchange, err)
	}
	return &AMQPPublisher{conn: conn, exchange: exchange, ch: ch}, nil
}

// RoutingKey returns the routing key for an event status
func RoutingKey(status types.AnalysisStatus) string {
	return "analysis." + string(status)
}

// Publish sends the encoded event as a persistent message
func (p *AMQPPublisher) Publish(ctx context.Context, event types.ProgressEvent) error {
	payload, err := schemas.EncodeProgressEvent(event)
	if err != nil {
		return err
	}
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ts,
		Type:         schemas.KindProgressEvent,
		Headers: amqp.Table{
			"analysis_id": event.AnalysisID,
			"attempt":     int32(event.Attempt),
		},
		Body: payload,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(ctx, p.exchange, RoutingKey(event.Status), false, false, msg); err != nil {
		return fmt.Errorf("failed to publish progress for %s: %w", event.AnalysisID, err)
	}
	return nil
}

// Close closes the channel and the connection
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
