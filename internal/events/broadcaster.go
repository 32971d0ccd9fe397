package events

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// DefaultSubscriberBuffer is the channel capacity for each subscriber
const DefaultSubscriberBuffer = 32

// Broadcaster delivers events to in-process subscribers of one analysis id.
// Subscriber channels close after a terminal event, so a consumer can range
// over them until the run ends.
type Broadcaster struct {
	logger zerolog.Logger
	buffer int

	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan types.ProgressEvent
}

// NewBroadcaster creates a broadcaster. A buffer <= 0 uses DefaultSubscriberBuffer.
func NewBroadcaster(buffer int, logger zerolog.Logger) *Broadcaster {
	if buffer <= 0 {
		buffer = DefaultSubscriberBuffer
	}
	return &Broadcaster{
		logger: logger,
		buffer: buffer,
		subs:   make(map[string]map[int]chan types.ProgressEvent),
	}
}

// Subscribe registers for events of analysisID. The returned function
// unsubscribes and is safe to call more than once.
func (b *Broadcaster) Subscribe(analysisID string) (<-chan types.ProgressEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan types.ProgressEvent, b.buffer)
	id := b.nextID
	b.nextID++
	if b.subs[analysisID] == nil {
		b.subs[analysisID] = make(map[int]chan types.ProgressEvent)
	}
	b.subs[analysisID][id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() { b.remove(analysisID, id) })
	}
}

func (b *Broadcaster) remove(analysisID string, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	group := b.subs[analysisID]
	ch, ok := group[id]
	if !ok {
		return
	}
	delete(group, id)
	close(ch)
	if len(group) == 0 {
		delete(b.subs, analysisID)
	}
}

// Subscribers returns the number of live subscribers for analysisID
func (b *Broadcaster) Subscribers(analysisID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[analysisID])
}

// Publish never blocks. A subscriber whose buffer is full misses the event.
func (b *Broadcaster) Publish(_ context.Context, event types.ProgressEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	group := b.subs[event.AnalysisID]
	for id, ch := range group {
		select {
		case ch <- event:
		default:
			b.logger.Warn().
				Str("analysis_id", event.AnalysisID).
				Int("subscriber", id).
				Msg("subscriber buffer full, dropping progress event")
		}
		if event.Status.Terminal() {
			close(ch)
			delete(group, id)
		}
	}
	if len(group) == 0 {
		delete(b.subs, event.AnalysisID)
	}
	return nil
}
