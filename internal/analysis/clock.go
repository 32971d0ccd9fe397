package analysis

import (
	"context"
	"sync"
	"time"
)

// Clock supplies time to the tracker and the per-step duration floor
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx ends, returning ctx.Err() in the latter case
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock is the wall clock
type RealClock struct{}

// Now returns time.Now
func (RealClock) Now() time.Time {
	return time.Now()
}

// Sleep waits on a timer
func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ManualClock is a virtual clock for tests. Sleep advances it instantly.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock starts a virtual clock at start
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the virtual time
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Sleep advances the clock by d without blocking
func (c *ManualClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d > 0 {
		c.Advance(d)
	}
	return nil
}
