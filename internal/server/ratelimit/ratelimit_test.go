package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(perMinute, burst int) (*Limiter, *time.Time) {
	cfg := DefaultConfig(perMinute, burst)
	cfg.CleanupInterval = 0
	l := NewLimiter(cfg)
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultConfig(60, 10).Endpoints
	tests := []struct {
		name   string
		method string
		path   string
		want   string
	}{
		{"exact", "POST", "/analyses", "/analyses"},
		{"prefix", "POST", "/analyses/abc/retry", "/analyses/"},
		{"parse", "POST", "/resume/parse", "/resume/parse"},
		{"reads are unlimited", "GET", "/analyses/abc", ""},
		{"health", "GET", "/health", ""},
		{"unknown", "POST", "/other", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Path)
		})
	}
}

func TestLimiter_BurstThenRefill(t *testing.T) {
	l, now := newTestLimiter(60, 2)
	defer l.Stop()

	ok, info := l.Allow("1.2.3.4", "/analyses", "POST")
	assert.True(t, ok)
	assert.Equal(t, 60, info.Limit)
	assert.Equal(t, 1, info.Remaining)

	ok, _ = l.Allow("1.2.3.4", "/analyses", "POST")
	assert.True(t, ok)

	ok, info = l.Allow("1.2.3.4", "/analyses", "POST")
	assert.False(t, ok)
	assert.Equal(t, 0, info.Remaining)
	assert.Equal(t, time.Second, info.RetryAfter)

	ok, _ = l.Allow("5.6.7.8", "/analyses", "POST")
	assert.True(t, ok, "clients are limited independently")

	*now = now.Add(time.Second)
	ok, _ = l.Allow("1.2.3.4", "/analyses", "POST")
	assert.True(t, ok, "one token refills per second at 60/min")
}

func TestLimiter_Unlimited(t *testing.T) {
	l, _ := newTestLimiter(60, 1)
	defer l.Stop()

	for i := 0; i < 5; i++ {
		ok, info := l.Allow("1.2.3.4", "/analyses/abc", "GET")
		assert.True(t, ok)
		assert.Equal(t, 0, info.Limit)
	}
}

func TestLimiter_DisabledAndWhitelist(t *testing.T) {
	disabled := NewLimiter(DefaultConfig(0, 0))
	defer disabled.Stop()
	for i := 0; i < 3; i++ {
		ok, _ := disabled.Allow("1.2.3.4", "/analyses", "POST")
		assert.True(t, ok)
	}

	l, _ := newTestLimiter(60, 1)
	defer l.Stop()
	l.config.Whitelist["10.0.0.1"] = true
	for i := 0; i < 3; i++ {
		ok, _ := l.Allow("10.0.0.1", "/analyses", "POST")
		assert.True(t, ok)
	}
}

func TestLimiter_Cleanup(t *testing.T) {
	l, now := newTestLimiter(60, 1)
	defer l.Stop()

	l.Allow("1.2.3.4", "/analyses", "POST")
	assert.Len(t, l.buckets, 1)

	*now = now.Add(2 * time.Hour)
	l.cleanup()
	assert.Empty(t, l.buckets)
}

func TestLimiter_StopTwice(t *testing.T) {
	l := NewLimiter(nil)
	l.Stop()
	assert.NotPanics(t, l.Stop)
}
