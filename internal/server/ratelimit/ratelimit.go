// Package ratelimit provides per-client token bucket rate limiting on top of
// golang.org/x/time/rate.
package ratelimit

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// EndpointConfig limits one method on a path. A path ending in "/" matches
// every path with that prefix.
type EndpointConfig struct {
	Path      string
	Method    string
	PerMinute int
	Burst     int // defaults to PerMinute if 0
}

// Config holds rate limiting configuration
type Config struct {
	Enabled         bool
	CleanupInterval time.Duration
	IdleTTL         time.Duration
	Whitelist       map[string]bool
	Endpoints       []EndpointConfig
}

// DefaultConfig limits the write routes of the API. Reads are unlimited.
func DefaultConfig(perMinute, burst int) *Config {
	limited := func(method, path string) EndpointConfig {
		return EndpointConfig{Path: path, Method: method, PerMinute: perMinute, Burst: burst}
	}
	return &Config{
		Enabled:         perMinute > 0,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Whitelist:       map[string]bool{},
		Endpoints: []EndpointConfig{
			limited("POST", "/analyses"),
			limited("POST", "/analyses/"),
			limited("POST", "/job-requirements"),
			limited("POST", "/resume/parse"),
		},
	}
}

// MatchEndpoint returns the configuration for a request, or nil when the
// request is not limited. Exact matches win over prefix matches.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	for i := range configs {
		if configs[i].Method == method && configs[i].Path == path {
			return &configs[i]
		}
	}
	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}
	return nil
}

// Info contains information about rate limit status
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

type bucket struct {
	limiter  *rate.Limiter
	limit    int
	lastSeen time.Time
}

// Limiter keeps one bucket per client and endpoint
type Limiter struct {
	config *Config
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	stopOnce sync.Once
	stop     chan struct{}
}

// NewLimiter creates a limiter and starts its idle-bucket cleanup
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = DefaultConfig(60, 10)
	}
	l := &Limiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanupLoop()
	}
	return l
}

// Allow consumes a token for the client if the endpoint is limited
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	ep := MatchEndpoint(path, method, l.config.Endpoints)
	if ep == nil || ep.PerMinute <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.now()
	b := l.bucket(clientID+":"+ep.Method+":"+ep.Path, ep, now)

	allowed := b.limiter.AllowN(now, 1)
	tokens := b.limiter.TokensAt(now)
	perSecond := float64(b.limiter.Limit())

	info := Info{
		Allowed:   allowed,
		Limit:     b.limit,
		Remaining: max(int(tokens), 0),
		ResetTime: now.Add(secondsToDuration((float64(b.limiter.Burst()) - tokens) / perSecond)),
	}
	if !allowed {
		info.RetryAfter = secondsToDuration((1 - tokens) / perSecond)
	}
	return allowed, info
}

func (l *Limiter) bucket(key string, ep *EndpointConfig, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[key]
	if !ok {
		burst := ep.Burst
		if burst <= 0 {
			burst = ep.PerMinute
		}
		b = &bucket{
			limiter: rate.NewLimiter(rate.Limit(float64(ep.PerMinute)/60), burst),
			limit:   ep.PerMinute,
		}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b
}

func secondsToDuration(s float64) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stop:
			return
		}
	}
}

// cleanup drops buckets idle for longer than IdleTTL
func (l *Limiter) cleanup() {
	cutoff := l.now().Add(-l.config.IdleTTL)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop stops the cleanup goroutine
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}
