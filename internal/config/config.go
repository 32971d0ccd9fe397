// Package config provides configuration loading and validation for the CLI
// and the HTTP server.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-analyzer/internal/scoring"
)

// Store backends
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Event publishers
const (
	PublisherLog   = "log"
	PublisherRedis = "redis"
	PublisherAMQP  = "amqp"
)

// Config represents the configuration that can be loaded from a JSON or YAML
// file. All fields are optional; missing values come from Defaults.
type Config struct {
	LogLevel  string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,oneof=trace debug info warn error"`
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty" validate:"omitempty,oneof=json pretty"`

	Analysis AnalysisConfig `json:"analysis" yaml:"analysis"`
	Scoring  ScoringConfig  `json:"scoring" yaml:"scoring"`
	Store    StoreConfig    `json:"store" yaml:"store"`
	Events   EventsConfig   `json:"events" yaml:"events"`
	Server   ServerConfig   `json:"server" yaml:"server"`
}

// AnalysisConfig tunes the orchestrator
type AnalysisConfig struct {
	TimeoutSeconds    int  `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty" validate:"gte=0"`
	StepFloorMS       *int `json:"step_floor_ms,omitempty" yaml:"step_floor_ms,omitempty" validate:"omitempty,gte=0"` // 0 disables the floor
	MaxConcurrent     int  `json:"max_concurrent,omitempty" yaml:"max_concurrent,omitempty" validate:"gte=0"`
	LongSentenceWords int  `json:"long_sentence_words,omitempty" yaml:"long_sentence_words,omitempty" validate:"gte=0"`
}

// ScoringConfig holds the aggregator weights
type ScoringConfig struct {
	Weights *scoring.Weights `json:"weights,omitempty" yaml:"weights,omitempty"`
}

// StoreConfig selects where results are persisted
type StoreConfig struct {
	Backend       string `json:"backend,omitempty" yaml:"backend,omitempty" validate:"omitempty,oneof=memory redis postgres"`
	RedisURL      string `json:"redis_url,omitempty" yaml:"redis_url,omitempty"`
	RedisTTLHours int    `json:"redis_ttl_hours,omitempty" yaml:"redis_ttl_hours,omitempty" validate:"gte=0"`
	DatabaseURL   string `json:"database_url,omitempty" yaml:"database_url,omitempty"`
}

// EventsConfig selects progress event publishers
type EventsConfig struct {
	Publishers         []string `json:"publishers,omitempty" yaml:"publishers,omitempty" validate:"omitempty,dive,oneof=log redis amqp"`
	AMQPURL            string   `json:"amqp_url,omitempty" yaml:"amqp_url,omitempty"`
	AMQPExchange       string   `json:"amqp_exchange,omitempty" yaml:"amqp_exchange,omitempty"`
	RedisChannelPrefix string   `json:"redis_channel_prefix,omitempty" yaml:"redis_channel_prefix,omitempty"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port               int `json:"port,omitempty" yaml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	RateLimitPerMinute int `json:"rate_limit_per_minute,omitempty" yaml:"rate_limit_per_minute,omitempty" validate:"gte=0"`
	RateLimitBurst     int `json:"rate_limit_burst,omitempty" yaml:"rate_limit_burst,omitempty" validate:"gte=0"`
}

// Defaults returns the built-in configuration
func Defaults() Config {
	floor := 250
	weights := scoring.DefaultWeights()
	return Config{
		LogLevel:  "info",
		LogFormat: "json",
		Analysis: AnalysisConfig{
			TimeoutSeconds:    60,
			StepFloorMS:       &floor,
			MaxConcurrent:     4,
			LongSentenceWords: scoring.DefaultLongSentenceWords,
		},
		Scoring: ScoringConfig{Weights: &weights},
		Store: StoreConfig{
			Backend:       BackendMemory,
			RedisTTLHours: 24,
		},
		Events: EventsConfig{
			Publishers: []string{PublisherLog},
		},
		Server: ServerConfig{
			Port:               8080,
			RateLimitPerMinute: 60,
			RateLimitBurst:     10,
		},
	}
}

// ValidationError reports an invalid configuration field
type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config error: '%s' %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// LoadConfig loads configuration from a .json, .yaml or .yml file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}

	return &cfg, nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}

	a, d := &result.Analysis, defaults.Analysis
	if a.TimeoutSeconds == 0 {
		a.TimeoutSeconds = d.TimeoutSeconds
	}
	if a.StepFloorMS == nil && d.StepFloorMS != nil {
		v := *d.StepFloorMS
		a.StepFloorMS = &v
	}
	if a.MaxConcurrent == 0 {
		a.MaxConcurrent = d.MaxConcurrent
	}
	if a.LongSentenceWords == 0 {
		a.LongSentenceWords = d.LongSentenceWords
	}

	if result.Scoring.Weights == nil && defaults.Scoring.Weights != nil {
		w := *defaults.Scoring.Weights
		result.Scoring.Weights = &w
	}

	s, ds := &result.Store, defaults.Store
	if s.Backend == "" {
		s.Backend = ds.Backend
	}
	if s.RedisURL == "" {
		s.RedisURL = ds.RedisURL
	}
	if s.RedisTTLHours == 0 {
		s.RedisTTLHours = ds.RedisTTLHours
	}
	if s.DatabaseURL == "" {
		s.DatabaseURL = ds.DatabaseURL
	}

	e, de := &result.Events, defaults.Events
	if len(e.Publishers) == 0 {
		e.Publishers = slices.Clone(de.Publishers)
	}
	if e.AMQPURL == "" {
		e.AMQPURL = de.AMQPURL
	}
	if e.AMQPExchange == "" {
		e.AMQPExchange = de.AMQPExchange
	}
	if e.RedisChannelPrefix == "" {
		e.RedisChannelPrefix = de.RedisChannelPrefix
	}

	sv, dsv := &result.Server, defaults.Server
	if sv.Port == 0 {
		sv.Port = dsv.Port
	}
	if sv.RateLimitPerMinute == 0 {
		sv.RateLimitPerMinute = dsv.RateLimitPerMinute
	}
	if sv.RateLimitBurst == 0 {
		sv.RateLimitBurst = dsv.RateLimitBurst
	}

	return result
}

// ApplyEnv fills empty connection URLs from DATABASE_URL, REDIS_URL and AMQP_URL
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if c.Store.DatabaseURL == "" {
		c.Store.DatabaseURL = getenv("DATABASE_URL")
	}
	if c.Store.RedisURL == "" {
		c.Store.RedisURL = getenv("REDIS_URL")
	}
	if c.Events.AMQPURL == "" {
		c.Events.AMQPURL = getenv("AMQP_URL")
	}
}

// Validate checks field ranges and the URLs each selected backend needs
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &ValidationError{Field: fieldPath(fe.Namespace()), Message: "failed " + fe.Tag() + " validation", Cause: err}
		}
		return &ValidationError{Field: "config", Message: "is invalid", Cause: err}
	}

	switch c.Store.Backend {
	case BackendRedis:
		if c.Store.RedisURL == "" {
			return &ValidationError{Field: "store.redis_url", Message: "is required for the redis backend"}
		}
	case BackendPostgres:
		if c.Store.DatabaseURL == "" {
			return &ValidationError{Field: "store.database_url", Message: "is required for the postgres backend"}
		}
	}
	if c.HasPublisher(PublisherRedis) && c.Store.RedisURL == "" {
		return &ValidationError{Field: "store.redis_url", Message: "is required for the redis publisher"}
	}
	if c.HasPublisher(PublisherAMQP) && c.Events.AMQPURL == "" {
		return &ValidationError{Field: "events.amqp_url", Message: "is required for the amqp publisher"}
	}
	return nil
}

// HasPublisher reports whether name is among the configured publishers
func (c *Config) HasPublisher(name string) bool {
	return slices.Contains(c.Events.Publishers, name)
}

// Timeout is the per-analysis timeout
func (a AnalysisConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// StepFloor is the minimum step duration. Nil means unset.
func (a AnalysisConfig) StepFloor() time.Duration {
	if a.StepFloorMS == nil {
		return 0
	}
	return time.Duration(*a.StepFloorMS) * time.Millisecond
}

// RedisTTL is how long results stay in Redis
func (s StoreConfig) RedisTTL() time.Duration {
	return time.Duration(s.RedisTTLHours) * time.Hour
}

// newValidator reports fields by their json names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldPath drops the root type from a validator namespace
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}
