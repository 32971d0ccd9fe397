package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/db"
	"github.com/jonathan/resume-analyzer/internal/events"
	"github.com/jonathan/resume-analyzer/internal/logging"
	"github.com/jonathan/resume-analyzer/internal/scoring"
	"github.com/jonathan/resume-analyzer/internal/store"
	"github.com/jonathan/resume-analyzer/internal/vocab"
)

// loadConfig reads the optional config file, fills defaults and environment
// URLs and validates the result.
func loadConfig(path string) (*config.Config, error) {
	cfg := &config.Config{}
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	merged := cfg.MergeWithDefaults(config.Defaults())
	if logLevelOverride != "" {
		merged.LogLevel = logLevelOverride
	}
	merged.ApplyEnv(os.Getenv)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

func newLogger(cfg *config.Config, out io.Writer) (zerolog.Logger, error) {
	return logging.NewWithWriter(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}, out)
}

// closers runs cleanup functions in reverse registration order
type closers []func()

func (c *closers) add(fn func()) {
	*c = append(*c, fn)
}

func (c closers) close() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

// app holds the wired collaborators shared by the commands
type app struct {
	cfg          *config.Config
	logger       zerolog.Logger
	vocab        *vocab.Vocabulary
	store        store.Store
	orchestrator *analysis.Orchestrator
	closers      closers
}

// newApp connects the configured store and publishers and builds the
// orchestrator. extra publishers receive events alongside the configured ones.
func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger, extra ...analysis.Publisher) (*app, error) {
	a := &app{cfg: cfg, logger: logger}
	ok := false
	defer func() {
		if !ok {
			a.closers.close()
		}
	}()

	v, err := vocab.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary: %w", err)
	}
	a.vocab = v

	if a.store, err = a.openStore(ctx); err != nil {
		return nil, err
	}
	publisher, err := a.openPublishers(ctx, extra)
	if err != nil {
		return nil, err
	}

	a.orchestrator, err = analysis.New(v, analysis.Options{
		Timeout:       cfg.Analysis.Timeout(),
		StepFloor:     cfg.Analysis.StepFloor(),
		MaxConcurrent: cfg.Analysis.MaxConcurrent,
		Scoring:       scoring.Options{LongSentenceWords: cfg.Analysis.LongSentenceWords},
		Weights:       cfg.Scoring.Weights,
		Store:         a.store,
		Publisher:     publisher,
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}
	ok = true
	return a, nil
}

func (a *app) openStore(ctx context.Context) (store.Store, error) {
	switch a.cfg.Store.Backend {
	case config.BackendRedis:
		client, err := store.ConnectRedis(ctx, a.cfg.Store.RedisURL)
		if err != nil {
			return nil, err
		}
		a.closers.add(func() { _ = client.Close() })
		return store.NewRedis(client, "", a.cfg.Store.RedisTTL())
	case config.BackendPostgres:
		database, err := db.Connect(ctx, a.cfg.Store.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.closers.add(database.Close)
		if err := database.Migrate(ctx); err != nil {
			return nil, err
		}
		return database, nil
	default:
		return store.NewMemory(), nil
	}
}

func (a *app) openPublishers(ctx context.Context, extra []analysis.Publisher) (events.Multi, error) {
	var multi events.Multi
	for _, name := range a.cfg.Events.Publishers {
		switch name {
		case config.PublisherLog:
			multi = append(multi, events.NewLogPublisher(a.logger))
		case config.PublisherRedis:
			client, err := store.ConnectRedis(ctx, a.cfg.Store.RedisURL)
			if err != nil {
				return nil, err
			}
			a.closers.add(func() { _ = client.Close() })
			pub, err := events.NewRedisPublisher(client, a.cfg.Events.RedisChannelPrefix)
			if err != nil {
				return nil, err
			}
			multi = append(multi, pub)
		case config.PublisherAMQP:
			pub, err := events.DialAMQP(a.cfg.Events.AMQPURL, a.cfg.Events.AMQPExchange)
			if err != nil {
				return nil, err
			}
			a.closers.add(func() { _ = pub.Close() })
			multi = append(multi, pub)
		}
	}
	for _, p := range extra {
		multi = append(multi, p)
	}
	return multi, nil
}

// shutdown stops in-flight runs and releases connections
func (a *app) shutdown(ctx context.Context) {
	if err := a.orchestrator.Shutdown(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("orchestrator shutdown incomplete")
	}
	a.closers.close()
}
