package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/adapters/synth"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/cache"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/configutil"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/logging"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/metrics"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/orchestrator"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/redact"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/runner"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/session"
)

// Engine assembles the configured providers, session storage, response
// cache and orchestrator into one runnable assistant.
type Engine struct {
	cfg    Config
	logger *slog.Logger

	observer    metrics.Observer
	sessions    *session.Manager
	cache       *cache.ResponseCache
	orch        *orchestrator.Orchestrator
	lifecycle   *runner.LifecycleRunner
	redisClient *redis.Client
	metricsFile *os.File
}

func NewEngine(cfg Config, registry *ProviderRegistry) (*Engine, error) {
	if registry == nil {
		registry = DefaultRegistry()
	}
	logger := logging.InitLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	redact.SetEnabled(cfg.Privacy.RedactPII)

	e := &Engine{cfg: cfg, logger: logger}
	if err := e.initObserver(); err != nil {
		return nil, err
	}

	transcriber, err := registry.BuildSTT(cfg.Vendors.STT, logger)
	if err != nil {
		return nil, fmt.Errorf("build stt: %w", err)
	}
	synthesizer, err := registry.BuildTTS(cfg.Vendors.TTS, logger)
	if err != nil {
		return nil, fmt.Errorf("build tts: %w", err)
	}
	languageAgent, err := registry.BuildLLM(cfg.Vendors.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("build llm: %w", err)
	}
	searchProvider, err := registry.BuildSearch(cfg.Vendors.Search, logger)
	if err != nil {
		return nil, fmt.Errorf("build search: %w", err)
	}

	store, err := e.initStore()
	if err != nil {
		return nil, err
	}
	e.sessions = session.NewManager(store, logger,
		session.WithTimeout(cfg.Session.Timeout()),
		session.WithObserver(e.observer))

	if cfg.Cache.Enabled {
		e.cache = cache.New(
			cache.WithCapacity(cfg.Cache.Capacity),
			cache.WithTTL(cfg.Cache.TTL()))
	}

	e.orch = orchestrator.New(e.sessions, orchestrator.Collaborators{
		Transcriber: transcriber,
		Agent:       languageAgent,
		Search:      searchProvider,
		Synthesizer: synthesizer,
	}, e.cache, logger, e.observer, orchestrator.Options{
		Voice:               cfg.Turn.Voice,
		Format:              cfg.Turn.Format,
		ConfidenceThreshold: cfg.Turn.ConfidenceThreshold,
		MinMatchConfidence:  cfg.Turn.MinMatchConfidence,
		IdleThreshold:       cfg.Turn.IdleThreshold(),
		ExitPhrases:         cfg.Turn.ExitPhrases,
	})

	e.lifecycle = runner.NewLifecycleRunner(drainFunc(e.drain), runner.Hooks{
		OnStart: func() { e.onStart(synthesizer) },
	}, 10*time.Second)

	return e, nil
}

func (e *Engine) initObserver() error {
	if e.cfg.Observability.MetricsFile == "" {
		e.observer = metrics.NoopObserver{}
		return nil
	}
	f, err := os.OpenFile(e.cfg.Observability.MetricsFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open metrics file: %w", err)
	}
	e.metricsFile = f
	e.observer = metrics.NewJSONLObserver(f)
	return nil
}

func (e *Engine) initStore() (session.Store, error) {
	switch e.cfg.Session.Store {
	case "redis":
		var settings struct {
			Addr     string `mapstructure:"addr"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
		}
		if err := configutil.DecodeSettings(e.cfg.Session.Redis, &settings); err != nil {
			return nil, err
		}
		if settings.Addr == "" {
			settings.Addr = "localhost:6379"
		}
		e.redisClient = redis.NewClient(&redis.Options{
			Addr:     settings.Addr,
			Password: settings.Password,
			DB:       settings.DB,
		})
		return session.NewStore(session.StoreTypeRedis,
			session.WithRedisClient(e.redisClient),
			session.WithRedisTTL(e.cfg.Session.Timeout()))
	default:
		return session.NewStore(session.StoreTypeMemory)
	}
}

// onStart pre-warms the response cache and launches the idle-session
// sweeper. Both are best effort.
func (e *Engine) onStart(synthesizer synth.Synthesizer) {
	ctx := e.lifecycle.Context()
	if e.cache != nil && e.cfg.Cache.Prewarm {
		warmed := e.cache.Prewarm(ctx, func(ctx context.Context, text string) ([]byte, error) {
			return synthesizer.Synthesize(ctx, synth.Request{
				Text:   text,
				Voice:  e.cfg.Turn.Voice,
				Format: e.cfg.Turn.Format,
			})
		}, e.cfg.Turn.Voice, e.cfg.Turn.Format)
		e.logger.Info("cache_prewarmed", slog.Int("phrases", warmed))
		metrics.Record(e.observer, metrics.EventPrewarmedPhrases, float64(warmed), nil)
	}
	go e.sessions.RunSweeper(ctx, e.cfg.Session.SweepInterval())
}

func (e *Engine) drain() error {
	if err := e.sessions.Close(); err != nil {
		e.logger.Warn("session store close failed", slog.String("error", err.Error()))
	}
	if e.redisClient != nil {
		_ = e.redisClient.Close()
	}
	if e.metricsFile != nil {
		_ = e.metricsFile.Close()
	}
	return nil
}

// Run blocks until the context is cancelled or Stop is called.
func (e *Engine) Run(ctx context.Context) error {
	return e.lifecycle.Run(ctx)
}

func (e *Engine) Stop() error {
	return e.lifecycle.Stop()
}

func (e *Engine) StartSession(ctx context.Context) (string, error) {
	return e.orch.StartSession(ctx)
}

func (e *Engine) HandleTurn(ctx context.Context, sessionID string, audio []byte) ([]byte, error) {
	return e.orch.HandleTurn(ctx, sessionID, audio)
}

func (e *Engine) GetState(ctx context.Context, sessionID string) (session.Snapshot, error) {
	return e.orch.GetState(ctx, sessionID)
}

func (e *Engine) EndSession(ctx context.Context, sessionID string) error {
	return e.orch.EndSession(ctx, sessionID)
}

func (e *Engine) CheckIdle(ctx context.Context, sessionID string) ([]byte, error) {
	return e.orch.CheckIdle(ctx, sessionID)
}

// CacheStats reports response cache effectiveness; zero value when the
// cache is disabled.
func (e *Engine) CacheStats() cache.Stats {
	if e.cache == nil {
		return cache.Stats{}
	}
	return e.cache.Stats()
}

type drainFunc func() error

func (f drainFunc) Drain() error { return f() }
