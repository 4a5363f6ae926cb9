// Package alertmesh wires the alert investigation service together from a
// config.Config: logger, working memory backend, tool registry, plan
// builder, investigator, metrics, summarizer and HTTP server.
//
// Most applications interact with this package by:
//  1. Loading a config (config.Load) or using config.Default
//  2. Creating an AlertMesh via New, optionally overriding components
//  3. Calling Investigate / Summarize directly or serving HTTP with Serve
//
// All defaults are safe for local development: in-process memory, the rule
// based summarizer and simulated infrastructure tools.
package alertmesh

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/go-redis/redis/v8"

	"github.com/hupe1980/alertmesh/agent"
	"github.com/hupe1980/alertmesh/config"
	"github.com/hupe1980/alertmesh/core"
	"github.com/hupe1980/alertmesh/logging"
	"github.com/hupe1980/alertmesh/memory"
	"github.com/hupe1980/alertmesh/metrics"
	"github.com/hupe1980/alertmesh/model"
	"github.com/hupe1980/alertmesh/model/anthropic"
	"github.com/hupe1980/alertmesh/model/openai"
	"github.com/hupe1980/alertmesh/server"
	"github.com/hupe1980/alertmesh/summarize"
	"github.com/hupe1980/alertmesh/tool"
)

// Options configures the AlertMesh instance. Every component left nil is
// built from Config.
type Options struct {
	Config *config.Config

	// Logger overrides the config driven slog logger.
	Logger logging.Logger

	// MemoryStore overrides memory.backend.
	MemoryStore core.MemoryStore

	// RedisClient is used for the redis backend instead of dialing
	// memory.redis.addr. The caller keeps ownership.
	RedisClient redis.UniversalClient

	// Registry overrides the simulated infrastructure tools.
	Registry *tool.Registry

	// Model overrides the summarizer provider's model.
	Model model.Model

	// PingTimeout bounds the startup connectivity check of the redis backend.
	PingTimeout time.Duration
}

// AlertMesh is the high-level facade aggregating the investigation service.
type AlertMesh struct {
	cfg          *config.Config
	logger       logging.Logger
	investigator *agent.Investigator
	metrics      *metrics.Metrics
	summarizer   summarize.Summarizer
	server       *server.Server
	closers      []func() error
}

// New creates a new AlertMesh instance.
func New(optFns ...func(o *Options)) (*AlertMesh, error) {
	opts := Options{PingTimeout: 3 * time.Second}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Config == nil {
		opts.Config = config.Default()
	}

	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	cfg := opts.Config

	m := &AlertMesh{cfg: cfg, logger: opts.Logger}
	if m.logger == nil {
		m.logger = logging.NewLogger(cfg.LoggerConfig(nil))
	}

	store, err := m.memoryStore(opts)
	if err != nil {
		_ = m.Close()
		return nil, err
	}

	m.metrics = metrics.New(func(o *metrics.Options) {
		o.Namespace = cfg.Metrics.Namespace
		o.RuntimeCollectors = cfg.Metrics.Runtime
	})

	m.investigator, err = agent.NewInvestigator(func(o *agent.InvestigatorOptions) {
		o.Registry = opts.Registry
		o.Memory = store
		o.Logger = m.logger
		o.Metrics = m.metrics
	})
	if err != nil {
		_ = m.Close()
		return nil, err
	}

	m.summarizer, err = m.newSummarizer(opts.Model)
	if err != nil {
		_ = m.Close()
		return nil, err
	}

	m.server = server.New(m.investigator, func(o *server.Options) {
		o.Summarizer = m.summarizer
		o.Metrics = m.metrics.Handler()
		o.Logger = m.logger
		o.CORS = cfg.Server.CORS
	})

	m.logger.Info(
		"alertmesh.ready",
		"memory", cfg.Memory.Backend,
		"summarizer", cfg.Summarizer.Provider,
		"tools", len(m.investigator.Tools()),
	)

	return m, nil
}

func (m *AlertMesh) memoryStore(opts Options) (core.MemoryStore, error) {
	if opts.MemoryStore != nil {
		return opts.MemoryStore, nil
	}

	if m.cfg.Memory.Backend != config.MemoryRedis {
		return memory.NewInMemoryStore(), nil
	}

	client := opts.RedisClient
	if client == nil {
		c := redis.NewClient(&redis.Options{
			Addr:     m.cfg.Memory.Redis.Addr,
			Password: m.cfg.Memory.Redis.Password,
			DB:       m.cfg.Memory.Redis.DB,
		})
		m.closers = append(m.closers, c.Close)
		client = c
	}

	store := memory.NewRedisStore(client, func(o *memory.RedisOptions) { o.Key = m.cfg.Memory.Redis.Key })

	ctx, cancel := context.WithTimeout(context.Background(), opts.PingTimeout)
	defer cancel()

	if err := store.Ping(ctx); err != nil {
		m.logger.Error("alertmesh.memory.unavailable", "addr", m.cfg.Memory.Redis.Addr, "error", err.Error())
		return nil, fmt.Errorf("memory backend: %w", err)
	}

	return store, nil
}

func (m *AlertMesh) newSummarizer(llm model.Model) (summarize.Summarizer, error) {
	if llm == nil {
		llm = providerModel(m.cfg.Summarizer)
	}

	if llm == nil {
		return summarize.NewRuleSummarizer(), nil
	}

	return summarize.NewModelSummarizer(llm, func(o *summarize.ModelOptions) { o.Logger = m.logger })
}

// providerModel builds the model for summarizer.provider, or nil for the
// rule based summarizer.
func providerModel(sc config.SummarizerConfig) model.Model {
	switch sc.Provider {
	case config.ProviderOpenAI:
		return openai.NewModel(func(o *openai.Options) {
			if sc.Model != "" {
				o.Model = sc.Model
			}

			o.APIKey = sc.APIKey
		})
	case config.ProviderAnthropic:
		return anthropic.NewModel(func(o *anthropic.Options) {
			if sc.Model != "" {
				o.Model = anthropicsdk.Model(sc.Model)
			}

			o.APIKey = sc.APIKey
		})
	default:
		return nil
	}
}

// Config returns the effective configuration.
func (m *AlertMesh) Config() *config.Config { return m.cfg }

// Investigate runs an investigation for alert.
func (m *AlertMesh) Investigate(ctx context.Context, alert core.Alert) (*core.InvestigationReport, error) {
	return m.investigator.Handle(ctx, alert)
}

// Summarize runs an investigation and summarizes it.
func (m *AlertMesh) Summarize(ctx context.Context, alert core.Alert) (*core.InvestigationReport, *summarize.Summary, error) {
	report, err := m.investigator.Handle(ctx, alert)
	if err != nil {
		return nil, nil, err
	}

	summary, err := m.summarizer.Summarize(ctx, report)
	if err != nil {
		return report, nil, err
	}

	return report, summary, nil
}

// Tools lists the registered tools as name to description.
func (m *AlertMesh) Tools() map[string]string { return m.investigator.Tools() }

// Handler returns the HTTP handler serving every route.
func (m *AlertMesh) Handler() http.Handler { return m.server.Handler() }

// Serve runs the HTTP server on server.addr until ctx is canceled.
func (m *AlertMesh) Serve(ctx context.Context) error {
	return m.server.Run(ctx, m.cfg.Server.Addr)
}

// Close releases connections opened by New.
func (m *AlertMesh) Close() error {
	var errs []error

	for _, c := range m.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}

	m.closers = nil

	return errors.Join(errs...)
}
