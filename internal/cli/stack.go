package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/aretw0/canvass"
	"github.com/aretw0/canvass/internal/config"
	"github.com/aretw0/canvass/pkg/adapters/file"
	"github.com/aretw0/canvass/pkg/adapters/httpsink"
	"github.com/aretw0/canvass/pkg/adapters/memory"
	"github.com/aretw0/canvass/pkg/adapters/mongo"
	"github.com/aretw0/canvass/pkg/adapters/redis"
	"github.com/aretw0/canvass/pkg/catalog"
	"github.com/aretw0/canvass/pkg/observability"
	"github.com/aretw0/canvass/pkg/persistence/middleware"
	"github.com/aretw0/canvass/pkg/ports"
	"github.com/aretw0/canvass/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
)

// Stack is everything a command needs to run the engine: the catalog, the
// decorated sink, the metrics registry and the engine itself.
type Stack struct {
	Config   config.Config
	Logger   *slog.Logger
	Catalog  *catalog.Catalog
	Sink     ports.Sink
	Registry *prometheus.Registry
	Metrics  *observability.Metrics
	Engine   *canvass.Engine

	redis   *goredis.Client
	closers []func(context.Context) error
}

// Build validates cfg and opens the configured backends.
// The caller must Close the stack.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Stack, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, key := range cfg.Unknown {
		logger.Warn("unknown setting ignored", "key", config.EnvPrefix+key)
	}

	cat, err := LoadCatalog(cfg.Catalog)
	if err != nil {
		return nil, err
	}

	s := &Stack{
		Config:   cfg,
		Logger:   logger,
		Catalog:  cat,
		Registry: prometheus.NewRegistry(),
	}
	s.Metrics, err = observability.NewMetrics(s.Registry)
	if err != nil {
		return nil, err
	}

	sink, err := s.openSink(ctx)
	if err != nil {
		_ = s.Close(ctx)
		return nil, err
	}

	mws := []middleware.SinkMiddleware{
		middleware.NewLoggingMiddleware(logger),
		middleware.NewMetricsMiddleware(s.Metrics),
	}
	if patterns := piiPatterns(cfg); len(patterns) > 0 {
		for _, p := range patterns {
			if _, err := regexp.Compile(p); err != nil {
				_ = s.Close(ctx)
				return nil, fmt.Errorf("invalid pii pattern %q: %w", p, err)
			}
		}
		mws = append(mws, middleware.NewPIIMiddleware(patterns))
	}
	s.Sink = middleware.WrapSink(sink, mws...)

	opts := []canvass.Option{
		canvass.WithCatalog(cat),
		canvass.WithSink(s.Sink),
		canvass.WithLogger(logger),
		canvass.WithLifecycleHooks(observability.Combine(
			observability.LogHooks(logger),
			s.Metrics.Hooks(),
		)),
	}
	if cfg.Greeting != "" {
		opts = append(opts, canvass.WithGreeting(cfg.Greeting))
	}
	if cfg.Source != "" {
		opts = append(opts, canvass.WithSource(cfg.Source))
	}
	s.Engine = canvass.New(opts...)

	return s, nil
}

// LoadCatalog reads a YAML catalog, or returns the built-in one for "".
func LoadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}

func piiPatterns(cfg config.Config) []string {
	if len(cfg.PIIFields) > 0 {
		return cfg.PIIFields
	}
	if cfg.MaskPII {
		return middleware.DefaultPIIPatterns
	}
	return nil
}

func (s *Stack) openSink(ctx context.Context) (ports.Sink, error) {
	cfg := s.Config
	switch cfg.Sink {
	case config.SinkMemory:
		return memory.NewSink(), nil
	case config.SinkFile:
		return file.NewSink(cfg.RecordsDir), nil
	case config.SinkHTTP:
		var opts []httpsink.Option
		if cfg.CollectorToken != "" {
			opts = append(opts, httpsink.WithHeader("Authorization", "Bearer "+cfg.CollectorToken))
		}
		return httpsink.New(cfg.CollectorURL, opts...), nil
	case config.SinkRedis:
		client, err := s.redisClient()
		if err != nil {
			return nil, err
		}
		return redis.NewSink(client, s.redisOptions()...), nil
	case config.SinkMongo:
		sink, disconnect, err := mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, disconnect)
		return sink, nil
	default:
		return nil, fmt.Errorf("unknown sink %q", cfg.Sink)
	}
}

// OpenStore returns the store for live server sessions, sealed with the
// encryption key when one is configured.
func (s *Stack) OpenStore() (ports.SessionStore, error) {
	var store ports.SessionStore
	switch s.Config.Store {
	case config.StoreMemory:
		store = memory.NewStore()
	case config.StoreFile:
		store = file.NewStore(s.Config.SessionsDir)
	case config.StoreRedis:
		client, err := s.redisClient()
		if err != nil {
			return nil, err
		}
		opts := append(s.redisOptions(), redis.WithTTL(s.Config.SessionTTL))
		store = redis.NewStore(client, opts...)
	default:
		return nil, fmt.Errorf("unknown store %q", s.Config.Store)
	}
	return sealStore(s.Config, store)
}

// OpenFileStore returns the store used to resume terminal sessions.
// It needs no backend connection, so session housekeeping can skip Build.
func OpenFileStore(cfg config.Config) (ports.SessionStore, error) {
	return sealStore(cfg, file.NewStore(cfg.SessionsDir))
}

func sealStore(cfg config.Config, store ports.SessionStore) (ports.SessionStore, error) {
	if cfg.EncryptionKey == "" {
		return store, nil
	}
	key, err := middleware.ParseKey(cfg.EncryptionKey)
	if err != nil {
		return nil, err
	}
	enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
	if err != nil {
		return nil, err
	}
	return middleware.WrapStore(store, enc), nil
}

// OpenSessions builds the session manager used by the servers. With a Redis
// store, replicas also share a distributed lock per session.
func (s *Stack) OpenSessions() (*session.Manager, error) {
	store, err := s.OpenStore()
	if err != nil {
		return nil, err
	}
	opts := []session.Option{session.WithLogger(s.Logger)}
	if s.Config.Store == config.StoreRedis {
		opts = append(opts, session.WithLocker(redis.NewLocker(s.redis, s.redisOptions()...)))
	}
	return session.NewManager(store, opts...), nil
}

func (s *Stack) redisClient() (*goredis.Client, error) {
	if s.redis != nil {
		return s.redis, nil
	}
	client, err := redis.Connect(s.Config.RedisURL)
	if err != nil {
		return nil, err
	}
	s.redis = client
	s.closers = append(s.closers, func(context.Context) error { return client.Close() })
	return client, nil
}

func (s *Stack) redisOptions() []redis.Option {
	if s.Config.RedisPrefix == "" {
		return nil
	}
	return []redis.Option{redis.WithPrefix(s.Config.RedisPrefix)}
}

// Close releases backend connections.
func (s *Stack) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
