package cache

import (
	"fmt"

	"go.uber.org/zap"

	appledger "github.com/openbooks/backend/internal/application/ledger"
	"github.com/openbooks/backend/internal/infrastructure/config"
)

// ReportCacheFactory creates report caches based on configuration
type ReportCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// ReportCacheFactoryOption is a functional option for configuring the factory
type ReportCacheFactoryOption func(*ReportCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) ReportCacheFactoryOption {
	return func(f *ReportCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) ReportCacheFactoryOption {
	return func(f *ReportCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewReportCacheFactory creates a new factory
func NewReportCacheFactory(cfg config.RedisConfig, opts ...ReportCacheFactoryOption) *ReportCacheFactory {
	f := &ReportCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateRedisCache creates a Redis-backed report cache
func (f *ReportCacheFactory) CreateRedisCache() (appledger.ReportCache, error) {
	cache, err := NewRedisReportCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis report cache: %w", err)
	}
	return cache, nil
}

// CreateInMemoryCache creates an in-memory report cache.
// WARNING: in-memory caches do not share invalidations across process
// instances; reports may be stale up to the TTL in distributed deployments.
func (f *ReportCacheFactory) CreateInMemoryCache() appledger.ReportCache {
	return NewInMemoryReportCache()
}

// CreateCache creates a report cache for the configured backend. "none"
// yields a nil cache, which the reporting service treats as recompute-always.
func (f *ReportCacheFactory) CreateCache(backend string) (appledger.ReportCache, error) {
	switch backend {
	case "none":
		return nil, nil
	case "memory":
		return f.CreateInMemoryCache(), nil
	case "redis":
		cache, err := f.CreateRedisCache()
		if err == nil {
			f.logger.Info("using Redis report cache")
			return cache, nil
		}
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("Redis required for report cache but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory report cache. "+
			"Reports may be stale up to the TTL in distributed deployments.",
			zap.Error(err),
		)
		return f.CreateInMemoryCache(), nil
	default:
		return nil, fmt.Errorf("unknown report cache backend %q", backend)
	}
}
