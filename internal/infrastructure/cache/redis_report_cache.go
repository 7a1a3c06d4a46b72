package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	appledger "github.com/openbooks/backend/internal/application/ledger"
)

// RedisReportCache implements the report cache on Redis. Suitable for
// distributed deployments where multiple instances must observe the same
// invalidations.
type RedisReportCache struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisReportCache creates a Redis-backed report cache and verifies the
// connection before returning
func NewRedisReportCache(cfg RedisConfig) (*RedisReportCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisReportCache{
		client:    client,
		keyPrefix: "report:",
	}, nil
}

// NewRedisReportCacheWithClient creates a cache with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisReportCacheWithClient(client *redis.Client, keyPrefix string) *RedisReportCache {
	if keyPrefix == "" {
		keyPrefix = "report:"
	}
	return &RedisReportCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (c *RedisReportCache) key(tenantID uuid.UUID, key string) string {
	return c.keyPrefix + tenantID.String() + ":" + key
}

// Get retrieves a cached report payload
func (c *RedisReportCache) Get(ctx context.Context, tenantID uuid.UUID, key string) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, c.key(tenantID, key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read report cache: %w", err)
	}
	return payload, true, nil
}

// Set stores a report payload with a TTL
func (c *RedisReportCache) Set(ctx context.Context, tenantID uuid.UUID, key string, payload []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(tenantID, key), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write report cache: %w", err)
	}
	return nil
}

// InvalidateTenant removes every cached report for a tenant. Keys are
// discovered with SCAN so the operation never blocks the server the way
// KEYS would.
func (c *RedisReportCache) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	pattern := c.keyPrefix + tenantID.String() + ":*"
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()

	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan report cache keys: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate report cache: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisReportCache) Close() error {
	return c.client.Close()
}

// Ensure RedisReportCache implements ReportCache
var _ appledger.ReportCache = (*RedisReportCache)(nil)
