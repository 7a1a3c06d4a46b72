package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	appledger "github.com/openbooks/backend/internal/application/ledger"
)

// reportEntry is a stored payload with expiration
type reportEntry struct {
	payload   []byte
	expiresAt time.Time
}

// InMemoryReportCache implements the report cache on a map. Suitable for
// single-instance deployments and testing; invalidations are not visible to
// other processes.
type InMemoryReportCache struct {
	mu        sync.RWMutex
	entries   map[string]reportEntry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryReportCache creates a new in-memory report cache. It starts a
// background goroutine that evicts expired entries.
func NewInMemoryReportCache() *InMemoryReportCache {
	c := &InMemoryReportCache{
		entries:  make(map[string]reportEntry),
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

func reportKey(tenantID uuid.UUID, key string) string {
	return tenantID.String() + ":" + key
}

// Get retrieves a cached report payload
func (c *InMemoryReportCache) Get(ctx context.Context, tenantID uuid.UUID, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[reportKey(tenantID, key)]
	if !exists || time.Now().After(e.expiresAt) {
		return nil, false, nil
	}
	return e.payload, true, nil
}

// Set stores a report payload with a TTL
func (c *InMemoryReportCache) Set(ctx context.Context, tenantID uuid.UUID, key string, payload []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[reportKey(tenantID, key)] = reportEntry{
		payload:   payload,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// InvalidateTenant removes every cached report for a tenant
func (c *InMemoryReportCache) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := tenantID.String() + ":"
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *InMemoryReportCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (c *InMemoryReportCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *InMemoryReportCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// Size returns the number of entries in the cache (for testing/monitoring)
func (c *InMemoryReportCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ensure InMemoryReportCache implements ReportCache
var _ appledger.ReportCache = (*InMemoryReportCache)(nil)
