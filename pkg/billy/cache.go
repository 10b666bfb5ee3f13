package billy

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// CacheEntry is a cached response body with its expiry and optional ETag.
type CacheEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
	ETag      string    `json:"etag,omitempty"`
}

// Expired reports whether the entry is past its expiry.
func (e *CacheEntry) Expired() bool {
	return time.Now().After(e.ExpiresAt)
}

// Cache is a pluggable backend for cached responses.
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) bool
}

// MemoryCache is an in-memory Cache with a maximum entry count. When full,
// the entry closest to expiry is evicted first.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*CacheEntry
	maxSize int
}

// NewMemoryCache creates a memory cache holding at most maxSize entries.
func NewMemoryCache(maxSize int) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*CacheEntry),
		maxSize: maxSize,
	}
}

// Get retrieves an entry, failing for missing or expired keys.
func (c *MemoryCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
	}

	if entry.Expired() {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()

		return nil, fmt.Errorf("%w: %s", ErrCacheEntryExpired, key)
	}

	return entry, nil
}

// Set stores an entry, evicting the soonest-to-expire entry when full.
func (c *MemoryCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = entry

	return nil
}

// Delete removes an entry.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()

	return nil
}

// DeleteByPrefix removes every entry whose key starts with prefix.
func (c *MemoryCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}

	return nil
}

// Clear removes all entries.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]*CacheEntry)
	c.mu.Unlock()

	return nil
}

// Has reports whether a non-expired entry exists for key.
func (c *MemoryCache) Has(ctx context.Context, key string) bool {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	return ok && !entry.Expired()
}

// Cleanup removes all expired entries.
func (c *MemoryCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if entry.Expired() {
			delete(c.entries, key)
		}
	}
}

// evictOldest removes the entry closest to expiry. Caller holds the lock.
func (c *MemoryCache) evictOldest() {
	var (
		oldestKey string
		oldestAt  time.Time
	)

	for key, entry := range c.entries {
		if oldestKey == "" || entry.ExpiresAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.ExpiresAt
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// CacheStats tracks cache effectiveness.
type CacheStats struct {
	Hits   int64
	Misses int64
	Sets   int64
}

// GetHitRate returns hits as a fraction of all lookups.
func (s *CacheStats) GetHitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// CacheManager wraps a Cache with key derivation, a default TTL, and stats.
type CacheManager struct {
	cache      Cache
	logger     Logger
	defaultTTL time.Duration

	mu    sync.Mutex
	stats CacheStats
}

// NewCacheManager creates a manager over the given backend. A nil options
// uses DefaultCacheOptions.
func NewCacheManager(cache Cache, options *CacheOptions) *CacheManager {
	if options == nil {
		options = DefaultCacheOptions()
	}

	return &CacheManager{
		cache:      cache,
		logger:     options.Logger,
		defaultTTL: options.DefaultTTL,
	}
}

// GetCacheKey derives a deterministic cache key from a request. Query
// parameters are sorted so equivalent requests share a key.
func (m *CacheManager) GetCacheKey(method, path string, params map[string]string) string {
	if len(params) == 0 {
		return method + ":" + path
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}

	return method + ":" + path + ":" + strings.Join(pairs, "&")
}

// Get retrieves cached data for key.
func (m *CacheManager) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := m.cache.Get(ctx, key)
	if err != nil {
		m.record(func(s *CacheStats) { s.Misses++ })

		return nil, fmt.Errorf("cache get: %w", err)
	}

	m.record(func(s *CacheStats) { s.Hits++ })

	return entry.Data, nil
}

// GetETag returns the ETag of a cached entry, or empty when absent.
func (m *CacheManager) GetETag(ctx context.Context, key string) string {
	entry, err := m.cache.Get(ctx, key)
	if err != nil {
		return ""
	}

	return entry.ETag
}

// Set stores data under key for the given TTL; a zero TTL uses the default.
func (m *CacheManager) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return m.SetWithETag(ctx, key, data, "", ttl)
}

// SetWithETag stores data with an ETag for conditional requests.
func (m *CacheManager) SetWithETag(ctx context.Context, key string, data []byte, etag string, ttl time.Duration) error {
	if ttl == 0 {
		ttl = m.defaultTTL
	}

	entry := &CacheEntry{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
		ETag:      etag,
	}

	err := m.cache.Set(ctx, key, entry)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}

	m.record(func(s *CacheStats) { s.Sets++ })

	if m.logger != nil {
		m.logger.Debug("cached response", map[string]interface{}{
			"key": key,
			"ttl": ttl.String(),
		})
	}

	return nil
}

// Delete removes a cached entry.
func (m *CacheManager) Delete(ctx context.Context, key string) error {
	err := m.cache.Delete(ctx, key)
	if err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}

	return nil
}

// DeleteByPrefix removes every cached entry whose key starts with prefix.
func (m *CacheManager) DeleteByPrefix(ctx context.Context, prefix string) error {
	err := m.cache.DeleteByPrefix(ctx, prefix)
	if err != nil {
		return fmt.Errorf("cache delete by prefix: %w", err)
	}

	return nil
}

// Clear removes all cached entries.
func (m *CacheManager) Clear(ctx context.Context) error {
	err := m.cache.Clear(ctx)
	if err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}

	return nil
}

// GetStats returns a snapshot of the cache statistics.
func (m *CacheManager) GetStats() CacheStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.stats
}

func (m *CacheManager) record(update func(*CacheStats)) {
	m.mu.Lock()
	update(&m.stats)
	m.mu.Unlock()
}

// CacheOptions are common options applied to any cache backend.
type CacheOptions struct {
	// DefaultTTL applies when Set is called with a zero TTL.
	DefaultTTL time.Duration
	// Logger receives debug lines about cache activity.
	Logger Logger
}

// DefaultCacheOptions returns the default cache options.
func DefaultCacheOptions() *CacheOptions {
	return &CacheOptions{
		DefaultTTL: 5 * time.Minute,
	}
}

// CachingPolicy decides which requests are cacheable.
type CachingPolicy struct {
	// CacheGET caches GET responses.
	CacheGET bool
	// CachePOST caches POST responses.
	CachePOST bool
	// CacheErrors caches non-2xx responses.
	CacheErrors bool
	// IncludePaths, when non-empty, restricts caching to these path
	// prefixes.
	IncludePaths []string
	// ExcludePaths disables caching for these path prefixes.
	ExcludePaths []string
	// TTL is the time-to-live for entries cached under this policy; zero
	// falls back to the manager default.
	TTL time.Duration
}

// DefaultCachingPolicy caches successful GET responses only.
func DefaultCachingPolicy() *CachingPolicy {
	return &CachingPolicy{
		CacheGET: true,
	}
}

// ShouldCache reports whether a response for the given request is cacheable
// under this policy.
func (p *CachingPolicy) ShouldCache(method, path string, statusCode int) bool {
	switch method {
	case "GET":
		if !p.CacheGET {
			return false
		}
	case "POST":
		if !p.CachePOST {
			return false
		}
	default:
		return false
	}

	if !p.CacheErrors && (statusCode < 200 || statusCode >= 300) {
		return false
	}

	for _, prefix := range p.ExcludePaths {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}

	if len(p.IncludePaths) > 0 {
		for _, prefix := range p.IncludePaths {
			if strings.HasPrefix(path, prefix) {
				return true
			}
		}

		return false
	}

	return true
}
