package geocode

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// CachingClient wraps a Client with a TTL cache keyed by rounded
// coordinates. Coordinates are rounded to 4 decimal places (roughly 11
// meters), so check-ins from the same site share one upstream lookup.
type CachingClient struct {
	inner Client
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	address string
	expires time.Time
}

// NewCachingClient wraps inner with a cache holding entries for ttl.
func NewCachingClient(inner Client, ttl time.Duration) *CachingClient {
	return &CachingClient{
		inner:   inner,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// ReverseGeocode serves from cache when a fresh entry exists, otherwise
// delegates to the wrapped client. Failed lookups are not cached.
func (c *CachingClient) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	key := cacheKey(lat, lng)

	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && c.now().Before(entry.expires) {
		c.mu.Unlock()
		return entry.address, nil
	}
	c.mu.Unlock()

	address, err := c.inner.ReverseGeocode(ctx, lat, lng)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{address: address, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return address, nil
}

func cacheKey(lat, lng float64) string {
	return fmt.Sprintf("%.4f,%.4f", lat, lng)
}
