// Package artifact keeps recently rendered report PDFs in memory so repeated
// fetches of the same report skip the render pipeline. Entries are evicted on
// report mutation and by TTL.
package artifact

import (
	"sync"
	"time"
)

const (
	defaultTTL        = 10 * time.Minute
	defaultMaxEntries = 256
)

type entry struct {
	data     []byte
	storedAt time.Time
}

// Cache is a bounded in-memory store of rendered artifacts keyed by public
// report id. Safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

func NewCache() *Cache {
	return &Cache{
		entries:    make(map[string]entry),
		ttl:        defaultTTL,
		maxEntries: defaultMaxEntries,
		now:        time.Now,
	}
}

// Get returns the cached artifact, or nil when absent or expired.
func (c *Cache) Get(reportID string) []byte {
	c.mu.RLock()
	e, ok := c.entries[reportID]
	c.mu.RUnlock()
	if !ok {
		return nil
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		c.Delete(reportID)
		return nil
	}
	return e.data
}

func (c *Cache) Put(reportID string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.entries[reportID] = entry{data: data, storedAt: c.now()}
}

// Delete removes a report's artifact, typically after its results change.
func (c *Cache) Delete(reportID string) {
	c.mu.Lock()
	delete(c.entries, reportID)
	c.mu.Unlock()
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.storedAt.Before(oldest) {
			oldestKey, oldest = k, e.storedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
