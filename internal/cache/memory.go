package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryClient implements Client with a bounded in-process map. When a
// write pushes the map over its bound, the oldest entries by creation time
// are evicted until it fits again.
type MemoryClient struct {
	mu      sync.RWMutex
	data    map[string]memoryEntry
	maxSize int

	stop     chan struct{}
	stopOnce sync.Once

	// now is swappable for expiry tests.
	now func() time.Time
}

type memoryEntry struct {
	value     []byte
	createdAt time.Time
	expiresAt time.Time
}

// NewMemoryClient creates a new in-memory cache client holding at most
// maxSize entries.
func NewMemoryClient(maxSize int) *MemoryClient {
	if maxSize <= 0 {
		maxSize = 100
	}

	c := &MemoryClient{
		data:    make(map[string]memoryEntry),
		maxSize: maxSize,
		stop:    make(chan struct{}),
		now:     time.Now,
	}

	go c.janitor()

	return c
}

// Get retrieves a value. Entries past their TTL are treated as absent.
func (c *MemoryClient) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if c.now().After(entry.expiresAt) {
		return nil, ErrCacheMiss
	}
	return entry.value, nil
}

// Set stores a value with the given TTL, evicting oldest entries first if
// the bound is exceeded.
func (c *MemoryClient) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.data[key] = memoryEntry{
		value:     value,
		createdAt: now,
		expiresAt: now.Add(ttl),
	}

	for len(c.data) > c.maxSize {
		c.evictOldestLocked()
	}
	return nil
}

// Delete removes a value.
func (c *MemoryClient) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data, key)
	return nil
}

// Close stops the cleanup goroutine.
func (c *MemoryClient) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return nil
}

// Len returns the current entry count.
func (c *MemoryClient) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// evictOldestLocked removes the entry with the earliest creation time.
// Caller holds the write lock.
func (c *MemoryClient) evictOldestLocked() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range c.data {
		if oldestKey == "" || entry.createdAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.createdAt
		}
	}
	if oldestKey != "" {
		delete(c.data, oldestKey)
	}
}

// janitor periodically removes expired entries.
func (c *MemoryClient) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := c.now()
			for key, entry := range c.data {
				if now.After(entry.expiresAt) {
					delete(c.data, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
