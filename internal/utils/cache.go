package utils

import (
	"os"
	"sync"
	"time"
)

// fileStamp identifies one version of a file on disk
type fileStamp struct {
	modTime time.Time
	size    int64
}

func (s fileStamp) matches(other fileStamp) bool {
	return s.size == other.size && s.modTime.Equal(other.modTime)
}

func stampOf(filePath string) (fileStamp, error) {
	stat, err := os.Stat(filePath)
	if err != nil {
		return fileStamp{}, err
	}
	return fileStamp{modTime: stat.ModTime(), size: stat.Size()}, nil
}

type cacheItem[V any] struct {
	value V
	stamp *fileStamp
}

// Cache is a thread-safe cache whose entries can be tied to the file they were
// computed from. It survives between generation rounds so unchanged files are
// not parsed again.
type Cache[K comparable, V any] struct {
	mu     sync.RWMutex
	items  map[K]*cacheItem[V]
	hits   int
	misses int
}

// NewCache creates a new generic cache
func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]*cacheItem[V]),
	}
}

// Get retrieves an item from the cache
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, exists := c.items[key]
	if !exists {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	return item.value, true
}

// GetWithFileValidation retrieves an item only while filePath is unchanged since
// the item was stored. Stale items are evicted.
func (c *Cache[K, V]) GetWithFileValidation(key K, filePath string) (V, bool) {
	var zero V

	c.mu.Lock()
	defer c.mu.Unlock()

	item, exists := c.items[key]
	if !exists {
		c.misses++
		return zero, false
	}

	if item.stamp != nil {
		if current, err := stampOf(filePath); err != nil || !current.matches(*item.stamp) {
			delete(c.items, key)
			c.misses++
			return zero, false
		}
	}

	c.hits++
	return item.value, true
}

// Set stores an item that never goes stale
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &cacheItem[V]{value: value}
}

// SetWithFileInfo stores an item tied to the current version of filePath
func (c *Cache[K, V]) SetWithFileInfo(key K, value V, filePath string) error {
	stamp, err := stampOf(filePath)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &cacheItem[V]{value: value, stamp: &stamp}
	return nil
}

// Delete removes an item from the cache
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// Clear removes all items and resets the statistics
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*cacheItem[V])
	c.hits, c.misses = 0, 0
}

// Size returns the number of items in the cache
func (c *Cache[K, V]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// CacheStats reports how a cache has been used
type CacheStats struct {
	Size   int
	Hits   int
	Misses int
}

// GetStats returns cache statistics
func (c *Cache[K, V]) GetStats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return CacheStats{Size: len(c.items), Hits: c.hits, Misses: c.misses}
}
