// Package assets resolves game files from pack archives and a loose
// directory, with an in-memory cache on top.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mechanicchickendev/froggi/pkg/pack"
)

// Library loads asset bytes by relative path. Packs are searched in
// reverse mount order, then the loose directory. Loose files win over
// packs so local edits show up without repacking.
type Library struct {
	mu       sync.RWMutex
	dir      string
	archives []*pack.Archive
	cache    *Cache
}

// NewLibrary creates a library over a loose-file directory. An empty
// dir disables loose lookups.
func NewLibrary(dir string) *Library {
	return &Library{
		dir:   dir,
		cache: NewCache(),
	}
}

// AddPack mounts a pack archive. Later mounts take priority.
func (l *Library) AddPack(path string) error {
	a, err := pack.Open(path)
	if err != nil {
		return fmt.Errorf("mounting pack %s: %w", path, err)
	}

	l.mu.Lock()
	l.archives = append(l.archives, a)
	l.mu.Unlock()
	return nil
}

// Load returns the bytes of an asset by relative path.
func (l *Library) Load(path string) ([]byte, error) {
	path = pack.NormalizePath(path)
	if data, ok := l.cache.Get(path); ok {
		return data, nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.dir != "" {
		data, err := os.ReadFile(filepath.Join(l.dir, filepath.FromSlash(path)))
		if err == nil {
			l.cache.Set(path, data)
			return data, nil
		}
	}
	for i := len(l.archives) - 1; i >= 0; i-- {
		data, err := l.archives[i].Read(path)
		if err == nil {
			l.cache.Set(path, data)
			return data, nil
		}
	}
	return nil, fmt.Errorf("asset not found: %s", path)
}

// Exists reports whether an asset can be loaded.
func (l *Library) Exists(path string) bool {
	path = pack.NormalizePath(path)
	if _, ok := l.cache.Get(path); ok {
		return true
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.dir != "" {
		if _, err := os.Stat(filepath.Join(l.dir, filepath.FromSlash(path))); err == nil {
			return true
		}
	}
	for _, a := range l.archives {
		if a.Contains(path) {
			return true
		}
	}
	return false
}

// Close unmounts all packs and drops the cache.
func (l *Library) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, a := range l.archives {
		a.Close()
	}
	l.archives = nil
	l.cache.Clear()
}

// Cache is a byte cache keyed by asset path.
type Cache struct {
	mu   sync.RWMutex
	data map[string][]byte

	hits   int
	misses int
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{data: make(map[string][]byte)}
}

// Get retrieves a cached asset.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an asset.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear drops all entries and resets the counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns hit and miss counts.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
