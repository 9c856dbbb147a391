package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erraggy/restmap/registry"
	"github.com/erraggy/restmap/schema"
)

// schemaInput represents the two ways a resource schema document can be provided
// to a tool. Exactly one of File or Content must be set.
type schemaInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a YAML or JSON resource schema document on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline resource schema document (YAML or JSON)"`
}

// loadedSchema is a parsed schema document with its hypermedia specs registered
// into a private, frozen registry.
type loadedSchema struct {
	catalog  *schema.Catalog
	registry *registry.Registry
}

// spec returns the named spec or an error listing what the document declares.
func (l *loadedSchema) spec(name string) (*schema.Spec, error) {
	if s, ok := l.catalog.Get(name); ok {
		return s, nil
	}
	names := make([]string, 0, len(l.catalog.Specs()))
	for _, s := range l.catalog.Specs() {
		names = append(names, s.Name)
	}
	return nil, fmt.Errorf("unknown resource %q (declared: %v)", name, names)
}

// cacheEntry holds a cached schema with LRU ordering and TTL expiry.
type cacheEntry struct {
	result    *loadedSchema
	insertAt  time.Time
	expiresAt time.Time
}

// schemaCacheStore provides a session-scoped cache for loaded schemas.
// File inputs are keyed by (absolutePath, modTime). Content inputs are keyed
// by a SHA-256 hash.
type schemaCacheStore struct {
	mu             sync.Mutex
	entries        map[string]*cacheEntry
	maxSize        int
	sweeperStarted atomic.Bool
}

var schemaCache = &schemaCacheStore{
	entries: make(map[string]*cacheEntry),
	maxSize: cfg.CacheMaxSize,
}

// get returns a cached result or nil. Expired entries are lazily removed.
func (c *schemaCacheStore) get(key string) *loadedSchema {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		if time.Now().After(e.expiresAt) {
			delete(c.entries, key)
			return nil
		}
		e.insertAt = time.Now()
		return e.result
	}
	return nil
}

// put stores a result, evicting the least recently used entry if at capacity.
func (c *schemaCacheStore) put(key string, result *loadedSchema, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entry := &cacheEntry{result: result, insertAt: now, expiresAt: now.Add(ttl)}
	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxSize {
		var oldestKey string
		var oldestTime time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.insertAt.Before(oldestTime) {
				oldestKey = k
				oldestTime = e.insertAt
			}
		}
		delete(c.entries, oldestKey)
	}
	c.entries[key] = entry
}

// sweep removes all expired entries from the cache.
func (c *schemaCacheStore) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// startSweeper launches a goroutine that periodically removes expired entries
// until ctx is cancelled. Only the first call spawns a sweeper.
func (c *schemaCacheStore) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 || !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

// reset clears all cached entries. Used in tests.
func (c *schemaCacheStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// size returns the number of cached entries.
func (c *schemaCacheStore) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cacheKey returns the cache key and TTL for s, or "" when it cannot be cached.
func (s schemaInput) cacheKey() (string, time.Duration) {
	switch {
	case s.File != "":
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return "", 0
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return "", 0
		}
		return fmt.Sprintf("file:%s:%d", absPath, info.ModTime().UnixNano()), cfg.CacheFileTTL
	case s.Content != "":
		h := sha256.Sum256([]byte(s.Content))
		return "content:" + hex.EncodeToString(h[:]), cfg.CacheContentTTL
	default:
		return "", 0
	}
}

// resolve loads the schema from whichever input was provided, using the cache.
func (s schemaInput) resolve() (*loadedSchema, error) {
	if (s.File == "") == (s.Content == "") {
		return nil, fmt.Errorf("exactly one of file or content must be provided")
	}
	if int64(len(s.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set RESTMAP_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}

	var key string
	var ttl time.Duration
	if cfg.CacheEnabled {
		key, ttl = s.cacheKey()
		if key != "" {
			if cached := schemaCache.get(key); cached != nil {
				return cached, nil
			}
		}
	}

	var (
		cat *schema.Catalog
		err error
	)
	if s.File != "" {
		cat, err = schema.LoadFile(s.File)
	} else {
		cat, err = schema.Parse([]byte(s.Content))
	}
	if err != nil {
		return nil, err
	}

	reg := registry.New()
	if err := reg.RegisterAll(cat.Hypermedia()...); err != nil {
		return nil, err
	}
	reg.Freeze()

	loaded := &loadedSchema{catalog: cat, registry: reg}
	if key != "" {
		schemaCache.put(key, loaded, ttl)
	}
	return loaded, nil
}
