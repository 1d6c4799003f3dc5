package internal

import (
	"crypto/md5"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	tt "github.com/gnoswap-labs/aegraph/internal/types"
)

const (
	cacheFileName   = "proof_cache.gob"
	DefaultCacheAge = 24 * time.Hour
)

// CacheEntry holds the issues one proof script produced under one rule state.
type CacheEntry struct {
	Issues    []tt.Issue
	CreatedAt time.Time
}

// Cache keeps the issues found in proof scripts between runs. Entries are
// keyed by the script text and the rule state it was checked under, so an
// edited script or a different set of enabled rules or severities never
// reuses a result. Entries older than the maximum age are dropped.
type Cache struct {
	CacheDir string
	entries  map[string]CacheEntry
	mutex    sync.RWMutex
	maxAge   time.Duration
}

func NewCache(cacheDir string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	cache := &Cache{
		CacheDir: cacheDir,
		entries:  make(map[string]CacheEntry),
		maxAge:   DefaultCacheAge,
	}
	if err := cache.load(); err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}
	return cache, nil
}

// cacheKey identifies a replay: the same script text checked under the same
// rule state always yields the same issues.
func cacheKey(source []byte, ruleState string) string {
	h := md5.New()
	h.Write([]byte(ruleState))
	h.Write([]byte{0})
	h.Write(source)
	return fmt.Sprintf("%x", h.Sum(nil))
}

func (c *Cache) path() string {
	return filepath.Join(c.CacheDir, cacheFileName)
}

func (c *Cache) load() error {
	file, err := os.Open(c.path())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()

	if err := gob.NewDecoder(file).Decode(&c.entries); err != nil {
		return fmt.Errorf("failed to decode cache file: %w", err)
	}
	return nil
}

// save writes the live entries back, pruning expired ones.
func (c *Cache) save() error {
	for key, entry := range c.entries {
		if c.expired(entry) {
			delete(c.entries, key)
		}
	}

	file, err := os.Create(c.path())
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(c.entries); err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}
	return nil
}

func (c *Cache) expired(entry CacheEntry) bool {
	return c.maxAge > 0 && time.Since(entry.CreatedAt) > c.maxAge
}

// Set records the issues of source checked under ruleState.
func (c *Cache) Set(source []byte, ruleState string, issues []tt.Issue) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[cacheKey(source, ruleState)] = CacheEntry{
		Issues:    slices.Clone(issues),
		CreatedAt: time.Now(),
	}
	return c.save()
}

// Get returns a copy of the issues recorded for source under ruleState.
func (c *Cache) Get(source []byte, ruleState string) ([]tt.Issue, bool) {
	key := cacheKey(source, ruleState)

	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		return nil, false
	}
	if c.expired(entry) {
		delete(c.entries, key)
		return nil, false
	}
	return slices.Clone(entry.Issues), true
}

// Len returns the number of entries held, valid or not.
func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}

func (c *Cache) SetMaxAge(duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.maxAge = duration
}

func (c *Cache) InvalidateAll() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]CacheEntry)
	_ = c.save() // best effort
}
