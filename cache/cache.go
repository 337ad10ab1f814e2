// Package cache implements the two-tier analysis cache (spec §4.L): an
// in-memory LRU fronting an optional SQLite-backed persistent tier,
// content-hash keying, TTL expiry, and path-based invalidation that
// cascades to dependents.
package cache

import (
	"fmt"
	"log"
	"sort"
	"time"
)

const (
	// DefaultAnalysisTTL is the default expiry for analysis-result entries.
	DefaultAnalysisTTL = time.Hour
	// DefaultFileTTL is the default expiry for the generic file cache.
	DefaultFileTTL = 24 * time.Hour
)

// Options configures a Cache.
type Options struct {
	MaxEntries  int
	MaxBytes    int64
	PersistPath string // empty disables the persistent tier
	Compress    bool
	TTL         time.Duration
}

// DefaultOptions returns sane defaults: 10,000 entries, 64MB, one-hour
// TTL, gzip compression on, no persistent tier (callers opt in with a
// path).
func DefaultOptions() Options {
	return Options{
		MaxEntries: 10_000,
		MaxBytes:   64 << 20,
		Compress:   true,
		TTL:        DefaultAnalysisTTL,
	}
}

// Cache is the analysis result cache: LRU-first, with an optional
// persistent tier consulted on miss (spec §4.L "Get"/"Set").
type Cache struct {
	opts       Options
	lru        *lru
	persistent *persistentTier
}

// Open constructs a Cache from opts. If opts.PersistPath is set, the
// persistent tier is opened (and its directory created if needed); a
// failure to open it is returned to the caller, since an explicitly
// requested persistent tier that can't be opened is a configuration
// error, not a transient cache miss.
func Open(opts Options) (*Cache, error) {
	c := &Cache{
		opts: opts,
		lru:  newLRU(opts.MaxEntries, opts.MaxBytes),
	}
	if opts.PersistPath != "" {
		tier, err := openPersistentTier(opts.PersistPath, opts.Compress)
		if err != nil {
			return nil, err
		}
		c.persistent = tier
	}
	return c, nil
}

// Get implements spec §4.L: LRU first; on miss, consult the file tier and
// repopulate the LRU; on hit, update accessed-at.
func (c *Cache) Get(key Key) (Value, bool) {
	hash := key.Hash()
	if v, ok := c.lru.get(hash); ok {
		if c.expired(v) {
			c.lru.pop(hash)
			return Value{}, false
		}
		return v, true
	}
	if c.persistent == nil {
		return Value{}, false
	}
	v, ok := c.persistent.get(hash)
	if !ok {
		return Value{}, false
	}
	if c.expired(v) {
		return Value{}, false
	}
	v.AccessedAt = time.Now()
	c.lru.put(hash, key.FilePath, v, v.Size)
	return v, true
}

// Set implements spec §4.L "Set": insert into LRU (evicting as needed),
// then write through to the file tier; write-through errors are logged,
// never fatal.
func (c *Cache) Set(key Key, value Value) {
	hash := key.Hash()
	now := time.Now()
	if value.CreatedAt.IsZero() {
		value.CreatedAt = now
	}
	value.AccessedAt = now
	if value.Size == 0 {
		value.Size = int64(len(value.Data))
	}

	c.lru.put(hash, key.FilePath, value, value.Size)

	if c.persistent == nil {
		return
	}
	if err := c.persistent.set(hash, key.FilePath, key.ContentHash, value); err != nil {
		log.Printf("cache: write-through failed for %s: %v", key.FilePath, err)
	}
}

func (c *Cache) expired(v Value) bool {
	if c.opts.TTL <= 0 {
		return false
	}
	return time.Since(v.AccessedAt) > c.opts.TTL
}

// InvalidateFile removes every LRU entry whose FilePath equals path or
// whose dependency list mentions it, and every persistent-tier row whose
// file_path equals path or whose dependency list mentions it (spec §4.L
// "Invalidation").
func (c *Cache) InvalidateFile(path string) error {
	c.lru.invalidatePath(path)
	if c.persistent == nil {
		return nil
	}
	return c.persistent.invalidatePath(path)
}

// GarbageCollect scans the persistent tier for entries older than the
// configured TTL and removes them (spec §4.L "background garbage_collect").
func (c *Cache) GarbageCollect() (int64, error) {
	if c.persistent == nil {
		return 0, nil
	}
	ttl := c.opts.TTL
	if ttl <= 0 {
		ttl = DefaultAnalysisTTL
	}
	return c.persistent.garbageCollect(ttl)
}

// Stats returns the LRU tier's aggregated statistics.
func (c *Cache) Stats() Stats {
	return c.lru.stats
}

// Len returns the number of entries currently held in the LRU tier.
func (c *Cache) Len() int {
	return c.lru.len()
}

// Clear empties the LRU tier (the persistent tier, if any, is untouched;
// callers that want a full wipe should also remove its file).
func (c *Cache) Clear() {
	c.lru.clear()
}

// DetectCycles reports a dependency cycle in deps, a map from file path to
// the paths it depends on (supplemented feature, §9 / SPEC_FULL §5):
// informational-only, since cross-module data-flow is explicitly out of
// scope, but a cyclic dependency graph would otherwise silently break
// invalidation cascades.
func DetectCycles(deps map[string][]string) []string {
	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)
	state := make(map[string]int, len(deps))
	var cyclePath []string

	var visit func(node string, path []string) bool
	visit = func(node string, path []string) bool {
		state[node] = visiting
		path = append(path, node)
		for _, dep := range deps[node] {
			switch state[dep] {
			case visiting:
				cyclePath = append(append([]string{}, path...), dep)
				return true
			case unvisited:
				if visit(dep, path) {
					return true
				}
			}
		}
		state[node] = visited
		return false
	}

	nodes := make([]string, 0, len(deps))
	for node := range deps {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	for _, node := range nodes {
		if state[node] == unvisited {
			if visit(node, nil) {
				return cyclePath
			}
		}
	}
	return nil
}

// DescribeCycle renders a detected cycle as "a -> b -> c -> a" for a
// diagnostic/log message.
func DescribeCycle(cycle []string) string {
	if len(cycle) == 0 {
		return ""
	}
	out := cycle[0]
	for _, node := range cycle[1:] {
		out = fmt.Sprintf("%s -> %s", out, node)
	}
	return out
}
