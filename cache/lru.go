package cache

import (
	"container/list"
	"time"
)

// entry is the value stored at each LRU list node: the logical cache key
// hash, the file path the entry belongs to (for path-based invalidation),
// the opaque payload, and its byte size for capacity accounting.
type entry struct {
	keyHash  string
	filePath string
	value    Value
	size     int64
}

// Stats aggregates cache activity (spec §4.L). Supplements the baseline
// spec with get_operations tracked separately from hits+misses, carried
// over from the Rust original's CacheStats.
type Stats struct {
	TotalRequests int64
	Hits          int64
	Misses        int64
	Writes        int64
	Evictions     int64
	CurrentBytes  int64
	TimeSavedMs   int64
}

// HitRate returns Hits/TotalRequests, or 0 when no requests have been made.
func (s Stats) HitRate() float64 {
	if s.TotalRequests == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.TotalRequests)
}

// lru is a capacity- and byte-bounded least-recently-used cache, backed by
// Go's container/list doubly-linked list fronted by a hash map for O(1)
// get/put/touch/pop-lru (spec §4.L), ported from the original's
// hand-rolled intrusive doubly-linked-list implementation.
type lru struct {
	maxEntries int
	maxBytes   int64
	ll         *list.List
	items      map[string]*list.Element
	stats      Stats
}

func newLRU(maxEntries int, maxBytes int64) *lru {
	return &lru{
		maxEntries: maxEntries,
		maxBytes:   maxBytes,
		ll:         list.New(),
		items:      make(map[string]*list.Element),
	}
}

// get returns the value for keyHash and moves it to the front (most
// recently used), recording a hit or miss in stats. The returned value
// carries the previous accessed-at time, so the caller can check expiry;
// the stored entry's accessed-at is then refreshed.
func (c *lru) get(keyHash string) (Value, bool) {
	c.stats.TotalRequests++
	el, ok := c.items[keyHash]
	if !ok {
		c.stats.Misses++
		return Value{}, false
	}
	c.ll.MoveToFront(el)
	c.stats.Hits++
	ent := el.Value.(*entry)
	v := ent.value
	ent.value.AccessedAt = time.Now()
	return v, true
}

// put inserts or updates keyHash, evicting from the tail until the cache
// is back within maxBytes/maxEntries (spec §4.L: evict until current_bytes
// <= 0.8*max_bytes).
func (c *lru) put(keyHash, filePath string, value Value, size int64) {
	c.stats.Writes++
	if el, ok := c.items[keyHash]; ok {
		ent := el.Value.(*entry)
		c.stats.CurrentBytes += size - ent.size
		ent.value = value
		ent.size = size
		ent.filePath = filePath
		c.ll.MoveToFront(el)
		return
	}

	ent := &entry{keyHash: keyHash, filePath: filePath, value: value, size: size}
	el := c.ll.PushFront(ent)
	c.items[keyHash] = el
	c.stats.CurrentBytes += size

	threshold := int64(float64(c.maxBytes) * 0.8)
	for (c.maxBytes > 0 && c.stats.CurrentBytes > threshold) || (c.maxEntries > 0 && c.ll.Len() > c.maxEntries) {
		if !c.evictOldest() {
			break
		}
	}
}

func (c *lru) evictOldest() bool {
	tail := c.ll.Back()
	if tail == nil {
		return false
	}
	c.removeElement(tail)
	c.stats.Evictions++
	return true
}

// pop removes keyHash unconditionally, returning its value if present.
func (c *lru) pop(keyHash string) (Value, bool) {
	el, ok := c.items[keyHash]
	if !ok {
		return Value{}, false
	}
	ent := el.Value.(*entry)
	c.removeElement(el)
	return ent.value, true
}

func (c *lru) removeElement(el *list.Element) {
	ent := el.Value.(*entry)
	c.ll.Remove(el)
	delete(c.items, ent.keyHash)
	c.stats.CurrentBytes -= ent.size
}

// invalidatePath removes every entry whose filePath equals path, plus every
// entry whose recorded dependency list contains path (spec §4.L dependency
// cascade), returning how many were removed.
func (c *lru) invalidatePath(path string) int {
	var toRemove []*list.Element
	for el := c.ll.Front(); el != nil; el = el.Next() {
		ent := el.Value.(*entry)
		if ent.filePath == path || dependsOn(ent.value.Dependencies, path) {
			toRemove = append(toRemove, el)
		}
	}
	for _, el := range toRemove {
		c.removeElement(el)
	}
	return len(toRemove)
}

func dependsOn(deps []string, path string) bool {
	for _, d := range deps {
		if d == path {
			return true
		}
	}
	return false
}

func (c *lru) len() int {
	return c.ll.Len()
}

func (c *lru) clear() {
	c.ll.Init()
	c.items = make(map[string]*list.Element)
	c.stats.CurrentBytes = 0
}
