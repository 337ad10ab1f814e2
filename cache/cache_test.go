package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyHashStableUnderParamOrdering(t *testing.T) {
	k1 := Key{CacheType: TypeParse, FilePath: "a.bsl", ContentHash: "h", Params: map[string]string{"a": "1", "b": "2"}}
	k2 := Key{CacheType: TypeParse, FilePath: "a.bsl", ContentHash: "h", Params: map[string]string{"b": "2", "a": "1"}}
	assert.Equal(t, k1.Hash(), k2.Hash())
}

func TestKeyHashDiffersOnFilePath(t *testing.T) {
	k1 := Key{CacheType: TypeParse, FilePath: "a.bsl", ContentHash: "h"}
	k2 := Key{CacheType: TypeParse, FilePath: "b.bsl", ContentHash: "h"}
	assert.NotEqual(t, k1.Hash(), k2.Hash())
}

func TestSetThenGetRoundTrips(t *testing.T) {
	c, err := Open(DefaultOptions())
	require.NoError(t, err)

	key := Key{CacheType: TypeParse, FilePath: "a.bsl", ContentHash: "h1"}
	c.Set(key, Value{DataType: "ast", Data: []byte("payload")})

	v, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), v.Data)
}

func TestGetMissWithoutSet(t *testing.T) {
	c, err := Open(DefaultOptions())
	require.NoError(t, err)

	_, ok := c.Get(Key{CacheType: TypeParse, FilePath: "missing.bsl", ContentHash: "h"})
	assert.False(t, ok)
}

func TestInvalidateFileRemovesSubsequentGets(t *testing.T) {
	c, err := Open(DefaultOptions())
	require.NoError(t, err)

	key := Key{CacheType: TypeSemantic, FilePath: "a.bsl", ContentHash: "h1"}
	c.Set(key, Value{Data: []byte("x")})
	_, ok := c.Get(key)
	require.True(t, ok)

	require.NoError(t, c.InvalidateFile("a.bsl"))
	_, ok = c.Get(key)
	assert.False(t, ok)
}

func TestInvalidateFileCascadesToDependentsStillInLRU(t *testing.T) {
	c, err := Open(DefaultOptions())
	require.NoError(t, err)

	depKey := Key{CacheType: TypeSemantic, FilePath: "b.bsl", ContentHash: "h1"}
	c.Set(depKey, Value{Data: []byte("x"), Dependencies: []string{"a.bsl"}})
	_, ok := c.Get(depKey)
	require.True(t, ok)

	require.NoError(t, c.InvalidateFile("a.bsl"))
	_, ok = c.Get(depKey)
	assert.False(t, ok, "entry depending on a.bsl must be dropped from the LRU, not just the persistent tier")
}

func TestLRUEvictsUnderEntryCap(t *testing.T) {
	c, err := Open(Options{MaxEntries: 2, MaxBytes: 1 << 20})
	require.NoError(t, err)

	c.Set(Key{CacheType: TypeParse, FilePath: "a.bsl", ContentHash: "1"}, Value{Data: []byte("a")})
	c.Set(Key{CacheType: TypeParse, FilePath: "b.bsl", ContentHash: "2"}, Value{Data: []byte("b")})
	c.Set(Key{CacheType: TypeParse, FilePath: "c.bsl", ContentHash: "3"}, Value{Data: []byte("c")})

	assert.LessOrEqual(t, c.Len(), 2)
	_, ok := c.Get(Key{CacheType: TypeParse, FilePath: "a.bsl", ContentHash: "1"})
	assert.False(t, ok, "oldest entry should have been evicted")
}

func TestStatsTrackHitsAndMisses(t *testing.T) {
	c, err := Open(DefaultOptions())
	require.NoError(t, err)

	key := Key{CacheType: TypeParse, FilePath: "a.bsl", ContentHash: "1"}
	c.Set(key, Value{Data: []byte("x")})
	c.Get(key)
	c.Get(Key{CacheType: TypeParse, FilePath: "missing.bsl", ContentHash: "z"})

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.InDelta(t, 0.5, stats.HitRate(), 0.001)
}

func TestExpiredEntryTreatedAsMiss(t *testing.T) {
	c, err := Open(Options{MaxEntries: 10, MaxBytes: 1 << 20, TTL: time.Nanosecond})
	require.NoError(t, err)

	key := Key{CacheType: TypeParse, FilePath: "a.bsl", ContentHash: "1"}
	c.Set(key, Value{Data: []byte("x")})
	time.Sleep(time.Millisecond)

	_, ok := c.Get(key)
	assert.False(t, ok)
}

func TestDetectCyclesFindsSimpleCycle(t *testing.T) {
	deps := map[string][]string{
		"a.bsl": {"b.bsl"},
		"b.bsl": {"c.bsl"},
		"c.bsl": {"a.bsl"},
	}
	cycle := DetectCycles(deps)
	assert.NotEmpty(t, cycle)
}

func TestPersistentTierSurvivesLRUEviction(t *testing.T) {
	dbPath := t.TempDir() + "/cache.db"
	c, err := Open(Options{MaxEntries: 1, MaxBytes: 1 << 20, PersistPath: dbPath})
	require.NoError(t, err)

	key1 := Key{CacheType: TypeParse, FilePath: "a.bsl", ContentHash: "1"}
	key2 := Key{CacheType: TypeParse, FilePath: "b.bsl", ContentHash: "2"}
	c.Set(key1, Value{DataType: "ast", Data: []byte("alpha")})
	c.Set(key2, Value{DataType: "ast", Data: []byte("beta")})

	// key1 was evicted from the LRU by the entry cap, but should still be
	// recoverable from the persistent tier.
	v, ok := c.Get(key1)
	require.True(t, ok)
	assert.Equal(t, []byte("alpha"), v.Data)
}

func TestDetectCyclesAcyclicGraph(t *testing.T) {
	deps := map[string][]string{
		"a.bsl": {"b.bsl"},
		"b.bsl": {"c.bsl"},
		"c.bsl": {},
	}
	cycle := DetectCycles(deps)
	assert.Empty(t, cycle)
}
