package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// Type enumerates what kind of result a cache entry holds (spec §3).
type Type string

const (
	TypeParse      Type = "parse"
	TypeSemantic   Type = "semantic"
	TypeDeps       Type = "deps"
	TypeCompletion Type = "completion"
	TypeMetadata   Type = "metadata"
	TypeDocsIndex  Type = "docs-index"
)

// CurrentSchemaVersion is folded into every cache key's hash so a binary
// upgrade that changes a result's shape invalidates stale entries
// transparently instead of serving them back mismatched.
const CurrentSchemaVersion = 1

// Key identifies one cache entry. Its hash covers (CacheType, FilePath,
// ContentHash, CurrentSchemaVersion); Params feed the content hash via
// their sorted k=v concatenation so logically equal keys always hash
// equally (spec §3 "Cache key" invariant).
type Key struct {
	CacheType   Type
	FilePath    string
	ContentHash string
	Params      map[string]string
}

// Hash renders a stable, collision-resistant string identity for k.
func (k Key) Hash() string {
	var b strings.Builder
	b.WriteString(string(k.CacheType))
	b.WriteByte('|')
	b.WriteString(k.FilePath)
	b.WriteByte('|')
	b.WriteString(k.ContentHash)
	if len(k.Params) > 0 {
		b.WriteByte('|')
		b.WriteString(sortedParams(k.Params))
	}
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(CurrentSchemaVersion))
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func sortedParams(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + params[k]
	}
	return strings.Join(parts, "&")
}

// ContentHash hashes file content to the string used as Key.ContentHash.
func ContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
