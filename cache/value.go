package cache

import "time"

// Value is the opaque payload stored per cache key (spec §3 "Cache
// value"): a data-type tag, serialized bytes, and bookkeeping fields.
type Value struct {
	DataType      string
	Data          []byte
	CreatedAt     time.Time
	AccessedAt    time.Time
	Size          int64
	SchemaVersion int
	// Dependencies lists file paths this value's correctness depends on
	// (beyond its own FilePath); invalidating any of them must also
	// invalidate this entry (spec §4.L semantic sub-cache rule).
	Dependencies []string
}
