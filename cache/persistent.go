package cache

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Entry is the GORM model backing the file tier's side-car metadata
// (spec §4.L): one row per cache key, keyed by the key's SHA-256 hex hash,
// with a content hash for §8's round-trip invariant and a compressed
// flag for the optional gzip tier.
type Entry struct {
	ID            string `gorm:"primaryKey;type:varchar(36)"`
	KeyHash       string `gorm:"type:varchar(64);uniqueIndex"`
	FilePath      string `gorm:"type:text;index"`
	DataType      string `gorm:"type:varchar(50)"`
	Payload       []byte `gorm:"type:blob"`
	Compressed    bool   `gorm:"default:false"`
	ContentHash   string `gorm:"type:varchar(64)"`
	SchemaVersion int    `gorm:"default:1"`
	Size          int64
	Dependencies  datatypes.JSON
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	AccessedAt    time.Time
}

// TableName keeps the table name stable regardless of struct renames.
func (Entry) TableName() string { return "cache_entries" }

// persistentTier is the optional on-disk file tier (spec §4.L): one
// serialized blob per cache key, backed by SQLite through GORM instead of
// the teacher's bare files, with an identical write-through/miss-on-
// corruption contract.
type persistentTier struct {
	db       *gorm.DB
	compress bool
}

// openPersistentTier opens (creating if needed) a SQLite-backed file tier
// at path, creating its parent directory and applying WAL and quick_check
// PRAGMAs.
func openPersistentTier(path string, compress bool) (*persistentTier, error) {
	if path != "" && path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Exec("PRAGMA journal_mode = WAL")
		sqlDB.Exec("PRAGMA quick_check")
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("cache migration failed: %w", err)
	}
	return &persistentTier{db: db, compress: compress}, nil
}

// get looks up keyHash; a missing or corrupt row is treated as a miss,
// never an error (spec §7 "Cache" error taxonomy).
func (t *persistentTier) get(keyHash string) (Value, bool) {
	var row Entry
	if err := t.db.Where("key_hash = ?", keyHash).First(&row).Error; err != nil {
		return Value{}, false
	}
	payload := row.Payload
	if row.Compressed {
		decoded, err := gunzip(payload)
		if err != nil {
			return Value{}, false
		}
		payload = decoded
	}
	lastAccess := row.AccessedAt
	t.db.Model(&Entry{}).Where("id = ?", row.ID).Update("accessed_at", time.Now())
	row.AccessedAt = lastAccess

	var deps []string
	if len(row.Dependencies) > 0 {
		_ = json.Unmarshal(row.Dependencies, &deps)
	}
	return Value{
		DataType:      row.DataType,
		Data:          payload,
		CreatedAt:     row.CreatedAt,
		AccessedAt:    row.AccessedAt,
		Size:          row.Size,
		SchemaVersion: row.SchemaVersion,
		Dependencies:  deps,
	}, true
}

// set writes value through to the file tier. Write failures are logged by
// the caller, never fatal (spec §4.L).
func (t *persistentTier) set(keyHash, filePath, contentHash string, value Value) error {
	payload := value.Data
	compressed := false
	if t.compress {
		gz, err := gzipBytes(payload)
		if err == nil && len(gz) < len(payload) {
			payload = gz
			compressed = true
		}
	}

	depsJSON, err := json.Marshal(value.Dependencies)
	if err != nil {
		return fmt.Errorf("failed to marshal cache dependencies: %w", err)
	}

	row := Entry{
		ID:            uuid.NewString(),
		KeyHash:       keyHash,
		FilePath:      filePath,
		DataType:      value.DataType,
		Payload:       payload,
		Compressed:    compressed,
		ContentHash:   contentHash,
		SchemaVersion: value.SchemaVersion,
		Size:          int64(len(payload)),
		Dependencies:  datatypes.JSON(depsJSON),
		AccessedAt:    time.Now(),
	}

	return t.db.Where("key_hash = ?", keyHash).Assign(row).FirstOrCreate(&Entry{}, "key_hash = ?", keyHash).Error
}

// invalidatePath removes every row whose file_path equals path, or whose
// dependencies list mentions it (the "semantic sub-cache" rule in §4.L).
func (t *persistentTier) invalidatePath(path string) error {
	if err := t.db.Where("file_path = ?", path).Delete(&Entry{}).Error; err != nil {
		return err
	}
	return t.db.Where("dependencies LIKE ?", "%"+path+"%").Delete(&Entry{}).Error
}

// garbageCollect deletes entries whose accessed_at is older than ttl.
func (t *persistentTier) garbageCollect(ttl time.Duration) (int64, error) {
	cutoff := time.Now().Add(-ttl)
	res := t.db.Where("accessed_at < ?", cutoff).Delete(&Entry{})
	return res.RowsAffected, res.Error
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gunzip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
