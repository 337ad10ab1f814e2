package core

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// AtomicWriteConfig controls atomic writing behavior.
type AtomicWriteConfig struct {
	UseFsync       bool   // Force fsync for durability
	TempSuffix     string // Suffix for temporary files
	BackupOriginal bool   // Create a backup before overwriting an existing file
}

// DefaultAtomicConfig provides sensible defaults.
func DefaultAtomicConfig() AtomicWriteConfig {
	return AtomicWriteConfig{
		UseFsync:       false,
		TempSuffix:     ".bslanalyzer.tmp",
		BackupOriginal: false,
	}
}

// AtomicWriter writes files via a temp-file-then-rename so a reader never
// observes a partially written chunk. The file tier is safe for
// single-process use only: concurrent processes must coordinate externally,
// so locking here only guards against two goroutines in this process
// racing on the same path.
type AtomicWriter struct {
	config AtomicWriteConfig
	locks  map[string]*sync.Mutex
	mu     sync.Mutex
}

// NewAtomicWriter creates a new atomic writer.
func NewAtomicWriter(config AtomicWriteConfig) *AtomicWriter {
	return &AtomicWriter{
		config: config,
		locks:  make(map[string]*sync.Mutex),
	}
}

// WriteFile atomically writes content to path.
func (aw *AtomicWriter) WriteFile(path, content string) error {
	lock := aw.lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	originalInfo, err := os.Stat(path)
	var fileMode os.FileMode = 0o644
	if err == nil {
		fileMode = originalInfo.Mode()
	}

	if aw.config.BackupOriginal && err == nil {
		if err := aw.createBackup(path); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	tempPath := path + aw.config.TempSuffix
	tempFile, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fileMode)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tempFile.WriteString(content); err != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write content: %w", err)
	}

	if aw.config.UseFsync {
		if err := tempFile.Sync(); err != nil {
			tempFile.Close()
			os.Remove(tempPath)
			return fmt.Errorf("failed to sync: %w", err)
		}
	}

	tempFile.Close()

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to atomic rename: %w", err)
	}

	return nil
}

func (aw *AtomicWriter) lockFor(path string) *sync.Mutex {
	aw.mu.Lock()
	defer aw.mu.Unlock()
	lock, ok := aw.locks[path]
	if !ok {
		lock = &sync.Mutex{}
		aw.locks[path] = lock
	}
	return lock
}

// createBackup writes a timestamped copy of the existing file at path.
func (aw *AtomicWriter) createBackup(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	timestamp := time.Now().Format("20060102-150405")
	backupPath := fmt.Sprintf("%s.bak.%s", path, timestamp)

	perm := info.Mode().Perm()
	if perm == 0 {
		perm = 0o644
	}

	return os.WriteFile(backupPath, content, perm)
}
