package storage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ssargent/eventstore/pkg/store"
)

// asyncFsyncInterval is used by the log backend when sync writes are off
const asyncFsyncInterval = time.Second

// LogKV runs on the append-only log store
type LogKV struct {
	kv *store.KVStore
}

// OpenLog opens (and recovers) the append-only log under dir. Recovery
// findings go to logger; nil discards them.
func OpenLog(dir string, syncWrites bool, logger *slog.Logger) (*LogKV, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	cfg := store.KVStoreConfig{DataDir: dir}
	if !syncWrites {
		cfg.FsyncInterval = asyncFsyncInterval
	}

	kv, err := store.NewKVStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create log store: %w", err)
	}
	recovery, err := kv.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open log store: %w", err)
	}

	if recovery.RecordsTruncated > 0 {
		logger.Warn("log store truncated a torn tail",
			"dir", dir,
			"records_validated", recovery.RecordsValidated,
			"size_before", recovery.FileSizeBefore,
			"size_after", recovery.FileSizeAfter,
			"recovery_time", recovery.RecoveryTime)
	}

	l := &LogKV{kv: kv}
	stats := l.Stats()
	logger.Debug("log store opened",
		"data_file", stats.DataFile,
		"keys", stats.Keys,
		"data_size", stats.DataSize)
	return l, nil
}

func (l *LogKV) Get(key []byte) ([]byte, bool, error) {
	value, err := l.kv.Get(key)
	if errors.Is(err, store.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (l *LogKV) Set(key, value []byte) error {
	return l.kv.Put(key, value)
}

func (l *LogKV) Delete(key []byte) error {
	if err := l.kv.Delete(key); err != nil && !errors.Is(err, store.ErrKeyNotFound) {
		return err
	}
	return nil
}

func (l *LogKV) Close() error {
	return l.kv.Close()
}

// Stats exposes the underlying log statistics
func (l *LogKV) Stats() *store.StoreStats {
	return l.kv.Stats()
}
