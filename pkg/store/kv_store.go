package store

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const activeFileName = "active.data"

// KVStore is a Bitcask-style key-value store: an append-only log on disk
// and an in-memory hash index pointing at the latest record of each key.
type KVStore struct {
	config   KVStoreConfig
	writer   *LogWriter
	reader   *LogReader
	index    *HashIndex
	dataFile string
	lock     *dirLock
	mutex    sync.Mutex
	isOpen   bool
}

// NewKVStore creates a new key-value store instance
func NewKVStore(config KVStoreConfig) (*KVStore, error) {
	if err := os.MkdirAll(config.DataDir, 0750); err != nil {
		return nil, err
	}

	return &KVStore{
		config:   config,
		dataFile: filepath.Join(config.DataDir, activeFileName),
		index:    NewHashIndex(),
	}, nil
}

// Open locks the data directory, validates the log, truncates a torn tail
// and rebuilds the index. A directory held by another open store fails
// with ErrLocked.
func (kv *KVStore) Open() (_ *RecoveryResult, err error) {
	kv.mutex.Lock()
	defer kv.mutex.Unlock()

	if kv.isOpen {
		return &RecoveryResult{}, nil
	}

	lock, err := lockDir(kv.config.DataDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = lock.release()
		}
	}()

	recovery, err := kv.recover()
	if err != nil {
		return nil, err
	}

	writer, err := NewLogWriter(LogWriterConfig{
		FilePath:      kv.dataFile,
		FsyncInterval: kv.config.FsyncInterval,
		BufferSize:    64 * 1024,
	})
	if err != nil {
		return nil, err
	}

	reader, err := NewLogReader(LogReaderConfig{FilePath: kv.dataFile})
	if err != nil {
		_ = writer.Close()
		return nil, err
	}

	if err := kv.index.BuildFromLog(reader); err != nil {
		_ = reader.Close()
		_ = writer.Close()
		return nil, err
	}

	kv.writer = writer
	kv.reader = reader
	kv.lock = lock
	kv.isOpen = true
	return recovery, nil
}

// Get retrieves the value for a key
func (kv *KVStore) Get(key []byte) ([]byte, error) {
	kv.mutex.Lock()
	defer kv.mutex.Unlock()

	if !kv.isOpen {
		return nil, ErrClosed
	}

	entry, exists := kv.index.Get(key)
	if !exists {
		return nil, ErrKeyNotFound
	}

	record, err := kv.reader.ReadAt(entry.Offset)
	if err != nil {
		return nil, err
	}
	return record.Value, nil
}

// Put stores a key-value pair
func (kv *KVStore) Put(key, value []byte) error {
	kv.mutex.Lock()
	defer kv.mutex.Unlock()

	if !kv.isOpen {
		return ErrClosed
	}
	if len(key) == 0 {
		return ErrInvalidKey
	}

	record := newRecord(key, value, false)
	offset, err := kv.writer.Append(record)
	if err != nil {
		return err
	}

	kv.index.Put(key, IndexEntry{
		Offset:    offset,
		Size:      uint32(record.Size()),
		Timestamp: record.Timestamp,
	})
	return nil
}

// Delete appends a tombstone for key. Deleting an absent key returns
// ErrKeyNotFound and writes nothing.
func (kv *KVStore) Delete(key []byte) error {
	kv.mutex.Lock()
	defer kv.mutex.Unlock()

	if !kv.isOpen {
		return ErrClosed
	}
	if len(key) == 0 {
		return ErrInvalidKey
	}
	if _, exists := kv.index.Get(key); !exists {
		return ErrKeyNotFound
	}

	if _, err := kv.writer.Append(newRecord(key, nil, true)); err != nil {
		return err
	}
	kv.index.Delete(key)
	return nil
}

// Sync flushes and fsyncs the active file
func (kv *KVStore) Sync() error {
	kv.mutex.Lock()
	defer kv.mutex.Unlock()

	if !kv.isOpen {
		return ErrClosed
	}
	return kv.writer.Sync()
}

// Close shuts down the store
func (kv *KVStore) Close() error {
	kv.mutex.Lock()
	defer kv.mutex.Unlock()

	if !kv.isOpen {
		return nil
	}
	kv.isOpen = false

	writerErr := kv.writer.Close()
	readerErr := kv.reader.Close()
	lockErr := kv.lock.release()
	kv.lock = nil
	return errors.Join(writerErr, readerErr, lockErr)
}

// Stats returns store statistics
func (kv *KVStore) Stats() *StoreStats {
	kv.mutex.Lock()
	defer kv.mutex.Unlock()

	if !kv.isOpen {
		return &StoreStats{}
	}
	return &StoreStats{
		Keys:     kv.index.Size(),
		DataSize: kv.writer.Size(),
		DataFile: kv.writer.Path(),
	}
}

// recover scans the log and truncates it after the last intact record.
func (kv *KVStore) recover() (*RecoveryResult, error) {
	start := time.Now()
	result := &RecoveryResult{}

	info, err := os.Stat(kv.dataFile)
	if os.IsNotExist(err) {
		result.RecoveryTime = time.Since(start)
		return result, nil
	}
	if err != nil {
		return nil, err
	}
	result.FileSizeBefore = info.Size()
	result.FileSizeAfter = info.Size()

	reader, err := NewLogReader(LogReaderConfig{FilePath: kv.dataFile})
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var lastValid int64
	for {
		_, err := reader.ReadNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, ErrCorruption) {
			result.RecordsTruncated = 1
			break
		}
		if err != nil {
			return nil, err
		}
		result.RecordsValidated++
		lastValid = reader.Offset()
	}

	if result.RecordsTruncated > 0 {
		if err := os.Truncate(kv.dataFile, lastValid); err != nil {
			return nil, err
		}
		result.FileSizeAfter = lastValid
	}

	result.RecoveryTime = time.Since(start)
	return result, nil
}
