package store

import "time"

// IndexEntry represents the location of a live key in the log
type IndexEntry struct {
	Offset    int64  // Byte offset of the record within the file
	Size      uint32 // Size of the record in bytes
	Timestamp uint64 // Record timestamp
}

// LogWriterConfig holds configuration for the log writer
type LogWriterConfig struct {
	FilePath      string        // Path to the active data file
	FsyncInterval time.Duration // How often to fsync (0 = every write)
	BufferSize    int           // Write buffer size
}

// LogReaderConfig holds configuration for the log reader
type LogReaderConfig struct {
	FilePath    string // Path to the data file
	StartOffset int64  // Offset to start reading from
}

// KVStoreConfig holds configuration for the key-value store
type KVStoreConfig struct {
	DataDir       string        // Directory for data files
	FsyncInterval time.Duration // Fsync interval for durability
}

// RecoveryResult describes what Open found in the log
type RecoveryResult struct {
	RecordsValidated int64
	RecordsTruncated int64
	FileSizeBefore   int64
	FileSizeAfter    int64
	RecoveryTime     time.Duration
}

// StoreStats holds statistics about the store
type StoreStats struct {
	Keys     int
	DataSize int64
	DataFile string
}

// Errors
var (
	ErrKeyNotFound = &KVError{"key not found"}
	ErrInvalidKey  = &KVError{"invalid key"}
	ErrCorruption  = &KVError{"data corruption detected"}
	ErrClosed      = &KVError{"store is not open"}
	ErrLocked      = &KVError{"data directory is locked by another store"}
)

// KVError represents a key-value store error
type KVError struct {
	Message string
}

func (e *KVError) Error() string {
	return e.Message
}
