package store

import (
	"errors"
	"io"
	"sync"
)

// HashIndex maps live keys to their latest record in the log
type HashIndex struct {
	entries map[string]IndexEntry
	mutex   sync.RWMutex
}

// NewHashIndex creates a new hash index
func NewHashIndex() *HashIndex {
	return &HashIndex{
		entries: make(map[string]IndexEntry),
	}
}

// Put adds or updates an index entry for a key
func (idx *HashIndex) Put(key []byte, entry IndexEntry) {
	idx.mutex.Lock()
	defer idx.mutex.Unlock()
	idx.entries[string(key)] = entry
}

// Get retrieves the index entry for a key
func (idx *HashIndex) Get(key []byte) (IndexEntry, bool) {
	idx.mutex.RLock()
	defer idx.mutex.RUnlock()
	entry, exists := idx.entries[string(key)]
	return entry, exists
}

// Delete removes a key from the index
func (idx *HashIndex) Delete(key []byte) {
	idx.mutex.Lock()
	defer idx.mutex.Unlock()
	delete(idx.entries, string(key))
}

// Size returns the number of keys in the index
func (idx *HashIndex) Size() int {
	idx.mutex.RLock()
	defer idx.mutex.RUnlock()
	return len(idx.entries)
}

// BuildFromLog replays the log from the start. Later records win and
// tombstones drop their key.
func (idx *HashIndex) BuildFromLog(reader *LogReader) error {
	idx.mutex.Lock()
	defer idx.mutex.Unlock()

	idx.entries = make(map[string]IndexEntry)

	if err := reader.SeekTo(0); err != nil {
		return err
	}

	for {
		offset := reader.Offset()
		record, err := reader.ReadNext()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		key := string(record.Key)
		if record.Tombstone() {
			delete(idx.entries, key)
			continue
		}
		idx.entries[key] = IndexEntry{
			Offset:    offset,
			Size:      uint32(record.Size()),
			Timestamp: record.Timestamp,
		}
	}
}
