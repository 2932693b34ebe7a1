package storage

import (
	"bytes"

	"github.com/ssargent/eventstore/pkg/bptree"
)

const memoryTreeOrder = 32

// MemoryKV keeps everything in a B+Tree. Nothing survives the process.
type MemoryKV struct {
	tree *bptree.BPlusTree[string, []byte]
}

// NewMemory creates an empty in-memory backend
func NewMemory() *MemoryKV {
	return &MemoryKV{tree: bptree.NewBPlusTree[string, []byte](memoryTreeOrder)}
}

func (m *MemoryKV) Get(key []byte) ([]byte, bool, error) {
	value, ok := m.tree.Search(string(key))
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(value), true, nil
}

func (m *MemoryKV) Set(key, value []byte) error {
	m.tree.Insert(string(key), bytes.Clone(value))
	return nil
}

func (m *MemoryKV) Delete(key []byte) error {
	m.tree.Delete(string(key))
	return nil
}

func (m *MemoryKV) Close() error {
	return nil
}

// Len returns the number of stored keys
func (m *MemoryKV) Len() int {
	return m.tree.Len()
}
