// Package engine exposes a storage backend as the record store's engine: a
// u64-keyed value map with bounded value slots plus one persisted counter
// cell.
package engine

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ssargent/eventstore/pkg/storage"
)

// DefaultSlotSize is the largest value Insert accepts unless configured otherwise.
const DefaultSlotSize = 1024

const recordPrefix = "r/"

var counterKey = []byte("m/id_counter")

var (
	ErrValueTooLarge = errors.New("engine: value exceeds slot size")
	ErrCorruptCell   = errors.New("engine: counter cell is corrupted")
)

// Engine maps u64 keys to byte values on top of a storage.KV
type Engine struct {
	kv       storage.KV
	slotSize int
	counter  *Cell
}

// New wraps kv. slotSize <= 0 selects DefaultSlotSize.
func New(kv storage.KV, slotSize int) *Engine {
	if slotSize <= 0 {
		slotSize = DefaultSlotSize
	}
	return &Engine{
		kv:       kv,
		slotSize: slotSize,
		counter:  &Cell{kv: kv, key: counterKey},
	}
}

// SlotSize returns the maximum value length accepted by Insert
func (e *Engine) SlotSize() int {
	return e.slotSize
}

// Get returns the value stored under key
func (e *Engine) Get(key uint64) ([]byte, bool, error) {
	value, found, err := e.kv.Get(recordKey(key))
	if err != nil {
		return nil, false, fmt.Errorf("engine get %d: %w", key, err)
	}
	return value, found, nil
}

// Insert stores value under key, replacing any previous value
func (e *Engine) Insert(key uint64, value []byte) error {
	if len(value) > e.slotSize {
		return fmt.Errorf("%w: %d > %d bytes", ErrValueTooLarge, len(value), e.slotSize)
	}
	if err := e.kv.Set(recordKey(key), value); err != nil {
		return fmt.Errorf("engine insert %d: %w", key, err)
	}
	return nil
}

// Remove deletes key and returns the value it held
func (e *Engine) Remove(key uint64) ([]byte, bool, error) {
	value, found, err := e.Get(key)
	if err != nil || !found {
		return nil, false, err
	}
	if err := e.kv.Delete(recordKey(key)); err != nil {
		return nil, false, fmt.Errorf("engine remove %d: %w", key, err)
	}
	return value, true, nil
}

// Counter returns the persisted counter cell
func (e *Engine) Counter() *Cell {
	return e.counter
}

// Close closes the underlying backend
func (e *Engine) Close() error {
	return e.kv.Close()
}

// recordKey uses big-endian so backend key order matches numeric order
func recordKey(id uint64) []byte {
	key := make([]byte, len(recordPrefix)+8)
	copy(key, recordPrefix)
	binary.BigEndian.PutUint64(key[len(recordPrefix):], id)
	return key
}

// Cell is a single persisted uint64. An unset cell reads as 0.
type Cell struct {
	kv  storage.KV
	key []byte
}

// Get reads the current value
func (c *Cell) Get() (uint64, error) {
	raw, found, err := c.kv.Get(c.key)
	if err != nil {
		return 0, fmt.Errorf("read counter: %w", err)
	}
	if !found {
		return 0, nil
	}
	if len(raw) != 8 {
		return 0, fmt.Errorf("%w: %d bytes", ErrCorruptCell, len(raw))
	}
	return binary.BigEndian.Uint64(raw), nil
}

// Set persists v
func (c *Cell) Set(v uint64) error {
	if err := c.kv.Set(c.key, binary.BigEndian.AppendUint64(nil, v)); err != nil {
		return fmt.Errorf("write counter: %w", err)
	}
	return nil
}
