// Package records stores typed records in an engine, keyed by ID.
package records

import (
	"errors"
	"fmt"

	"github.com/ssargent/eventstore/pkg/codec"
)

// ErrCorruptRecord means a stored value could not be decoded. It signals a
// storage or codec defect; nothing is repaired automatically.
var ErrCorruptRecord = errors.New("records: corrupt record")

// Engine is the storage engine contract the store consumes
type Engine interface {
	Get(key uint64) ([]byte, bool, error)
	Insert(key uint64, value []byte) error
	Remove(key uint64) ([]byte, bool, error)
}

// Store is a durable ID -> T mapping
type Store[T any] struct {
	engine Engine
	codec  codec.Codec[T]
}

// New creates a store over engine using c for the on-disk representation
func New[T any](engine Engine, c codec.Codec[T]) *Store[T] {
	return &Store[T]{engine: engine, codec: c}
}

// Get returns the record stored under id
func (s *Store[T]) Get(id uint64) (T, bool, error) {
	var zero T

	raw, found, err := s.engine.Get(id)
	if err != nil || !found {
		return zero, false, err
	}
	return s.decode(id, raw)
}

// Put inserts or overwrites the record under id
func (s *Store[T]) Put(id uint64, v T) error {
	raw, err := s.codec.Encode(v)
	if err != nil {
		return fmt.Errorf("records: encode %d: %w", id, err)
	}
	return s.engine.Insert(id, raw)
}

// Remove deletes the record under id and returns what it held. A record
// that fails to decode is still removed; the error reports the corruption.
func (s *Store[T]) Remove(id uint64) (T, bool, error) {
	var zero T

	raw, found, err := s.engine.Remove(id)
	if err != nil || !found {
		return zero, false, err
	}
	return s.decode(id, raw)
}

func (s *Store[T]) decode(id uint64, raw []byte) (T, bool, error) {
	v, err := s.codec.Decode(raw)
	if err != nil {
		var zero T
		return zero, false, &CorruptError{ID: id, Err: err}
	}
	return v, true, nil
}

// CorruptError carries the ID of an undecodable record
type CorruptError struct {
	ID  uint64
	Err error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("records: corrupt record id=%d: %v", e.ID, e.Err)
}

func (e *CorruptError) Is(target error) bool {
	return target == ErrCorruptRecord
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}
