// Package idalloc mints unique, strictly increasing record IDs from a
// persisted counter.
package idalloc

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// ErrExhausted is returned once every uint64 ID has been handed out.
var ErrExhausted = errors.New("idalloc: id space exhausted")

// Cell is a persisted uint64. An unset cell reads as 0.
type Cell interface {
	Get() (uint64, error)
	Set(v uint64) error
}

// Allocator hands out IDs 0, 1, 2, ... The cell always holds the next ID
// to mint, so an ID is only returned after its successor has been persisted.
type Allocator struct {
	mu   sync.Mutex
	cell Cell
}

// New creates an allocator over cell
func New(cell Cell) *Allocator {
	return &Allocator{cell: cell}
}

// Next mints a new ID. If persisting the bumped counter fails, no ID is
// minted and the next call retries the same value.
func (a *Allocator) Next() (uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	current, err := a.cell.Get()
	if err != nil {
		return 0, fmt.Errorf("idalloc: %w", err)
	}
	if current == math.MaxUint64 {
		return 0, ErrExhausted
	}
	if err := a.cell.Set(current + 1); err != nil {
		return 0, fmt.Errorf("idalloc: %w", err)
	}
	return current, nil
}

// Peek returns the ID the next call to Next would mint
func (a *Allocator) Peek() (uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cell.Get()
}
