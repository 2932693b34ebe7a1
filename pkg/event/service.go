package event

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/ssargent/eventstore/pkg/engine"
	"github.com/ssargent/eventstore/pkg/idalloc"
	"github.com/ssargent/eventstore/pkg/records"
)

// Service is the CRUD entry point for events. One mutex serializes every
// operation so each runs to completion before the next starts.
type Service struct {
	mu      sync.Mutex
	ids     *idalloc.Allocator
	records *records.Store[Event]
	clock   Clock
	logger  *slog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the timestamp source
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithLogger sets the structured logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService builds the service on top of e. The caller owns e and closes it.
func NewService(e *engine.Engine, opts ...Option) *Service {
	s := &Service{
		ids:     idalloc.New(e.Counter()),
		records: records.New[Event](e, Codec{}),
		clock:   NewMonotonicClock(SystemClock()),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create mints a new ID and stores an event built from p
func (s *Service) Create(p Payload) (Event, error) {
	if err := p.Validate(); err != nil {
		return Event{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.ids.Next()
	if err != nil {
		return Event{}, fmt.Errorf("failed to allocate event id: %w", err)
	}

	e := Event{ID: id, CreatedAt: s.clock.Now()}
	p.apply(&e)

	if err := s.records.Put(id, e); err != nil {
		return Event{}, fmt.Errorf("failed to store event %d: %w", id, err)
	}

	s.logger.Info("event created", "id", e.ID, "title", e.Title)
	return e, nil
}

// NextID reports the ID the next Create will mint without consuming it
func (s *Service) NextID() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ids.Peek()
}

// Read returns the event stored under id
func (s *Service) Read(id uint64) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lookup(id)
}

// Update replaces every payload field of the event under id and stamps
// updated_at. ID and created_at never change.
func (s *Service) Update(id uint64, p Payload) (Event, error) {
	if err := p.Validate(); err != nil {
		return Event{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookup(id)
	if err != nil {
		return Event{}, err
	}

	p.apply(&e)
	now := max(s.clock.Now(), e.CreatedAt)
	if e.UpdatedAt != nil {
		now = max(now, *e.UpdatedAt)
	}
	e.UpdatedAt = &now

	if err := s.records.Put(id, e); err != nil {
		return Event{}, fmt.Errorf("failed to store event %d: %w", id, err)
	}

	s.logger.Info("event updated", "id", e.ID, "title", e.Title)
	return e, nil
}

// Delete removes the event under id and returns it
func (s *Service) Delete(id uint64) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, found, err := s.records.Remove(id)
	if err != nil {
		return Event{}, s.storageError(id, err)
	}
	if !found {
		return Event{}, &NotFoundError{ID: id}
	}

	s.logger.Info("event deleted", "id", e.ID)
	return e, nil
}

func (s *Service) lookup(id uint64) (Event, error) {
	e, found, err := s.records.Get(id)
	if err != nil {
		return Event{}, s.storageError(id, err)
	}
	if !found {
		return Event{}, &NotFoundError{ID: id}
	}
	return e, nil
}

func (s *Service) storageError(id uint64, err error) error {
	if errors.Is(err, records.ErrCorruptRecord) {
		s.logger.Error("corrupt event record", "id", id, "error", err)
		return err
	}
	return fmt.Errorf("failed to access event %d: %w", id, err)
}
