package event

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/eventstore/pkg/engine"
	"github.com/ssargent/eventstore/pkg/records"
	"github.com/ssargent/eventstore/pkg/storage"
)

// tickClock advances by one on every call
type tickClock struct {
	mu  sync.Mutex
	now uint64
}

func (c *tickClock) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now++
	return c.now
}

func newTestService(t *testing.T) (*Service, *engine.Engine) {
	t.Helper()
	e := engine.New(storage.NewMemory(), MaxEncodedSize)
	return NewService(e, WithClock(&tickClock{})), e
}

func TestService_Scenario(t *testing.T) {
	svc, _ := newTestService(t)

	a, err := svc.Create(Payload{Title: "A"})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), a.ID)
	assert.Nil(t, a.UpdatedAt)

	b, err := svc.Create(Payload{Title: "B"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), b.ID)

	a2, err := svc.Update(0, Payload{Title: "A2"})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), a2.ID)
	assert.Equal(t, "A2", a2.Title)
	require.NotNil(t, a2.UpdatedAt)

	deleted, err := svc.Delete(1)
	require.NoError(t, err)
	assert.Equal(t, b, deleted)

	_, err = svc.Read(1)
	assert.ErrorIs(t, err, ErrNotFound)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, uint64(1), nf.ID)
}

func TestService_NextIDDoesNotConsume(t *testing.T) {
	svc, _ := newTestService(t)

	next, err := svc.NextID()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), next)

	again, err := svc.NextID()
	require.NoError(t, err)
	assert.Equal(t, next, again)

	created, err := svc.Create(Payload{Title: "A"})
	require.NoError(t, err)
	assert.Equal(t, next, created.ID)

	next, err = svc.NextID()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), next)
}

func TestService_ReadAfterWrite(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.Create(Payload{
		Title: "Go meetup", Date: "2024-06-01", Time: "19:00",
		MaxAttendant: 80, AttachmentURL: "https://example.com/flyer.pdf",
	})
	require.NoError(t, err)

	got, err := svc.Read(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestService_UpdateSemantics(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.Create(Payload{Title: "old", Date: "d1", Time: "t1", MaxAttendant: 1, AttachmentURL: "u1"})
	require.NoError(t, err)

	p2 := Payload{Title: "new", Date: "", Time: "t2", MaxAttendant: 2, AttachmentURL: ""}
	updated, err := svc.Update(created.ID, p2)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	require.NotNil(t, updated.UpdatedAt)
	assert.GreaterOrEqual(t, *updated.UpdatedAt, created.CreatedAt)
	assert.Equal(t, p2, updated.Payload())

	again, err := svc.Update(created.ID, p2)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, *again.UpdatedAt, *updated.UpdatedAt)

	stored, err := svc.Read(created.ID)
	require.NoError(t, err)
	assert.Equal(t, again, stored)
}

func TestService_UpdatedAtNeverGoesBackwards(t *testing.T) {
	e := engine.New(storage.NewMemory(), MaxEncodedSize)
	now := uint64(1000)
	svc := NewService(e, WithClock(ClockFunc(func() uint64 { return now })))

	created, err := svc.Create(Payload{Title: "x"})
	require.NoError(t, err)

	now = 10 // wall clock stepped back
	updated, err := svc.Update(created.ID, Payload{Title: "y"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), *updated.UpdatedAt)
}

func TestService_DeleteFinality(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.Create(Payload{Title: "short-lived"})
	require.NoError(t, err)

	_, err = svc.Delete(created.ID)
	require.NoError(t, err)

	_, err = svc.Read(created.ID)
	assert.Equal(t, &NotFoundError{ID: created.ID}, err)
	_, err = svc.Delete(created.ID)
	assert.Equal(t, &NotFoundError{ID: created.ID}, err)
	_, err = svc.Update(created.ID, Payload{})
	assert.Equal(t, &NotFoundError{ID: created.ID}, err)

	next, err := svc.Create(Payload{Title: "next"})
	require.NoError(t, err)
	assert.Greater(t, next.ID, created.ID, "deleted IDs are never reused")
}

func TestService_NotFoundOnUnknownID(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Read(999999)
	assert.Equal(t, &NotFoundError{ID: 999999}, err)
	assert.EqualError(t, err, "an event with id=999999 not found")
}

func TestService_MonotonicUniqueIDs(t *testing.T) {
	svc, _ := newTestService(t)

	var prev uint64
	for i := 0; i < 100; i++ {
		e, err := svc.Create(Payload{Title: "e"})
		require.NoError(t, err)
		if i > 0 {
			assert.Greater(t, e.ID, prev)
		}
		prev = e.ID
	}
}

func TestService_ValidationRejectsOversizePayload(t *testing.T) {
	svc, e := newTestService(t)

	_, err := svc.Create(Payload{AttachmentURL: strings.Repeat("u", MaxAttachmentURLLen+1)})
	assert.ErrorIs(t, err, ErrInvalidPayload)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "attachment_url", ve.Field)

	next, err := e.Counter().Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), next, "rejected creates must not mint an id")

	created, err := svc.Create(Payload{Title: "ok"})
	require.NoError(t, err)
	_, err = svc.Update(created.ID, Payload{Date: strings.Repeat("d", MaxDateLen+1)})
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestService_CorruptRecord(t *testing.T) {
	var logs bytes.Buffer
	e := engine.New(storage.NewMemory(), MaxEncodedSize)
	svc := NewService(e, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	require.NoError(t, e.Insert(4, []byte{0xde, 0xad, 0xbe, 0xef, 0x01, 0x02}))

	_, err := svc.Read(4)
	assert.ErrorIs(t, err, records.ErrCorruptRecord)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, logs.String(), "corrupt event record")

	_, err = svc.Update(4, Payload{})
	assert.ErrorIs(t, err, records.ErrCorruptRecord)
}

func TestService_SurvivesRestart(t *testing.T) {
	for _, driver := range []string{storage.DriverLog, storage.DriverPebble, storage.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			opts := storage.Options{Driver: driver, DataDir: t.TempDir(), SyncWrites: true}

			kv, err := storage.Open(opts)
			require.NoError(t, err)
			svc := NewService(engine.New(kv, MaxEncodedSize))

			first, err := svc.Create(Payload{Title: "persisted"})
			require.NoError(t, err)
			second, err := svc.Create(Payload{Title: "deleted"})
			require.NoError(t, err)
			_, err = svc.Delete(second.ID)
			require.NoError(t, err)
			require.NoError(t, kv.Close())

			kv, err = storage.Open(opts)
			require.NoError(t, err)
			defer kv.Close()
			svc = NewService(engine.New(kv, MaxEncodedSize))

			got, err := svc.Read(first.ID)
			require.NoError(t, err)
			assert.Equal(t, first, got)

			_, err = svc.Read(second.ID)
			assert.ErrorIs(t, err, ErrNotFound)

			third, err := svc.Create(Payload{Title: "after restart"})
			require.NoError(t, err)
			assert.Equal(t, uint64(2), third.ID)
		})
	}
}

func TestService_LogDirectoryHasOneWriter(t *testing.T) {
	opts := storage.Options{Driver: storage.DriverLog, DataDir: t.TempDir(), SyncWrites: true}

	kv, err := storage.Open(opts)
	require.NoError(t, err)
	defer kv.Close()
	svc := NewService(engine.New(kv, MaxEncodedSize))

	_, err = storage.Open(opts)
	require.Error(t, err, "a second opener would mint the same ids")

	created, err := svc.Create(Payload{Title: "from serve"})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), created.ID)
}

func TestService_ConcurrentCreates(t *testing.T) {
	svc, _ := newTestService(t)

	var wg sync.WaitGroup
	ids := make(chan uint64, 200)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e, err := svc.Create(Payload{Title: "c"})
			if err != nil {
				t.Errorf("Create: %v", err)
				return
			}
			ids <- e.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[uint64]bool{}
	for id := range ids {
		assert.False(t, seen[id])
		seen[id] = true
	}
	assert.Len(t, seen, 200)
}

func TestMonotonicClock(t *testing.T) {
	values := []uint64{5, 3, 8, 8, 1}
	i := 0
	clock := NewMonotonicClock(ClockFunc(func() uint64 {
		v := values[i]
		i++
		return v
	}))

	var got []uint64
	for range values {
		got = append(got, clock.Now())
	}
	assert.Equal(t, []uint64{5, 5, 8, 8, 8}, got)
}
