// Package event implements the Event entity: its bounded binary encoding and
// the CRUD service that mints IDs and persists records.
package event

import "fmt"

// Field bounds, in bytes. Together with the fixed fields they must fit in
// MaxEncodedSize; see the compile-time check in codec.go.
const (
	MaxTitleLen         = 128
	MaxDateLen          = 32
	MaxTimeLen          = 32
	MaxAttachmentURLLen = 512
)

// Event is the persisted record
type Event struct {
	ID            uint64  `json:"id"`
	Title         string  `json:"title"`
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	MaxAttendant  uint32  `json:"max_attendant"`
	AttachmentURL string  `json:"attachment_url"`
	CreatedAt     uint64  `json:"created_at"`
	UpdatedAt     *uint64 `json:"updated_at"`
}

// Payload holds the caller-controlled fields of an Event
type Payload struct {
	Title         string `json:"title"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	MaxAttendant  uint32 `json:"max_attendant"`
	AttachmentURL string `json:"attachment_url"`
}

// Validate checks every string field against its bound
func (p Payload) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"title", p.Title, MaxTitleLen},
		{"date", p.Date, MaxDateLen},
		{"time", p.Time, MaxTimeLen},
		{"attachment_url", p.AttachmentURL, MaxAttachmentURLLen},
	}
	for _, f := range fields {
		if len(f.value) > f.max {
			return &ValidationError{
				Field:  f.name,
				Reason: fmt.Sprintf("%d bytes exceeds limit of %d", len(f.value), f.max),
			}
		}
	}
	return nil
}

// apply replaces every payload field of e
func (p Payload) apply(e *Event) {
	e.Title = p.Title
	e.Date = p.Date
	e.Time = p.Time
	e.MaxAttendant = p.MaxAttendant
	e.AttachmentURL = p.AttachmentURL
}

// Payload returns the caller-controlled fields of e
func (e Event) Payload() Payload {
	return Payload{
		Title:         e.Title,
		Date:          e.Date,
		Time:          e.Time,
		MaxAttendant:  e.MaxAttendant,
		AttachmentURL: e.AttachmentURL,
	}
}
