package event

import (
	"github.com/ssargent/eventstore/pkg/codec"
)

// MaxEncodedSize is the slot size every encoded Event fits in
const MaxEncodedSize = 1024

const codecVersion = 1

const (
	// frame + id + created_at + updated_at (flag, value) + max_attendant + four string prefixes
	fixedEncodedSize = codec.FrameHeaderSize + 8 + 8 + 1 + 8 + 4 + 4*codec.StringOverhead

	worstCaseEncodedSize = fixedEncodedSize + MaxTitleLen + MaxDateLen + MaxTimeLen + MaxAttachmentURLLen
)

// Fails to compile if the field bounds allow an encoding larger than the slot.
var _ [MaxEncodedSize - worstCaseEncodedSize]struct{}

// Codec encodes events in a versioned, checksummed binary frame
type Codec struct{}

var _ codec.Codec[Event] = Codec{}

// MaxSize returns MaxEncodedSize
func (Codec) MaxSize() int {
	return MaxEncodedSize
}

// Encode serializes e. It fails instead of truncating when a field is over
// its bound, which the service prevents by validating payloads first.
func (c Codec) Encode(e Event) ([]byte, error) {
	if err := e.Payload().Validate(); err != nil {
		return nil, err
	}

	w := codec.NewWriter(c.MaxSize())
	w.Uint64(e.ID)
	w.String(e.Title)
	w.String(e.Date)
	w.String(e.Time)
	w.Uint32(e.MaxAttendant)
	w.String(e.AttachmentURL)
	w.Uint64(e.CreatedAt)
	w.OptionalUint64(e.UpdatedAt)
	return w.Seal(codecVersion)
}

// Decode parses bytes produced by Encode
func (c Codec) Decode(data []byte) (Event, error) {
	r, version, err := codec.NewReader(data, c.MaxSize())
	if err != nil {
		return Event{}, err
	}
	if version != codecVersion {
		return Event{}, &codec.VersionError{Got: version, Want: codecVersion}
	}

	e := Event{
		ID:            r.Uint64(),
		Title:         r.String(),
		Date:          r.String(),
		Time:          r.String(),
		MaxAttendant:  r.Uint32(),
		AttachmentURL: r.String(),
		CreatedAt:     r.Uint64(),
		UpdatedAt:     r.OptionalUint64(),
	}
	if err := r.Done(); err != nil {
		return Event{}, err
	}
	return e, nil
}
