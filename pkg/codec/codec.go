package codec

import (
	"errors"
	"fmt"
)

// Codec converts values of T to and from a bounded byte representation.
type Codec[T any] interface {
	// Encode serializes v. The result is never longer than MaxSize.
	Encode(v T) ([]byte, error)
	// Decode is the inverse of Encode for any bytes Encode produced.
	Decode(data []byte) (T, error)
	// MaxSize is the largest encoding this codec can produce.
	MaxSize() int
}

var (
	ErrTooLarge      = errors.New("codec: encoded value exceeds max size")
	ErrChecksum      = errors.New("codec: checksum mismatch")
	ErrShortBuffer   = errors.New("codec: data too short")
	ErrTrailingBytes = errors.New("codec: trailing bytes after value")
	ErrStringTooLong = errors.New("codec: string longer than 65535 bytes")
)

// VersionError is returned when a frame carries a version the codec cannot read.
type VersionError struct {
	Got  uint8
	Want uint8
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("codec: unsupported version %d (want %d)", e.Got, e.Want)
}
