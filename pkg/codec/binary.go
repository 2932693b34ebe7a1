package codec

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"math"
)

// FrameHeaderSize is the size of the CRC32 + version prefix.
const FrameHeaderSize = 5

// StringOverhead is the length prefix written before every string.
const StringOverhead = 2

// Writer builds a framed little-endian encoding with a hard size limit.
type Writer struct {
	buf     []byte
	maxSize int
	err     error
}

// NewWriter creates a writer whose sealed output may not exceed maxSize bytes.
func NewWriter(maxSize int) *Writer {
	w := &Writer{
		buf:     make([]byte, FrameHeaderSize, min(maxSize, 256)),
		maxSize: maxSize,
	}
	return w
}

// Uint8 appends a single byte
func (w *Writer) Uint8(v uint8) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, v)
}

// Uint32 appends v in little-endian order
func (w *Writer) Uint32(v uint32) {
	if w.err != nil {
		return
	}
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// Uint64 appends v in little-endian order
func (w *Writer) Uint64(v uint64) {
	if w.err != nil {
		return
	}
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

// OptionalUint64 appends a presence byte followed by the value when present.
func (w *Writer) OptionalUint64(v *uint64) {
	if v == nil {
		w.Uint8(0)
		return
	}
	w.Uint8(1)
	w.Uint64(*v)
}

// String appends a u16 length prefix followed by the raw bytes of s.
func (w *Writer) String(s string) {
	if w.err != nil {
		return
	}
	if len(s) > math.MaxUint16 {
		w.err = ErrStringTooLong
		return
	}
	w.buf = binary.LittleEndian.AppendUint16(w.buf, uint16(len(s)))
	w.buf = append(w.buf, s...)
}

// Seal stamps the version and checksum and returns the encoded frame.
// It fails with ErrTooLarge instead of truncating.
func (w *Writer) Seal(version uint8) ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if len(w.buf) > w.maxSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooLarge, len(w.buf), w.maxSize)
	}
	w.buf[4] = version
	binary.LittleEndian.PutUint32(w.buf[0:4], crc32.ChecksumIEEE(w.buf[4:]))
	return w.buf, nil
}

// Reader walks a frame produced by Writer.
type Reader struct {
	data []byte
	pos  int
	err  error
}

// NewReader validates the frame checksum and returns a reader positioned at
// the start of the body along with the frame version.
func NewReader(data []byte, maxSize int) (*Reader, uint8, error) {
	if len(data) < FrameHeaderSize {
		return nil, 0, fmt.Errorf("%w: %d bytes, need at least %d", ErrShortBuffer, len(data), FrameHeaderSize)
	}
	if len(data) > maxSize {
		return nil, 0, fmt.Errorf("%w: %d > %d", ErrTooLarge, len(data), maxSize)
	}
	want := binary.LittleEndian.Uint32(data[0:4])
	if got := crc32.ChecksumIEEE(data[4:]); got != want {
		return nil, 0, fmt.Errorf("%w: %d != %d", ErrChecksum, got, want)
	}
	return &Reader{data: data, pos: FrameHeaderSize}, data[4], nil
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if len(r.data)-r.pos < n {
		r.err = fmt.Errorf("%w: need %d bytes at offset %d", ErrShortBuffer, n, r.pos)
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

// Uint8 reads a single byte
func (r *Reader) Uint8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

// Uint32 reads a little-endian uint32
func (r *Reader) Uint32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// Uint64 reads a little-endian uint64
func (r *Reader) Uint64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// OptionalUint64 reads a value written by Writer.OptionalUint64.
func (r *Reader) OptionalUint64() *uint64 {
	switch flag := r.Uint8(); {
	case r.err != nil:
		return nil
	case flag == 0:
		return nil
	case flag == 1:
		v := r.Uint64()
		if r.err != nil {
			return nil
		}
		return &v
	default:
		r.err = fmt.Errorf("codec: invalid presence flag %d at offset %d", flag, r.pos-1)
		return nil
	}
}

// String reads a u16 length-prefixed string
func (r *Reader) String() string {
	b := r.take(StringOverhead)
	if b == nil {
		return ""
	}
	s := r.take(int(binary.LittleEndian.Uint16(b)))
	if s == nil {
		return ""
	}
	return string(s)
}

// Done reports the first error seen and rejects unread trailing bytes.
func (r *Reader) Done() error {
	if r.err != nil {
		return r.err
	}
	if r.pos != len(r.data) {
		return fmt.Errorf("%w: %d unread", ErrTrailingBytes, len(r.data)-r.pos)
	}
	return nil
}
