package store

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"math"
	"time"
)

// Log record layout:
//
//	[CRC32(4)][Flags(1)][KeySize(4)][ValueSize(4)][Timestamp(8)][Key][Value]
//
// The checksum covers every byte after the CRC field.
const (
	headerSize    = 21
	flagTombstone = 1 << 0

	// maxBodySize bounds allocations driven by a possibly corrupted header.
	maxBodySize = 64 << 20
)

// Record is a single entry of the append-only log
type Record struct {
	CRC32     uint32
	Flags     uint8
	Timestamp uint64 // Unix nanoseconds at write time
	Key       []byte
	Value     []byte
}

func newRecord(key, value []byte, tombstone bool) *Record {
	if len(key) > math.MaxUint32 || len(value) > math.MaxUint32 {
		panic("store: record field exceeds 4GiB")
	}
	r := &Record{
		Timestamp: uint64(time.Now().UnixNano()),
		Key:       key,
		Value:     value,
	}
	if tombstone {
		r.Flags |= flagTombstone
		r.Value = nil
	}
	r.CRC32 = r.checksum()
	return r
}

// Tombstone reports whether the record marks a deletion
func (r *Record) Tombstone() bool {
	return r.Flags&flagTombstone != 0
}

// Size returns the encoded size of the record
func (r *Record) Size() int {
	return headerSize + len(r.Key) + len(r.Value)
}

// Validate checks the stored checksum against the record contents
func (r *Record) Validate() error {
	if got := r.checksum(); got != r.CRC32 {
		return fmt.Errorf("%w: crc %d != %d", ErrCorruption, r.CRC32, got)
	}
	return nil
}

func (r *Record) encode() []byte {
	buf := make([]byte, r.Size())
	r.putHeader(buf)
	copy(buf[headerSize:], r.Key)
	copy(buf[headerSize+len(r.Key):], r.Value)
	return buf
}

func (r *Record) putHeader(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:], r.CRC32)
	buf[4] = r.Flags
	binary.LittleEndian.PutUint32(buf[5:], uint32(len(r.Key)))
	binary.LittleEndian.PutUint32(buf[9:], uint32(len(r.Value)))
	binary.LittleEndian.PutUint64(buf[13:], r.Timestamp)
}

// recordHeader is the decoded fixed-size prefix of a record
type recordHeader struct {
	crc       uint32
	flags     uint8
	keySize   uint32
	valueSize uint32
	timestamp uint64
}

func decodeHeader(buf []byte) recordHeader {
	return recordHeader{
		crc:       binary.LittleEndian.Uint32(buf[0:]),
		flags:     buf[4],
		keySize:   binary.LittleEndian.Uint32(buf[5:]),
		valueSize: binary.LittleEndian.Uint32(buf[9:]),
		timestamp: binary.LittleEndian.Uint64(buf[13:]),
	}
}

func (h recordHeader) bodySize() (int64, error) {
	size := int64(h.keySize) + int64(h.valueSize)
	if size > maxBodySize || h.flags&^flagTombstone != 0 {
		return 0, fmt.Errorf("%w: implausible header (flags=%d, body=%d)", ErrCorruption, h.flags, size)
	}
	return size, nil
}

// record assembles a Record from a header and its body and validates it.
func (h recordHeader) record(body []byte) (*Record, error) {
	r := &Record{
		CRC32:     h.crc,
		Flags:     h.flags,
		Timestamp: h.timestamp,
		Key:       body[:h.keySize],
		Value:     body[h.keySize:],
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Record) checksum() uint32 {
	var header [headerSize]byte
	r.putHeader(header[:])

	crc := crc32.NewIEEE()
	crc.Write(header[4:])
	crc.Write(r.Key)
	crc.Write(r.Value)
	return crc.Sum32()
}
