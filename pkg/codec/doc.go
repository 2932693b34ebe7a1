// Package codec defines the bounded binary encoding contract used by the
// event store.
//
// Every record type that is persisted through the record store implements
// Codec[T]. A codec declares the largest byte sequence it can ever produce
// (MaxSize) so the storage engine can treat values as bounded slots. Encoders
// must never truncate: a value that would not fit returns ErrTooLarge.
//
// # Frame Format
//
// Encoded values produced with Writer are framed as follows:
//
//	[CRC32(4)][Version(1)][Body]
//
// Fields:
//   - CRC32: IEEE checksum over Version and Body (little-endian)
//   - Version: format version of the body, chosen by the record codec
//   - Body: fixed-width little-endian integers and u16 length-prefixed strings
//
// The frame overhead is FrameHeaderSize (5) bytes.
//
// # Usage
//
//	w := codec.NewWriter(1024)
//	w.Uint64(id)
//	w.String(title)
//	data, err := w.Seal(1)
//
//	r, version, err := codec.NewReader(data, 1024)
//	id := r.Uint64()
//	title := r.String()
//	if err := r.Done(); err != nil {
//	    return err // malformed or corrupted
//	}
//
// # Error Handling
//
// Reader and Writer keep the first error they hit and ignore later calls, so
// a sequence of field reads only needs one check at the end. Decode failures
// wrap ErrChecksum, ErrShortBuffer or ErrTrailingBytes; callers that persist
// records treat any of them as store corruption.
//
// # Thread Safety
//
// Writer and Reader are not safe for concurrent use. Codec implementations in
// this module are stateless and may be shared.
package codec
