package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// LogReader provides sequential and random access to records in a log file
type LogReader struct {
	file   *os.File
	reader *bufio.Reader
	offset int64
	config LogReaderConfig
}

// NewLogReader opens the data file for reading
func NewLogReader(config LogReaderConfig) (*LogReader, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, err
	}

	r := &LogReader{file: file, config: config}
	if err := r.SeekTo(config.StartOffset); err != nil {
		_ = file.Close()
		return nil, err
	}
	return r, nil
}

// ReadNext reads the record at the current offset and advances past it.
// A clean end of file returns io.EOF; a torn or invalid record returns an
// error wrapping ErrCorruption.
func (r *LogReader) ReadNext() (*Record, error) {
	header := make([]byte, headerSize)
	n, err := io.ReadFull(r.reader, header)
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: torn header at offset %d (%d bytes)", ErrCorruption, r.offset, n)
		}
		return nil, err
	}

	h := decodeHeader(header)
	size, err := h.bodySize()
	if err != nil {
		return nil, err
	}
	body := make([]byte, size)
	if _, err := io.ReadFull(r.reader, body); err != nil {
		if err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: torn body at offset %d", ErrCorruption, r.offset)
		}
		return nil, err
	}

	record, err := h.record(body)
	if err != nil {
		return nil, err
	}
	r.offset += int64(record.Size())
	return record, nil
}

// ReadAt reads the record starting at offset without moving the sequential cursor
func (r *LogReader) ReadAt(offset int64) (*Record, error) {
	header := make([]byte, headerSize)
	if _, err := r.file.ReadAt(header, offset); err != nil {
		return nil, fmt.Errorf("%w: read header at %d: %v", ErrCorruption, offset, err)
	}

	h := decodeHeader(header)
	size, err := h.bodySize()
	if err != nil {
		return nil, err
	}
	body := make([]byte, size)
	if _, err := r.file.ReadAt(body, offset+headerSize); err != nil {
		return nil, fmt.Errorf("%w: read body at %d: %v", ErrCorruption, offset, err)
	}

	return h.record(body)
}

// SeekTo sets the read offset
func (r *LogReader) SeekTo(offset int64) error {
	if _, err := r.file.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	r.reader = bufio.NewReader(r.file)
	r.offset = offset
	return nil
}

// Offset returns the offset of the next record ReadNext will return
func (r *LogReader) Offset() int64 {
	return r.offset
}

// Close closes the log reader
func (r *LogReader) Close() error {
	return r.file.Close()
}
