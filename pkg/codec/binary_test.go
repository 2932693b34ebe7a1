package codec

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterReader_RoundTrip(t *testing.T) {
	updated := uint64(99)

	w := NewWriter(1024)
	w.Uint8(7)
	w.Uint32(42)
	w.Uint64(1 << 40)
	w.String("hello")
	w.String("")
	w.String("🎯 unicode")
	w.OptionalUint64(nil)
	w.OptionalUint64(&updated)

	data, err := w.Seal(3)
	require.NoError(t, err)

	r, version, err := NewReader(data, 1024)
	require.NoError(t, err)
	assert.Equal(t, uint8(3), version)
	assert.Equal(t, uint8(7), r.Uint8())
	assert.Equal(t, uint32(42), r.Uint32())
	assert.Equal(t, uint64(1<<40), r.Uint64())
	assert.Equal(t, "hello", r.String())
	assert.Equal(t, "", r.String())
	assert.Equal(t, "🎯 unicode", r.String())
	assert.Nil(t, r.OptionalUint64())
	got := r.OptionalUint64()
	require.NotNil(t, got)
	assert.Equal(t, updated, *got)
	assert.NoError(t, r.Done())
}

func TestWriter_SealRejectsOversize(t *testing.T) {
	w := NewWriter(16)
	w.String(strings.Repeat("x", 32))

	_, err := w.Seal(1)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestWriter_StringTooLong(t *testing.T) {
	w := NewWriter(1 << 20)
	w.String(strings.Repeat("x", 70000))
	w.Uint8(1)

	_, err := w.Seal(1)
	assert.ErrorIs(t, err, ErrStringTooLong)
}

func TestReader_DetectsCorruption(t *testing.T) {
	w := NewWriter(64)
	w.Uint64(12345)
	w.String("payload")
	data, err := w.Seal(1)
	require.NoError(t, err)

	testCases := []struct {
		name    string
		mutate  func([]byte) []byte
		wantErr error
	}{
		{
			name:    "flipped body byte",
			mutate:  func(b []byte) []byte { b[len(b)-1] ^= 0xFF; return b },
			wantErr: ErrChecksum,
		},
		{
			name:    "flipped checksum byte",
			mutate:  func(b []byte) []byte { b[0] ^= 0x01; return b },
			wantErr: ErrChecksum,
		},
		{
			name:    "truncated header",
			mutate:  func(b []byte) []byte { return b[:3] },
			wantErr: ErrShortBuffer,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := append([]byte(nil), data...)
			_, _, err := NewReader(tc.mutate(buf), 64)
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
		})
	}
}

func TestReader_ShortBodyAndTrailingBytes(t *testing.T) {
	w := NewWriter(64)
	w.Uint32(1)
	data, err := w.Seal(1)
	require.NoError(t, err)

	r, _, err := NewReader(data, 64)
	require.NoError(t, err)
	r.Uint64()
	assert.ErrorIs(t, r.Done(), ErrShortBuffer)

	r, _, err = NewReader(data, 64)
	require.NoError(t, err)
	r.Uint8()
	assert.ErrorIs(t, r.Done(), ErrTrailingBytes)
}

func TestReader_InvalidPresenceFlag(t *testing.T) {
	w := NewWriter(64)
	w.Uint8(2)
	data, err := w.Seal(1)
	require.NoError(t, err)

	r, _, err := NewReader(data, 64)
	require.NoError(t, err)
	assert.Nil(t, r.OptionalUint64())
	assert.Error(t, r.Done())
}
