package storage

import (
	"errors"

	"github.com/cockroachdb/pebble"
)

// PebbleKV runs on a pebble LSM database
type PebbleKV struct {
	db    *pebble.DB
	write *pebble.WriteOptions
}

// OpenPebble opens or creates a pebble database at path
func OpenPebble(path string, syncWrites bool) (*PebbleKV, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}

	write := pebble.NoSync
	if syncWrites {
		write = pebble.Sync
	}
	return &PebbleKV{db: db, write: write}, nil
}

func (p *PebbleKV) Get(key []byte) ([]byte, bool, error) {
	data, closer, err := p.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer closer.Close()

	// data is only valid until closer is closed
	value := make([]byte, len(data))
	copy(value, data)
	return value, true, nil
}

func (p *PebbleKV) Set(key, value []byte) error {
	return p.db.Set(key, value, p.write)
}

func (p *PebbleKV) Delete(key []byte) error {
	return p.db.Delete(key, p.write)
}

func (p *PebbleKV) Close() error {
	return p.db.Close()
}
