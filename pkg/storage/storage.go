// Package storage provides the byte-keyed durable substrates the event store
// runs on. Every backend implements KV; Open selects one by driver name.
package storage

import (
	"fmt"
	"log/slog"
	"path/filepath"
)

// KV is the minimal contract a storage backend offers.
// Writes are durable when they return (subject to the backend's sync option)
// and deleting an absent key is not an error.
type KV interface {
	Get(key []byte) (value []byte, found bool, err error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Close() error
}

// Supported drivers
const (
	DriverLog    = "log"
	DriverPebble = "pebble"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Drivers lists the accepted driver names
var Drivers = []string{DriverLog, DriverPebble, DriverSQLite, DriverMemory}

// Options selects and configures a backend
type Options struct {
	Driver     string
	DataDir    string
	SyncWrites bool
	Logger     *slog.Logger // optional, receives backend recovery logs
}

// Open creates the backend named by opts.Driver under opts.DataDir
func Open(opts Options) (KV, error) {
	switch opts.Driver {
	case DriverLog, "":
		return OpenLog(filepath.Join(opts.DataDir, "log"), opts.SyncWrites, opts.Logger)
	case DriverPebble:
		return OpenPebble(filepath.Join(opts.DataDir, "pebble"), opts.SyncWrites)
	case DriverSQLite:
		return OpenSQLite(filepath.Join(opts.DataDir, "events.sqlite"))
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q (want one of %v)", opts.Driver, Drivers)
	}
}
