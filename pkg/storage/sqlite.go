package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const (
	sqlCreateTable = `CREATE TABLE IF NOT EXISTS kv (key BLOB PRIMARY KEY, value BLOB NOT NULL)`
	sqlGet         = `SELECT value FROM kv WHERE key = ?`
	sqlSet         = `INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	sqlDelete      = `DELETE FROM kv WHERE key = ?`
)

// SQLKV stores keys in a single two-column table
type SQLKV struct {
	db *sql.DB
}

// OpenSQLite opens or creates a sqlite database file at path
func OpenSQLite(path string) (*SQLKV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// a single connection keeps writes ordered
	db.SetMaxOpenConns(1)

	kv, err := NewSQLKV(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return kv, nil
}

// NewSQLKV wraps an open database handle and ensures the table exists
func NewSQLKV(db *sql.DB) (*SQLKV, error) {
	if _, err := db.Exec(sqlCreateTable); err != nil {
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}
	return &SQLKV{db: db}, nil
}

func (s *SQLKV) Get(key []byte) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow(sqlGet, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *SQLKV) Set(key, value []byte) error {
	_, err := s.db.Exec(sqlSet, key, value)
	return err
}

func (s *SQLKV) Delete(key []byte) error {
	_, err := s.db.Exec(sqlDelete, key)
	return err
}

func (s *SQLKV) Close() error {
	return s.db.Close()
}
