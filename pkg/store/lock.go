package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

const lockFileName = "LOCK"

// dirLock is an exclusive advisory lock on a data directory
type dirLock struct {
	file *os.File
}

// lockDir takes the directory lock without blocking. A directory already
// held by another store, in this process or another, fails with ErrLocked.
func lockDir(dir string) (*dirLock, error) {
	path := filepath.Join(dir, lockFileName)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, err
	}

	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = file.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
		}
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	return &dirLock{file: file}, nil
}

func (l *dirLock) release() error {
	unlockErr := unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	return errors.Join(unlockErr, l.file.Close())
}
