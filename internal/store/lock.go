package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// locksDirName is the subdirectory for lock files. Keeping them out of the
// data dir itself stops lock churn from waking directory watchers.
const locksDirName = ".locks"

// LockTimeout is the timeout for acquiring a file lock.
const LockTimeout = 2 * time.Second

// lockPollInterval is how often a contended lock is retried.
const lockPollInterval = 5 * time.Millisecond

// withLock executes handler while holding an exclusive lock on path.
func withLock(path string, handler func() error) error {
	lock, err := acquireLock(path, LockTimeout)
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}

	defer lock.release()

	return handler()
}

type fileLock struct {
	path string
	file *os.File
}

// release removes the lock file while still holding the lock, then unlocks.
func (l *fileLock) release() {
	if l.file == nil {
		return
	}

	_ = os.Remove(l.path)
	_ = unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	_ = l.file.Close()
	l.file = nil
}

// acquireLock takes an exclusive flock on <dir>/.locks/<base>.lock. A holder
// removes the lock file on release, so after locking the inode at the path
// is compared with the one locked; on mismatch the attempt starts over.
func acquireLock(path string, timeout time.Duration) (*fileLock, error) {
	locksDir := filepath.Join(filepath.Dir(path), locksDirName)
	lockPath := filepath.Join(locksDir, filepath.Base(path)+".lock")

	deadline := time.Now().Add(timeout)

	for {
		err := os.MkdirAll(locksDir, dirPerms)
		if err != nil {
			return nil, fmt.Errorf("creating locks dir: %w", err)
		}

		file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, filePerms)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errLockFileOpen, err)
		}

		locked, err := tryLock(file, lockPath)
		if err != nil {
			_ = file.Close()

			return nil, err
		}

		if locked {
			return &fileLock{path: lockPath, file: file}, nil
		}

		_ = file.Close()

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", errLockTimeout, path)
		}

		time.Sleep(lockPollInterval)
	}
}

// tryLock attempts a non-blocking exclusive lock on file and verifies that
// file is still the one at lockPath.
func tryLock(file *os.File, lockPath string) (bool, error) {
	fd := int(file.Fd())

	var opened unix.Stat_t

	err := unix.Fstat(fd, &opened)
	if err != nil {
		return false, fmt.Errorf("fstat lock file: %w", err)
	}

	err = unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB)
	if errors.Is(err, unix.EWOULDBLOCK) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("flock: %w", err)
	}

	var current unix.Stat_t

	err = unix.Stat(lockPath, &current)
	if err != nil || current.Ino != opened.Ino {
		_ = unix.Flock(fd, unix.LOCK_UN)

		return false, nil
	}

	return true, nil
}
