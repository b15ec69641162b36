package store

// SetUIDGenerator replaces the registry's uid source.
func (r *Registry) SetUIDGenerator(gen func() string) {
	r.newUID = gen
}

// AcquireLockForTest takes the lock for path and returns its release func.
func AcquireLockForTest(path string) (func(), error) {
	l, err := acquireLock(path, LockTimeout)
	if err != nil {
		return nil, err
	}

	return l.release, nil
}

// ErrTestLockTimeout is the unexported lock timeout error.
var ErrTestLockTimeout = errLockTimeout
