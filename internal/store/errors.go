package store

import "errors"

// Store errors.
var (
	ErrListNotFound       = errors.New("list not found")
	ErrListExists         = errors.New("list already exists")
	ErrInvalidListID      = errors.New("invalid list id")
	ErrDecode             = errors.New("cannot decode list document")
	ErrUnsupportedVersion = errors.New("unsupported document version")
	ErrItemNotFound       = errors.New("item not found")
	ErrUIDExhausted       = errors.New("no unique uid after repeated attempts")
)

// Lock errors.
var (
	errLockTimeout  = errors.New("lock timeout")
	errLockFileOpen = errors.New("failed to open lock file")
)
