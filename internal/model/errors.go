package model

import "errors"

// Decoding errors.
var (
	ErrInvalidInstant = errors.New("invalid instant")
	ErrMissingField   = errors.New("missing required field")
)
