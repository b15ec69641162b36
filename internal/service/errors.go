package service

import "errors"

// Validation and state errors.
var (
	ErrTitleRequired      = errors.New("title is required")
	ErrInvalidTrait       = errors.New("invalid trait")
	ErrInvalidMode        = errors.New("invalid mode")
	ErrInvalidPriority    = errors.New("invalid priority")
	ErrInvalidVisibility  = errors.New("invalid visibility")
	ErrInvalidRecurrence  = errors.New("invalid recurrence")
	ErrInvalidUnit        = errors.New("invalid unit")
	ErrInvalidThreshold   = errors.New("invalid threshold")
	ErrInvalidEstimate    = errors.New("time estimate must be positive")
	ErrInvalidBuffer      = errors.New("buffer must not be negative")
	ErrCannotBlockSelf    = errors.New("item cannot block itself")
	ErrItemNotPending     = errors.New("item is not pending")
	ErrItemNotOpen        = errors.New("item is not open")
	ErrItemAlreadyOpen    = errors.New("item is already open")
	ErrMoveTargetNotFound = errors.New("move target not in the same list")
)
