package cli

import "errors"

// Usage errors.
var (
	errUIDRequired      = errors.New("item uid is required")
	errListRequired     = errors.New("list id is required")
	errTitleRequired    = errors.New("title is required")
	errArgsRequired     = errors.New("at least one value is required")
	errTooManyArgs      = errors.New("too many arguments")
	errInvalidField     = errors.New("invalid field (valid: uid, title, score, list)")
	errFormatsExclusive = errors.New("--json and --yaml are mutually exclusive")
	errClearExclusive   = errors.New("--clear cannot be combined with other flags")
	errNothingToSet     = errors.New("nothing to set (pass flags or --clear)")
	errRecurrenceKind   = errors.New("specify exactly one of --calendar, --every or --times")
	errInvalidThreshold = errors.New("invalid threshold (want <days>:<priority>)")
	errVisibility       = errors.New("--visibility is required")
	errNoTerminal       = errors.New("shell needs an input stream")
)
