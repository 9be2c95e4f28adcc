package report

import "errors"

// Validation errors surfaced to the caller before any file is produced.
var (
	ErrRouteRequired = errors.New("a route must be selected")
	ErrNoLearners    = errors.New("no learners to include in the report")
	ErrUnknownFormat = errors.New("unknown report format")
	ErrUnknownSort   = errors.New("unknown sort key")
	ErrUnknownColumn = errors.New("unknown report column")
)
