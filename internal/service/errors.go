package service

import "errors"

// Domain errors returned by services and mapped to API codes by handlers.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrSessionInvalidated = errors.New("session invalidated")
	ErrRouteForbidden     = errors.New("learner or route is outside the caller's assignment")
	ErrReportInProgress   = errors.New("a report for this route is already being generated")
	ErrInvalidParent      = errors.New("a stream must reference an existing grade")
	ErrLastAdmin          = errors.New("the last administrator cannot be removed or demoted")
)
