package service

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid input")
	ErrWrongState       = errors.New("session is not in the required state")
	// ErrExternalIO marks a persistence/export failure. The session's
	// rendered content survives it, so the caller can simply retry.
	ErrExternalIO = errors.New("external collaborator failed")
)
