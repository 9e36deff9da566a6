package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidProfile = errors.New("invalid profile")
	ErrInvalidMatch   = errors.New("invalid match")
	ErrClosed         = errors.New("repository closed")
	ErrUnknownBackend = errors.New("unknown repository backend")
)
