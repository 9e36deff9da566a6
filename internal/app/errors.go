package service

import (
	"errors"

	"github.com/okian/skillswap/internal/adapters/repository"
)

// Sentinel kinds for service errors.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrBackpressure  = errors.New("regeneration queue full")
	ErrInvalidUserID = errors.New("invalid user id")
	ErrNotFound      = repository.ErrNotFound
)
