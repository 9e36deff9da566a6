package dbtool

import "errors"

// Sentinel kinds for tool errors.
var (
	ErrUsage             = errors.New("usage")
	ErrUnknownCommand    = errors.New("unknown command")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrUnknownFormat     = errors.New("unknown output format")
)
