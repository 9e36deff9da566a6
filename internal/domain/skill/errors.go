package skill

import "errors"

// Sentinel kinds for alias table errors.
var (
	ErrAliasConflict    = errors.New("skill alias conflict")
	ErrInvalidCanonical = errors.New("invalid canonical skill token")
)
