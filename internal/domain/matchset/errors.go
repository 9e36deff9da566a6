package matchset

import "errors"

// ErrMalformedCandidate marks a candidate that was skipped.
var ErrMalformedCandidate = errors.New("malformed candidate")
