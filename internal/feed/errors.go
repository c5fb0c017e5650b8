package feed

import "errors"

var (
	ErrInvalidPage   = errors.New("invalid page number")
	ErrStaleRequest  = errors.New("stale page request")
	ErrProviderPanic = errors.New("page provider panicked")
)
