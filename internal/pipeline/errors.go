package pipeline

import "errors"

// Sentinel errors for caller precondition violations. Empty result sets and
// out-of-range page requests are normal states, never errors.
var (
	ErrInvalidPageSize  = errors.New("page size must be positive")
	ErrUnknownSortField = errors.New("unknown sort field")
	ErrUnknownField     = errors.New("unknown filter field")
)
