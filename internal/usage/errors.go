package usage

import "errors"

// ErrLimitReached indicates a free-tier user has used every analysis in their allowance.
var ErrLimitReached = errors.New("limit reached")
