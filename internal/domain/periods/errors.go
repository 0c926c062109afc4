package periods

import "errors"

// ErrInvalidPeriod is returned for an unknown period token or an out of range lookback.
var ErrInvalidPeriod = errors.New("invalid period")
