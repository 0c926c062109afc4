package similarity

import "errors"

// ErrDimensionMismatch is returned when two vectors differ in length.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")
