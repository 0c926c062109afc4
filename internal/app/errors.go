package service

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrInvalidRequest wraps every caller mistake: bad period, bad member
	// name, text out of bounds, threshold out of range.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrBackpressure means the submission queue is full.
	ErrBackpressure = errors.New("submission queue full")
	// ErrNotStarted means Submit was called before Start or after Stop.
	ErrNotStarted = errors.New("service not started")
)
