package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidMember = errors.New("invalid member")
	ErrUnknownDriver = errors.New("unknown store driver")
)
