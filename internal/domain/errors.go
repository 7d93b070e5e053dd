package domain

import "errors"

var (
	ErrMissingInput       = errors.New("missing required input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrStoreUnavailable   = errors.New("store unavailable")
)
