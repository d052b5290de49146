package types

import "errors"

var (
	ErrInvalidBloodType        = errors.New("invalid blood type")
	ErrInvalidCity             = errors.New("invalid city")
	ErrInvalidUrgency          = errors.New("invalid urgency level")
	ErrInvalidStatus           = errors.New("invalid request status")
	ErrInvalidStatusTransition = errors.New("invalid request status transition")
	ErrInvalidSettings         = errors.New("invalid settings")

	// ErrStoreQueryFailed marks a failed read against the request store. It is
	// kept distinct from an empty result so callers never treat it as "no match".
	ErrStoreQueryFailed = errors.New("store query failed")

	// ErrConfigUnavailable is logged when settings cannot be read and defaults are used instead.
	ErrConfigUnavailable = errors.New("configuration unavailable")

	ErrRequestNotFound = errors.New("blood request not found")
	ErrDonorNotFound   = errors.New("donor not found")
)
