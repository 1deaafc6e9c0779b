package ctlfs

import "codeberg.org/mutker/clkctl/internal/errors"

const (
	// ErrResourceExhausted covers container and attribute creation
	// failures, including the listener for the HTTP front.
	ErrResourceExhausted = errors.ErrorCode("ctlfs_resource_exhausted")

	// ErrInvalidValue marks a malformed write payload; a client error,
	// not a core failure.
	ErrInvalidValue = errors.ErrorCode("ctlfs_invalid_value")
)
