package apperrors

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrTimeout      = errors.New("timed out")
	// ErrStaleElement marks a DOM handle invalidated by a partial page update.
	ErrStaleElement = errors.New("stale element reference")
	ErrNoBrowser    = errors.New("no browser could be launched")
)
