package service

import "errors"

// Common service errors
var (
	// ErrInvalidInput is returned when a caller argument is malformed
	ErrInvalidInput = errors.New("invalid input")
)
