package workspace

import "errors"

// Workspace domain errors.
var (
	ErrAlreadyBooked   = errors.New("workspace is already booked")
	ErrNotBooked       = errors.New("workspace is not booked")
	ErrUserRequired    = errors.New("user id is required")
	ErrTimeRequired    = errors.New("booking time is required")
	ErrInvalidDuration = errors.New("booking duration must be positive")
)
