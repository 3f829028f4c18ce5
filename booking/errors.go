package booking

import "errors"

var (
	// ErrValidation: required booking fields missing or malformed.
	// Nothing is written.
	ErrValidation = errors.New("invalid booking request")

	// ErrConflict: the professional already has an overlapping booking.
	// Distinct from validation so callers can offer another time.
	ErrConflict = errors.New("conflicting booking for this professional")

	ErrNotFound = errors.New("not found")
)
