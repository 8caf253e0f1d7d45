package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound           = errors.New("resource not found")
	ErrAssessmentNotFound = fmt.Errorf("%w: assessment", ErrNotFound)

	// Precondition errors raised at the signal-extraction boundary
	ErrMalformedObservation = errors.New("malformed observation")
	ErrUnknownSpeedTier     = fmt.Errorf("%w: unknown speed tier", ErrMalformedObservation)
	ErrUnknownColor         = fmt.Errorf("%w: unknown color", ErrMalformedObservation)
)

// Error constructors with context
func NewMalformedObservationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformedObservation, field, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsMalformedObservation(err error) bool {
	return errors.Is(err, ErrMalformedObservation)
}
