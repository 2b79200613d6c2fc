package domain

import (
	"errors"
	"fmt"
)

var (
	ErrShipmentNotFound = errors.New("shipment not found")
	ErrForbidden        = errors.New("access forbidden")

	// ErrValidation is the category for malformed input and operations
	// forbidden by the current shipment or tracking state. It is always
	// joined with a more specific reason below.
	ErrValidation = errors.New("validation failed")

	ErrInvalidCoordinates = errors.New("coordinates out of range")
	ErrInvalidReading     = errors.New("sensor reading out of range")
	ErrShipmentTerminal   = errors.New("shipment is in a terminal state")
	ErrTrackingDisabled   = errors.New("tracking is disabled for this shipment")
	ErrNoDriverAssigned   = errors.New("no driver assigned to shipment")
	ErrStaleReport        = errors.New("report timestamp is too old")
	ErrFutureReport       = errors.New("report timestamp is in the future")
	ErrRecordedOutOfOrder = errors.New("recorded_at precedes the latest report")
	ErrIdempotencyReuse   = errors.New("idempotency key reused with a different payload")

	// ErrImplausibleMovement marks a report whose implied speed or jump
	// distance is not physically realistic.
	ErrImplausibleMovement = errors.New("implausible movement")

	// ErrOutOfOrderReport is returned by the point store when an append would
	// not extend the current latest report.
	ErrOutOfOrderReport = errors.New("report would precede the latest stored report")

	// ErrConcurrentSubmission is returned when re-validation after store
	// conflicts did not converge. Safe to resend.
	ErrConcurrentSubmission = errors.New("concurrent submission, retry")

	ErrFacilityNotFound = errors.New("facility not found")
)

// Invalid wraps reason so it matches both ErrValidation and reason.
func Invalid(reason error) error {
	return fmt.Errorf("%w: %w", ErrValidation, reason)
}
