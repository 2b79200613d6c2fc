package handler

import (
	"errors"
	"net/http"

	"github.com/medcourier/tracking/internal/core/domain"
)

// ErrorStatus maps a domain error to its HTTP status and the message shown to
// the client. known is false for errors that must not be exposed.
func ErrorStatus(err error) (code int, msg string, known bool) {
	switch {
	case errors.Is(err, domain.ErrShipmentNotFound):
		return http.StatusNotFound, "shipment not found", true
	case errors.Is(err, domain.ErrFacilityNotFound):
		return http.StatusNotFound, "facility not found", true
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden", true
	// Checked before ErrNoDriverAssigned: a validation error may wrap it.
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, err.Error(), true
	case errors.Is(err, domain.ErrNoDriverAssigned):
		return http.StatusPreconditionFailed, err.Error(), true
	case errors.Is(err, domain.ErrImplausibleMovement):
		return http.StatusConflict, err.Error(), true
	case errors.Is(err, domain.ErrConcurrentSubmission), errors.Is(err, domain.ErrOutOfOrderReport):
		return http.StatusConflict, domain.ErrConcurrentSubmission.Error(), true
	}
	return http.StatusInternalServerError, "internal server error", false
}

// rejectionReason is the metrics label for a failed submission.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrShipmentNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrInvalidCoordinates):
		return "invalid_coordinates"
	case errors.Is(err, domain.ErrInvalidReading):
		return "invalid_reading"
	case errors.Is(err, domain.ErrShipmentTerminal):
		return "terminal"
	case errors.Is(err, domain.ErrTrackingDisabled):
		return "tracking_disabled"
	case errors.Is(err, domain.ErrNoDriverAssigned):
		return "no_driver"
	case errors.Is(err, domain.ErrStaleReport):
		return "stale"
	case errors.Is(err, domain.ErrFutureReport):
		return "future"
	case errors.Is(err, domain.ErrRecordedOutOfOrder):
		return "recorded_out_of_order"
	case errors.Is(err, domain.ErrIdempotencyReuse):
		return "idempotency_conflict"
	case errors.Is(err, domain.ErrImplausibleMovement):
		return "implausible_movement"
	case errors.Is(err, domain.ErrConcurrentSubmission):
		return "concurrent"
	}
	return "internal"
}
