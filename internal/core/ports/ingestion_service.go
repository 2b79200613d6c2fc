package ports

import (
	"context"
	"time"

	"github.com/medcourier/tracking/internal/core/domain"
)

// Outcome is the non-error result of a location submission.
type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	// OutcomeIgnored means the movement was within GPS noise. Nothing was
	// stored, and the client should not resend.
	OutcomeIgnored Outcome = "ignored"
)

// LocationInput carries one driver position sample.
type LocationInput struct {
	ShipmentID string
	Latitude   float64
	Longitude  float64
	Accuracy   *float64
	Heading    *float64
	Speed      *float64
	Altitude   *float64
	// RecordedAt is the client clock reading, if the client sent one.
	RecordedAt *time.Time
	// IdempotencyKey lets a client resend the same sample safely.
	IdempotencyKey string
}

// SubmitResult describes an accepted or ignored submission.
type SubmitResult struct {
	Outcome   Outcome    `json:"outcome"`
	ReportID  string     `json:"report_id,omitempty"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	// Replayed is true when the result was served from the idempotency store.
	Replayed bool `json:"-"`
}

// ReplayKey scopes an idempotency key to the shipment and the driver that
// sent it.
type ReplayKey struct {
	ShipmentID string
	DriverID   string
	Key        string
}

// ReplayEntry is a remembered outcome together with the fingerprint of the
// payload that produced it.
type ReplayEntry struct {
	Fingerprint string       `json:"fingerprint"`
	Result      SubmitResult `json:"result"`
}

// BatchItemResult is the outcome of one element of a batch submission.
// Exactly one of Result and Err is set.
type BatchItemResult struct {
	Index  int
	Result *SubmitResult
	Err    error
}

// IngestionService validates and stores driver location reports.
type IngestionService interface {
	Submit(ctx context.Context, actor domain.Actor, in LocationInput) (*SubmitResult, error)
	SubmitBatch(ctx context.Context, actor domain.Actor, shipmentID string, in []LocationInput) ([]BatchItemResult, error)
}
