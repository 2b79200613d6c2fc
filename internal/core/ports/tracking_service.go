package ports

import (
	"context"
	"time"

	"github.com/medcourier/tracking/internal/core/domain"
)

// TrackingState is the result of a tracking toggle.
type TrackingState struct {
	ShipmentID string
	Enabled    bool
	StartedAt  *time.Time
}

// TrackingService governs whether a shipment accepts location reports.
type TrackingService interface {
	EnableTracking(ctx context.Context, actor domain.Actor, shipmentID string) (*TrackingState, error)
	DisableTracking(ctx context.Context, actor domain.Actor, shipmentID string) (*TrackingState, error)
	SetTracking(ctx context.Context, actor domain.Actor, shipmentID string, enabled bool) (*TrackingState, error)
}
