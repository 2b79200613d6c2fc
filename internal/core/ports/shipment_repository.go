package ports

import (
	"context"
	"time"

	"github.com/medcourier/tracking/internal/core/domain"
)

// ShipmentRepository reads shipments from the assignment registry and owns
// the tracking flag. Status and assignment are mutated elsewhere.
type ShipmentRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Shipment, error)

	// EnableTracking sets tracking_enabled and, only when unset, tracking_started_at
	// to startedAt. The write is conditional on a non-terminal status and an
	// assigned driver; when the condition does not hold it returns
	// domain.ErrShipmentNotFound and the caller re-reads to find out why.
	EnableTracking(ctx context.Context, id string, startedAt time.Time) (*domain.Shipment, error)

	// DisableTracking clears tracking_enabled and tracking_started_at, on the
	// same non-terminal condition as EnableTracking.
	DisableTracking(ctx context.Context, id string) (*domain.Shipment, error)
}
