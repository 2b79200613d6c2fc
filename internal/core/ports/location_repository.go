package ports

import (
	"context"

	"github.com/medcourier/tracking/internal/core/domain"
)

// LocationRepository is the append-only point store. There is deliberately no
// update or delete: retention is handled outside this service.
type LocationRepository interface {
	// Latest returns the most recent accepted report, or nil when the
	// shipment has none.
	Latest(ctx context.Context, shipmentID string) (*domain.LocationReport, error)

	// Append inserts r. r.Seq must be exactly one past the current latest
	// sequence and r.Timestamp must not precede the latest timestamp;
	// otherwise domain.ErrOutOfOrderReport is returned and nothing is stored.
	Append(ctx context.Context, r *domain.LocationReport) error

	// History returns every accepted report in ascending order.
	History(ctx context.Context, shipmentID string) ([]domain.LocationReport, error)

	Count(ctx context.Context, shipmentID string) (int64, error)
}
