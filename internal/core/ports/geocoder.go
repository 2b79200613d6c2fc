package ports

import (
	"context"

	"github.com/medcourier/tracking/internal/core/domain"
)

// Geocoder resolves a postal address to coordinates. Every call may fail
// independently; callers bound it with their own deadline.
type Geocoder interface {
	Geocode(ctx context.Context, addr domain.Address) (domain.Coordinates, error)
}
