package ports

import (
	"context"
	"time"

	"github.com/medcourier/tracking/internal/core/domain"
)

// FacilityRepository reads facilities and caches geocoded coordinates on them.
type FacilityRepository interface {
	// FindByIDs returns the facilities that exist, keyed by id. Missing ids
	// are simply absent from the map.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Facility, error)
	SaveCoordinates(ctx context.Context, id string, c domain.Coordinates, at time.Time) error
}
