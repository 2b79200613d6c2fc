package memory

import (
	"context"
	"sync"
	"time"

	"github.com/medcourier/tracking/internal/core/domain"
)

// FacilityRepository keeps facilities in a map.
type FacilityRepository struct {
	mu   sync.RWMutex
	byID map[string]*domain.Facility
}

func NewFacilityRepository() *FacilityRepository {
	return &FacilityRepository{byID: make(map[string]*domain.Facility)}
}

// Put inserts or replaces a facility.
func (r *FacilityRepository) Put(f *domain.Facility) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *f
	r.byID[f.ID] = &c
}

func (r *FacilityRepository) FindByIDs(_ context.Context, ids []string) (map[string]*domain.Facility, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]*domain.Facility, len(ids))
	for _, id := range ids {
		if f, ok := r.byID[id]; ok {
			c := *f
			out[id] = &c
		}
	}
	return out, nil
}

func (r *FacilityRepository) SaveCoordinates(_ context.Context, id string, c domain.Coordinates, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.byID[id]
	if !ok {
		return domain.ErrFacilityNotFound
	}
	f.Coordinates = &c
	t := at.UTC()
	f.GeocodedAt = &t
	return nil
}
