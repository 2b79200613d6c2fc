// Package memory provides process-local implementations of the storage
// ports, used when STORAGE_DRIVER=memory and by tests.
package memory

import (
	"context"
	"sync"

	"github.com/medcourier/tracking/internal/core/domain"
)

// LocationRepository is an in-memory, append-only point store.
type LocationRepository struct {
	mu         sync.RWMutex
	byShipment map[string][]domain.LocationReport
}

func NewLocationRepository() *LocationRepository {
	return &LocationRepository{byShipment: make(map[string][]domain.LocationReport)}
}

func (r *LocationRepository) Latest(_ context.Context, shipmentID string) (*domain.LocationReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.byShipment[shipmentID]
	if len(list) == 0 {
		return nil, nil
	}
	last := list[len(list)-1]
	return &last, nil
}

// Append stores r if it directly extends the current latest report.
func (r *LocationRepository) Append(_ context.Context, rep *domain.LocationReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.byShipment[rep.ShipmentID]
	wantSeq := int64(1)
	if n := len(list); n > 0 {
		last := list[n-1]
		if rep.Timestamp.Before(last.Timestamp) {
			return domain.ErrOutOfOrderReport
		}
		wantSeq = last.Seq + 1
	}
	if rep.Seq != wantSeq {
		return domain.ErrOutOfOrderReport
	}

	r.byShipment[rep.ShipmentID] = append(list, *rep)
	return nil
}

func (r *LocationRepository) History(_ context.Context, shipmentID string) ([]domain.LocationReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.byShipment[shipmentID]
	out := make([]domain.LocationReport, len(list))
	copy(out, list)
	return out, nil
}

func (r *LocationRepository) Count(_ context.Context, shipmentID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byShipment[shipmentID])), nil
}
