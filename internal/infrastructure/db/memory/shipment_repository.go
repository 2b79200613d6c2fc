package memory

import (
	"context"
	"sync"
	"time"

	"github.com/medcourier/tracking/internal/core/domain"
)

// ShipmentRepository keeps shipments in a map. Put stands in for the
// external registry that creates and assigns shipments.
type ShipmentRepository struct {
	mu   sync.RWMutex
	byID map[string]*domain.Shipment
}

func NewShipmentRepository() *ShipmentRepository {
	return &ShipmentRepository{byID: make(map[string]*domain.Shipment)}
}

// Put inserts or replaces a shipment.
func (r *ShipmentRepository) Put(s *domain.Shipment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[s.ID] = cloneShipment(s)
}

// SetStatus changes the status of a stored shipment, mirroring a registry
// transition. It reports whether the shipment exists.
func (r *ShipmentRepository) SetStatus(id string, status domain.ShipmentStatus) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if ok {
		s.Status = status
	}
	return ok
}

func (r *ShipmentRepository) FindByID(_ context.Context, id string) (*domain.Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrShipmentNotFound
	}
	return cloneShipment(s), nil
}

func (r *ShipmentRepository) EnableTracking(_ context.Context, id string, startedAt time.Time) (*domain.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok || s.Status.IsTerminal() || !s.HasDriver() {
		return nil, domain.ErrShipmentNotFound
	}
	s.TrackingEnabled = true
	if s.TrackingStartedAt == nil {
		t := startedAt.UTC()
		s.TrackingStartedAt = &t
	}
	return cloneShipment(s), nil
}

func (r *ShipmentRepository) DisableTracking(_ context.Context, id string) (*domain.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok || s.Status.IsTerminal() {
		return nil, domain.ErrShipmentNotFound
	}
	s.TrackingEnabled = false
	s.TrackingStartedAt = nil
	return cloneShipment(s), nil
}

func cloneShipment(s *domain.Shipment) *domain.Shipment {
	c := *s
	if s.TrackingStartedAt != nil {
		t := *s.TrackingStartedAt
		c.TrackingStartedAt = &t
	}
	c.Waypoints = append([]domain.Waypoint(nil), s.Waypoints...)
	return &c
}
