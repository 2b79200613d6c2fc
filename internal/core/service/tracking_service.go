package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/medcourier/tracking/internal/core/domain"
	"github.com/medcourier/tracking/internal/core/ports"
)

// TrackingService toggles the tracking flag of a shipment.
type TrackingService struct {
	repo   ports.ShipmentRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewTrackingService(repo ports.ShipmentRepository, logger zerolog.Logger) *TrackingService {
	return &TrackingService{repo: repo, logger: logger, now: utcNow}
}

// SetTracking enables or disables tracking depending on enabled.
func (s *TrackingService) SetTracking(ctx context.Context, actor domain.Actor, shipmentID string, enabled bool) (*ports.TrackingState, error) {
	if enabled {
		return s.EnableTracking(ctx, actor, shipmentID)
	}
	return s.DisableTracking(ctx, actor, shipmentID)
}

// EnableTracking turns tracking on. Repeated calls keep the original start time.
func (s *TrackingService) EnableTracking(ctx context.Context, actor domain.Actor, shipmentID string) (*ports.TrackingState, error) {
	shipment, err := s.load(ctx, actor, shipmentID)
	if err != nil {
		return nil, err
	}
	if err := checkEnable(shipment); err != nil {
		return nil, err
	}
	if shipment.TrackingEnabled && shipment.TrackingStartedAt != nil {
		return stateOf(shipment), nil
	}

	updated, err := s.repo.EnableTracking(ctx, shipmentID, s.now())
	if err != nil {
		return nil, s.explainRejectedWrite(ctx, shipmentID, err, checkEnable)
	}

	s.logger.Info().
		Str("shipment_id", shipmentID).
		Str("actor_id", actor.ID).
		Str("role", actor.Role).
		Msg("tracking enabled")
	return stateOf(updated), nil
}

// DisableTracking turns tracking off and clears the start time.
func (s *TrackingService) DisableTracking(ctx context.Context, actor domain.Actor, shipmentID string) (*ports.TrackingState, error) {
	shipment, err := s.load(ctx, actor, shipmentID)
	if err != nil {
		return nil, err
	}
	if err := checkDisable(shipment); err != nil {
		return nil, err
	}
	if !shipment.TrackingEnabled && shipment.TrackingStartedAt == nil {
		return stateOf(shipment), nil
	}

	updated, err := s.repo.DisableTracking(ctx, shipmentID)
	if err != nil {
		return nil, s.explainRejectedWrite(ctx, shipmentID, err, checkDisable)
	}

	s.logger.Info().
		Str("shipment_id", shipmentID).
		Str("actor_id", actor.ID).
		Str("role", actor.Role).
		Msg("tracking disabled")
	return stateOf(updated), nil
}

// load fetches the shipment and authorizes actor as admin or assigned driver.
func (s *TrackingService) load(ctx context.Context, actor domain.Actor, shipmentID string) (*domain.Shipment, error) {
	shipment, err := s.repo.FindByID(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("tracking: %w", err)
	}
	if !canToggle(actor, shipment) {
		return nil, domain.ErrForbidden
	}
	return shipment, nil
}

// explainRejectedWrite turns a conditional-write miss into the precondition
// that changed under us.
func (s *TrackingService) explainRejectedWrite(ctx context.Context, shipmentID string, writeErr error, check func(*domain.Shipment) error) error {
	if !errors.Is(writeErr, domain.ErrShipmentNotFound) {
		return fmt.Errorf("tracking: update: %w", writeErr)
	}
	current, err := s.repo.FindByID(ctx, shipmentID)
	if err != nil {
		return fmt.Errorf("tracking: %w", err)
	}
	if err := check(current); err != nil {
		return err
	}
	return fmt.Errorf("tracking: update: %w", writeErr)
}

func canToggle(actor domain.Actor, s *domain.Shipment) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.IsDriver() && s.IsAssignedTo(actor.ID)
}

func checkEnable(s *domain.Shipment) error {
	if s.Status.IsTerminal() {
		return domain.Invalid(domain.ErrShipmentTerminal)
	}
	if !s.HasDriver() {
		return domain.ErrNoDriverAssigned
	}
	return nil
}

// Disabling never needs a driver: with none assigned the flag is already off.
func checkDisable(s *domain.Shipment) error {
	if s.Status.IsTerminal() {
		return domain.Invalid(domain.ErrShipmentTerminal)
	}
	return nil
}

func stateOf(s *domain.Shipment) *ports.TrackingState {
	state := &ports.TrackingState{ShipmentID: s.ID, Enabled: s.TrackingEnabled}
	if s.TrackingEnabled && s.TrackingStartedAt != nil {
		t := s.TrackingStartedAt.UTC()
		state.StartedAt = &t
	}
	return state
}

func utcNow() time.Time { return time.Now().UTC() }
