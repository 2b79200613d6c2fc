package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/medcourier/tracking/internal/core/domain"
	"github.com/medcourier/tracking/internal/core/geo"
	"github.com/medcourier/tracking/internal/core/ports"
)

// ViewConfig bounds the geocoding fan-out of the tracking view.
type ViewConfig struct {
	GeocodeTimeout     time.Duration
	GeocodeConcurrency int
}

// DefaultViewConfig returns a 5s per-lookup timeout and 8 parallel lookups.
func DefaultViewConfig() ViewConfig {
	return ViewConfig{GeocodeTimeout: 5 * time.Second, GeocodeConcurrency: 8}
}

type viewService struct {
	shipments  ports.ShipmentRepository
	reports    ports.LocationRepository
	facilities ports.FacilityRepository
	geocoder   ports.Geocoder
	cfg        ViewConfig
	log        zerolog.Logger
	now        func() time.Time
}

// NewViewService returns a ViewService implementation.
func NewViewService(
	shipments ports.ShipmentRepository,
	reports ports.LocationRepository,
	facilities ports.FacilityRepository,
	geocoder ports.Geocoder,
	cfg ViewConfig,
	log zerolog.Logger,
) ports.ViewService {
	if cfg.GeocodeTimeout <= 0 {
		cfg.GeocodeTimeout = DefaultViewConfig().GeocodeTimeout
	}
	if cfg.GeocodeConcurrency <= 0 {
		cfg.GeocodeConcurrency = DefaultViewConfig().GeocodeConcurrency
	}
	return &viewService{
		shipments:  shipments,
		reports:    reports,
		facilities: facilities,
		geocoder:   geocoder,
		cfg:        cfg,
		log:        log,
		now:        utcNow,
	}
}

// GetTrackingView assembles the view. Waypoint geocoding and individual
// history records degrade to missing fields instead of failing the call.
func (s *viewService) GetTrackingView(ctx context.Context, actor domain.Actor, shipmentID string) (*ports.TrackingView, error) {
	shipment, err := s.shipments.FindByID(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("tracking view: %w", err)
	}
	if !canView(actor, shipment) {
		return nil, domain.ErrForbidden
	}

	view := &ports.TrackingView{
		ShipmentID: shipment.ID,
		Status:     shipment.Status,
		Enabled:    shipment.TrackingEnabled,
		Reports:    []ports.ReportView{},
		ETAStatus:  ports.ETAUnavailable,
	}
	if shipment.TrackingEnabled && shipment.TrackingStartedAt != nil {
		t := shipment.TrackingStartedAt.UTC()
		view.StartedAt = &t
	}

	view.Waypoints = s.resolveWaypoints(ctx, shipment)

	if shipment.TrackingEnabled {
		history, err := s.reports.History(ctx, shipmentID)
		if err != nil {
			return nil, fmt.Errorf("tracking view: history: %w", err)
		}
		reports, dropped := collect(history, toReportView)
		if dropped > 0 {
			s.log.Warn().Str("shipment_id", shipmentID).Int("dropped", dropped).Msg("skipped malformed location reports")
		}
		view.Reports = reports
		view.ReportCount = int64(len(history))
		if n, err := s.reports.Count(ctx, shipmentID); err == nil {
			view.ReportCount = n
		} else {
			s.log.Warn().Err(err).Str("shipment_id", shipmentID).Msg("report count failed")
		}
		if n := len(reports); n > 0 {
			latest := reports[n-1]
			view.Latest = &latest
		}
	}

	s.estimateArrival(shipment, view)
	return view, nil
}

// estimateArrival fills distance and ETA from the latest report to the final
// dropoff.
func (s *viewService) estimateArrival(shipment *domain.Shipment, view *ports.TrackingView) {
	dest, ok := shipment.FinalDropoff()
	if !ok || view.Latest == nil {
		return
	}
	var destCoords *domain.Coordinates
	for _, wp := range view.Waypoints {
		if wp.Sequence == dest.Sequence && wp.FacilityID == dest.FacilityID {
			destCoords = wp.Coordinates
			break
		}
	}
	if destCoords == nil {
		return
	}

	from := domain.Coordinates{Lat: view.Latest.Latitude, Lng: view.Latest.Longitude}
	miles := geo.DistanceMiles(from, *destCoords)
	view.DistanceMiles = &miles
	view.ETAStatus = ports.ETAIndeterminate

	if view.Latest.Speed == nil {
		return
	}
	if eta, ok := geo.TravelTime(miles, *view.Latest.Speed); ok {
		view.ETA = &eta
		view.ETAStatus = ports.ETAAvailable
	}
}

// resolveWaypoints orders the waypoints and attaches coordinates, using the
// facility cache first and geocoding the rest concurrently.
func (s *viewService) resolveWaypoints(ctx context.Context, shipment *domain.Shipment) []ports.WaypointView {
	waypoints := make([]domain.Waypoint, len(shipment.Waypoints))
	copy(waypoints, shipment.Waypoints)
	sort.SliceStable(waypoints, func(i, j int) bool { return waypoints[i].Sequence < waypoints[j].Sequence })

	ids := make([]string, 0, len(waypoints))
	seen := make(map[string]struct{}, len(waypoints))
	for _, wp := range waypoints {
		if _, ok := seen[wp.FacilityID]; ok {
			continue
		}
		seen[wp.FacilityID] = struct{}{}
		ids = append(ids, wp.FacilityID)
	}

	facilities, err := s.facilities.FindByIDs(ctx, ids)
	if err != nil {
		s.log.Warn().Err(err).Str("shipment_id", shipment.ID).Msg("facility lookup failed, waypoints left unresolved")
		facilities = map[string]*domain.Facility{}
	}

	coords := s.coordinatesFor(ctx, ids, facilities)

	views := make([]ports.WaypointView, len(waypoints))
	for i, wp := range waypoints {
		views[i] = ports.WaypointView{
			Sequence:    wp.Sequence,
			Type:        wp.Type,
			FacilityID:  wp.FacilityID,
			Coordinates: coords[wp.FacilityID],
		}
		if f := facilities[wp.FacilityID]; f != nil {
			views[i].FacilityName = f.Name
			views[i].Address = f.Address
		}
	}
	return views
}

func (s *viewService) coordinatesFor(ctx context.Context, ids []string, facilities map[string]*domain.Facility) map[string]*domain.Coordinates {
	out := make(map[string]*domain.Coordinates, len(ids))
	var pending []*domain.Facility
	for _, id := range ids {
		f := facilities[id]
		if f == nil {
			continue
		}
		if f.Coordinates != nil && f.Coordinates.Valid() {
			c := *f.Coordinates
			out[id] = &c
			continue
		}
		pending = append(pending, f)
	}
	if len(pending) == 0 {
		return out
	}

	resolved := make([]*domain.Coordinates, len(pending))
	var g errgroup.Group
	g.SetLimit(s.cfg.GeocodeConcurrency)
	for i, f := range pending {
		g.Go(func() error {
			resolved[i] = s.geocode(ctx, f)
			return nil
		})
	}
	_ = g.Wait()

	for i, f := range pending {
		if resolved[i] != nil {
			out[f.ID] = resolved[i]
		}
	}
	return out
}

// geocode resolves one facility under its own timeout. It never returns an
// error: a failed lookup yields nil.
func (s *viewService) geocode(ctx context.Context, f *domain.Facility) (c *domain.Coordinates) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("recover", r).Str("facility_id", f.ID).Msg("geocoder panic")
			c = nil
		}
	}()

	lookupCtx, cancel := context.WithTimeout(ctx, s.cfg.GeocodeTimeout)
	defer cancel()

	got, err := s.geocoder.Geocode(lookupCtx, f.Address)
	if err != nil {
		s.log.Warn().Err(err).Str("facility_id", f.ID).Msg("geocoding failed")
		return nil
	}
	if !got.Valid() {
		s.log.Warn().Str("facility_id", f.ID).Msg("geocoder returned invalid coordinates")
		return nil
	}

	if err := s.facilities.SaveCoordinates(ctx, f.ID, got, s.now()); err != nil {
		s.log.Warn().Err(err).Str("facility_id", f.ID).Msg("failed to cache facility coordinates")
	}
	return &got
}

func canView(actor domain.Actor, s *domain.Shipment) bool {
	switch actor.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleDriver:
		return s.IsAssignedTo(actor.ID)
	case domain.RoleClient:
		return actor.ID != "" && s.ClientID == actor.ID
	}
	return false
}

func toReportView(r domain.LocationReport) (ports.ReportView, bool) {
	if !r.Point().Valid() || r.Timestamp.IsZero() {
		return ports.ReportView{}, false
	}
	return ports.ReportView{
		ID:        r.ID,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Accuracy:  r.Accuracy,
		Heading:   r.Heading,
		Speed:     r.Speed,
		Altitude:  r.Altitude,
		Timestamp: r.Timestamp.UTC(),
	}, true
}

// collect maps items through fn, keeping only the successes.
func collect[T, V any](items []T, fn func(T) (V, bool)) (out []V, dropped int) {
	out = make([]V, 0, len(items))
	for _, item := range items {
		v, ok := fn(item)
		if !ok {
			dropped++
			continue
		}
		out = append(out, v)
	}
	return out, dropped
}
