package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medcourier/tracking/internal/core/domain"
	"github.com/medcourier/tracking/internal/core/geo"
	"github.com/medcourier/tracking/internal/core/ports"
)

// TimestampPolicy selects which clock the acceptance window is checked
// against. Stored timestamps are always the server's.
type TimestampPolicy string

const (
	// TimestampServerReceipt checks the window against the receive time,
	// which always passes. Use it for clients with unreliable clocks.
	TimestampServerReceipt TimestampPolicy = "server"
	// TimestampClientReported checks the client recorded_at when present
	// and falls back to the receive time otherwise.
	TimestampClientReported TimestampPolicy = "client"
)

// IngestionConfig holds the thresholds of the validation pipeline.
type IngestionConfig struct {
	MaxAge                time.Duration
	FutureTolerance       time.Duration
	TimestampPolicy       TimestampPolicy
	MaxSpeedMPH           float64
	ShortInterval         time.Duration
	ShortIntervalMaxMiles float64
	JitterMiles           float64
	// MaxAttempts bounds re-validation after a store ordering conflict.
	MaxAttempts int
}

// DefaultIngestionConfig returns the production thresholds.
func DefaultIngestionConfig() IngestionConfig {
	return IngestionConfig{
		MaxAge:                12 * time.Hour,
		FutureTolerance:       2 * time.Minute,
		TimestampPolicy:       TimestampClientReported,
		MaxSpeedMPH:           150,
		ShortInterval:         2 * time.Second,
		ShortIntervalMaxMiles: 0.1,
		JitterMiles:           15 / geo.MetersPerMile,
		MaxAttempts:           3,
	}
}

// KeyedExecutor runs fn so that calls sharing a key never overlap.
type KeyedExecutor interface {
	Do(ctx context.Context, key string, fn func(context.Context) error) error
}

// ReplayStore remembers the outcome of submissions carrying an idempotency
// key. Lookup returns nil, nil on a miss.
type ReplayStore interface {
	Lookup(ctx context.Context, k ports.ReplayKey) (*ports.ReplayEntry, error)
	Remember(ctx context.Context, k ports.ReplayKey, entry ports.ReplayEntry) error
}

type ingestionService struct {
	shipments ports.ShipmentRepository
	reports   ports.LocationRepository
	exec      KeyedExecutor
	replay    ReplayStore
	cfg       IngestionConfig
	log       zerolog.Logger
	now       func() time.Time
}

// NewIngestionService returns an IngestionService. replay may be nil.
func NewIngestionService(
	shipments ports.ShipmentRepository,
	reports ports.LocationRepository,
	exec KeyedExecutor,
	replay ReplayStore,
	cfg IngestionConfig,
	log zerolog.Logger,
) ports.IngestionService {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &ingestionService{
		shipments: shipments,
		reports:   reports,
		exec:      exec,
		replay:    replay,
		cfg:       cfg,
		log:       log,
		now:       utcNow,
	}
}

// Submit runs the validation pipeline for one report. Reports for the same
// shipment are processed one at a time.
func (s *ingestionService) Submit(ctx context.Context, actor domain.Actor, in ports.LocationInput) (*ports.SubmitResult, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var result *ports.SubmitResult
	err := s.exec.Do(ctx, in.ShipmentID, func(ctx context.Context) error {
		if s.replayable(in) {
			// A remembered outcome is only served to a caller who could
			// submit right now.
			if _, err := s.admit(ctx, actor, in.ShipmentID); err != nil {
				return err
			}
			prev, err := s.lookupReplay(ctx, actor, in)
			if err != nil {
				return err
			}
			if prev != nil {
				result = prev
				return nil
			}
		}

		res, err := s.ingest(ctx, actor, in)
		if err != nil {
			return err
		}
		s.rememberReplay(ctx, actor, in, res)
		result = res
		return nil
	})
	if err != nil {
		s.log.Debug().Err(err).
			Str("shipment_id", in.ShipmentID).
			Str("driver_id", actor.ID).
			Msg("location report rejected")
		return nil, err
	}

	s.log.Debug().
		Str("shipment_id", in.ShipmentID).
		Str("outcome", string(result.Outcome)).
		Bool("replayed", result.Replayed).
		Msg("location report processed")
	return result, nil
}

// SubmitBatch submits buffered reports in order. Each item carries its own
// outcome; only context cancellation aborts the batch.
func (s *ingestionService) SubmitBatch(ctx context.Context, actor domain.Actor, shipmentID string, in []ports.LocationInput) ([]ports.BatchItemResult, error) {
	results := make([]ports.BatchItemResult, 0, len(in))
	for i, item := range in {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		item.ShipmentID = shipmentID
		res, err := s.Submit(ctx, actor, item)
		results = append(results, ports.BatchItemResult{Index: i, Result: res, Err: err})
	}
	return results, nil
}

// ingest re-runs the pipeline when the store reports that another writer
// appended between our read of the latest report and our insert.
func (s *ingestionService) ingest(ctx context.Context, actor domain.Actor, in ports.LocationInput) (*ports.SubmitResult, error) {
	for attempt := 1; ; attempt++ {
		res, err := s.runPipeline(ctx, actor, in)
		if !errors.Is(err, domain.ErrOutOfOrderReport) {
			return res, err
		}
		if attempt >= s.cfg.MaxAttempts {
			return nil, fmt.Errorf("ingest: %w", domain.ErrConcurrentSubmission)
		}
		s.log.Warn().
			Str("shipment_id", in.ShipmentID).
			Int("attempt", attempt).
			Msg("concurrent append detected, re-validating")
	}
}

func (s *ingestionService) runPipeline(ctx context.Context, actor domain.Actor, in ports.LocationInput) (*ports.SubmitResult, error) {
	// 1-2. Authorization and shipment state.
	if _, err := s.admit(ctx, actor, in.ShipmentID); err != nil {
		return nil, err
	}

	// 3. Timestamp window.
	now := s.now()
	if err := s.checkTimestamp(in, now); err != nil {
		return nil, err
	}

	// 4-6. Plausibility against the latest accepted report.
	latest, err := s.reports.Latest(ctx, in.ShipmentID)
	if err != nil {
		return nil, fmt.Errorf("ingest: latest report: %w", err)
	}

	point := domain.Coordinates{Lat: in.Latitude, Lng: in.Longitude}
	at := now
	seq := int64(1)
	if latest != nil {
		if at.Before(latest.Timestamp) {
			at = latest.Timestamp
		}
		seq = latest.Seq + 1

		from, to, err := s.cfg.movementInterval(latest, in.RecordedAt, at)
		if err != nil {
			return nil, err
		}
		m := s.cfg.assessMovement(latest, point, from, to)
		switch m.verdict {
		case verdictImplausible:
			return nil, fmt.Errorf("%w: %s", domain.ErrImplausibleMovement, m.reason)
		case verdictJitter:
			return &ports.SubmitResult{
				Outcome:   ports.OutcomeIgnored,
				Latitude:  in.Latitude,
				Longitude: in.Longitude,
			}, nil
		}
	}

	// 7. Persist.
	report := &domain.LocationReport{
		ID:         uuid.NewString(),
		ShipmentID: in.ShipmentID,
		DriverID:   actor.ID,
		Seq:        seq,
		Latitude:   in.Latitude,
		Longitude:  in.Longitude,
		Accuracy:   in.Accuracy,
		Heading:    in.Heading,
		Speed:      in.Speed,
		Altitude:   in.Altitude,
		RecordedAt: in.RecordedAt,
		Timestamp:  at,
	}
	if err := s.reports.Append(ctx, report); err != nil {
		return nil, fmt.Errorf("ingest: append: %w", err)
	}

	ts := report.Timestamp
	return &ports.SubmitResult{
		Outcome:   ports.OutcomeAccepted,
		ReportID:  report.ID,
		Latitude:  report.Latitude,
		Longitude: report.Longitude,
		Timestamp: &ts,
	}, nil
}

// admit loads the shipment and checks that actor may submit to it now.
func (s *ingestionService) admit(ctx context.Context, actor domain.Actor, shipmentID string) (*domain.Shipment, error) {
	shipment, err := s.shipments.FindByID(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	if err := authorizeSubmission(actor, shipment); err != nil {
		return nil, err
	}
	if err := checkAccepting(shipment); err != nil {
		return nil, err
	}
	return shipment, nil
}

func (s *ingestionService) checkTimestamp(in ports.LocationInput, now time.Time) error {
	effective := now
	if s.cfg.TimestampPolicy == TimestampClientReported && in.RecordedAt != nil {
		effective = in.RecordedAt.UTC()
	}
	if now.Sub(effective) > s.cfg.MaxAge {
		return domain.Invalid(domain.ErrStaleReport)
	}
	if effective.Sub(now) > s.cfg.FutureTolerance {
		return domain.Invalid(domain.ErrFutureReport)
	}
	return nil
}

func (s *ingestionService) replayable(in ports.LocationInput) bool {
	return s.replay != nil && in.IdempotencyKey != ""
}

func replayKey(actor domain.Actor, in ports.LocationInput) ports.ReplayKey {
	return ports.ReplayKey{ShipmentID: in.ShipmentID, DriverID: actor.ID, Key: in.IdempotencyKey}
}

// lookupReplay returns the remembered outcome for the key, or nil when there
// is none or the store is unavailable. A key reused for a different sample
// is rejected.
func (s *ingestionService) lookupReplay(ctx context.Context, actor domain.Actor, in ports.LocationInput) (*ports.SubmitResult, error) {
	entry, err := s.replay.Lookup(ctx, replayKey(actor, in))
	if err != nil {
		s.log.Warn().Err(err).Str("shipment_id", in.ShipmentID).Msg("replay lookup failed, processing anyway")
		return nil, nil
	}
	if entry == nil {
		return nil, nil
	}
	if entry.Fingerprint != fingerprint(in) {
		return nil, domain.Invalid(domain.ErrIdempotencyReuse)
	}
	res := entry.Result
	res.Replayed = true
	return &res, nil
}

func (s *ingestionService) rememberReplay(ctx context.Context, actor domain.Actor, in ports.LocationInput, res *ports.SubmitResult) {
	if !s.replayable(in) {
		return
	}
	entry := ports.ReplayEntry{Fingerprint: fingerprint(in), Result: *res}
	if err := s.replay.Remember(ctx, replayKey(actor, in), entry); err != nil {
		s.log.Warn().Err(err).Str("shipment_id", in.ShipmentID).Msg("failed to store replay result")
	}
}

// fingerprint identifies the sample an idempotency key was first used for.
func fingerprint(in ports.LocationInput) string {
	h := sha256.New()
	writeFloat := func(v float64) { h.Write([]byte(strconv.FormatFloat(v, 'g', -1, 64) + "|")) }
	writeOpt := func(v *float64) {
		if v == nil {
			h.Write([]byte("-|"))
			return
		}
		writeFloat(*v)
	}
	writeFloat(in.Latitude)
	writeFloat(in.Longitude)
	writeOpt(in.Accuracy)
	writeOpt(in.Heading)
	writeOpt(in.Speed)
	writeOpt(in.Altitude)
	if in.RecordedAt != nil {
		h.Write([]byte(in.RecordedAt.UTC().Format(time.RFC3339Nano)))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// authorizeSubmission admits only the shipment's own assigned driver.
func authorizeSubmission(actor domain.Actor, s *domain.Shipment) error {
	if !actor.IsDriver() || actor.ID == "" {
		return domain.ErrForbidden
	}
	if !s.HasDriver() {
		return domain.Invalid(domain.ErrNoDriverAssigned)
	}
	if !s.IsAssignedTo(actor.ID) {
		return domain.ErrForbidden
	}
	return nil
}

func checkAccepting(s *domain.Shipment) error {
	if s.Status.IsTerminal() {
		return domain.Invalid(domain.ErrShipmentTerminal)
	}
	if !s.TrackingEnabled {
		return domain.Invalid(domain.ErrTrackingDisabled)
	}
	return nil
}

func validateInput(in ports.LocationInput) error {
	if !(domain.Coordinates{Lat: in.Latitude, Lng: in.Longitude}).Valid() {
		return domain.Invalid(domain.ErrInvalidCoordinates)
	}
	if in.Heading != nil && !inRange(*in.Heading, 0, 360) {
		return domain.Invalid(fmt.Errorf("%w: heading must be within [0, 360]", domain.ErrInvalidReading))
	}
	if in.Speed != nil && !inRange(*in.Speed, 0, math.MaxFloat64) {
		return domain.Invalid(fmt.Errorf("%w: speed must not be negative", domain.ErrInvalidReading))
	}
	if in.Accuracy != nil && !inRange(*in.Accuracy, 0, math.MaxFloat64) {
		return domain.Invalid(fmt.Errorf("%w: accuracy must not be negative", domain.ErrInvalidReading))
	}
	if in.Altitude != nil && (math.IsNaN(*in.Altitude) || math.IsInf(*in.Altitude, 0)) {
		return domain.Invalid(fmt.Errorf("%w: altitude must be finite", domain.ErrInvalidReading))
	}
	return nil
}

func inRange(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v <= hi
}
