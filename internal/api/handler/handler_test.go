package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medcourier/tracking/internal/api/middleware"
	"github.com/medcourier/tracking/internal/core/domain"
	"github.com/medcourier/tracking/internal/core/ports"
)

// newTestContext builds an echo context for shipment shp-1 carrying the
// claims the Auth middleware would inject.
func newTestContext(method, target, body string, actor domain.Actor) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("shp-1")
	if actor.Role != "" {
		c.Set(middleware.CtxRole, actor.Role)
	}
	if actor.ID != "" {
		c.Set(middleware.CtxUserID, actor.ID)
	}
	return c, rec
}

// statusOf returns the status the HTTP error handler would write for err.
func statusOf(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	code, _, _ := ErrorStatus(err)
	return code
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return body
}

var (
	testDriver = domain.Actor{ID: "drv-1", Role: domain.RoleDriver}
	testAdmin  = domain.Actor{ID: "adm-1", Role: domain.RoleAdmin}
	testTime   = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubIngestion struct {
	submitFn func(ctx context.Context, actor domain.Actor, in ports.LocationInput) (*ports.SubmitResult, error)
	batchFn  func(ctx context.Context, actor domain.Actor, shipmentID string, in []ports.LocationInput) ([]ports.BatchItemResult, error)
}

func (s *stubIngestion) Submit(ctx context.Context, actor domain.Actor, in ports.LocationInput) (*ports.SubmitResult, error) {
	return s.submitFn(ctx, actor, in)
}

func (s *stubIngestion) SubmitBatch(ctx context.Context, actor domain.Actor, shipmentID string, in []ports.LocationInput) ([]ports.BatchItemResult, error) {
	return s.batchFn(ctx, actor, shipmentID, in)
}

type stubTracking struct {
	setFn func(ctx context.Context, actor domain.Actor, shipmentID string, enabled bool) (*ports.TrackingState, error)
}

func (s *stubTracking) EnableTracking(ctx context.Context, actor domain.Actor, shipmentID string) (*ports.TrackingState, error) {
	return s.setFn(ctx, actor, shipmentID, true)
}

func (s *stubTracking) DisableTracking(ctx context.Context, actor domain.Actor, shipmentID string) (*ports.TrackingState, error) {
	return s.setFn(ctx, actor, shipmentID, false)
}

func (s *stubTracking) SetTracking(ctx context.Context, actor domain.Actor, shipmentID string, enabled bool) (*ports.TrackingState, error) {
	return s.setFn(ctx, actor, shipmentID, enabled)
}

type stubView struct {
	getFn func(ctx context.Context, actor domain.Actor, shipmentID string) (*ports.TrackingView, error)
}

func (s *stubView) GetTrackingView(ctx context.Context, actor domain.Actor, shipmentID string) (*ports.TrackingView, error) {
	return s.getFn(ctx, actor, shipmentID)
}

// ---------------------------------------------------------------------------
// LocationHandler
// ---------------------------------------------------------------------------

func TestLocationHandler_Submit_Accepted(t *testing.T) {
	ts := testTime
	stub := &stubIngestion{
		submitFn: func(ctx context.Context, actor domain.Actor, in ports.LocationInput) (*ports.SubmitResult, error) {
			if actor != testDriver {
				t.Fatalf("unexpected actor: %+v", actor)
			}
			if in.ShipmentID != "shp-1" || in.Latitude != 32.7767 || in.Longitude != -96.797 {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.Speed == nil || *in.Speed != 25 {
				t.Fatalf("speed not forwarded: %+v", in.Speed)
			}
			if in.IdempotencyKey != "k-1" {
				t.Fatalf("expected idempotency key from header, got %q", in.IdempotencyKey)
			}
			return &ports.SubmitResult{
				Outcome: ports.OutcomeAccepted, ReportID: "rep-1",
				Latitude: in.Latitude, Longitude: in.Longitude, Timestamp: &ts,
			}, nil
		},
	}
	h := NewLocationHandler(stub, 0)

	c, rec := newTestContext(http.MethodPost, "/v1/shipments/shp-1/locations",
		`{"latitude":32.7767,"longitude":-96.797,"speed":25}`, testDriver)
	c.Request().Header.Set("Idempotency-Key", "k-1")

	if err := h.Submit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["outcome"] != "accepted" || body["id"] != "rep-1" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if body["timestamp"] != "2026-03-10T14:00:00Z" {
		t.Fatalf("unexpected timestamp: %v", body["timestamp"])
	}
}

func TestLocationHandler_Submit_Ignored(t *testing.T) {
	stub := &stubIngestion{
		submitFn: func(ctx context.Context, actor domain.Actor, in ports.LocationInput) (*ports.SubmitResult, error) {
			return &ports.SubmitResult{Outcome: ports.OutcomeIgnored, Latitude: in.Latitude, Longitude: in.Longitude}, nil
		},
	}
	h := NewLocationHandler(stub, 0)

	c, rec := newTestContext(http.MethodPost, "/v1/shipments/shp-1/locations",
		`{"latitude":0,"longitude":0}`, testDriver)

	if err := h.Submit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["outcome"] != "ignored" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if _, ok := body["id"]; ok {
		t.Fatalf("ignored report must not carry an id: %+v", body)
	}
}

func TestLocationHandler_Submit_RejectsBadPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "not json", body: "not-json", want: http.StatusBadRequest},
		{name: "missing latitude", body: `{"longitude":-96.7}`, want: http.StatusUnprocessableEntity},
		{name: "latitude out of range", body: `{"latitude":91,"longitude":-96.7}`, want: http.StatusUnprocessableEntity},
		{name: "longitude out of range", body: `{"latitude":32,"longitude":-181}`, want: http.StatusUnprocessableEntity},
		{name: "negative speed", body: `{"latitude":32,"longitude":-96,"speed":-1}`, want: http.StatusUnprocessableEntity},
		{name: "heading above 360", body: `{"latitude":32,"longitude":-96,"heading":361}`, want: http.StatusUnprocessableEntity},
		{name: "negative accuracy", body: `{"latitude":32,"longitude":-96,"accuracy":-5}`, want: http.StatusUnprocessableEntity},
	}

	stub := &stubIngestion{
		submitFn: func(ctx context.Context, actor domain.Actor, in ports.LocationInput) (*ports.SubmitResult, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewLocationHandler(stub, 0)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(http.MethodPost, "/v1/shipments/shp-1/locations", tt.body, testDriver)
			err := h.Submit(c)
			if err == nil {
				t.Fatalf("expected error")
			}
			if got := statusOf(err); got != tt.want {
				t.Fatalf("expected %d, got %d (%v)", tt.want, got, err)
			}
		})
	}
}

func TestLocationHandler_Submit_ValidationMessageUsesJSONNames(t *testing.T) {
	h := NewLocationHandler(&stubIngestion{}, 0)

	c, _ := newTestContext(http.MethodPost, "/v1/shipments/shp-1/locations", `{"latitude":95,"longitude":10}`, testDriver)
	err := h.Submit(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected echo.HTTPError, got %v", err)
	}
	if msg := fmt.Sprint(he.Message); msg != "latitude must be a valid latitude" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestLocationHandler_Submit_ServiceErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: fmt.Errorf("ingest: %w", domain.ErrShipmentNotFound), want: http.StatusNotFound},
		{name: "forbidden", err: domain.ErrForbidden, want: http.StatusForbidden},
		{name: "tracking disabled", err: domain.Invalid(domain.ErrTrackingDisabled), want: http.StatusUnprocessableEntity},
		{name: "stale", err: domain.Invalid(domain.ErrStaleReport), want: http.StatusUnprocessableEntity},
		{name: "implausible", err: fmt.Errorf("%w: too fast", domain.ErrImplausibleMovement), want: http.StatusConflict},
		{name: "concurrent", err: fmt.Errorf("ingest: %w", domain.ErrConcurrentSubmission), want: http.StatusConflict},
		{name: "unexpected", err: errors.New("mongo: connection reset"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubIngestion{
				submitFn: func(ctx context.Context, actor domain.Actor, in ports.LocationInput) (*ports.SubmitResult, error) {
					return nil, tt.err
				},
			}
			h := NewLocationHandler(stub, 0)
			c, _ := newTestContext(http.MethodPost, "/v1/shipments/shp-1/locations",
				`{"latitude":32,"longitude":-96}`, testDriver)

			err := h.Submit(c)
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
			if got := statusOf(err); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestLocationHandler_Submit_MissingClaims(t *testing.T) {
	h := NewLocationHandler(&stubIngestion{}, 0)

	for name, actor := range map[string]domain.Actor{
		"no role":    {ID: "drv-1"},
		"no user id": {Role: domain.RoleDriver},
	} {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestContext(http.MethodPost, "/v1/shipments/shp-1/locations", `{"latitude":1,"longitude":1}`, actor)
			if got := statusOf(h.Submit(c)); got != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", got)
			}
		})
	}
}

func TestLocationHandler_SubmitBatch(t *testing.T) {
	ts := testTime
	stub := &stubIngestion{
		batchFn: func(ctx context.Context, actor domain.Actor, shipmentID string, in []ports.LocationInput) ([]ports.BatchItemResult, error) {
			if shipmentID != "shp-1" || len(in) != 3 {
				t.Fatalf("unexpected batch: %s %d", shipmentID, len(in))
			}
			if in[1].IdempotencyKey != "b" {
				t.Fatalf("item idempotency key not forwarded: %+v", in[1])
			}
			return []ports.BatchItemResult{
				{Index: 0, Result: &ports.SubmitResult{Outcome: ports.OutcomeAccepted, ReportID: "rep-1", Timestamp: &ts}},
				{Index: 1, Result: &ports.SubmitResult{Outcome: ports.OutcomeIgnored}},
				{Index: 2, Err: fmt.Errorf("%w: too fast", domain.ErrImplausibleMovement)},
			}, nil
		},
	}
	h := NewLocationHandler(stub, 0)

	body := `{"reports":[
		{"latitude":32.70,"longitude":-96.80,"idempotency_key":"a"},
		{"latitude":32.70,"longitude":-96.80,"idempotency_key":"b"},
		{"latitude":40.71,"longitude":-74.00,"idempotency_key":"c"}
	]}`
	c, rec := newTestContext(http.MethodPost, "/v1/shipments/shp-1/locations/batch", body, testDriver)

	if err := h.SubmitBatch(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp batchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Accepted != 1 || resp.Ignored != 1 || resp.Rejected != 1 {
		t.Fatalf("unexpected counts: %+v", resp)
	}
	if len(resp.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(resp.Results))
	}
	if r := resp.Results[0]; r.Outcome != "accepted" || r.ReportID != "rep-1" {
		t.Fatalf("unexpected first result: %+v", r)
	}
	if r := resp.Results[2]; r.Status != http.StatusConflict || r.Error == "" || r.Outcome != "" {
		t.Fatalf("unexpected rejected result: %+v", r)
	}
}

func TestLocationHandler_SubmitBatch_Limits(t *testing.T) {
	stub := &stubIngestion{
		batchFn: func(ctx context.Context, actor domain.Actor, shipmentID string, in []ports.LocationInput) ([]ports.BatchItemResult, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewLocationHandler(stub, 2)

	tests := []struct {
		name string
		body string
	}{
		{name: "empty", body: `{"reports":[]}`},
		{name: "too many", body: `{"reports":[{"latitude":1,"longitude":1},{"latitude":1,"longitude":1},{"latitude":1,"longitude":1}]}`},
		{name: "invalid item", body: `{"reports":[{"latitude":1,"longitude":1},{"latitude":1,"longitude":200}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(http.MethodPost, "/v1/shipments/shp-1/locations/batch", tt.body, testDriver)
			if got := statusOf(h.SubmitBatch(c)); got != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d", got)
			}
		})
	}
}

func TestLocationHandler_SubmitBatch_InvalidItemNamesIndex(t *testing.T) {
	h := NewLocationHandler(&stubIngestion{}, 0)

	c, _ := newTestContext(http.MethodPost, "/v1/shipments/shp-1/locations/batch",
		`{"reports":[{"latitude":1,"longitude":1},{"latitude":1,"longitude":200}]}`, testDriver)
	err := h.SubmitBatch(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected echo.HTTPError, got %v", err)
	}
	if msg := fmt.Sprint(he.Message); msg != "reports[1].longitude must be a valid longitude" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

// ---------------------------------------------------------------------------
// TrackingHandler
// ---------------------------------------------------------------------------

func TestTrackingHandler_Set(t *testing.T) {
	started := testTime
	tests := []struct {
		name    string
		body    string
		enabled bool
		state   *ports.TrackingState
	}{
		{
			name: "enable", body: `{"enabled":true}`, enabled: true,
			state: &ports.TrackingState{ShipmentID: "shp-1", Enabled: true, StartedAt: &started},
		},
		{
			name: "disable", body: `{"enabled":false}`, enabled: false,
			state: &ports.TrackingState{ShipmentID: "shp-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubTracking{
				setFn: func(ctx context.Context, actor domain.Actor, shipmentID string, enabled bool) (*ports.TrackingState, error) {
					if actor != testAdmin || shipmentID != "shp-1" || enabled != tt.enabled {
						t.Fatalf("unexpected args: %+v %s %v", actor, shipmentID, enabled)
					}
					return tt.state, nil
				},
			}
			h := NewTrackingHandler(stub)
			c, rec := newTestContext(http.MethodPut, "/v1/shipments/shp-1/tracking", tt.body, testAdmin)

			if err := h.Set(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			body := decode(t, rec)
			if body["enabled"] != tt.enabled {
				t.Fatalf("unexpected body: %+v", body)
			}
			startedAt, present := body["started_at"]
			if !present {
				t.Fatalf("started_at must always be present: %+v", body)
			}
			if tt.enabled && startedAt != "2026-03-10T14:00:00Z" {
				t.Fatalf("unexpected started_at: %v", startedAt)
			}
			if !tt.enabled && startedAt != nil {
				t.Fatalf("disabled tracking must report a null started_at, got %v", startedAt)
			}
		})
	}
}

func TestTrackingHandler_Set_RequiresEnabled(t *testing.T) {
	stub := &stubTracking{
		setFn: func(ctx context.Context, actor domain.Actor, shipmentID string, enabled bool) (*ports.TrackingState, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewTrackingHandler(stub)

	c, _ := newTestContext(http.MethodPut, "/v1/shipments/shp-1/tracking", `{}`, testAdmin)
	if got := statusOf(h.Set(c)); got != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", got)
	}
}

func TestTrackingHandler_Set_ServiceErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "no driver", err: domain.ErrNoDriverAssigned, want: http.StatusPreconditionFailed},
		{name: "terminal", err: domain.Invalid(domain.ErrShipmentTerminal), want: http.StatusUnprocessableEntity},
		{name: "forbidden", err: domain.ErrForbidden, want: http.StatusForbidden},
		{name: "not found", err: domain.ErrShipmentNotFound, want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubTracking{
				setFn: func(ctx context.Context, actor domain.Actor, shipmentID string, enabled bool) (*ports.TrackingState, error) {
					return nil, tt.err
				},
			}
			h := NewTrackingHandler(stub)
			c, _ := newTestContext(http.MethodPut, "/v1/shipments/shp-1/tracking", `{"enabled":true}`, testDriver)

			if got := statusOf(h.Set(c)); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// ViewHandler
// ---------------------------------------------------------------------------

func TestViewHandler_Get(t *testing.T) {
	started := testTime
	speed := 30.0
	miles := 15.0
	eta := 30 * time.Minute
	latest := ports.ReportView{ID: "rep-2", Latitude: 32.78, Longitude: -96.85, Speed: &speed, Timestamp: testTime.Add(5 * time.Minute)}

	stub := &stubView{
		getFn: func(ctx context.Context, actor domain.Actor, shipmentID string) (*ports.TrackingView, error) {
			if actor.Role != domain.RoleClient || shipmentID != "shp-1" {
				t.Fatalf("unexpected args: %+v %s", actor, shipmentID)
			}
			return &ports.TrackingView{
				ShipmentID: "shp-1",
				Status:     domain.StatusInTransit,
				Enabled:    true,
				StartedAt:  &started,
				Waypoints: []ports.WaypointView{
					{Sequence: 1, Type: domain.WaypointPickup, FacilityID: "fac-lab", FacilityName: "Central Lab",
						Coordinates: &domain.Coordinates{Lat: 32.7767, Lng: -96.797}},
					{Sequence: 2, Type: domain.WaypointDropoff, FacilityID: "fac-hospital", FacilityName: "County Hospital"},
				},
				Reports:       []ports.ReportView{latest},
				ReportCount:   1,
				Latest:        &latest,
				DistanceMiles: &miles,
				ETA:           &eta,
				ETAStatus:     ports.ETAAvailable,
			}, nil
		},
	}
	h := NewViewHandler(stub)
	h.now = func() time.Time { return testTime.Add(10 * time.Minute) }

	c, rec := newTestContext(http.MethodGet, "/v1/shipments/shp-1/tracking", "", domain.Actor{ID: "clinic-1", Role: domain.RoleClient})

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Fatalf("expected no-store, got %q", cc)
	}

	var resp trackingViewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Enabled || resp.Status != "IN_TRANSIT" || resp.ReportCount != 1 {
		t.Fatalf("unexpected view: %+v", resp)
	}
	if len(resp.Waypoints) != 2 || resp.Waypoints[0].Coordinates == nil || resp.Waypoints[1].Coordinates != nil {
		t.Fatalf("unexpected waypoints: %+v", resp.Waypoints)
	}
	if resp.Latest == nil || resp.Latest.ID != "rep-2" {
		t.Fatalf("unexpected latest: %+v", resp.Latest)
	}
	if resp.ETA.Status != "available" || resp.ETA.Seconds == nil || *resp.ETA.Seconds != 1800 {
		t.Fatalf("unexpected eta: %+v", resp.ETA)
	}
	if want := testTime.Add(40 * time.Minute); resp.ETA.EstimatedAt == nil || !resp.ETA.EstimatedAt.Equal(want) {
		t.Fatalf("expected arrival %s, got %v", want, resp.ETA.EstimatedAt)
	}
}

func TestViewHandler_Get_EmptyViewUsesEmptyArrays(t *testing.T) {
	stub := &stubView{
		getFn: func(ctx context.Context, actor domain.Actor, shipmentID string) (*ports.TrackingView, error) {
			return &ports.TrackingView{
				ShipmentID: "shp-1",
				Status:     domain.StatusScheduled,
				Reports:    []ports.ReportView{},
				ETAStatus:  ports.ETAUnavailable,
			}, nil
		},
	}
	h := NewViewHandler(stub)
	c, rec := newTestContext(http.MethodGet, "/v1/shipments/shp-1/tracking", "", testAdmin)

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	body := decode(t, rec)
	if reports, ok := body["reports"].([]any); !ok || len(reports) != 0 {
		t.Fatalf("expected empty reports array, got %v", body["reports"])
	}
	if body["latest"] != nil || body["distance_miles"] != nil {
		t.Fatalf("expected null latest and distance: %+v", body)
	}
	eta, _ := body["eta"].(map[string]any)
	if eta["status"] != "unavailable" {
		t.Fatalf("unexpected eta: %+v", eta)
	}
	if _, ok := eta["seconds"]; ok {
		t.Fatalf("seconds must be omitted without an estimate: %+v", eta)
	}
}

func TestViewHandler_Get_Forbidden(t *testing.T) {
	stub := &stubView{
		getFn: func(ctx context.Context, actor domain.Actor, shipmentID string) (*ports.TrackingView, error) {
			return nil, domain.ErrForbidden
		},
	}
	h := NewViewHandler(stub)
	c, _ := newTestContext(http.MethodGet, "/v1/shipments/shp-1/tracking", "", domain.Actor{ID: "clinic-9", Role: domain.RoleClient})

	if got := statusOf(h.Get(c)); got != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", got)
	}
}

// ---------------------------------------------------------------------------
// Errors and health
// ---------------------------------------------------------------------------

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  int
		wantKnown bool
	}{
		{"shipment not found", domain.ErrShipmentNotFound, http.StatusNotFound, true},
		{"facility not found", domain.ErrFacilityNotFound, http.StatusNotFound, true},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, true},
		{"validation", domain.Invalid(domain.ErrInvalidCoordinates), http.StatusUnprocessableEntity, true},
		{"validation wrapping no driver", domain.Invalid(domain.ErrNoDriverAssigned), http.StatusUnprocessableEntity, true},
		{"bare no driver", domain.ErrNoDriverAssigned, http.StatusPreconditionFailed, true},
		{"implausible", domain.ErrImplausibleMovement, http.StatusConflict, true},
		{"concurrent", domain.ErrConcurrentSubmission, http.StatusConflict, true},
		{"out of order", domain.ErrOutOfOrderReport, http.StatusConflict, true},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg, known := ErrorStatus(fmt.Errorf("wrapped: %w", tt.err))
			if code != tt.wantCode || known != tt.wantKnown {
				t.Fatalf("expected %d/%v, got %d/%v", tt.wantCode, tt.wantKnown, code, known)
			}
			if !known && msg != "internal server error" {
				t.Fatalf("unknown errors must not leak: %q", msg)
			}
		})
	}
}

func TestRejectionReason(t *testing.T) {
	tests := map[string]error{
		"stale":                 domain.Invalid(domain.ErrStaleReport),
		"future":                domain.Invalid(domain.ErrFutureReport),
		"implausible_movement":  fmt.Errorf("%w: too fast", domain.ErrImplausibleMovement),
		"tracking_disabled":     domain.Invalid(domain.ErrTrackingDisabled),
		"terminal":              domain.Invalid(domain.ErrShipmentTerminal),
		"forbidden":             domain.ErrForbidden,
		"recorded_out_of_order": domain.Invalid(domain.ErrRecordedOutOfOrder),
		"idempotency_conflict":  domain.Invalid(domain.ErrIdempotencyReuse),
		"internal":              errors.New("boom"),
	}
	for want, err := range tests {
		if got := rejectionReason(err); got != want {
			t.Fatalf("rejectionReason(%v) = %q, want %q", err, got, want)
		}
	}
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name   string
		checks map[string]Check
		want   int
		status string
	}{
		{
			name: "all healthy",
			checks: map[string]Check{
				"mongo": func(context.Context) error { return nil },
				"redis": func(context.Context) error { return nil },
			},
			want: http.StatusOK, status: "ok",
		},
		{
			name: "redis down",
			checks: map[string]Check{
				"mongo": func(context.Context) error { return nil },
				"redis": func(context.Context) error { return errors.New("dial tcp: refused") },
			},
			want: http.StatusServiceUnavailable, status: "degraded",
		},
		{name: "no dependencies", checks: nil, want: http.StatusOK, status: "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewReadinessHandler(tt.checks)
			c, rec := newTestContext(http.MethodGet, "/health/ready", "", domain.Actor{})

			if err := h.Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
			var resp readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Status != tt.status || len(resp.Dependencies) != len(tt.checks) {
				t.Fatalf("unexpected response: %+v", resp)
			}
			if dep, ok := resp.Dependencies["redis"]; ok && tt.want != http.StatusOK && dep.Error == "" {
				t.Fatalf("failing dependency must carry its error: %+v", dep)
			}
		})
	}
}
