package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type setTrackingRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type locationRequest struct {
	Latitude   *float64   `json:"latitude"   validate:"required,latitude"`
	Longitude  *float64   `json:"longitude"  validate:"required,longitude"`
	Accuracy   *float64   `json:"accuracy"   validate:"omitempty,gte=0"`
	Heading    *float64   `json:"heading"    validate:"omitempty,gte=0,lte=360"`
	Speed      *float64   `json:"speed"      validate:"omitempty,gte=0"`
	Altitude   *float64   `json:"altitude"`
	RecordedAt *time.Time `json:"recorded_at"`
	// IdempotencyKey is used by batch items. Single submissions send the
	// Idempotency-Key header instead.
	IdempotencyKey string `json:"idempotency_key" validate:"omitempty,max=128"`
}

type batchLocationRequest struct {
	Reports []locationRequest `json:"reports" validate:"required,min=1,dive"`
}

// --- Response types ---

type trackingStateResponse struct {
	ShipmentID string     `json:"shipment_id"`
	Enabled    bool       `json:"enabled"`
	StartedAt  *time.Time `json:"started_at"`
}

type submitResponse struct {
	Outcome   string     `json:"outcome"`
	ReportID  string     `json:"id,omitempty"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Replayed  bool       `json:"replayed,omitempty"`
}

type batchItemResponse struct {
	Index     int        `json:"index"`
	Outcome   string     `json:"outcome,omitempty"`
	ReportID  string     `json:"id,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Status    int        `json:"status,omitempty"`
	Error     string     `json:"error,omitempty"`
}

type batchResponse struct {
	Accepted int                 `json:"accepted"`
	Ignored  int                 `json:"ignored"`
	Rejected int                 `json:"rejected"`
	Results  []batchItemResponse `json:"results"`
}

type coordinatesResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type addressResponse struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

type waypointResponse struct {
	Sequence     int                  `json:"sequence"`
	Type         string               `json:"type"`
	FacilityID   string               `json:"facility_id"`
	FacilityName string               `json:"facility_name,omitempty"`
	Address      addressResponse      `json:"address"`
	Coordinates  *coordinatesResponse `json:"coordinates"`
}

type reportResponse struct {
	ID        string    `json:"id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  *float64  `json:"accuracy,omitempty"`
	Heading   *float64  `json:"heading,omitempty"`
	Speed     *float64  `json:"speed,omitempty"`
	Altitude  *float64  `json:"altitude,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type etaResponse struct {
	Status      string     `json:"status"`
	Seconds     *int64     `json:"seconds,omitempty"`
	EstimatedAt *time.Time `json:"estimated_arrival,omitempty"`
}

type trackingViewResponse struct {
	ShipmentID    string             `json:"shipment_id"`
	Status        string             `json:"status"`
	Enabled       bool               `json:"enabled"`
	StartedAt     *time.Time         `json:"started_at"`
	Waypoints     []waypointResponse `json:"waypoints"`
	Reports       []reportResponse   `json:"reports"`
	ReportCount   int64              `json:"report_count"`
	Latest        *reportResponse    `json:"latest"`
	DistanceMiles *float64           `json:"distance_miles"`
	ETA           etaResponse        `json:"eta"`
}
