package ports

import (
	"context"
	"time"

	"github.com/medcourier/tracking/internal/core/domain"
)

// ETAStatus explains whether an ETA could be computed.
type ETAStatus string

const (
	ETAAvailable ETAStatus = "available"
	// ETAIndeterminate means the latest report has no positive speed.
	ETAIndeterminate ETAStatus = "indeterminate"
	// ETAUnavailable means there is no latest report or the destination
	// could not be resolved.
	ETAUnavailable ETAStatus = "unavailable"
)

// WaypointView is a waypoint with best-effort resolved coordinates.
type WaypointView struct {
	Sequence     int
	Type         domain.WaypointType
	FacilityID   string
	FacilityName string
	Address      domain.Address
	Coordinates  *domain.Coordinates
}

// ReportView is the presentation form of an accepted report.
type ReportView struct {
	ID        string
	Latitude  float64
	Longitude float64
	Accuracy  *float64
	Heading   *float64
	Speed     *float64
	Altitude  *float64
	Timestamp time.Time
}

// TrackingView is the consolidated state a viewer polls.
type TrackingView struct {
	ShipmentID    string
	Status        domain.ShipmentStatus
	Enabled       bool
	StartedAt     *time.Time
	Waypoints     []WaypointView
	Reports       []ReportView
	ReportCount   int64 // stored reports, including any not presentable
	Latest        *ReportView
	DistanceMiles *float64
	ETA           *time.Duration
	ETAStatus     ETAStatus
}

// ViewService assembles tracking views.
type ViewService interface {
	GetTrackingView(ctx context.Context, actor domain.Actor, shipmentID string) (*TrackingView, error)
}
