package domain

import "time"

// ShipmentStatus represents the lifecycle state of a shipment.
type ShipmentStatus string

const (
	StatusCreated   ShipmentStatus = "CREATED"
	StatusScheduled ShipmentStatus = "SCHEDULED"
	StatusPickedUp  ShipmentStatus = "PICKED_UP"
	StatusInTransit ShipmentStatus = "IN_TRANSIT"
	StatusDelivered ShipmentStatus = "DELIVERED"
	StatusDenied    ShipmentStatus = "DENIED"
	StatusCancelled ShipmentStatus = "CANCELLED"
)

// terminalStatuses freeze every tracking mutation on a shipment.
var terminalStatuses = map[ShipmentStatus]struct{}{
	StatusDelivered: {},
	StatusDenied:    {},
	StatusCancelled: {},
}

// TerminalStatuses returns the statuses after which no tracking mutation is allowed.
func TerminalStatuses() []ShipmentStatus {
	return []ShipmentStatus{StatusDelivered, StatusDenied, StatusCancelled}
}

// IsTerminal reports whether the status is delivered, denied or cancelled.
func (s ShipmentStatus) IsTerminal() bool {
	_, ok := terminalStatuses[s]
	return ok
}

// WaypointType distinguishes pickup stops from dropoff stops.
type WaypointType string

const (
	WaypointPickup  WaypointType = "PICKUP"
	WaypointDropoff WaypointType = "DROPOFF"
)

// Waypoint is an ordered stop of a shipment tied to a facility.
type Waypoint struct {
	Sequence   int          `json:"sequence" bson:"sequence"`
	Type       WaypointType `json:"type" bson:"type"`
	FacilityID string       `json:"facility_id" bson:"facility_id"`
}

// Shipment is the slice of the courier job this service reads and, for the
// tracking flag only, writes. Everything else is owned by the registry.
type Shipment struct {
	ID                string         `json:"id" bson:"_id"`
	Status            ShipmentStatus `json:"status" bson:"status"`
	ClientID          string         `json:"client_id,omitempty" bson:"client_id,omitempty"`
	AssignedDriverID  string         `json:"assigned_driver_id,omitempty" bson:"assigned_driver_id,omitempty"`
	TrackingEnabled   bool           `json:"tracking_enabled" bson:"tracking_enabled"`
	TrackingStartedAt *time.Time     `json:"tracking_started_at,omitempty" bson:"tracking_started_at"`
	Waypoints         []Waypoint     `json:"waypoints" bson:"waypoints"`
}

// HasDriver reports whether a driver is assigned to the shipment.
func (s *Shipment) HasDriver() bool {
	return s.AssignedDriverID != ""
}

// IsAssignedTo reports whether driverID is the shipment's assigned driver.
func (s *Shipment) IsAssignedTo(driverID string) bool {
	return driverID != "" && s.AssignedDriverID == driverID
}

// FinalDropoff returns the dropoff waypoint with the highest sequence.
func (s *Shipment) FinalDropoff() (Waypoint, bool) {
	var (
		last  Waypoint
		found bool
	)
	for _, wp := range s.Waypoints {
		if wp.Type != WaypointDropoff {
			continue
		}
		if !found || wp.Sequence > last.Sequence {
			last = wp
			found = true
		}
	}
	return last, found
}
