package domain

import (
	"math"
	"time"
)

// Coordinates represents a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Valid reports whether the point is finite and inside the WGS84 ranges.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// LocationReport is one accepted driver position sample.
//
// Timestamp is assigned by the server at acceptance and never changes.
// RecordedAt is the client clock reading, kept for auditing only.
type LocationReport struct {
	ID         string     `json:"id" bson:"_id"`
	ShipmentID string     `json:"shipment_id" bson:"shipment_id"`
	DriverID   string     `json:"driver_id" bson:"driver_id"`
	Seq        int64      `json:"seq" bson:"seq"`
	Latitude   float64    `json:"latitude" bson:"latitude"`
	Longitude  float64    `json:"longitude" bson:"longitude"`
	Accuracy   *float64   `json:"accuracy,omitempty" bson:"accuracy,omitempty"`
	Heading    *float64   `json:"heading,omitempty" bson:"heading,omitempty"`
	Speed      *float64   `json:"speed,omitempty" bson:"speed,omitempty"` // mph
	Altitude   *float64   `json:"altitude,omitempty" bson:"altitude,omitempty"`
	RecordedAt *time.Time `json:"recorded_at,omitempty" bson:"recorded_at,omitempty"`
	Timestamp  time.Time  `json:"timestamp" bson:"timestamp"`
}

// Point returns the report position.
func (r *LocationReport) Point() Coordinates {
	return Coordinates{Lat: r.Latitude, Lng: r.Longitude}
}
