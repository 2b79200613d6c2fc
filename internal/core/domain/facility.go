package domain

import (
	"strings"
	"time"
)

// Address is a postal address as stored on a facility.
type Address struct {
	Street     string `json:"street" bson:"street"`
	City       string `json:"city" bson:"city"`
	State      string `json:"state" bson:"state"`
	PostalCode string `json:"postal_code" bson:"postal_code"`
	Country    string `json:"country,omitempty" bson:"country,omitempty"`
}

// String renders the address as a single geocoder query line.
func (a Address) String() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Street, a.City, a.State, a.PostalCode, a.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Facility is a pickup or dropoff site. Coordinates are resolved lazily and
// may be absent.
type Facility struct {
	ID          string       `json:"id" bson:"_id"`
	Name        string       `json:"name" bson:"name"`
	Address     Address      `json:"address" bson:"address"`
	Coordinates *Coordinates `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
	GeocodedAt  *time.Time   `json:"geocoded_at,omitempty" bson:"geocoded_at,omitempty"`
}
