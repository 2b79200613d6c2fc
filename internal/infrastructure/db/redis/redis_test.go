package redis

import (
	"testing"

	"github.com/medcourier/tracking/internal/core/ports"
)

func TestReplayKey(t *testing.T) {
	got := replayKey(ports.ReplayKey{ShipmentID: "shp-1", DriverID: "drv-1", Key: "abc"})
	if got != "replay:shp-1:drv-1:abc" {
		t.Fatalf("unexpected key %q", got)
	}

	other := replayKey(ports.ReplayKey{ShipmentID: "shp-1", DriverID: "drv-2", Key: "abc"})
	if other == got {
		t.Fatalf("keys of different drivers must not collide")
	}
}

func TestGeocodeKey(t *testing.T) {
	got := geocodeKey("1 Main St, Dallas, TX")
	if got != "geocode:1 Main St, Dallas, TX" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestNewReplayStore_DefaultTTL(t *testing.T) {
	s := NewReplayStore(nil, 0)
	if s.ttl != defaultReplayTTL {
		t.Fatalf("expected default ttl, got %s", s.ttl)
	}
}
