package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/medcourier/tracking/internal/core/domain"
)

const defaultGeocodeTTL = 30 * 24 * time.Hour

// GeocodeCache stores provider answers by normalised address.
// Key format: geocode:<address>
type GeocodeCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewGeocodeCache(client *redis.Client, ttl time.Duration) *GeocodeCache {
	if ttl <= 0 {
		ttl = defaultGeocodeTTL
	}
	return &GeocodeCache{client: client, ttl: ttl}
}

// Get returns the cached coordinates and whether they were present.
func (c *GeocodeCache) Get(ctx context.Context, address string) (domain.Coordinates, bool, error) {
	raw, err := c.client.Get(ctx, geocodeKey(address)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Coordinates{}, false, nil
		}
		return domain.Coordinates{}, false, fmt.Errorf("geocode cache get: %w", err)
	}

	var coords domain.Coordinates
	if err := json.Unmarshal(raw, &coords); err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("geocode cache decode: %w", err)
	}
	return coords, true, nil
}

func (c *GeocodeCache) Set(ctx context.Context, address string, coords domain.Coordinates) error {
	raw, err := json.Marshal(coords)
	if err != nil {
		return fmt.Errorf("geocode cache encode: %w", err)
	}
	return c.client.Set(ctx, geocodeKey(address), raw, c.ttl).Err()
}

func geocodeKey(address string) string {
	return "geocode:" + address
}
