package geocoding

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/medcourier/tracking/internal/core/domain"
	"github.com/medcourier/tracking/internal/core/ports"
	"github.com/medcourier/tracking/internal/pkg/metrics"
)

// Cache is a shared address → coordinates store.
type Cache interface {
	Get(ctx context.Context, address string) (domain.Coordinates, bool, error)
	Set(ctx context.Context, address string, coords domain.Coordinates) error
}

// CachedGeocoder consults cache before next. Cache failures only cost a
// provider call.
type CachedGeocoder struct {
	next  ports.Geocoder
	cache Cache
	log   zerolog.Logger
}

func NewCachedGeocoder(next ports.Geocoder, cache Cache, log zerolog.Logger) *CachedGeocoder {
	return &CachedGeocoder{next: next, cache: cache, log: log}
}

func (g *CachedGeocoder) Geocode(ctx context.Context, addr domain.Address) (domain.Coordinates, error) {
	key := addr.String()

	coords, ok, err := g.cache.Get(ctx, key)
	if err != nil {
		g.log.Warn().Err(err).Str("address", key).Msg("geocode cache read failed")
	}
	if ok {
		metrics.GeocodeRequestsTotal.WithLabelValues("cache_hit").Inc()
		return coords, nil
	}

	coords, err = g.next.Geocode(ctx, addr)
	if err != nil {
		return domain.Coordinates{}, err
	}

	if err := g.cache.Set(ctx, key, coords); err != nil {
		g.log.Warn().Err(err).Str("address", key).Msg("geocode cache write failed")
	}
	return coords, nil
}
