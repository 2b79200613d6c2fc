// Package geocoding resolves facility addresses to coordinates through a
// Nominatim-compatible search API.
package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/medcourier/tracking/internal/core/domain"
	"github.com/medcourier/tracking/internal/pkg/metrics"
)

// ErrNoMatch is returned when the provider has no result for an address.
var ErrNoMatch = errors.New("geocoding: no match for address")

const defaultUserAgent = "medcourier-tracking/1.0"

// Config configures the provider client.
type Config struct {
	BaseURL   string
	UserAgent string
	Email     string
	Timeout   time.Duration
}

// Client calls the provider's /search endpoint.
type Client struct {
	baseURL   string
	userAgent string
	email     string
	http      *http.Client
}

func NewClient(cfg Config) *Client {
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: ua,
		email:     cfg.Email,
		http:      &http.Client{Timeout: timeout},
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode returns the first match for addr.
func (c *Client) Geocode(ctx context.Context, addr domain.Address) (coords domain.Coordinates, err error) {
	start := time.Now()
	defer func() {
		metrics.GeocodeDuration.Observe(time.Since(start).Seconds())
		result := "ok"
		if err != nil {
			result = "error"
		}
		metrics.GeocodeRequestsTotal.WithLabelValues(result).Inc()
	}()

	q := addr.String()
	if q == "" {
		return domain.Coordinates{}, ErrNoMatch
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("format", "json")
	params.Set("limit", "1")
	if addr.Country != "" {
		params.Set("countrycodes", addr.Country)
	}
	if c.email != "" {
		params.Set("email", c.email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocoding: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocoding: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return domain.Coordinates{}, fmt.Errorf("geocoding: unexpected status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocoding: decode: %w", err)
	}
	if len(results) == 0 {
		return domain.Coordinates{}, ErrNoMatch
	}
	return parseResult(results[0])
}

func parseResult(r searchResult) (domain.Coordinates, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocoding: bad latitude %q: %w", r.Lat, err)
	}
	lng, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocoding: bad longitude %q: %w", r.Lon, err)
	}
	c := domain.Coordinates{Lat: lat, Lng: lng}
	if !c.Valid() {
		return domain.Coordinates{}, fmt.Errorf("geocoding: %w", domain.ErrInvalidCoordinates)
	}
	return c, nil
}
