package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/medcourier/tracking/internal/core/ports"
)

const defaultReplayTTL = 24 * time.Hour

// ReplayStore keeps the first successful outcome of a location submission per
// idempotency key so a resent sample is answered without re-validation.
// Key format: replay:<shipment_id>:<driver_id>:<idempotency_key>
type ReplayStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReplayStore wraps client. A non-positive ttl selects the default.
func NewReplayStore(client *redis.Client, ttl time.Duration) *ReplayStore {
	if ttl <= 0 {
		ttl = defaultReplayTTL
	}
	return &ReplayStore{client: client, ttl: ttl}
}

// Lookup returns the remembered entry, or nil on a miss.
func (s *ReplayStore) Lookup(ctx context.Context, k ports.ReplayKey) (*ports.ReplayEntry, error) {
	raw, err := s.client.Get(ctx, replayKey(k)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("replay lookup: %w", err)
	}

	var entry ports.ReplayEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("replay decode: %w", err)
	}
	return &entry, nil
}

// Remember stores entry unless the key already holds one.
func (s *ReplayStore) Remember(ctx context.Context, k ports.ReplayKey, entry ports.ReplayEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("replay encode: %w", err)
	}
	if err := s.client.SetNX(ctx, replayKey(k), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("replay remember: %w", err)
	}
	return nil
}

func replayKey(k ports.ReplayKey) string {
	return fmt.Sprintf("replay:%s:%s:%s", k.ShipmentID, k.DriverID, k.Key)
}
