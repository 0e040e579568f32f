package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/danceflow/danceflow-api/internal/domain/event"
)

// Snapshot is the materialized reservation set for one studio/day. It is
// what the conflict detector operates on: a point-in-time read, never a
// live reference.
type Snapshot struct {
	Events   []*event.Event `json:"events"`
	Bookings []*Booking     `json:"bookings"`
}

// SnapshotCache is a short-TTL Redis cache in front of the per-studio/day
// reservation reads. Misses and cache errors fall back to the database;
// every booking or event write for the studio/day invalidates the entry
// before the write returns.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotCache creates a snapshot cache. A nil client disables caching.
func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{client: client, ttl: ttl}
}

func snapshotKey(studioID string, day time.Time) string {
	return fmt.Sprintf("reservations:%s:%s", studioID, day.UTC().Format("2006-01-02"))
}

// Get returns the cached snapshot, or nil on miss/disabled/error.
func (c *SnapshotCache) Get(ctx context.Context, studioID string, day time.Time) *Snapshot {
	if c == nil || c.client == nil {
		return nil
	}

	data, err := c.client.Get(ctx, snapshotKey(studioID, day)).Bytes()
	if err != nil {
		return nil
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Warn().Err(err).Str("studio_id", studioID).Msg("dropping corrupt snapshot cache entry")
		c.Invalidate(ctx, studioID, day)
		return nil
	}
	return &snap
}

// Set stores the snapshot with the configured TTL.
func (c *SnapshotCache) Set(ctx context.Context, studioID string, day time.Time, snap *Snapshot) {
	if c == nil || c.client == nil {
		return
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, snapshotKey(studioID, day), data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("studio_id", studioID).Msg("snapshot cache set failed")
	}
}

// Invalidate drops the cached snapshot for a studio/day.
func (c *SnapshotCache) Invalidate(ctx context.Context, studioID string, day time.Time) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, snapshotKey(studioID, day)).Err(); err != nil {
		log.Warn().Err(err).Str("studio_id", studioID).Msg("snapshot cache invalidation failed")
	}
}
