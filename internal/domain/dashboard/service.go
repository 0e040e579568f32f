package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	summaryKey = "dashboard:summary"
	summaryTTL = 15 * time.Second
)

// Service computes dashboard projections with a short Redis cache so a
// busy admin screen does not hammer the aggregate queries.
type Service struct {
	repo  Repository
	redis *redis.Client

	now func() time.Time
}

// NewService creates dashboard service. A nil redis client disables caching.
func NewService(repo Repository, redisClient *redis.Client) *Service {
	return &Service{
		repo:  repo,
		redis: redisClient,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Summary returns the current projection, cached for a few seconds.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	if s.redis != nil {
		if data, err := s.redis.Get(ctx, summaryKey).Bytes(); err == nil {
			var cached Summary
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	summary, err := s.repo.Summarize(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	summary.GeneratedAt = now.Format(time.RFC3339)

	if s.redis != nil {
		if data, err := json.Marshal(summary); err == nil {
			if err := s.redis.Set(ctx, summaryKey, data, summaryTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("dashboard summary cache set failed")
			}
		}
	}

	return summary, nil
}
