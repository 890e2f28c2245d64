package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"habitlog-service/internal/domain/entity"
	"habitlog-service/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var _ repository.LeaderboardCache = (*LeaderboardCache)(nil)

// LeaderboardCache stores computed habit leaderboards in Redis
type LeaderboardCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewLeaderboardCache creates a new leaderboard cache
func NewLeaderboardCache(client redis.Cmdable, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{
		client: client,
		ttl:    ttl,
	}
}

// leaderboardKey generates Redis key for a habit leaderboard
func (c *LeaderboardCache) leaderboardKey(habitID uuid.UUID) string {
	return fmt.Sprintf("leaderboard:%s", habitID.String())
}

// Get returns the cached leaderboard; ok is false on a miss
func (c *LeaderboardCache) Get(ctx context.Context, habitID uuid.UUID) ([]entity.LeaderboardEntry, bool, error) {
	data, err := c.client.Get(ctx, c.leaderboardKey(habitID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	var entries []entity.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal leaderboard: %w", err)
	}

	return entries, true, nil
}

// Set stores a leaderboard for the configured TTL
func (c *LeaderboardCache) Set(ctx context.Context, habitID uuid.UUID, entries []entity.LeaderboardEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal leaderboard: %w", err)
	}

	if err := c.client.Set(ctx, c.leaderboardKey(habitID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store leaderboard: %w", err)
	}

	return nil
}

// Delete drops a cached leaderboard
func (c *LeaderboardCache) Delete(ctx context.Context, habitID uuid.UUID) error {
	if err := c.client.Del(ctx, c.leaderboardKey(habitID)).Err(); err != nil {
		return fmt.Errorf("failed to delete leaderboard: %w", err)
	}
	return nil
}
