package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"habitlog-service/internal/domain/apperr"
	"habitlog-service/internal/domain/entity"
	"habitlog-service/internal/domain/repository"
	"habitlog-service/internal/domain/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// TopLeaderboardSize is the number of entries of a habit leaderboard
	TopLeaderboardSize = 10

	// NearbyLeaderboardSize is the number of nearest subscribers returned
	NearbyLeaderboardSize = 5
)

type leaderboardService struct {
	store  repository.Store
	cache  repository.LeaderboardCache
	logger *zap.Logger
}

// NewLeaderboardService creates a new leaderboard service. cache may be nil.
func NewLeaderboardService(store repository.Store, cache repository.LeaderboardCache, logger *zap.Logger) service.LeaderboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &leaderboardService{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

func (s *leaderboardService) Top(ctx context.Context, habitID uuid.UUID) ([]entity.LeaderboardEntry, error) {
	if s.cache != nil {
		entries, ok, err := s.cache.Get(ctx, habitID)
		switch {
		case err != nil:
			s.logger.Warn("leaderboard cache read failed", zap.String("habit_id", habitID.String()), zap.Error(err))
		case ok && len(entries) > 0:
			return entries, nil
		}
	}

	entries, err := s.load(ctx, habitID)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, apperr.New(apperr.KindNotFound, "Habit's leaderboard does not exist")
	}

	s.cacheEntries(ctx, habitID, entries)

	return entries, nil
}

func (s *leaderboardService) load(ctx context.Context, habitID uuid.UUID) ([]entity.LeaderboardEntry, error) {
	entries, err := s.store.Subscriptions().Leaderboard(ctx, habitID, TopLeaderboardSize)
	if err != nil {
		s.logger.Error("failed to load leaderboard", zap.String("habit_id", habitID.String()), zap.Error(err))
		return nil, storeError("failed to load leaderboard", err)
	}
	return entries, nil
}

func (s *leaderboardService) cacheEntries(ctx context.Context, habitID uuid.UUID, entries []entity.LeaderboardEntry) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, habitID, entries); err != nil {
		s.logger.Warn("leaderboard cache write failed", zap.String("habit_id", habitID.String()), zap.Error(err))
	}
}

func (s *leaderboardService) Nearby(ctx context.Context, userID, habitID uuid.UUID) ([]entity.NearbyEntry, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.ErrUnauthorized
	}
	if err != nil {
		s.logger.Error("failed to load user", zap.Error(err))
		return nil, storeError("failed to load user", err)
	}

	if user.Location == nil {
		return nil, apperr.ErrLocationNotSet
	}

	candidates, err := s.store.Subscriptions().NearbyCandidates(ctx, habitID, userID)
	if err != nil {
		s.logger.Error("failed to load nearby candidates", zap.Error(err))
		return nil, storeError("failed to load nearby users", err)
	}

	entries := make([]entity.NearbyEntry, len(candidates))
	for i, c := range candidates {
		entries[i] = entity.NearbyEntry{
			Username:      c.Username,
			CurrentStreak: c.CurrentStreak,
			Distance:      entity.DistanceMeters(*user.Location, c.Location),
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Distance != entries[j].Distance {
			return entries[i].Distance < entries[j].Distance
		}
		return entries[i].Username < entries[j].Username
	})

	if len(entries) > NearbyLeaderboardSize {
		entries = entries[:NearbyLeaderboardSize]
	}

	return entries, nil
}

func (s *leaderboardService) Invalidate(ctx context.Context, habitID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, habitID); err != nil {
		s.logger.Warn("leaderboard cache invalidation failed", zap.String("habit_id", habitID.String()), zap.Error(err))
	}
}

func (s *leaderboardService) RefreshAll(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}

	habits, err := s.store.Habits().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list habits: %w", err)
	}

	refreshed := 0
	for _, habit := range habits {
		entries, err := s.load(ctx, habit.ID)
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			s.Invalidate(ctx, habit.ID)
			continue
		}

		if err := s.cache.Set(ctx, habit.ID, entries); err != nil {
			return fmt.Errorf("failed to cache leaderboard %s: %w", habit.ID, err)
		}
		refreshed++
	}

	s.logger.Info("leaderboards refreshed", zap.Int("habits", len(habits)), zap.Int("cached", refreshed))

	return nil
}
