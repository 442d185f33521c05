package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wattwise/wattwise/internal/model"
	"github.com/wattwise/wattwise/internal/repository"
)

// MaxLeaderboardSize caps how many users the leaderboard shows.
const MaxLeaderboardSize = 10

// LeaderboardService serves the read-only standings projection, with an
// optional redis cache in front of the database scan.
type LeaderboardService struct {
	users  repository.UserRepository
	cache  LeaderboardCache // may be nil
	logger *slog.Logger
}

func NewLeaderboardService(users repository.UserRepository, cache LeaderboardCache, logger *slog.Logger) *LeaderboardService {
	return &LeaderboardService{users: users, cache: cache, logger: logger}
}

// Top returns up to limit users ordered by energy points descending,
// ties broken by user ID ascending. limit is clamped to
// 1..MaxLeaderboardSize; zero or negative means the full board.
//
// The cache always holds the full MaxLeaderboardSize board and Top
// slices it down, so every limit shares one cache entry. Cache errors
// degrade to a database read — never to a failed request.
func (s *LeaderboardService) Top(ctx context.Context, limit int) ([]model.User, error) {
	if limit <= 0 || limit > MaxLeaderboardSize {
		limit = MaxLeaderboardSize
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("leaderboard cache read failed",
				slog.String("error", err.Error()))
		} else if cached != nil {
			if limit < len(cached) {
				cached = cached[:limit]
			}
			return cached, nil
		}
	}

	top, err := s.users.TopByPoints(ctx, MaxLeaderboardSize)
	if err != nil {
		s.logger.Error("failed to query leaderboard", slog.String("error", err.Error()))
		return nil, fmt.Errorf("querying leaderboard: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, top); err != nil {
			s.logger.Warn("leaderboard cache write failed",
				slog.String("error", err.Error()))
		}
	}

	if limit < len(top) {
		top = top[:limit]
	}
	return top, nil
}
