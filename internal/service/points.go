// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes to the database
//
// Services accept primitives and return domain models and domain errors.
// They know nothing about HTTP and talk to storage only through the
// repository interfaces, which is what lets the tests run them against
// the in-memory store.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wattwise/wattwise/internal/apperror"
	"github.com/wattwise/wattwise/internal/model"
	"github.com/wattwise/wattwise/internal/points"
	"github.com/wattwise/wattwise/internal/repository"
)

// Validation constants for the points path.
const (
	MaxReasonLength = 255
)

// LeaderboardCache is the slice of the redis cache the services need.
// A nil cache disables caching entirely — every method treats cache
// errors as misses, so redis being down never breaks a request.
type LeaderboardCache interface {
	Get(ctx context.Context) ([]model.User, error)
	Set(ctx context.Context, users []model.User) error
	Invalidate(ctx context.Context) error
}

// PointsService orchestrates the award path: ledger append + cached
// total move (atomic, in the repository), then the level policy on top.
type PointsService struct {
	ledger repository.LedgerRepository
	users  repository.UserRepository
	cache  LeaderboardCache // may be nil
	logger *slog.Logger
}

// NewPointsService creates a PointsService. cache may be nil when no
// redis is configured.
func NewPointsService(
	ledger repository.LedgerRepository,
	users repository.UserRepository,
	cache LeaderboardCache,
	logger *slog.Logger,
) *PointsService {
	return &PointsService{
		ledger: ledger,
		users:  users,
		cache:  cache,
		logger: logger,
	}
}

// Award credits (or deducts, for negative delta) energy points.
//
// Sequence:
//  1. Validate the payload (delta may be any integer, reason must be
//     non-empty).
//  2. Ledger.Award atomically appends the history entry and moves the
//     cached total; it fails with NotFound before writing anything if
//     the user doesn't exist.
//  3. Apply the leveling policy to the new total. The level only ever
//     goes up: a deduction can pull the total back under a threshold,
//     but the repository's conditional RaiseLevel never lowers it.
//
// Returns the created ledger entry and the user as this award left them.
func (s *PointsService) Award(ctx context.Context, userID string, delta int, reason string) (*model.PointHistory, *model.User, error) {
	if userID == "" {
		return nil, nil, apperror.ValidationFailed("userId", "user ID is required")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, nil, apperror.ValidationFailed("reason", "reason is required")
	}
	if len(reason) > MaxReasonLength {
		return nil, nil, apperror.ValidationFailed("reason",
			fmt.Sprintf("reason must be %d characters or less", MaxReasonLength))
	}

	entry, user, err := s.ledger.Award(ctx, userID, delta, reason)
	if err != nil {
		return nil, nil, err
	}

	newLevel := points.LevelFor(user.EnergyPoints)
	if newLevel > user.Level {
		if err := s.users.RaiseLevel(ctx, userID, newLevel); err != nil {
			// The points landed; only the level write failed. Surface the
			// error — the level will self-heal on the next award, but the
			// caller should know this request didn't finish cleanly.
			return nil, nil, fmt.Errorf("raising level after award: %w", err)
		}
		s.logger.Info("user leveled up",
			slog.String("userID", userID),
			slog.Int("level", newLevel),
			slog.Int("energyPoints", user.EnergyPoints),
		)
		user.Level = newLevel
	}

	// Standings changed, so drop the cached leaderboard. Best-effort:
	// a cache failure must not fail a successful award.
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("failed to invalidate leaderboard cache",
				slog.String("error", err.Error()))
		}
	}

	s.logger.Info("points awarded",
		slog.String("userID", userID),
		slog.Int("delta", delta),
		slog.String("reason", reason),
		slog.Int("total", user.EnergyPoints),
	)

	return entry, user, nil
}

// History returns the user's point ledger, newest first.
func (s *PointsService) History(ctx context.Context, userID string) ([]model.PointHistory, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("userId", "user ID is required")
	}

	entries, err := s.ledger.History(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list point history",
			slog.String("userID", userID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing point history: %w", err)
	}

	return entries, nil
}
