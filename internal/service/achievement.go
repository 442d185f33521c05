package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wattwise/wattwise/internal/apperror"
	"github.com/wattwise/wattwise/internal/model"
	"github.com/wattwise/wattwise/internal/repository"
)

const (
	MaxAchievementNameLength = 100
	MaxDescriptionLength     = 500
)

// AchievementService manages the achievement registry.
//
// DELIBERATE DECOUPLING FROM THE POINT LEDGER:
// Unlock records the achievement and nothing else. The Points value on
// the record is a label — it is NOT credited to the user's total here.
// A caller that wants the unlock to pay out calls PointsService.Award
// separately, with the achievement name as the reason, which keeps every
// point movement visible in the ledger under a single write path.
type AchievementService struct {
	achievements repository.AchievementRepository
	logger       *slog.Logger
}

func NewAchievementService(achievements repository.AchievementRepository, logger *slog.Logger) *AchievementService {
	return &AchievementService{achievements: achievements, logger: logger}
}

// Unlock validates and appends a new achievement record.
func (s *AchievementService) Unlock(ctx context.Context, userID, achievementType, name, description string, pointValue int) (*model.Achievement, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("userId", "user ID is required")
	}
	achievementType = strings.TrimSpace(achievementType)
	if achievementType == "" {
		return nil, apperror.ValidationFailed("type", "achievement type is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "achievement name is required")
	}
	if len(name) > MaxAchievementNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("achievement name must be %d characters or less", MaxAchievementNameLength))
	}
	description = strings.TrimSpace(description)
	if len(description) > MaxDescriptionLength {
		return nil, apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
	}
	if pointValue < 0 {
		return nil, apperror.ValidationFailed("points", "achievement points must not be negative")
	}

	achievement := &model.Achievement{
		UserID:      userID,
		Type:        achievementType,
		Name:        name,
		Description: description,
		Points:      pointValue,
	}

	if err := s.achievements.Unlock(ctx, achievement); err != nil {
		s.logger.Error("failed to unlock achievement",
			slog.String("userID", userID),
			slog.String("name", name),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("unlocking achievement: %w", err)
	}

	s.logger.Info("achievement unlocked",
		slog.String("userID", userID),
		slog.String("type", achievementType),
		slog.String("name", name),
	)

	return achievement, nil
}

// List returns the user's achievements, newest unlock first.
func (s *AchievementService) List(ctx context.Context, userID string) ([]model.Achievement, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("userId", "user ID is required")
	}

	achievements, err := s.achievements.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list achievements",
			slog.String("userID", userID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing achievements: %w", err)
	}

	return achievements, nil
}
