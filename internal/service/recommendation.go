package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wattwise/wattwise/internal/advisor"
	"github.com/wattwise/wattwise/internal/apperror"
	"github.com/wattwise/wattwise/internal/model"
	"github.com/wattwise/wattwise/internal/repository"
)

// RecommendationService produces and stores energy-saving advice.
type RecommendationService struct {
	recommendations repository.RecommendationRepository
	devices         repository.DeviceRepository
	client          advisor.Client // may be nil when no API key is configured
	logger          *slog.Logger
}

func NewRecommendationService(
	recommendations repository.RecommendationRepository,
	devices repository.DeviceRepository,
	client advisor.Client,
	logger *slog.Logger,
) *RecommendationService {
	return &RecommendationService{
		recommendations: recommendations,
		devices:         devices,
		client:          client,
		logger:          logger,
	}
}

// Refresh generates a new batch of recommendations from the caller's
// current device inventory, persists them, and returns the full stored
// history (newest first — the fresh batch leads).
//
// The advisor failing — or not being configured at all — downgrades to
// the canned fallback tips instead of failing the request. Advice is a
// nice-to-have; an error page is not.
func (s *RecommendationService) Refresh(ctx context.Context, userID string) ([]model.Recommendation, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("userId", "user ID is required")
	}

	devices, err := s.devices.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing devices for recommendations: %w", err)
	}

	tips := advisor.Fallback
	if s.client != nil {
		generated, err := s.client.Recommend(ctx, devices)
		if err != nil {
			s.logger.Warn("advisor call failed, using fallback tips",
				slog.String("userID", userID),
				slog.String("error", err.Error()))
		} else {
			tips = generated
		}
	}

	for _, content := range tips {
		rec := &model.Recommendation{UserID: userID, Content: content}
		if err := s.recommendations.Create(ctx, rec); err != nil {
			return nil, fmt.Errorf("storing recommendation: %w", err)
		}
	}

	stored, err := s.recommendations.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing recommendations: %w", err)
	}

	s.logger.Info("recommendations refreshed",
		slog.String("userID", userID),
		slog.Int("generated", len(tips)),
	)

	return stored, nil
}
