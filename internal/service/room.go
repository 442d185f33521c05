package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/wattwise/wattwise/internal/apperror"
	"github.com/wattwise/wattwise/internal/model"
	"github.com/wattwise/wattwise/internal/repository"
)

const MaxRoomNameLength = 100

// RoomService handles business logic for rooms.
type RoomService struct {
	rooms  repository.RoomRepository
	logger *slog.Logger
}

func NewRoomService(rooms repository.RoomRepository, logger *slog.Logger) *RoomService {
	return &RoomService{rooms: rooms, logger: logger}
}

// Create validates and saves a new room. floor defaults to 1 when the
// caller sends zero.
func (s *RoomService) Create(ctx context.Context, userID, name, roomType string, floor int) (*model.Room, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("userId", "user ID is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "room name is required")
	}
	if len(name) > MaxRoomNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("room name must be %d characters or less", MaxRoomNameLength))
	}
	if !slices.Contains(model.RoomTypes, roomType) {
		return nil, apperror.ValidationFailed("type",
			fmt.Sprintf("room type must be one of: %s", strings.Join(model.RoomTypes, ", ")))
	}
	if floor == 0 {
		floor = 1
	}
	if floor < 1 {
		return nil, apperror.ValidationFailed("floor", "floor must be 1 or higher")
	}

	room := &model.Room{
		UserID: userID,
		Name:   name,
		Type:   roomType,
		Floor:  floor,
	}

	if err := s.rooms.Create(ctx, room); err != nil {
		s.logger.Error("failed to create room",
			slog.String("userID", userID),
			slog.String("name", name),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("creating room: %w", err)
	}

	s.logger.Info("room created",
		slog.String("id", room.ID),
		slog.String("userID", userID),
		slog.String("name", room.Name),
	)

	return room, nil
}

// List returns the caller's rooms, ordered by floor then name.
func (s *RoomService) List(ctx context.Context, userID string) ([]model.Room, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("userId", "user ID is required")
	}

	rooms, err := s.rooms.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list rooms",
			slog.String("userID", userID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing rooms: %w", err)
	}

	return rooms, nil
}
