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

const MaxDeviceNameLength = 100

// DeviceService handles business logic for devices.
type DeviceService struct {
	devices repository.DeviceRepository
	rooms   repository.RoomRepository
	logger  *slog.Logger
}

func NewDeviceService(devices repository.DeviceRepository, rooms repository.RoomRepository, logger *slog.Logger) *DeviceService {
	return &DeviceService{devices: devices, rooms: rooms, logger: logger}
}

// Create validates and saves a new device. Devices start switched off
// with zero usage. An empty roomID leaves the device unassigned; a
// non-empty one must name a room the caller owns.
func (s *DeviceService) Create(ctx context.Context, userID, name, deviceType, roomID string) (*model.Device, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("userId", "user ID is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "device name is required")
	}
	if len(name) > MaxDeviceNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("device name must be %d characters or less", MaxDeviceNameLength))
	}
	if !slices.Contains(model.DeviceTypes, deviceType) {
		return nil, apperror.ValidationFailed("type",
			fmt.Sprintf("device type must be one of: %s", strings.Join(model.DeviceTypes, ", ")))
	}

	if roomID != "" {
		room, err := s.rooms.GetByID(ctx, roomID)
		if err != nil {
			return nil, err
		}
		if room.UserID != userID {
			return nil, apperror.Forbidden("room belongs to another user")
		}
	}

	device := &model.Device{
		UserID: userID,
		RoomID: roomID,
		Name:   name,
		Type:   deviceType,
	}

	if err := s.devices.Create(ctx, device); err != nil {
		s.logger.Error("failed to create device",
			slog.String("userID", userID),
			slog.String("name", name),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("creating device: %w", err)
	}

	s.logger.Info("device created",
		slog.String("id", device.ID),
		slog.String("userID", userID),
		slog.String("type", device.Type),
	)

	return device, nil
}

// List returns the caller's devices in creation order.
func (s *DeviceService) List(ctx context.Context, userID string) ([]model.Device, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("userId", "user ID is required")
	}

	devices, err := s.devices.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list devices",
			slog.String("userID", userID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing devices: %w", err)
	}

	return devices, nil
}

// Toggle sets a device's power status. Only the owner may toggle.
// Switching a device off zeroes its current usage — an off device draws
// nothing, and leaving a stale wattage behind would skew the dashboard's
// consumption chart.
func (s *DeviceService) Toggle(ctx context.Context, userID, deviceID string, status bool) (*model.Device, error) {
	if deviceID == "" {
		return nil, apperror.ValidationFailed("id", "device ID is required")
	}

	device, err := s.devices.GetByID(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if device.UserID != userID {
		return nil, apperror.Forbidden("device belongs to another user")
	}

	var usage *int
	if !status {
		zero := 0
		usage = &zero
	}

	updated, err := s.devices.UpdateState(ctx, deviceID, status, usage)
	if err != nil {
		s.logger.Error("failed to toggle device",
			slog.String("id", deviceID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("toggling device: %w", err)
	}

	s.logger.Info("device toggled",
		slog.String("id", deviceID),
		slog.Bool("status", status),
	)

	return updated, nil
}
