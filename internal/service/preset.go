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

const MaxPresetNameLength = 100

// PresetService manages named device-state bundles and applies them.
type PresetService struct {
	presets repository.PresetRepository
	devices repository.DeviceRepository
	logger  *slog.Logger
}

func NewPresetService(presets repository.PresetRepository, devices repository.DeviceRepository, logger *slog.Logger) *PresetService {
	return &PresetService{presets: presets, devices: devices, logger: logger}
}

// Create validates and saves a new preset. Settings must name at least
// one device; device IDs are not verified here — devices come and go,
// and Apply skips entries that no longer resolve.
func (s *PresetService) Create(ctx context.Context, userID, name, description string, settings map[string]model.PresetSetting, isDefault bool) (*model.Preset, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("userId", "user ID is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "preset name is required")
	}
	if len(name) > MaxPresetNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("preset name must be %d characters or less", MaxPresetNameLength))
	}
	if len(settings) == 0 {
		return nil, apperror.ValidationFailed("settings", "preset must configure at least one device")
	}
	for _, setting := range settings {
		if setting.TargetUsage != nil && *setting.TargetUsage < 0 {
			return nil, apperror.ValidationFailed("settings", "target usage must not be negative")
		}
	}

	preset := &model.Preset{
		UserID:      userID,
		Name:        name,
		Description: strings.TrimSpace(description),
		Settings:    settings,
		IsDefault:   isDefault,
	}

	if err := s.presets.Create(ctx, preset); err != nil {
		s.logger.Error("failed to create preset",
			slog.String("userID", userID),
			slog.String("name", name),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("creating preset: %w", err)
	}

	s.logger.Info("preset created",
		slog.String("id", preset.ID),
		slog.String("userID", userID),
		slog.String("name", preset.Name),
	)

	return preset, nil
}

// List returns the caller's presets, default presets first.
func (s *PresetService) List(ctx context.Context, userID string) ([]model.Preset, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("userId", "user ID is required")
	}

	presets, err := s.presets.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list presets",
			slog.String("userID", userID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing presets: %w", err)
	}

	return presets, nil
}

// Apply walks the preset's settings and pushes each one onto the
// matching device. Only the preset owner may apply it, and only their
// own devices are touched: entries naming a deleted or foreign device
// are skipped rather than failing the whole apply, so one stale ID
// doesn't block the scene change.
//
// Returns the devices that were actually updated.
func (s *PresetService) Apply(ctx context.Context, userID, presetID string) ([]model.Device, error) {
	if presetID == "" {
		return nil, apperror.ValidationFailed("id", "preset ID is required")
	}

	preset, err := s.presets.GetByID(ctx, presetID)
	if err != nil {
		return nil, err
	}
	if preset.UserID != userID {
		return nil, apperror.Forbidden("preset belongs to another user")
	}

	updated := []model.Device{}
	for deviceID, setting := range preset.Settings {
		device, err := s.devices.GetByID(ctx, deviceID)
		if err != nil {
			s.logger.Warn("preset references unknown device",
				slog.String("presetID", presetID),
				slog.String("deviceID", deviceID))
			continue
		}
		if device.UserID != userID {
			continue
		}

		usage := setting.TargetUsage
		if !setting.Status && usage == nil {
			zero := 0
			usage = &zero
		}

		applied, err := s.devices.UpdateState(ctx, deviceID, setting.Status, usage)
		if err != nil {
			return nil, fmt.Errorf("applying preset to device %s: %w", deviceID, err)
		}
		updated = append(updated, *applied)
	}

	s.logger.Info("preset applied",
		slog.String("id", presetID),
		slog.String("userID", userID),
		slog.Int("devices", len(updated)),
	)

	return updated, nil
}
