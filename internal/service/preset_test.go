package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wattwise/wattwise/internal/apperror"
	"github.com/wattwise/wattwise/internal/model"
	"github.com/wattwise/wattwise/internal/repository/memory"
)

func newTestPresetService(t *testing.T) (*PresetService, *memory.Store) {
	t.Helper()
	store := memoryStore(t)
	return NewPresetService(store.Presets(), store.Devices(), slog.Default()), store
}

func intPtr(v int) *int { return &v }

func TestPresetService_Create(t *testing.T) {
	svc, _ := newTestPresetService(t)
	ctx := context.Background()

	settings := map[string]model.PresetSetting{
		"dev-1": {Status: true, TargetUsage: intPtr(60)},
		"dev-2": {Status: false},
	}
	preset, err := svc.Create(ctx, "u1", "Movie Night", "Dim everything", settings, false)
	require.NoError(t, err)
	assert.NotEmpty(t, preset.ID)
	assert.Len(t, preset.Settings, 2)
}

func TestPresetService_CreateValidation(t *testing.T) {
	svc, _ := newTestPresetService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "u1", "", "", map[string]model.PresetSetting{"d": {}}, false)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.Create(ctx, "u1", "Empty", "", nil, false)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	bad := map[string]model.PresetSetting{"d": {Status: true, TargetUsage: intPtr(-10)}}
	_, err = svc.Create(ctx, "u1", "Bad", "", bad, false)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestPresetService_Apply(t *testing.T) {
	svc, store := newTestPresetService(t)
	ctx := context.Background()

	lamp := &model.Device{UserID: "u1", Name: "Lamp", Type: "light", Status: false}
	heater := &model.Device{UserID: "u1", Name: "Heater", Type: "thermostat", Status: true, CurrentUsage: 1500}
	foreign := &model.Device{UserID: "u2", Name: "Their TV", Type: "tv"}
	for _, d := range []*model.Device{lamp, heater, foreign} {
		require.NoError(t, store.Devices().Create(ctx, d))
	}

	settings := map[string]model.PresetSetting{
		lamp.ID:        {Status: true, TargetUsage: intPtr(40)},
		heater.ID:      {Status: false},
		foreign.ID:     {Status: true}, // skipped: not ours
		"gone-device":  {Status: true}, // skipped: deleted
	}
	preset, err := svc.Create(ctx, "u1", "Evening", "", settings, true)
	require.NoError(t, err)

	updated, err := svc.Apply(ctx, "u1", preset.ID)
	require.NoError(t, err)
	assert.Len(t, updated, 2)

	gotLamp, err := store.Devices().GetByID(ctx, lamp.ID)
	require.NoError(t, err)
	assert.True(t, gotLamp.Status)
	assert.Equal(t, 40, gotLamp.CurrentUsage)

	gotHeater, err := store.Devices().GetByID(ctx, heater.ID)
	require.NoError(t, err)
	assert.False(t, gotHeater.Status)
	assert.Zero(t, gotHeater.CurrentUsage, "off with no target zeroes the draw")

	gotForeign, err := store.Devices().GetByID(ctx, foreign.ID)
	require.NoError(t, err)
	assert.False(t, gotForeign.Status, "foreign devices are untouched")
}

func TestPresetService_ApplyOwnership(t *testing.T) {
	svc, store := newTestPresetService(t)
	ctx := context.Background()

	preset := &model.Preset{
		UserID:   "u2",
		Name:     "Theirs",
		Settings: map[string]model.PresetSetting{"d": {Status: true}},
	}
	require.NoError(t, store.Presets().Create(ctx, preset))

	_, err := svc.Apply(ctx, "u1", preset.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = svc.Apply(ctx, "u1", "no-such-preset")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
