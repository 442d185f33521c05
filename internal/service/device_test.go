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

func memoryStore(t *testing.T) *memory.Store {
	t.Helper()
	return memory.New()
}

func newTestDeviceService(t *testing.T) (*DeviceService, *memory.Store) {
	t.Helper()
	store := memoryStore(t)
	return NewDeviceService(store.Devices(), store.Rooms(), slog.Default()), store
}

func TestDeviceService_Create(t *testing.T) {
	svc, store := newTestDeviceService(t)
	ctx := context.Background()

	room := &model.Room{UserID: "u1", Name: "Living Room", Type: "living", Floor: 1}
	require.NoError(t, store.Rooms().Create(ctx, room))

	device, err := svc.Create(ctx, "u1", "Floor Lamp", "light", room.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, device.ID)
	assert.Equal(t, room.ID, device.RoomID)
	assert.False(t, device.Status, "devices start switched off")
	assert.Zero(t, device.CurrentUsage)

	// Unassigned devices are fine too.
	loose, err := svc.Create(ctx, "u1", "Space Heater", "thermostat", "")
	require.NoError(t, err)
	assert.Empty(t, loose.RoomID)
}

func TestDeviceService_CreateRejectsForeignRoom(t *testing.T) {
	svc, store := newTestDeviceService(t)
	ctx := context.Background()

	room := &model.Room{UserID: "u2", Name: "Bedroom", Type: "bedroom", Floor: 1}
	require.NoError(t, store.Rooms().Create(ctx, room))

	_, err := svc.Create(ctx, "u1", "Lamp", "light", room.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = svc.Create(ctx, "u1", "Lamp", "light", "no-such-room")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeviceService_CreateValidation(t *testing.T) {
	svc, _ := newTestDeviceService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "u1", "", "light", "")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.Create(ctx, "u1", "Toaster", "kitchenware", "")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestDeviceService_Toggle(t *testing.T) {
	svc, store := newTestDeviceService(t)
	ctx := context.Background()

	device := &model.Device{UserID: "u1", Name: "TV", Type: "tv", CurrentUsage: 120, Status: true}
	require.NoError(t, store.Devices().Create(ctx, device))

	// Switching off zeroes the draw.
	off, err := svc.Toggle(ctx, "u1", device.ID, false)
	require.NoError(t, err)
	assert.False(t, off.Status)
	assert.Zero(t, off.CurrentUsage)

	// Switching back on leaves usage alone until a reading arrives.
	on, err := svc.Toggle(ctx, "u1", device.ID, true)
	require.NoError(t, err)
	assert.True(t, on.Status)
	assert.Zero(t, on.CurrentUsage)
}

func TestDeviceService_ToggleOwnership(t *testing.T) {
	svc, store := newTestDeviceService(t)
	ctx := context.Background()

	device := &model.Device{UserID: "u2", Name: "TV", Type: "tv"}
	require.NoError(t, store.Devices().Create(ctx, device))

	_, err := svc.Toggle(ctx, "u1", device.ID, true)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = svc.Toggle(ctx, "u1", "no-such-device", true)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
