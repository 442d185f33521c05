package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wattwise/wattwise/internal/apperror"
)

func TestRoomService_Create(t *testing.T) {
	svc := NewRoomService(memoryStore(t).Rooms(), slog.Default())
	ctx := context.Background()

	room, err := svc.Create(ctx, "u1", "Living Room", "living", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, room.ID)
	assert.Equal(t, "living", room.Type)
	assert.Equal(t, 1, room.Floor, "floor defaults to 1")
}

func TestRoomService_CreateValidation(t *testing.T) {
	svc := NewRoomService(memoryStore(t).Rooms(), slog.Default())
	ctx := context.Background()

	tests := []struct {
		name     string
		roomName string
		roomType string
		floor    int
	}{
		{"empty name", "", "living", 1},
		{"unknown type", "Lab", "laboratory", 1},
		{"negative floor", "Cellar", "other", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "u1", tt.roomName, tt.roomType, tt.floor)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}
}

func TestRoomService_ListIsPerUser(t *testing.T) {
	svc := NewRoomService(memoryStore(t).Rooms(), slog.Default())
	ctx := context.Background()

	_, err := svc.Create(ctx, "u1", "Kitchen", "kitchen", 1)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u2", "Office", "office", 2)
	require.NoError(t, err)

	mine, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Kitchen", mine[0].Name)
}
