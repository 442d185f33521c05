package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wattwise/wattwise/internal/apperror"
	"github.com/wattwise/wattwise/internal/repository/memory"
)

func TestAchievementService_UnlockDoesNotCreditPoints(t *testing.T) {
	store := memory.New()
	svc := NewAchievementService(store.Achievements(), slog.Default())
	ctx := context.Background()

	user := seedUser(t, store, "alice")

	unlocked, err := svc.Unlock(ctx, user.ID, "energy_saver", "Energy Saver", "Saved 100 kWh", 250)
	require.NoError(t, err)
	assert.Equal(t, "energy_saver", unlocked.Type)
	assert.Equal(t, 250, unlocked.Points)
	assert.False(t, unlocked.UnlockedAt.IsZero())

	// The point value is descriptive: the unlock itself moves nothing.
	// Crediting goes through the points service as a separate award.
	after, err := store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, after.EnergyPoints)
}

func TestAchievementService_UnlockValidation(t *testing.T) {
	store := memory.New()
	svc := NewAchievementService(store.Achievements(), slog.Default())
	ctx := context.Background()

	tests := []struct {
		name            string
		userID          string
		achievementType string
		achName         string
		points          int
	}{
		{"missing user", "", "t", "Name", 10},
		{"missing type", "u1", "", "Name", 10},
		{"missing name", "u1", "t", "", 10},
		{"negative points", "u1", "t", "Name", -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Unlock(ctx, tt.userID, tt.achievementType, tt.achName, "desc", tt.points)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}
}

func TestAchievementService_ListNewestFirst(t *testing.T) {
	store := memory.New()
	svc := NewAchievementService(store.Achievements(), slog.Default())
	ctx := context.Background()

	user := seedUser(t, store, "alice")

	_, err := svc.Unlock(ctx, user.ID, "first_device", "First Device", "", 50)
	require.NoError(t, err)
	_, err = svc.Unlock(ctx, user.ID, "energy_saver", "Energy Saver", "", 250)
	require.NoError(t, err)

	list, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "energy_saver", list[0].Type)
	assert.Equal(t, "first_device", list[1].Type)

	// Empty history is a list, not a nil.
	other, err := svc.List(ctx, "someone-else")
	require.NoError(t, err)
	assert.NotNil(t, other)
	assert.Empty(t, other)
}
