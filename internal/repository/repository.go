// Package repository defines the storage interfaces the service layer
// programs against.
//
// Two implementations satisfy them: repository/sqlite (the production
// store) and repository/memory (a mutex-guarded in-memory store used in
// tests and for a no-disk demo mode). Services never import either
// directly — main wires whichever the config asks for.
package repository

import (
	"context"

	"github.com/wattwise/wattwise/internal/model"
)

// Store bundles every repository plus lifecycle management, so the
// composition root can pass one value around and close it on shutdown.
type Store interface {
	Users() UserRepository
	Rooms() RoomRepository
	Devices() DeviceRepository
	Ledger() LedgerRepository
	Achievements() AchievementRepository
	Recommendations() RecommendationRepository
	Presets() PresetRepository
	Close() error
}

type UserRepository interface {
	// Create inserts a new user. Fails with apperror.ErrConflict if the
	// username is taken.
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// GetByGitHubID looks a user up by their GitHub identity. Used only
	// by the OAuth login flow.
	GetByGitHubID(ctx context.Context, githubID int64) (*model.User, error)
	// RaiseLevel sets the user's level to newLevel only if it is higher
	// than the stored one. The conditional write keeps level monotonic
	// even under concurrent awards.
	RaiseLevel(ctx context.Context, id string, newLevel int) error
	// TopByPoints returns up to limit users ordered by energy points
	// descending, ties broken by user ID ascending.
	TopByPoints(ctx context.Context, limit int) ([]model.User, error)
}

// LedgerRepository is the append-only point ledger plus the cached
// total it moves.
type LedgerRepository interface {
	// Award appends a ledger entry and adds delta to the user's cached
	// energy_points IN ONE ATOMIC STEP. Implementations must not
	// read-modify-write the total: two concurrent awards must both land
	// (no lost update). Returns the created entry and the user snapshot
	// after the increment. Fails with apperror.ErrNotFound — before any
	// write — if the user does not exist.
	Award(ctx context.Context, userID string, delta int, reason string) (*model.PointHistory, *model.User, error)
	// History returns the user's ledger entries, newest first.
	History(ctx context.Context, userID string) ([]model.PointHistory, error)
}

type AchievementRepository interface {
	// Unlock appends an achievement record. It does not touch the point
	// ledger — crediting the achievement's points is the caller's call.
	Unlock(ctx context.Context, achievement *model.Achievement) error
	ListByUser(ctx context.Context, userID string) ([]model.Achievement, error)
}

type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	ListByUser(ctx context.Context, userID string) ([]model.Room, error)
}

type DeviceRepository interface {
	Create(ctx context.Context, device *model.Device) error
	GetByID(ctx context.Context, id string) (*model.Device, error)
	ListByUser(ctx context.Context, userID string) ([]model.Device, error)
	// UpdateState sets the power status and, when usage is non-nil, the
	// current draw in watts. Returns the updated device.
	UpdateState(ctx context.Context, id string, status bool, usage *int) (*model.Device, error)
}

type RecommendationRepository interface {
	Create(ctx context.Context, rec *model.Recommendation) error
	// ListByUser returns stored recommendations, newest first.
	ListByUser(ctx context.Context, userID string) ([]model.Recommendation, error)
}

type PresetRepository interface {
	Create(ctx context.Context, preset *model.Preset) error
	GetByID(ctx context.Context, id string) (*model.Preset, error)
	ListByUser(ctx context.Context, userID string) ([]model.Preset, error)
}
