// Package memory implements the repository interfaces with plain maps
// behind a mutex.
//
// It exists for two reasons:
//  1. Tests: the service layer can be exercised against a real Store
//     implementation without touching disk or cgo-free sqlite.
//  2. Demo mode: STORE=memory runs the whole server with no database
//     file, losing everything on restart.
//
// CONCURRENCY:
// One sync.Mutex guards the whole store. That makes every operation —
// including the award's "append ledger entry + move cached total" pair —
// trivially atomic, which is exactly the contract
// repository.LedgerRepository demands. A single coarse lock is plenty at
// this scale; the sqlite store is the one built for real concurrency.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/wattwise/wattwise/internal/apperror"
	"github.com/wattwise/wattwise/internal/model"
	"github.com/wattwise/wattwise/internal/repository"
)

// compile-time check that *Store satisfies the full Store contract
var _ repository.Store = (*Store)(nil)

// Store holds everything in memory. The zero value is not usable — call New.
type Store struct {
	mu              sync.Mutex
	users           map[string]*model.User
	rooms           map[string]*model.Room
	devices         map[string]*model.Device
	history         []model.PointHistory
	achievements    []model.Achievement
	recommendations []model.Recommendation
	presets         map[string]*model.Preset
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:   make(map[string]*model.User),
		rooms:   make(map[string]*model.Room),
		devices: make(map[string]*model.Device),
		presets: make(map[string]*model.Preset),
	}
}

// Close is a no-op; it exists to satisfy repository.Store.
func (s *Store) Close() error { return nil }

func (s *Store) Users() repository.UserRepository                     { return (*userRepo)(s) }
func (s *Store) Rooms() repository.RoomRepository                     { return (*roomRepo)(s) }
func (s *Store) Devices() repository.DeviceRepository                 { return (*deviceRepo)(s) }
func (s *Store) Ledger() repository.LedgerRepository                  { return (*ledgerRepo)(s) }
func (s *Store) Achievements() repository.AchievementRepository       { return (*achievementRepo)(s) }
func (s *Store) Recommendations() repository.RecommendationRepository { return (*recommendationRepo)(s) }
func (s *Store) Presets() repository.PresetRepository                 { return (*presetRepo)(s) }

// Each repo type is just a view over the same Store, so they all share
// the one mutex. The named types exist only to carry the interface
// methods without exporting them all on Store itself.
type (
	userRepo           Store
	roomRepo           Store
	deviceRepo         Store
	ledgerRepo         Store
	achievementRepo    Store
	recommendationRepo Store
	presetRepo         Store
)

// ---------------------------------------------------------------------
// users
// ---------------------------------------------------------------------

func (r *userRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username {
			return apperror.Conflict("user", user.Username)
		}
	}

	now := time.Now()
	user.ID = xid.New().String()
	user.EnergyPoints = 0
	user.Level = 1
	if user.AchievementProgress == nil {
		user.AchievementProgress = map[string]any{}
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *user
	return &result, nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Username == username {
			result := *user
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (r *userRepo) GetByGitHubID(_ context.Context, githubID int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if githubID != 0 {
		for _, user := range r.users {
			if user.GitHubID == githubID {
				result := *user
				return &result, nil
			}
		}
	}
	return nil, apperror.NotFound("user", strconv.FormatInt(githubID, 10))
}

func (r *userRepo) RaiseLevel(_ context.Context, id string, newLevel int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		// Same contract as sqlite: a missing row is a silent no-op here,
		// the award path has already verified the user exists.
		return nil
	}
	if newLevel > user.Level {
		user.Level = newLevel
		user.UpdatedAt = time.Now()
	}
	return nil
}

func (r *userRepo) TopByPoints(_ context.Context, limit int) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]model.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, *user)
	}

	// Points descending, ID ascending on ties — matches the sqlite
	// ORDER BY so both backends produce the same leaderboard.
	sort.Slice(users, func(i, j int) bool {
		if users[i].EnergyPoints != users[j].EnergyPoints {
			return users[i].EnergyPoints > users[j].EnergyPoints
		}
		return users[i].ID < users[j].ID
	})

	if limit < len(users) {
		users = users[:limit]
	}
	return users, nil
}

// ---------------------------------------------------------------------
// ledger
// ---------------------------------------------------------------------

// Award mirrors the sqlite transaction: existence check, ledger append,
// and total increment all happen under one lock, so concurrent awards
// serialize and no delta is lost.
func (r *ledgerRepo) Award(_ context.Context, userID string, delta int, reason string) (*model.PointHistory, *model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, nil, apperror.NotFound("user", userID)
	}

	entry := model.PointHistory{
		ID:        xid.New().String(),
		UserID:    userID,
		Points:    delta,
		Reason:    reason,
		Timestamp: time.Now(),
	}
	r.history = append(r.history, entry)

	user.EnergyPoints += delta
	user.UpdatedAt = entry.Timestamp

	snapshot := *user
	return &entry, &snapshot, nil
}

func (r *ledgerRepo) History(_ context.Context, userID string) ([]model.PointHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := []model.PointHistory{}
	// history is append-ordered; walk backwards for newest-first.
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].UserID == userID {
			entries = append(entries, r.history[i])
		}
	}
	return entries, nil
}

// ---------------------------------------------------------------------
// achievements
// ---------------------------------------------------------------------

func (r *achievementRepo) Unlock(_ context.Context, achievement *model.Achievement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	achievement.ID = xid.New().String()
	achievement.UnlockedAt = time.Now()
	r.achievements = append(r.achievements, *achievement)
	return nil
}

func (r *achievementRepo) ListByUser(_ context.Context, userID string) ([]model.Achievement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	achievements := []model.Achievement{}
	for i := len(r.achievements) - 1; i >= 0; i-- {
		if r.achievements[i].UserID == userID {
			achievements = append(achievements, r.achievements[i])
		}
	}
	return achievements, nil
}

// ---------------------------------------------------------------------
// rooms
// ---------------------------------------------------------------------

func (r *roomRepo) Create(_ context.Context, room *model.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room.ID = xid.New().String()
	room.CreatedAt = time.Now()
	stored := *room
	r.rooms[room.ID] = &stored
	return nil
}

func (r *roomRepo) GetByID(_ context.Context, id string) (*model.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, apperror.NotFound("room", id)
	}
	result := *room
	return &result, nil
}

func (r *roomRepo) ListByUser(_ context.Context, userID string) ([]model.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rooms := []model.Room{}
	for _, room := range r.rooms {
		if room.UserID == userID {
			rooms = append(rooms, *room)
		}
	}
	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].Floor != rooms[j].Floor {
			return rooms[i].Floor < rooms[j].Floor
		}
		return rooms[i].Name < rooms[j].Name
	})
	return rooms, nil
}

// ---------------------------------------------------------------------
// devices
// ---------------------------------------------------------------------

func (r *deviceRepo) Create(_ context.Context, device *model.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	device.ID = xid.New().String()
	device.Status = false
	device.CurrentUsage = 0
	if device.Schedule == nil {
		device.Schedule = map[string]any{}
	}
	device.CreatedAt = now
	device.UpdatedAt = now

	stored := *device
	r.devices[device.ID] = &stored
	return nil
}

func (r *deviceRepo) GetByID(_ context.Context, id string) (*model.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	device, ok := r.devices[id]
	if !ok {
		return nil, apperror.NotFound("device", id)
	}
	result := *device
	return &result, nil
}

func (r *deviceRepo) ListByUser(_ context.Context, userID string) ([]model.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	devices := []model.Device{}
	for _, device := range r.devices {
		if device.UserID == userID {
			devices = append(devices, *device)
		}
	}
	// xid IDs are time-ordered, so ID order is creation order.
	sort.Slice(devices, func(i, j int) bool { return devices[i].ID < devices[j].ID })
	return devices, nil
}

func (r *deviceRepo) UpdateState(_ context.Context, id string, status bool, usage *int) (*model.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	device, ok := r.devices[id]
	if !ok {
		return nil, apperror.NotFound("device", id)
	}
	device.Status = status
	if usage != nil {
		device.CurrentUsage = *usage
	}
	device.UpdatedAt = time.Now()

	result := *device
	return &result, nil
}

// ---------------------------------------------------------------------
// recommendations
// ---------------------------------------------------------------------

func (r *recommendationRepo) Create(_ context.Context, rec *model.Recommendation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec.ID = xid.New().String()
	rec.CreatedAt = time.Now()
	r.recommendations = append(r.recommendations, *rec)
	return nil
}

func (r *recommendationRepo) ListByUser(_ context.Context, userID string) ([]model.Recommendation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	recs := []model.Recommendation{}
	for i := len(r.recommendations) - 1; i >= 0; i-- {
		if r.recommendations[i].UserID == userID {
			recs = append(recs, r.recommendations[i])
		}
	}
	return recs, nil
}

// ---------------------------------------------------------------------
// presets
// ---------------------------------------------------------------------

func (r *presetRepo) Create(_ context.Context, preset *model.Preset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	preset.ID = xid.New().String()
	preset.CreatedAt = time.Now()
	if preset.Settings == nil {
		preset.Settings = map[string]model.PresetSetting{}
	}

	stored := *preset
	r.presets[preset.ID] = &stored
	return nil
}

func (r *presetRepo) GetByID(_ context.Context, id string) (*model.Preset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	preset, ok := r.presets[id]
	if !ok {
		return nil, apperror.NotFound("preset", id)
	}
	result := *preset
	return &result, nil
}

func (r *presetRepo) ListByUser(_ context.Context, userID string) ([]model.Preset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	presets := []model.Preset{}
	for _, preset := range r.presets {
		if preset.UserID == userID {
			presets = append(presets, *preset)
		}
	}
	sort.Slice(presets, func(i, j int) bool {
		if presets[i].IsDefault != presets[j].IsDefault {
			return presets[i].IsDefault
		}
		return presets[i].ID < presets[j].ID
	})
	return presets, nil
}