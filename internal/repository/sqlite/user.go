package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/xid"

	"github.com/wattwise/wattwise/internal/apperror"
	"github.com/wattwise/wattwise/internal/model"
	"github.com/wattwise/wattwise/internal/repository"
)

// compile-time check that *UserDB implements repository.UserRepository
var _ repository.UserRepository = (*UserDB)(nil)

// UserDB implements repository.UserRepository on the shared pool.
type UserDB struct {
	db *DB
}

const userColumns = `id, username, password_hash, github_id, energy_points,
	level, achievement_progress, created_at, updated_at`

// Create inserts a new user with the zero gamification state:
// 0 energy points, level 1, empty achievement progress.
//
// The username pre-check gives a clean Conflict error for the common
// case; the UNIQUE constraint on username backstops the race where two
// registrations slip past the check simultaneously.
func (u *UserDB) Create(ctx context.Context, user *model.User) error {
	var existing string
	err := u.db.conn.QueryRowContext(ctx,
		`SELECT id FROM users WHERE username = ?`, user.Username,
	).Scan(&existing)
	if err == nil {
		return apperror.Conflict("user", user.Username)
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("sqlite: checking username %q: %w", user.Username, err)
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

	progress, err := marshalMap(user.AchievementProgress)
	if err != nil {
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	_, err = u.db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, github_id, energy_points,
			level, achievement_progress, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.GitHubID,
		user.EnergyPoints,
		user.Level,
		progress,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}

	return nil
}

// scanUser reads one user row. Works with both *sql.Row and *sql.Rows
// through the shared Scan signature.
func scanUser(scan func(dest ...any) error) (*model.User, error) {
	var (
		u        model.User
		progress string
	)
	err := scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.GitHubID,
		&u.EnergyPoints,
		&u.Level,
		&progress,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalMap(progress, &u.AchievementProgress); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (u *UserDB) GetByID(ctx context.Context, id string) (*model.User, error) {
	row := u.db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	user, err := scanUser(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username (login flow).
func (u *UserDB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	row := u.db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)

	user, err := scanUser(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", username)
		}
		return nil, fmt.Errorf("sqlite: getting user by username %q: %w", username, err)
	}
	return user, nil
}

// GetByGitHubID retrieves a user by their GitHub identity (OAuth flow).
func (u *UserDB) GetByGitHubID(ctx context.Context, githubID int64) (*model.User, error) {
	row := u.db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE github_id = ? AND github_id != 0`, githubID)

	user, err := scanUser(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", strconv.FormatInt(githubID, 10))
		}
		return nil, fmt.Errorf("sqlite: getting user by github_id %d: %w", githubID, err)
	}
	return user, nil
}

// RaiseLevel bumps the user's level to newLevel, but only upward.
//
// The `AND level < ?` guard makes the write conditional inside the
// database itself, so two concurrent awards that both compute a raise
// can never lower a level another request already set higher. Zero rows
// affected is a normal outcome (level was already at or above newLevel),
// not an error.
func (u *UserDB) RaiseLevel(ctx context.Context, id string, newLevel int) error {
	_, err := u.db.conn.ExecContext(ctx,
		`UPDATE users SET level = ?, updated_at = ? WHERE id = ? AND level < ?`,
		newLevel, time.Now(), id, newLevel,
	)
	if err != nil {
		return fmt.Errorf("sqlite: raising level for user %s: %w", id, err)
	}
	return nil
}

// TopByPoints returns the leaderboard: up to limit users ordered by
// energy points descending. Ties are broken by user ID ascending so the
// ordering is deterministic (xid IDs sort by creation time, so equal
// scores rank the older account first).
func (u *UserDB) TopByPoints(ctx context.Context, limit int) ([]model.User, error) {
	rows, err := u.db.conn.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users
		 ORDER BY energy_points DESC, id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: querying leaderboard: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0, limit)
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning leaderboard row: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating leaderboard: %w", err)
	}

	return users, nil
}
