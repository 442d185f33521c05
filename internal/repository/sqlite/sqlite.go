// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside the Go binary as a
// single file. No separate database server to install, configure, or
// manage. Perfect for a single-server dashboard deployment, and tests get
// a fully real database with ":memory:".
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means you need a C compiler installed
// and cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code — works everywhere Go works.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	// Side-effect import: the driver registers itself with database/sql
	// under the name "sqlite", so sql.Open("sqlite", ...) below works.
	_ "modernc.org/sqlite"

	"github.com/wattwise/wattwise/internal/repository"
)

// compile-time check that *DB satisfies the full Store contract
var _ repository.Store = (*DB)(nil)

// DB wraps a sql.DB connection pool and hands out the per-entity
// repositories. Each accessor returns a thin struct sharing the same
// pool, so a *DB is the only value the composition root has to manage.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for a throwaway in-memory database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// SQLite allows one writer at a time, and with ":memory:" every new
	// pool connection would be a separate empty database. A single
	// shared connection sidesteps both: writes serialize here instead
	// of failing with SQLITE_BUSY.
	conn.SetMaxOpenConns(1)

	// Force an immediate connection so a bad path surfaces here, not on
	// the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress —
	// important for a web server where requests overlap.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite for backwards
	// compatibility. Rooms, devices, ledger entries and achievements all
	// reference users, so we want referential integrity on.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Always defer this next to
// New — it flushes the WAL and releases the file lock.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Accessors for the per-entity repositories.

func (db *DB) Users() repository.UserRepository                     { return &UserDB{db: db} }
func (db *DB) Rooms() repository.RoomRepository                     { return &RoomDB{db: db} }
func (db *DB) Devices() repository.DeviceRepository                 { return &DeviceDB{db: db} }
func (db *DB) Ledger() repository.LedgerRepository                  { return &LedgerDB{db: db} }
func (db *DB) Achievements() repository.AchievementRepository       { return &AchievementDB{db: db} }
func (db *DB) Recommendations() repository.RecommendationRepository { return &RecommendationDB{db: db} }
func (db *DB) Presets() repository.PresetRepository                 { return &PresetDB{db: db} }

// migrate creates all tables. Every statement is idempotent (CREATE ...
// IF NOT EXISTS), so running it on an existing database is safe.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id                   TEXT PRIMARY KEY,
			username             TEXT NOT NULL UNIQUE,
			password_hash        TEXT NOT NULL DEFAULT '',
			github_id            INTEGER NOT NULL DEFAULT 0,
			energy_points        INTEGER NOT NULL DEFAULT 0,
			level                INTEGER NOT NULL DEFAULT 1,
			achievement_progress TEXT NOT NULL DEFAULT '{}',
			created_at           DATETIME NOT NULL,
			updated_at           DATETIME NOT NULL
		);
		-- Partial unique index: many local accounts share github_id 0,
		-- but a real GitHub identity maps to exactly one account.
		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_github_id
			ON users(github_id) WHERE github_id != 0;
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS rooms (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id),
			name       TEXT NOT NULL,
			type       TEXT NOT NULL,
			floor      INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_rooms_user_id ON rooms(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating rooms table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS devices (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL REFERENCES users(id),
			room_id       TEXT NOT NULL DEFAULT '',
			name          TEXT NOT NULL,
			type          TEXT NOT NULL,
			status        INTEGER NOT NULL DEFAULT 0,
			current_usage INTEGER NOT NULL DEFAULT 0,
			schedule      TEXT NOT NULL DEFAULT '{}',
			created_at    DATETIME NOT NULL,
			updated_at    DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_devices_user_id ON devices(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating devices table: %w", err)
	}

	// The point ledger is append-only: rows are inserted, never updated
	// or deleted. The (user_id, timestamp) index serves the history view.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS point_history (
			id        TEXT PRIMARY KEY,
			user_id   TEXT NOT NULL REFERENCES users(id),
			points    INTEGER NOT NULL,
			reason    TEXT NOT NULL,
			timestamp DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_point_history_user
			ON point_history(user_id, timestamp);
	`)
	if err != nil {
		return fmt.Errorf("creating point_history table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS achievements (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL REFERENCES users(id),
			type        TEXT NOT NULL,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			points      INTEGER NOT NULL DEFAULT 0,
			unlocked_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_achievements_user
			ON achievements(user_id, unlocked_at);
	`)
	if err != nil {
		return fmt.Errorf("creating achievements table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS recommendations (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id),
			content    TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_recommendations_user
			ON recommendations(user_id, created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating recommendations table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS presets (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL REFERENCES users(id),
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			settings    TEXT NOT NULL,
			is_default  INTEGER NOT NULL DEFAULT 0,
			created_at  DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_presets_user_id ON presets(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating presets table: %w", err)
	}

	return nil
}

// marshalMap serializes a JSON-object column (achievement progress,
// device schedules, preset settings). A nil map is stored as "{}" so the
// column never holds NULL or the empty string.
func marshalMap(m any) (string, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshaling json column: %w", err)
	}
	return string(b), nil
}

// unmarshalMap is the inverse of marshalMap. dst must be a pointer.
func unmarshalMap(raw string, dst any) error {
	if raw == "" {
		raw = "{}"
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("unmarshaling json column: %w", err)
	}
	return nil
}
