// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered household account.
//
// Users sign up with a username and password (bcrypt hash stored in
// PasswordHash). GitHubID is non-zero only for accounts provisioned through
// the optional GitHub OAuth flow — one GitHub account maps to exactly one
// app account via the UNIQUE constraint on github_id.
//
// EnergyPoints is the cached cumulative total of the user's point ledger.
// It is only ever moved together with a point_history row, inside a single
// transaction, so it cannot drift from the ledger (see repository.Ledger).
//
// Level is derived from EnergyPoints by points.LevelFor and is monotonic:
// the award path raises it when the total crosses a threshold but never
// lowers it, even if a deduction drops the total back below.
//
// WHY PasswordHash HAS json:"-"?
// The "-" tag tells encoding/json to never serialize this field. API
// responses include the full User struct, and leaking even a bcrypt hash
// to the browser would be a needless gift to an attacker.
type User struct {
	ID                  string         `json:"id"                  db:"id"`
	Username            string         `json:"username"            db:"username"`
	PasswordHash        string         `json:"-"                   db:"password_hash"`
	GitHubID            int64          `json:"-"                   db:"github_id"` // 0 for local accounts
	EnergyPoints        int            `json:"energyPoints"        db:"energy_points"`
	Level               int            `json:"level"               db:"level"`
	AchievementProgress map[string]any `json:"achievementProgress" db:"achievement_progress"`
	CreatedAt           time.Time      `json:"createdAt"           db:"created_at"`
	UpdatedAt           time.Time      `json:"updatedAt"           db:"updated_at"`
}
