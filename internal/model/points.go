package model

import "time"

// PointHistory is one entry in a user's point ledger.
//
// The ledger is append-only: entries are never updated or deleted once
// written. Points is a signed delta — positive for awards, negative for
// deductions. Timestamp is assigned by the server at insert time.
type PointHistory struct {
	ID        string    `json:"id"        db:"id"`
	UserID    string    `json:"userId"    db:"user_id"`
	Points    int       `json:"points"    db:"points"`
	Reason    string    `json:"reason"    db:"reason"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}

// Achievement is a named, one-time unlockable award.
//
// Points is the fixed value attached to the achievement. Unlocking an
// achievement does NOT credit these points to the user's total — point
// awards go through the ledger as a separate, explicit operation. The
// two paths are deliberately decoupled; see service.AchievementService.
type Achievement struct {
	ID          string    `json:"id"          db:"id"`
	UserID      string    `json:"userId"      db:"user_id"`
	Type        string    `json:"type"        db:"type"`
	Name        string    `json:"name"        db:"name"`
	Description string    `json:"description" db:"description"`
	Points      int       `json:"points"      db:"points"`
	UnlockedAt  time.Time `json:"unlockedAt"  db:"unlocked_at"`
}
