package model

import "time"

// Recommendation is one AI-generated energy-saving tip, stored so the
// dashboard can show a history of advice rather than regenerating on
// every page load.
type Recommendation struct {
	ID        string    `json:"id"        db:"id"`
	UserID    string    `json:"userId"    db:"user_id"`
	Content   string    `json:"content"   db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
