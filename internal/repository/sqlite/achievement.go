package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/wattwise/wattwise/internal/model"
	"github.com/wattwise/wattwise/internal/repository"
)

var _ repository.AchievementRepository = (*AchievementDB)(nil)

// AchievementDB implements repository.AchievementRepository.
type AchievementDB struct {
	db *DB
}

// Unlock appends an achievement record with a server-assigned timestamp.
// This write is independent of the point ledger: the achievement's
// Points value is a label, not a credit. See service.AchievementService.
func (a *AchievementDB) Unlock(ctx context.Context, achievement *model.Achievement) error {
	achievement.ID = xid.New().String()
	achievement.UnlockedAt = time.Now()

	_, err := a.db.conn.ExecContext(ctx,
		`INSERT INTO achievements (id, user_id, type, name, description, points, unlocked_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		achievement.ID,
		achievement.UserID,
		achievement.Type,
		achievement.Name,
		achievement.Description,
		achievement.Points,
		achievement.UnlockedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting achievement: %w", err)
	}

	return nil
}

// ListByUser returns the user's achievements, newest unlock first.
func (a *AchievementDB) ListByUser(ctx context.Context, userID string) ([]model.Achievement, error) {
	rows, err := a.db.conn.QueryContext(ctx,
		`SELECT id, user_id, type, name, description, points, unlocked_at
		 FROM achievements
		 WHERE user_id = ?
		 ORDER BY unlocked_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing achievements: %w", err)
	}
	defer rows.Close()

	var achievements []model.Achievement
	for rows.Next() {
		var ach model.Achievement
		if err := rows.Scan(
			&ach.ID, &ach.UserID, &ach.Type, &ach.Name,
			&ach.Description, &ach.Points, &ach.UnlockedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning achievement row: %w", err)
		}
		achievements = append(achievements, ach)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating achievements: %w", err)
	}

	if achievements == nil {
		achievements = []model.Achievement{}
	}
	return achievements, nil
}
