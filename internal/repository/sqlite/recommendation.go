package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/wattwise/wattwise/internal/model"
	"github.com/wattwise/wattwise/internal/repository"
)

var _ repository.RecommendationRepository = (*RecommendationDB)(nil)

// RecommendationDB implements repository.RecommendationRepository.
type RecommendationDB struct {
	db *DB
}

func (r *RecommendationDB) Create(ctx context.Context, rec *model.Recommendation) error {
	rec.ID = xid.New().String()
	rec.CreatedAt = time.Now()

	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO recommendations (id, user_id, content, created_at)
		 VALUES (?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.Content, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting recommendation: %w", err)
	}

	return nil
}

func (r *RecommendationDB) ListByUser(ctx context.Context, userID string) ([]model.Recommendation, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, user_id, content, created_at
		 FROM recommendations
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing recommendations: %w", err)
	}
	defer rows.Close()

	var recs []model.Recommendation
	for rows.Next() {
		var rec model.Recommendation
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Content, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning recommendation row: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating recommendations: %w", err)
	}

	if recs == nil {
		recs = []model.Recommendation{}
	}
	return recs, nil
}
