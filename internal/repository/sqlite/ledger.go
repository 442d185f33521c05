package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/wattwise/wattwise/internal/apperror"
	"github.com/wattwise/wattwise/internal/model"
	"github.com/wattwise/wattwise/internal/repository"
)

// compile-time check that *LedgerDB implements repository.LedgerRepository
var _ repository.LedgerRepository = (*LedgerDB)(nil)

// LedgerDB implements the point ledger on the shared pool.
type LedgerDB struct {
	db *DB
}

// Award appends a ledger entry and moves the user's cached total in one
// transaction.
//
// THE LOST-UPDATE PROBLEM THIS AVOIDS:
// The naive sequence — read energy_points, add delta in Go, write the
// sum back — races under concurrency: two requests read the same
// starting total and the second write silently erases the first delta.
// Instead the increment happens inside the database:
//
//	UPDATE users SET energy_points = energy_points + ?
//
// which is atomic per statement, and the whole award runs in one
// transaction so the ledger row and the total can never diverge: either
// both land or neither does.
//
// The user-existence check runs first, inside the same transaction, so
// awarding to an unknown user fails with NotFound before anything is
// written — no orphaned ledger entries.
func (l *LedgerDB) Award(ctx context.Context, userID string, delta int, reason string) (*model.PointHistory, *model.User, error) {
	tx, err := l.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: beginning award transaction: %w", err)
	}
	// Rollback is a no-op after a successful Commit.
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE id = ?`, userID,
	).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, apperror.NotFound("user", userID)
		}
		return nil, nil, fmt.Errorf("sqlite: checking user %s: %w", userID, err)
	}

	entry := &model.PointHistory{
		ID:        xid.New().String(),
		UserID:    userID,
		Points:    delta,
		Reason:    reason,
		Timestamp: time.Now(),
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO point_history (id, user_id, points, reason, timestamp)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.Points, entry.Reason, entry.Timestamp,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: appending point history: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET energy_points = energy_points + ?, updated_at = ?
		 WHERE id = ?`,
		delta, entry.Timestamp, userID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: updating user points: %w", err)
	}

	// Read the refreshed user back inside the transaction so the
	// returned snapshot matches exactly what this award produced.
	row := tx.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, userID)
	user, err := scanUser(row.Scan)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: reading user after award: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("sqlite: committing award: %w", err)
	}

	return entry, user, nil
}

// History returns the user's ledger entries, newest first. Equal
// timestamps (possible within one clock tick) fall back to ID order,
// which for xid is creation order.
func (l *LedgerDB) History(ctx context.Context, userID string) ([]model.PointHistory, error) {
	rows, err := l.db.conn.QueryContext(ctx,
		`SELECT id, user_id, points, reason, timestamp
		 FROM point_history
		 WHERE user_id = ?
		 ORDER BY timestamp DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing point history: %w", err)
	}
	defer rows.Close()

	var entries []model.PointHistory
	for rows.Next() {
		var e model.PointHistory
		if err := rows.Scan(&e.ID, &e.UserID, &e.Points, &e.Reason, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("sqlite: scanning point history row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating point history: %w", err)
	}

	if entries == nil {
		entries = []model.PointHistory{}
	}
	return entries, nil
}
