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

var _ repository.RoomRepository = (*RoomDB)(nil)

// RoomDB implements repository.RoomRepository.
type RoomDB struct {
	db *DB
}

func (r *RoomDB) Create(ctx context.Context, room *model.Room) error {
	room.ID = xid.New().String()
	room.CreatedAt = time.Now()

	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO rooms (id, user_id, name, type, floor, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		room.ID, room.UserID, room.Name, room.Type, room.Floor, room.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting room: %w", err)
	}

	return nil
}

func (r *RoomDB) GetByID(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, name, type, floor, created_at FROM rooms WHERE id = ?`,
		id,
	).Scan(&room.ID, &room.UserID, &room.Name, &room.Type, &room.Floor, &room.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("room", id)
		}
		return nil, fmt.Errorf("sqlite: getting room %s: %w", id, err)
	}
	return &room, nil
}

// ListByUser returns the user's rooms ordered by floor, then name, which
// is the order the dashboard renders them in.
func (r *RoomDB) ListByUser(ctx context.Context, userID string) ([]model.Room, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, user_id, name, type, floor, created_at
		 FROM rooms
		 WHERE user_id = ?
		 ORDER BY floor ASC, name ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing rooms: %w", err)
	}
	defer rows.Close()

	var rooms []model.Room
	for rows.Next() {
		var room model.Room
		if err := rows.Scan(
			&room.ID, &room.UserID, &room.Name, &room.Type, &room.Floor, &room.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning room row: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating rooms: %w", err)
	}

	if rooms == nil {
		rooms = []model.Room{}
	}
	return rooms, nil
}
