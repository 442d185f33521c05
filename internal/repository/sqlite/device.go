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

var _ repository.DeviceRepository = (*DeviceDB)(nil)

// DeviceDB implements repository.DeviceRepository.
type DeviceDB struct {
	db *DB
}

const deviceColumns = `id, user_id, room_id, name, type, status,
	current_usage, schedule, created_at, updated_at`

func (d *DeviceDB) Create(ctx context.Context, device *model.Device) error {
	now := time.Now()
	device.ID = xid.New().String()
	device.Status = false
	device.CurrentUsage = 0
	if device.Schedule == nil {
		device.Schedule = map[string]any{}
	}
	device.CreatedAt = now
	device.UpdatedAt = now

	schedule, err := marshalMap(device.Schedule)
	if err != nil {
		return fmt.Errorf("sqlite: creating device: %w", err)
	}

	_, err = d.db.conn.ExecContext(ctx,
		`INSERT INTO devices (id, user_id, room_id, name, type, status,
			current_usage, schedule, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		device.ID,
		device.UserID,
		device.RoomID,
		device.Name,
		device.Type,
		device.Status,
		device.CurrentUsage,
		schedule,
		device.CreatedAt,
		device.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting device: %w", err)
	}

	return nil
}

func scanDevice(scan func(dest ...any) error) (*model.Device, error) {
	var (
		dev      model.Device
		schedule string
	)
	err := scan(
		&dev.ID,
		&dev.UserID,
		&dev.RoomID,
		&dev.Name,
		&dev.Type,
		&dev.Status,
		&dev.CurrentUsage,
		&schedule,
		&dev.CreatedAt,
		&dev.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalMap(schedule, &dev.Schedule); err != nil {
		return nil, err
	}
	return &dev, nil
}

func (d *DeviceDB) GetByID(ctx context.Context, id string) (*model.Device, error) {
	row := d.db.conn.QueryRowContext(ctx,
		`SELECT `+deviceColumns+` FROM devices WHERE id = ?`, id)

	device, err := scanDevice(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("device", id)
		}
		return nil, fmt.Errorf("sqlite: getting device %s: %w", id, err)
	}
	return device, nil
}

func (d *DeviceDB) ListByUser(ctx context.Context, userID string) ([]model.Device, error) {
	rows, err := d.db.conn.QueryContext(ctx,
		`SELECT `+deviceColumns+` FROM devices
		 WHERE user_id = ?
		 ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing devices: %w", err)
	}
	defer rows.Close()

	var devices []model.Device
	for rows.Next() {
		device, err := scanDevice(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning device row: %w", err)
		}
		devices = append(devices, *device)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating devices: %w", err)
	}

	if devices == nil {
		devices = []model.Device{}
	}
	return devices, nil
}

// UpdateState flips the power status and optionally pins the current
// draw. RowsAffected distinguishes "no such device" from a successful
// no-op write — same pattern as everywhere else in this package.
func (d *DeviceDB) UpdateState(ctx context.Context, id string, status bool, usage *int) (*model.Device, error) {
	now := time.Now()

	var (
		result sql.Result
		err    error
	)
	if usage != nil {
		result, err = d.db.conn.ExecContext(ctx,
			`UPDATE devices SET status = ?, current_usage = ?, updated_at = ? WHERE id = ?`,
			status, *usage, now, id,
		)
	} else {
		result, err = d.db.conn.ExecContext(ctx,
			`UPDATE devices SET status = ?, updated_at = ? WHERE id = ?`,
			status, now, id,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating device %s state: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, apperror.NotFound("device", id)
	}

	return d.GetByID(ctx, id)
}
