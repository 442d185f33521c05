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

var _ repository.PresetRepository = (*PresetDB)(nil)

// PresetDB implements repository.PresetRepository.
type PresetDB struct {
	db *DB
}

func (p *PresetDB) Create(ctx context.Context, preset *model.Preset) error {
	preset.ID = xid.New().String()
	preset.CreatedAt = time.Now()
	if preset.Settings == nil {
		preset.Settings = map[string]model.PresetSetting{}
	}

	settings, err := marshalMap(preset.Settings)
	if err != nil {
		return fmt.Errorf("sqlite: creating preset: %w", err)
	}

	_, err = p.db.conn.ExecContext(ctx,
		`INSERT INTO presets (id, user_id, name, description, settings, is_default, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		preset.ID,
		preset.UserID,
		preset.Name,
		preset.Description,
		settings,
		preset.IsDefault,
		preset.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting preset: %w", err)
	}

	return nil
}

func scanPreset(scan func(dest ...any) error) (*model.Preset, error) {
	var (
		preset   model.Preset
		settings string
	)
	err := scan(
		&preset.ID,
		&preset.UserID,
		&preset.Name,
		&preset.Description,
		&settings,
		&preset.IsDefault,
		&preset.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalMap(settings, &preset.Settings); err != nil {
		return nil, err
	}
	return &preset, nil
}

func (p *PresetDB) GetByID(ctx context.Context, id string) (*model.Preset, error) {
	row := p.db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, name, description, settings, is_default, created_at
		 FROM presets WHERE id = ?`, id)

	preset, err := scanPreset(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("preset", id)
		}
		return nil, fmt.Errorf("sqlite: getting preset %s: %w", id, err)
	}
	return preset, nil
}

func (p *PresetDB) ListByUser(ctx context.Context, userID string) ([]model.Preset, error) {
	rows, err := p.db.conn.QueryContext(ctx,
		`SELECT id, user_id, name, description, settings, is_default, created_at
		 FROM presets
		 WHERE user_id = ?
		 ORDER BY is_default DESC, created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing presets: %w", err)
	}
	defer rows.Close()

	var presets []model.Preset
	for rows.Next() {
		preset, err := scanPreset(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning preset row: %w", err)
		}
		presets = append(presets, *preset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating presets: %w", err)
	}

	if presets == nil {
		presets = []model.Preset{}
	}
	return presets, nil
}
