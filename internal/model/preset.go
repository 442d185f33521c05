package model

import "time"

// PresetSetting is the desired state for a single device within a preset.
// TargetUsage is optional — nil means "leave the current draw alone".
type PresetSetting struct {
	Status      bool `json:"status"`
	TargetUsage *int `json:"targetUsage,omitempty"`
}

// Preset is a named bundle of device settings ("Movie night", "Away",
// ...). Settings maps device IDs to the state each device should take
// when the preset is applied. Applying a preset only touches devices the
// caller owns — stale or foreign device IDs are skipped silently.
type Preset struct {
	ID          string                   `json:"id"          db:"id"`
	UserID      string                   `json:"userId"      db:"user_id"`
	Name        string                   `json:"name"        db:"name"`
	Description string                   `json:"description" db:"description"`
	Settings    map[string]PresetSetting `json:"settings"    db:"settings"`
	IsDefault   bool                     `json:"isDefault"   db:"is_default"`
	CreatedAt   time.Time                `json:"createdAt"   db:"created_at"`
}
