package model

import "time"

// Device types accepted by the API.
const (
	DeviceLight      = "light"
	DeviceThermostat = "thermostat"
	DeviceTV         = "tv"
	DeviceComputer   = "computer"
)

// DeviceTypes lists every valid device type.
var DeviceTypes = []string{DeviceLight, DeviceThermostat, DeviceTV, DeviceComputer}

// Device is a smart-home appliance the user can monitor and toggle.
//
// RoomID is empty when the device is unassigned. Status is the power
// state; CurrentUsage is the live draw in watts and is zeroed whenever
// the device is switched off. Schedule is an opaque JSON object owned by
// the frontend scheduler — the server stores and echoes it without
// interpreting it.
type Device struct {
	ID           string         `json:"id"           db:"id"`
	UserID       string         `json:"userId"       db:"user_id"`
	RoomID       string         `json:"roomId"       db:"room_id"` // empty = unassigned
	Name         string         `json:"name"         db:"name"`
	Type         string         `json:"type"         db:"type"`
	Status       bool           `json:"status"       db:"status"`
	CurrentUsage int            `json:"currentUsage" db:"current_usage"`
	Schedule     map[string]any `json:"schedule"     db:"schedule"`
	CreatedAt    time.Time      `json:"createdAt"    db:"created_at"`
	UpdatedAt    time.Time      `json:"updatedAt"    db:"updated_at"`
}
