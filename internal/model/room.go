package model

import "time"

// Room types accepted by the API. Validation lives in the service layer;
// these constants keep the accepted set in one place.
const (
	RoomLiving   = "living"
	RoomBedroom  = "bedroom"
	RoomKitchen  = "kitchen"
	RoomBathroom = "bathroom"
	RoomOffice   = "office"
	RoomOther    = "other"
)

// RoomTypes lists every valid room type, in display order.
var RoomTypes = []string{RoomLiving, RoomBedroom, RoomKitchen, RoomBathroom, RoomOffice, RoomOther}

// Room groups devices by physical location. Devices reference a room
// optionally — an unassigned device simply has no RoomID.
type Room struct {
	ID        string    `json:"id"        db:"id"`
	UserID    string    `json:"userId"    db:"user_id"`
	Name      string    `json:"name"      db:"name"`
	Type      string    `json:"type"      db:"type"`
	Floor     int       `json:"floor"     db:"floor"` // 1-based, defaults to 1
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
