package model

import "time"

// RoomStatusEvent logs a flip of a room's reservation flag as observed during
// a catalog refresh.
type RoomStatusEvent struct {
	ID         int64     `gorm:"autoIncrement;primaryKey"`
	RoomID     int64     `gorm:"not null;index"`
	ObservedAt time.Time `gorm:"not null;index"`
	IsBooked   bool      `gorm:"not null"`
}
