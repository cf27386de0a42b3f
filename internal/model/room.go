package model

import "time"

// Room represents a hotel room's persisted metadata, mirrored from the
// upstream catalog on every refresh.
type Room struct {
	ID        int64  `gorm:"primaryKey"` // Upstream ID
	Title     string `gorm:"size:128;not null"`
	Slug      string `gorm:"size:128;index"`
	Category  string `gorm:"size:64;index"`
	Capacity  int    `gorm:"not null"`
	PriceRaw  string `gorm:"size:32"`
	SizeRaw   string `gorm:"size:16"`
	IsBooked  bool   `gorm:"not null"`
	Featured  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
