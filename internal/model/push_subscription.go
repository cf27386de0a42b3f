package model

import "time"

// PushSubscription holds the information for a browser push subscription.
// Guests subscribe to booked rooms and are notified when one frees up.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Rooms []*Room `gorm:"many2many:subscription_room_mapping;"`
}
