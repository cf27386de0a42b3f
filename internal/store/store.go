package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mohammadarif-github/BookNest/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB
	UpsertRooms(ctx context.Context, items []RoomItem) error
	RecordStatusChanges(ctx context.Context, now time.Time, items []RoomItem) ([]int64, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying GORM handle for handlers that need direct access.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// UpsertRooms persists room metadata from the latest catalog fetch.
func (s *gormStore) UpsertRooms(ctx context.Context, items []RoomItem) error {
	if len(items) == 0 {
		return nil
	}

	rooms := make([]model.Room, 0, len(items))
	for _, item := range items {
		rooms = append(rooms, model.Room{
			ID:       item.ID,
			Title:    item.Title,
			Slug:     item.Slug,
			Category: item.Category,
			Capacity: item.Capacity,
			PriceRaw: item.PriceRaw,
			SizeRaw:  item.SizeRaw,
			IsBooked: item.IsBooked,
			Featured: item.Featured,
		})
	}

	log.Printf("Batch upserting %d rooms...", len(rooms))
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "slug", "category", "capacity",
				"price_raw", "size_raw", "is_booked", "featured", "updated_at",
			}),
		}).Create(&rooms).Error; err != nil {
			return fmt.Errorf("batch upsert rooms failed: %w", err)
		}
		return nil
	})
}

// RecordStatusChanges compares the latest fetch against the persisted rooms,
// appends a status event for every reservation-flag flip, and returns the IDs
// of rooms that turned available so waiting guests can be notified.
func (s *gormStore) RecordStatusChanges(ctx context.Context, now time.Time, items []RoomItem) ([]int64, error) {
	existing, err := s.fetchAllRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch persisted rooms: %w", err)
	}

	var becameAvailable []int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			old, known := existing[item.ID]
			if known && old.IsBooked == item.IsBooked {
				continue
			}

			event := model.RoomStatusEvent{
				RoomID:     item.ID,
				ObservedAt: now,
				IsBooked:   item.IsBooked,
			}
			if err := tx.Create(&event).Error; err != nil {
				return fmt.Errorf("failed to record status event for room %d: %w", item.ID, err)
			}

			// Only a booked room turning free is worth an alert. A room seen
			// for the first time has no one waiting on it yet.
			if known && old.IsBooked && !item.IsBooked {
				becameAvailable = append(becameAvailable, item.ID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return becameAvailable, nil
}

func (s *gormStore) fetchAllRooms(ctx context.Context) (map[int64]model.Room, error) {
	var rooms []model.Room
	if err := s.db.WithContext(ctx).Find(&rooms).Error; err != nil {
		return nil, err
	}
	roomMap := make(map[int64]model.Room, len(rooms))
	for _, r := range rooms {
		roomMap[r.ID] = r
	}
	return roomMap, nil
}
