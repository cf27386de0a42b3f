// Package catalog holds the full unfiltered room list and the numeric
// aggregates derived from it. The store is populated from the upstream API
// and read by filter sessions, which snapshot it exactly once at creation.
package catalog

import (
	"sync"

	"github.com/mohammadarif-github/BookNest/internal/parse"
	"github.com/mohammadarif-github/BookNest/internal/store"
)

// Aggregates are the numeric bounds observed across the full catalog,
// computed once per load.
type Aggregates struct {
	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`
	MinSize  float64 `json:"min_size"`
	MaxSize  float64 `json:"max_size"`
}

// Store holds the current room catalog. A zero Store is empty and reports
// Loaded() == false, which callers must treat as "loading failed", not
// "no rooms exist".
type Store struct {
	mu     sync.RWMutex
	rooms  []store.RoomItem
	agg    Aggregates
	loaded bool
}

// NewStore creates an empty catalog store.
func NewStore() *Store {
	return &Store{}
}

// SetRooms replaces the catalog with a fresh fetch. Price and size magnitudes
// are parsed tolerantly and the aggregates recomputed over the whole list.
func (s *Store) SetRooms(rooms []store.RoomItem) {
	parsed := make([]store.RoomItem, len(rooms))
	copy(parsed, rooms)
	for i := range parsed {
		parsed[i].PriceValue = parse.Numeric(parsed[i].PriceRaw)
		parsed[i].SizeValue = parse.Numeric(parsed[i].SizeRaw)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms = parsed
	s.agg = computeAggregates(parsed)
	s.loaded = true
}

// Snapshot returns a copy of the room list in original order together with
// the aggregates. The copy is the caller's to keep; later refreshes do not
// touch it.
func (s *Store) Snapshot() ([]store.RoomItem, Aggregates) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rooms := make([]store.RoomItem, len(s.rooms))
	copy(rooms, s.rooms)
	return rooms, s.agg
}

// Loaded reports whether at least one fetch has succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func computeAggregates(rooms []store.RoomItem) Aggregates {
	if len(rooms) == 0 {
		return Aggregates{}
	}

	agg := Aggregates{
		MinPrice: rooms[0].PriceValue,
		MaxPrice: rooms[0].PriceValue,
		MinSize:  rooms[0].SizeValue,
		MaxSize:  rooms[0].SizeValue,
	}
	for _, r := range rooms[1:] {
		if r.PriceValue < agg.MinPrice {
			agg.MinPrice = r.PriceValue
		}
		if r.PriceValue > agg.MaxPrice {
			agg.MaxPrice = r.PriceValue
		}
		if r.SizeValue < agg.MinSize {
			agg.MinSize = r.SizeValue
		}
		if r.SizeValue > agg.MaxSize {
			agg.MaxSize = r.SizeValue
		}
	}
	return agg
}
