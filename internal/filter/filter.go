// Package filter implements the room filter and availability-overlay engine:
// a set of independent pure predicates over a room record, an optional
// allow-list overlay of room IDs, and a composer that derives the visible
// room list from a catalog snapshot. The visible list is always recomputed in
// full; nothing here mutates shared state.
package filter

import "github.com/mohammadarif-github/BookNest/internal/store"

// All is the sentinel selector value meaning "no constraint".
const All = "all"

// Overlay is a date-range-scoped allow-list of room identifiers. A nil
// Overlay means no date filter is active.
type Overlay map[int64]struct{}

// NewOverlay builds an overlay from the room IDs an availability query
// reported as free.
func NewOverlay(ids []int64) Overlay {
	o := make(Overlay, len(ids))
	for _, id := range ids {
		o[id] = struct{}{}
	}
	return o
}

// Contains reports whether the overlay admits the given room.
func (o Overlay) Contains(id int64) bool {
	_, ok := o[id]
	return ok
}

// State is an immutable snapshot of the filter inputs. Mutators return a new
// value rather than modifying in place; the overlay map is replaced, never
// written through.
type State struct {
	Category      string
	CapacityFloor int // 0 means "all"
	PriceCeiling  float64
	AvailableOnly bool
	Overlay       Overlay
}

// DefaultState returns the filter defaults for a catalog whose maximum
// observed price is maxPrice: everything visible, ceiling at the top of the
// observed range, no overlay.
func DefaultState(maxPrice float64) State {
	return State{
		Category:     All,
		PriceCeiling: maxPrice,
	}
}

// WithCategory returns a copy of s selecting the given category. An empty
// value is normalized to the "all" sentinel.
func (s State) WithCategory(category string) State {
	if category == "" {
		category = All
	}
	s.Category = category
	return s
}

// WithCapacityFloor returns a copy of s requiring at least floor guests.
// A non-positive floor clears the constraint.
func (s State) WithCapacityFloor(floor int) State {
	if floor < 0 {
		floor = 0
	}
	s.CapacityFloor = floor
	return s
}

// WithPriceCeiling returns a copy of s with the ceiling clamped into the
// observed [min, max] price range of the catalog snapshot. UI interaction
// must never push the ceiling outside that range.
func (s State) WithPriceCeiling(ceiling, min, max float64) State {
	if ceiling < min {
		ceiling = min
	}
	if ceiling > max {
		ceiling = max
	}
	s.PriceCeiling = ceiling
	return s
}

// WithAvailableOnly returns a copy of s toggling the availability-only filter.
func (s State) WithAvailableOnly(on bool) State {
	s.AvailableOnly = on
	return s
}

// WithOverlay returns a copy of s with the given overlay active.
func (s State) WithOverlay(o Overlay) State {
	s.Overlay = o
	return s
}

// WithoutOverlay returns a copy of s with no date filter active. Idempotent.
func (s State) WithoutOverlay() State {
	s.Overlay = nil
	return s
}

// Matches reports whether a single room passes every predicate in the set.
// The sub-predicates are independent and side-effect free, so evaluation
// order does not matter.
func Matches(room store.RoomItem, s State) bool {
	return matchesCategory(room, s) &&
		matchesCapacity(room, s) &&
		matchesPrice(room, s) &&
		matchesAvailability(room, s)
}

func matchesCategory(room store.RoomItem, s State) bool {
	return s.Category == All || room.Category == s.Category
}

func matchesCapacity(room store.RoomItem, s State) bool {
	return s.CapacityFloor == 0 || room.Capacity >= s.CapacityFloor
}

func matchesPrice(room store.RoomItem, s State) bool {
	return room.PriceValue <= s.PriceCeiling
}

func matchesAvailability(room store.RoomItem, s State) bool {
	return !s.AvailableOnly || !room.IsBooked
}

// VisibleRooms derives the visible list from a catalog snapshot: the overlay
// restriction first (when active), then the predicate set, preserving the
// original catalog order. This is the single source of truth for what a
// client sees; callers must not filter the list anywhere else.
func VisibleRooms(catalog []store.RoomItem, s State) []store.RoomItem {
	visible := make([]store.RoomItem, 0, len(catalog))
	for _, room := range catalog {
		if s.Overlay != nil && !s.Overlay.Contains(room.ID) {
			continue
		}
		if Matches(room, s) {
			visible = append(visible, room)
		}
	}
	return visible
}
