// Package session manages per-client filter sessions. A session snapshots
// the catalog exactly once at creation and owns an immutable filter state;
// every mutation replaces the state and recomputes the visible list in full.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/mohammadarif-github/BookNest/internal/catalog"
	"github.com/mohammadarif-github/BookNest/internal/filter"
	"github.com/mohammadarif-github/BookNest/internal/store"
)

const dateLayout = "2006-01-02"

var (
	// ErrMissingDates is returned when either date of an availability query
	// is absent.
	ErrMissingDates = errors.New("check_in and check_out are both required")
	// ErrInvalidDate is returned when a date is not a valid ISO date.
	ErrInvalidDate = errors.New("dates must be in YYYY-MM-DD format")
	// ErrDateOrder is returned when check_out is not strictly after check_in.
	ErrDateOrder = errors.New("check_out must be after check_in")
	// ErrCheckInPast is returned when check_in is earlier than the current date.
	ErrCheckInPast = errors.New("check_in must not be in the past")
	// ErrQueryInFlight is returned while a previous availability query for
	// the same session has not resolved yet.
	ErrQueryInFlight = errors.New("an availability query is already in flight")
)

// AvailabilityFetcher asks the upstream API which rooms are free for a date
// range. Implemented by the upstream client.
type AvailabilityFetcher interface {
	FetchAvailability(ctx context.Context, checkIn, checkOut string) ([]int64, error)
}

// Session is one client's filter session.
type Session struct {
	ID string

	mu      sync.Mutex
	rooms   []store.RoomItem
	agg     catalog.Aggregates
	state   filter.State
	busy    bool
	fetcher AvailabilityFetcher
	now     func() time.Time
}

// Manager creates and looks up sessions. Expired sessions are evicted by the
// underlying TTL cache.
type Manager struct {
	sessions *gocache.Cache
	fetcher  AvailabilityFetcher
	now      func() time.Time
}

// NewManager creates a session manager whose sessions live for ttl.
func NewManager(ttl time.Duration, fetcher AvailabilityFetcher) *Manager {
	return &Manager{
		sessions: gocache.New(ttl, 2*ttl),
		fetcher:  fetcher,
		now:      time.Now,
	}
}

// Create opens a new session over the given catalog snapshot with default
// filters: category "all", no capacity floor, price ceiling at the catalog
// maximum, availability-only off, no overlay.
func (m *Manager) Create(rooms []store.RoomItem, agg catalog.Aggregates) *Session {
	s := &Session{
		ID:      uuid.NewString(),
		rooms:   rooms,
		agg:     agg,
		state:   filter.DefaultState(agg.MaxPrice),
		fetcher: m.fetcher,
		now:     m.now,
	}
	m.sessions.Set(s.ID, s, gocache.DefaultExpiration)
	return s
}

// Get returns the session with the given ID, if it exists and has not expired.
func (m *Manager) Get(id string) (*Session, bool) {
	v, ok := m.sessions.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

// Visible recomputes and returns the currently visible rooms.
func (s *Session) Visible() []store.RoomItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter.VisibleRooms(s.rooms, s.state)
}

// State returns a copy of the current filter state.
func (s *Session) State() filter.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Aggregates returns the numeric bounds of this session's catalog snapshot.
func (s *Session) Aggregates() catalog.Aggregates {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agg
}

// SetCategory selects a category ("all" clears the constraint) and returns
// the recomputed visible list.
func (s *Session) SetCategory(category string) []store.RoomItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.WithCategory(category)
	return filter.VisibleRooms(s.rooms, s.state)
}

// SetCapacityFloor sets the minimum capacity (0 clears the constraint) and
// returns the recomputed visible list.
func (s *Session) SetCapacityFloor(floor int) []store.RoomItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.WithCapacityFloor(floor)
	return filter.VisibleRooms(s.rooms, s.state)
}

// SetPriceCeiling sets the price ceiling, clamped into the observed price
// range of the snapshot, and returns the recomputed visible list.
func (s *Session) SetPriceCeiling(ceiling float64) []store.RoomItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.WithPriceCeiling(ceiling, s.agg.MinPrice, s.agg.MaxPrice)
	return filter.VisibleRooms(s.rooms, s.state)
}

// SetAvailableOnly toggles the availability-only filter and returns the
// recomputed visible list.
func (s *Session) SetAvailableOnly(on bool) []store.RoomItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.WithAvailableOnly(on)
	return filter.VisibleRooms(s.rooms, s.state)
}

// Reset restores all filter defaults and drops the overlay. The returned
// list is the full original snapshot.
func (s *Session) Reset() []store.RoomItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = filter.DefaultState(s.agg.MaxPrice)
	return filter.VisibleRooms(s.rooms, s.state)
}

// CheckAvailability validates the date range locally, queries the upstream
// API, and installs the resulting overlay. Validation failures never reach
// the network; an upstream failure leaves any previous overlay untouched.
// Only one query may be in flight per session.
func (s *Session) CheckAvailability(ctx context.Context, checkIn, checkOut string) ([]store.RoomItem, error) {
	if err := validateDateRange(checkIn, checkOut, s.now()); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, ErrQueryInFlight
	}
	s.busy = true
	s.mu.Unlock()

	ids, err := s.fetcher.FetchAvailability(ctx, checkIn, checkOut)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false

	if err != nil {
		return nil, fmt.Errorf("availability query failed: %w", err)
	}

	// The most recently resolved response determines the overlay: a plain
	// overwrite of whatever was installed before.
	s.state = s.state.WithOverlay(filter.NewOverlay(ids))
	return filter.VisibleRooms(s.rooms, s.state), nil
}

// ClearAvailability removes the overlay unconditionally. Idempotent.
func (s *Session) ClearAvailability() []store.RoomItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.WithoutOverlay()
	return filter.VisibleRooms(s.rooms, s.state)
}

func validateDateRange(checkIn, checkOut string, now time.Time) error {
	if checkIn == "" || checkOut == "" {
		return ErrMissingDates
	}

	in, err := time.Parse(dateLayout, checkIn)
	if err != nil {
		return ErrInvalidDate
	}
	out, err := time.Parse(dateLayout, checkOut)
	if err != nil {
		return ErrInvalidDate
	}

	if !out.After(in) {
		return ErrDateOrder
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if in.Before(today) {
		return ErrCheckInPast
	}
	return nil
}
