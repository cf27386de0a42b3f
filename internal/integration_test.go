package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mohammadarif-github/BookNest/config"
	"github.com/mohammadarif-github/BookNest/internal/api"
	"github.com/mohammadarif-github/BookNest/internal/catalog"
	"github.com/mohammadarif-github/BookNest/internal/model"
	"github.com/mohammadarif-github/BookNest/internal/session"
	"github.com/mohammadarif-github/BookNest/internal/store"
	"github.com/mohammadarif-github/BookNest/internal/upstream"
)

func newIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err, "Failed to connect to the in-memory database")

	err = testDB.AutoMigrate(&model.Room{}, &model.RoomStatusEvent{}, &model.PushSubscription{})
	require.NoError(t, err)
	return testDB
}

func roomListBody(rooms ...store.RoomItem) []byte {
	body, _ := json.Marshal(map[string]any{
		"success": true,
		"message": "ok",
		"data":    rooms,
	})
	return body
}

// TestRoomStatusLifecycle runs two refresh cycles against a scripted upstream
// and verifies the persisted rooms and status events after each one.
func TestRoomStatusLifecycle(t *testing.T) {
	testDB := newIntegrationDB(t)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()

	// Scripted upstream: first fetch sees the room booked, second sees it free.
	var requestCount int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		room := store.RoomItem{
			ID: 101, Title: "Garden Suite", Category: "Suite",
			Capacity: 3, PriceRaw: "320.000", SizeRaw: "45m²",
		}
		room.IsBooked = requestCount == 0
		requestCount++

		w.Header().Set("Content-Type", "application/json")
		w.Write(roomListBody(room))
	}))
	defer server.Close()

	cfg := &config.Config{
		Upstream:   config.UpstreamConfig{BaseURL: server.URL, TimeoutSeconds: 5},
		WorkerPool: config.WorkerPoolConfig{Size: 2},
	}

	gormStore := store.NewGormStore(testDB)
	cat := catalog.NewStore()
	service := upstream.NewService(cfg, upstream.NewClient(&cfg.Upstream), cat, gormStore)

	t.Run("Cycle 1: Room Observed Booked", func(t *testing.T) {
		service.RefreshOnce(context.Background())

		var room model.Room
		err := testDB.First(&room, 101).Error
		assert.NoError(t, err, "Expected the room to be persisted")
		assert.True(t, room.IsBooked)
		assert.Equal(t, "Garden Suite", room.Title)

		// The first sighting of a room records its initial status.
		var eventCount int64
		testDB.Model(&model.RoomStatusEvent{}).Where("room_id = ?", 101).Count(&eventCount)
		assert.Equal(t, int64(1), eventCount)

		assert.True(t, cat.Loaded())
	})

	t.Run("Cycle 2: Room Turns Free", func(t *testing.T) {
		service.RefreshOnce(context.Background())

		var room model.Room
		err := testDB.First(&room, 101).Error
		assert.NoError(t, err)
		assert.False(t, room.IsBooked, "The upsert should have flipped the reservation flag")

		var events []model.RoomStatusEvent
		err = testDB.Where("room_id = ?", 101).Order("id").Find(&events).Error
		assert.NoError(t, err)
		require.Len(t, events, 2, "Both observations should be on record")
		assert.True(t, events[0].IsBooked)
		assert.False(t, events[1].IsBooked)
		assert.WithinDuration(t, time.Now(), events[1].ObservedAt, 5*time.Second)

		rooms, _ := cat.Snapshot()
		require.Len(t, rooms, 1)
		assert.False(t, rooms[0].IsBooked)
	})
}

// TestBrowseLifecycle drives the public HTTP surface end to end: catalog
// load, session creation, filter mutations, the availability overlay, and
// the reset back to the untouched snapshot.
func TestBrowseLifecycle(t *testing.T) {
	testDB := newIntegrationDB(t)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/hotel/get_room_list/":
			w.Write(roomListBody(
				store.RoomItem{ID: 1, Title: "Deluxe King", Category: "Deluxe", Capacity: 2, PriceRaw: "250.000"},
				store.RoomItem{ID: 2, Title: "Garden Suite", Category: "Suite", Capacity: 4, PriceRaw: "400.000", IsBooked: true},
				store.RoomItem{ID: 3, Title: "Twin Economy", Category: "Economy", Capacity: 2, PriceRaw: "90.000"},
			))
		case "/hotel/room-availability/":
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"message": "ok",
				"data": map[string]any{
					"available_rooms": []map[string]any{{"id": 1}, {"id": 2}},
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:            8080,
			RateLimitPerSec: 100,
			RateBurst:       100,
			CacheTTLSeconds: 1,
		},
		Upstream:   config.UpstreamConfig{BaseURL: server.URL, TimeoutSeconds: 5},
		WorkerPool: config.WorkerPoolConfig{Size: 2},
	}

	gormStore := store.NewGormStore(testDB)
	cat := catalog.NewStore()
	client := upstream.NewClient(&cfg.Upstream)
	upstream.NewService(cfg, client, cat, gormStore).RefreshOnce(context.Background())
	require.True(t, cat.Loaded())

	sessions := session.NewManager(time.Minute, client)
	router := api.NewRouter(&cfg.Server, cat, sessions, gormStore, nil)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		var req *http.Request
		if body != "" {
			req, _ = http.NewRequest(method, path, bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
		} else {
			req, _ = http.NewRequest(method, path, nil)
		}
		router.ServeHTTP(w, req)
		return w
	}

	type response struct {
		Success   bool             `json:"success"`
		SessionID string           `json:"session_id"`
		Rooms     []store.RoomItem `json:"rooms"`
		Count     int              `json:"count"`
		Filters   struct {
			Category         string  `json:"category"`
			CapacityFloor    string  `json:"capacity_floor"`
			PriceCeiling     float64 `json:"price_ceiling"`
			AvailableOnly    bool    `json:"available_only"`
			DateFilterActive bool    `json:"date_filter_active"`
		} `json:"filters"`
	}
	decode := func(t *testing.T, w *httptest.ResponseRecorder) response {
		t.Helper()
		var resp response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp
	}

	// The shared catalog endpoint serves the full list.
	w := do("GET", "/api/rooms", "")
	require.Equal(t, http.StatusOK, w.Code)

	// Open a session: defaults show every room in catalog order.
	w = do("POST", "/api/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode(t, w)
	require.NotEmpty(t, created.SessionID)
	require.Equal(t, 3, created.Count)
	assert.Equal(t, 400.0, created.Filters.PriceCeiling)

	base := "/api/sessions/" + created.SessionID

	// Price ceiling hides the suite.
	w = do("PATCH", base+"/filters", `{"price_ceiling": 300}`)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, int64(1), resp.Rooms[0].ID)
	assert.Equal(t, int64(3), resp.Rooms[1].ID)

	// The availability overlay restricts the base set before predicates run:
	// rooms 1 and 2 are free for the dates, but 2 is over the ceiling.
	checkIn := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	checkOut := time.Now().AddDate(0, 0, 9).Format("2006-01-02")
	w = do("POST", base+"/availability", fmt.Sprintf(`{"check_in": %q, "check_out": %q}`, checkIn, checkOut))
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode(t, w)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, int64(1), resp.Rooms[0].ID)
	assert.True(t, resp.Filters.DateFilterActive)

	// Dropping the overlay keeps the price filter in place.
	w = do("DELETE", base+"/availability", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode(t, w)
	assert.Equal(t, 2, resp.Count)
	assert.False(t, resp.Filters.DateFilterActive)

	// Reset restores the untouched snapshot.
	w = do("DELETE", base+"/filters", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode(t, w)
	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, "all", resp.Filters.Category)
	assert.Equal(t, 400.0, resp.Filters.PriceCeiling)
}
