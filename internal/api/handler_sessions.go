package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mohammadarif-github/BookNest/internal/filter"
	"github.com/mohammadarif-github/BookNest/internal/parse"
	"github.com/mohammadarif-github/BookNest/internal/session"
	"github.com/mohammadarif-github/BookNest/internal/store"
)

// filterView is the wire representation of a session's filter state. The
// category and capacity selectors use the "all" sentinel the front end works
// with.
type filterView struct {
	Category         string  `json:"category"`
	CapacityFloor    string  `json:"capacity_floor"`
	PriceCeiling     float64 `json:"price_ceiling"`
	AvailableOnly    bool    `json:"available_only"`
	DateFilterActive bool    `json:"date_filter_active"`
}

func viewOf(state filter.State) filterView {
	capacity := filter.All
	if state.CapacityFloor > 0 {
		capacity = strconv.Itoa(state.CapacityFloor)
	}
	return filterView{
		Category:         state.Category,
		CapacityFloor:    capacity,
		PriceCeiling:     state.PriceCeiling,
		AvailableOnly:    state.AvailableOnly,
		DateFilterActive: state.Overlay != nil,
	}
}

func sessionPayload(s *session.Session, visible []store.RoomItem) gin.H {
	return gin.H{
		"success":    true,
		"session_id": s.ID,
		"filters":    viewOf(s.State()),
		"rooms":      visible,
		"count":      len(visible),
	}
}

// CreateSession handles POST /api/sessions. The new session snapshots the
// catalog as it stands right now; later refreshes do not disturb it.
func (h *Handler) CreateSession(c *gin.Context) {
	if !h.catalog.Loaded() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "room catalog could not be loaded"})
		return
	}

	rooms, agg := h.catalog.Snapshot()
	s := h.sessions.Create(rooms, agg)

	payload := sessionPayload(s, s.Visible())
	payload["aggregates"] = agg
	c.JSON(http.StatusCreated, payload)
}

func (h *Handler) session(c *gin.Context) (*session.Session, bool) {
	s, ok := h.sessions.Get(c.Param("session_id"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "session not found or expired"})
		return nil, false
	}
	return s, true
}

// GetSessionRooms handles GET /api/sessions/:session_id/rooms.
func (h *Handler) GetSessionRooms(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionPayload(s, s.Visible()))
}

type updateFiltersRequest struct {
	Category      *string  `json:"category"`
	CapacityFloor *string  `json:"capacity_floor"`
	PriceCeiling  *float64 `json:"price_ceiling"`
	AvailableOnly *bool    `json:"available_only"`
}

// UpdateFilters handles PATCH /api/sessions/:session_id/filters. Any subset
// of the filter inputs may be supplied; each one triggers a synchronous
// recompute of the visible list.
func (h *Handler) UpdateFilters(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req updateFiltersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var visible []store.RoomItem
	applied := false

	if req.Category != nil {
		visible = s.SetCategory(strings.TrimSpace(*req.Category))
		applied = true
	}
	if req.CapacityFloor != nil {
		floor, err := parseCapacitySelector(*req.CapacityFloor)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		visible = s.SetCapacityFloor(floor)
		applied = true
	}
	if req.PriceCeiling != nil {
		visible = s.SetPriceCeiling(*req.PriceCeiling)
		applied = true
	}
	if req.AvailableOnly != nil {
		visible = s.SetAvailableOnly(*req.AvailableOnly)
		applied = true
	}

	if !applied {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no filter inputs supplied"})
		return
	}

	c.JSON(http.StatusOK, sessionPayload(s, visible))
}

func parseCapacitySelector(raw string) (int, error) {
	v := strings.TrimSpace(strings.ToLower(raw))
	if v == "" || v == filter.All {
		return 0, nil
	}
	n, ok := parse.PositiveInt(v)
	if !ok {
		return 0, errors.New("capacity_floor must be a positive integer or \"all\"")
	}
	return n, nil
}

// ResetFilters handles DELETE /api/sessions/:session_id/filters: all inputs
// back to defaults, overlay dropped, full snapshot visible again.
func (h *Handler) ResetFilters(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionPayload(s, s.Reset()))
}

type availabilityRequest struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

// CheckAvailability handles POST /api/sessions/:session_id/availability.
func (h *Handler) CheckAvailability(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	visible, err := s.CheckAvailability(c.Request.Context(), req.CheckIn, req.CheckOut)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrMissingDates),
			errors.Is(err, session.ErrInvalidDate),
			errors.Is(err, session.ErrDateOrder),
			errors.Is(err, session.ErrCheckInPast):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, session.ErrQueryInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "availability check failed, previous date filter kept"})
		}
		return
	}

	c.JSON(http.StatusOK, sessionPayload(s, visible))
}

// ClearAvailability handles DELETE /api/sessions/:session_id/availability.
// Clearing an overlay that is not there is fine.
func (h *Handler) ClearAvailability(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionPayload(s, s.ClearAvailability()))
}
