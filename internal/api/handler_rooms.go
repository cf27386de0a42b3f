package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetRooms handles GET /api/rooms: the current service-level catalog with its
// numeric aggregates. An unloaded catalog means the upstream fetch failed,
// which is reported distinctly from an empty hotel.
func (h *Handler) GetRooms(c *gin.Context) {
	if !h.catalog.Loaded() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "room catalog could not be loaded"})
		return
	}

	rooms, agg := h.catalog.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       rooms,
		"count":      len(rooms),
		"aggregates": agg,
	})
}
