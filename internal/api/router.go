package api

import (
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/mohammadarif-github/BookNest/config"
	"github.com/mohammadarif-github/BookNest/internal/auth"
	"github.com/mohammadarif-github/BookNest/internal/catalog"
	"github.com/mohammadarif-github/BookNest/internal/mw"
	"github.com/mohammadarif-github/BookNest/internal/session"
	"github.com/mohammadarif-github/BookNest/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.ServerConfig, cat *catalog.Store, sessions *session.Manager, s store.Store, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(cat, sessions, s, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateBurst)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API group
	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// The shared catalog is safe to cache; session endpoints are not,
		// their payloads change with every filter mutation.
		api.GET("/rooms", caching, handler.GetRooms)

		api.POST("/sessions", handler.CreateSession)
		api.GET("/sessions/:session_id/rooms", handler.GetSessionRooms)
		api.PATCH("/sessions/:session_id/filters", handler.UpdateFilters)
		api.DELETE("/sessions/:session_id/filters", handler.ResetFilters)
		api.POST("/sessions/:session_id/availability", handler.CheckAvailability)
		api.DELETE("/sessions/:session_id/availability", handler.ClearAvailability)

		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

		// Availability alerts require a live login session.
		private := api.Group("")
		private.Use(auth.SessionRequired())
		{
			private.GET("/subscriptions", handler.GetSubscription)
			private.PUT("/subscriptions", handler.PutSubscription)
			private.DELETE("/subscriptions", handler.DeleteSubscription)
		}
	}

	return r
}
