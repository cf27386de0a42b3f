package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"github.com/mohammadarif-github/BookNest/internal/catalog"
	"github.com/mohammadarif-github/BookNest/internal/session"
	"github.com/mohammadarif-github/BookNest/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	catalog  *catalog.Store
	sessions *session.Manager
	store    store.Store
	webpush  *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(cat *catalog.Store, sessions *session.Manager, s store.Store, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		catalog:  cat,
		sessions: sessions,
		store:    s,
		webpush:  webpushOptions,
	}
}
