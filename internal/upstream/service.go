package upstream

import (
	"context"
	"log"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"github.com/mohammadarif-github/BookNest/config"
	"github.com/mohammadarif-github/BookNest/internal/catalog"
	"github.com/mohammadarif-github/BookNest/internal/notification"
	"github.com/mohammadarif-github/BookNest/internal/store"
)

// Service orchestrates catalog refreshes: fetch from the upstream API, update
// the in-memory catalog store, persist room metadata and status transitions,
// and dispatch availability alerts for rooms that freed up.
type Service struct {
	cfg        *config.Config
	client     *Client
	catalog    *catalog.Store
	store      store.Store
	workerPool *notification.WorkerPool
}

// NewService creates and initializes a new refresh service.
func NewService(cfg *config.Config, client *Client, cat *catalog.Store, st store.Store) *Service {
	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	workerPool := notification.NewWorkerPool(cfg.WorkerPool.Size, st.DB(), &webpushOptions)

	return &Service{
		cfg:        cfg,
		client:     client,
		catalog:    cat,
		store:      st,
		workerPool: workerPool,
	}
}

// Run populates the catalog once at startup and, when the refresher is
// enabled, keeps it fresh on the configured interval.
func (s *Service) Run(ctx context.Context) {
	s.workerPool.Start(ctx)

	s.RefreshOnce(ctx)

	if !s.cfg.Refresher.Enabled {
		log.Println("Catalog refresher is disabled. Serving the startup snapshot only.")
		return
	}

	timer := time.NewTimer(s.cfg.Refresher.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Catalog refresh service shutting down.")
			return
		case <-timer.C:
			s.RefreshOnce(ctx)
			timer.Reset(s.cfg.Refresher.Interval)
		}
	}
}

// RefreshOnce performs a single catalog fetch-and-update cycle. A failed
// fetch leaves the previous catalog state untouched.
func (s *Service) RefreshOnce(ctx context.Context) {
	log.Println("Executing catalog refresh...")
	now := time.Now().UTC()

	rooms, err := s.client.FetchRoomList(ctx)
	if err != nil {
		log.Printf("Error fetching room list: %v. Catalog will not be updated.", err)
		return
	}

	// Status comparison needs the pre-refresh DB state, so record transitions
	// before the metadata upsert overwrites it.
	becameAvailable, err := s.store.RecordStatusChanges(ctx, now, rooms)
	if err != nil {
		log.Printf("Error recording room status changes: %v", err)
	}

	if err := s.store.UpsertRooms(ctx, rooms); err != nil {
		log.Printf("Error persisting rooms: %v", err)
	}

	s.catalog.SetRooms(rooms)

	if len(becameAvailable) > 0 {
		log.Printf("Dispatching availability alerts for %d rooms", len(becameAvailable))
		for _, roomID := range becameAvailable {
			s.workerPool.Dispatch(roomID)
		}
	}

	log.Printf("Catalog refresh finished: %d rooms.", len(rooms))
}
