package storefront

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/imrishuroy/go-storefront/internal/cart"
	"github.com/imrishuroy/go-storefront/internal/checkout"
	"github.com/imrishuroy/go-storefront/internal/notify"
)

// Session is one shopper's state. Every exported method holds the session lock for its whole
// duration, including artificial delays and webhook calls.
type Session struct {
	ID string

	app      *App
	mu       sync.Mutex
	store    *cart.Store
	wizard   *checkout.Wizard
	notes    *notify.Center
	lastSeen time.Time
}

// Session returns the session for id, creating it (and loading its persisted cart and wishlist)
// on first use. Sessions idle for longer than the configured TTL are dropped, and when the
// registry is full the least recently seen one makes room. A dropped session's cart and
// wishlist come back from storage on its next request.
func (a *App) Session(ctx context.Context, id string) *Session {
	now := a.nowFunc()

	a.mu.Lock()
	a.evictIdle(now)
	if s, ok := a.sessions[id]; ok {
		s.lastSeen = now
		a.mu.Unlock()
		return s
	}
	a.mu.Unlock()

	s := a.newSession(ctx, id, now)

	a.mu.Lock()
	defer a.mu.Unlock()
	if existing, ok := a.sessions[id]; ok {
		existing.lastSeen = now
		return existing
	}
	if limit := a.cfg.Sessions.MaxSessions; limit > 0 {
		for len(a.sessions) >= limit {
			a.evictOldest()
		}
	}
	a.sessions[id] = s
	return s
}

func (a *App) newSession(ctx context.Context, id string, now time.Time) *Session {
	persist := cart.Persistence{
		Cart:     a.cfg.Settings.CartPersistence,
		Wishlist: a.cfg.Settings.WishlistPersistence,
	}
	s := &Session{
		ID:       id,
		app:      a,
		store:    cart.NewStore(ctx, a, a.storage.Scoped(storageNamespace(id)), persist),
		wizard:   checkout.NewWizard(),
		notes:    notify.NewCenter(0, 0),
		lastSeen: now,
	}
	if a.degraded.Load() {
		s.notes.Error(msgCatalogFailed)
	}
	a.logger.Debug("session started", zap.String("session_id", id))
	return s
}

func storageNamespace(id string) string {
	return "session/" + strings.ReplaceAll(id, "/", "_")
}

// evictIdle must be called with a.mu held.
func (a *App) evictIdle(now time.Time) {
	ttl := a.cfg.Sessions.TTL
	if ttl <= 0 {
		return
	}
	for id, s := range a.sessions {
		if now.Sub(s.lastSeen) > ttl {
			delete(a.sessions, id)
		}
	}
}

// evictOldest must be called with a.mu held.
func (a *App) evictOldest() {
	var oldestID string
	var oldest time.Time
	for id, s := range a.sessions {
		if oldestID == "" || s.lastSeen.Before(oldest) {
			oldestID, oldest = id, s.lastSeen
		}
	}
	delete(a.sessions, oldestID)
}

// SessionCount reports the number of live sessions.
func (a *App) SessionCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.sessions)
}

// Notifications drains the pending notifications.
func (s *Session) Notifications() []notify.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes.Drain()
}

// ReloadCatalog refetches the catalog and notifies this session on failure.
func (s *Session) ReloadCatalog(ctx context.Context) error {
	err := s.app.LoadCatalog(ctx)
	if err != nil {
		s.mu.Lock()
		s.notes.Error(msgCatalogFailed)
		s.mu.Unlock()
	}
	return err
}
