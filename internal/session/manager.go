// Package session caches joinable session records in front of the
// booking store so repeated join attempts and room-state queries do not
// hit SQLite on every connection.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ANANDU-2000/PeerLearningPlatform/pkg/interfaces"
	"github.com/ANANDU-2000/PeerLearningPlatform/pkg/types"
)

type cacheEntry struct {
	session  *types.Session
	cachedAt time.Time
}

// Manager answers "can this session host a room right now" with a small
// TTL cache over the read-only store.
type Manager struct {
	store interfaces.SessionStore
	ttl   time.Duration

	mu    sync.RWMutex
	cache map[string]*cacheEntry
}

// NewManager creates a session manager. ttl bounds how long a cached
// record may serve joins after the booking system changes it.
func NewManager(store interfaces.SessionStore, ttl time.Duration) *Manager {
	return &Manager{
		store: store,
		ttl:   ttl,
		cache: make(map[string]*cacheEntry),
	}
}

// Joinable returns the session record if a room may be opened for it.
// A missing session yields interfaces.ErrSessionNotFound; a completed or
// cancelled one yields interfaces.ErrSessionEnded.
func (m *Manager) Joinable(ctx context.Context, sessionID string) (*types.Session, error) {
	if session, ok := m.cached(sessionID); ok {
		if !session.Joinable() {
			return nil, interfaces.ErrSessionEnded
		}
		return session, nil
	}

	session, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.cache[sessionID] = &cacheEntry{session: session, cachedAt: time.Now()}
	m.mu.Unlock()

	if !session.Joinable() {
		return nil, interfaces.ErrSessionEnded
	}
	return session, nil
}

func (m *Manager) cached(sessionID string) (*types.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.cache[sessionID]
	if !ok || time.Since(entry.cachedAt) > m.ttl {
		return nil, false
	}
	return entry.session, true
}

// Evict drops a cached record, forcing the next lookup to the store.
func (m *Manager) Evict(sessionID string) {
	m.mu.Lock()
	delete(m.cache, sessionID)
	m.mu.Unlock()
}

// Refresh clears the whole cache.
func (m *Manager) Refresh() {
	m.mu.Lock()
	size := len(m.cache)
	m.cache = make(map[string]*cacheEntry)
	m.mu.Unlock()

	log.Debug().Str("module", "session").Int("evicted", size).Msg("session cache refreshed")
}

// CacheSize returns the number of cached records, for the stats API.
func (m *Manager) CacheSize() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache)
}
