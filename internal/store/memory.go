// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// This is the default session store, used when no Redis address is
// configured and in tests.
//
// Characteristics:
//   - Stores copies of *game.Session objects keyed by ID in a map; Get
//     hands out a fresh copy, so callers never share a live session.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Sessions older than the TTL are dropped lazily on access.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
)

// ErrNotFound is returned by Get for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Store defines the persistence interface for solving sessions.
// Implementations may be backed by memory (this package) or Redis.
type Store interface {
	// Save persists or updates a session.
	Save(ctx context.Context, s *game.Session) error

	// Get retrieves a session by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Session, error)

	// Delete removes a session. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error
}

type entry struct {
	session *game.Session
	savedAt time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex     // guards sessions
	sessions map[string]entry // keyed by Session.ID
	ttl      time.Duration    // zero keeps sessions forever
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore(ttl time.Duration) Store {
	return &memory{sessions: make(map[string]entry), ttl: ttl, now: time.Now}
}

// Save stores a copy of the session.
func (m *memory) Save(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = entry{session: s.Clone(), savedAt: m.now()}
	return nil
}

// Get returns a copy of the session stored under id.
func (m *memory) Get(ctx context.Context, id string) (*game.Session, error) {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if m.ttl > 0 && m.now().Sub(e.savedAt) > m.ttl {
		_ = m.Delete(ctx, id)
		return nil, ErrNotFound
	}
	return e.session.Clone(), nil
}

// Delete drops the session.
func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
