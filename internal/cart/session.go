package cart

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager owns all live session carts, keyed by an opaque session id. Carts are
// purely in-memory: they die with the session and are never persisted.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
}

type session struct {
	cart     *Cart
	lastSeen time.Time
}

func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*session),
		ttl:      ttl,
	}
}

// Get returns the cart for the given session id, refreshing its last-seen time.
func (m *Manager) Get(id string) (*Cart, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	s.lastSeen = time.Now()
	return s.cart, true
}

// Create registers a fresh empty cart under a new session id.
func (m *Manager) Create() (string, *Cart) {
	id := uuid.NewString()
	c := New()
	m.mu.Lock()
	m.sessions[id] = &session{cart: c, lastSeen: time.Now()}
	m.mu.Unlock()
	return id, c
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops every session idle longer than the TTL and returns how many were
// removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().Add(-m.ttl)
	removed := 0
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on the given interval until stop is closed.
func (m *Manager) StartSweeper(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.Sweep()
			case <-stop:
				return
			}
		}
	}()
}
