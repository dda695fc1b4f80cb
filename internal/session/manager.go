package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager holds live sessions in memory, keyed by id and bound to the
// principal that opened them. The mutex guards the map only; each
// session is mutated by one caller at a time per the ownership rule.
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
}

func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
	}
}

func (m *Manager) Put(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictExpired(time.Now())
	m.sessions[s.ID] = s
}

// Get returns the session only to its owner. A foreign or expired
// session is indistinguishable from a missing one.
func (m *Manager) Get(id uuid.UUID, ownerUserID uuid.UUID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || s.Owner.UserID != ownerUserID {
		return nil, false
	}
	now := time.Now()
	if m.ttl > 0 && now.Sub(s.touchedAt) > m.ttl {
		delete(m.sessions, id)
		return nil, false
	}
	s.touchedAt = now
	return s, true
}

func (m *Manager) Delete(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

func (m *Manager) evictExpired(now time.Time) {
	if m.ttl <= 0 {
		return
	}
	for id, s := range m.sessions {
		if now.Sub(s.touchedAt) > m.ttl {
			delete(m.sessions, id)
		}
	}
}
