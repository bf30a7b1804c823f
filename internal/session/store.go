// Package session keeps per-user conversation state in memory.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/jayrweg/afya-plus/entity"
)

// entry pairs a session with its own lock so concurrent turns on the same
// session are serialized while different sessions never contend.
type entry struct {
	mu   sync.Mutex
	sess *entity.Session
}

// Store is an in-memory session store. Sessions are created on first
// contact and retained for the lifetime of the process.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]*entry),
	}
}

// Acquire returns the session for id, creating it if absent, with its
// per-session lock held. The caller must invoke the release function when
// the turn is finished. An empty id gets a generated opaque one.
func (s *Store) Acquire(id string) (*entity.Session, func()) {
	if id == "" {
		id = uuid.NewString()
	}

	s.mu.Lock()
	e, ok := s.entries[id]
	if !ok {
		e = &entry{sess: entity.NewSession(id)}
		s.entries[id] = e
	}
	s.mu.Unlock()

	e.mu.Lock()
	return e.sess, e.mu.Unlock
}

// Peek returns the session for id without locking it, for read-only
// inspection (monitoring, webhooks). Returns nil if the session does not
// exist yet.
func (s *Store) Peek(id string) *entity.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.entries[id]; ok {
		return e.sess
	}
	return nil
}

// FindByOrderToken returns the session whose active order carries the
// given token, or nil. Used by the payment webhook to locate the paying
// user.
func (s *Store) FindByOrderToken(token string) *entity.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.sess.ActiveOrder != nil && e.sess.ActiveOrder.Token == token {
			return e.sess
		}
	}
	return nil
}

// Len returns the number of known sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
