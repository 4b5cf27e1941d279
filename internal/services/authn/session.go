package authn

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the explicit request-scoped state threaded through the
// resolver instead of ambient globals. One session is shared by every
// concurrent request carrying the same session cookie, so all field access
// goes through the mutex.
type Session struct {
	mu    sync.Mutex
	admin bool
	email string
}

// Admin reports whether the session holds administrator rights.
func (s *Session) Admin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.admin
}

// SetAdmin grants or revokes administrator rights on the session.
func (s *Session) SetAdmin(admin bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admin = admin
}

// Email returns the bound subscriber email, empty when unbound.
func (s *Session) Email() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.email
}

// SetEmail binds a subscriber email to the session.
func (s *Session) SetEmail(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.email = email
}

// Reset clears the session on logout.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admin = false
	s.email = ""
}

type sessionEntry struct {
	sess     *Session
	lastSeen time.Time
}

// SessionStore keeps the in-memory sessions of this single-instance
// deployment, keyed by an opaque id carried in a session cookie. Idle
// entries expire after ttl so anonymous traffic cannot grow the map without
// bound; logout drops its entry eagerly.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*sessionEntry
}

// NewSessionStore creates an empty store whose entries expire after ttl of
// inactivity. A non-positive ttl disables expiry.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*sessionEntry),
	}
}

// Get returns the session for id if it exists and has not gone idle.
// A live hit refreshes the idle clock.
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.expired(entry) {
		delete(s.sessions, id)
		return nil, false
	}
	entry.lastSeen = s.now()
	return entry.sess, true
}

// Create allocates a fresh session under a new opaque id, sweeping idle
// entries while it holds the lock so the map stays bounded by live sessions.
func (s *SessionStore) Create() (string, *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.sessions {
		if s.expired(entry) {
			delete(s.sessions, id)
		}
	}
	id := uuid.NewString()
	sess := &Session{}
	s.sessions[id] = &sessionEntry{sess: sess, lastSeen: s.now()}
	return id, sess
}

// Drop removes the session for id, if any.
func (s *SessionStore) Drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *SessionStore) expired(entry *sessionEntry) bool {
	return s.ttl > 0 && s.now().Sub(entry.lastSeen) > s.ttl
}
