// Package session keeps server-side sessions in memory. Each session holds a
// small set of string fields and expires after a period without access.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/sbateeni/legal-analysis-nextjs/internal/domain/credentials"
)

type entry struct {
	values   map[string]string
	lastSeen time.Time
}

// Store is a concurrency-safe map of session id to fields.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time

	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// NewStore creates a store whose sessions expire after ttl of inactivity.
// A janitor sweeps expired sessions every interval; zero disables it.
func NewStore(ttl, interval time.Duration) *Store {
	s := &Store{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	if interval > 0 {
		s.wg.Add(1)
		go s.janitor(interval)
	}
	return s
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.NewString()
}

// Open returns a handle for id, creating the session if it does not exist or
// has expired.
func (s *Store) Open(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	e, ok := s.sessions[id]
	if !ok || s.expired(e, now) {
		e = &entry{values: make(map[string]string)}
		s.sessions[id] = e
	}
	e.lastSeen = now
	return &Session{store: s, id: id}
}

// Handle returns a handle for id without storing anything. The session is
// created by the first Set.
func (s *Store) Handle(id string) *Session {
	return &Session{store: s, id: id}
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops expired sessions and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for id, e := range s.sessions {
		if s.expired(e, now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Close stops the janitor.
func (s *Store) Close() {
	s.once.Do(func() { close(s.stop) })
	s.wg.Wait()
}

func (s *Store) expired(e *entry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.lastSeen) > s.ttl
}

func (s *Store) janitor(interval time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.stop:
			return
		}
	}
}

func (s *Store) get(id, field string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return "", false
	}
	v, ok := e.values[field]
	return v, ok
}

func (s *Store) set(id, field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		e = &entry{values: make(map[string]string), lastSeen: s.now()}
		s.sessions[id] = e
	}
	e.values[field] = value
}

func (s *Store) del(id, field string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[id]; ok {
		delete(e.values, field)
	}
}

// Session is a handle on one session's fields.
type Session struct {
	store *Store
	id    string
}

var _ domain.Session = (*Session)(nil)

// ID returns the session id carried by the cookie.
func (s *Session) ID() string { return s.id }

func (s *Session) Get(field string) (string, bool) { return s.store.get(s.id, field) }

func (s *Session) Set(field, value string) { s.store.set(s.id, field, value) }

func (s *Session) Delete(field string) { s.store.del(s.id, field) }
