// Package session keeps per-conversation history in memory. History is
// bounded so long-running conversations cannot grow prompts without limit,
// and idle sessions expire after a TTL.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lumilabs/lumi/pkg/registry"
)

// Turn is one user/assistant exchange.
type Turn struct {
	User      string    `json:"user"`
	Assistant string    `json:"assistant"`
	At        time.Time `json:"at"`
}

// Session is one conversation.
type Session struct {
	ID        string `json:"id"`
	UpdatedAt time.Time

	mu    sync.RWMutex
	turns []Turn
}

// Turns returns a copy of the history, oldest first.
func (s *Session) Turns() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Store manages sessions.
type Store struct {
	sessions *registry.Registry[*Session]
	maxTurns int
	ttl      time.Duration

	stopOnce sync.Once
	stop     chan struct{}
}

// NewStore creates a session store. maxTurns bounds per-session history and
// ttl expires idle sessions; the sweep goroutine runs until Close.
func NewStore(maxTurns int, ttl time.Duration) *Store {
	s := &Store{
		sessions: registry.New[*Session](),
		maxTurns: maxTurns,
		ttl:      ttl,
		stop:     make(chan struct{}),
	}

	go s.sweep()

	return s
}

// GetOrCreate returns the session for id, creating one when id is empty or
// unknown. The returned session always has a valid ID for the client to
// echo back.
func (s *Store) GetOrCreate(id string) *Session {
	if id != "" {
		if session, ok := s.sessions.Get(id); ok {
			return session
		}
	}

	if id == "" {
		id = uuid.NewString()
	}

	session := &Session{ID: id, UpdatedAt: time.Now()}
	s.sessions.Put(id, session)
	return session
}

// AppendTurn records a completed exchange, trimming history to the bound.
func (s *Store) AppendTurn(id, user, assistant string) {
	session := s.GetOrCreate(id)

	session.mu.Lock()
	session.turns = append(session.turns, Turn{
		User:      user,
		Assistant: assistant,
		At:        time.Now(),
	})
	if len(session.turns) > s.maxTurns {
		session.turns = session.turns[len(session.turns)-s.maxTurns:]
	}
	session.UpdatedAt = time.Now()
	session.mu.Unlock()
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	return s.sessions.Count()
}

// Close stops the expiry sweep.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Store) sweep() {
	interval := s.ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.expire(time.Now())
		}
	}
}

func (s *Store) expire(now time.Time) {
	for _, session := range s.sessions.List() {
		session.mu.RLock()
		idle := now.Sub(session.UpdatedAt)
		session.mu.RUnlock()

		if idle > s.ttl {
			s.sessions.Remove(session.ID)
		}
	}
}
