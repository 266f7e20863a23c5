package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound indicates that a session could not be located in the store.
var ErrNotFound = errors.New("session not found")

// DefaultMaxSessions bounds the in-memory store when no limit is configured.
const DefaultMaxSessions = 1000

// Store defines the session behaviours the HTTP layer relies on.
type Store interface {
	Create(ctx context.Context) (*State, error)
	Get(ctx context.Context, id string) (*State, error)
	Delete(ctx context.Context, id string) error
	Sweep(ctx context.Context, maxIdle time.Duration) int
	Len() int
}

// InMemoryStore keeps sessions in process memory. Nothing survives a restart.
type InMemoryStore struct {
	mu          sync.RWMutex
	sessions    map[string]*State
	maxSessions int
	now         func() time.Time
}

// NewInMemoryStore constructs an empty store holding at most maxSessions entries.
func NewInMemoryStore(maxSessions int) *InMemoryStore {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &InMemoryStore{
		sessions:    make(map[string]*State),
		maxSessions: maxSessions,
		now:         time.Now,
	}
}

// Create registers a fresh, empty session. When the store is full the
// longest-idle session is evicted first.
func (s *InMemoryStore) Create(_ context.Context) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) >= s.maxSessions {
		s.evictOldestLocked()
	}

	state := newState(uuid.NewString(), s.now())
	s.sessions[state.id] = state
	return state, nil
}

// Get returns the session and marks it as recently used.
func (s *InMemoryStore) Get(_ context.Context, id string) (*State, error) {
	s.mu.RLock()
	state, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	state.touch(s.now())
	return state, nil
}

// Delete removes a session by ID.
func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Sweep drops sessions idle for longer than maxIdle and returns how many were removed.
func (s *InMemoryStore) Sweep(_ context.Context, maxIdle time.Duration) int {
	if maxIdle <= 0 {
		return 0
	}
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, state := range s.sessions {
		if state.idleSince().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *InMemoryStore) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, state := range s.sessions {
		seen := state.idleSince()
		if oldestID == "" || seen.Before(oldest) {
			oldestID = id
			oldest = seen
		}
	}
	if oldestID != "" {
		delete(s.sessions, oldestID)
	}
}
