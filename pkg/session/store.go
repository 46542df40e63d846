package session

import (
	"context"
	"sync"
)

// Store keeps sessions keyed by conversation identity and serializes turns
// per session: two turns of the same session must never overlap. Distinct
// sessions proceed concurrently.
type Store struct {
	mu       sync.Mutex
	rootRole string
	sessions map[string]*entry
}

type entry struct {
	session *Session
	// sem is a one-slot semaphore so lock acquisition can honor context
	// cancellation.
	sem chan struct{}
}

// NewStore creates a store whose fresh sessions start at rootRole.
func NewStore(rootRole string) *Store {
	return &Store{
		rootRole: rootRole,
		sessions: make(map[string]*entry),
	}
}

// Acquire returns the session for id, creating it lazily, with its turn lock
// held. The caller must call release on every exit path. Acquire blocks until
// the lock is free or ctx is done. An acquirer racing with a Discard never
// sees the discarded session; it retries on the fresh entry.
func (s *Store) Acquire(ctx context.Context, id string) (*Session, func(), error) {
	for {
		s.mu.Lock()
		e, ok := s.sessions[id]
		if !ok {
			e = &entry{
				session: &Session{ID: id, ActiveRole: s.rootRole},
				sem:     make(chan struct{}, 1),
			}
			s.sessions[id] = e
		}
		s.mu.Unlock()

		select {
		case e.sem <- struct{}{}:
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}

		s.mu.Lock()
		current := s.sessions[id] == e
		s.mu.Unlock()
		if current {
			return e.session, func() { <-e.sem }, nil
		}
		// The entry was discarded while we waited for its lock.
		<-e.sem
	}
}

// Discard removes the session: the next turn starts fresh at the root role
// with empty history, and the store does not accumulate entries for dead
// conversations. The caller must hold the session's turn lock and must not
// touch the session afterwards.
func (s *Store) Discard(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of tracked sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
