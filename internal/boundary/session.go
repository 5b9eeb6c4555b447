package boundary

import (
	"sync"

	"github.com/mesh-intelligence/toodle/internal/notify"
	"github.com/mesh-intelligence/toodle/pkg/types"
)

// Handle is the opaque value callers hold for a session. Zero is invalid.
type Handle uintptr

// Session owns one store and its change subscription.
type Session struct {
	mu      sync.Mutex
	store   types.Store
	changes *notify.Subscription
}

func newSession(store types.Store) *Session {
	return &Session{
		store:   store,
		changes: notify.New(currentLogger()),
	}
}

// do runs fn with exclusive access to the store. Callbacks are never run
// under the lock so they may call back into the library.
func (s *Session) do(fn func(types.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return ErrInvalidHandle
	}
	return fn(s.store)
}

func (s *Session) close() error {
	s.changes.Clear()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return nil
	}
	err := s.store.Close()
	s.store = nil
	return err
}

// registry maps handles to live sessions. Handles are never reused within a
// process, so a closed handle stays invalid.
type registry struct {
	mu       sync.RWMutex
	next     Handle
	sessions map[Handle]*Session
}

var sessions = &registry{sessions: make(map[Handle]*Session)}

func (r *registry) add(s *Session) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.sessions[r.next] = s
	return r.next
}

func (r *registry) get(h Handle) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[h]
	if !ok {
		return nil, ErrInvalidHandle
	}
	return s, nil
}

func (r *registry) remove(h Handle) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[h]
	if !ok {
		return nil, ErrInvalidHandle
	}
	delete(r.sessions, h)
	return s, nil
}
