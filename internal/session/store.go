// Package session holds the process-wide authentication state.
package session

import (
	"fmt"
	"log"
	"sync"

	"github.com/example/elevate/internal/token"
	"github.com/example/elevate/pkg/models"
)

// TokenStorage is the durable store the session persists its token in
type TokenStorage interface {
	Token() (string, error)
	SaveToken(token string) error
	DeleteToken() error
}

// State is a point-in-time snapshot of the session. It can change on the
// next login or logout, so consumers must not cache it across operations.
type State struct {
	Initialized   bool
	Authenticated bool
	User          *models.User
}

// Store owns the session lifecycle: initialize once at startup, then
// login/logout. It is passed explicitly to consumers rather than living
// in a package global.
type Store struct {
	mu      sync.RWMutex
	storage TokenStorage
	state   State
	subs    []func(State)
}

// New creates a session store in the uninitialized state
func New(storage TokenStorage) *Store {
	return &Store{storage: storage}
}

// Initialize derives the session from whatever token is persisted. It is
// meant to run exactly once at process start; Initialized never reverts to
// false afterwards. A persisted token that no longer decodes is purged.
func (s *Store) Initialize() {
	s.mu.Lock()

	raw, err := s.storage.Token()
	if err != nil {
		log.Printf("Error reading persisted token: %v", err)
		raw = ""
	}

	if raw == "" {
		s.state = State{Initialized: true}
	} else if user, err := token.Decode(raw); err != nil {
		log.Printf("Persisted token is invalid, clearing it: %v", err)
		s.purgeLocked()
		s.state = State{Initialized: true}
	} else {
		s.state = State{Initialized: true, Authenticated: true, User: user}
	}

	state, subs := s.state, s.subs
	s.mu.Unlock()
	notify(subs, state)
}

// Login validates and persists a token obtained from a prior authentication
// call. No network round-trip happens here. On any failure the persisted
// token is cleared, the session resets to unauthenticated, and the error
// propagates so the caller can show a message.
func (s *Store) Login(raw string) error {
	s.mu.Lock()

	user, err := token.Decode(raw)
	if err != nil {
		s.purgeLocked()
		s.state = State{Initialized: true}
		state, subs := s.state, s.subs
		s.mu.Unlock()
		notify(subs, state)
		return fmt.Errorf("login rejected: %v", err)
	}

	if err := s.storage.SaveToken(raw); err != nil {
		s.purgeLocked()
		s.state = State{Initialized: true}
		state, subs := s.state, s.subs
		s.mu.Unlock()
		notify(subs, state)
		return fmt.Errorf("failed to persist token: %v", err)
	}

	s.state = State{Initialized: true, Authenticated: true, User: user}
	state, subs := s.state, s.subs
	s.mu.Unlock()
	notify(subs, state)
	return nil
}

// Logout unconditionally clears the persisted token and resets the session.
// It never fails; the optional callbacks run after the state change.
func (s *Store) Logout(onComplete ...func()) {
	s.mu.Lock()
	s.purgeLocked()
	s.state = State{Initialized: true}
	state, subs := s.state, s.subs
	s.mu.Unlock()

	notify(subs, state)
	for _, fn := range onComplete {
		if fn != nil {
			fn()
		}
	}
}

// Snapshot returns the current session state
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers a function called after every state change
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// purgeLocked clears the persisted token; the caller holds the lock
func (s *Store) purgeLocked() {
	if err := s.storage.DeleteToken(); err != nil {
		log.Printf("Error clearing persisted token: %v", err)
	}
}

func notify(subs []func(State), state State) {
	for _, fn := range subs {
		fn(state)
	}
}
