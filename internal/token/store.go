// Package token holds the in-memory access/refresh credential pair for the
// running client. The store is injected into collaborators rather than kept
// as package-level state, so ownership stays with the session context while
// the gateway only ever reads it.
package token

import "sync"

// Store keeps the credential pair for the lifetime of the client process.
// Nothing is persisted across restarts.
type Store struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

// NewStore returns an empty credential store.
func NewStore() *Store {
	return &Store{}
}

// Set overwrites both tokens atomically.
func (s *Store) Set(access, refresh string) {
	s.mu.Lock()
	s.access = access
	s.refresh = refresh
	s.mu.Unlock()
}

// Access returns the current access token, or "" when absent.
func (s *Store) Access() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

// Refresh returns the current refresh token, or "" when absent.
func (s *Store) Refresh() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

// Clear resets both tokens to absent.
func (s *Store) Clear() {
	s.mu.Lock()
	s.access = ""
	s.refresh = ""
	s.mu.Unlock()
}
