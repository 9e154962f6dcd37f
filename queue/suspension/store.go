// Package suspension decides when the local inbound queue feeding the
// bridge must stop producing messages for a remote location, and records
// that decision. A suspended location is resumed only once a later
// delivery observation shows the outbound lane back at or below the
// overload threshold.
package suspension

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Store is the set of currently suspended remote locations, keyed by the
// location hash. Presence means suspended; a set (not a boolean map) keeps
// "clear everything" cheap. The Store is exclusively mutated by the
// Coordinator; everything else reads it through IsSuspended.
type Store struct {
	mu    sync.RWMutex
	flags map[common.Hash]struct{}
}

// NewStore creates an empty suspension store.
func NewStore() *Store {
	return &Store{
		flags: make(map[common.Hash]struct{}),
	}
}

// insert adds a flag and reports whether it was newly added.
func (s *Store) insert(h common.Hash) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.flags[h]; exists {
		return false
	}
	s.flags[h] = struct{}{}
	return true
}

// remove deletes a flag and reports whether it was present.
func (s *Store) remove(h common.Hash) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.flags[h]; !exists {
		return false
	}
	delete(s.flags, h)
	return true
}

// Contains reports whether the location hash is flagged.
func (s *Store) Contains(h common.Hash) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.flags[h]
	return exists
}

// Len returns the number of suspended locations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.flags)
}

// Clear drops every flag.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags = make(map[common.Hash]struct{})
}

// Snapshot returns the flagged hashes, e.g. for persisting.
func (s *Store) Snapshot() []common.Hash {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hashes := make([]common.Hash, 0, len(s.flags))
	for h := range s.flags {
		hashes = append(hashes, h)
	}
	return hashes
}

// Restore replaces the set with the given hashes, e.g. when loading a
// snapshot.
func (s *Store) Restore(hashes []common.Hash) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags = make(map[common.Hash]struct{}, len(hashes))
	for _, h := range hashes {
		s.flags[h] = struct{}{}
	}
}
