// Package store holds the client-side cache of candidate records. It is the
// single source of truth the board and detail views read from; the gateway
// and live channel only ever write through it.
package store

import (
	"sync"

	"github.com/dmitrijs2005/talentdesk/internal/client/models"
	"github.com/dmitrijs2005/talentdesk/internal/pipeline"
)

// CandidateStore is a concurrency-safe candidate cache keyed by candidate id.
// Iteration order is insertion order, which after Replace matches the order
// the backend returned.
type CandidateStore struct {
	mu    sync.RWMutex
	byID  map[string]models.Candidate
	order []string
}

func NewCandidateStore() *CandidateStore {
	return &CandidateStore{byID: map[string]models.Candidate{}}
}

// Replace swaps the entire cache for the given list. Later duplicates of the
// same id win.
func (s *CandidateStore) Replace(list []models.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID = make(map[string]models.Candidate, len(list))
	s.order = s.order[:0]
	for _, c := range list {
		if _, seen := s.byID[c.ID]; !seen {
			s.order = append(s.order, c.ID)
		}
		s.byID[c.ID] = c
	}
}

// Merge upserts a single candidate by id. A snapshot strictly older than the
// cached one (by UpdatedAt) is refused, so a slow refetch cannot clobber a
// fresher record; equal timestamps overwrite. Returns whether the cache
// changed.
func (s *CandidateStore) Merge(c models.Candidate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.byID[c.ID]
	if ok && c.UpdatedAt.Before(cur.UpdatedAt) {
		return false
	}
	if !ok {
		s.order = append(s.order, c.ID)
	}
	s.byID[c.ID] = c
	return true
}

// Get returns the cached candidate with the given id.
func (s *CandidateStore) Get(id string) (models.Candidate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byID[id]
	return c, ok
}

// List returns all cached candidates in insertion order.
func (s *CandidateStore) List() []models.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Candidate, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// ByState returns the cached candidates currently in the given state,
// preserving insertion order.
func (s *CandidateStore) ByState(state pipeline.State) []models.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Candidate
	for _, id := range s.order {
		if c := s.byID[id]; c.CurrentState == state {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of cached candidates.
func (s *CandidateStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
