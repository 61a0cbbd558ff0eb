package service

import (
	"sync"

	"rca-decider/internal/features/metric/domain"
)

// SummaryStore keeps the newest unconsumed summary per resource. It implements
// domain.SummarySource.
type SummaryStore struct {
	mu     sync.Mutex
	latest map[string]*domain.ClusterSummary
}

// NewSummaryStore creates an empty store
func NewSummaryStore() *SummaryStore {
	return &SummaryStore{latest: make(map[string]*domain.ClusterSummary)}
}

// Publish replaces the pending summary for summary.Resource
func (s *SummaryStore) Publish(summary *domain.ClusterSummary) {
	if summary == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[summary.Resource] = summary
}

// Take removes and returns the pending summary for resource
func (s *SummaryStore) Take(resource string) (*domain.ClusterSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary, exists := s.latest[resource]
	if !exists {
		return nil, false
	}
	delete(s.latest, resource)
	return summary, true
}
