package memory

import (
	"context"
	"sort"
	"sync"

	"civitas/internal/allocation/models"
	"civitas/pkg/domain"
)

// Store keeps requests and allocations in memory.
type Store struct {
	mu          sync.RWMutex
	requests    []models.Request
	allocations []models.Allocation
}

func New() *Store {
	return &Store{}
}

func (s *Store) CreateRequest(_ context.Context, req models.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return nil
}

func (s *Store) ListRequestsByAuthority(_ context.Context, authorityID string) ([]models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Request
	for _, req := range s.requests {
		if req.AuthorityID == authorityID {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) CreateAllocation(_ context.Context, alloc models.Allocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allocations = append(s.allocations, alloc)
	return nil
}

func (s *Store) ListActiveAllocations(_ context.Context) ([]models.Allocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Allocation
	for _, alloc := range s.allocations {
		if alloc.Status == models.AllocationStatusActive {
			out = append(out, alloc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) HasActiveAllocation(_ context.Context, civilianID domain.CivilianID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, alloc := range s.allocations {
		if alloc.CivilianID == civilianID && alloc.Status == models.AllocationStatusActive {
			return true, nil
		}
	}
	return false, nil
}
