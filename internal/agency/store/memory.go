package store

import (
	"context"
	"sync"

	"agencyreg/internal/agency/models"
	id "agencyreg/pkg/domain"
	"agencyreg/pkg/platform/sentinel"
)

// InMemory keeps agency records keyed by principal. Records are stored and
// returned by value so callers never share memory with the map.
type InMemory struct {
	mu       sync.RWMutex
	agencies map[id.Principal]models.Agency
}

func NewInMemory() *InMemory {
	return &InMemory{agencies: make(map[id.Principal]models.Agency)}
}

// CreateIfAbsent inserts the agency unless its key is already present.
// Returns sentinel.ErrAlreadyUsed for an existing key, whatever its status.
func (s *InMemory) CreateIfAbsent(_ context.Context, agency *models.Agency) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.agencies[agency.ID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.agencies[agency.ID] = *agency
	return nil
}

// FindByID returns a copy of the record or sentinel.ErrNotFound.
func (s *InMemory) FindByID(_ context.Context, agencyID id.Principal) (*models.Agency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.agencies[agencyID]; ok {
		return &a, nil
	}
	return nil, sentinel.ErrNotFound
}

// Execute runs validate then mutate on a copy of the record while holding the
// write lock, and replaces the stored value only if validate returns nil.
func (s *InMemory) Execute(_ context.Context, agencyID id.Principal, validate func(*models.Agency) error, mutate func(*models.Agency)) (*models.Agency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.agencies[agencyID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(&current); err != nil {
		return nil, err
	}
	mutate(&current)
	s.agencies[agencyID] = current
	return &current, nil
}

// Count returns the number of stored records.
func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.agencies), nil
}
