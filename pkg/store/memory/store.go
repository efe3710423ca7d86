// Package memory holds request records in process. It is the fallback behind
// the durable store; everything in it is lost on restart.
package memory

import (
	"context"
	"sync"

	storemodels "github.com/cloudforge/stack-advisor/pkg/models/store"
	"github.com/cloudforge/stack-advisor/pkg/store"
)

type Store struct {
	mu      sync.RWMutex
	records map[string]storemodels.OptimizationRecord
}

func NewStore() *Store {
	return &Store{records: make(map[string]storemodels.OptimizationRecord)}
}

func (s *Store) Upsert(_ context.Context, record storemodels.OptimizationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = record
	return nil
}

func (s *Store) Get(_ context.Context, id string) (storemodels.OptimizationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return storemodels.OptimizationRecord{}, store.ErrNotFound
	}
	return record, nil
}

// Len reports the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
