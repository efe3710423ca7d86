// Package failover wraps a durable store with an in-process fallback. Store
// failures never fail a request; they only cost durability across restarts.
package failover

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	storemodels "github.com/cloudforge/stack-advisor/pkg/models/store"
	"github.com/cloudforge/stack-advisor/pkg/store"
)

type Store struct {
	primary  store.Store
	fallback store.Store
}

func NewStore(primary, fallback store.Store) *Store {
	return &Store{primary: primary, fallback: fallback}
}

// Upsert writes to the primary; on failure the record lands in the fallback
// so polling keeps working for the life of the process.
func (s *Store) Upsert(ctx context.Context, record storemodels.OptimizationRecord) error {
	if err := s.primary.Upsert(ctx, record); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).
			Str("id", record.ID).
			Msg("durable store upsert failed, using in-process fallback")
		return s.fallback.Upsert(ctx, record)
	}
	return nil
}

// Get reads the primary first. The fallback is consulted when the primary
// errors, and also on a primary miss: a record written during a primary
// outage exists only in the fallback.
func (s *Store) Get(ctx context.Context, id string) (storemodels.OptimizationRecord, error) {
	record, err := s.primary.Get(ctx, id)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		zerolog.Ctx(ctx).Warn().Err(err).
			Str("id", id).
			Msg("durable store get failed, using in-process fallback")
	}
	return s.fallback.Get(ctx, id)
}
