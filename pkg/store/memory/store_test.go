package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storemodels "github.com/cloudforge/stack-advisor/pkg/models/store"
	"github.com/cloudforge/stack-advisor/pkg/store"
)

func TestStore_UpsertAndGet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	record := storemodels.OptimizationRecord{ID: "req-1", Status: "created", Budget: "50"}
	require.NoError(t, s.Upsert(ctx, record))

	got, err := s.Get(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, record, got)
	assert.Equal(t, 1, s.Len())

	// Upsert with the same id replaces.
	record.Status = "completed"
	require.NoError(t, s.Upsert(ctx, record))
	got, err = s.Get(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, "completed", got.Status)
	assert.Equal(t, 1, s.Len())
}

func TestStore_GetMissing(t *testing.T) {
	s := NewStore()

	_, err := s.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
