// Package store persists optimization request records keyed by request id.
package store

import (
	"context"
	"errors"

	"github.com/cloudforge/stack-advisor/pkg/models/store"
)

// ErrNotFound is returned by Get for an id that was never stored or has been
// evicted.
var ErrNotFound = errors.New("record not found")

// Store supports concurrent upsert-by-id. Last writer wins; only one
// background unit ever writes a given request id.
type Store interface {
	Upsert(ctx context.Context, record store.OptimizationRecord) error
	Get(ctx context.Context, id string) (store.OptimizationRecord, error)
}
