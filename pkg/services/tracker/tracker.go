// Package tracker owns the per-request state machine: it accepts submissions,
// runs the optimization pipeline out-of-band, persists every status
// transition, and answers polling queries.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cloudforge/stack-advisor/pkg/adapters"
	"github.com/cloudforge/stack-advisor/pkg/models/domain"
	storemodels "github.com/cloudforge/stack-advisor/pkg/models/store"
	"github.com/cloudforge/stack-advisor/pkg/services/pipeline"
	"github.com/cloudforge/stack-advisor/pkg/store"
)

type Tracker struct {
	store  store.Store
	runner pipeline.Runner
	logger zerolog.Logger

	// now is swappable for tests.
	now func() time.Time
}

func NewTracker(s store.Store, runner pipeline.Runner, logger zerolog.Logger) *Tracker {
	return &Tracker{
		store:  s,
		runner: runner,
		logger: logger,
		now:    time.Now,
	}
}

// Submit records the request and starts its background execution. It returns
// the generated id immediately; it never waits for the pipeline. There is no
// cancellation: once submitted, a request runs to a terminal state or process
// exit.
func (t *Tracker) Submit(ctx context.Context, req domain.Requirement) (string, error) {
	id := uuid.NewString()
	now := t.now()

	record, err := adapters.MapDomainRequestToStoreRecord(domain.OptimizationRequest{
		ID:          id,
		Requirement: req,
		Status:      domain.StatusCreated,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return "", err
	}
	if err := t.store.Upsert(ctx, record); err != nil {
		return "", fmt.Errorf("failed to record submission %s: %w", id, err)
	}

	// The background unit outlives the submit request; detach its lifetime
	// from the HTTP context but keep a request-scoped logger.
	bgLogger := t.logger.With().Str("request_id", id).Logger()
	bgCtx := bgLogger.WithContext(context.WithoutCancel(ctx))
	go t.process(bgCtx, id, req)

	return id, nil
}

// Get answers a poll. Unknown ids surface store.ErrNotFound.
func (t *Tracker) Get(ctx context.Context, id string) (storemodels.OptimizationRecord, error) {
	return t.store.Get(ctx, id)
}

func (t *Tracker) process(ctx context.Context, id string, req domain.Requirement) {
	logger := zerolog.Ctx(ctx)
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("optimization run panicked")
			t.fail(ctx, id, fmt.Sprintf("internal fault: %v", r))
		}
	}()

	t.transition(ctx, id, domain.StatusAnalyzing)

	result, err := t.runner.Run(ctx, req, func(status domain.RequestStatus) {
		t.transition(ctx, id, status)
	})
	if err != nil {
		logger.Error().Err(err).Msg("optimization run failed")
		t.fail(ctx, id, err.Error())
		return
	}

	t.complete(ctx, id, result)
	logger.Info().Bool("feasible", result.Feasible).Msg("optimization run completed")
}

// transition advances a non-terminal record to the given status. Terminal
// records are never rewritten.
func (t *Tracker) transition(ctx context.Context, id string, status domain.RequestStatus) {
	t.update(ctx, id, func(record *storemodels.OptimizationRecord) {
		record.Status = string(status)
	})
}

func (t *Tracker) complete(ctx context.Context, id string, result domain.OptimizationResult) {
	encoded, err := adapters.MapDomainRequestToStoreRecord(domain.OptimizationRequest{
		ID:     id,
		Result: &result,
	})
	if err != nil {
		t.fail(ctx, id, fmt.Sprintf("failed to encode result: %v", err))
		return
	}
	t.update(ctx, id, func(record *storemodels.OptimizationRecord) {
		record.Status = string(domain.StatusCompleted)
		record.ResultJSON = encoded.ResultJSON
	})
}

func (t *Tracker) fail(ctx context.Context, id string, message string) {
	t.update(ctx, id, func(record *storemodels.OptimizationRecord) {
		record.Status = string(domain.StatusFailed)
		record.Error = message
	})
}

func (t *Tracker) update(ctx context.Context, id string, mutate func(*storemodels.OptimizationRecord)) {
	logger := zerolog.Ctx(ctx)

	record, err := t.store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Warn().Err(err).Msg("failed to load record for update")
		}
		return
	}
	if domain.RequestStatus(record.Status).Terminal() {
		return
	}

	mutate(&record)
	record.UpdatedAt = t.now()

	if err := t.store.Upsert(ctx, record); err != nil {
		logger.Warn().Err(err).Str("status", record.Status).Msg("failed to persist transition")
	}
}
