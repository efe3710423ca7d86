package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cloudforge/stack-advisor/pkg/models/domain"
	"github.com/cloudforge/stack-advisor/pkg/services/catalog"
)

// AdvanceFunc lets the job tracker persist a checkpoint status after each
// stage completes.
type AdvanceFunc func(status domain.RequestStatus)

// Runner is what the job tracker executes per request.
type Runner interface {
	Run(ctx context.Context, req domain.Requirement, advance AdvanceFunc) (domain.OptimizationResult, error)
}

// Pipeline chains the stages for one optimization run. Stages are swappable
// independently; the pipeline owns only sequencing, feasibility and the
// outermost fault boundary.
type Pipeline struct {
	selector   *Selector
	pricer     *Pricer
	optimizer  *Optimizer
	reconciler *Reconciler
	squeezer   *Squeezer
	catalog    catalog.Catalog
}

func New(
	selector *Selector,
	pricer *Pricer,
	optimizer *Optimizer,
	reconciler *Reconciler,
	squeezer *Squeezer,
	cat catalog.Catalog,
) *Pipeline {
	return &Pipeline{
		selector:   selector,
		pricer:     pricer,
		optimizer:  optimizer,
		reconciler: reconciler,
		squeezer:   squeezer,
		catalog:    cat,
	}
}

// Run executes selection, pricing, optimization, reconciliation and, when the
// reconciled total exceeds budget, the squeeze. Unexpected faults are caught
// here and reported as an error, never propagated as a panic.
func (p *Pipeline) Run(
	ctx context.Context,
	req domain.Requirement,
	advance AdvanceFunc,
) (result domain.OptimizationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("optimization pipeline fault: %v", r)
		}
	}()

	logger := zerolog.Ctx(ctx)
	if advance == nil {
		advance = func(domain.RequestStatus) {}
	}

	candidates, selPath := p.selector.Select(ctx, req)
	logger.Info().Int("candidates", len(candidates)).Str("path", string(selPath)).Msg("candidates selected")
	advance(domain.StatusCandidatesSelected)

	priced := p.pricer.PriceCandidates(ctx, candidates, req.Region)
	logger.Info().Int("services", len(priced)).Msg("options priced")
	advance(domain.StatusOptionsPriced)

	selections, optPath := p.optimizer.Optimize(ctx, priced, req)
	logger.Info().Int("selections", len(selections)).Str("path", string(optPath)).Msg("budget optimization done")
	advance(domain.StatusOptimized)

	selections = p.reconciler.Reconcile(ctx, selections, priced, req)
	reconciled := knownTotal(selections)
	logger.Info().Str("total", reconciled.StringFixed(2)).Msg("costs reconciled")
	advance(domain.StatusReconciled)

	total := reconciled
	if total.GreaterThan(req.Budget) {
		squeezed, sqPath := p.squeezer.Squeeze(ctx, selections, priced, req)
		squeezedTotal := knownTotal(squeezed)
		logger.Info().
			Str("path", string(sqPath)).
			Str("total", squeezedTotal.StringFixed(2)).
			Msg("budget squeeze done")
		advance(domain.StatusSqueezed)

		// Keep the squeeze only when it actually moved toward the budget.
		if squeezedTotal.LessThan(total) {
			selections, total = squeezed, squeezedTotal
		}
	}

	return p.assemble(req, selections, total, reconciled), nil
}

func (p *Pipeline) assemble(
	req domain.Requirement,
	selections []domain.SelectedService,
	total decimal.Decimal,
	reconciled decimal.Decimal,
) domain.OptimizationResult {
	feasible := total.LessThanOrEqual(req.Budget)

	result := domain.OptimizationResult{
		Feasible:   feasible,
		Selections: selections,
		TotalCost:  total,
		Budget:     req.Budget,
		Savings:    req.Budget.Sub(total),
		Region:     req.Region,
		Breakdown:  Breakdown(p.catalog, selections),
	}

	if req.Budget.IsPositive() {
		utilization, _ := total.Div(req.Budget).Mul(decimal.NewFromInt(100)).Float64()
		if utilization > 100 {
			utilization = 100
		}
		result.BudgetUtilization = utilization
	}

	if !feasible {
		minimum := total
		if reconciled.LessThan(minimum) {
			minimum = reconciled
		}
		result.MinimumBudget = minimum
		result.Message = fmt.Sprintf(
			"the $%s monthly budget cannot satisfy the requirement; at least $%s is needed",
			req.Budget.StringFixed(2), minimum.StringFixed(2))
	}
	return result
}
