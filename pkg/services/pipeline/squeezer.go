package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cloudforge/stack-advisor/pkg/models/domain"
	"github.com/cloudforge/stack-advisor/pkg/services/catalog"
	"github.com/cloudforge/stack-advisor/pkg/services/reasoner"
)

// Squeezer runs only when the reconciled total exceeds budget. The reasoner
// path asks for a reduced configuration that preserves critical services; the
// deterministic fallback trims greedily: drop the most expensive non-critical
// selection until under budget, then reduce critical quantities to one. Either
// way the squeezer terminates; if even the trimmed configuration exceeds
// budget, the result is reported infeasible with the minimum cost found.
type Squeezer struct {
	reasoner reasoner.Reasoner
	catalog  catalog.Catalog
}

func NewSqueezer(r reasoner.Reasoner, cat catalog.Catalog) *Squeezer {
	return &Squeezer{reasoner: r, catalog: cat}
}

// Squeeze returns the reduced selection list and the path taken. The caller
// recomputes feasibility from the returned selections' totals.
func (s *Squeezer) Squeeze(
	ctx context.Context,
	selections []domain.SelectedService,
	priced []domain.PricedService,
	req domain.Requirement,
) ([]domain.SelectedService, domain.SelectionPath) {
	logger := zerolog.Ctx(ctx)

	text, err := s.reasoner.Infer(ctx, s.prompt(selections, req))
	if err == nil {
		if reduced, perr := s.parse(text, priced); perr == nil && len(reduced) > 0 {
			logger.Info().Int("selections", len(reduced)).Msg("squeezer used reasoner")
			return reduced, domain.PathReasoner
		} else if perr != nil {
			logger.Warn().Err(perr).Msg("squeezer response unparseable, using greedy trim")
		}
	} else {
		logger.Warn().Err(err).Msg("reasoner unavailable for squeeze, using greedy trim")
	}

	return s.trim(ctx, selections, req.Budget), domain.PathFallback
}

func (s *Squeezer) parse(text string, priced []domain.PricedService) ([]domain.SelectedService, error) {
	var resp selectionResponse
	if err := reasoner.ExtractObject(text, &resp); err != nil {
		return nil, err
	}

	byKind := make(map[domain.ServiceKind]domain.PricedService, len(priced))
	for _, p := range priced {
		byKind[p.Kind] = p
	}

	var out []domain.SelectedService
	for _, sel := range resp.Selections {
		kind, ok := catalog.NormalizeKind(s.catalog, sel.Kind)
		if !ok {
			continue
		}
		svc, ok := byKind[kind]
		if !ok {
			continue
		}
		opt, found := svc.Option(sel.OptionID)
		if !found {
			cheapest, ok := svc.Cheapest()
			if !ok {
				continue
			}
			opt = cheapest
		}
		qty := sel.Quantity
		if qty < 1 {
			qty = 1
		}
		out = append(out, domain.SelectedService{
			Kind:             kind,
			OptionID:         opt.OptionID,
			Quantity:         qty,
			UnitMonthlyCost:  opt.MonthlyCost,
			TotalMonthlyCost: opt.MonthlyCost.MulInt(qty),
			Rationale:        sel.Rationale,
		})
	}
	return out, nil
}

// trim drops the most expensive non-critical selection until the total fits,
// then reduces critical quantities to one. Bounded by the selection count, so
// it always terminates.
func (s *Squeezer) trim(
	ctx context.Context,
	selections []domain.SelectedService,
	budget decimal.Decimal,
) []domain.SelectedService {
	logger := zerolog.Ctx(ctx)

	out := make([]domain.SelectedService, len(selections))
	copy(out, selections)

	for knownTotal(out).GreaterThan(budget) {
		idx := -1
		var worst decimal.Decimal
		for i, sel := range out {
			if catalog.Critical(s.catalog, sel.Kind) || !sel.TotalMonthlyCost.Known {
				continue
			}
			if idx < 0 || sel.TotalMonthlyCost.Amount.GreaterThan(worst) {
				idx, worst = i, sel.TotalMonthlyCost.Amount
			}
		}
		if idx < 0 {
			break
		}
		logger.Info().
			Str("kind", string(out[idx].Kind)).
			Str("cost", worst.StringFixed(2)).
			Msg("squeeze trim dropping non-critical service")
		out = append(out[:idx], out[idx+1:]...)
	}

	for i, sel := range out {
		if knownTotal(out).LessThanOrEqual(budget) {
			break
		}
		if sel.Quantity > 1 {
			out[i].Quantity = 1
			out[i].TotalMonthlyCost = sel.UnitMonthlyCost.MulInt(1)
			logger.Info().Str("kind", string(sel.Kind)).Msg("squeeze trim reducing quantity to 1")
		}
	}
	return out
}

// knownTotal sums the numeric totals of a selection list. Unavailable totals
// contribute nothing; feasibility decisions treat them separately.
func knownTotal(selections []domain.SelectedService) decimal.Decimal {
	total := decimal.Zero
	for _, sel := range selections {
		if sel.TotalMonthlyCost.Known {
			total = total.Add(sel.TotalMonthlyCost.Amount)
		}
	}
	return total
}

func (s *Squeezer) prompt(selections []domain.SelectedService, req domain.Requirement) string {
	type line struct {
		Kind      string `json:"kind"`
		OptionID  string `json:"option_id"`
		Quantity  int64  `json:"quantity"`
		Total     string `json:"total_monthly_cost"`
		Critical  bool   `json:"critical"`
		Rationale string `json:"rationale"`
	}
	lines := make([]line, 0, len(selections))
	for _, sel := range selections {
		total := "unavailable"
		if sel.TotalMonthlyCost.Known {
			total = sel.TotalMonthlyCost.Amount.StringFixed(2)
		}
		lines = append(lines, line{
			Kind:      string(sel.Kind),
			OptionID:  sel.OptionID,
			Quantity:  sel.Quantity,
			Total:     total,
			Critical:  catalog.Critical(s.catalog, sel.Kind),
			Rationale: sel.Rationale,
		})
	}
	encoded, _ := json.MarshalIndent(lines, "", "  ")

	var b strings.Builder
	fmt.Fprintf(&b, "The current configuration exceeds the $%s monthly budget.\n\n", req.Budget.StringFixed(2))
	b.WriteString("Current selections:\n")
	b.Write(encoded)
	fmt.Fprintf(&b, "\n\nOriginal workload: service type %s, expected users %s, performance %s.\n",
		req.ServiceKindHint, req.ExpectedUsers, req.Performance)
	b.WriteString("Reduce or remove only non-critical services and quantities; preserve every ")
	b.WriteString("service marked critical. Converge toward the budget.\n")
	b.WriteString("\nRespond with JSON only:\n")
	b.WriteString(`{"selections": [{"kind": "compute", "option_id": "t2.small", "quantity": 1, "rationale": "why"}]}`)
	return b.String()
}
