package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cloudforge/stack-advisor/pkg/models/domain"
	"github.com/cloudforge/stack-advisor/pkg/services/catalog"
	"github.com/cloudforge/stack-advisor/pkg/services/reasoner"
)

// criticalOrder is the fixed priority the greedy fallback walks first.
var criticalOrder = []domain.ServiceKind{
	domain.KindCompute,
	domain.KindDatabase,
	domain.KindLoadBalancer,
}

// Optimizer selects options and quantities within budget. The reasoner path
// prioritizes availability over performance over cost and may duplicate
// critical services; it is not guaranteed to respect the budget (the
// reconciler verifies). The greedy fallback never exceeds budget by
// construction.
type Optimizer struct {
	reasoner reasoner.Reasoner
	catalog  catalog.Catalog
}

func NewOptimizer(r reasoner.Reasoner, cat catalog.Catalog) *Optimizer {
	return &Optimizer{reasoner: r, catalog: cat}
}

type selectionResponse struct {
	Selections []struct {
		Kind      string `json:"kind"`
		OptionID  string `json:"option_id"`
		Quantity  int64  `json:"quantity"`
		Rationale string `json:"rationale"`
	} `json:"selections"`
}

func (o *Optimizer) Optimize(
	ctx context.Context,
	priced []domain.PricedService,
	req domain.Requirement,
) ([]domain.SelectedService, domain.SelectionPath) {
	logger := zerolog.Ctx(ctx)

	if len(priced) == 0 {
		return nil, domain.PathFallback
	}

	text, err := o.reasoner.Infer(ctx, o.prompt(priced, req))
	if err == nil {
		if selections, perr := o.parse(text, priced); perr == nil && len(selections) > 0 {
			logger.Info().Int("selections", len(selections)).Msg("optimizer used reasoner")
			return selections, domain.PathReasoner
		} else if perr != nil {
			logger.Warn().Err(perr).Msg("optimizer response unparseable, using greedy fallback")
		}
	} else {
		logger.Warn().Err(err).Msg("reasoner unavailable for optimization, using greedy fallback")
	}

	return o.greedy(ctx, priced, req.Budget), domain.PathFallback
}

func (o *Optimizer) parse(text string, priced []domain.PricedService) ([]domain.SelectedService, error) {
	var resp selectionResponse
	if err := reasoner.ExtractObject(text, &resp); err != nil {
		return nil, err
	}
	if len(resp.Selections) == 0 {
		return nil, fmt.Errorf("response carried no selections")
	}

	byKind := make(map[domain.ServiceKind]domain.PricedService, len(priced))
	for _, p := range priced {
		byKind[p.Kind] = p
	}

	var out []domain.SelectedService
	for _, s := range resp.Selections {
		kind, ok := catalog.NormalizeKind(o.catalog, s.Kind)
		if !ok {
			continue
		}
		if _, ok := byKind[kind]; !ok {
			// The reasoner picked a service it was never offered.
			continue
		}
		qty := s.Quantity
		if qty < 1 {
			qty = 1
		}
		out = append(out, domain.SelectedService{
			Kind:      kind,
			OptionID:  s.OptionID,
			Quantity:  qty,
			Rationale: s.Rationale,
		})
	}
	return out, nil
}

func (o *Optimizer) prompt(priced []domain.PricedService, req domain.Requirement) string {
	type optionInfo struct {
		OptionID    string `json:"option_id"`
		MonthlyCost string `json:"monthly_cost"`
	}
	type serviceInfo struct {
		Kind      string       `json:"kind"`
		Rationale string       `json:"rationale"`
		Critical  bool         `json:"critical"`
		Options   []optionInfo `json:"options"`
	}

	services := make([]serviceInfo, 0, len(priced))
	for _, p := range priced {
		info := serviceInfo{
			Kind:      string(p.Kind),
			Rationale: p.Rationale,
			Critical:  catalog.Critical(o.catalog, p.Kind),
		}
		for _, opt := range p.Options {
			info.Options = append(info.Options, optionInfo{
				OptionID:    opt.OptionID,
				MonthlyCost: opt.MonthlyCost.Amount.StringFixed(2),
			})
		}
		services = append(services, info)
	}
	encoded, _ := json.MarshalIndent(services, "", "  ")

	var b strings.Builder
	fmt.Fprintf(&b, "Monthly budget: $%s\n\n", req.Budget.StringFixed(2))
	b.WriteString("Priced service options (costs are USD per month):\n")
	b.Write(encoded)
	b.WriteString("\n\nSelect the combination that best survives traffic surges, DDoS and ")
	b.WriteString("server failure while serving the original workload:\n")
	fmt.Fprintf(&b, "- service type: %s, expected users: %s, performance: %s, notes: %s\n\n",
		req.ServiceKindHint, req.ExpectedUsers, req.Performance, req.Notes)
	b.WriteString("Priority order: availability > performance > cost.\n")
	b.WriteString("Quantity of 2 or more is allowed for critical services, but only when a ")
	b.WriteString("load-balancer selection is also included.\n")
	b.WriteString("\nRespond with JSON only:\n")
	b.WriteString(`{"selections": [{"kind": "compute", "option_id": "t3.medium", "quantity": 2, "rationale": "why"}]}`)
	return b.String()
}

// greedy is the deterministic fallback: critical kinds in fixed priority
// order, then the rest ascending by their cheapest option's cost. Each service
// takes its cheapest option if it fits the remaining budget; otherwise the
// most expensive option that still fits; otherwise it is skipped.
func (o *Optimizer) greedy(
	ctx context.Context,
	priced []domain.PricedService,
	budget decimal.Decimal,
) []domain.SelectedService {
	byKind := make(map[domain.ServiceKind]domain.PricedService, len(priced))
	for _, p := range priced {
		byKind[p.Kind] = p
	}

	ordered := make([]domain.PricedService, 0, len(priced))
	taken := make(map[domain.ServiceKind]bool)
	for _, kind := range criticalOrder {
		if p, ok := byKind[kind]; ok {
			ordered = append(ordered, p)
			taken[kind] = true
		}
	}
	var rest []domain.PricedService
	for _, p := range priced {
		if !taken[p.Kind] {
			rest = append(rest, p)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		ci, _ := rest[i].Cheapest()
		cj, _ := rest[j].Cheapest()
		return ci.MonthlyCost.LessThan(cj.MonthlyCost)
	})
	ordered = append(ordered, rest...)

	logger := zerolog.Ctx(ctx)
	total := decimal.Zero
	var out []domain.SelectedService
	for _, svc := range ordered {
		remaining := budget.Sub(total)
		opt, ok := fittingOption(svc, remaining)
		if !ok {
			logger.Debug().Str("kind", string(svc.Kind)).Msg("no option fits remaining budget, skipping service")
			continue
		}
		total = total.Add(opt.MonthlyCost.Amount)
		out = append(out, domain.SelectedService{
			Kind:             svc.Kind,
			OptionID:         opt.OptionID,
			Quantity:         1,
			UnitMonthlyCost:  opt.MonthlyCost,
			TotalMonthlyCost: opt.MonthlyCost,
			Rationale:        opt.Rationale,
		})
	}
	return out
}

// fittingOption picks the cheapest option when it fits, else the most
// expensive option that still fits the remaining budget.
func fittingOption(svc domain.PricedService, remaining decimal.Decimal) (domain.PricedOption, bool) {
	cheapest, ok := svc.Cheapest()
	if !ok {
		return domain.PricedOption{}, false
	}
	if !cheapest.MonthlyCost.Amount.GreaterThan(remaining) {
		return cheapest, true
	}
	for i := len(svc.Options) - 1; i >= 0; i-- {
		if !svc.Options[i].MonthlyCost.Amount.GreaterThan(remaining) {
			return svc.Options[i], true
		}
	}
	return domain.PricedOption{}, false
}
