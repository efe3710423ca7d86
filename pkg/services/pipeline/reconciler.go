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

// bandCeilings caps the usage-based cost component per scale band, as a
// fraction of the unit cost. Monotonic in band size.
var bandCeilings = map[domain.ScaleBand]float64{
	domain.ScaleSmall:      0,
	domain.ScaleMedium:     0.15,
	domain.ScaleLarge:      0.35,
	domain.ScaleEnterprise: 0.60,
}

// Reconciler recomputes exact unit-times-quantity costs for the optimizer's
// selections against the priced option sets, then applies a user-scale usage
// adjustment to scale-sensitive kinds. The adjustment is reasoner-advised and
// bounded by the band ceiling; when the reasoner fails, the unscaled totals
// are returned unchanged.
type Reconciler struct {
	reasoner reasoner.Reasoner
	catalog  catalog.Catalog
}

func NewReconciler(r reasoner.Reasoner, cat catalog.Catalog) *Reconciler {
	return &Reconciler{reasoner: r, catalog: cat}
}

func (r *Reconciler) Reconcile(
	ctx context.Context,
	selections []domain.SelectedService,
	priced []domain.PricedService,
	req domain.Requirement,
) []domain.SelectedService {
	recomputed := r.recompute(ctx, selections, priced)

	band := domain.ParseScaleBand(req.ExpectedUsers)
	if bandCeilings[band] == 0 {
		return recomputed
	}
	return r.scaleAdjust(ctx, recomputed, band)
}

// recompute resolves every selection's unit cost by exact option-id match in
// the priced sets. An option the optimizer invented is substituted with the
// kind's cheapest known option, flagged in the rationale. Unavailable unit
// costs propagate to totals.
func (r *Reconciler) recompute(
	ctx context.Context,
	selections []domain.SelectedService,
	priced []domain.PricedService,
) []domain.SelectedService {
	logger := zerolog.Ctx(ctx)

	byKind := make(map[domain.ServiceKind]domain.PricedService, len(priced))
	for _, p := range priced {
		byKind[p.Kind] = p
	}

	out := make([]domain.SelectedService, 0, len(selections))
	for _, sel := range selections {
		svc, ok := byKind[sel.Kind]
		if !ok {
			logger.Warn().Str("kind", string(sel.Kind)).Msg("selection for unpriced kind, marking unavailable")
			sel.UnitMonthlyCost = domain.UnavailableCost()
			sel.TotalMonthlyCost = domain.UnavailableCost()
			out = append(out, sel)
			continue
		}

		opt, found := svc.Option(sel.OptionID)
		if !found {
			cheapest, ok := svc.Cheapest()
			if !ok {
				sel.UnitMonthlyCost = domain.UnavailableCost()
				sel.TotalMonthlyCost = domain.UnavailableCost()
				out = append(out, sel)
				continue
			}
			logger.Info().
				Str("kind", string(sel.Kind)).
				Str("requested", sel.OptionID).
				Str("substituted", cheapest.OptionID).
				Msg("unknown option id, substituting cheapest")
			sel.Rationale = strings.TrimSpace(sel.Rationale +
				fmt.Sprintf(" (option %q not found, substituted %s)", sel.OptionID, cheapest.OptionID))
			sel.OptionID = cheapest.OptionID
			opt = cheapest
		}

		if sel.Quantity < 1 {
			sel.Quantity = 1
		}
		sel.UnitMonthlyCost = opt.MonthlyCost
		sel.TotalMonthlyCost = opt.MonthlyCost.MulInt(sel.Quantity)
		out = append(out, sel)
	}
	return out
}

type adjustmentResponse struct {
	Adjustments []struct {
		Kind            string  `json:"kind"`
		OptionID        string  `json:"option_id"`
		UsageMultiplier float64 `json:"usage_multiplier"`
	} `json:"adjustments"`
}

// scaleAdjust asks the reasoner for a usage multiplier per scale-sensitive
// selection and folds it into the unit cost, clamped to [0, band ceiling].
func (r *Reconciler) scaleAdjust(
	ctx context.Context,
	selections []domain.SelectedService,
	band domain.ScaleBand,
) []domain.SelectedService {
	logger := zerolog.Ctx(ctx)
	ceiling := bandCeilings[band]

	sensitive := make(map[string]int, len(selections))
	for i, sel := range selections {
		entry, ok := r.catalog.Lookup(sel.Kind)
		if !ok || entry.ScaleDriver == catalog.DriverNone || !sel.UnitMonthlyCost.Known {
			continue
		}
		sensitive[adjustKey(sel.Kind, sel.OptionID)] = i
	}
	if len(sensitive) == 0 {
		return selections
	}

	text, err := r.reasoner.Infer(ctx, r.prompt(selections, band, ceiling))
	if err != nil {
		logger.Warn().Err(err).Msg("reasoner unavailable for scale adjustment, keeping unscaled totals")
		return selections
	}
	var resp adjustmentResponse
	if err := reasoner.ExtractObject(text, &resp); err != nil {
		logger.Warn().Err(err).Msg("scale adjustment response unparseable, keeping unscaled totals")
		return selections
	}

	for _, adj := range resp.Adjustments {
		kind, ok := catalog.NormalizeKind(r.catalog, adj.Kind)
		if !ok {
			continue
		}
		i, ok := sensitive[adjustKey(kind, adj.OptionID)]
		if !ok {
			continue
		}

		m := adj.UsageMultiplier
		if m < 0 {
			m = 0
		}
		if m > ceiling {
			m = ceiling
		}

		sel := selections[i]
		factor := decimal.NewFromFloat(1 + m)
		adjusted := domain.NewCost(sel.UnitMonthlyCost.Amount.Mul(factor))
		sel.UnitMonthlyCost = adjusted
		sel.TotalMonthlyCost = adjusted.MulInt(sel.Quantity)
		selections[i] = sel

		logger.Debug().
			Str("kind", string(kind)).
			Str("option", adj.OptionID).
			Float64("multiplier", m).
			Msg("applied usage-based cost adjustment")
	}
	return selections
}

func adjustKey(kind domain.ServiceKind, optionID string) string {
	return string(kind) + "/" + optionID
}

func (r *Reconciler) prompt(
	selections []domain.SelectedService,
	band domain.ScaleBand,
	ceiling float64,
) string {
	type line struct {
		Kind        string `json:"kind"`
		OptionID    string `json:"option_id"`
		Quantity    int64  `json:"quantity"`
		MonthlyCost string `json:"unit_monthly_cost"`
		ScaleDriver string `json:"scale_driver"`
	}
	var lines []line
	for _, sel := range selections {
		entry, ok := r.catalog.Lookup(sel.Kind)
		if !ok || entry.ScaleDriver == catalog.DriverNone || !sel.UnitMonthlyCost.Known {
			continue
		}
		lines = append(lines, line{
			Kind:        string(sel.Kind),
			OptionID:    sel.OptionID,
			Quantity:    sel.Quantity,
			MonthlyCost: sel.UnitMonthlyCost.Amount.StringFixed(2),
			ScaleDriver: string(entry.ScaleDriver),
		})
	}
	encoded, _ := json.MarshalIndent(lines, "", "  ")

	var b strings.Builder
	fmt.Fprintf(&b, "The workload serves a %q user scale. Estimate the usage-driven cost on top of ", band)
	b.WriteString("each selected service's base price: traffic-driven services grow with request volume, ")
	b.WriteString("concurrency-driven with simultaneous users, volume-driven with stored data.\n\n")
	b.WriteString("Selections:\n")
	b.Write(encoded)
	fmt.Fprintf(&b, "\n\nFor each, estimate usage_multiplier between 0 and %.2f ", ceiling)
	b.WriteString("(fraction of the unit cost added by usage).\n")
	b.WriteString("Respond with JSON only:\n")
	b.WriteString(`{"adjustments": [{"kind": "compute", "option_id": "t3.medium", "usage_multiplier": 0.2}]}`)
	return b.String()
}
