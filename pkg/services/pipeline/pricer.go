package pipeline

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/cloudforge/stack-advisor/pkg/models/domain"
	"github.com/cloudforge/stack-advisor/pkg/services/catalog"
	"github.com/cloudforge/stack-advisor/pkg/services/pricing"
)

// Pricer expands each candidate into its priced option set through the
// pricing cache. Options resolving to unavailable or non-positive cost are
// dropped, unless dropping would leave a candidate with no options at all; in
// that case the cheapest static fallback entry is retained so downstream
// stages never see a zero-option service.
type Pricer struct {
	cache   *pricing.Cache
	catalog catalog.Catalog
}

func NewPricer(cache *pricing.Cache, cat catalog.Catalog) *Pricer {
	return &Pricer{cache: cache, catalog: cat}
}

func (p *Pricer) PriceCandidates(
	ctx context.Context,
	candidates []domain.ServiceCandidate,
	region string,
) []domain.PricedService {
	logger := zerolog.Ctx(ctx)

	var out []domain.PricedService
	for _, cand := range candidates {
		entry, ok := p.catalog.Lookup(cand.Kind)
		if !ok {
			logger.Warn().Str("kind", string(cand.Kind)).Msg("candidate kind missing from catalog, skipping")
			continue
		}

		optionIDs := p.cache.Options(ctx, cand.Kind, region, entry.KnownOptions)

		var options []domain.PricedOption
		for _, id := range optionIDs {
			cost := p.cache.Price(ctx, cand.Kind, id, region)
			if !cost.Known || cost.Amount.IsNegative() || cost.Amount.IsZero() {
				continue
			}
			options = append(options, domain.PricedOption{
				Kind:        cand.Kind,
				OptionID:    id,
				MonthlyCost: cost,
				Rationale:   cand.Rationale,
			})
		}

		if len(options) == 0 {
			id, cost, ok := pricing.CheapestFallback(cand.Kind)
			if !ok {
				logger.Warn().Str("kind", string(cand.Kind)).Msg("no priceable options and no fallback, dropping candidate")
				continue
			}
			logger.Info().Str("kind", string(cand.Kind)).Str("option", id).
				Msg("all options unpriceable, retaining cheapest static entry")
			options = []domain.PricedOption{{
				Kind:        cand.Kind,
				OptionID:    id,
				MonthlyCost: cost,
				Rationale:   cand.Rationale,
			}}
		}

		// Ascending cost order is load-bearing: it defines "cheaper" for every
		// fallback substitution downstream.
		sort.SliceStable(options, func(i, j int) bool {
			return options[i].MonthlyCost.LessThan(options[j].MonthlyCost)
		})

		out = append(out, domain.PricedService{
			Kind:      cand.Kind,
			Rationale: cand.Rationale,
			Options:   options,
		})
	}
	return out
}
