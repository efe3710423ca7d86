package pipeline

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudforge/stack-advisor/pkg/models/domain"
	"github.com/cloudforge/stack-advisor/pkg/services/catalog"
)

func selection(kind domain.ServiceKind, id string, qty int64, unit float64) domain.SelectedService {
	u := domain.CostFromFloat(unit)
	return domain.SelectedService{
		Kind:             kind,
		OptionID:         id,
		Quantity:         qty,
		UnitMonthlyCost:  u,
		TotalMonthlyCost: u.MulInt(qty),
	}
}

func TestSqueezer_ReasonerPath(t *testing.T) {
	r := &stubReasoner{text: `{"selections": [
		{"kind": "compute", "option_id": "t2.nano", "quantity": 1, "rationale": "downsized"},
		{"kind": "database", "option_id": "db.t9.invented", "quantity": 1, "rationale": "kept"}
	]}`}
	s := NewSqueezer(r, catalog.NewCatalog())

	priced := []domain.PricedService{
		pricedService(domain.KindCompute, option(domain.KindCompute, "t2.nano", 4.2), option(domain.KindCompute, "t3.medium", 38)),
		pricedService(domain.KindDatabase, option(domain.KindDatabase, "db.t3.micro", 15)),
	}
	current := []domain.SelectedService{
		selection(domain.KindCompute, "t3.medium", 2, 38),
		selection(domain.KindDatabase, "db.t3.micro", 1, 15),
	}

	out, path := s.Squeeze(context.Background(), current, priced, domain.Requirement{
		Budget: decimal.NewFromInt(25),
	})

	assert.Equal(t, domain.PathReasoner, path)
	require.Len(t, out, 2)
	assert.Equal(t, "t2.nano", out[0].OptionID)
	assert.Equal(t, "4.2", out[0].TotalMonthlyCost.Amount.String())
	assert.Equal(t, "db.t3.micro", out[1].OptionID, "invented option replaced with cheapest")
	assert.Equal(t, "15", out[1].TotalMonthlyCost.Amount.String())
}

func TestSqueezer_TrimDropsMostExpensiveNonCritical(t *testing.T) {
	s := NewSqueezer(downReasoner(), catalog.NewCatalog())

	current := []domain.SelectedService{
		selection(domain.KindCompute, "t2.small", 1, 17),
		selection(domain.KindCDN, "standard", 1, 44),
		selection(domain.KindMonitoring, "standard", 1, 10),
	}

	out, path := s.Squeeze(context.Background(), current, nil, domain.Requirement{
		Budget: decimal.NewFromInt(30),
	})

	assert.Equal(t, domain.PathFallback, path)
	require.Len(t, out, 2, "cdn is the most expensive non-critical and must go first")
	assert.Equal(t, domain.KindCompute, out[0].Kind)
	assert.Equal(t, domain.KindMonitoring, out[1].Kind)
	assert.True(t, knownTotal(out).LessThanOrEqual(decimal.NewFromInt(30)))
}

func TestSqueezer_TrimPreservesCriticalServices(t *testing.T) {
	s := NewSqueezer(downReasoner(), catalog.NewCatalog())

	current := []domain.SelectedService{
		selection(domain.KindCompute, "t3.medium", 2, 38),
		selection(domain.KindDatabase, "db.t3.micro", 1, 15),
	}

	out, _ := s.Squeeze(context.Background(), current, nil, domain.Requirement{
		Budget: decimal.NewFromInt(55),
	})

	// Nothing non-critical to drop; compute quantity falls to one instead.
	require.Len(t, out, 2)
	assert.EqualValues(t, 1, out[0].Quantity)
	assert.Equal(t, "38", out[0].TotalMonthlyCost.Amount.String())
	assert.True(t, knownTotal(out).LessThanOrEqual(decimal.NewFromInt(55)))
}

func TestSqueezer_TrimMayStillExceedBudget(t *testing.T) {
	s := NewSqueezer(downReasoner(), catalog.NewCatalog())

	current := []domain.SelectedService{
		selection(domain.KindCompute, "t3.large", 1, 76),
		selection(domain.KindDatabase, "db.t3.large", 1, 120),
	}

	out, _ := s.Squeeze(context.Background(), current, nil, domain.Requirement{
		Budget: decimal.NewFromInt(50),
	})

	// Critical-only configurations cannot be trimmed below their floor; the
	// caller reports infeasibility from the returned totals.
	require.Len(t, out, 2)
	assert.True(t, knownTotal(out).GreaterThan(decimal.NewFromInt(50)))
}

func TestSqueezer_TrimIgnoresUnavailableTotals(t *testing.T) {
	s := NewSqueezer(downReasoner(), catalog.NewCatalog())

	unpriced := domain.SelectedService{
		Kind: domain.KindCDN, OptionID: "standard", Quantity: 1,
		UnitMonthlyCost:  domain.UnavailableCost(),
		TotalMonthlyCost: domain.UnavailableCost(),
	}
	current := []domain.SelectedService{
		selection(domain.KindCompute, "t2.small", 1, 17),
		unpriced,
	}

	out, _ := s.Squeeze(context.Background(), current, nil, domain.Requirement{
		Budget: decimal.NewFromInt(20),
	})

	// The unavailable CDN contributes nothing to the known total and is not a
	// drop candidate.
	require.Len(t, out, 2)
	assert.Equal(t, "17", knownTotal(out).String())
}

func TestKnownTotal(t *testing.T) {
	selections := []domain.SelectedService{
		selection(domain.KindCompute, "t2.small", 2, 17),
		{Kind: domain.KindCDN, TotalMonthlyCost: domain.UnavailableCost()},
	}
	assert.Equal(t, "34", knownTotal(selections).String())
	assert.True(t, knownTotal(nil).IsZero())
}
