package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudforge/stack-advisor/pkg/models/domain"
	"github.com/cloudforge/stack-advisor/pkg/services/catalog"
	"github.com/cloudforge/stack-advisor/pkg/services/pricing"
)

func TestPricer_PricesFromStaticFallback(t *testing.T) {
	p := NewPricer(fallbackCache(), catalog.NewCatalog())

	priced := p.PriceCandidates(context.Background(), []domain.ServiceCandidate{
		{Kind: domain.KindCompute, Rationale: "servers"},
		{Kind: domain.KindDatabase, Rationale: "data"},
	}, "us-east-1")

	require.Len(t, priced, 2)

	compute := priced[0]
	assert.Equal(t, domain.KindCompute, compute.Kind)
	assert.Equal(t, "servers", compute.Rationale)
	require.NotEmpty(t, compute.Options)

	// Ascending order is what every downstream fallback depends on.
	for i := 1; i < len(compute.Options); i++ {
		assert.False(t, compute.Options[i].MonthlyCost.LessThan(compute.Options[i-1].MonthlyCost),
			"options must be sorted ascending by cost")
	}

	cheapest, ok := compute.Cheapest()
	require.True(t, ok)
	assert.Equal(t, "t2.nano", cheapest.OptionID)
}

func TestPricer_SkipsUnknownKinds(t *testing.T) {
	p := NewPricer(fallbackCache(), catalog.NewCatalog())

	priced := p.PriceCandidates(context.Background(), []domain.ServiceCandidate{
		{Kind: domain.ServiceKind("hovercraft")},
		{Kind: domain.KindCDN},
	}, "us-east-1")

	require.Len(t, priced, 1)
	assert.Equal(t, domain.KindCDN, priced[0].Kind)
}

// zeroOracle prices everything at zero, which the pricer must reject as
// non-positive and replace with the static fallback entry.
type zeroOracle struct{}

func (zeroOracle) Price(context.Context, domain.ServiceKind, string, string) (domain.Cost, error) {
	return domain.CostFromFloat(0), nil
}

func (zeroOracle) ListOptions(context.Context, domain.ServiceKind, string) ([]string, error) {
	return nil, nil
}

func TestPricer_RetainsFallbackWhenAllOptionsNonPositive(t *testing.T) {
	p := NewPricer(pricing.NewCache(zeroOracle{}), catalog.NewCatalog())

	priced := p.PriceCandidates(context.Background(), []domain.ServiceCandidate{
		{Kind: domain.KindCompute, Rationale: "servers"},
	}, "us-east-1")

	require.Len(t, priced, 1)
	require.Len(t, priced[0].Options, 1)
	assert.Equal(t, "t2.nano", priced[0].Options[0].OptionID)
	assert.True(t, priced[0].Options[0].MonthlyCost.Positive())
}
