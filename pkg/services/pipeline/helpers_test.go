package pipeline

import (
	"context"
	"fmt"

	"github.com/cloudforge/stack-advisor/pkg/models/domain"
	"github.com/cloudforge/stack-advisor/pkg/services/pricing"
)

// stubReasoner answers every prompt with the same text, or fails.
type stubReasoner struct {
	text  string
	err   error
	calls int
}

func (s *stubReasoner) Infer(_ context.Context, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

// downReasoner simulates an unreachable model endpoint.
func downReasoner() *stubReasoner {
	return &stubReasoner{err: fmt.Errorf("model endpoint unreachable")}
}

// downOracle makes every price resolve through the static fallback table.
type downOracle struct{}

func (downOracle) Price(context.Context, domain.ServiceKind, string, string) (domain.Cost, error) {
	return domain.UnavailableCost(), fmt.Errorf("pricing endpoint unreachable")
}

func (downOracle) ListOptions(context.Context, domain.ServiceKind, string) ([]string, error) {
	return nil, fmt.Errorf("pricing endpoint unreachable")
}

func fallbackCache() *pricing.Cache {
	return pricing.NewCache(downOracle{})
}

func pricedService(kind domain.ServiceKind, options ...domain.PricedOption) domain.PricedService {
	return domain.PricedService{Kind: kind, Options: options}
}

func option(kind domain.ServiceKind, id string, monthly float64) domain.PricedOption {
	return domain.PricedOption{Kind: kind, OptionID: id, MonthlyCost: domain.CostFromFloat(monthly)}
}
