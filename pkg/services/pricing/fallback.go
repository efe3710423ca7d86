package pricing

import "github.com/cloudforge/stack-advisor/pkg/models/domain"

// fallbackCosts holds hand-maintained monthly estimates per (kind, option),
// used when the oracle is unreachable or has no data. Values approximate
// us-east-1 on-demand rates; they are estimates, not quotes.
var fallbackCosts = map[domain.ServiceKind]map[string]float64{
	domain.KindCompute: {
		"t2.nano":   4.2,
		"t2.micro":  8.5,
		"t2.small":  17,
		"t2.medium": 34,
		"t3.medium": 38,
		"t3.large":  76,
	},
	domain.KindDatabase: {
		"db.t3.micro":  15,
		"db.t3.small":  30,
		"db.t3.medium": 60,
		"db.t3.large":  120,
	},
	domain.KindLoadBalancer: {
		"application": 22,
	},
	domain.KindCDN: {
		"standard": 44,
	},
	domain.KindWAF: {
		"standard": 8,
	},
	domain.KindObjectStorage: {
		"standard":            23,
		"intelligent-tiering": 23,
	},
	domain.KindCache: {
		"cache.t3.micro":  12,
		"cache.t3.small":  24,
		"cache.t3.medium": 48,
	},
	domain.KindMonitoring: {
		"standard": 10,
	},
	domain.KindDNS: {
		"standard": 0.9,
	},
	domain.KindServerless: {
		"requests": 0.2,
	},
	domain.KindMLPlatform: {
		"ml.t3.medium": 45,
		"ml.t3.large":  90,
	},
}

// FallbackCost looks up the static estimate for an option.
func FallbackCost(kind domain.ServiceKind, optionID string) (domain.Cost, bool) {
	options, ok := fallbackCosts[kind]
	if !ok {
		return domain.UnavailableCost(), false
	}
	v, ok := options[optionID]
	if !ok {
		return domain.UnavailableCost(), false
	}
	return domain.CostFromFloat(v), true
}

// CheapestFallback returns the cheapest static entry for a kind, so the
// pricer can guarantee a non-empty option set.
func CheapestFallback(kind domain.ServiceKind) (string, domain.Cost, bool) {
	options, ok := fallbackCosts[kind]
	if !ok || len(options) == 0 {
		return "", domain.UnavailableCost(), false
	}

	var (
		bestID   string
		bestCost float64
		found    bool
	)
	for id, v := range options {
		if !found || v < bestCost || (v == bestCost && id < bestID) {
			bestID, bestCost, found = id, v, true
		}
	}
	return bestID, domain.CostFromFloat(bestCost), true
}
