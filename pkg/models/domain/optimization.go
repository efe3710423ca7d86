package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceKind identifies a category of cloud resource (compute instance,
// managed database, CDN). The catalog holds metadata per kind.
type ServiceKind string

const (
	KindCompute       ServiceKind = "compute"
	KindDatabase      ServiceKind = "database"
	KindLoadBalancer  ServiceKind = "load-balancer"
	KindCDN           ServiceKind = "cdn"
	KindWAF           ServiceKind = "waf"
	KindObjectStorage ServiceKind = "object-storage"
	KindCache         ServiceKind = "cache"
	KindMonitoring    ServiceKind = "monitoring"
	KindDNS           ServiceKind = "dns"
	KindServerless    ServiceKind = "serverless"
	KindMLPlatform    ServiceKind = "ml-platform"
)

// ServiceCandidate is a service kind the selector considers relevant to the
// requirement, before any pricing is known.
type ServiceCandidate struct {
	Kind      ServiceKind
	Rationale string
}

// PricedOption is a concrete purchasable tier within a service kind.
type PricedOption struct {
	Kind        ServiceKind
	OptionID    string
	MonthlyCost Cost
	Rationale   string
}

// PricedService carries the option set for one candidate, sorted ascending by
// cost. The ordering defines "cheaper" for every fallback substitution in the
// pipeline.
type PricedService struct {
	Kind      ServiceKind
	Rationale string
	Options   []PricedOption
}

// Cheapest returns the first option of the ascending-sorted set.
func (p PricedService) Cheapest() (PricedOption, bool) {
	if len(p.Options) == 0 {
		return PricedOption{}, false
	}
	return p.Options[0], true
}

// Option finds an option by id.
func (p PricedService) Option(id string) (PricedOption, bool) {
	for _, o := range p.Options {
		if o.OptionID == id {
			return o, true
		}
	}
	return PricedOption{}, false
}

// SelectedService is one line of the optimizer's answer.
type SelectedService struct {
	Kind             ServiceKind
	OptionID         string
	Quantity         int64
	UnitMonthlyCost  Cost
	TotalMonthlyCost Cost
	Rationale        string
}

// SelectionPath records whether a stage's output came from the reasoner or
// from its deterministic fallback, for observability.
type SelectionPath string

const (
	PathReasoner SelectionPath = "reasoner"
	PathFallback SelectionPath = "fallback"
)

// CostBucket partitions total cost for the breakdown.
type CostBucket string

const (
	BucketCompute    CostBucket = "compute"
	BucketStorage    CostBucket = "storage"
	BucketNetworking CostBucket = "networking"
	BucketOther      CostBucket = "other"
)

type BucketCost struct {
	Monthly decimal.Decimal
	Yearly  decimal.Decimal
	Share   float64
}

type CostBreakdown map[CostBucket]BucketCost

// OptimizationResult is the terminal outcome of one request. Created once and
// never mutated after the request reaches a terminal state.
type OptimizationResult struct {
	Feasible          bool
	Selections        []SelectedService
	TotalCost         decimal.Decimal
	Budget            decimal.Decimal
	Savings           decimal.Decimal
	MinimumBudget     decimal.Decimal // minimum cost found, set when infeasible
	Region            string
	BudgetUtilization float64
	Breakdown         CostBreakdown
	Message           string
}

// OptimizationRequest is the job record the tracker owns.
type OptimizationRequest struct {
	ID          string
	Requirement Requirement
	Status      RequestStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Result      *OptimizationResult
	Error       string
}
