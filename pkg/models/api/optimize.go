package api

import "time"

// OptimizeRequest is the submit payload.
type OptimizeRequest struct {
	ServiceKind   string  `json:"service_kind"`
	ExpectedUsers string  `json:"expected_users"`
	Performance   string  `json:"performance"`
	Notes         string  `json:"notes"`
	Budget        float64 `json:"budget"`
	Region        string  `json:"region"`
}

// SubmitResponse acknowledges a submission; the pipeline runs out-of-band.
type SubmitResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type SelectedService struct {
	ServiceKind      string   `json:"service_kind"`
	OptionID         string   `json:"option_id"`
	Quantity         int64    `json:"quantity"`
	UnitMonthlyCost  *float64 `json:"unit_monthly_cost"`
	TotalMonthlyCost *float64 `json:"total_monthly_cost"`
	Rationale        string   `json:"rationale,omitempty"`
}

type BucketCost struct {
	Monthly float64 `json:"monthly"`
	Yearly  float64 `json:"yearly"`
	Share   float64 `json:"share"`
}

type OptimizationResult struct {
	Feasible          bool                  `json:"feasible"`
	Selections        []SelectedService     `json:"selections"`
	TotalCost         float64               `json:"total_cost"`
	Budget            float64               `json:"budget"`
	Savings           float64               `json:"savings"`
	MinimumBudget     *float64              `json:"minimum_budget,omitempty"`
	Region            string                `json:"region"`
	BudgetUtilization float64               `json:"budget_utilization"`
	CostBreakdown     map[string]BucketCost `json:"cost_breakdown"`
	Message           string                `json:"message,omitempty"`
}

// StatusResponse is the poll payload: the request snapshot, with the result
// attached once a terminal state is reached.
type StatusResponse struct {
	ID        string              `json:"id,omitempty"`
	Status    string              `json:"status"`
	CreatedAt *time.Time          `json:"created_at,omitempty"`
	UpdatedAt *time.Time          `json:"updated_at,omitempty"`
	Result    *OptimizationResult `json:"result,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
