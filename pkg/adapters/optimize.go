package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cloudforge/stack-advisor/pkg/models/api"
	"github.com/cloudforge/stack-advisor/pkg/models/domain"
	storemodels "github.com/cloudforge/stack-advisor/pkg/models/store"
)

func MapApiRequestToDomainRequirement(req api.OptimizeRequest) domain.Requirement {
	region := req.Region
	if region == "" {
		region = "us-east-1"
	}
	return domain.Requirement{
		ServiceKindHint: req.ServiceKind,
		ExpectedUsers:   req.ExpectedUsers,
		Performance:     req.Performance,
		Notes:           req.Notes,
		Budget:          decimal.NewFromFloat(req.Budget),
		Region:          region,
	}
}

func MapSelectedServiceDomainToApi(sel domain.SelectedService) api.SelectedService {
	return api.SelectedService{
		ServiceKind:      string(sel.Kind),
		OptionID:         sel.OptionID,
		Quantity:         sel.Quantity,
		UnitMonthlyCost:  costToFloat(sel.UnitMonthlyCost),
		TotalMonthlyCost: costToFloat(sel.TotalMonthlyCost),
		Rationale:        sel.Rationale,
	}
}

func MapResultDomainToApi(result domain.OptimizationResult) api.OptimizationResult {
	out := api.OptimizationResult{
		Feasible:          result.Feasible,
		Selections:        []api.SelectedService{},
		TotalCost:         decimalToFloat(result.TotalCost),
		Budget:            decimalToFloat(result.Budget),
		Savings:           decimalToFloat(result.Savings),
		Region:            result.Region,
		BudgetUtilization: result.BudgetUtilization,
		CostBreakdown:     map[string]api.BucketCost{},
		Message:           result.Message,
	}
	for _, sel := range result.Selections {
		out.Selections = append(out.Selections, MapSelectedServiceDomainToApi(sel))
	}
	for bucket, cost := range result.Breakdown {
		out.CostBreakdown[string(bucket)] = api.BucketCost{
			Monthly: decimalToFloat(cost.Monthly),
			Yearly:  decimalToFloat(cost.Yearly),
			Share:   cost.Share,
		}
	}
	if !result.Feasible {
		minimum := decimalToFloat(result.MinimumBudget)
		out.MinimumBudget = &minimum
	}
	return out
}

// MapDomainRequestToStoreRecord flattens a request for persistence. The
// result travels as its API JSON form so the poll path can serve it without
// re-deriving anything.
func MapDomainRequestToStoreRecord(req domain.OptimizationRequest) (storemodels.OptimizationRecord, error) {
	record := storemodels.OptimizationRecord{
		ID:              req.ID,
		Status:          string(req.Status),
		ServiceKindHint: req.Requirement.ServiceKindHint,
		ExpectedUsers:   req.Requirement.ExpectedUsers,
		Performance:     req.Requirement.Performance,
		Notes:           req.Requirement.Notes,
		Budget:          req.Requirement.Budget.String(),
		Region:          req.Requirement.Region,
		CreatedAt:       req.CreatedAt,
		UpdatedAt:       req.UpdatedAt,
		Error:           req.Error,
	}
	if req.Result != nil {
		encoded, err := json.Marshal(MapResultDomainToApi(*req.Result))
		if err != nil {
			return storemodels.OptimizationRecord{}, fmt.Errorf("failed to encode result for %s: %w", req.ID, err)
		}
		record.ResultJSON = encoded
	}
	return record, nil
}

// MapStoreRecordToStatusResponse builds the poll snapshot.
func MapStoreRecordToStatusResponse(record storemodels.OptimizationRecord) (api.StatusResponse, error) {
	createdAt, updatedAt := record.CreatedAt, record.UpdatedAt
	resp := api.StatusResponse{
		ID:        record.ID,
		Status:    record.Status,
		CreatedAt: &createdAt,
		UpdatedAt: &updatedAt,
		Error:     record.Error,
	}
	if len(record.ResultJSON) > 0 {
		var result api.OptimizationResult
		if err := json.Unmarshal(record.ResultJSON, &result); err != nil {
			return api.StatusResponse{}, fmt.Errorf("failed to decode stored result for %s: %w", record.ID, err)
		}
		resp.Result = &result
	}
	return resp, nil
}

// MapResultApiToDomain rehydrates a stored result for downstream consumers
// such as the Terraform renderer. Float costs round-trip through decimals.
func MapResultApiToDomain(result api.OptimizationResult) domain.OptimizationResult {
	out := domain.OptimizationResult{
		Feasible:          result.Feasible,
		TotalCost:         decimal.NewFromFloat(result.TotalCost),
		Budget:            decimal.NewFromFloat(result.Budget),
		Savings:           decimal.NewFromFloat(result.Savings),
		Region:            result.Region,
		BudgetUtilization: result.BudgetUtilization,
		Message:           result.Message,
	}
	if result.MinimumBudget != nil {
		out.MinimumBudget = decimal.NewFromFloat(*result.MinimumBudget)
	}
	for _, sel := range result.Selections {
		out.Selections = append(out.Selections, domain.SelectedService{
			Kind:             domain.ServiceKind(sel.ServiceKind),
			OptionID:         sel.OptionID,
			Quantity:         sel.Quantity,
			UnitMonthlyCost:  floatToCost(sel.UnitMonthlyCost),
			TotalMonthlyCost: floatToCost(sel.TotalMonthlyCost),
			Rationale:        sel.Rationale,
		})
	}
	return out
}

func floatToCost(v *float64) domain.Cost {
	if v == nil {
		return domain.UnavailableCost()
	}
	return domain.NewCost(decimal.NewFromFloat(*v))
}

func costToFloat(c domain.Cost) *float64 {
	if !c.Known {
		return nil
	}
	v := decimalToFloat(c.Amount)
	return &v
}

func decimalToFloat(d decimal.Decimal) float64 {
	v, _ := d.Round(2).Float64()
	return v
}
