package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/cloudforge/stack-advisor/pkg/models/domain"
	"github.com/cloudforge/stack-advisor/pkg/services/catalog"
)

var monthsPerYear = decimal.NewFromInt(12)

// Breakdown partitions a selection list's total cost into semantic buckets by
// classifying each service kind. Selections with unavailable totals are left
// out of the partition.
func Breakdown(cat catalog.Catalog, selections []domain.SelectedService) domain.CostBreakdown {
	monthly := make(map[domain.CostBucket]decimal.Decimal)
	total := decimal.Zero
	for _, sel := range selections {
		if !sel.TotalMonthlyCost.Known {
			continue
		}
		bucket := catalog.Classify(cat, sel.Kind)
		monthly[bucket] = monthly[bucket].Add(sel.TotalMonthlyCost.Amount)
		total = total.Add(sel.TotalMonthlyCost.Amount)
	}

	breakdown := make(domain.CostBreakdown, len(monthly))
	for bucket, amount := range monthly {
		share := 0.0
		if total.IsPositive() {
			share, _ = amount.Div(total).Mul(decimal.NewFromInt(100)).Float64()
		}
		breakdown[bucket] = domain.BucketCost{
			Monthly: amount,
			Yearly:  amount.Mul(monthsPerYear),
			Share:   share,
		}
	}
	return breakdown
}
