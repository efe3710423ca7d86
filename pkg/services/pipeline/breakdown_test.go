package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudforge/stack-advisor/pkg/models/domain"
	"github.com/cloudforge/stack-advisor/pkg/services/catalog"
)

func TestBreakdown(t *testing.T) {
	cat := catalog.NewCatalog()

	selections := []domain.SelectedService{
		selection(domain.KindCompute, "t2.small", 2, 17),       // compute: 34
		selection(domain.KindDatabase, "db.t3.micro", 1, 15),   // storage: 15
		selection(domain.KindObjectStorage, "standard", 1, 23), // storage: +23
		selection(domain.KindCDN, "standard", 1, 44),           // networking: 44
		{Kind: domain.KindMonitoring, TotalMonthlyCost: domain.UnavailableCost()},
	}

	breakdown := Breakdown(cat, selections)

	require.Len(t, breakdown, 3, "unavailable totals stay out of the partition")

	compute := breakdown[domain.BucketCompute]
	assert.Equal(t, "34", compute.Monthly.String())
	assert.Equal(t, "408", compute.Yearly.String())

	storage := breakdown[domain.BucketStorage]
	assert.Equal(t, "38", storage.Monthly.String())

	networking := breakdown[domain.BucketNetworking]
	assert.Equal(t, "44", networking.Monthly.String())

	var shares float64
	for _, b := range breakdown {
		shares += b.Share
	}
	assert.InDelta(t, 100, shares, 0.01)
}

func TestBreakdown_Empty(t *testing.T) {
	assert.Empty(t, Breakdown(catalog.NewCatalog(), nil))
}
