package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awspricing "github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cloudforge/stack-advisor/pkg/models/domain"
	"github.com/cloudforge/stack-advisor/pkg/services/catalog"
)

const (
	hoursPerMonth = 24 * 30

	// Storage rates come back per GB-month; size the estimate at 1 TB.
	storageEstimateGB = 1000

	maxCatalogResults = 100
)

// pricingAPI is the slice of the Price List client the oracle needs.
type pricingAPI interface {
	GetProducts(
		ctx context.Context,
		in *awspricing.GetProductsInput,
		opts ...func(*awspricing.Options),
	) (*awspricing.GetProductsOutput, error)
}

// AWSOracle resolves prices through the AWS Price List API.
type AWSOracle struct {
	api     pricingAPI
	catalog catalog.Catalog
}

func NewAWSOracle(api pricingAPI, cat catalog.Catalog) *AWSOracle {
	return &AWSOracle{api: api, catalog: cat}
}

// locationNames maps region codes to the Price List location attribute.
var locationNames = map[string]string{
	"us-east-1":      "US East (N. Virginia)",
	"us-west-2":      "US West (Oregon)",
	"eu-west-1":      "Europe (Ireland)",
	"ap-northeast-2": "Asia Pacific (Seoul)",
	"ap-southeast-1": "Asia Pacific (Singapore)",
}

func locationName(region string) string {
	if name, ok := locationNames[region]; ok {
		return name
	}
	return locationNames["us-east-1"]
}

// optionFilters builds the TERM_MATCH filters narrowing one option of a kind.
// Kinds without a specific shape here are matched by location alone and take
// whatever the first product term says.
func optionFilters(kind domain.ServiceKind, optionID string) []types.Filter {
	match := func(field, value string) types.Filter {
		return types.Filter{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String(field),
			Value: aws.String(value),
		}
	}

	switch kind {
	case domain.KindCompute:
		return []types.Filter{
			match("instanceType", optionID),
			match("operatingSystem", "Linux"),
			match("tenancy", "Shared"),
			match("preInstalledSw", "NA"),
		}
	case domain.KindDatabase:
		return []types.Filter{
			match("instanceType", optionID),
			match("databaseEngine", "MySQL"),
			match("deploymentOption", "Single-AZ"),
		}
	case domain.KindCache:
		return []types.Filter{
			match("instanceType", optionID),
			match("cacheEngine", "Redis"),
		}
	case domain.KindMLPlatform:
		return []types.Filter{match("instanceType", optionID)}
	case domain.KindLoadBalancer:
		return []types.Filter{match("productFamily", "Load Balancer-Application")}
	case domain.KindObjectStorage:
		return []types.Filter{match("storageClass", "General Purpose")}
	case domain.KindServerless:
		return []types.Filter{match("group", "AWS-Lambda-Requests")}
	case domain.KindCDN:
		return []types.Filter{match("productFamily", "Data Transfer")}
	default:
		return nil
	}
}

func (o *AWSOracle) Price(
	ctx context.Context,
	kind domain.ServiceKind,
	optionID, region string,
) (domain.Cost, error) {
	entry, ok := o.catalog.Lookup(kind)
	if !ok {
		return domain.UnavailableCost(), nil
	}

	filters := append(optionFilters(kind, optionID), types.Filter{
		Type:  types.FilterTypeTermMatch,
		Field: aws.String("location"),
		Value: aws.String(locationName(region)),
	})

	out, err := o.api.GetProducts(ctx, &awspricing.GetProductsInput{
		ServiceCode: aws.String(entry.AWSServiceCode),
		Filters:     filters,
	})
	if err != nil {
		return domain.UnavailableCost(), fmt.Errorf("price list query for %s/%s failed: %w", kind, optionID, err)
	}
	if len(out.PriceList) == 0 {
		return domain.UnavailableCost(), nil
	}

	rate, ok := rateFromPriceList(out.PriceList[0])
	if !ok {
		return domain.UnavailableCost(), nil
	}

	monthly := rate.Mul(decimal.NewFromInt(hoursPerMonth))
	if kind == domain.KindObjectStorage {
		monthly = rate.Mul(decimal.NewFromInt(storageEstimateGB))
	}

	zerolog.Ctx(ctx).Debug().
		Str("kind", string(kind)).
		Str("option", optionID).
		Str("region", region).
		Str("monthly", monthly.StringFixed(2)).
		Msg("price resolved from oracle")

	return domain.NewCost(monthly), nil
}

func (o *AWSOracle) ListOptions(
	ctx context.Context,
	kind domain.ServiceKind,
	region string,
) ([]string, error) {
	entry, ok := o.catalog.Lookup(kind)
	if !ok {
		return nil, nil
	}

	out, err := o.api.GetProducts(ctx, &awspricing.GetProductsInput{
		ServiceCode: aws.String(entry.AWSServiceCode),
		Filters: []types.Filter{{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String("location"),
			Value: aws.String(locationName(region)),
		}},
		MaxResults: aws.Int32(maxCatalogResults),
	})
	if err != nil {
		return nil, fmt.Errorf("option catalog query for %s failed: %w", kind, err)
	}

	seen := make(map[string]struct{})
	for _, raw := range out.PriceList {
		var product struct {
			Product struct {
				Attributes map[string]string `json:"attributes"`
			} `json:"product"`
		}
		if err := json.Unmarshal([]byte(raw), &product); err != nil {
			continue
		}

		attrs := product.Product.Attributes
		switch {
		case attrs["instanceType"] != "":
			seen[attrs["instanceType"]] = struct{}{}
		case attrs["instanceClass"] != "":
			seen[attrs["instanceClass"]] = struct{}{}
		case attrs["storageClass"] != "":
			seen[attrs["storageClass"]] = struct{}{}
		default:
			seen["standard"] = struct{}{}
		}
	}

	options := make([]string, 0, len(seen))
	for id := range seen {
		options = append(options, id)
	}
	sort.Strings(options)
	return options, nil
}

// priceListEntry is the slice of a Price List product document we read.
type priceListEntry struct {
	Terms struct {
		OnDemand map[string]struct {
			PriceDimensions map[string]struct {
				PricePerUnit struct {
					USD string `json:"USD"`
				} `json:"pricePerUnit"`
			} `json:"priceDimensions"`
		} `json:"OnDemand"`
	} `json:"terms"`
}

// rateFromPriceList extracts a usable USD rate from one product document.
// Positive dimensions win; a document carrying only zero-priced dimensions
// (free tiers) still yields a valid zero rate, distinct from "no data".
func rateFromPriceList(raw string) (decimal.Decimal, bool) {
	var entry priceListEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return decimal.Zero, false
	}

	sawZero := false
	for _, term := range entry.Terms.OnDemand {
		for _, dim := range term.PriceDimensions {
			v, err := strconv.ParseFloat(dim.PricePerUnit.USD, 64)
			if err != nil {
				continue
			}
			if v > 0 {
				return decimal.NewFromFloat(v), true
			}
			sawZero = true
		}
	}
	if sawZero {
		return decimal.Zero, true
	}
	return decimal.Zero, false
}
