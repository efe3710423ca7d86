// Package pricing resolves (service kind, option, region) triples to monthly
// costs. The AWS Price List API is the oracle of record; a static table backs
// it up, and a process-lifetime cache sits in front of both.
package pricing

import (
	"context"

	"github.com/cloudforge/stack-advisor/pkg/models/domain"
)

// Oracle answers price and catalog queries. "No data" is not an error: Price
// returns the unavailable cost and ListOptions returns an empty list. Errors
// mean the transport failed.
type Oracle interface {
	Price(ctx context.Context, kind domain.ServiceKind, optionID, region string) (domain.Cost, error)
	ListOptions(ctx context.Context, kind domain.ServiceKind, region string) ([]string, error)
}
