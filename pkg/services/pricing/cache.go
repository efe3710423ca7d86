package pricing

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cloudforge/stack-advisor/pkg/models/domain"
)

// Origin says where a cached price came from. Fallback values are cached so a
// key is resolved at most once per run, but they are marked so they are never
// mistaken for oracle data.
type Origin string

const (
	OriginOracle   Origin = "oracle"
	OriginFallback Origin = "fallback"
	OriginNone     Origin = "none"
)

type cacheKey struct {
	kind   domain.ServiceKind
	option string
	region string
}

type cacheEntry struct {
	cost   domain.Cost
	origin Origin
}

// Cache memoizes oracle lookups for the lifetime of the process. A key, once
// resolved, is never re-queried against the oracle. Safe for concurrent use;
// two racing lookups of the same uncached key may both hit the oracle, and the
// second write wins (idempotent overwrite).
type Cache struct {
	oracle Oracle

	mu      sync.RWMutex
	prices  map[cacheKey]cacheEntry
	options map[optionsKey][]string
}

type optionsKey struct {
	kind   domain.ServiceKind
	region string
}

func NewCache(oracle Oracle) *Cache {
	return &Cache{
		oracle:  oracle,
		prices:  make(map[cacheKey]cacheEntry),
		options: make(map[optionsKey][]string),
	}
}

// Price resolves one triple: cache, then oracle, then the static fallback
// table. Never returns an error; an unresolvable key yields the unavailable
// cost.
func (c *Cache) Price(ctx context.Context, kind domain.ServiceKind, optionID, region string) domain.Cost {
	key := cacheKey{kind: kind, option: optionID, region: region}

	c.mu.RLock()
	entry, ok := c.prices[key]
	c.mu.RUnlock()
	if ok {
		return entry.cost
	}

	logger := zerolog.Ctx(ctx)

	cost, err := c.oracle.Price(ctx, kind, optionID, region)
	origin := OriginOracle
	if err != nil || !cost.Known {
		if err != nil {
			logger.Warn().Err(err).
				Str("kind", string(kind)).
				Str("option", optionID).
				Msg("pricing oracle failed, trying static fallback")
		}
		if fb, ok := FallbackCost(kind, optionID); ok {
			cost, origin = fb, OriginFallback
		} else {
			cost, origin = domain.UnavailableCost(), OriginNone
		}
	}

	c.mu.Lock()
	c.prices[key] = cacheEntry{cost: cost, origin: origin}
	c.mu.Unlock()

	return cost
}

// Options enumerates the option ids for a kind, memoized per (kind, region).
// Falls back to the catalog's known options when the oracle fails or returns
// nothing.
func (c *Cache) Options(ctx context.Context, kind domain.ServiceKind, region string, known []string) []string {
	key := optionsKey{kind: kind, region: region}

	c.mu.RLock()
	cached, ok := c.options[key]
	c.mu.RUnlock()
	if ok {
		return cached
	}

	options, err := c.oracle.ListOptions(ctx, kind, region)
	if err != nil || len(options) == 0 {
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).
				Str("kind", string(kind)).
				Msg("option catalog query failed, using known options")
		}
		options = known
	}

	c.mu.Lock()
	c.options[key] = options
	c.mu.Unlock()

	return options
}

// Origin reports where a resolved key's price came from. Unresolved keys
// report OriginNone.
func (c *Cache) Origin(kind domain.ServiceKind, optionID, region string) Origin {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.prices[cacheKey{kind: kind, option: optionID, region: region}]
	if !ok {
		return OriginNone
	}
	return entry.origin
}

// Stats summarizes cache contents for logging.
func (c *Cache) Stats() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var oracle, fallback, none int
	for _, e := range c.prices {
		switch e.origin {
		case OriginOracle:
			oracle++
		case OriginFallback:
			fallback++
		default:
			none++
		}
	}
	return fmt.Sprintf("prices=%d (oracle=%d fallback=%d unavailable=%d) catalogs=%d",
		len(c.prices), oracle, fallback, none, len(c.options))
}
