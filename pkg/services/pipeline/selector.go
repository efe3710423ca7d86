// Package pipeline implements the budget-constrained optimization stages:
// candidate selection, option pricing, budget optimization, cost
// reconciliation and budget squeezing, plus the runner that chains them.
// Every reasoner-assisted stage carries a deterministic fallback; no stage
// surfaces an external-call failure to the caller.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cloudforge/stack-advisor/pkg/models/domain"
	"github.com/cloudforge/stack-advisor/pkg/services/catalog"
	"github.com/cloudforge/stack-advisor/pkg/services/reasoner"
)

// Selector asks the reasoner for the service kinds a requirement needs,
// independent of price. It never fails: a malformed or unreachable reasoner
// degrades to a rule-table fallback keyed by the service kind hint.
type Selector struct {
	reasoner reasoner.Reasoner
	catalog  catalog.Catalog
}

func NewSelector(r reasoner.Reasoner, cat catalog.Catalog) *Selector {
	return &Selector{reasoner: r, catalog: cat}
}

type candidateResponse struct {
	Candidates []struct {
		Kind      string `json:"kind"`
		Rationale string `json:"rationale"`
	} `json:"candidates"`
}

func (s *Selector) Select(ctx context.Context, req domain.Requirement) ([]domain.ServiceCandidate, domain.SelectionPath) {
	logger := zerolog.Ctx(ctx)

	text, err := s.reasoner.Infer(ctx, s.prompt(req))
	if err == nil {
		var resp candidateResponse
		if perr := reasoner.ExtractObject(text, &resp); perr == nil {
			if candidates := s.normalize(ctx, resp); len(candidates) > 0 {
				logger.Info().Int("candidates", len(candidates)).Msg("selector used reasoner")
				return candidates, domain.PathReasoner
			}
			logger.Warn().Msg("reasoner candidates all unrecognized, using rule table")
		} else {
			logger.Warn().Err(perr).Msg("reasoner candidate response unparseable, using rule table")
		}
	} else {
		logger.Warn().Err(err).Msg("reasoner unavailable for selection, using rule table")
	}

	return s.fallback(req), domain.PathFallback
}

func (s *Selector) normalize(ctx context.Context, resp candidateResponse) []domain.ServiceCandidate {
	var out []domain.ServiceCandidate
	seen := make(map[domain.ServiceKind]bool)
	for _, c := range resp.Candidates {
		kind, ok := catalog.NormalizeKind(s.catalog, c.Kind)
		if !ok {
			zerolog.Ctx(ctx).Debug().Str("kind", c.Kind).Msg("dropping unrecognized candidate kind")
			continue
		}
		if seen[kind] {
			continue
		}
		seen[kind] = true
		out = append(out, domain.ServiceCandidate{Kind: kind, Rationale: c.Rationale})
	}
	return out
}

func (s *Selector) prompt(req domain.Requirement) string {
	var b strings.Builder
	b.WriteString("You are designing a cloud architecture that must survive disaster conditions: ")
	b.WriteString("sudden 10-100x traffic surges, DDoS attacks, and server or database failure.\n\n")
	b.WriteString("Workload profile:\n")
	fmt.Fprintf(&b, "- service type: %s\n", req.ServiceKindHint)
	fmt.Fprintf(&b, "- expected users: %s\n", req.ExpectedUsers)
	fmt.Fprintf(&b, "- performance requirement: %s\n", req.Performance)
	fmt.Fprintf(&b, "- notes: %s\n", req.Notes)
	fmt.Fprintf(&b, "- region: %s\n\n", req.Region)
	b.WriteString("Ignore budget entirely. Enumerate every service category plausibly needed ")
	b.WriteString("for baseline function and for resilience. Available categories:\n")
	for _, kind := range s.catalog.Kinds() {
		entry, _ := s.catalog.Lookup(kind)
		fmt.Fprintf(&b, "- %s: %s\n", kind, entry.Description)
	}
	b.WriteString("\nRespond with JSON only:\n")
	b.WriteString(`{"candidates": [{"kind": "compute", "rationale": "why this category is needed"}]}`)
	return b.String()
}

// fallback is the deterministic rule table keyed by the service kind hint. It
// produces a smaller, hand-curated candidate set.
func (s *Selector) fallback(req domain.Requirement) []domain.ServiceCandidate {
	hint := strings.ToLower(req.ServiceKindHint)

	switch {
	case containsAny(hint, "web", "api", "site", "game"):
		return []domain.ServiceCandidate{
			{Kind: domain.KindCompute, Rationale: "web/API servers with auto scaling"},
			{Kind: domain.KindDatabase, Rationale: "application database"},
			{Kind: domain.KindCDN, Rationale: "traffic distribution and DDoS absorption"},
			{Kind: domain.KindMonitoring, Rationale: "availability monitoring and alerts"},
		}
	case containsAny(hint, "database", "db"):
		return []domain.ServiceCandidate{
			{Kind: domain.KindDatabase, Rationale: "primary managed database"},
			{Kind: domain.KindObjectStorage, Rationale: "backup storage"},
		}
	case containsAny(hint, "ml", "machine", "ai", "model"):
		return []domain.ServiceCandidate{
			{Kind: domain.KindCompute, Rationale: "training and inference workloads"},
			{Kind: domain.KindObjectStorage, Rationale: "dataset and model storage"},
		}
	case containsAny(hint, "storage", "file", "backup"):
		return []domain.ServiceCandidate{
			{Kind: domain.KindObjectStorage, Rationale: "durable file storage"},
		}
	case containsAny(hint, "analytics", "analysis", "report"):
		return []domain.ServiceCandidate{
			{Kind: domain.KindCompute, Rationale: "analytics processing"},
			{Kind: domain.KindObjectStorage, Rationale: "data lake storage"},
		}
	default:
		return []domain.ServiceCandidate{
			{Kind: domain.KindCompute, Rationale: "general purpose servers"},
			{Kind: domain.KindObjectStorage, Rationale: "storage and backups"},
		}
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
