package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudforge/stack-advisor/pkg/models/domain"
	"github.com/cloudforge/stack-advisor/pkg/services/catalog"
)

func TestSelector_ReasonerPath(t *testing.T) {
	r := &stubReasoner{text: "```json\n" + `{"candidates": [
		{"kind": "compute", "rationale": "app servers"},
		{"kind": "EC2", "rationale": "duplicate via alias"},
		{"kind": "rds", "rationale": "relational data"},
		{"kind": "quantum-annealer", "rationale": "nonsense"}
	]}` + "\n```"}
	s := NewSelector(r, catalog.NewCatalog())

	candidates, path := s.Select(context.Background(), domain.Requirement{ServiceKindHint: "web"})

	assert.Equal(t, domain.PathReasoner, path)
	require.Len(t, candidates, 2, "duplicates and unknown kinds must be dropped")
	assert.Equal(t, domain.KindCompute, candidates[0].Kind)
	assert.Equal(t, "app servers", candidates[0].Rationale)
	assert.Equal(t, domain.KindDatabase, candidates[1].Kind)
}

func TestSelector_FallbackOnReasonerError(t *testing.T) {
	s := NewSelector(downReasoner(), catalog.NewCatalog())

	candidates, path := s.Select(context.Background(), domain.Requirement{ServiceKindHint: "web service"})

	assert.Equal(t, domain.PathFallback, path)
	kinds := candidateKinds(candidates)
	assert.Equal(t, []domain.ServiceKind{
		domain.KindCompute, domain.KindDatabase, domain.KindCDN, domain.KindMonitoring,
	}, kinds)
}

func TestSelector_FallbackOnGarbageResponse(t *testing.T) {
	r := &stubReasoner{text: "I would recommend thinking about scalability."}
	s := NewSelector(r, catalog.NewCatalog())

	candidates, path := s.Select(context.Background(), domain.Requirement{ServiceKindHint: "database"})

	assert.Equal(t, domain.PathFallback, path)
	assert.Equal(t, []domain.ServiceKind{
		domain.KindDatabase, domain.KindObjectStorage,
	}, candidateKinds(candidates))
}

func TestSelector_FallbackWhenAllKindsUnrecognized(t *testing.T) {
	r := &stubReasoner{text: `{"candidates": [{"kind": "hovercraft", "rationale": "?"}]}`}
	s := NewSelector(r, catalog.NewCatalog())

	_, path := s.Select(context.Background(), domain.Requirement{ServiceKindHint: "web"})
	assert.Equal(t, domain.PathFallback, path)
}

func TestSelector_FallbackRuleTable(t *testing.T) {
	s := NewSelector(downReasoner(), catalog.NewCatalog())

	tests := []struct {
		hint     string
		expected []domain.ServiceKind
	}{
		{"api backend", []domain.ServiceKind{domain.KindCompute, domain.KindDatabase, domain.KindCDN, domain.KindMonitoring}},
		{"ml training", []domain.ServiceKind{domain.KindCompute, domain.KindObjectStorage}},
		{"file storage", []domain.ServiceKind{domain.KindObjectStorage}},
		{"analytics platform", []domain.ServiceKind{domain.KindCompute, domain.KindObjectStorage}},
		{"something else entirely", []domain.ServiceKind{domain.KindCompute, domain.KindObjectStorage}},
	}

	for _, tt := range tests {
		t.Run(tt.hint, func(t *testing.T) {
			candidates, _ := s.Select(context.Background(), domain.Requirement{ServiceKindHint: tt.hint})
			assert.Equal(t, tt.expected, candidateKinds(candidates))
		})
	}
}

func candidateKinds(candidates []domain.ServiceCandidate) []domain.ServiceKind {
	kinds := make([]domain.ServiceKind, 0, len(candidates))
	for _, c := range candidates {
		kinds = append(kinds, c.Kind)
	}
	return kinds
}
